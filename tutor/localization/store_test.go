package localization

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"historytutor/tutor/utils/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memPersister struct {
	stored  *types.Preferences
	saves   int
	saveErr error
}

func (m *memPersister) Load(context.Context) (types.Preferences, bool, error) {
	if m.stored == nil {
		return types.Preferences{}, false, nil
	}
	return *m.stored, true, nil
}

func (m *memPersister) Save(_ context.Context, p types.Preferences) error {
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.stored = &p
	return nil
}

type mapBundles map[types.Language][]byte

func (b mapBundles) GetLocaleBundle(_ context.Context, lang types.Language) ([]byte, error) {
	return b[lang], nil
}

func TestEveryLanguageCoversEveryKey(t *testing.T) {
	for _, lang := range types.Languages {
		data, err := localeFS.ReadFile("locales/" + string(lang) + ".properties")
		require.NoError(t, err)
		tbl, err := parseTable(data)
		require.NoError(t, err)
		assert.Empty(t, tbl.missing(), "language %s", lang)
		assert.Len(t, tbl, len(AllKeys), "language %s has keys outside AllKeys", lang)
	}
}

func TestTranslate(t *testing.T) {
	s, err := NewStore(nil)
	require.NoError(t, err)
	ctx := context.Background()

	assert.Equal(t, "Ask about history...", s.T(ChatPlaceholder))
	require.NoError(t, s.SetLanguage(ctx, types.LanguageSpanish))
	assert.Equal(t, "Pregunta sobre historia...", s.T(ChatPlaceholder))
	require.NoError(t, s.SetLanguage(ctx, types.LanguageHaitian))
	assert.Equal(t, "Mande sou istwa...", s.T(ChatPlaceholder))

	assert.Equal(t, "nonexistent.key", s.T(Key("nonexistent.key")))
}

func TestSettersValidateAndPersist(t *testing.T) {
	p := &memPersister{}
	s, err := NewStore(p)
	require.NoError(t, err)
	ctx := context.Background()

	err = s.SetLanguage(ctx, "fr")
	assert.ErrorIs(t, err, ErrUnsupportedLanguage)
	assert.ErrorIs(t, s.SetFontSize(ctx, "huge"), ErrUnsupportedFontSize)
	assert.ErrorIs(t, s.SetFontFamily(ctx, "comic"), ErrUnsupportedFontFamily)
	assert.Equal(t, 0, p.saves)
	assert.Equal(t, types.DefaultPreferences(), s.Preferences())

	require.NoError(t, s.SetFontSize(ctx, types.FontLarge))
	require.NoError(t, s.SetFontFamily(ctx, types.FontDyslexic))
	assert.Equal(t, 2, p.saves)
	assert.Equal(t, types.Preferences{
		Language:   types.LanguageEnglish,
		FontSize:   types.FontLarge,
		FontFamily: types.FontDyslexic,
	}, *p.stored)
}

func TestSaveFailureKeepsValue(t *testing.T) {
	p := &memPersister{saveErr: errors.New("disk full")}
	s, err := NewStore(p)
	require.NoError(t, err)

	err = s.SetLanguage(context.Background(), types.LanguageSpanish)
	assert.Error(t, err)
	assert.Equal(t, types.LanguageSpanish, s.Language())
}

func TestLoadIgnoresInvalidFields(t *testing.T) {
	p := &memPersister{stored: &types.Preferences{
		Language:   types.LanguageHaitian,
		FontSize:   "gigantic",
		FontFamily: types.FontSans,
	}}
	s, err := NewStore(p)
	require.NoError(t, err)
	require.NoError(t, s.Load(context.Background()))

	assert.Equal(t, types.Preferences{
		Language:   types.LanguageHaitian,
		FontSize:   types.FontSmall,
		FontFamily: types.FontSans,
	}, s.Preferences())
}

func TestLoadNothingStored(t *testing.T) {
	s, err := NewStore(&memPersister{})
	require.NoError(t, err)
	require.NoError(t, s.Load(context.Background()))
	assert.Equal(t, types.DefaultPreferences(), s.Preferences())
}

func TestFontClasses(t *testing.T) {
	assert.Equal(t, FontClasses{Message: "text-sm", UI: "text-xs"}, FontClassesFor(types.FontSmall))
	assert.Equal(t, FontClasses{Message: "text-base", UI: "text-sm"}, FontClassesFor(types.FontMedium))
	assert.Equal(t, FontClasses{Message: "text-lg", UI: "text-base"}, FontClassesFor(types.FontLarge))

	s, err := NewStore(nil)
	require.NoError(t, err)
	assert.Equal(t, "text-sm", s.FontClasses().Message)
}

func TestApplyOverlays(t *testing.T) {
	s, err := NewStore(nil)
	require.NoError(t, err)

	err = s.ApplyOverlays(context.Background(), mapBundles{
		types.LanguageSpanish: []byte("chat.send=Mandar\nnot.a.key=ignored\n"),
	})
	require.NoError(t, err)

	assert.Equal(t, "Mandar", s.TIn(types.LanguageSpanish, ChatSend))
	assert.Equal(t, "Enviando...", s.TIn(types.LanguageSpanish, ChatSending))
	assert.Equal(t, "Send", s.TIn(types.LanguageEnglish, ChatSend))
}

func TestNegotiateLanguage(t *testing.T) {
	cases := map[string]types.Language{
		"":                        types.LanguageEnglish,
		"es-MX,es;q=0.9,en;q=0.8": types.LanguageSpanish,
		"ht":                      types.LanguageHaitian,
		"en-GB":                   types.LanguageEnglish,
		"de-DE":                   types.LanguageEnglish,
		";;;garbage":              types.LanguageEnglish,
	}
	for header, want := range cases {
		assert.Equal(t, want, NegotiateLanguage(header), header)
	}
}

func TestHTTPBundleSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/locales/ht":
			w.Write([]byte("chat.send=Voye kounye a\n"))
		case "/api/locales/es":
			w.WriteHeader(http.StatusNoContent)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	s, err := NewStore(nil)
	require.NoError(t, err)
	require.NoError(t, s.ApplyOverlays(context.Background(), NewHTTPBundleSource(srv.URL, srv.Client())))
	assert.Equal(t, "Voye kounye a", s.TIn(types.LanguageHaitian, ChatSend))
	assert.Equal(t, "Enviar", s.TIn(types.LanguageSpanish, ChatSend))

	// overlays never leak into other stores
	fresh, err := NewStore(nil)
	require.NoError(t, err)
	assert.Equal(t, "Voye", fresh.TIn(types.LanguageHaitian, ChatSend))
}

func TestWithDefaults(t *testing.T) {
	s, err := NewStore(&memPersister{}, WithDefaults(types.Preferences{Language: types.LanguageSpanish, FontSize: "bogus"}))
	require.NoError(t, err)
	require.NoError(t, s.Load(context.Background()))
	assert.Equal(t, types.Preferences{
		Language:   types.LanguageSpanish,
		FontSize:   types.FontSmall,
		FontFamily: types.FontGaramond,
	}, s.Preferences())
	assert.Equal(t, "Enviar", s.T(ChatSend))
}

func TestDefaultSuggestionsFollowLanguage(t *testing.T) {
	s, err := NewStore(nil)
	require.NoError(t, err)
	en := s.DefaultSuggestions()
	assert.Equal(t, "What historical period should we explore first?", en[0])

	require.NoError(t, s.SetLanguage(context.Background(), types.LanguageSpanish))
	es := s.DefaultSuggestions()
	assert.NotEqual(t, en, es)
	for _, q := range es {
		assert.NotEmpty(t, q)
	}
}
