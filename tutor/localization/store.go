package localization

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"sync"

	"historytutor/tutor/utils/logging"
	"historytutor/tutor/utils/types"

	"github.com/magiconair/properties"
	"go.uber.org/zap"
)

//go:embed locales/*.properties
var localeFS embed.FS

var (
	ErrUnsupportedLanguage   = errors.New("unsupported language")
	ErrUnsupportedFontSize   = errors.New("unsupported font size")
	ErrUnsupportedFontFamily = errors.New("unsupported font family")
)

// Persister stores preferences between runs. Load reports ok=false when
// nothing has been stored yet.
type Persister interface {
	Load(ctx context.Context) (types.Preferences, bool, error)
	Save(ctx context.Context, p types.Preferences) error
}

// BundleSource serves optional .properties overlays per language. A nil
// bundle with a nil error means no overlay.
type BundleSource interface {
	GetLocaleBundle(ctx context.Context, lang types.Language) ([]byte, error)
}

type table map[Key]string

// Store holds the active preferences and the per-language string tables.
type Store struct {
	mu        sync.RWMutex
	prefs     types.Preferences
	tables    map[types.Language]table
	persister Persister
}

var (
	baseOnce   sync.Once
	baseTables map[types.Language]table
	baseErr    error
)

func loadBaseTables() (map[types.Language]table, error) {
	baseOnce.Do(func() {
		baseTables = make(map[types.Language]table, len(types.Languages))
		for _, lang := range types.Languages {
			data, err := localeFS.ReadFile("locales/" + string(lang) + ".properties")
			if err != nil {
				baseErr = fmt.Errorf("locale %s: %w", lang, err)
				return
			}
			t, err := parseTable(data)
			if err != nil {
				baseErr = fmt.Errorf("locale %s: %w", lang, err)
				return
			}
			if missing := t.missing(); len(missing) > 0 {
				baseErr = fmt.Errorf("locale %s: missing keys %v", lang, missing)
				return
			}
			baseTables[lang] = t
		}
	})
	return baseTables, baseErr
}

type StoreOption func(*Store)

// WithDefaults replaces the starting preferences. Invalid fields keep the
// built-in defaults.
func WithDefaults(p types.Preferences) StoreOption {
	return func(s *Store) { s.prefs = p.Merge(s.prefs) }
}

// NewStore starts from the embedded tables and default preferences. A nil
// persister keeps preferences in memory only.
func NewStore(persister Persister, opts ...StoreOption) (*Store, error) {
	base, err := loadBaseTables()
	if err != nil {
		return nil, err
	}
	tables := make(map[types.Language]table, len(base))
	for lang, t := range base {
		c := make(table, len(t))
		for k, v := range t {
			c[k] = v
		}
		tables[lang] = c
	}
	s := &Store{
		prefs:     types.DefaultPreferences(),
		tables:    tables,
		persister: persister,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func parseTable(data []byte) (table, error) {
	props, err := properties.Load(data, properties.UTF8)
	if err != nil {
		return nil, err
	}
	t := make(table, props.Len())
	for _, k := range props.Keys() {
		if !knownKeys[Key(k)] {
			logging.AppLogger.Warn("unknown locale key ignored", zap.String("key", k))
			continue
		}
		t[Key(k)] = props.MustGetString(k)
	}
	return t, nil
}

func (t table) missing() []Key {
	var out []Key
	for _, k := range AllKeys {
		if _, ok := t[k]; !ok {
			out = append(out, k)
		}
	}
	return out
}

// ApplyOverlays replaces individual entries with those found in src.
// A language whose overlay cannot be fetched or parsed keeps its embedded
// table; the first such error is returned.
func (s *Store) ApplyOverlays(ctx context.Context, src BundleSource) error {
	var firstErr error
	for _, lang := range types.Languages {
		data, err := src.GetLocaleBundle(ctx, lang)
		if err == nil && data != nil {
			var overlay table
			if overlay, err = parseTable(data); err == nil {
				s.mu.Lock()
				for k, v := range overlay {
					s.tables[lang][k] = v
				}
				s.mu.Unlock()
				logging.AppLogger.Info("locale overlay applied",
					zap.String("language", string(lang)), zap.Int("entries", len(overlay)))
			}
		}
		if err != nil {
			logging.ErrorLogger.Error("locale overlay failed", zap.String("language", string(lang)), zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// Load restores stored preferences. Invalid fields are ignored one by one
// and keep their current value.
func (s *Store) Load(ctx context.Context) error {
	if s.persister == nil {
		return nil
	}
	stored, ok, err := s.persister.Load(ctx)
	if err != nil || !ok {
		return err
	}
	s.mu.Lock()
	s.prefs = stored.Merge(s.prefs)
	s.mu.Unlock()
	return nil
}

// T returns the string for key in the active language, or the key itself.
func (s *Store) T(key Key) string {
	return s.TIn(s.Language(), key)
}

func (s *Store) TIn(lang types.Language, key Key) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := s.tables[lang][key]; ok {
		return v
	}
	return string(key)
}

func (s *Store) Preferences() types.Preferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prefs
}

func (s *Store) Language() types.Language { return s.Preferences().Language }

func (s *Store) SetLanguage(ctx context.Context, lang types.Language) error {
	if !lang.Valid() {
		return fmt.Errorf("%w: %q", ErrUnsupportedLanguage, lang)
	}
	return s.update(ctx, func(p *types.Preferences) { p.Language = lang })
}

func (s *Store) SetFontSize(ctx context.Context, size types.FontSize) error {
	if !size.Valid() {
		return fmt.Errorf("%w: %q", ErrUnsupportedFontSize, size)
	}
	return s.update(ctx, func(p *types.Preferences) { p.FontSize = size })
}

func (s *Store) SetFontFamily(ctx context.Context, family types.FontFamily) error {
	if !family.Valid() {
		return fmt.Errorf("%w: %q", ErrUnsupportedFontFamily, family)
	}
	return s.update(ctx, func(p *types.Preferences) { p.FontFamily = family })
}

// update applies fn and persists before returning. The in-memory value
// stays updated even when saving fails.
func (s *Store) update(ctx context.Context, fn func(p *types.Preferences)) error {
	s.mu.Lock()
	fn(&s.prefs)
	prefs := s.prefs
	s.mu.Unlock()

	if s.persister == nil {
		return nil
	}
	if err := s.persister.Save(ctx, prefs); err != nil {
		logging.ErrorLogger.Error("save preferences", zap.Error(err))
		return fmt.Errorf("save preferences: %w", err)
	}
	return nil
}

// DefaultSuggestions returns the opening prompts in the active language.
func (s *Store) DefaultSuggestions() types.SuggestionSet {
	var set types.SuggestionSet
	for i, k := range DefaultSuggestionKeys {
		set[i] = s.T(k)
	}
	return set
}

// FontClasses are the size classes for message text and surrounding UI.
type FontClasses struct {
	Message string `json:"message"`
	UI      string `json:"ui"`
}

func (s *Store) FontClasses() FontClasses {
	return FontClassesFor(s.Preferences().FontSize)
}

func FontClassesFor(size types.FontSize) FontClasses {
	switch size {
	case types.FontMedium:
		return FontClasses{Message: "text-base", UI: "text-sm"}
	case types.FontLarge:
		return FontClasses{Message: "text-lg", UI: "text-base"}
	default:
		return FontClasses{Message: "text-sm", UI: "text-xs"}
	}
}
