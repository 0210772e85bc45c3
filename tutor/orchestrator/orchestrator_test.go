package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"historytutor/tutor/services/llm"
	"historytutor/tutor/services/uistream"
	"historytutor/tutor/utils/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	defaultSet  = types.SuggestionSet{"d1", "d2", "d3", "d4", "d5", "d6"}
	fallbackSet = types.SuggestionSet{"f1", "f2", "f3", "f4", "f5", "f6"}
)

// scriptedStreamer replays chunks and records every request.
type scriptedStreamer struct {
	mu      sync.Mutex
	chunks  []llm.Chunk
	openErr error
	gate    chan struct{}
	reqs    []types.ChatRequest
}

func (s *scriptedStreamer) Stream(ctx context.Context, req types.ChatRequest) (<-chan llm.Chunk, error) {
	s.mu.Lock()
	s.reqs = append(s.reqs, req)
	s.mu.Unlock()
	if s.openErr != nil {
		return nil, s.openErr
	}
	ch := make(chan llm.Chunk)
	go func() {
		defer close(ch)
		if s.gate != nil {
			<-s.gate
		}
		for _, c := range s.chunks {
			ch <- c
		}
	}()
	return ch, nil
}

type recordingGenerator struct {
	mu    sync.Mutex
	calls [][]types.UIMessage
}

func (g *recordingGenerator) Regenerate(_ context.Context, history []types.UIMessage) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, history)
	return true
}

func sequentialIDs() ChatOption {
	n := 0
	return WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("m%d", n)
	})
}

func TestSubmitStreamsReplyAndRegenerates(t *testing.T) {
	streamer := &scriptedStreamer{chunks: []llm.Chunk{
		{Content: "Julio César fue "},
		{Content: "un general romano."},
	}}
	gen := &recordingGenerator{}
	chat := NewChat(streamer, gen, sequentialIDs())

	var statuses []Status
	chat.OnChange(func() { statuses = append(statuses, chat.Status()) })

	ok, err := chat.Submit(context.Background(), "  ¿Quién fue Julio César?  ", types.LanguageSpanish)
	require.NoError(t, err)
	require.True(t, ok)

	msgs := chat.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, types.RoleUser, msgs[0].Role)
	assert.Equal(t, "¿Quién fue Julio César?", msgs[0].Text())
	require.NotNil(t, msgs[0].Metadata)
	assert.Equal(t, types.LanguageSpanish, msgs[0].Metadata.Language)
	assert.Equal(t, types.RoleAssistant, msgs[1].Role)
	assert.Equal(t, "Julio César fue un general romano.", msgs[1].Text())
	assert.Equal(t, "m2", msgs[1].ID)

	require.Len(t, streamer.reqs, 1)
	assert.Equal(t, types.LanguageSpanish, streamer.reqs[0].Language)
	assert.Len(t, streamer.reqs[0].Messages, 1)

	require.Len(t, gen.calls, 1)
	assert.Len(t, gen.calls[0], 2)

	assert.Equal(t, StatusIdle, chat.Status())
	assert.NoError(t, chat.Err())
	assert.Equal(t, StatusSubmitted, statuses[0])
	assert.Contains(t, statuses, StatusStreaming)
	assert.Equal(t, StatusIdle, statuses[len(statuses)-1])
}

func TestSubmitBlankIsNoop(t *testing.T) {
	streamer := &scriptedStreamer{}
	chat := NewChat(streamer, nil)
	for _, text := range []string{"", "   ", "\n\t"} {
		ok, err := chat.Submit(context.Background(), text, types.LanguageEnglish)
		assert.False(t, ok)
		assert.NoError(t, err)
	}
	assert.Empty(t, chat.Messages())
	assert.Empty(t, streamer.reqs)
}

func TestSubmitWhileBusyIsNoop(t *testing.T) {
	streamer := &scriptedStreamer{gate: make(chan struct{}), chunks: []llm.Chunk{{Content: "hi"}}}
	chat := NewChat(streamer, nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		chat.Submit(context.Background(), "first", types.LanguageEnglish)
	}()
	require.Eventually(t, func() bool { return chat.Status() == StatusSubmitted }, time.Second, time.Millisecond)

	ok, err := chat.Submit(context.Background(), "second", types.LanguageEnglish)
	assert.False(t, ok)
	assert.NoError(t, err)
	assert.False(t, chat.Reset())

	close(streamer.gate)
	<-done
	assert.Len(t, chat.Messages(), 2)
	assert.Len(t, streamer.reqs, 1)
}

func TestSubmitStreamErrorKeepsPartial(t *testing.T) {
	boom := errors.New("provider went away")
	streamer := &scriptedStreamer{chunks: []llm.Chunk{{Content: "The Roman Rep"}, {Err: boom}}}
	gen := &recordingGenerator{}
	chat := NewChat(streamer, gen)

	ok, err := chat.Submit(context.Background(), "Tell me about Rome", types.LanguageEnglish)
	assert.True(t, ok)
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, chat.Err(), boom)
	assert.Equal(t, StatusIdle, chat.Status())

	msgs := chat.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "The Roman Rep", msgs[1].Text())
	assert.Empty(t, gen.calls)

	streamer.chunks = []llm.Chunk{{Content: "ok"}}
	_, err = chat.Submit(context.Background(), "again", types.LanguageEnglish)
	require.NoError(t, err)
	assert.NoError(t, chat.Err())
}

func TestSubmitOpenErrorLeavesOnlyUserMessage(t *testing.T) {
	streamer := &scriptedStreamer{openErr: errors.New("401")}
	chat := NewChat(streamer, nil)

	ok, err := chat.Submit(context.Background(), "hello", types.LanguageEnglish)
	assert.True(t, ok)
	assert.Error(t, err)
	assert.Len(t, chat.Messages(), 1)
	assert.Equal(t, StatusIdle, chat.Status())
}

func TestSubmitEmptyStream(t *testing.T) {
	chat := NewChat(&scriptedStreamer{}, nil)
	_, err := chat.Submit(context.Background(), "hello", types.LanguageEnglish)
	assert.ErrorIs(t, err, ErrEmptyStream)
}

func TestReset(t *testing.T) {
	chat := NewChat(&scriptedStreamer{chunks: []llm.Chunk{{Content: "hi"}}}, nil)
	_, err := chat.Submit(context.Background(), "hello", types.LanguageEnglish)
	require.NoError(t, err)
	require.True(t, chat.Reset())
	assert.Empty(t, chat.Messages())
}

type stubSource struct {
	set    types.SuggestionSet
	err    error
	gate   chan struct{}
	got    []types.UIMessage
	called int
}

func (s *stubSource) Suggest(_ context.Context, recent []types.UIMessage) (types.SuggestionSet, error) {
	s.called++
	s.got = recent
	if s.gate != nil {
		<-s.gate
	}
	return s.set, s.err
}

func history(n int) []types.UIMessage {
	out := make([]types.UIMessage, n)
	for i := range out {
		role := types.RoleUser
		if i%2 == 1 {
			role = types.RoleAssistant
		}
		out[i] = types.NewTextMessage(fmt.Sprint(i), role, fmt.Sprintf("msg %d", i))
	}
	return out
}

func TestRegenerateSendsLastSix(t *testing.T) {
	fresh := types.SuggestionSet{"a", "b", "c", "d", "e", "f"}
	src := &stubSource{set: fresh}
	s := NewSuggestions(src, defaultSet, fallbackSet)
	assert.Equal(t, defaultSet, s.Current())

	var seen types.SuggestionSet
	s.OnChange(func(set types.SuggestionSet) { seen = set })

	assert.True(t, s.Regenerate(context.Background(), history(9)))
	require.Len(t, src.got, RecentWindow)
	assert.Equal(t, "3", src.got[0].ID)
	assert.Equal(t, fresh, s.Current())
	assert.Equal(t, fresh, seen)
}

func TestRegenerateFallbacks(t *testing.T) {
	src := &stubSource{err: errors.New("model down")}
	s := NewSuggestions(src, defaultSet, fallbackSet)

	s.Regenerate(context.Background(), history(2))
	assert.Equal(t, fallbackSet, s.Current())

	s.Regenerate(context.Background(), nil)
	assert.Equal(t, defaultSet, s.Current())
}

func TestRegenerateSingleFlight(t *testing.T) {
	src := &stubSource{set: fallbackSet, gate: make(chan struct{})}
	s := NewSuggestions(src, defaultSet, fallbackSet)

	done := make(chan bool)
	go func() { done <- s.Regenerate(context.Background(), history(2)) }()
	require.Eventually(t, func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.inFlight
	}, time.Second, time.Millisecond)

	assert.False(t, s.Regenerate(context.Background(), history(4)))
	close(src.gate)
	assert.True(t, <-done)
	assert.Equal(t, 1, src.called)
}

func TestHTTPChatStreamer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, chatPath, r.URL.Path)
		var req types.ChatRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, types.LanguageHaitian, req.Language)

		uistream.SetHeaders(w.Header())
		sw := uistream.NewWriter(w)
		sw.Start("msg-1", "txt-1")
		sw.Text("Bon")
		sw.Text("jou")
		sw.Finish()
	}))
	defer srv.Close()

	ch, err := NewHTTPChatStreamer(srv.URL, srv.Client()).Stream(context.Background(), types.ChatRequest{
		Messages: history(1), Language: types.LanguageHaitian,
	})
	require.NoError(t, err)
	var text string
	for c := range ch {
		require.NoError(t, c.Err)
		text += c.Content
	}
	assert.Equal(t, "Bonjou", text)
}

func TestHTTPChatStreamerErrorPart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sw := uistream.NewWriter(w)
		sw.Start("msg-1", "txt-1")
		sw.Text("partial")
		sw.Error("upstream failed")
	}))
	defer srv.Close()

	chat := NewChat(NewHTTPChatStreamer(srv.URL, srv.Client()), nil)
	_, err := chat.Submit(context.Background(), "hi", types.LanguageEnglish)
	assert.ErrorIs(t, err, uistream.ErrStreamError)
	assert.Equal(t, "partial", chat.Messages()[1].Text())
}

func TestHTTPChatStreamerTruncated(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sw := uistream.NewWriter(w)
		sw.Start("msg-1", "txt-1")
		sw.Text("cut")
	}))
	defer srv.Close()

	chat := NewChat(NewHTTPChatStreamer(srv.URL, srv.Client()), nil)
	_, err := chat.Submit(context.Background(), "hi", types.LanguageEnglish)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestHTTPChatStreamerCancelledMidReply(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sw := uistream.NewWriter(w)
		sw.Start("msg-1", "txt-1")
		sw.Text("Caesar crossed")
		<-r.Context().Done()
	}))
	defer srv.Close()

	for i := 0; i < 10; i++ {
		src := &stubSource{set: fallbackSet}
		chat := NewChat(NewHTTPChatStreamer(srv.URL, srv.Client()), NewSuggestions(src, defaultSet, fallbackSet))

		ctx, cancel := context.WithCancel(context.Background())
		chat.OnChange(func() {
			if chat.Status() == StatusStreaming {
				cancel()
			}
		})
		ok, err := chat.Submit(ctx, "Who was Julius Caesar?", types.LanguageEnglish)
		cancel()

		assert.True(t, ok)
		assert.Error(t, err)
		assert.Error(t, chat.Err())
		assert.Equal(t, StatusIdle, chat.Status())
		assert.Equal(t, "Caesar crossed", chat.Messages()[1].Text())
		assert.Zero(t, src.called)
	}
}

func TestHTTPSuggestionSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req types.SuggestionsRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if len(req.Messages) == 0 {
			w.Write([]byte(`{"suggestions":["only","five","of","them","here"]}`))
			return
		}
		w.Write([]byte(`{"suggestions":["a","b","c","d","e","f"]}`))
	}))
	defer srv.Close()
	src := NewHTTPSuggestionSource(srv.URL, srv.Client())

	set, err := src.Suggest(context.Background(), history(2))
	require.NoError(t, err)
	assert.Equal(t, types.SuggestionSet{"a", "b", "c", "d", "e", "f"}, set)

	_, err = src.Suggest(context.Background(), nil)
	assert.Error(t, err)
}

func TestSetDefaultsFollowsOnlyUntouchedSet(t *testing.T) {
	spanish := types.SuggestionSet{"uno", "dos", "tres", "cuatro", "cinco", "seis"}
	s := NewSuggestions(&stubSource{set: fallbackSet}, defaultSet, fallbackSet)

	s.SetDefaults(spanish)
	assert.Equal(t, spanish, s.Current())

	s.Regenerate(context.Background(), history(2))
	s.SetDefaults(defaultSet)
	assert.Equal(t, fallbackSet, s.Current())

	s.Reset()
	assert.Equal(t, defaultSet, s.Current())
}
