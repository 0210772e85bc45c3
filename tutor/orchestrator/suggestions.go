package orchestrator

import (
	"context"
	"sync"

	"historytutor/tutor/utils/logging"
	"historytutor/tutor/utils/types"

	"go.uber.org/zap"
)

// RecentWindow is how many trailing messages are sent for suggestions.
const RecentWindow = 6

// SuggestionSource produces a fresh set from the recent conversation.
type SuggestionSource interface {
	Suggest(ctx context.Context, recent []types.UIMessage) (types.SuggestionSet, error)
}

// Suggestions keeps the follow-up prompts shown under the chat.
type Suggestions struct {
	source   SuggestionSource
	defaults types.SuggestionSet
	fallback types.SuggestionSet

	mu       sync.Mutex
	current  types.SuggestionSet
	inFlight bool
	onChange func(types.SuggestionSet)
}

// NewSuggestions starts out showing defaults. fallback replaces the set
// when regeneration fails for a non-empty conversation.
func NewSuggestions(source SuggestionSource, defaults, fallback types.SuggestionSet) *Suggestions {
	return &Suggestions{
		source:   source,
		defaults: defaults,
		fallback: fallback,
		current:  defaults,
	}
}

func (s *Suggestions) Current() types.SuggestionSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// OnChange registers fn to run after every replacement of the set.
func (s *Suggestions) OnChange(fn func(types.SuggestionSet)) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

func (s *Suggestions) replace(set types.SuggestionSet) {
	s.mu.Lock()
	s.current = set
	fn := s.onChange
	s.mu.Unlock()
	if fn != nil {
		fn(set)
	}
}

// Reset restores the defaults for a new conversation.
func (s *Suggestions) Reset() {
	s.mu.Lock()
	d := s.defaults
	s.mu.Unlock()
	s.replace(d)
}

// SetDefaults swaps the opening set, e.g. after a language change. The
// shown set follows only while it is still the old defaults.
func (s *Suggestions) SetDefaults(set types.SuggestionSet) {
	s.mu.Lock()
	showing := s.current == s.defaults
	s.defaults = set
	s.mu.Unlock()
	if showing {
		s.replace(set)
	}
}

// Regenerate asks the source for a new set based on history. It reports
// false without doing anything when a regeneration is already running.
// Failures are logged and fall back to a fixed set.
func (s *Suggestions) Regenerate(ctx context.Context, history []types.UIMessage) bool {
	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return false
	}
	s.inFlight = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.inFlight = false
		s.mu.Unlock()
	}()
	defer logging.LogDuration(ctx, "Suggestions.Regenerate")()

	recent := history
	if len(recent) > RecentWindow {
		recent = recent[len(recent)-RecentWindow:]
	}

	set, err := s.source.Suggest(ctx, recent)
	if err != nil {
		logging.ErrorLogger.Error("regenerate suggestions", zap.Error(err), zap.Int("history", len(history)))
		if len(history) == 0 {
			s.mu.Lock()
			set = s.defaults
			s.mu.Unlock()
		} else {
			set = s.fallback
		}
	}
	s.replace(set)
	return true
}
