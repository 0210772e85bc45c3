// historytutor/tutor/utils/types/chat.go
package types

import "strings"

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Valid reports whether r is one of the three chat roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAssistant, RoleSystem:
		return true
	}
	return false
}

// TextPart is one text segment of a message.
type TextPart struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type MessageMetadata struct {
	Language Language `json:"language,omitempty"`
}

// UIMessage is a chat message as exchanged with the front end.
type UIMessage struct {
	ID       string           `json:"id,omitempty"`
	Role     Role             `json:"role"`
	Parts    []TextPart       `json:"parts"`
	Metadata *MessageMetadata `json:"metadata,omitempty"`
}

// NewTextMessage builds a single-part message.
func NewTextMessage(id string, role Role, text string) UIMessage {
	return UIMessage{ID: id, Role: role, Parts: []TextPart{{Type: "text", Text: text}}}
}

// Text joins the text parts in order, skipping non-text parts.
func (m UIMessage) Text() string {
	var b strings.Builder
	for _, p := range m.Parts {
		if p.Type == "" || p.Type == "text" {
			b.WriteString(p.Text)
		}
	}
	return b.String()
}

type ChatRequest struct {
	Messages []UIMessage `json:"messages"`
	Language Language    `json:"language"`
}

type SuggestionsRequest struct {
	Messages []UIMessage `json:"messages"`
}

// SuggestionCount is the fixed size of every suggestion set.
const SuggestionCount = 6

// SuggestionSet holds exactly SuggestionCount follow-up prompts.
type SuggestionSet [SuggestionCount]string

// SuggestionSetFrom copies s into a set; ok is false unless len(s) is exactly SuggestionCount
// and every entry is non-blank.
func SuggestionSetFrom(s []string) (set SuggestionSet, ok bool) {
	if len(s) != SuggestionCount {
		return set, false
	}
	for i, v := range s {
		v = strings.TrimSpace(v)
		if v == "" {
			return SuggestionSet{}, false
		}
		set[i] = v
	}
	return set, true
}

type SuggestionsResponse struct {
	Suggestions SuggestionSet `json:"suggestions"`
}
