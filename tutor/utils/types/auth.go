// historytutor/tutor/utils/types/auth.go
package types

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Balance is a credit amount. It decodes from either a bare number or
// an object carrying a "balance" field.
type Balance struct {
	Amount      float64 `json:"balance"`
	Currency    string  `json:"currency,omitempty"`
	Description string  `json:"description,omitempty"`
}

func (b *Balance) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] != '{' {
		var n float64
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("balance: %w", err)
		}
		*b = Balance{Amount: n}
		return nil
	}
	type plain Balance
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("balance: %w", err)
	}
	*b = Balance(p)
	return nil
}

type User struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

// Complete reports whether the profile carries both an id and an email.
func (u *User) Complete() bool {
	return u != nil && u.ID != "" && u.Email != ""
}

type AuthUser struct {
	User
	Balance *Balance `json:"balance"`
}

type CheckAuthResponse struct {
	IsSignedIn bool      `json:"isSignedIn"`
	User       *AuthUser `json:"user"`
}

type Session struct {
	IsAuthenticated bool
	User            *User
	Balance         *Balance
}

// SignedOut is the zero session.
func SignedOut() Session { return Session{} }
