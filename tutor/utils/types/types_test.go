package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBalanceDecodesNumberAndObject(t *testing.T) {
	var fromNumber Balance
	require.NoError(t, json.Unmarshal([]byte(`12.5`), &fromNumber))
	assert.Equal(t, 12.5, fromNumber.Amount)

	var fromObject Balance
	require.NoError(t, json.Unmarshal([]byte(`{"balance":3,"currency":"USD","description":"Free tier credits"}`), &fromObject))
	assert.Equal(t, Balance{Amount: 3, Currency: "USD", Description: "Free tier credits"}, fromObject)

	var bad Balance
	assert.Error(t, json.Unmarshal([]byte(`"lots"`), &bad))
}

func TestCheckAuthResponseNullBalance(t *testing.T) {
	var resp CheckAuthResponse
	require.NoError(t, json.Unmarshal([]byte(`{"isSignedIn":true,"user":{"id":"u1","email":"a@b.c","balance":null}}`), &resp))
	require.NotNil(t, resp.User)
	assert.Nil(t, resp.User.Balance)
	assert.True(t, resp.User.Complete())
}

func TestSuggestionSetFrom(t *testing.T) {
	six := []string{"a", "b", "c", "d", "e", " f "}
	set, ok := SuggestionSetFrom(six)
	require.True(t, ok)
	assert.Equal(t, "f", set[5])

	_, ok = SuggestionSetFrom(six[:5])
	assert.False(t, ok)

	_, ok = SuggestionSetFrom([]string{"a", "b", "", "d", "e", "f"})
	assert.False(t, ok)
}

func TestUIMessageText(t *testing.T) {
	m := UIMessage{Role: RoleAssistant, Parts: []TextPart{
		{Type: "text", Text: "Julius "},
		{Type: "reasoning", Text: "ignored"},
		{Type: "text", Text: "Caesar"},
	}}
	assert.Equal(t, "Julius Caesar", m.Text())
}

func TestPreferencesMerge(t *testing.T) {
	got := Preferences{Language: "fr", FontSize: FontLarge, FontFamily: "comic"}.Merge(DefaultPreferences())
	assert.Equal(t, Preferences{Language: LanguageEnglish, FontSize: FontLarge, FontFamily: FontGaramond}, got)
}
