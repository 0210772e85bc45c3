package jsonutils

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"fenced", "Here you go:\n```json\n{\"a\":1}\n```\nthanks", `{"a":1}`},
		{"surrounded", `sure! {"a":[1,2]} hope that helps`, `{"a":[1,2]}`},
		{"trailing comma", `{"a":[1,2,],}`, `{"a":[1,2]}`},
		{"escaped quotes kept when valid", `{"q":"the \"Great\" War"}`, `{"q":"the \"Great\" War"}`},
		{"bom", "\uFEFF{\"a\":1}", `{"a":1}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ExtractJSON(tc.in))
		})
	}
}

func TestDecode(t *testing.T) {
	var out struct {
		Suggestions []string `json:"suggestions"`
	}
	require.NoError(t, Decode("```json\n{\"suggestions\":[\"a\",\"b\"]}\n```", &out))
	assert.Equal(t, []string{"a", "b"}, out.Suggestions)

	err := Decode("I cannot help with that.", &out)
	assert.True(t, errors.Is(err, ErrNoJSON))
}

func TestToJSON(t *testing.T) {
	assert.Equal(t, "{\n  \"a\": 1\n}", ToJSON(map[string]int{"a": 1}))
	assert.Equal(t, "", ToJSON(make(chan int)))
}
