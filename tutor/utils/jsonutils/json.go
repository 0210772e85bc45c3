package jsonutils

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

var (
	reFence         = regexp.MustCompile("(?s)```(?:json)?(.*?)```")
	reObj           = regexp.MustCompile(`(?s)\{.*\}`)
	reTrailingComma = regexp.MustCompile(`,(\s*[}\]])`)
)

// ErrNoJSON is returned when no JSON object can be recovered from model output.
var ErrNoJSON = errors.New("no JSON object in model output")

// ExtractJSON tries to extract a JSON block from LLM output.
//
// Priority:
// 1. Triple-backtick fenced ```json ... ```
// 2. Any {...} JSON object
//
// Already valid blocks are returned untouched. Otherwise it sanitizes common
// LLM formatting issues like escaped quotes, double backslashes, stray
// commas, and invisible Unicode characters.
func ExtractJSON(input string) string {
	// Remove BOMs and zero-width characters
	input = strings.TrimSpace(strings.Map(func(r rune) rune {
		if r == '\uFEFF' || r == '\u200B' || r == '\u200C' || r == '\u200D' {
			return -1
		}
		return r
	}, input))

	if match := reFence.FindStringSubmatch(input); len(match) > 1 {
		input = strings.TrimSpace(match[1])
	} else if match := reObj.FindString(input); match != "" {
		input = strings.TrimSpace(match)
	}

	if json.Valid([]byte(input)) {
		return input
	}

	input = strings.ReplaceAll(input, `\\`, `\`)
	input = strings.ReplaceAll(input, `\"`, `"`)
	input = reTrailingComma.ReplaceAllString(input, "$1")

	return strings.TrimSpace(input)
}

// Decode extracts the JSON object from model output and unmarshals it into v.
func Decode(input string, v interface{}) error {
	block := ExtractJSON(input)
	if !strings.HasPrefix(block, "{") {
		return ErrNoJSON
	}
	return json.Unmarshal([]byte(block), v)
}

// ToJSON serializes a Go value to a JSON string with indentation.
// Returns an empty string if serialization fails.
func ToJSON(v interface{}) string {
	bytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(bytes))
}
