package parser

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/lehigh-university-libraries/wordcards/internal/models"
	"github.com/lehigh-university-libraries/wordcards/internal/providers"
)

var (
	// ErrParse is returned when the response text is not a JSON array of objects.
	ErrParse = errors.New("response text is not in the expected format")
	// ErrNoContent marks a response without a text payload. It is not fatal to a batch.
	ErrNoContent = errors.New("no recognizable content")
)

// Text returns the first candidate's first part text, if any.
func Text(resp *providers.Response) (string, bool) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", false
	}
	content := resp.Candidates[0].Content
	if content == nil || len(content.Parts) == 0 {
		return "", false
	}
	text := content.Parts[0].Text
	return text, text != ""
}

// Parse extracts the valid word entries from a service response.
func Parse(resp *providers.Response) ([]models.WordEntry, error) {
	text, ok := Text(resp)
	if !ok {
		return nil, ErrNoContent
	}
	return ParseText(text)
}

// ParseText decodes a JSON array of word objects. Elements that are not
// objects, or whose fields are missing, not strings, or blank after trimming
// are dropped. The returned entries are trimmed.
func ParseText(text string) ([]models.WordEntry, error) {
	var items []json.RawMessage
	if err := json.Unmarshal([]byte(stripCodeFence(text)), &items); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	// null decodes without error
	if items == nil {
		return nil, fmt.Errorf("%w: expected a JSON array", ErrParse)
	}

	entries := make([]models.WordEntry, 0, len(items))
	for _, item := range items {
		entry, ok := decodeEntry(item)
		if !ok {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func decodeEntry(raw json.RawMessage) (models.WordEntry, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return models.WordEntry{}, false
	}

	english, ok := stringField(fields, "englishWord")
	if !ok {
		return models.WordEntry{}, false
	}
	chinese, ok := stringField(fields, "chineseTranslation")
	if !ok {
		return models.WordEntry{}, false
	}

	return models.WordEntry{EnglishWord: english, ChineseTranslation: chinese}, true
}

func stringField(fields map[string]json.RawMessage, name string) (string, bool) {
	raw, ok := fields[name]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}

// models sometimes wrap JSON in markdown fences even when asked not to
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
