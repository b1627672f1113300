package services

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// Optional distinguishes an absent JSON key from an explicit null. Set is
// true whenever the key was present; Value is nil for null.
type Optional[T any] struct {
	Set   bool
	Value *T
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Value = nil
		return nil
	}
	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	o.Value = &value
	return nil
}

// Some returns a set Optional holding value.
func Some[T any](value T) Optional[T] {
	return Optional[T]{Set: true, Value: &value}
}

// Null returns a set Optional that clears the column.
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true}
}

// CleanTags trims and de-duplicates tag names, keeping first occurrence order.
func CleanTags(tags []string) []string {
	seen := make(map[string]bool)
	cleaned := make([]string, 0, len(tags))
	for _, tag := range tags {
		value := strings.TrimSpace(tag)
		if value == "" || seen[value] {
			continue
		}
		seen[value] = true
		cleaned = append(cleaned, value)
	}
	return cleaned
}

func NormalizeRequired(value, message string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", ErrBadRequest(message)
	}
	return trimmed, nil
}

// normalizeOptional trims value and maps blank to nil.
func normalizeOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func checkLength(field string, value *string, max int) error {
	if value != nil && utf8.RuneCountInString(*value) > max {
		return ErrBadRequest(field + " must be at most " + strconv.Itoa(max) + " characters")
	}
	return nil
}

func checkEnum(field string, value *string, valid func(string) bool) error {
	if value != nil && !valid(*value) {
		return ErrBadRequest("Invalid " + field + ": " + *value)
	}
	return nil
}

// parseDate accepts a calendar date or an RFC 3339 timestamp.
func parseDate(field string, raw *string) (*time.Time, error) {
	value := normalizeOptional(raw)
	if value == nil {
		return nil, nil
	}
	if parsed, err := time.Parse("2006-01-02", *value); err == nil {
		return &parsed, nil
	}
	parsed, err := time.Parse(time.RFC3339, *value)
	if err != nil {
		return nil, ErrBadRequest("Invalid " + field + ": expected YYYY-MM-DD")
	}
	parsed = parsed.UTC()
	return &parsed, nil
}
