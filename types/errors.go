package types

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ErrNotFound is returned for owner-scoped lookups that match nothing. A session
// owned by someone else is reported the same way as one that does not exist.
var ErrNotFound = errors.New("session not found")

// ValidationError reports a field that failed the write constraints.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Normalize trims the fields and enforces the bounds every write must satisfy.
func (f SessionFields) Normalize() (SessionFields, error) {
	out := SessionFields{
		Title:      strings.TrimSpace(f.Title),
		ContentURL: strings.TrimSpace(f.ContentURL),
		Tags:       make([]string, 0, len(f.Tags)),
	}

	if out.Title == "" {
		return SessionFields{}, &ValidationError{Field: "title", Reason: "is required"}
	}
	if utf8.RuneCountInString(out.Title) > MaxTitleLength {
		return SessionFields{}, &ValidationError{Field: "title", Reason: fmt.Sprintf("cannot be more than %d characters", MaxTitleLength)}
	}
	if out.ContentURL == "" {
		return SessionFields{}, &ValidationError{Field: "content_url", Reason: "is required"}
	}

	for _, tag := range f.Tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			return SessionFields{}, &ValidationError{Field: "tags", Reason: "cannot contain empty entries"}
		}
		out.Tags = append(out.Tags, tag)
	}
	if len(out.Tags) > MaxTags {
		return SessionFields{}, &ValidationError{Field: "tags", Reason: fmt.Sprintf("cannot have more than %d entries", MaxTags)}
	}

	return out, nil
}
