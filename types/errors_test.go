package types

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tagsOf(n int) []string {
	tags := make([]string, n)
	for i := range tags {
		tags[i] = fmt.Sprintf("tag%d", i)
	}
	return tags
}

func TestNormalize(t *testing.T) {
	t.Run("trims fields", func(t *testing.T) {
		got, err := SessionFields{Title: "  Morning Yoga ", Tags: []string{" yoga "}, ContentURL: " https://x/y.json "}.Normalize()
		require.NoError(t, err)
		assert.Equal(t, "Morning Yoga", got.Title)
		assert.Equal(t, []string{"yoga"}, got.Tags)
		assert.Equal(t, "https://x/y.json", got.ContentURL)
	})

	t.Run("nil tags become empty", func(t *testing.T) {
		got, err := SessionFields{Title: "t", ContentURL: "u"}.Normalize()
		require.NoError(t, err)
		assert.NotNil(t, got.Tags)
		assert.Empty(t, got.Tags)
	})

	t.Run("ten tags accepted", func(t *testing.T) {
		got, err := SessionFields{Title: "t", ContentURL: "u", Tags: tagsOf(10)}.Normalize()
		require.NoError(t, err)
		assert.Len(t, got.Tags, 10)
	})

	t.Run("eleven tags rejected", func(t *testing.T) {
		_, err := SessionFields{Title: "t", ContentURL: "u", Tags: tagsOf(11)}.Normalize()
		require.Error(t, err)
		assert.True(t, IsValidationError(err))
	})

	t.Run("title bounds", func(t *testing.T) {
		_, err := SessionFields{Title: "   ", ContentURL: "u"}.Normalize()
		assert.True(t, IsValidationError(err))

		_, err = SessionFields{Title: strings.Repeat("a", 101), ContentURL: "u"}.Normalize()
		assert.True(t, IsValidationError(err))

		// counted in characters, not bytes
		_, err = SessionFields{Title: strings.Repeat("é", 100), ContentURL: "u"}.Normalize()
		assert.NoError(t, err)
	})

	t.Run("content url required", func(t *testing.T) {
		_, err := SessionFields{Title: "t", ContentURL: " "}.Normalize()
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "content_url", ve.Field)
	})

	t.Run("blank tag rejected", func(t *testing.T) {
		_, err := SessionFields{Title: "t", ContentURL: "u", Tags: []string{"a", " "}}.Normalize()
		assert.True(t, IsValidationError(err))
	})
}

func TestViewOmitsOwner(t *testing.T) {
	v := Session{ID: "1", OwnerID: "owner", Title: "t", Status: StatusDraft}.View()
	assert.Equal(t, "1", v.ID)
	assert.Equal(t, []string{}, v.Tags)
}
