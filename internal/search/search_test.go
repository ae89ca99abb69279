package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHighlight(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		query string
		want  string
	}{
		{
			name:  "preserves original casing",
			text:  "The Cat sat on the cat mat",
			query: "cat",
			want:  "The **Cat** sat on the **cat** mat",
		},
		{
			name:  "no occurrence leaves text untouched",
			text:  "nothing to see here",
			query: "cat",
			want:  "nothing to see here",
		},
		{
			name:  "empty query returns text unchanged",
			text:  "some text",
			query: "",
			want:  "some text",
		},
		{
			name:  "regex metacharacters are literal",
			text:  "price is $4.99 today",
			query: "$4.99",
			want:  "price is **$4.99** today",
		},
		{
			name:  "adjacent occurrences",
			text:  "aaaa",
			query: "aa",
			want:  "**aa****aa**",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Highlight(tt.text, tt.query))
		})
	}
}

func TestMatchLines(t *testing.T) {
	text := "  The cat sat.  \nNothing here.\nAnother CAT appears."

	t.Run("matching lines are trimmed and highlighted", func(t *testing.T) {
		got := MatchLines(text, "cat")
		assert.Equal(t, []string{
			"The **cat** sat.",
			"Another **CAT** appears.",
		}, got)
	})

	t.Run("no match yields empty, non-nil slice", func(t *testing.T) {
		got := MatchLines(text, "dog")
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("empty query matches every line", func(t *testing.T) {
		got := MatchLines(text, "")
		assert.Len(t, got, 3)
		assert.Equal(t, "Nothing here.", got[1])
	})
}

func TestMatchesEither(t *testing.T) {
	assert.True(t, MatchesEither("cat", "the CAT sat", "no match"))
	assert.True(t, MatchesEither("cat", "no match", "a Cat here"))
	assert.False(t, MatchesEither("dog", "the cat sat", "still a cat"))
	assert.True(t, MatchesEither("", "anything", ""))
}
