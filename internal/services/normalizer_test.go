package services

import (
	"math/rand"
	"regexp"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		maxChars int
		input    string
		want     string
	}{
		{
			name:     "collapses mixed whitespace",
			maxChars: 100,
			input:    "  John   Doe\n\n5 years\t\tReact.js \r\n experience  ",
			want:     "John Doe 5 years React.js experience",
		},
		{
			name:     "empty input",
			maxChars: 100,
			input:    "",
			want:     "",
		},
		{
			name:     "whitespace only",
			maxChars: 100,
			input:    " \n\t ",
			want:     "",
		},
		{
			name:     "hard cut ignores word boundaries",
			maxChars: 7,
			input:    "John Doe",
			want:     "John Do",
		},
		{
			name:     "cap applies after collapsing",
			maxChars: 8,
			input:    "John\n\n\n\n\n\nDoe",
			want:     "John Doe",
		},
		{
			name:     "cuts on character boundary",
			maxChars: 4,
			input:    "Zoë Łukasz",
			want:     "Zoë ",
		},
		{
			name:     "exactly at cap",
			maxChars: 3,
			input:    "abc",
			want:     "abc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewNormalizer(tt.maxChars).Normalize(tt.input)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeIsBounded(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	alphabet := []rune("abc XYZ\n\t\r  é漢字-.,")
	multiSpace := regexp.MustCompile(`\s{2,}|[\n\t\r]`)

	for _, maxChars := range []int{1, 10, 4000, 6000} {
		n := NewNormalizer(maxChars)
		for i := 0; i < 200; i++ {
			length := rng.Intn(maxChars * 3)
			var b strings.Builder
			for j := 0; j < length; j++ {
				b.WriteRune(alphabet[rng.Intn(len(alphabet))])
			}

			got := n.Normalize(b.String())
			assert.LessOrEqual(t, utf8.RuneCountInString(got), maxChars)
			assert.True(t, utf8.ValidString(got))
			assert.False(t, multiSpace.MatchString(got), "uncollapsed whitespace in %q", got)
			assert.Equal(t, got, n.Normalize(b.String()))
		}
	}
}

func TestNormalizeWhitespace(t *testing.T) {
	assert.Equal(t, "Looking for a React developer", NormalizeWhitespace("  Looking for\na   React developer\n"))
	assert.Equal(t, "", NormalizeWhitespace("\n\n"))
}
