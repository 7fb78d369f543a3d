package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  Strings LONGER than 5 Characters  ", "strings longer than 5 characters"},
		{"strings longer than five characters", "strings longer than 5 characters"},
		{"palindromes with twenty one words", "palindromes with 21 words"},
		{"three hundred chars", "300 chars"},
		{"twenty-one words", "21 words"},
		{"strings containing the letter 'a'!", "strings containing the letter a !"},
		{"length >= 3, or words != 2", "length >= 3, or words != 2"},
		{"the  first\tvowel", "the first vowel"},
		{"strings with a pair of words", "strings with a pair of words"},
		{"Ｓｔｒｉｎｇｓ", "strings"},
		{"palindrome?!", "palindrome !"},
		{"...", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalizeKeepsOrdinalWords(t *testing.T) {
	assert.Equal(t, "the second vowel", Normalize("the second vowel"))
	assert.Equal(t, "the 3rd letter e", Normalize("the 3rd letter e"))
}

func TestNormalizeSwallowsConversionFailure(t *testing.T) {
	got, err := NormalizeReport("strings with one billion words")
	require.ErrorIs(t, err, ErrNumberOverflow)
	assert.Equal(t, "strings with one billion words", got)
	assert.Equal(t, got, Normalize("strings with one billion words"))
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"Strings LONGER than 5 characters",
		"five-six",
		"one.billion",
		"five.hundred words",
		"strings with one billion words",
		"strings containing the letter 'a'!",
		">= 3 words, <= 10 characters",
		"Palindromes — with two words…",
		"ÅNGSTRÖM ﬁle №5",
		"a,b,,c",
		"twenty one, thirty-two and forty",
		"!@#$%^&*()",
		"don't stop",
		"ß straße",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestConvertSpelledNumbers(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"five", "5"},
		{"five six", "5 6"},
		{"one hundred five", "105"},
		{"two thousand five hundred", "2500"},
		{"hundred", "hundred"},
		{"first second", "first second"},
		{"none", "none"},
	}
	for _, tt := range tests {
		got, err := ConvertSpelledNumbers(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}
