// Package textstat computes the stored attributes of a string record.
package textstat

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Properties are the derived attributes persisted alongside a value.
type Properties struct {
	ID                    string         `json:"sha256_hash"`
	Length                int            `json:"length"`
	IsPalindrome          bool           `json:"is_palindrome"`
	UniqueCharacters      int            `json:"unique_characters"`
	WordCount             int            `json:"word_count"`
	CharacterFrequencyMap map[string]int `json:"character_frequency_map"`
}

// Canonical is the stored form of a value: lowercased.
func Canonical(value string) string {
	return strings.ToLower(value)
}

// ID returns the content hash identifying the canonical form of value.
func ID(value string) string {
	sum := sha256.Sum256([]byte(Canonical(value)))
	return hex.EncodeToString(sum[:])
}

// Analyze computes the properties of value after canonicalization.
// Length counts runes other than spaces; WordCount counts
// whitespace-separated words.
func Analyze(value string) Properties {
	v := Canonical(value)
	runes := []rune(v)

	freq := make(map[string]int)
	length := 0
	for _, r := range runes {
		if r != ' ' {
			length++
		}
		freq[string(r)]++
	}

	return Properties{
		ID:                    ID(v),
		Length:                length,
		IsPalindrome:          IsPalindrome(v),
		UniqueCharacters:      len(freq),
		WordCount:             len(strings.Fields(v)),
		CharacterFrequencyMap: freq,
	}
}

// IsPalindrome reports whether the lowercased value reads the same reversed.
func IsPalindrome(value string) bool {
	runes := []rune(strings.ToLower(value))
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		if runes[i] != runes[j] {
			return false
		}
	}
	return true
}
