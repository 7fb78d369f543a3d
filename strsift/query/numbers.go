package query

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

// ErrNumberOverflow is returned when a spelled number does not fit the supported range.
var ErrNumberOverflow = errors.New("spelled number out of range")

const maxSpelledNumber = 999_999_999

var unitWords = map[string]int64{
	"zero": 0, "one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
	"eleven": 11, "twelve": 12, "thirteen": 13, "fourteen": 14, "fifteen": 15,
	"sixteen": 16, "seventeen": 17, "eighteen": 18, "nineteen": 19,
}

var tensWords = map[string]int64{
	"twenty": 20, "thirty": 30, "forty": 40, "fifty": 50,
	"sixty": 60, "seventy": 70, "eighty": 80, "ninety": 90,
}

var scaleWords = map[string]int64{
	"hundred":  100,
	"thousand": 1_000,
	"million":  1_000_000,
	"billion":  1_000_000_000,
}

func isNumberWord(w string) bool {
	if _, ok := unitWords[w]; ok {
		return true
	}
	if _, ok := tensWords[w]; ok {
		return true
	}
	_, ok := scaleWords[w]
	return ok
}

// letterRun matches one alphabetic word; runs joined by spaces or hyphens form number phrases.
var letterRun = regexp.MustCompile(`\p{L}+`)

// numberAccumulator folds number words left to right. A word that cannot
// extend the current phrase ends it.
type numberAccumulator struct {
	total   int64
	current int64
	last    string // "", "unit", "teen", "tens", "hundred", "scale"
	started bool
}

func (a *numberAccumulator) accepts(w string) bool {
	if !a.started {
		return true
	}
	if v, ok := unitWords[w]; ok {
		switch a.last {
		case "tens":
			return v > 0 && v < 10
		case "hundred", "scale":
			return v > 0
		}
		return false
	}
	if _, ok := tensWords[w]; ok {
		return a.last == "hundred" || a.last == "scale"
	}
	if s, ok := scaleWords[w]; ok {
		if s == 100 {
			return a.last == "unit" || a.last == "teen"
		}
		return a.last != "scale" && a.current > 0
	}
	return false
}

func (a *numberAccumulator) add(w string) error {
	a.started = true
	if v, ok := unitWords[w]; ok {
		a.current += v
		if v >= 10 {
			a.last = "teen"
		} else {
			a.last = "unit"
		}
		return nil
	}
	if v, ok := tensWords[w]; ok {
		a.current += v
		a.last = "tens"
		return nil
	}
	s := scaleWords[w]
	if s == 100 {
		a.current *= 100
		a.last = "hundred"
	} else {
		a.total += a.current * s
		a.current = 0
		a.last = "scale"
	}
	if a.total+a.current > maxSpelledNumber {
		return ErrNumberOverflow
	}
	return nil
}

func (a *numberAccumulator) value() int64 {
	return a.total + a.current
}

// ConvertSpelledNumbers rewrites spelled cardinal numbers as digits:
// "five" -> "5", "twenty one" -> "21", "three hundred" -> "300".
// Ordinal words are left untouched. On error the input is returned unchanged.
func ConvertSpelledNumbers(s string) (string, error) {
	locs := letterRun.FindAllStringIndex(s, -1)
	if len(locs) == 0 {
		return s, nil
	}

	var out strings.Builder
	out.Grow(len(s))
	prev := 0
	i := 0
	for i < len(locs) {
		word := s[locs[i][0]:locs[i][1]]
		if _, scale := scaleWords[word]; scale || !isNumberWord(word) {
			i++
			continue
		}

		var acc numberAccumulator
		start := locs[i][0]
		end := locs[i][1]
		if err := acc.add(word); err != nil {
			return s, err
		}
		j := i + 1
		for j < len(locs) {
			gap := s[end:locs[j][0]]
			if !numberGap(gap) {
				break
			}
			next := s[locs[j][0]:locs[j][1]]
			if !isNumberWord(next) || !acc.accepts(next) {
				break
			}
			if err := acc.add(next); err != nil {
				return s, err
			}
			end = locs[j][1]
			j++
		}

		out.WriteString(s[prev:start])
		out.WriteString(strconv.FormatInt(acc.value(), 10))
		prev = end
		i = j
	}
	out.WriteString(s[prev:])
	return out.String(), nil
}

func numberGap(gap string) bool {
	if gap == "" {
		return false
	}
	for _, r := range gap {
		if r != ' ' && r != '-' && r != '\t' {
			return false
		}
	}
	return true
}
