package benchmark

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/stellarlinkco/thai-eval/internal/extract"
)

// Multiple-choice scoring shared by the MCQ-style datasets. Thai models
// answer with Latin letters, Thai label consonants (ก ข ค ง ...), Arabic or
// Thai numerals, or by restating the choice text; everything is resolved to
// a zero-based choice index before comparison.

const (
	defaultChoiceCount = 4
	maxChoiceCount     = 26 // one Latin letter per choice
)

// thaiChoiceLabels orders the consonants Thai exam papers use to label
// choices, the way Latin papers use A B C D.
var thaiChoiceLabels = []rune{'ก', 'ข', 'ค', 'ง', 'จ', 'ฉ', 'ช', 'ซ'}

// mcqExpected carries the expected answer together with the choice list so
// Evaluate can resolve letters, indices, or choice text.
type mcqExpected struct {
	Answer  any      `json:"answer"`
	Choices []string `json:"choices,omitempty"`
}

func unwrapMCQExpected(expected any) (any, []string) {
	switch v := expected.(type) {
	case mcqExpected:
		return v.Answer, v.Choices
	case *mcqExpected:
		if v == nil {
			return nil, nil
		}
		return v.Answer, v.Choices
	default:
		return expected, nil
	}
}

func evaluateMCQ(response string, expected any) (float64, error) {
	answer, choices := unwrapMCQExpected(expected)
	want, err := expectedChoiceIndex(answer, choices)
	if err != nil {
		return 0, err
	}

	got, ok := parseMCQResponse(extract.StripReasoning(response), choices)
	if !ok {
		return 0, errors.New("mcq: could not parse model answer")
	}
	if got == want {
		return 1, nil
	}
	return 0, nil
}

func choiceCount(choices []string) int {
	n := len(choices)
	if n == 0 {
		n = defaultChoiceCount
	}
	if n > maxChoiceCount {
		n = maxChoiceCount
	}
	return n
}

func expectedChoiceIndex(answer any, choices []string) (int, error) {
	n := choiceCount(choices)

	switch v := answer.(type) {
	case int:
		return normalizeIndex(v, n)
	case int64:
		return normalizeIndex(int(v), n)
	case float64:
		return normalizeIndex(int(v), n)
	case string:
		return parseExpectedString(v, choices, n)
	default:
		return -1, fmt.Errorf("mcq: unsupported expected answer type %T", answer)
	}
}

func normalizeIndex(idx int, n int) (int, error) {
	switch {
	case idx >= 0 && idx < n:
		return idx, nil
	case idx == n:
		// One-based datasets put the last choice out of zero-based range.
		return n - 1, nil
	default:
		return -1, fmt.Errorf("mcq: expected answer out of range (got %d, max %d)", idx, n)
	}
}

func parseExpectedString(s string, choices []string, n int) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return -1, errors.New("mcq: empty expected answer")
	}

	if runes := []rune(s); len(runes) == 1 {
		if idx, ok := labelIndex(runes[0], n); ok {
			return idx, nil
		}
	}
	if v, err := strconv.Atoi(s); err == nil {
		return normalizeIndex(v, n)
	}
	if idx, ok := equalChoiceText(s, choices, n); ok {
		return idx, nil
	}

	return -1, fmt.Errorf("mcq: could not parse expected answer %q", s)
}

// parseMCQResponse resolves a model answer to a choice index: first an
// isolated label token, then a numeral, then the restated choice text.
func parseMCQResponse(response string, choices []string) (int, bool) {
	s := strings.TrimSpace(response)
	if s == "" {
		return -1, false
	}
	n := choiceCount(choices)

	if idx, ok := scanLabelToken(s, n); ok {
		return idx, true
	}
	if idx, ok := scanNumberToken(s, n); ok {
		return idx, true
	}
	return containsChoiceText(s, choices, n)
}

// labelIndex maps a single choice-label rune (Latin letter either case, or
// a Thai label consonant) to its index.
func labelIndex(r rune, n int) (int, bool) {
	if r >= 'a' && r <= 'z' {
		r -= 'a' - 'A'
	}
	if r >= 'A' && r <= 'Z' {
		if idx := int(r - 'A'); idx < n {
			return idx, true
		}
		return -1, false
	}
	for i, label := range thaiChoiceLabels {
		if r == label {
			if i < n {
				return i, true
			}
			return -1, false
		}
	}
	return -1, false
}

// scanLabelToken finds the first label rune that stands alone: inside a
// Latin word or a Thai letter run it is part of a word, not an answer.
func scanLabelToken(s string, n int) (int, bool) {
	runes := []rune(s)
	for i, r := range runes {
		idx, ok := labelIndex(r, n)
		if !ok {
			continue
		}
		if i > 0 && isTokenRune(runes[i-1]) {
			continue
		}
		if i+1 < len(runes) && isTokenRune(runes[i+1]) {
			continue
		}
		return idx, true
	}
	return -1, false
}

// scanNumberToken finds the first numeral run naming a choice, reading both
// Arabic and Thai digits. One-based values win over zero-based.
func scanNumberToken(s string, n int) (int, bool) {
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		d, ok := digitValue(runes[i])
		if !ok {
			continue
		}

		v := d
		j := i + 1
		for j < len(runes) {
			d, ok = digitValue(runes[j])
			if !ok {
				break
			}
			if v < 1000 { // longer runs can never name a choice
				v = v*10 + d
			}
			j++
		}

		if v >= 1 && v <= n {
			return v - 1, true
		}
		if v == 0 {
			// A bare zero is the zero-based first choice.
			return 0, true
		}
		i = j - 1
	}
	return -1, false
}

func digitValue(r rune) (int, bool) {
	if r >= '0' && r <= '9' {
		return int(r - '0'), true
	}
	if r >= '๐' && r <= '๙' {
		return int(r - '๐'), true
	}
	return -1, false
}

func containsChoiceText(s string, choices []string, n int) (int, bool) {
	folded := foldChoiceText(s)
	if folded == "" {
		return -1, false
	}
	for i, c := range choices {
		if i >= n {
			break
		}
		c = foldChoiceText(c)
		if c != "" && strings.Contains(folded, c) {
			return i, true
		}
	}
	return -1, false
}

func equalChoiceText(s string, choices []string, n int) (int, bool) {
	folded := foldChoiceText(s)
	for i, c := range choices {
		if i >= n {
			break
		}
		if folded == foldChoiceText(c) {
			return i, true
		}
	}
	return -1, false
}

// foldChoiceText makes choice comparison insensitive to case and to the
// whitespace differences Thai text picks up in transit.
func foldChoiceText(s string) string {
	return strings.ToLower(normalizeSpace(s))
}

func isTokenRune(r rune) bool {
	switch {
	case r >= '0' && r <= '9':
		return true
	case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z':
		return true
	case r >= thaiLoRune && r <= thaiHiRune:
		return true
	}
	return false
}

// Thai block bounds, used only for word-boundary checks.
const (
	thaiLoRune = 0x0E00
	thaiHiRune = 0x0E7F
)
