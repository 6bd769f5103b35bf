// Package thaitext decides whether model output is written mainly in Thai.
//
// The classifier counts Thai and Latin letters, treats digits, punctuation,
// symbols, marks, and emoji as neutral, and fails any text that contains a
// character from another script. It tolerates embedded English acronyms and
// brand names while rejecting English-majority answers.
package thaitext

import (
	"strings"
	"unicode"
)

// Class is the classification bucket for a single code point.
type Class int

const (
	ClassThai Class = iota
	ClassLatin
	ClassDigit
	ClassNeutral
	ClassOther
)

const (
	thaiLo = 0x0E00
	thaiHi = 0x0E7F
)

// Closing reasoning delimiters. Thinking models emit long English reasoning
// traces before these tags; only the remainder is classified.
var closingReasoningTags = []string{"</think>", "</thinking>"}

// allowedASCII holds the ASCII punctuation and whitespace that never counts
// toward either language.
const allowedASCII = ",.;:!?()[]{}'\"-_+=*/\\<>@#$%^&|~` \t\n\r\f\v"

// allowedSymbols holds explicit non-ASCII exceptions that fall outside the
// neutral ranges below: trademark marks, currency signs, and the registered
// sign that also shows up in raw dataset text.
const allowedSymbols = "©™®€£¥₹₩₺₴₦₱₲₵₸"

type runeRange struct {
	lo, hi rune
}

// neutralRanges lists the allowed-symbol Unicode blocks as sorted disjoint
// inclusive intervals. These count as neutral: they let names, math, and
// emoji pass without penalizing the Thai ratio.
var neutralRanges = []runeRange{
	{0x00B2, 0x00B3}, // superscript two, three
	{0x00BC, 0x00BE}, // vulgar fractions
	{0x00C0, 0x024F}, // Latin-1 Supplement, Latin Extended-A/B (accented names, brands)
	{0x2000, 0x206F}, // General Punctuation
	{0x2070, 0x2071}, // superscript zero, i
	{0x2074, 0x207F}, // superscript digits and signs
	{0x2151, 0x2155}, // fractions 1/9 .. 1/5
	{0x215B, 0x215E}, // fractions 1/8 .. 7/8
	{0x2190, 0x2199}, // arrows
	{0x21A9, 0x21AA}, // hooked arrows
	{0x21BB, 0x21FF}, // harpoons and double arrows
	{0x2200, 0x22FF}, // Mathematical Operators
	{0x2600, 0x26FF}, // Miscellaneous Symbols
	{0x2700, 0x27BF}, // Dingbats
	{0x27C0, 0x27EF}, // Miscellaneous Mathematical Symbols-A
	{0x2980, 0x29FF}, // Miscellaneous Mathematical Symbols-B
	{0x1F1E6, 0x1F1FF}, // Regional Indicator Symbols (flags)
	{0x1F300, 0x1F5FF}, // Miscellaneous Symbols and Pictographs
	{0x1F600, 0x1F64F}, // Emoticons
	{0x1F680, 0x1F6FF}, // Transport and Map Symbols
	{0x1F700, 0x1F77F}, // Alchemical Symbols
	{0x1F780, 0x1F7FF}, // Geometric Shapes Extended
	{0x1F800, 0x1F8FF}, // Supplemental Arrows-C
	{0x1F900, 0x1F9FF}, // Supplemental Symbols and Pictographs
	{0x1FA00, 0x1FA6F}, // Chess Symbols
	{0x1FA70, 0x1FAFF}, // Symbols and Pictographs Extended-A
}

// Classify places a code point into exactly one class. The explicit Thai,
// Latin, digit, and neutral tables are pairwise disjoint; anything that also
// fails the category fallback is ClassOther (foreign script).
func Classify(r rune) Class {
	if r >= thaiLo && r <= thaiHi {
		return ClassThai
	}
	if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') {
		return ClassLatin
	}
	if r >= '0' && r <= '9' {
		return ClassDigit
	}
	if r < 0x80 {
		if strings.ContainsRune(allowedASCII, r) {
			return ClassNeutral
		}
		return ClassOther
	}
	if strings.ContainsRune(allowedSymbols, r) {
		return ClassNeutral
	}
	if inRanges(r, neutralRanges) {
		return ClassNeutral
	}
	// Fallback: punctuation, symbols, marks, separators, and controls stay
	// neutral, as does anything above the BMP (catches remaining emoji).
	if r > 0x10000 || unicode.In(r, unicode.P, unicode.S, unicode.M, unicode.Z, unicode.C) {
		return ClassNeutral
	}
	return ClassOther
}

func inRanges(r rune, ranges []runeRange) bool {
	for _, rr := range ranges {
		if r < rr.lo {
			return false
		}
		if r <= rr.hi {
			return true
		}
	}
	return false
}

// Counts holds the per-class tallies of a scanned text.
type Counts struct {
	Thai    int
	Latin   int
	Foreign []rune // distinct foreign-script runes in first-seen order
}

// MainlyThai reports whether the counted text is dominantly Thai: no foreign
// character anywhere and no Latin majority. An all-neutral text (digits,
// punctuation, emoji only) passes trivially.
func (c Counts) MainlyThai() bool {
	return len(c.Foreign) == 0 && c.Latin <= c.Thai
}

// Scan classifies every code point after discarding any leading reasoning
// trace. A foreign character forces the verdict false but never stops the
// scan; downstream score metadata wants the full counts.
func Scan(text string) Counts {
	text = afterReasoning(text)

	var c Counts
	var seen map[rune]bool
	for _, r := range text {
		switch Classify(r) {
		case ClassThai:
			c.Thai++
		case ClassLatin:
			c.Latin++
		case ClassOther:
			if seen == nil {
				seen = make(map[rune]bool)
			}
			if !seen[r] {
				seen[r] = true
				c.Foreign = append(c.Foreign, r)
			}
		}
	}
	return c
}

// MainlyThai reports whether text is dominantly written in Thai script.
func MainlyThai(text string) bool {
	return Scan(text).MainlyThai()
}

// afterReasoning drops everything up to and including the earliest closing
// reasoning delimiter, if any.
func afterReasoning(text string) string {
	cut := -1
	tagLen := 0
	for _, tag := range closingReasoningTags {
		i := strings.Index(text, tag)
		if i < 0 {
			continue
		}
		// The two spellings cannot match at the same offset, so the earliest
		// index alone decides.
		if cut < 0 || i < cut {
			cut = i
			tagLen = len(tag)
		}
	}
	if cut < 0 {
		return text
	}
	return text[cut+tagLen:]
}
