// Package extract pulls the usable answer out of raw model output: it strips
// internal reasoning blocks and locates fenced code blocks, preferring the
// longest candidate when a response carries several.
package extract

import (
	"fmt"
	"regexp"
	"strings"
)

// Reasoning blocks come in two tag spellings depending on the model family.
var reasoningBlockPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?s)<think>.*?</think>`),
	regexp.MustCompile(`(?s)<thinking>.*?</thinking>`),
}

var genericFencePattern = regexp.MustCompile("(?s)```\\s*\\n(.*?)```")

// StripReasoning removes every well-formed reasoning block and trims the
// surrounding whitespace. Unpaired tags are left alone; the function is
// idempotent and a no-op on text without tags.
func StripReasoning(text string) string {
	if text == "" {
		return text
	}
	for _, re := range reasoningBlockPatterns {
		text = re.ReplaceAllString(text, "")
	}
	return strings.TrimSpace(text)
}

// CodeBlock extracts the most likely answer code from markdown-formatted
// output. Blocks tagged with lang win over untagged ones (exact tag first,
// then case-insensitive); among qualifying blocks the longest is returned,
// since verbose models tend to emit pseudocode before the real
// implementation. Without any fence the stripped text is returned unchanged.
func CodeBlock(text string, lang string) string {
	if text == "" {
		return text
	}
	text = StripReasoning(text)

	if tag := strings.TrimSpace(lang); tag != "" {
		quoted := regexp.QuoteMeta(tag)
		if b, ok := longestBlock(text, regexp.MustCompile("(?s)```"+quoted+"\\s*\\n(.*?)```")); ok {
			return b
		}
		if b, ok := longestBlock(text, regexp.MustCompile("(?s)```(?i:"+quoted+")\\s*\\n(.*?)```")); ok {
			return b
		}
	}

	if b, ok := longestBlock(text, genericFencePattern); ok {
		return b
	}
	return text
}

func longestBlock(text string, re *regexp.Regexp) (string, bool) {
	matches := re.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return "", false
	}
	best := matches[0][1]
	for _, m := range matches[1:] {
		if len(m[1]) > len(best) {
			best = m[1]
		}
	}
	return strings.TrimSpace(best), true
}

// Mode selects how CodeGeneration treats the response.
type Mode string

const (
	// ModeBase expects raw completions with no instruction formatting.
	ModeBase Mode = "base"
	// ModeChat expects fenced code blocks in a chat-style answer.
	ModeChat Mode = "chat"
)

// CodeGeneration extracts generated code from a completion. Base-mode
// responses are returned verbatim after reasoning stripping. Chat-mode
// responses must contain at least one fence pair; consecutive fence-marker
// lines are paired into blocks and the longest non-empty block wins. Fewer
// than two fence lines yields "" (no extractable code). An unknown mode is a
// caller bug and fails loudly.
func CodeGeneration(text string, mode Mode) (string, error) {
	text = StripReasoning(text)

	switch mode {
	case ModeBase:
		return text, nil
	case ModeChat:
	default:
		return "", fmt.Errorf("extract: invalid mode %q (expected %s|%s)", mode, ModeBase, ModeChat)
	}

	lines := strings.Split(text, "\n")
	var fences []int
	for i, line := range lines {
		if strings.Contains(line, "```") {
			fences = append(fences, i)
		}
	}
	if len(fences) < 2 {
		return "", nil
	}

	var blocks []string
	for i := 0; i+1 < len(fences); i += 2 {
		block := strings.Join(lines[fences[i]+1:fences[i+1]], "\n")
		if strings.TrimSpace(block) != "" {
			blocks = append(blocks, block)
		}
	}
	if len(blocks) == 0 {
		// All paired blocks were empty; keep the first span for the caller.
		return strings.Join(lines[fences[0]+1:fences[1]], "\n"), nil
	}

	longest := blocks[0]
	for _, b := range blocks[1:] {
		if len(b) > len(longest) {
			longest = b
		}
	}
	return longest, nil
}
