package extract

import (
	"strings"
	"testing"
)

func TestStripReasoning(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"no tags", "plain answer", "plain answer"},
		{"think block", "<think>internal</think>answer", "answer"},
		{"thinking block", "<thinking>internal</thinking>answer", "answer"},
		{"multiple blocks", "<think>a</think>one<think>b</think>two", "onetwo"},
		{"multiline block", "<think>line1\nline2\n</think>\nanswer", "answer"},
		{"only block", "<think>everything</think>", ""},
		{"unterminated start tag", "<think>never closed, answer follows", "<think>never closed, answer follows"},
		{"stray end tag", "answer</think>", "answer</think>"},
		{"mixed spellings", "<think>a</think><thinking>b</thinking>answer", "answer"},
		{"non greedy", "<think>a</think>keep<think>b</think>", "keep"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := StripReasoning(tc.in); got != tc.want {
				t.Fatalf("StripReasoning(%q)=%q want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestStripReasoning_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"plain",
		"<think>a</think>answer",
		"<thinking>a</thinking><think>b</think>answer",
		"  padded  ",
		"<think>unclosed",
	}
	for _, in := range inputs {
		once := StripReasoning(in)
		if twice := StripReasoning(once); twice != once {
			t.Fatalf("not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestCodeBlock_PreferredLanguage(t *testing.T) {
	text := "Here is pseudocode:\n```\nfake\n```\nAnd the real one:\n```python\nprint('hi')\n```\n"
	got := CodeBlock(text, "python")
	if got != "print('hi')" {
		t.Fatalf("got %q", got)
	}
}

func TestCodeBlock_CaseInsensitiveLanguageTag(t *testing.T) {
	text := "```Python\nprint('hi')\n```"
	if got := CodeBlock(text, "python"); got != "print('hi')" {
		t.Fatalf("got %q", got)
	}
}

func TestCodeBlock_LongestWins(t *testing.T) {
	text := "```\nshort\n```\nsome prose\n```\na much longer block of code here\nwith two lines\n```\n"
	got := CodeBlock(text, "")
	if got != "a much longer block of code here\nwith two lines" {
		t.Fatalf("got %q", got)
	}
}

func TestCodeBlock_NoFenceReturnsStrippedText(t *testing.T) {
	text := "<think>reasoning</think>the answer is 42"
	if got := CodeBlock(text, "python"); got != "the answer is 42" {
		t.Fatalf("got %q", got)
	}
}

func TestCodeBlock_RoundTrip(t *testing.T) {
	code := "def solve():\n    return 1\n"
	text := "Some explanation.\n```python\n" + code + "```\nDone."
	if got := CodeBlock(text, "python"); got != strings.TrimSpace(code) {
		t.Fatalf("got %q want %q", got, strings.TrimSpace(code))
	}
}

func TestCodeBlock_StripsReasoningFirst(t *testing.T) {
	text := "<think>\n```python\nghost = True\n```\n</think>\n```python\nreal = True\n```"
	if got := CodeBlock(text, "python"); got != "real = True" {
		t.Fatalf("got %q", got)
	}
}

func TestCodeGeneration_Base(t *testing.T) {
	got, err := CodeGeneration("<think>x</think>  raw completion  ", ModeBase)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if got != "raw completion" {
		t.Fatalf("got %q", got)
	}
}

func TestCodeGeneration_ChatPicksLongest(t *testing.T) {
	text := strings.Join([]string{
		"#### Algorithm",
		"```",
		"best = 0",
		"loop and compute",
		"```",
		"#### Reference Implementation",
		"```python",
		"import sys",
		"",
		"def solve():",
		"    data = sys.stdin.read()",
		"    print(data)",
		"",
		"solve()",
		"```",
		"The program follows the algorithm above.",
	}, "\n")

	got, err := CodeGeneration(text, ModeChat)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if !strings.HasPrefix(got, "import sys") {
		t.Fatalf("expected the implementation block, got %q", got)
	}
	if strings.Contains(got, "best = 0") {
		t.Fatalf("picked the pseudocode block: %q", got)
	}
}

func TestCodeGeneration_ChatTooFewFences(t *testing.T) {
	got, err := CodeGeneration("no fences at all", ModeChat)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if got != "" {
		t.Fatalf("got %q", got)
	}

	got, err = CodeGeneration("one fence only\n```python\nunclosed", ModeChat)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if got != "" {
		t.Fatalf("got %q", got)
	}
}

func TestCodeGeneration_InvalidMode(t *testing.T) {
	_, err := CodeGeneration("anything", Mode("invalid_mode"))
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "invalid mode") {
		t.Fatalf("err=%q", err.Error())
	}
}

func TestCodeGeneration_EmptyBlocksFallBack(t *testing.T) {
	text := "```\n\n```\ntrailing"
	got, err := CodeGeneration(text, ModeChat)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if got != "" {
		t.Fatalf("got %q", got)
	}
}
