package benchmark

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestHumanEvalTHDataset_Load(t *testing.T) {
	path := writeFixture(t, "humaneval-th.jsonl", strings.Join([]string{
		`{"task_id":"HumanEval-TH/0","prompt":"def add(a, b):\\n    \"\"\"บวกเลข\"\"\"\\n","test":"def check(candidate):\\n    assert candidate(1, 2) == 3\\n\\ncheck(add)\\n","entry_point":"add"}`,
		`{"prompt":"","test":"skipped"}`,
	}, "\n"))
	t.Setenv("THAI_EVAL_HUMANEVAL_TH_PATH", path)

	d := &HumanEvalTHDataset{}
	qs, err := d.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(qs) != 1 {
		t.Fatalf("len(questions): got %d want %d", len(qs), 1)
	}

	exp, ok := qs[0].Answer.(humanEvalTHExpected)
	if !ok {
		t.Fatalf("answer type: got %T", qs[0].Answer)
	}
	// Doubly-escaped newlines in the export are restored on load.
	if !strings.Contains(exp.Prompt, "\n") || strings.Contains(exp.Prompt, `\n`) {
		t.Fatalf("prompt not unescaped: %q", exp.Prompt)
	}
	if exp.EntryPoint != "add" {
		t.Fatalf("entry point: got %q", exp.EntryPoint)
	}
}

func TestHumanEvalTHDataset_EvaluateDisabled(t *testing.T) {
	t.Setenv(codeExecEnv, "")

	d := &HumanEvalTHDataset{}
	_, err := d.Evaluate("```python\npass\n```", humanEvalTHExpected{Prompt: "p", Test: "t"})
	if !errors.Is(err, errCodeExecDisabled) {
		t.Fatalf("error: got %v want %v", err, errCodeExecDisabled)
	}
}

func TestHumanEvalTHDataset_EvaluateBadExpected(t *testing.T) {
	t.Setenv(codeExecEnv, "1")
	t.Setenv(sandboxModeEnv, sandboxModeDisabled)

	d := &HumanEvalTHDataset{}
	if _, err := d.Evaluate("```python\npass\n```", "not-a-struct"); err == nil {
		t.Fatalf("bad expected type: expected error")
	}
	if _, err := d.Evaluate("   ", humanEvalTHExpected{Prompt: "p", Test: "t"}); err == nil {
		t.Fatalf("empty output: expected error")
	}
}

func TestUnescapeSource(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`def f():\n    pass`, "def f():\n    pass"},
		{`a \\ b`, `a \ b`},
		{`http:\/\/example.com`, "http://example.com"},
		{"already\nclean", "already\nclean"},
	}
	for _, tt := range tests {
		if got := unescapeSource(tt.in); got != tt.want {
			t.Fatalf("unescapeSource(%q): got %q want %q", tt.in, got, tt.want)
		}
	}
}

func TestRunSandboxedPython_UnknownMode(t *testing.T) {
	t.Setenv(sandboxModeEnv, "vm")

	if _, err := runSandboxedPython("print(1)", 0); err == nil || !strings.Contains(err.Error(), "unknown") {
		t.Fatalf("error: got %v", err)
	}
}
