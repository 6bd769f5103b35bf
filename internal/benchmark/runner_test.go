package benchmark

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stellarlinkco/thai-eval/internal/llm"
)

type fakeProvider struct {
	name      string
	responses map[string]string
	err       error
	calls     int
	prompts   []string
}

func (p *fakeProvider) Name() string { return p.name }

func (p *fakeProvider) Complete(_ context.Context, req *llm.Request) (*llm.Result, error) {
	p.calls++
	p.prompts = append(p.prompts, req.Prompt)
	if p.err != nil {
		return nil, p.err
	}

	text := ""
	for needle, resp := range p.responses {
		if strings.Contains(req.Prompt, needle) {
			text = resp
			break
		}
	}
	return &llm.Result{
		TextContent:  text,
		InputTokens:  10,
		OutputTokens: 5,
	}, nil
}

type fakeDataset struct {
	name      string
	questions []Question
	loadErr   error
	evalFn    func(response string, expected any) (float64, error)
}

func (d *fakeDataset) Name() string        { return d.name }
func (d *fakeDataset) Description() string { return "fake dataset" }
func (d *fakeDataset) Load(context.Context) ([]Question, error) {
	return d.questions, d.loadErr
}
func (d *fakeDataset) Evaluate(response string, expected any) (float64, error) {
	return d.evalFn(response, expected)
}

func TestBenchmarkRunner_Run(t *testing.T) {
	ds := &fakeDataset{
		name: "fake",
		questions: []Question{
			{ID: "q1", Question: "หนึ่ง", Answer: "a"},
			{ID: "q2", Question: "สอง", Answer: "b"},
		},
		evalFn: func(response string, expected any) (float64, error) {
			if response == "ถูก" {
				return 1, nil
			}
			return 0, nil
		},
	}
	p := &fakeProvider{
		name: "fake-provider",
		responses: map[string]string{
			"หนึ่ง": "ถูก",
			"สอง":   "ผิด",
		},
	}

	r := &BenchmarkRunner{Provider: p, Dataset: ds}
	res, err := r.Run(context.Background(), "test-model")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if res.Model != "test-model" || res.Dataset != "fake" {
		t.Fatalf("result header: got %+v", res)
	}
	if len(res.Results) != 2 {
		t.Fatalf("len(results): got %d want %d", len(res.Results), 2)
	}
	if res.Score != 0.5 || res.Accuracy != 0.5 {
		t.Fatalf("score/accuracy: got %v/%v want 0.5/0.5", res.Score, res.Accuracy)
	}
	if res.TotalTokens != 30 {
		t.Fatalf("tokens: got %d want %d", res.TotalTokens, 30)
	}
	if !res.Results[0].Passed || res.Results[1].Passed {
		t.Fatalf("passed flags: got %+v", res.Results)
	}
}

func TestBenchmarkRunner_ProviderAndEvalErrors(t *testing.T) {
	ds := &fakeDataset{
		name:      "fake",
		questions: []Question{{ID: "q1", Question: "x", Answer: "a"}},
		evalFn: func(string, any) (float64, error) {
			return 0, errors.New("could not parse")
		},
	}

	// Provider error is recorded per question, not fatal.
	r := &BenchmarkRunner{
		Provider: &fakeProvider{name: "p", err: errors.New("rate limited")},
		Dataset:  ds,
	}
	res, err := r.Run(context.Background(), "m")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Results[0].Error != "rate limited" || res.Results[0].Passed {
		t.Fatalf("result: got %+v", res.Results[0])
	}

	// Evaluate error likewise.
	r = &BenchmarkRunner{Provider: &fakeProvider{name: "p"}, Dataset: ds}
	res, err = r.Run(context.Background(), "m")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(res.Results[0].Error, "could not parse") {
		t.Fatalf("result: got %+v", res.Results[0])
	}
}

func TestBenchmarkRunner_Guards(t *testing.T) {
	var rnil *BenchmarkRunner
	if _, err := rnil.Run(context.Background(), "m"); err == nil {
		t.Fatalf("nil runner: expected error")
	}

	r := &BenchmarkRunner{}
	if _, err := r.Run(context.Background(), "m"); err == nil {
		t.Fatalf("nil provider: expected error")
	}

	r = &BenchmarkRunner{Provider: &fakeProvider{name: "p"}}
	if _, err := r.Run(context.Background(), "m"); err == nil {
		t.Fatalf("nil dataset: expected error")
	}

	r = &BenchmarkRunner{
		Provider: &fakeProvider{name: "p"},
		Dataset:  &fakeDataset{name: "fake", loadErr: errors.New("boom")},
	}
	if _, err := r.Run(context.Background(), "m"); err == nil {
		t.Fatalf("load error: expected error")
	}

	r = &BenchmarkRunner{
		Provider: &fakeProvider{name: "p"},
		Dataset:  &fakeDataset{name: "fake"},
	}
	if _, err := r.Run(context.Background(), "m"); err == nil {
		t.Fatalf("empty dataset: expected error")
	}
}

func TestBenchmarkRunner_ContextCancelReturnsPartial(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	ds := &fakeDataset{
		name: "fake",
		questions: []Question{
			{ID: "q1", Question: "a", Answer: "x"},
			{ID: "q2", Question: "b", Answer: "x"},
		},
		evalFn: func(string, any) (float64, error) {
			calls++
			cancel() // cancel after the first question completes
			return 1, nil
		},
	}

	r := &BenchmarkRunner{Provider: &fakeProvider{name: "p"}, Dataset: ds}
	res, err := r.Run(ctx, "m")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err: got %v want context.Canceled", err)
	}
	if res == nil || len(res.Results) != 1 {
		t.Fatalf("partial results: got %+v", res)
	}
	if calls != 1 {
		t.Fatalf("eval calls: got %d want 1", calls)
	}
}

func TestFormatPrompt(t *testing.T) {
	q := Question{Question: "โจทย์"}

	if got := formatPrompt("math_500-th", q); !strings.Contains(got, `\boxed{}`) {
		t.Fatalf("math prompt: got %q", got)
	}
	if got := formatPrompt("aime24-th", q); !strings.Contains(got, "ขั้นตอน") {
		t.Fatalf("aime prompt: got %q", got)
	}
	if got := formatPrompt("openthaieval", q); !strings.Contains(got, "Choice") || !strings.Contains(got, "โจทย์") {
		t.Fatalf("exam prompt: got %q", got)
	}
	if got := formatPrompt("humaneval-th", q); !strings.Contains(got, "```python") {
		t.Fatalf("humaneval prompt: got %q", got)
	}
	if got := formatPrompt("code_switching", q); got != "โจทย์" {
		t.Fatalf("passthrough prompt: got %q", got)
	}

	stdinQ := Question{Question: "อ่านข้อมูลจาก stdin แล้วประมวลผล"}
	if got := formatPrompt("live_code_bench-th", stdinQ); !strings.Contains(got, "standard input") {
		t.Fatalf("lcb stdin prompt: got %q", got)
	}
	if got := formatPrompt("live_code_bench-th", q); !strings.Contains(got, "ฟังก์ชัน") {
		t.Fatalf("lcb function prompt: got %q", got)
	}

	choices := []string{"หนึ่ง", "สอง"}
	mcq := Question{Question: "บริบท", Answer: mcqExpected{Answer: 0, Choices: choices}}
	got := formatPrompt("hellaswag-th", mcq)
	if !strings.Contains(got, "A. หนึ่ง") || !strings.Contains(got, "B. สอง") {
		t.Fatalf("hellaswag prompt: got %q", got)
	}
}
