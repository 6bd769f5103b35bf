package benchmark

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/stellarlinkco/thai-eval/internal/extract"
)

const defaultLiveCodeBenchTHPath = "data/benchmark/live_code_bench-th.jsonl"

// LiveCodeBenchTHDataset scores Thai code-generation problems by extracting
// the fenced implementation from the chat response and comparing it to the
// canonical solution.
type LiveCodeBenchTHDataset struct {
	SampleSize int
}

type liveCodeBenchTHRow struct {
	TaskID            string `json:"task_id,omitempty"`
	Problem           string `json:"problem"`
	CanonicalSolution string `json:"canonical_solution"`
	Test              string `json:"test,omitempty"`
	EntryPoint        string `json:"entry_point,omitempty"`
}

func (d *LiveCodeBenchTHDataset) Name() string { return "live_code_bench-th" }

func (d *LiveCodeBenchTHDataset) Description() string {
	return "LiveCodeBench Thai: Python code generation from Thai problem statements"
}

func (d *LiveCodeBenchTHDataset) Load(ctx context.Context) ([]Question, error) {
	if ctx == nil {
		return nil, errors.New("live_code_bench-th: nil context")
	}

	path := strings.TrimSpace(os.Getenv("THAI_EVAL_LIVE_CODE_BENCH_TH_PATH"))
	if path == "" {
		path = defaultLiveCodeBenchTHPath
	}

	rows, err := readJSONL[liveCodeBenchTHRow](ctx, path)
	if err != nil {
		if os.IsNotExist(err) {
			return takeFirstN(defaultLiveCodeBenchTHSample(), d.SampleSize), nil
		}
		return nil, fmt.Errorf("live_code_bench-th: load %q: %w", path, err)
	}

	out := make([]Question, 0, len(rows))
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return out, err
		}

		problem := strings.TrimSpace(row.Problem)
		solution := strings.TrimSpace(row.CanonicalSolution)
		if problem == "" || solution == "" {
			continue
		}

		id := strings.TrimSpace(row.TaskID)
		if id == "" {
			id = fmt.Sprintf("live_code_bench-th-%d", i+1)
		}

		out = append(out, Question{
			ID:       id,
			Question: problem,
			Answer:   solution,
			Category: "code",
		})
	}

	out = takeFirstN(out, d.SampleSize)
	if len(out) == 0 {
		return takeFirstN(defaultLiveCodeBenchTHSample(), d.SampleSize), nil
	}
	return out, nil
}

func (d *LiveCodeBenchTHDataset) Evaluate(response string, expected any) (float64, error) {
	exp := strings.TrimSpace(fmt.Sprint(expected))
	if exp == "" {
		return 0, errors.New("live_code_bench-th: empty expected solution")
	}

	code, err := extract.CodeGeneration(response, extract.ModeChat)
	if err != nil {
		return 0, err
	}
	if strings.TrimSpace(code) == "" {
		return 0, errors.New("live_code_bench-th: no extractable code in response")
	}

	if normalizeSpace(code) == normalizeSpace(exp) {
		return 1, nil
	}
	return 0, nil
}

// RequiresStdin reports whether a problem statement expects a stdin-driven
// program; the runner switches prompt templates on it.
func RequiresStdin(problem string) bool {
	lower := strings.ToLower(problem)
	return strings.Contains(lower, "stdin") || strings.Contains(lower, "input()")
}

func defaultLiveCodeBenchTHSample() []Question {
	return []Question{
		{
			ID:       "live_code_bench-th-sample-1",
			Category: "code",
			Question: "เขียนฟังก์ชันที่รับรายการจำนวนเต็มและคืนค่าผลรวมของจำนวนคู่ทั้งหมด",
			Answer:   "def sum_even(nums):\n    return sum(n for n in nums if n % 2 == 0)",
		},
	}
}
