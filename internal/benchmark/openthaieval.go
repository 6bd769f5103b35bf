package benchmark

import (
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/stellarlinkco/thai-eval/internal/extract"
)

const defaultOpenThaiEvalPath = "data/benchmark/openthaieval.jsonl"

// Thai national exam questions use numbered choices written as (1)..(9).
var (
	choicePattern         = regexp.MustCompile(`\([1-9]\)`)
	expectedChoicePattern = regexp.MustCompile(`\([1-9a-zA-Zก-ฮ]\)`)
	bareDigitPattern      = regexp.MustCompile(`[1-9]`)
)

// Answer prefixes the prompt template asks for; model output is split on the
// last occurrence so trailing restatements win.
var thaiAnswerPrefixes = []string{
	"คำตอบที่ถูกต้องคือ",
	"คำตอบคือ",
	"ตอบว่า:",
}

// OpenThaiEvalDataset covers Thai national examination questions (O-NET,
// TGAT, A-Level and friends) as numbered multiple choice.
type OpenThaiEvalDataset struct {
	SampleSize int
}

type openThaiEvalRow struct {
	QuestionID  string `json:"question_id,omitempty"`
	Instruction string `json:"instruction"`
	Input       string `json:"input,omitempty"`
	Result      string `json:"result"`
	ExamType    string `json:"exam_type,omitempty"`
	Year        string `json:"year,omitempty"`
}

func (d *OpenThaiEvalDataset) Name() string { return "openthaieval" }

func (d *OpenThaiEvalDataset) Description() string {
	return "OpenThaiEval: Thai national exam multiple-choice questions"
}

func (d *OpenThaiEvalDataset) Load(ctx context.Context) ([]Question, error) {
	if ctx == nil {
		return nil, errors.New("openthaieval: nil context")
	}

	path := strings.TrimSpace(os.Getenv("THAI_EVAL_OPENTHAIEVAL_PATH"))
	if path == "" {
		path = defaultOpenThaiEvalPath
	}

	rows, err := readJSONL[openThaiEvalRow](ctx, path)
	if err != nil {
		if os.IsNotExist(err) {
			return takeFirstN(defaultOpenThaiEvalSample(), d.SampleSize), nil
		}
		return nil, fmt.Errorf("openthaieval: load %q: %w", path, err)
	}

	out := make([]Question, 0, len(rows))
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return out, err
		}

		instruction := strings.TrimSpace(row.Instruction)
		target := normalizeExamTarget(row.Result)
		if instruction == "" || target == "" {
			continue
		}

		id := strings.TrimSpace(row.QuestionID)
		if id == "" {
			id = fmt.Sprintf("openthaieval-%d", i+1)
		}

		category := strings.TrimSpace(row.ExamType)
		if category == "" {
			category = "exam"
		}

		// The runner's exam template prepends the question label; Load only
		// joins the instruction with its choice list.
		prompt := instruction
		if choices := strings.TrimSpace(row.Input); choices != "" {
			prompt = instruction + "\nChoice: " + choices
		}

		out = append(out, Question{
			ID:       id,
			Question: prompt,
			Answer:   target,
			Category: category,
		})
	}

	out = takeFirstN(out, d.SampleSize)
	if len(out) == 0 {
		return takeFirstN(defaultOpenThaiEvalSample(), d.SampleSize), nil
	}
	return out, nil
}

func (d *OpenThaiEvalDataset) Evaluate(response string, expected any) (float64, error) {
	exp := strings.TrimSpace(fmt.Sprint(expected))
	if exp == "" {
		return 0, errors.New("openthaieval: empty expected answer")
	}

	got := extractExamChoice(response)
	if got == "" {
		return 0, errors.New("openthaieval: could not extract answer choice")
	}
	if got == exp {
		return 1, nil
	}
	return 0, nil
}

// normalizeExamTarget reduces a raw dataset result field to its "(N)" form.
func normalizeExamTarget(result string) string {
	target := strings.TrimSpace(result)
	// Some entries restate the answer, e.g. "(2) คือคำตอบที่ถูกต้อง".
	target = strings.TrimSpace(strings.ReplaceAll(target, "คือคำตอบที่ถูกต้อง", ""))
	if m := expectedChoicePattern.FindString(target); m != "" {
		return m
	}
	return target
}

// extractExamChoice pulls a "(N)" answer choice out of a model response.
func extractExamChoice(response string) string {
	answer := extract.StripReasoning(response)

	// xnli subsets answer with labels instead of numbers.
	switch strings.TrimSpace(answer) {
	case "entailment":
		return "(1)"
	case "neutral":
		return "(2)"
	case "contradiction":
		return "(3)"
	}

	for _, prefix := range thaiAnswerPrefixes {
		if idx := strings.LastIndex(answer, prefix); idx >= 0 {
			answer = answer[idx+len(prefix):]
			break
		}
	}

	if m := choicePattern.FindString(answer); m != "" {
		return m
	}
	if m := bareDigitPattern.FindString(answer); m != "" {
		return "(" + m + ")"
	}
	return strings.TrimSpace(answer)
}

func defaultOpenThaiEvalSample() []Question {
	return []Question{
		{
			ID:       "openthaieval-sample-1",
			Category: "sample",
			Question: "ข้อใดต่อไปนี้เป็นเมืองหลวงของประเทศไทย\nChoice: (1) เชียงใหม่ (2) กรุงเทพมหานคร (3) ภูเก็ต (4) พัทยา",
			Answer:   "(2)",
		},
		{
			ID:       "openthaieval-sample-2",
			Category: "sample",
			Question: "ประเทศไทยมีกี่จังหวัด\nChoice: (1) 75 จังหวัด (2) 76 จังหวัด (3) 77 จังหวัด (4) 78 จังหวัด",
			Answer:   "(3)",
		},
	}
}
