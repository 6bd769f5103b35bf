package benchmark

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/stellarlinkco/thai-eval/internal/llm"
)

// BenchmarkRunner drives a dataset through a provider and scores each
// response.
type BenchmarkRunner struct {
	Provider llm.Provider
	Dataset  Dataset
}

// BenchmarkResult aggregates a full run.
type BenchmarkResult struct {
	Model       string           `json:"model"`
	Dataset     string           `json:"dataset"`
	Score       float64          `json:"score"`
	Accuracy    float64          `json:"accuracy"`
	TotalTime   time.Duration    `json:"total_time"`
	TotalTokens int              `json:"total_tokens"`
	Results     []QuestionResult `json:"results"`
}

// QuestionResult records the outcome for one question.
type QuestionResult struct {
	ID       string        `json:"id"`
	Category string        `json:"category,omitempty"`
	Score    float64       `json:"score"`
	Passed   bool          `json:"passed"`
	Latency  time.Duration `json:"latency"`
	Tokens   int           `json:"tokens"`
	Error    string        `json:"error,omitempty"`
}

// Run evaluates every question in the dataset. A cancelled context returns
// the partial result alongside the context error.
func (r *BenchmarkRunner) Run(ctx context.Context, model string) (*BenchmarkResult, error) {
	if r == nil {
		return nil, errors.New("benchmark: nil runner")
	}
	if r.Provider == nil {
		return nil, errors.New("benchmark: nil provider")
	}
	if r.Dataset == nil {
		return nil, errors.New("benchmark: nil dataset")
	}
	if ctx == nil {
		return nil, errors.New("benchmark: nil context")
	}

	questions, err := r.Dataset.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("benchmark: load dataset %q: %w", r.Dataset.Name(), err)
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("benchmark: dataset %q has no questions", r.Dataset.Name())
	}

	result := &BenchmarkResult{
		Model:   model,
		Dataset: r.Dataset.Name(),
		Results: make([]QuestionResult, 0, len(questions)),
	}

	start := time.Now()
	var totalScore float64
	var passed int

	for _, q := range questions {
		if err := ctx.Err(); err != nil {
			result.TotalTime = time.Since(start)
			result.Score = safeAvg(totalScore, len(result.Results))
			result.Accuracy = safeAvg(float64(passed), len(result.Results))
			return result, err
		}

		qr := r.runOne(ctx, model, q)
		totalScore += qr.Score
		if qr.Passed {
			passed++
		}
		result.TotalTokens += qr.Tokens
		result.Results = append(result.Results, qr)
	}

	result.TotalTime = time.Since(start)
	result.Score = safeAvg(totalScore, len(result.Results))
	result.Accuracy = safeAvg(float64(passed), len(result.Results))
	return result, nil
}

func (r *BenchmarkRunner) runOne(ctx context.Context, model string, q Question) QuestionResult {
	qr := QuestionResult{ID: q.ID, Category: q.Category}

	prompt := formatPrompt(r.Dataset.Name(), q)

	reqStart := time.Now()
	resp, err := r.Provider.Complete(ctx, &llm.Request{
		Model:  model,
		Prompt: prompt,
	})
	qr.Latency = time.Since(reqStart)
	if err != nil {
		qr.Error = err.Error()
		return qr
	}

	qr.Tokens = resp.InputTokens + resp.OutputTokens

	score, err := r.Dataset.Evaluate(resp.TextContent, q.Answer)
	if err != nil {
		qr.Error = err.Error()
		return qr
	}

	qr.Score = score
	qr.Passed = score >= 1
	return qr
}

func safeAvg(sum float64, n int) float64 {
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

const (
	mathPromptSuffix = "\nกรุณาแสดงวิธีคิดแบบขั้นตอนอย่างละเอียด และใส่คำตอบสุดท้ายให้ชัดเจนใน \\boxed{}"

	examPromptTemplate = "ตอบคำถามดังต่อไปนี้โดยการเลือกคำตอบตาม Choice ที่กำหนดให้ และตอบในรูปแบบ (1), (2), (3), (4) หรือ (5) เท่านั้น\n\nคำถาม: %s"

	codeChatPromptTemplate = "คุณคือโปรแกรมเมอร์ Python ที่เชี่ยวชาญ จงเขียนฟังก์ชันต่อไปนี้ให้สมบูรณ์ อธิบายแนวคิดสั้น ๆ ได้ แต่ต้องใส่โค้ดคำตอบสุดท้ายไว้ในบล็อก ```python ... ``` เท่านั้น\n\n%s"

	lcbStdinPromptTemplate = "จงเขียนโปรแกรม Python ที่อ่านข้อมูลจาก standard input และพิมพ์คำตอบทาง standard output ตามโจทย์ต่อไปนี้ ใส่โค้ดคำตอบสุดท้ายไว้ในบล็อก ```python ... ```\n\n%s"

	lcbFuncPromptTemplate = "จงเขียนฟังก์ชัน Python ตามโจทย์ต่อไปนี้ ใส่โค้ดคำตอบสุดท้ายไว้ในบล็อก ```python ... ```\n\n%s"
)

// formatPrompt wraps a question with the dataset's instruction template.
func formatPrompt(dataset string, q Question) string {
	switch dataset {
	case "math_500-th", "aime24-th":
		return q.Question + mathPromptSuffix
	case "openthaieval":
		return fmt.Sprintf(examPromptTemplate, q.Question)
	case "humaneval-th":
		return fmt.Sprintf(codeChatPromptTemplate, q.Question)
	case "live_code_bench-th":
		if RequiresStdin(q.Question) {
			return fmt.Sprintf(lcbStdinPromptTemplate, q.Question)
		}
		return fmt.Sprintf(lcbFuncPromptTemplate, q.Question)
	case "hellaswag-th":
		return formatMCQPrompt(q)
	default:
		return q.Question
	}
}

func formatMCQPrompt(q Question) string {
	_, choices := unwrapMCQExpected(q.Answer)
	if len(choices) == 0 {
		return q.Question
	}

	var b strings.Builder
	b.WriteString("เลือกตอนจบที่สมเหตุสมผลที่สุดของข้อความต่อไปนี้ ตอบเป็นตัวอักษรข้อที่เลือกเท่านั้น\n\n")
	b.WriteString(q.Question)
	b.WriteString("\n")
	for i, c := range choices {
		fmt.Fprintf(&b, "\n%c. %s", 'A'+i, c)
	}
	return b.String()
}
