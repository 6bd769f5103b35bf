package benchmark

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/stellarlinkco/thai-eval/internal/extract"
)

// Math variants share one adapter shape: problem/answer records, a Thai
// step-by-step prompt, and \boxed{} answer extraction.
const (
	VariantMath500TH = "math_500-th"
	VariantAIME24TH  = "aime24-th"

	defaultMath500THPath = "data/benchmark/math_500-th.jsonl"
	defaultAIME24THPath  = "data/benchmark/aime24-th.jsonl"
)

// ThaiMathDataset scores Thai-language math reasoning problems by comparing
// the final boxed answer numerically.
type ThaiMathDataset struct {
	Variant    string // VariantMath500TH (default) or VariantAIME24TH
	SampleSize int
}

type thaiMathRow struct {
	ID       string `json:"id,omitempty"`
	UniqueID string `json:"unique_id,omitempty"`
	Problem  string `json:"problem"`
	Answer   string `json:"answer"`
	Solution string `json:"solution,omitempty"`
	Level    int    `json:"level,omitempty"`
}

func (d *ThaiMathDataset) Name() string {
	if strings.TrimSpace(d.Variant) == VariantAIME24TH {
		return VariantAIME24TH
	}
	return VariantMath500TH
}

func (d *ThaiMathDataset) Description() string {
	if d.Name() == VariantAIME24TH {
		return "AIME 2024 competition math problems translated to Thai"
	}
	return "MATH-500 mathematical reasoning problems translated to Thai"
}

func (d *ThaiMathDataset) Load(ctx context.Context) ([]Question, error) {
	if ctx == nil {
		return nil, errors.New("thaimath: nil context")
	}

	name := d.Name()
	path := strings.TrimSpace(os.Getenv("THAI_EVAL_" + envSuffix(name) + "_PATH"))
	if path == "" {
		if name == VariantAIME24TH {
			path = defaultAIME24THPath
		} else {
			path = defaultMath500THPath
		}
	}

	rows, err := readJSONL[thaiMathRow](ctx, path)
	if err != nil {
		if os.IsNotExist(err) {
			return takeFirstN(defaultThaiMathSample(name), d.SampleSize), nil
		}
		return nil, fmt.Errorf("%s: load %q: %w", name, path, err)
	}

	out := make([]Question, 0, len(rows))
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return out, err
		}

		problem := strings.TrimSpace(row.Problem)
		answer := strings.TrimSpace(row.Answer)
		if problem == "" || answer == "" {
			continue
		}

		id := strings.TrimSpace(row.ID)
		if id == "" {
			id = strings.TrimSpace(row.UniqueID)
		}
		if id == "" {
			id = fmt.Sprintf("%s-%d", name, i+1)
		}

		out = append(out, Question{
			ID:       id,
			Question: problem,
			Answer:   answer,
			Category: "math",
		})
	}

	out = takeFirstN(out, d.SampleSize)
	if len(out) == 0 {
		return takeFirstN(defaultThaiMathSample(name), d.SampleSize), nil
	}
	return out, nil
}

func (d *ThaiMathDataset) Evaluate(response string, expected any) (float64, error) {
	exp := strings.TrimSpace(fmt.Sprint(expected))
	if exp == "" {
		return 0, errors.New("thaimath: empty expected answer")
	}

	got := extractMathAnswer(response)
	if got == "" {
		return 0, errors.New("thaimath: could not extract answer from response")
	}

	if expNum, ok := parseNumber(exp); ok {
		gotNum, ok := parseNumber(got)
		if !ok {
			return 0, fmt.Errorf("thaimath: non-numeric answer %q", got)
		}
		if almostEqual(expNum, gotNum) {
			return 1, nil
		}
		return 0, nil
	}

	// Non-numeric references (expressions, fractions) fall back to a
	// normalized string comparison.
	if normalizeMathExpr(got) == normalizeMathExpr(exp) {
		return 1, nil
	}
	return 0, nil
}

// extractMathAnswer prefers the last \boxed{...} span, falling back to the
// last number in the stripped response.
func extractMathAnswer(response string) string {
	s := extract.StripReasoning(response)
	if boxed, ok := lastBoxed(s); ok {
		return boxed
	}
	if n, ok := extractLastNumber(s); ok {
		return n
	}
	return ""
}

// lastBoxed returns the contents of the last balanced \boxed{...} in s.
func lastBoxed(s string) (string, bool) {
	const marker = `\boxed{`
	start := strings.LastIndex(s, marker)
	if start < 0 {
		return "", false
	}

	depth := 1
	body := s[start+len(marker):]
	for i, r := range body {
		switch r {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return strings.TrimSpace(body[:i]), true
			}
		}
	}
	return "", false
}

func extractLastNumber(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}

	start := -1
	end := -1
	for i := len(s) - 1; i >= 0; i-- {
		c := s[i]
		if (c >= '0' && c <= '9') || c == '.' || c == ',' {
			end = i + 1
			start = i
			for start > 0 {
				pc := s[start-1]
				if (pc >= '0' && pc <= '9') || pc == '.' || pc == ',' || pc == '-' {
					start--
					continue
				}
				break
			}
			break
		}
	}
	if start < 0 || end < 0 || start >= end {
		return "", false
	}
	raw := strings.TrimSpace(s[start:end])
	raw = strings.ReplaceAll(raw, ",", "")
	raw = strings.Trim(raw, ".")
	if raw == "" || raw == "-" {
		return "", false
	}
	return raw, true
}

func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	return f, err == nil
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func normalizeMathExpr(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, `\left`, "")
	s = strings.ReplaceAll(s, `\right`, "")
	return s
}

func envSuffix(name string) string {
	name = strings.ToUpper(name)
	name = strings.ReplaceAll(name, "-", "_")
	return name
}

func defaultThaiMathSample(name string) []Question {
	return []Question{
		{
			ID:       name + "-sample-1",
			Category: "math",
			Question: "ถ้ามีแอปเปิล 3 ผล และซื้อเพิ่มอีก 2 ผล จะมีแอปเปิลทั้งหมดกี่ผล",
			Answer:   "5",
		},
		{
			ID:       name + "-sample-2",
			Category: "math",
			Question: "จงหาค่าของ 12 × 12",
			Answer:   "144",
		},
	}
}
