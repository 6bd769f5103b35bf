package benchmark

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
)

const defaultHellaSwagTHPath = "data/benchmark/hellaswag-th.jsonl"

const hellaSwagMaxChoices = 4

var (
	bracketTagPattern = regexp.MustCompile(`\[.*?\]`)
	quotedItemPattern = regexp.MustCompile(`'([^']*)'|"([^"]*)"`)
)

// HellaSwagTHDataset is Thai commonsense continuation: pick the most
// plausible ending for a given context.
type HellaSwagTHDataset struct {
	SampleSize int
}

type hellaSwagTHRow struct {
	ID            string          `json:"id,omitempty"`
	CtxATH        string          `json:"ctx_a_th"`
	CtxBTH        string          `json:"ctx_b_th,omitempty"`
	EndingsTH     json.RawMessage `json:"endings_th"`
	Label         any             `json:"label"`
	ActivityLabel string          `json:"activity_label_th,omitempty"`
}

func (d *HellaSwagTHDataset) Name() string { return "hellaswag-th" }

func (d *HellaSwagTHDataset) Description() string {
	return "HellaSwag Thai: commonsense multiple-choice continuation"
}

func (d *HellaSwagTHDataset) Load(ctx context.Context) ([]Question, error) {
	if ctx == nil {
		return nil, errors.New("hellaswag-th: nil context")
	}

	path := strings.TrimSpace(os.Getenv("THAI_EVAL_HELLASWAG_TH_PATH"))
	if path == "" {
		path = defaultHellaSwagTHPath
	}

	rows, err := readJSONL[hellaSwagTHRow](ctx, path)
	if err != nil {
		if os.IsNotExist(err) {
			return takeFirstN(defaultHellaSwagTHSample(), d.SampleSize), nil
		}
		return nil, fmt.Errorf("hellaswag-th: load %q: %w", path, err)
	}

	out := make([]Question, 0, len(rows))
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return out, err
		}

		context := buildHellaSwagContext(row.CtxATH, row.CtxBTH)
		endings := decodeEndings(row.EndingsTH)
		if context == "" || len(endings) == 0 {
			continue
		}
		if len(endings) > hellaSwagMaxChoices {
			endings = endings[:hellaSwagMaxChoices]
		}

		id := strings.TrimSpace(row.ID)
		if id == "" {
			id = fmt.Sprintf("hellaswag-th-%d", i+1)
		}

		category := strings.TrimSpace(row.ActivityLabel)
		if category == "" {
			category = "commonsense"
		}

		out = append(out, Question{
			ID:       id,
			Question: context,
			Choices:  endings,
			Answer:   mcqExpected{Answer: row.Label, Choices: endings},
			Category: category,
		})
	}

	out = takeFirstN(out, d.SampleSize)
	if len(out) == 0 {
		return takeFirstN(defaultHellaSwagTHSample(), d.SampleSize), nil
	}
	return out, nil
}

func (d *HellaSwagTHDataset) Evaluate(response string, expected any) (float64, error) {
	return evaluateMCQ(response, expected)
}

func buildHellaSwagContext(ctxA, ctxB string) string {
	a := cleanHellaSwagText(ctxA)
	b := cleanHellaSwagText(ctxB)
	if b == "" {
		return a
	}
	if a == "" {
		return b
	}
	return a + " " + b
}

// decodeEndings accepts either a JSON array or a stringified Python-style
// list; the cleaned Thai dataset ships both shapes.
func decodeEndings(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return cleanEndings(list)
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	var out []string
	for _, m := range quotedItemPattern.FindAllStringSubmatch(s, -1) {
		item := m[1]
		if item == "" {
			item = m[2]
		}
		if item != "" {
			out = append(out, item)
		}
	}
	return cleanEndings(out)
}

func cleanEndings(in []string) []string {
	out := make([]string, len(in))
	for i, e := range in {
		out[i] = cleanHellaSwagText(e)
	}
	return compactStrings(out)
}

// cleanHellaSwagText strips the ActivityNet markup the source rows carry.
func cleanHellaSwagText(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, ",'") && len(text) > 2 {
		text = strings.TrimSpace(text[2:])
	} else if strings.HasPrefix(text, ",") && len(text) > 1 {
		text = strings.TrimSpace(text[1:])
	}
	text = strings.ReplaceAll(text, " [title]", ". ")
	text = bracketTagPattern.ReplaceAllString(text, "")
	text = strings.ReplaceAll(text, "  ", " ")
	return strings.TrimSpace(text)
}

func defaultHellaSwagTHSample() []Question {
	choices := []string{
		"เขาเทน้ำร้อนลงในแก้วและคนให้เข้ากัน",
		"เขาโยนแก้วทิ้งลงพื้นทันที",
		"เขานำแก้วไปแช่ในตู้เย็นทั้งที่ยังร้อน",
		"เขาเทกาแฟทิ้งแล้วเริ่มต้นใหม่",
	}
	return []Question{
		{
			ID:       "hellaswag-th-sample-1",
			Category: "commonsense",
			Question: "ชายคนหนึ่งตักกาแฟผงใส่แก้ว จากนั้น",
			Choices:  choices,
			Answer:   mcqExpected{Answer: 0, Choices: choices},
		},
	}
}
