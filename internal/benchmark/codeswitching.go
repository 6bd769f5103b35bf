package benchmark

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/stellarlinkco/thai-eval/internal/thaitext"
)

const (
	defaultCodeSwitchingPath = "data/benchmark/code_switching.jsonl"

	// WangchanThaiInstruct prompts are capped to keep request sizes sane.
	codeSwitchingMaxPromptChars = 10000
)

// CodeSwitchingDataset checks that a model answers Thai instructions in Thai
// rather than drifting into English. The score is the script-dominance
// verdict: 1.0 if the response is mainly Thai, 0.0 otherwise.
type CodeSwitchingDataset struct {
	SampleSize int
}

type codeSwitchingRow struct {
	ID          string `json:"id,omitempty"`
	Instruction string `json:"Instruction"`
	Input       string `json:"Input,omitempty"`
	Output      string `json:"Output,omitempty"`
	Domain      string `json:"Domain,omitempty"`
	TaskType    string `json:"Task_type,omitempty"`
}

func (d *CodeSwitchingDataset) Name() string { return "code_switching" }

func (d *CodeSwitchingDataset) Description() string {
	return "Thai-English code switching: responses to Thai instructions must stay mainly Thai"
}

func (d *CodeSwitchingDataset) Load(ctx context.Context) ([]Question, error) {
	if ctx == nil {
		return nil, errors.New("code_switching: nil context")
	}

	path := strings.TrimSpace(os.Getenv("THAI_EVAL_CODE_SWITCHING_PATH"))
	if path == "" {
		path = defaultCodeSwitchingPath
	}

	rows, err := readJSONL[codeSwitchingRow](ctx, path)
	if err != nil {
		if os.IsNotExist(err) {
			return takeFirstN(defaultCodeSwitchingSample(), d.SampleSize), nil
		}
		return nil, fmt.Errorf("code_switching: load %q: %w", path, err)
	}

	out := make([]Question, 0, len(rows))
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return out, err
		}

		instruction := strings.TrimSpace(row.Instruction)
		if instruction == "" {
			continue
		}

		prompt := instruction
		if input := strings.TrimSpace(row.Input); input != "" {
			prompt = instruction + "\n\n" + input
		}
		prompt = truncatePrompt(prompt, codeSwitchingMaxPromptChars)

		id := strings.TrimSpace(row.ID)
		if id == "" {
			id = fmt.Sprintf("code_switching-%d", i+1)
		}

		category := strings.TrimSpace(row.Domain)
		if category == "" {
			category = "general"
		}

		out = append(out, Question{
			ID:       id,
			Question: prompt,
			Answer:   strings.TrimSpace(row.Output),
			Category: category,
		})
	}

	out = takeFirstN(out, d.SampleSize)
	if len(out) == 0 {
		return takeFirstN(defaultCodeSwitchingSample(), d.SampleSize), nil
	}
	return out, nil
}

// Evaluate ignores the reference output: the criterion is purely whether the
// response stays in Thai.
func (d *CodeSwitchingDataset) Evaluate(response string, expected any) (float64, error) {
	if thaitext.MainlyThai(response) {
		return 1, nil
	}
	return 0, nil
}

func defaultCodeSwitchingSample() []Question {
	return []Question{
		{
			ID:       "code_switching-sample-1",
			Category: "finance",
			Question: "ผมอยากลงทุนแบบ DCA ในกองทุน SSF และ RMF ครับ ควรแบ่งสัดส่วนการลงทุนอย่างไรดีครับ",
			Answer:   "แนะนำให้แบ่งการลงทุนตามเป้าหมายภาษีและระยะเวลาการถือครองครับ",
		},
		{
			ID:       "code_switching-sample-2",
			Category: "general",
			Question: "ช่วยอธิบายวิธีการทำส้มตำแบบละเอียด",
			Answer:   "เริ่มจากตำพริกกับกระเทียม จากนั้นใส่มะละกอสับ ปรุงรสด้วยน้ำปลา มะนาว และน้ำตาล",
		},
		{
			ID:       "code_switching-sample-3",
			Category: "technology",
			Question: "อธิบายความแตกต่างระหว่าง Machine Learning และ Deep Learning",
			Answer:   "Machine Learning คือการให้คอมพิวเตอร์เรียนรู้จากข้อมูล ส่วน Deep Learning ใช้โครงข่ายประสาทเทียมหลายชั้น",
		},
	}
}
