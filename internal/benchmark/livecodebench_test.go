package benchmark

import (
	"context"
	"strings"
	"testing"
)

func TestLiveCodeBenchTHDataset_Load(t *testing.T) {
	path := writeFixture(t, "lcb.jsonl", strings.Join([]string{
		`{"task_id":"lcb-1","problem":"เขียนฟังก์ชันบวกเลขสองจำนวน","canonical_solution":"def add(a, b):\n    return a + b"}`,
		`{"problem":"ไม่มีเฉลย","canonical_solution":""}`,
	}, "\n"))
	t.Setenv("THAI_EVAL_LIVE_CODE_BENCH_TH_PATH", path)

	d := &LiveCodeBenchTHDataset{}
	qs, err := d.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(qs) != 1 {
		t.Fatalf("len(questions): got %d want %d", len(qs), 1)
	}
	if qs[0].ID != "lcb-1" || qs[0].Category != "code" {
		t.Fatalf("q0: got %+v", qs[0])
	}
}

func TestLiveCodeBenchTHDataset_Evaluate(t *testing.T) {
	d := &LiveCodeBenchTHDataset{}
	canonical := "def add(a, b):\n    return a + b"

	response := "อธิบายก่อน: ใช้เครื่องหมายบวกตรง ๆ\n```python\ndef add(a, b):\n    return a + b\n```\nจบครับ"
	score, err := d.Evaluate(response, canonical)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if score != 1 {
		t.Fatalf("score: got %v want 1", score)
	}

	score, err = d.Evaluate("```python\ndef add(a, b):\n    return a - b\n```", canonical)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if score != 0 {
		t.Fatalf("score: got %v want 0", score)
	}

	if _, err := d.Evaluate("ไม่มีโค้ดเลย", canonical); err == nil {
		t.Fatalf("no fences: expected error")
	}
	if _, err := d.Evaluate("```python\ncode\n```", "  "); err == nil {
		t.Fatalf("empty expected: expected error")
	}
}

func TestRequiresStdin(t *testing.T) {
	if !RequiresStdin("อ่านค่าจาก STDIN แล้วพิมพ์ผลลัพธ์") {
		t.Fatalf("RequiresStdin(stdin): want true")
	}
	if !RequiresStdin("ใช้ input() เพื่อรับข้อมูล") {
		t.Fatalf("RequiresStdin(input()): want true")
	}
	if RequiresStdin("เขียนฟังก์ชันบวกเลข") {
		t.Fatalf("RequiresStdin(function): want false")
	}
}
