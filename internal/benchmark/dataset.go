package benchmark

import "context"

// Dataset is a Thai benchmark adapter: it loads questions from a local JSONL
// snapshot and scores a model response against the expected answer with a
// value in [0,1].
type Dataset interface {
	Name() string
	Description() string
	Load(ctx context.Context) ([]Question, error)
	Evaluate(response string, expected any) (float64, error)
}

type Question struct {
	ID       string
	Question string
	Choices  []string
	Answer   any
	Category string
}
