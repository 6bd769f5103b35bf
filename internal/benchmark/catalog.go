package benchmark

import (
	"fmt"
	"sort"
	"strings"
)

// All returns one instance of every dataset, sorted by name.
func All(sampleSize int) []Dataset {
	out := []Dataset{
		&CodeSwitchingDataset{SampleSize: sampleSize},
		&OpenThaiEvalDataset{SampleSize: sampleSize},
		&ThaiMathDataset{Variant: VariantMath500TH, SampleSize: sampleSize},
		&ThaiMathDataset{Variant: VariantAIME24TH, SampleSize: sampleSize},
		&HellaSwagTHDataset{SampleSize: sampleSize},
		&LiveCodeBenchTHDataset{SampleSize: sampleSize},
		&HumanEvalTHDataset{SampleSize: sampleSize},
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// ByName resolves a dataset by its registered name.
func ByName(name string, sampleSize int) (Dataset, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for _, d := range All(sampleSize) {
		if d.Name() == key {
			return d, nil
		}
	}

	names := make([]string, 0)
	for _, d := range All(0) {
		names = append(names, d.Name())
	}
	return nil, fmt.Errorf("benchmark: unknown dataset %q (available: %s)", name, strings.Join(names, ", "))
}
