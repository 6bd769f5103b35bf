package benchmark

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Dataset rows regularly carry whole exam questions or code problems in one
// line; the scanner buffer has to accommodate that.
const maxJSONLLineBytes = 2 * 1024 * 1024

// readJSONL loads every record from a JSONL file, or from every *.jsonl
// split inside a directory, concatenated in filename order.
func readJSONL[T any](ctx context.Context, path string) ([]T, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("benchmark: empty jsonl path")
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return readJSONLDir[T](ctx, path)
	}
	return readJSONLFile[T](ctx, path)
}

func readJSONLDir[T any](ctx context.Context, dir string) ([]T, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".jsonl") {
			names = append(names, e.Name())
		}
	}
	slices.Sort(names)

	var out []T
	for _, name := range names {
		items, err := readJSONLFile[T](ctx, filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		out = append(out, items...)
	}
	return out, nil
}

func readJSONLFile[T any](ctx context.Context, path string) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), maxJSONLLineBytes)

	var out []T
	for lineNo := 1; sc.Scan(); lineNo++ {
		if err := ctx.Err(); err != nil {
			return out, err
		}

		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}

		var item T
		if err := json.Unmarshal(line, &item); err != nil {
			// Published Thai dataset dumps occasionally ship broken rows;
			// the line number makes them findable.
			return out, fmt.Errorf("benchmark: parse jsonl %s:%d: %w", filepath.Base(path), lineNo, err)
		}
		out = append(out, item)
	}
	if err := sc.Err(); err != nil {
		return out, err
	}
	return out, nil
}

// takeFirstN caps a question slice at the configured sample size; n <= 0
// means no cap.
func takeFirstN[T any](in []T, n int) []T {
	if n <= 0 || n >= len(in) {
		return in
	}
	return slices.Clone(in[:n])
}

// truncatePrompt caps a prompt at max characters (runes), matching the
// per-benchmark prompt length limits of the source datasets.
func truncatePrompt(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

// normalizeSpace collapses all whitespace runs to single spaces and trims.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func compactStrings(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}
