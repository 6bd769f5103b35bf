package benchmark

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/stellarlinkco/thai-eval/internal/extract"
)

const (
	defaultHumanEvalTHPath = "data/benchmark/humaneval-th.jsonl"
	codeExecEnv            = "THAI_EVAL_ENABLE_CODE_EXEC"
	sandboxModeEnv         = "THAI_EVAL_SANDBOX_MODE"

	sandboxModeDocker   = "docker"
	sandboxModeHost     = "host"
	sandboxModeDisabled = "disabled"

	pythonSandboxImage = "python:3.11-slim"
	pythonExecTimeout  = 5 * time.Second
)

var (
	errCodeExecDisabled = fmt.Errorf("humaneval-th: code execution disabled (set %s=1)", codeExecEnv)

	dockerReadyOnce sync.Once
	dockerBin       string
	dockerReadyErr  error

	hostExecWarnOnce sync.Once
)

// HumanEvalTHDataset runs Thai-prompted HumanEval problems: the extracted
// completion is executed against the check function in a sandbox.
type HumanEvalTHDataset struct {
	SampleSize int
}

type humanEvalTHRow struct {
	TaskID            string `json:"task_id,omitempty"`
	Prompt            string `json:"prompt"`
	Test              string `json:"test"`
	EntryPoint        string `json:"entry_point,omitempty"`
	CanonicalSolution string `json:"canonical_solution,omitempty"`
}

type humanEvalTHExpected struct {
	Prompt     string
	Test       string
	EntryPoint string
}

func (d *HumanEvalTHDataset) Name() string { return "humaneval-th" }

func (d *HumanEvalTHDataset) Description() string {
	return "HumanEval Thai: Python completion from Thai docstrings (requires local code execution)"
}

func (d *HumanEvalTHDataset) Load(ctx context.Context) ([]Question, error) {
	if ctx == nil {
		return nil, errors.New("humaneval-th: nil context")
	}

	path := strings.TrimSpace(os.Getenv("THAI_EVAL_HUMANEVAL_TH_PATH"))
	if path == "" {
		path = defaultHumanEvalTHPath
	}

	rows, err := readJSONL[humanEvalTHRow](ctx, path)
	if err != nil {
		if os.IsNotExist(err) {
			return takeFirstN(defaultHumanEvalTHSample(), d.SampleSize), nil
		}
		return nil, fmt.Errorf("humaneval-th: load %q: %w", path, err)
	}

	out := make([]Question, 0, len(rows))
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return out, err
		}

		prompt := unescapeSource(strings.TrimSpace(row.Prompt))
		test := unescapeSource(strings.TrimSpace(row.Test))
		if prompt == "" || test == "" {
			continue
		}

		id := strings.TrimSpace(row.TaskID)
		if id == "" {
			id = fmt.Sprintf("humaneval-th-%d", i+1)
		}

		out = append(out, Question{
			ID:       id,
			Question: prompt,
			Answer: humanEvalTHExpected{
				Prompt:     prompt,
				Test:       test,
				EntryPoint: strings.TrimSpace(row.EntryPoint),
			},
			Category: "code",
		})
	}

	out = takeFirstN(out, d.SampleSize)
	if len(out) == 0 {
		return takeFirstN(defaultHumanEvalTHSample(), d.SampleSize), nil
	}
	return out, nil
}

func (d *HumanEvalTHDataset) Evaluate(response string, expected any) (float64, error) {
	if strings.TrimSpace(os.Getenv(codeExecEnv)) != "1" {
		return 0, errCodeExecDisabled
	}

	exp, ok := expected.(humanEvalTHExpected)
	if !ok {
		if p, ok := expected.(*humanEvalTHExpected); ok && p != nil {
			exp = *p
		} else {
			return 0, fmt.Errorf("humaneval-th: unsupported expected type %T", expected)
		}
	}

	candidate := extract.CodeBlock(response, "python")
	if strings.TrimSpace(candidate) == "" {
		return 0, errors.New("humaneval-th: empty model output")
	}

	ok, err := runSandboxedPython(exp.Prompt+"\n"+candidate+"\n"+exp.Test, pythonExecTimeout)
	if ok {
		return 1, nil
	}

	// Some models restate the signature; retry without the prompt prefix.
	if strings.TrimSpace(exp.Prompt) != "" {
		if ok2, err2 := runSandboxedPython(candidate+"\n"+exp.Test, pythonExecTimeout); ok2 {
			return 1, nil
		} else if err2 != nil {
			return 0, err2
		}
	}

	if err != nil {
		return 0, err
	}
	return 0, errors.New("humaneval-th: python execution failed")
}

// unescapeSource fixes doubly-escaped source strings that some translated
// dataset exports carry.
func unescapeSource(s string) string {
	if !strings.ContainsAny(s, "\\") {
		return s
	}
	s = strings.ReplaceAll(s, `\\`, `\`)
	s = strings.ReplaceAll(s, `\n`, "\n")
	s = strings.ReplaceAll(s, `\/`, "/")
	return s
}

func runSandboxedPython(program string, timeout time.Duration) (bool, error) {
	mode := strings.ToLower(strings.TrimSpace(os.Getenv(sandboxModeEnv)))
	if mode == "" {
		mode = sandboxModeDocker
	}

	switch mode {
	case sandboxModeDisabled:
		return false, errCodeExecDisabled
	case sandboxModeHost:
		hostExecWarnOnce.Do(func() {
			log.Printf("humaneval-th: WARNING: executing untrusted code on host (set %s=%s for sandboxing)", sandboxModeEnv, sandboxModeDocker)
		})
		return runPythonHost(program, timeout)
	case sandboxModeDocker:
		return runPythonDocker(program, timeout)
	default:
		return false, fmt.Errorf("humaneval-th: unknown %s=%q (expected %s|%s|%s)", sandboxModeEnv, mode, sandboxModeDocker, sandboxModeHost, sandboxModeDisabled)
	}
}

func writePythonProgram(program string) (tmpDir string, path string, cleanup func(), _ error) {
	tmpDir, err := os.MkdirTemp("", "thai-eval-humaneval-*")
	if err != nil {
		return "", "", nil, fmt.Errorf("humaneval-th: create temp dir: %w", err)
	}
	cleanup = func() { _ = os.RemoveAll(tmpDir) }

	path = filepath.Join(tmpDir, "main.py")
	if err := os.WriteFile(path, []byte(program), 0o644); err != nil {
		cleanup()
		return "", "", nil, fmt.Errorf("humaneval-th: write program: %w", err)
	}

	return tmpDir, path, cleanup, nil
}

func runPythonHost(program string, timeout time.Duration) (bool, error) {
	python, err := exec.LookPath("python3")
	if err != nil {
		return false, fmt.Errorf("humaneval-th: python3 not found: %w", err)
	}

	tmpDir, path, cleanup, err := writePythonProgram(program)
	if err != nil {
		return false, err
	}
	defer cleanup()

	ctx := context.Background()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, python, "-I", "-B", path)
	cmd.Dir = tmpDir
	cmd.Env = append(os.Environ(),
		"PYTHONPATH=",
		"PYTHONSAFEPATH=1",
		"HOME="+tmpDir,
	)

	out, err := cmd.CombinedOutput()
	if ctx.Err() != nil {
		return false, fmt.Errorf("humaneval-th: python timeout: %w", ctx.Err())
	}
	if err != nil {
		return false, fmt.Errorf("humaneval-th: python failed: %s", truncateOutput(out, 4096))
	}
	return true, nil
}

func runPythonDocker(program string, timeout time.Duration) (bool, error) {
	docker, err := sandboxDockerReady()
	if err != nil {
		return false, err
	}

	_, scriptPath, cleanup, err := writePythonProgram(program)
	if err != nil {
		return false, err
	}
	defer cleanup()

	ctx := context.Background()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	containerName := fmt.Sprintf("thai-eval-humaneval-%d-%d", os.Getpid(), time.Now().UnixNano())

	args := []string{
		"run",
		"--rm",
		"--name", containerName,
		"--network=none",
		"--read-only",
		"--cap-drop=ALL",
		"--memory=128m",
		"--cpus=0.5",
		"--tmpfs", "/tmp:rw,noexec,nosuid,nodev,size=64m",
		"--security-opt", "no-new-privileges",
		"--user", "65534:65534",
		"--env", "PYTHONPATH=",
		"--env", "PYTHONSAFEPATH=1",
		"--env", "HOME=/tmp",
		"--mount", fmt.Sprintf("type=bind,source=%s,target=/tmp/main.py,readonly", scriptPath),
		pythonSandboxImage,
		"python",
		"-I",
		"-B",
		"/tmp/main.py",
	}

	cmd := exec.CommandContext(ctx, docker, args...)
	out, runErr := cmd.CombinedOutput()
	if ctx.Err() != nil {
		killCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = exec.CommandContext(killCtx, docker, "rm", "-f", containerName).Run()
		return false, fmt.Errorf("humaneval-th: python timeout: %w", ctx.Err())
	}
	if runErr != nil {
		if ee, ok := runErr.(*exec.ExitError); ok {
			switch ee.ExitCode() {
			case 125, 126, 127:
				return false, fmt.Errorf("humaneval-th: docker run failed: %s", truncateOutput(out, 4096))
			}
		}
		return false, fmt.Errorf("humaneval-th: python failed: %s", truncateOutput(out, 4096))
	}
	return true, nil
}

func sandboxDockerReady() (string, error) {
	dockerReadyOnce.Do(func() {
		docker, err := exec.LookPath("docker")
		if err != nil {
			dockerReadyErr = fmt.Errorf("humaneval-th: docker sandbox unavailable: docker not found (install Docker, or set %s=%s to run on host; UNSAFE)", sandboxModeEnv, sandboxModeHost)
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		version := exec.CommandContext(ctx, docker, "version", "--format", "{{.Server.Version}}")
		out, err := version.CombinedOutput()
		if ctx.Err() != nil {
			dockerReadyErr = fmt.Errorf("humaneval-th: docker sandbox unavailable: docker version timeout: %w", ctx.Err())
			return
		}
		if err != nil {
			dockerReadyErr = fmt.Errorf("humaneval-th: docker sandbox unavailable: docker daemon not reachable: %s (or set %s=%s to run on host; UNSAFE)", truncateOutput(out, 4096), sandboxModeEnv, sandboxModeHost)
			return
		}

		ctx, cancel = context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		inspect := exec.CommandContext(ctx, docker, "image", "inspect", "-f", "{{.Id}}", pythonSandboxImage)
		out, err = inspect.CombinedOutput()
		if ctx.Err() != nil {
			dockerReadyErr = fmt.Errorf("humaneval-th: docker sandbox unavailable: docker image inspect timeout: %w", ctx.Err())
			return
		}
		if err != nil {
			dockerReadyErr = fmt.Errorf("humaneval-th: docker sandbox unavailable: missing image %q (%s) (run: docker pull %s, or set %s=%s to run on host; UNSAFE)", pythonSandboxImage, truncateOutput(out, 256), pythonSandboxImage, sandboxModeEnv, sandboxModeHost)
			return
		}

		dockerBin = docker
	})

	if dockerReadyErr != nil {
		return "", dockerReadyErr
	}
	return dockerBin, nil
}

func truncateOutput(b []byte, max int) string {
	s := strings.TrimSpace(string(b))
	if max <= 0 || len(s) <= max {
		return s
	}
	return strings.TrimSpace(s[:max]) + "..."
}

func defaultHumanEvalTHSample() []Question {
	return []Question{
		{
			ID:       "humaneval-th-sample-1",
			Category: "code",
			Question: "def add(a, b):\n    \"\"\"คืนค่าผลบวกของ a และ b\"\"\"\n",
			Answer: humanEvalTHExpected{
				Prompt: "def add(a, b):\n    \"\"\"คืนค่าผลบวกของ a และ b\"\"\"\n",
				Test:   "def check(candidate):\n    assert candidate(1, 2) == 3\n    assert candidate(-1, 1) == 0\n\ncheck(add)\n",
			},
		},
		{
			ID:       "humaneval-th-sample-2",
			Category: "code",
			Question: "def reverse_string(s):\n    \"\"\"คืนค่าสตริง s แบบกลับลำดับ\"\"\"\n",
			Answer: humanEvalTHExpected{
				Prompt: "def reverse_string(s):\n    \"\"\"คืนค่าสตริง s แบบกลับลำดับ\"\"\"\n",
				Test:   "def check(candidate):\n    assert candidate(\"abc\") == \"cba\"\n    assert candidate(\"\") == \"\"\n\ncheck(reverse_string)\n",
			},
		},
	}
}
