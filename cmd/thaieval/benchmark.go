package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/stellarlinkco/thai-eval/internal/benchmark"
	"github.com/stellarlinkco/thai-eval/internal/config"
	"github.com/stellarlinkco/thai-eval/internal/leaderboard"
	"github.com/stellarlinkco/thai-eval/internal/llm"
)

type benchmarkOptions struct {
	model      string
	provider   string
	dataset    string
	sampleSize int
}

func newBenchmarkCmd(st *cliState) *cobra.Command {
	var opts benchmarkOptions

	cmd := &cobra.Command{
		Use:   "benchmark",
		Short: "Run a Thai benchmark dataset and save results",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(st.configPath)
			if err != nil {
				return err
			}
			st.cfg = cfg
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBenchmark(cmd, st, &opts)
		},
	}

	cmd.Flags().StringVar(&opts.model, "model", "", "model name (overrides config)")
	cmd.Flags().StringVar(&opts.provider, "provider", "", "provider name (overrides config)")
	cmd.Flags().StringVar(&opts.dataset, "dataset", "", "dataset name (see 'thaieval list')")
	cmd.Flags().IntVar(&opts.sampleSize, "sample-size", 0, "sample size (0 = config default)")

	return cmd
}

func runBenchmark(cmd *cobra.Command, st *cliState, opts *benchmarkOptions) error {
	if st == nil || st.cfg == nil {
		return fmt.Errorf("benchmark: missing config (internal error)")
	}
	if opts == nil {
		return fmt.Errorf("benchmark: nil options")
	}
	if strings.TrimSpace(opts.dataset) == "" {
		return fmt.Errorf("benchmark: missing --dataset (see 'thaieval list')")
	}
	if opts.sampleSize < 0 {
		return fmt.Errorf("benchmark: --sample-size must be >= 0 (got %d)", opts.sampleSize)
	}

	sampleSize := opts.sampleSize
	if sampleSize == 0 {
		sampleSize = st.cfg.Benchmark.SampleSize
	}

	ds, err := benchmark.ByName(opts.dataset, sampleSize)
	if err != nil {
		return err
	}

	provider, modelName, err := resolveBenchmarkProvider(st.cfg, opts.provider, opts.model)
	if err != nil {
		return err
	}

	lb, err := openLeaderboardStore(st.cfg)
	if err != nil {
		return err
	}
	defer lb.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if st.cfg.Benchmark.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, st.cfg.Benchmark.Timeout)
		defer cancel()
	}

	r := &benchmark.BenchmarkRunner{
		Provider: provider,
		Dataset:  ds,
	}
	res, runErr := r.Run(ctx, modelName)
	if runErr != nil {
		return runErr
	}

	entry := &leaderboard.Entry{
		Model:      modelName,
		Provider:   provider.Name(),
		Dataset:    ds.Name(),
		Score:      res.Score,
		Accuracy:   res.Accuracy,
		Questions:  len(res.Results),
		Tokens:     res.TotalTokens,
		DurationMS: res.TotalTime.Milliseconds(),
		EvalDate:   time.Now().UTC(),
	}
	if err := lb.Save(cmd.Context(), entry); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "Benchmark saved: id=%d provider=%s model=%s dataset=%s score=%.4f accuracy=%.4f questions=%d time_ms=%d tokens=%d\n",
		entry.ID,
		entry.Provider,
		entry.Model,
		entry.Dataset,
		entry.Score,
		entry.Accuracy,
		entry.Questions,
		entry.DurationMS,
		entry.Tokens,
	)

	return nil
}

func resolveBenchmarkProvider(cfg *config.Config, providerFlag string, modelFlag string) (llm.Provider, string, error) {
	if cfg == nil {
		return nil, "", fmt.Errorf("benchmark: missing config")
	}

	providerName := strings.TrimSpace(providerFlag)
	if providerName == "" {
		providerName = strings.TrimSpace(cfg.LLM.DefaultProvider)
	}
	providerName = normalizeProvider(providerName)
	if providerName == "" {
		return nil, "", fmt.Errorf("benchmark: missing provider")
	}

	pcfg, ok := cfg.LLM.Providers[providerName]
	if !ok {
		available := make([]string, 0, len(cfg.LLM.Providers))
		for k := range cfg.LLM.Providers {
			available = append(available, k)
		}
		sort.Strings(available)
		return nil, "", fmt.Errorf("benchmark: provider %q not configured (available: %s)", providerName, strings.Join(available, ", "))
	}

	model := strings.TrimSpace(modelFlag)
	if model == "" {
		model = strings.TrimSpace(pcfg.Model)
	}
	modelName := model
	if modelName == "" {
		modelName = "default"
	}

	switch providerName {
	case "claude":
		return llm.NewClaudeProvider(pcfg.APIKey, pcfg.BaseURL, model), modelName, nil
	case "openai":
		return llm.NewOpenAIProvider(pcfg.APIKey, pcfg.BaseURL, model), modelName, nil
	default:
		return nil, "", fmt.Errorf("benchmark: unsupported provider %q", providerName)
	}
}

func normalizeProvider(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case "anthropic":
		return "claude"
	default:
		return name
	}
}

func openLeaderboardStore(cfg *config.Config) (*leaderboard.Store, error) {
	if cfg == nil {
		return nil, fmt.Errorf("leaderboard: missing config")
	}

	storageType := strings.ToLower(strings.TrimSpace(cfg.Storage.Type))
	if storageType == "" {
		storageType = "sqlite"
	}

	switch storageType {
	case "sqlite":
		path := strings.TrimSpace(cfg.Storage.Path)
		if path == "" {
			path = leaderboard.DefaultSQLitePath
		}
		return leaderboard.NewStore(path)
	case "memory":
		return leaderboard.NewStore(":memory:")
	default:
		return nil, fmt.Errorf("leaderboard: unsupported type %q", storageType)
	}
}
