package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/stellarlinkco/thai-eval/internal/config"
	"github.com/stellarlinkco/thai-eval/internal/leaderboard"
)

type leaderboardOptions struct {
	dataset string
	top     int
	format  string
}

func newLeaderboardCmd(st *cliState) *cobra.Command {
	var opts leaderboardOptions

	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Show benchmark leaderboard",
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
			return runLeaderboard(cmd, st, &opts)
		},
	}

	cmd.Flags().StringVar(&opts.dataset, "dataset", "", "dataset name")
	cmd.Flags().IntVar(&opts.top, "top", 20, "top N entries")
	cmd.Flags().StringVar(&opts.format, "format", "table", "output format: table|json")

	return cmd
}

func runLeaderboard(cmd *cobra.Command, st *cliState, opts *leaderboardOptions) error {
	if st == nil || st.cfg == nil {
		return fmt.Errorf("leaderboard: missing config (internal error)")
	}
	if opts == nil {
		return fmt.Errorf("leaderboard: nil options")
	}

	ds := strings.TrimSpace(opts.dataset)
	if ds == "" {
		return fmt.Errorf("leaderboard: missing --dataset")
	}

	lb, err := openLeaderboardStore(st.cfg)
	if err != nil {
		return err
	}
	defer lb.Close()

	entries, err := lb.GetLeaderboard(cmd.Context(), ds, opts.top)
	if err != nil {
		return err
	}

	return writeEntries(cmd, opts.format, entries, true)
}

type historyOptions struct {
	model   string
	dataset string
	format  string
}

func newHistoryCmd(st *cliState) *cobra.Command {
	var opts historyOptions

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show a model's benchmark run history",
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
			return runHistory(cmd, st, &opts)
		},
	}

	cmd.Flags().StringVar(&opts.model, "model", "", "model name")
	cmd.Flags().StringVar(&opts.dataset, "dataset", "", "dataset name")
	cmd.Flags().StringVar(&opts.format, "format", "table", "output format: table|json")

	return cmd
}

func runHistory(cmd *cobra.Command, st *cliState, opts *historyOptions) error {
	if st == nil || st.cfg == nil {
		return fmt.Errorf("history: missing config (internal error)")
	}
	if opts == nil {
		return fmt.Errorf("history: nil options")
	}

	model := strings.TrimSpace(opts.model)
	ds := strings.TrimSpace(opts.dataset)
	if model == "" || ds == "" {
		return fmt.Errorf("history: missing --model or --dataset")
	}

	lb, err := openLeaderboardStore(st.cfg)
	if err != nil {
		return err
	}
	defer lb.Close()

	entries, err := lb.GetModelHistory(cmd.Context(), model, ds)
	if err != nil {
		return err
	}

	return writeEntries(cmd, opts.format, entries, false)
}

func writeEntries(cmd *cobra.Command, format string, entries []leaderboard.Entry, ranked bool) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "table":
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		if ranked {
			fmt.Fprintln(tw, "RANK\tMODEL\tPROVIDER\tSCORE\tACCURACY\tQUESTIONS\tTOKENS\tTIME(ms)\tDATE")
		} else {
			fmt.Fprintln(tw, "RUN\tMODEL\tPROVIDER\tSCORE\tACCURACY\tQUESTIONS\tTOKENS\tTIME(ms)\tDATE")
		}
		for i, e := range entries {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%.4f\t%.4f\t%d\t%d\t%d\t%s\n",
				i+1,
				e.Model,
				e.Provider,
				e.Score,
				e.Accuracy,
				e.Questions,
				e.Tokens,
				e.DurationMS,
				e.EvalDate.UTC().Format("2006-01-02 15:04:05Z"),
			)
		}
		return tw.Flush()
	case "json":
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	default:
		return fmt.Errorf("leaderboard: invalid --format %q (expected table|json)", format)
	}
}
