package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/stellarlinkco/thai-eval/internal/config"
)

var (
	osExit                 = os.Exit
	stderrWriter io.Writer = os.Stderr
)

func main() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(stderrWriter, err)
		osExit(1)
	}
}

func newRootCmd() *cobra.Command {
	st := &cliState{}

	root := &cobra.Command{
		Use:           "thaieval",
		Short:         "Evaluate language models on Thai benchmarks",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	// The empty default lets config.Load fall back to built-in defaults when
	// the standard config file is absent; an explicit --config must exist.
	root.PersistentFlags().StringVar(&st.configPath, "config", "", "path to config file (default "+config.DefaultPath+")")

	root.AddCommand(newBenchmarkCmd(st))
	root.AddCommand(newListCmd())
	root.AddCommand(newLeaderboardCmd(st))
	root.AddCommand(newHistoryCmd(st))
	return root
}

type cliState struct {
	configPath string
	cfg        *config.Config
}
