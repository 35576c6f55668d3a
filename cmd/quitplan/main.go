package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/quitplan/internal/cli"
	"github.com/example/quitplan/internal/logger"
	"github.com/example/quitplan/internal/version"
	"github.com/example/quitplan/internal/wire"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "quitplan",
		Short:   "quitplan - coach-guided quit plans",
		Version: version.String(),
		Long: `quitplan manages coach-authored quit plans: ordered stages of tasks that
a user completes one stage at a time, ending with a coach rating.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			c := wire.Config()
			logger.Init(c.IsDevelopment(), c.SentryDSN)
			cli.DetectAndStoreActor()
		},
	}

	// Session
	rootCmd.AddCommand(cli.LoginCmd())
	rootCmd.AddCommand(cli.WhoamiCmd())
	rootCmd.AddCommand(cli.ServeCmd())

	// Plans
	rootCmd.AddCommand(cli.PlanCmd())
	rootCmd.AddCommand(cli.StageCmd())
	rootCmd.AddCommand(cli.TaskCmd())

	// Progression
	rootCmd.AddCommand(cli.ProgressCmd())
	rootCmd.AddCommand(cli.AdvanceCmd())
	rootCmd.AddCommand(cli.PromptCmd())
	rootCmd.AddCommand(cli.RateCmd())

	// Audit
	rootCmd.AddCommand(cli.LogCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
