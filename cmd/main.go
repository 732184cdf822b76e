// Package cmd implements the pibuild CLI.
package cmd

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/domagalski/mpu-6050-test/pkg/dispatch"
	"github.com/domagalski/mpu-6050-test/pkg/target"
)

var rootCmd = &cobra.Command{
	Use:   "pibuild [target]",
	Short: "Cross-compiles the MPU-6050 streamer for Raspberry Pi boards",
	Long: `pibuild resolves a short board name ("4b", "zero") to its full target triple
and hands the release build to cross. The build tool's exit status is passed
through unchanged.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		dryRun, err := cmd.Flags().GetBool("dry")
		if err != nil {
			return err
		}

		cfgPath, err := cmd.Flags().GetString("config")
		if err != nil {
			return err
		}

		// An absent board name takes the same path as an unknown one.
		token := ""
		if len(args) > 0 {
			token = args[0]
		}

		table, err := loadTable(cfgPath)
		if err != nil {
			return err
		}

		tgt, err := table.Resolve(token)
		if err != nil {
			return err
		}

		logger := zerolog.New(NewConsoleWriter())
		ctx := dispatch.WithLogger(context.Background(), &logger)

		runner := dispatch.Runner{DryRun: dryRun}
		return runner.Run(ctx, tgt)
	},
}

func loadTable(cfgPath string) (target.Table, error) {
	extra, err := target.LoadConfig(cfgPath)
	if err != nil {
		return nil, err
	}

	return target.Merge(target.Builtin(), extra)
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "targets.yml", "path to extra target declarations")
	rootCmd.Flags().BoolP("dry", "n", false, "dry run; only print the commands, don't execute anything")
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}

	if status, ok := err.(dispatch.StatusError); ok {
		return int(status.Status)
	}

	return 1
}

// Execute runs the CLI and returns the process exit code. Local errors map
// to 1, a failed build keeps the build tool's own status.
func Execute() int {
	err := rootCmd.Execute()
	if err != nil {
		logger := zerolog.New(NewConsoleWriter())
		logger.Error().Err(err).Msg("Build aborted")
	}

	return exitCode(err)
}
