package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lk2023060901/blitz/application"
	"github.com/lk2023060901/blitz/pkg/util/merr"
)

// Version is the release version of the blitz tool.
const Version = "0.1.0"

var (
	configPath string
	app        *application.Application

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "blitz",
		Short: "hybrid binary serialization toolkit",
		Long: fmt.Sprintf(`blitz (v%s)

Inspect fixed-point price words and the frames produced by the
hybrid serializer: fixed fast path, staged path and fallback path.`, Version),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations[skipBootstrap] == "true" {
				return nil
			}
			var appArgs []string
			if configPath != "" {
				appArgs = []string{"--config", configPath}
			}
			app = application.New()
			return app.Run(appArgs)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app != nil {
				app.Close()
				app = nil
			}
		},
	}
)

const skipBootstrap = "skip-bootstrap"

func init() {
	RootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to the config file (default ./blitz.yaml)")

	RootCmd.AddCommand(versionCmd)
	RootCmd.AddCommand(priceCmd)
	RootCmd.AddCommand(probeCmd)
	RootCmd.AddCommand(benchCmd)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(exitCode(err))
	}
}

// exitCode 区分输入错误（2）与其他错误（1）。
func exitCode(err error) int {
	if merr.GetErrorType(err) == merr.InputError {
		return 2
	}
	return 1
}
