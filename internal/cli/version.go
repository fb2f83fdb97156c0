package cli

import (
	"fmt"

	"github.com/blang/semver/v4"
	"github.com/spf13/cobra"
)

var buildVersion = semver.MustParse(Version)

var versionCmd = &cobra.Command{
	Use:         "version",
	Short:       "Print the version number of blitz",
	Annotations: map[string]string{skipBootstrap: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		require, _ := cmd.Flags().GetString("require")
		if require != "" {
			r, err := semver.ParseRange(require)
			if err != nil {
				return fmt.Errorf("invalid version range %q: %w", require, err)
			}
			if !r(buildVersion) {
				return fmt.Errorf("blitz v%s does not satisfy %q", buildVersion, require)
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "blitz v%s\n", buildVersion)
		return nil
	},
}

func init() {
	versionCmd.Flags().String("require", "", "fail unless the version satisfies this range, e.g. \">=0.1.0 <1.0.0\"")
}
