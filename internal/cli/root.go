package cli

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "webapt",
		Short: "Preview the contents of APT repositories",
		Long: `Webapt reads the Release and Packages indexes of an APT repository
and shows what it offers, either from the command line or through a small
web previewer that relays repository files to the browser.

Supported index compressions:
  - none (Packages)
  - gzip (Packages.gz)
  - xz (Packages.xz)
  - zstd (Packages.zst)`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Setup logging
			verbose, _ := cmd.Flags().GetBool("verbose")
			if verbose {
				logrus.SetLevel(logrus.DebugLevel)
			} else {
				logrus.SetLevel(logrus.InfoLevel)
			}
		},
	}

	// Global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to a YAML configuration file")
	rootCmd.PersistentFlags().String("repo", "", "Repository URL (defaults to $APTREPO)")
	rootCmd.PersistentFlags().Duration("timeout", 0, "Upstream request timeout")
	rootCmd.PersistentFlags().Int("retries", 0, "Attempts per upstream request")
	rootCmd.PersistentFlags().String("user-agent", "", "User-Agent sent upstream")
	rootCmd.PersistentFlags().String("cache-dir", "", "Directory for cached upstream responses")

	// Add subcommands
	rootCmd.AddCommand(NewServeCmd())
	rootCmd.AddCommand(NewReleaseCmd())
	rootCmd.AddCommand(NewPackagesCmd())
	rootCmd.AddCommand(NewURLCmd())
	rootCmd.AddCommand(NewDistsCmd())

	return rootCmd
}
