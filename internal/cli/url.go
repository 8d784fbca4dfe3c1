package cli

import (
	"fmt"

	"github.com/ralt/webapt/internal/apt"
	"github.com/ralt/webapt/internal/utils"
	"github.com/spf13/cobra"
)

// NewURLCmd creates the url command
func NewURLCmd() *cobra.Command {
	var compression string

	cmd := &cobra.Command{
		Use:   "url BASE CODENAME COMPONENT ARCH",
		Short: "Print the Packages index URL for a distribution",
		Example: `  webapt url http://deb.debian.org/debian bookworm main amd64
  webapt url http://deb.debian.org/debian/dists/bookworm bookworm main arm64 --compression xz`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := utils.ParseCompression(compression)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), apt.BuildPackagesURL(args[0], args[1], args[2], args[3])+c.Extension())
			return nil
		},
	}

	cmd.Flags().StringVar(&compression, "compression", "none", "Index compression (none, gz, xz, zst)")

	return cmd
}
