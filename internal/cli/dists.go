package cli

import (
	"fmt"

	"github.com/ralt/webapt/internal/relay"
	"github.com/spf13/cobra"
)

// NewDistsCmd creates the dists command
func NewDistsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dists [repo-url]",
		Short: "List the distributions a repository offers",
		Long: `Reads the Suite and Codename of the repository's Release file and,
when the server allows directory listings, the entries under dists/.
The selected distribution is marked with an asterisk.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			repoURL, err := repoArg(args, config)
			if err != nil {
				return err
			}

			fetcher, err := relay.NewFetcher(config)
			if err != nil {
				return err
			}

			repo, err := relay.Discover(cmd.Context(), fetcher, repoURL, config.DefaultDist)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, dist := range repo.Dists {
				marker := " "
				if dist == repo.Dist {
					marker = "*"
				}
				fmt.Fprintf(out, "%s %s\n", marker, dist)
			}
			return nil
		},
	}

	return cmd
}
