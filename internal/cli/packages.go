package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/ralt/webapt/internal/apt"
	"github.com/ralt/webapt/internal/relay"
	"github.com/ralt/webapt/internal/utils"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type packagesOptions struct {
	dist        string
	component   string
	arch        string
	compression string
	query       apt.Query
	sort        string
	jsonOut     bool
}

// NewPackagesCmd creates the packages command
func NewPackagesCmd() *cobra.Command {
	var opts packagesOptions

	cmd := &cobra.Command{
		Use:   "packages [repo-url]",
		Short: "List the packages of a repository",
		Long: `Fetches the Packages index for one distribution, component and
architecture, then prints one page of packages grouped by name.`,
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

			compression, err := utils.ParseCompression(opts.compression)
			if err != nil {
				return err
			}

			dist := apt.InitialDist(repoURL, config.DefaultDist)
			if cmd.Flags().Changed("dist") {
				dist = opts.dist
			}
			packagesURL := apt.BuildPackagesURL(repoURL, dist, opts.component, opts.arch) + compression.Extension()

			fetcher, err := relay.NewFetcher(config)
			if err != nil {
				return err
			}

			content, err := fetcher.FetchText(cmd.Context(), packagesURL)
			if err != nil {
				return err
			}

			packages := apt.ParsePackages(content)
			logrus.Debugf("Parsed %d packages from %s", len(packages), packagesURL)

			opts.query.SortField = apt.ParseSortField(opts.sort)
			page := apt.Paginate(packages, opts.query)

			if opts.jsonOut {
				data, err := json.MarshalIndent(page, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to encode packages: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}

			return printPage(cmd.OutOrStdout(), apt.RepoBase(repoURL), page)
		},
	}

	cmd.Flags().StringVarP(&opts.dist, "dist", "d", "", "Distribution (defaults to the URL's or stable)")
	cmd.Flags().StringVar(&opts.component, "component", "main", "Component")
	cmd.Flags().StringVar(&opts.arch, "arch", "amd64", "Architecture")
	cmd.Flags().StringVar(&opts.compression, "compression", "none", "Index compression (none, gz, xz, zst)")
	cmd.Flags().StringVarP(&opts.query.Search, "search", "s", "", "Only show packages whose name contains this")
	cmd.Flags().StringVar(&opts.sort, "sort", "name", "Sort by name, version or filename")
	cmd.Flags().BoolVar(&opts.query.Descending, "desc", false, "Sort in descending order")
	cmd.Flags().IntVarP(&opts.query.Page, "page", "p", 1, "Page to show")
	cmd.Flags().IntVar(&opts.query.PageSize, "page-size", apt.DefaultPageSize, "Package groups per page")
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "Print the page as JSON")

	return cmd
}

func printPage(out io.Writer, repoBase string, page apt.Page) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, group := range page.Groups {
		for _, pkg := range group.Versions {
			fmt.Fprintf(w, "%s\t%s\t%s\n", pkg.Name, pkg.Version, apt.DownloadURL(repoBase, pkg.Filename))
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(out, "Page %d/%d (%d of %d packages)\n", page.Page, page.TotalPages, page.Matched, page.Total)
	return err
}
