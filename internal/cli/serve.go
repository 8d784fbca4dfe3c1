package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/ralt/webapt/internal/relay"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// NewServeCmd creates the serve command
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web previewer and relay",
		Long: `Serves the previewer page and relays repository files so that a
browser can read repositories that do not allow cross-origin requests.
Compressed indexes are decompressed before they are returned.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("addr") {
				config.Addr, _ = flags.GetString("addr")
			}
			if flags.Changed("static-dir") {
				config.StaticDir, _ = flags.GetString("static-dir")
			}
			if flags.Changed("template-dir") {
				config.TemplateDir, _ = flags.GetString("template-dir")
			}

			fetcher, err := relay.NewFetcher(config)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if config.DefaultRepo != "" {
				logrus.Infof("Default repository: %s", config.DefaultRepo)
			}
			return relay.NewServer(config, fetcher).ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringP("addr", "a", ":5000", "Listen address")
	cmd.Flags().String("static-dir", "static", "Directory served under /static/")
	cmd.Flags().String("template-dir", "templates", "Directory containing index.html")

	return cmd
}
