package cli

import (
	"encoding/json"
	"fmt"

	"github.com/ralt/webapt/internal/apt"
	"github.com/ralt/webapt/internal/models"
	"github.com/ralt/webapt/internal/relay"
	"github.com/ralt/webapt/internal/verify"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// NewReleaseCmd creates the release command
func NewReleaseCmd() *cobra.Command {
	var (
		dist    string
		keyring string
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:   "release [repo-url]",
		Short: "Show the Release file of a repository",
		Long: `Fetches and parses dists/<dist>/Release. When the URL already points
into a dists/ tree its distribution is used, otherwise --dist.

With --keyring the detached Release.gpg signature is checked against the
given public keys before anything is printed.`,
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

			fallback := config.DefaultDist
			if cmd.Flags().Changed("dist") {
				repoURL, fallback = apt.RepoBase(repoURL), dist
			}
			releaseURL := apt.ReleaseURL(repoURL, fallback)

			fetcher, err := relay.NewFetcher(config)
			if err != nil {
				return err
			}

			content, err := fetcher.FetchText(cmd.Context(), releaseURL)
			if err != nil {
				return err
			}

			if keyring != "" {
				verifier, err := verify.NewGPGVerifier(keyring)
				if err != nil {
					return err
				}
				signer, err := verifyRelease(cmd, fetcher, verifier, apt.ReleaseGPGURL(repoURL, fallback), content)
				if err != nil {
					return err
				}
				logrus.Infof("Good signature from %s", signer)
			}

			rel := apt.ParseRelease(content)
			out := cmd.OutOrStdout()
			if jsonOut {
				data, err := json.MarshalIndent(rel.Fields, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to encode release: %w", err)
				}
				fmt.Fprintln(out, string(data))
				return nil
			}

			fmt.Fprint(out, rel.Fields.String())
			return nil
		},
	}

	cmd.Flags().StringVarP(&dist, "dist", "d", "", "Distribution to read (defaults to the URL's or stable)")
	cmd.Flags().StringVarP(&keyring, "keyring", "k", "", "Public keyring to verify Release.gpg against")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the fields as JSON")

	return cmd
}

// verifyRelease checks content against the detached signature at sigURL
func verifyRelease(cmd *cobra.Command, fetcher *relay.Fetcher, verifier verify.Verifier, sigURL, content string) (string, error) {
	sig, err := fetcher.Fetch(cmd.Context(), sigURL)
	if err != nil {
		return "", err
	}
	if !sig.OK() {
		return "", &models.WebAPTError{
			Type: models.ErrSignature,
			URL:  sigURL,
			Err:  fmt.Errorf("signature not available: HTTP %d", sig.StatusCode),
		}
	}

	return verifier.VerifyDetached([]byte(content), sig.Body)
}
