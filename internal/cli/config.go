package cli

import (
	"fmt"
	"os"

	"github.com/ralt/webapt/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// loadConfig builds the configuration for cmd. Later sources win:
// defaults, the --config file, the environment, then flags set explicitly.
func loadConfig(cmd *cobra.Command) (*models.Config, error) {
	config := models.DefaultConfig()

	flags := cmd.Flags()
	if path, _ := flags.GetString("config"); path != "" {
		if err := models.LoadConfigFile(path, &config); err != nil {
			return nil, err
		}
		logrus.Debugf("Loaded configuration from %s", path)
	}

	models.ApplyEnv(&config, os.Getenv)

	if flags.Changed("repo") {
		config.DefaultRepo, _ = flags.GetString("repo")
	}
	if flags.Changed("timeout") {
		config.Timeout, _ = flags.GetDuration("timeout")
	}
	if flags.Changed("retries") {
		config.Retries, _ = flags.GetInt("retries")
	}
	if flags.Changed("user-agent") {
		config.UserAgent, _ = flags.GetString("user-agent")
	}
	if flags.Changed("cache-dir") {
		config.CacheDir, _ = flags.GetString("cache-dir")
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	logrus.Debugf("Configuration: %+v", config)
	return &config, nil
}

// repoArg returns the repository URL from args or the configured default
func repoArg(args []string, config *models.Config) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if config.DefaultRepo != "" {
		return config.DefaultRepo, nil
	}
	return "", &models.WebAPTError{
		Type: models.ErrInvalidConfig,
		Err:  fmt.Errorf("no repository given: pass a URL, --repo or set APTREPO"),
	}
}
