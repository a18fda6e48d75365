package controllers

import (
	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/shipflow/internal/domain/commands"
	"github.com/rios0rios0/shipflow/internal/domain/entities"
)

// AddPersistentFlags adds the flags shared by every subcommand.
func AddPersistentFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringP("config", "c", "",
		"Path to config file (default: auto-detect)")
	cmd.PersistentFlags().BoolP("verbose", "v", false,
		"Enable verbose output")
	cmd.PersistentFlags().Bool("refresh-server", false,
		"Ask again which Git host to use")
	cmd.PersistentFlags().Bool("refresh-token", false,
		"Ask again for the Git host token")
	cmd.PersistentFlags().Bool("refresh-owner", false,
		"Ask again whether to release under the user or an organization")
	cmd.PersistentFlags().Bool("refresh-publish", false,
		"Ask again for the template upload target and key")
}

// loadSettings reads the explicit or auto-detected config file, falling back
// to the defaults when there is none, and applies the log level.
func loadSettings(cmd *cobra.Command) (*entities.Settings, error) {
	configPath, _ := cmd.Flags().GetString("config")
	verbose, _ := cmd.Flags().GetBool("verbose")

	if configPath == "" {
		found, err := entities.FindConfigFile()
		if err != nil {
			logger.Debugf("No config file found, using defaults: %v", err)
		} else {
			configPath = found
		}
	}
	if configPath != "" {
		logger.Infof("Using config file: %s", configPath)
	}

	settings, err := entities.NewSettings(configPath)
	if err != nil {
		return nil, err
	}

	if verbose {
		logger.SetLevel(logger.DebugLevel)
	} else if level, parseErr := logger.ParseLevel(settings.LogLevel); parseErr == nil {
		logger.SetLevel(level)
	} else {
		logger.Warnf("Unknown log_level %q, keeping %s", settings.LogLevel, logger.GetLevel())
	}
	return settings, nil
}

// releaseOptions collects the options common to commit and publish.
func releaseOptions(cmd *cobra.Command, args []string) commands.ReleaseOptions {
	refreshServer, _ := cmd.Flags().GetBool("refresh-server")
	refreshToken, _ := cmd.Flags().GetBool("refresh-token")
	refreshOwner, _ := cmd.Flags().GetBool("refresh-owner")
	refreshPublish, _ := cmd.Flags().GetBool("refresh-publish")

	projectDir := "."
	if len(args) > 0 {
		projectDir = args[0]
	}

	return commands.ReleaseOptions{
		ProjectDir: projectDir,
		Refresh: commands.HostRefresh{
			Server: refreshServer,
			Token:  refreshToken,
			Owner:  refreshOwner,
		},
		RefreshPublish: refreshPublish,
	}
}
