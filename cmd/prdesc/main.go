// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the prdesc CLI.
// prdesc lists Azure DevOps pull requests with their descriptions segmented
// into paragraphs and list entries, and keeps a local searchable history.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/prdesc/internal/logging"
	"github.com/pdiddy/prdesc/internal/secrets"
	"github.com/pdiddy/prdesc/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds the files loaded from the secrets directory at startup.
var loadedSecrets map[string]string

// logger is built from --verbose before any subcommand runs.
var logger = zap.NewNop()

// configErr records a config file that exists but could not be read.
var configErr error

// rootCmd is the base command for the prdesc CLI.
var rootCmd = &cobra.Command{
	Use:   "prdesc",
	Short: "List Azure DevOps pull requests with readable descriptions",
	Long: `prdesc fetches the pull requests of an Azure DevOps project and prints
each title followed by its description, segmented into paragraphs and list
entries and wrapped for the terminal.

Fetched pull requests are kept in a local history that can be searched and
exported without contacting Azure DevOps.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbose := viper.GetBool("verbose")
		if cmd.Flags().Changed("verbose") {
			verbose, _ = cmd.Flags().GetBool("verbose")
		}
		l, err := logging.New(verbose)
		if err != nil {
			return err
		}
		logger = l

		if configErr != nil {
			return fmt.Errorf("reading config: %w", configErr)
		}
		if used := viper.ConfigFileUsed(); used != "" {
			logger.Debug("using config file", zap.String("path", used))
		}

		dir, _ := cmd.Flags().GetString("secrets-dir")
		s, err := secrets.Load(dir, logger)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			logger.Debug("loaded secrets", zap.Strings("keys", keys))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./prdesc.yaml or ~/.config/prdesc/config.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging on stderr")
	rootCmd.PersistentFlags().String("secrets-dir", ".secrets/", "directory of secret files (azure-devops-pat)")
	rootCmd.PersistentFlags().String("history-dir", "", "history directory (default .prdesc)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("prdesc")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "prdesc"))
		}
	}

	viper.SetEnvPrefix("PRDESC")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("devops.base_url", types.DefaultBaseURL)
	viper.SetDefault("devops.api_version", types.DefaultAPIVersion)
	viper.SetDefault("devops.timeout", types.DefaultTimeout)
	viper.SetDefault("devops.user_agent", types.DefaultUserAgent)
	viper.SetDefault("render.width", types.DefaultWidth)
	viper.SetDefault("render.indent", types.DefaultIndent)
	viper.SetDefault("render.format", string(types.FormatText))
	viper.SetDefault("history.dir", types.DefaultHistoryDir)
	viper.SetDefault("history.max_results", types.DefaultMaxResults)

	configErr = nil
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			configErr = err
		}
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
