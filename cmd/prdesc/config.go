// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/prdesc/pkg/types"
)

// Settings resolve flag first, then viper (environment, config file,
// default). Flags shared by several commands are not bound to viper keys
// because a key can only be bound to one flag.

func stringSetting(cmd *cobra.Command, flag, key string) string {
	if cmd.Flags().Changed(flag) {
		v, _ := cmd.Flags().GetString(flag)
		return v
	}
	return viper.GetString(key)
}

func intSetting(cmd *cobra.Command, flag, key string) int {
	if cmd.Flags().Changed(flag) {
		v, _ := cmd.Flags().GetInt(flag)
		return v
	}
	return viper.GetInt(key)
}

func boolSetting(cmd *cobra.Command, flag, key string) bool {
	if cmd.Flags().Changed(flag) {
		v, _ := cmd.Flags().GetBool(flag)
		return v
	}
	return viper.GetBool(key)
}

// devopsConfig builds the client settings. args, when present, are
// username, organization and project and take precedence over everything.
func devopsConfig(cmd *cobra.Command, args []string) types.DevOpsConfig {
	cfg := types.DevOpsConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   viper.GetDuration("devops.timeout"),
			UserAgent: viper.GetString("devops.user_agent"),
		},
		BaseURL:       stringSetting(cmd, "base-url", "devops.base_url"),
		Organization:  stringSetting(cmd, "organization", "devops.organization"),
		Project:       stringSetting(cmd, "project", "devops.project"),
		Username:      stringSetting(cmd, "username", "devops.username"),
		PATFile:       expandHome(stringSetting(cmd, "pat-file", "devops.pat_file")),
		APIVersion:    viper.GetString("devops.api_version"),
		IncludeDrafts: boolSetting(cmd, "include-drafts", "devops.include_drafts"),
		MaxRetries:    viper.GetInt("devops.max_retries"),
	}
	if cmd.Flags().Changed("timeout") {
		cfg.Timeout, _ = cmd.Flags().GetDuration("timeout")
	}
	if len(args) == 3 {
		cfg.Username, cfg.Organization, cfg.Project = args[0], args[1], args[2]
	}
	return cfg.WithDefaults()
}

func renderConfig(cmd *cobra.Command) types.RenderConfig {
	cfg := types.RenderConfig{
		Width:  intSetting(cmd, "width", "render.width"),
		Indent: intSetting(cmd, "indent", "render.indent"),
		Format: types.OutputFormat(stringSetting(cmd, "format", "render.format")),
		Color:  boolSetting(cmd, "color", "render.color"),
	}
	return cfg.WithDefaults()
}

func historyConfig(cmd *cobra.Command) types.HistoryConfig {
	cfg := types.HistoryConfig{
		Dir:        stringSetting(cmd, "history-dir", "history.dir"),
		MaxResults: viper.GetInt("history.max_results"),
	}
	return cfg.WithDefaults()
}

// expandHome replaces a leading "~/" with the user's home directory.
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
