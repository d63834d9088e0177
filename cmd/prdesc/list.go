// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/prdesc/internal/devops"
	"github.com/pdiddy/prdesc/internal/history"
	"github.com/pdiddy/prdesc/internal/render"
	"github.com/pdiddy/prdesc/internal/secrets"
	"github.com/pdiddy/prdesc/pkg/types"
)

var listCmd = &cobra.Command{
	Use:   "list [username organization project]",
	Short: "List active pull requests with their descriptions",
	Long: `List fetches the active pull requests of an Azure DevOps project and
prints each title. When a pull request has a description that differs from
its title, the description follows, segmented into wrapped paragraphs and
"- " list entries. A separator line ends each pull request that has a
description. Drafts are skipped unless --include-drafts is set.

The personal access token is read from --pat-file, or from the
azure-devops-pat file in the secrets directory.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 0 && len(args) != 3 {
			return fmt.Errorf("expected username, organization and project, got %d argument(s)", len(args))
		}
		return nil
	},
	RunE: runList,
}

func init() {
	listCmd.Flags().String("pat-file", "", "file holding the personal access token")
	listCmd.Flags().String("username", "", "Azure DevOps username")
	listCmd.Flags().String("organization", "", "Azure DevOps organization")
	listCmd.Flags().String("project", "", "Azure DevOps project")
	listCmd.Flags().String("base-url", "", "Azure DevOps services URL (default https://dev.azure.com)")
	listCmd.Flags().Bool("include-drafts", false, "include draft pull requests")
	listCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 30s)")
	listCmd.Flags().Bool("no-history", false, "do not record fetched pull requests in the history")
	addRenderFlags(listCmd)
	listCmd.Flags().Bool("color", false, "render titles in bold")

	rootCmd.AddCommand(listCmd)
}

// addRenderFlags registers the flags read by renderConfig.
func addRenderFlags(cmd *cobra.Command) {
	cmd.Flags().String("format", "", "output format: text, json or yaml (default text)")
	cmd.Flags().Int("width", 0, "wrap paragraphs to this many columns (default 80)")
	cmd.Flags().Int("indent", 0, "indent paragraphs by this many spaces (default 4)")
}

func runList(cmd *cobra.Command, args []string) error {
	cfg := devopsConfig(cmd, args)

	pat, err := secrets.ResolvePAT(cfg.PATFile, loadedSecrets)
	if err != nil {
		return err
	}

	client := devops.NewClient(cfg, pat, logger)
	prs, err := client.ListPullRequests(cmd.Context())
	if err != nil {
		return err
	}

	if noHistory, _ := cmd.Flags().GetBool("no-history"); !noHistory {
		recordHistory(cmd.Context(), historyConfig(cmd), prs)
	}

	return render.New(renderConfig(cmd)).PullRequests(cmd.OutOrStdout(), prs)
}

// recordHistory saves prs to the history store. Failures are logged and
// never fail the listing.
func recordHistory(ctx context.Context, cfg types.HistoryConfig, prs []types.PullRequest) {
	store, err := history.Open(cfg, logger)
	if err != nil {
		logger.Warn("history unavailable", zap.String("dir", cfg.Dir), zap.Error(err))
		return
	}
	defer store.Close()

	summary, err := store.Save(ctx, prs, time.Now())
	if err != nil {
		logger.Warn("could not record history", zap.Error(err))
		return
	}
	logger.Debug("recorded history",
		zap.Int("inserted", summary.Inserted),
		zap.Int("updated", summary.Updated),
		zap.Int("unchanged", summary.Unchanged))
}
