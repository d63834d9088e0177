// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/muesli/reflow/truncate"
	"github.com/spf13/cobra"

	"github.com/pdiddy/prdesc/internal/history"
	"github.com/pdiddy/prdesc/internal/render"
	"github.com/pdiddy/prdesc/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Search and export previously fetched pull requests",
	Long: `History manages the local SQLite record of pull requests fetched by
list. Use subcommands to search it, show one pull request, or export it.`,
}

// --- search subcommand ---

var historySearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search recorded pull requests by title and description",
	Long: `Search matches the query against recorded titles and descriptions.
With no query, the most recently created pull requests are listed. Drafts
are excluded unless --drafts is set.`,
	RunE: runHistorySearch,
}

func runHistorySearch(cmd *cobra.Command, args []string) error {
	store, err := history.Open(historyConfig(cmd), logger)
	if err != nil {
		return err
	}
	defer store.Close()

	prs, err := store.Search(cmd.Context(), queryOptsFromFlags(cmd, args))
	if err != nil {
		return err
	}

	cfg := renderConfig(cmd)
	if cfg.Format != types.FormatText {
		return render.New(cfg).PullRequests(cmd.OutOrStdout(), prs)
	}
	return formatSearchOutput(cmd.OutOrStdout(), prs)
}

func formatSearchOutput(w io.Writer, prs []types.PullRequest) error {
	if len(prs) == 0 {
		_, err := fmt.Fprintln(w, "No pull requests found.")
		return err
	}

	fmt.Fprintf(w, "%-6s  %-10s  %-20s  %s\n", "ID", "Created", "Author", "Title")
	fmt.Fprintln(w, strings.Repeat("-", 90))

	for _, pr := range prs {
		created := ""
		if !pr.CreationDate.IsZero() {
			created = pr.CreationDate.Format("2006-01-02")
		}
		title := pr.Title
		if pr.IsDraft {
			title = "[draft] " + title
		}
		fmt.Fprintf(w, "%-6d  %-10s  %-20s  %s\n",
			pr.ID, created,
			truncate.StringWithTail(pr.CreatedBy, 20, "..."),
			truncate.StringWithTail(title, 50, "..."))
	}

	_, err := fmt.Fprintf(w, "\n%d pull request(s)\n", len(prs))
	return err
}

// --- show subcommand ---

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Render one recorded pull request",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid pull request id %q", args[0])
	}

	store, err := history.Open(historyConfig(cmd), logger)
	if err != nil {
		return err
	}
	defer store.Close()

	pr, err := store.Get(cmd.Context(), id)
	if err != nil {
		return err
	}
	return render.New(renderConfig(cmd)).PullRequests(cmd.OutOrStdout(), []types.PullRequest{pr})
}

// --- export subcommand ---

var historyExportCmd = &cobra.Command{
	Use:   "export [query]",
	Short: "Export recorded pull requests to YAML or JSON",
	Long: `Export writes the segmented descriptions of recorded pull requests (or a
filtered subset) to export.yaml or export.json in the history directory,
or to --out. Supports the same filters as search.`,
	RunE: runHistoryExport,
}

func runHistoryExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	out, _ := cmd.Flags().GetString("out")

	store, err := history.Open(historyConfig(cmd), logger)
	if err != nil {
		return err
	}
	defer store.Close()

	opts := queryOptsFromFlags(cmd, args)

	var n int
	switch format {
	case "yaml", "":
		if out == "" {
			out = store.DefaultExportPath("yaml")
		}
		n, err = store.ExportYAML(cmd.Context(), opts, out)
	case "json":
		if out == "" {
			out = store.DefaultExportPath("json")
		}
		n, err = store.ExportJSON(cmd.Context(), opts, out)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d pull request(s) to %s\n", n, out)
	return nil
}

// --- shared helpers ---

func queryOptsFromFlags(cmd *cobra.Command, args []string) history.QueryOptions {
	author, _ := cmd.Flags().GetString("author")
	drafts, _ := cmd.Flags().GetBool("drafts")
	limit, _ := cmd.Flags().GetInt("limit")

	return history.QueryOptions{
		Query:         strings.Join(args, " "),
		Author:        author,
		IncludeDrafts: drafts,
		MaxResults:    limit,
	}
}

func init() {
	// Filter flags shared by search and export.
	for _, c := range []*cobra.Command{historySearchCmd, historyExportCmd} {
		c.Flags().String("author", "", "filter by author display name")
		c.Flags().Bool("drafts", false, "include draft pull requests")
		c.Flags().Int("limit", 0, "maximum results (0 = use default)")
	}

	historySearchCmd.Flags().String("format", "", "output format: text, json or yaml (default text)")
	addRenderFlags(historyShowCmd)

	historyExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	historyExportCmd.Flags().String("out", "", "output file (default <history-dir>/export.<format>)")

	historyCmd.AddCommand(historySearchCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyExportCmd)

	rootCmd.AddCommand(historyCmd)
}
