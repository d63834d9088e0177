// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/prdesc/internal/render"
	"github.com/pdiddy/prdesc/internal/text"
)

var formatCmd = &cobra.Command{
	Use:   "format [file]",
	Short: "Segment and render a description from a file or stdin",
	Long: `Format reads a description written with the usual pull request
conventions (blank lines between paragraphs, lines starting with - or *
for list entries) and renders it the way list does. With no file, or a
file of "-", the description is read from stdin.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFormat,
}

func init() {
	addRenderFlags(formatCmd)

	rootCmd.AddCommand(formatCmd)
}

func runFormat(cmd *cobra.Command, args []string) error {
	var in io.Reader = cmd.InOrStdin()
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("opening %s: %w", args[0], err)
		}
		defer f.Close()
		in = f
	}

	elems, err := text.ParseReader(in)
	if err != nil {
		return fmt.Errorf("reading description: %w", err)
	}
	return render.New(renderConfig(cmd)).Elements(cmd.OutOrStdout(), elems)
}
