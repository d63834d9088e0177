// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render writes segmented descriptions for people (wrapped text)
// and for tools (JSON, YAML).
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/prdesc/internal/text"
	"github.com/pdiddy/prdesc/pkg/types"
)

// Separator is printed after each pull request that has a description.
const Separator = "------------"

// Document is the structured form of one pull request and its segmented
// description, used by the JSON and YAML formats and by history exports.
type Document struct {
	ID         int           `json:"id" yaml:"id"`
	Title      string        `json:"title" yaml:"title"`
	Author     string        `json:"author" yaml:"author"`
	Draft      bool          `json:"draft" yaml:"draft"`
	Repository string        `json:"repository,omitempty" yaml:"repository,omitempty"`
	SourceRef  string        `json:"source_ref,omitempty" yaml:"source_ref,omitempty"`
	TargetRef  string        `json:"target_ref,omitempty" yaml:"target_ref,omitempty"`
	Elements   []text.Record `json:"elements" yaml:"elements"`
}

// Documents segments each pull request description. A pull request without
// a description gets an empty element list.
func Documents(prs []types.PullRequest) []Document {
	docs := make([]Document, len(prs))
	for i, pr := range prs {
		docs[i] = Document{
			ID:         pr.ID,
			Title:      pr.Title,
			Author:     pr.CreatedBy,
			Draft:      pr.IsDraft,
			Repository: pr.Repository,
			SourceRef:  pr.SourceRef,
			TargetRef:  pr.TargetRef,
			Elements:   text.Records(text.Parse(pr.Description)),
		}
	}
	return docs
}

// Renderer writes elements and pull requests in the configured format.
type Renderer struct {
	cfg   types.RenderConfig
	title lipgloss.Style
}

// New returns a Renderer for cfg with defaults applied.
func New(cfg types.RenderConfig) *Renderer {
	cfg = cfg.WithDefaults()
	title := lipgloss.NewStyle()
	if cfg.Color {
		title = title.Bold(true)
	}
	return &Renderer{cfg: cfg, title: title}
}

// Config returns the effective configuration.
func (r *Renderer) Config() types.RenderConfig { return r.cfg }

// Elements writes one segmented text.
func (r *Renderer) Elements(w io.Writer, elems []text.Element) error {
	switch r.cfg.Format {
	case types.FormatText:
		return r.writeElements(w, elems)
	case types.FormatJSON:
		return writeJSON(w, text.Records(elems))
	case types.FormatYAML:
		return writeYAML(w, text.Records(elems))
	default:
		return unsupported(r.cfg.Format)
	}
}

// PullRequests writes a listing of pull requests. In text format each
// title is followed by its description when the description is present
// and differs from the title, then by Separator. Pull requests without a
// description print the title only.
func (r *Renderer) PullRequests(w io.Writer, prs []types.PullRequest) error {
	switch r.cfg.Format {
	case types.FormatText:
	case types.FormatJSON:
		return writeJSON(w, Documents(prs))
	case types.FormatYAML:
		return writeYAML(w, Documents(prs))
	default:
		return unsupported(r.cfg.Format)
	}

	for _, pr := range prs {
		if _, err := fmt.Fprintln(w, r.renderTitle(pr.Title)); err != nil {
			return err
		}
		if !pr.HasDescription {
			continue
		}
		if pr.ShowsDescription() {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
			if err := r.writeElements(w, text.Parse(pr.Description)); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w, Separator); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) renderTitle(title string) string {
	if !r.cfg.Color {
		return title
	}
	return r.title.Render(title)
}

func (r *Renderer) writeElements(w io.Writer, elems []text.Element) error {
	var b strings.Builder
	for _, e := range elems {
		switch e := e.(type) {
		case text.Paragraph:
			b.WriteString(r.paragraph(string(e)))
			b.WriteString("\n\n")
		case text.ListEntry:
			b.WriteString("- ")
			b.WriteString(string(e))
			b.WriteByte('\n')
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// paragraph wraps p so that, once indented, no line exceeds the width
// except where a single word is longer than the space available.
func (r *Renderer) paragraph(p string) string {
	limit := r.cfg.Width - r.cfg.Indent
	if limit < 1 {
		limit = 1
	}
	wrapped := wordwrap.String(p, limit)
	if r.cfg.Indent == 0 {
		return wrapped
	}
	return indent.String(wrapped, uint(r.cfg.Indent))
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return nil
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return enc.Close()
}

func unsupported(f types.OutputFormat) error {
	return fmt.Errorf("unsupported format %q: use text, json or yaml", f)
}
