// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/prdesc/internal/render"
)

const exportLimit = 100000

// DefaultExportPath returns dir/export.<ext> inside the history directory.
func (s *Store) DefaultExportPath(ext string) string {
	return filepath.Join(s.dir, "export."+ext)
}

// ExportYAML writes the segmented descriptions of matching pull requests
// to path as YAML. It supports the same filters as Search.
func (s *Store) ExportYAML(ctx context.Context, opts QueryOptions, path string) (int, error) {
	docs, err := s.exportDocuments(ctx, opts)
	if err != nil {
		return 0, err
	}

	data, err := yaml.Marshal(docs)
	if err != nil {
		return 0, fmt.Errorf("marshaling YAML: %w", err)
	}
	return len(docs), writeExport(path, data)
}

// ExportJSON writes the segmented descriptions of matching pull requests
// to path as JSON. It supports the same filters as Search.
func (s *Store) ExportJSON(ctx context.Context, opts QueryOptions, path string) (int, error) {
	docs, err := s.exportDocuments(ctx, opts)
	if err != nil {
		return 0, err
	}

	data, err := json.MarshalIndent(docs, "", "  ")
	if err != nil {
		return 0, fmt.Errorf("marshaling JSON: %w", err)
	}
	return len(docs), writeExport(path, data)
}

func (s *Store) exportDocuments(ctx context.Context, opts QueryOptions) ([]render.Document, error) {
	if opts.MaxResults <= 0 {
		opts.MaxResults = exportLimit
	}
	prs, err := s.Search(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}
	return render.Documents(prs), nil
}

func writeExport(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating export directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
