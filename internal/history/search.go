// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pdiddy/prdesc/pkg/types"
)

// QueryOptions holds parameters for history searches.
type QueryOptions struct {
	// Query is matched against titles and descriptions: an FTS5 match
	// expression when FTS5 is available, a substring otherwise.
	Query string

	// Author filters by the creator's display name (exact match).
	Author string

	// IncludeDrafts keeps draft pull requests in the results.
	IncludeDrafts bool

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

const selectColumns = `p.id, p.title, p.description, p.has_description, p.is_draft, p.status,
	p.created_by, p.source_ref, p.target_ref, p.creation_date, p.repository, p.url`

// Search returns stored pull requests matching opts. Full-text queries are
// ranked by relevance; otherwise the newest pull requests come first.
func (s *Store) Search(ctx context.Context, opts QueryOptions) ([]types.PullRequest, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb     strings.Builder
		args   []any
		useFTS = opts.Query != "" && s.fts
	)

	switch {
	case useFTS:
		qb.WriteString(`SELECT ` + selectColumns + `
			FROM pull_requests_fts
			JOIN pull_requests p ON p.id = pull_requests_fts.rowid
			WHERE pull_requests_fts MATCH ?`)
		args = append(args, opts.Query)
	case opts.Query != "":
		qb.WriteString(`SELECT ` + selectColumns + `
			FROM pull_requests p
			WHERE (p.title LIKE ? ESCAPE '\' OR p.description LIKE ? ESCAPE '\')`)
		pattern := "%" + escapeLike(opts.Query) + "%"
		args = append(args, pattern, pattern)
	default:
		qb.WriteString(`SELECT ` + selectColumns + ` FROM pull_requests p WHERE 1=1`)
	}

	if opts.Author != "" {
		qb.WriteString(` AND p.created_by = ?`)
		args = append(args, opts.Author)
	}
	if !opts.IncludeDrafts {
		qb.WriteString(` AND p.is_draft = 0`)
	}

	if useFTS {
		qb.WriteString(` ORDER BY pull_requests_fts.rank`)
	} else {
		qb.WriteString(` ORDER BY p.creation_date DESC, p.id DESC`)
	}

	qb.WriteString(` LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var results []types.PullRequest
	for rows.Next() {
		pr, err := scanPullRequest(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, pr)
	}
	return results, rows.Err()
}

// Get returns one stored pull request.
func (s *Store) Get(ctx context.Context, id int) (types.PullRequest, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+selectColumns+` FROM pull_requests p WHERE p.id = ?`, id)
	pr, err := scanPullRequest(row)
	if errors.Is(err, sql.ErrNoRows) {
		return types.PullRequest{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return pr, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPullRequest(sc scanner) (types.PullRequest, error) {
	var (
		pr                                            types.PullRequest
		status, createdBy, source, target, repo, link sql.NullString
		creation                                      sql.NullString
	)
	err := sc.Scan(
		&pr.ID, &pr.Title, &pr.Description, &pr.HasDescription, &pr.IsDraft, &status,
		&createdBy, &source, &target, &creation, &repo, &link,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return pr, err
	}
	if err != nil {
		return pr, fmt.Errorf("scanning row: %w", err)
	}

	pr.Status = status.String
	pr.CreatedBy = createdBy.String
	pr.SourceRef = source.String
	pr.TargetRef = target.String
	pr.Repository = repo.String
	pr.URL = link.String
	if creation.Valid && creation.String != "" {
		if t, parseErr := time.Parse(time.RFC3339, creation.String); parseErr == nil {
			pr.CreationDate = t
		}
	}
	return pr, nil
}

// escapeLike escapes LIKE wildcards so the query matches literally.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
