// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package devops reads pull requests from the Azure DevOps REST API.
package devops

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/prdesc/internal/httputil"
	"github.com/pdiddy/prdesc/internal/text"
	"github.com/pdiddy/prdesc/pkg/types"
)

// Sentinel errors for conditions callers may need to handle differently.
var (
	// ErrUnauthorized indicates the username/PAT pair was rejected.
	ErrUnauthorized = errors.New("devops: authentication failed")

	// ErrNotFound indicates the organization or project does not exist.
	ErrNotFound = errors.New("devops: organization or project not found")

	// ErrMissingConfig indicates a required setting is empty.
	ErrMissingConfig = errors.New("devops: missing required setting")
)

// Client queries one Azure DevOps project.
type Client struct {
	HTTP   *http.Client
	Config types.DevOpsConfig
	PAT    string
	Logger *zap.Logger
}

// NewClient returns a Client for cfg with defaults applied and an
// http.Client using cfg's timeout. A nil logger is replaced by a no-op.
func NewClient(cfg types.DevOpsConfig, pat string, logger *zap.Logger) *Client {
	cfg = cfg.WithDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		HTTP:   &http.Client{Timeout: cfg.Timeout},
		Config: cfg,
		PAT:    pat,
		Logger: logger,
	}
}

// Validate reports the first required setting that is empty.
func (c *Client) Validate() error {
	switch {
	case c.Config.Organization == "":
		return fmt.Errorf("%w: organization", ErrMissingConfig)
	case c.Config.Project == "":
		return fmt.Errorf("%w: project", ErrMissingConfig)
	case c.Config.Username == "":
		return fmt.Errorf("%w: username", ErrMissingConfig)
	case c.PAT == "":
		return fmt.Errorf("%w: personal access token", ErrMissingConfig)
	}
	return nil
}

// PullRequestsURL returns the git/pullrequests endpoint for the project.
func (c *Client) PullRequestsURL() (string, error) {
	cfg := c.Config.WithDefaults()
	base, err := url.Parse(strings.TrimSuffix(cfg.BaseURL, "/"))
	if err != nil {
		return "", fmt.Errorf("parsing base URL %q: %w", cfg.BaseURL, err)
	}
	u := base.JoinPath(cfg.Organization, cfg.Project, "_apis", "git", "pullrequests")
	u.RawQuery = url.Values{"api-version": {cfg.APIVersion}}.Encode()
	return u.String(), nil
}

// ListPullRequests fetches the project's active pull requests. Drafts are
// dropped unless the config includes them. Descriptions are returned with
// "\n" line breaks only.
func (c *Client) ListPullRequests(ctx context.Context) ([]types.PullRequest, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	logger := c.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg := c.Config.WithDefaults()

	reqURL, err := c.PullRequestsURL()
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.SetBasicAuth(cfg.Username, c.PAT)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", cfg.UserAgent)

	logger.Debug("fetching pull requests",
		zap.String("organization", cfg.Organization),
		zap.String("project", cfg.Project))

	resp, err := httputil.DoWithRetry(ctx, c.HTTP, req, cfg.MaxRetries, logger)
	if err != nil {
		return nil, fmt.Errorf("Azure DevOps API request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusNonAuthoritativeInfo, http.StatusForbidden:
		// A rejected PAT is answered with 203 and a sign-in page.
		return nil, fmt.Errorf("%w (HTTP %d)", ErrUnauthorized, resp.StatusCode)
	case http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, cfg.Organization, cfg.Project)
	default:
		return nil, fmt.Errorf("Azure DevOps API returned HTTP %d", resp.StatusCode)
	}

	var reply pullRequestReply
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return nil, fmt.Errorf("parsing Azure DevOps response: %w", err)
	}

	results := make([]types.PullRequest, 0, len(reply.Value))
	drafts := 0
	for _, p := range reply.Value {
		if p.IsDraft && !cfg.IncludeDrafts {
			drafts++
			continue
		}
		results = append(results, p.toPullRequest())
	}

	logger.Debug("fetched pull requests",
		zap.Int("count", len(reply.Value)),
		zap.Int("drafts_skipped", drafts))
	return results, nil
}

func (p pullRequestJSON) toPullRequest() types.PullRequest {
	pr := types.PullRequest{
		ID:           p.PullRequestID,
		Title:        p.Title,
		IsDraft:      p.IsDraft,
		Status:       p.Status,
		CreatedBy:    p.CreatedBy.DisplayName,
		SourceRef:    p.SourceRefName,
		TargetRef:    p.TargetRefName,
		Repository:   p.Repository.Name,
		URL:          p.URL,
		CreationDate: p.CreationDate,
	}
	if p.Description != nil {
		pr.HasDescription = true
		pr.Description = text.NormalizeNewlines(*p.Description)
	}
	return pr
}

// Azure DevOps API JSON structures.
type pullRequestReply struct {
	Value []pullRequestJSON `json:"value"`
	Count int               `json:"count"`
}

type pullRequestJSON struct {
	PullRequestID int            `json:"pullRequestId"`
	Title         string         `json:"title"`
	Description   *string        `json:"description"`
	IsDraft       bool           `json:"isDraft"`
	Status        string         `json:"status"`
	CreatedBy     identityRef    `json:"createdBy"`
	CreationDate  time.Time      `json:"creationDate"`
	SourceRefName string         `json:"sourceRefName"`
	TargetRefName string         `json:"targetRefName"`
	Repository    repositoryJSON `json:"repository"`
	URL           string         `json:"url"`
}

type identityRef struct {
	DisplayName string `json:"displayName"`
	UniqueName  string `json:"uniqueName"`
}

type repositoryJSON struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
