// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

const (
	DefaultBaseURL    = "https://dev.azure.com"
	DefaultAPIVersion = "7.0"
	DefaultTimeout    = 30 * time.Second
	DefaultUserAgent  = "prdesc/0.1"
	DefaultWidth      = 80
	DefaultIndent     = 4
	DefaultHistoryDir = ".prdesc"
	DefaultMaxResults = 20
)

// HTTPConfig holds shared HTTP settings used by components that make
// network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// DevOpsConfig holds settings for the Azure DevOps client.
type DevOpsConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// BaseURL is the Azure DevOps services root (default https://dev.azure.com).
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// Organization is the Azure DevOps organization name.
	Organization string `json:"organization" yaml:"organization" mapstructure:"organization"`

	// Project is the team project name.
	Project string `json:"project" yaml:"project" mapstructure:"project"`

	// Username is the account name used for basic authentication.
	Username string `json:"username" yaml:"username" mapstructure:"username"`

	// PATFile is the path to a file holding the personal access token.
	PATFile string `json:"pat_file" yaml:"pat_file" mapstructure:"pat_file"`

	// APIVersion is sent as the api-version query parameter (default "7.0").
	APIVersion string `json:"api_version" yaml:"api_version" mapstructure:"api_version"`

	// IncludeDrafts keeps draft pull requests in the listing.
	IncludeDrafts bool `json:"include_drafts" yaml:"include_drafts" mapstructure:"include_drafts"`

	// MaxRetries is the number of retries on HTTP 429 (0 uses the default).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`
}

// WithDefaults returns a copy with zero fields set to their defaults.
func (c DevOpsConfig) WithDefaults() DevOpsConfig {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.APIVersion == "" {
		c.APIVersion = DefaultAPIVersion
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
	return c
}

// OutputFormat selects how segmented descriptions are written.
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
	FormatYAML OutputFormat = "yaml"
)

// RenderConfig holds settings for the renderer.
type RenderConfig struct {
	// Width is the display width paragraphs are wrapped to, indent included.
	Width int `json:"width" yaml:"width" mapstructure:"width"`

	// Indent is the number of spaces paragraphs are indented by.
	Indent int `json:"indent" yaml:"indent" mapstructure:"indent"`

	// Format selects text, json or yaml output.
	Format OutputFormat `json:"format" yaml:"format" mapstructure:"format"`

	// Color renders titles in bold.
	Color bool `json:"color" yaml:"color" mapstructure:"color"`
}

// WithDefaults returns a copy with zero fields set to their defaults.
// A negative Indent is treated as zero.
func (c RenderConfig) WithDefaults() RenderConfig {
	if c.Width <= 0 {
		c.Width = DefaultWidth
	}
	if c.Indent < 0 {
		c.Indent = 0
	}
	if c.Format == "" {
		c.Format = FormatText
	}
	return c
}

// HistoryConfig holds settings for the local history store.
type HistoryConfig struct {
	// Dir is the directory holding history.db (default ".prdesc").
	Dir string `json:"dir" yaml:"dir" mapstructure:"dir"`

	// MaxResults is the default number of search results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`
}

// WithDefaults returns a copy with zero fields set to their defaults.
func (c HistoryConfig) WithDefaults() HistoryConfig {
	if c.Dir == "" {
		c.Dir = DefaultHistoryDir
	}
	if c.MaxResults <= 0 {
		c.MaxResults = DefaultMaxResults
	}
	return c
}

// Config groups all component configurations.
type Config struct {
	DevOps  DevOpsConfig  `json:"devops" yaml:"devops" mapstructure:"devops"`
	Render  RenderConfig  `json:"render" yaml:"render" mapstructure:"render"`
	History HistoryConfig `json:"history" yaml:"history" mapstructure:"history"`
}
