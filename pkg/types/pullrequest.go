// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for prdesc.
// PullRequest is the record fetched from Azure DevOps and kept in the
// history store; the config structs group settings per component.
package types

import "time"

// PullRequest holds the fields of an Azure DevOps pull request that prdesc
// displays and stores.
type PullRequest struct {
	// ID is the pull request number (pullRequestId).
	ID int `json:"id" yaml:"id"`

	// Title is the pull request title.
	Title string `json:"title" yaml:"title"`

	// Description is the raw description text with "\n" line breaks.
	// It is empty when the pull request has no description.
	Description string `json:"description" yaml:"description"`

	// HasDescription distinguishes an absent description from an empty one.
	HasDescription bool `json:"has_description" yaml:"has_description"`

	// IsDraft is true for draft pull requests.
	IsDraft bool `json:"is_draft" yaml:"is_draft"`

	// Status is the pull request status (e.g. "active", "completed").
	Status string `json:"status" yaml:"status"`

	// CreatedBy is the display name of the author.
	CreatedBy string `json:"created_by" yaml:"created_by"`

	// SourceRef is the source branch ref (e.g. "refs/heads/feature").
	SourceRef string `json:"source_ref" yaml:"source_ref"`

	// TargetRef is the target branch ref (e.g. "refs/heads/main").
	TargetRef string `json:"target_ref" yaml:"target_ref"`

	// CreationDate is when the pull request was opened.
	CreationDate time.Time `json:"creation_date" yaml:"creation_date"`

	// Repository is the name of the repository the pull request belongs to.
	Repository string `json:"repository" yaml:"repository"`

	// URL is the REST URL of the pull request.
	URL string `json:"url" yaml:"url"`
}

// ShowsDescription reports whether the description should be printed
// under the title: it must exist and differ from the title.
func (pr PullRequest) ShowsDescription() bool {
	return pr.HasDescription && pr.Description != pr.Title
}
