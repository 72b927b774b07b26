package driven

import (
	"context"

	"github.com/custodia-labs/gitlab-search/internal/core/domain"
)

// ListOptions selects one page of a paginated listing.
type ListOptions struct {
	Page    int
	PerPage int
}

// ProjectListOptions selects one page of a group's projects.
type ProjectListOptions struct {
	ListOptions

	// Archived filters on archive state. Nil lists both.
	Archived *bool
}

// GroupSource lists the groups visible to the caller.
type GroupSource interface {
	// ListGroups returns one page of groups.
	ListGroups(ctx context.Context, opts ListOptions) ([]domain.Group, error)
}

// ProjectSource lists the projects of a group.
type ProjectSource interface {
	// ListGroupProjects returns one page of the group's projects.
	ListGroupProjects(ctx context.Context, groupID string, opts ProjectListOptions) ([]domain.Project, error)
}

// CodeSearcher runs a blob search inside one project.
type CodeSearcher interface {
	// SearchBlobs returns the matches of query in the project.
	SearchBlobs(ctx context.Context, projectID int, query string) ([]domain.SearchResult, error)
}

// GitLab is the full remote API used by a search run.
type GitLab interface {
	GroupSource
	ProjectSource
	CodeSearcher
}
