package driving

import (
	"context"

	"github.com/custodia-labs/gitlab-search/internal/core/domain"
)

// SearchService provides search capabilities to external actors.
type SearchService interface {
	// Search resolves groups, enumerates their projects and searches
	// every project for the request's criteria.
	Search(ctx context.Context, req domain.SearchRequest) (*domain.SearchReport, error)
}
