package driven

import (
	"time"

	"github.com/custodia-labs/gitlab-search/internal/core/domain"
)

// Observer receives events from enumeration and dispatch.
// Implementations must be safe for concurrent use: SearchCompleted is
// called from the dispatcher's worker goroutines.
type Observer interface {
	// PageFetched is called for every successfully listed project page.
	PageFetched(group domain.Group, page, count int)

	// PageFailed is called when a project page could not be listed.
	PageFailed(group domain.Group, page int, err error)

	// GroupSkipped is called when a group is abandoned.
	GroupSkipped(group domain.Group, err error)

	// SearchCompleted is called once per searched project. err is the
	// absorbed failure, if any.
	SearchCompleted(project domain.Project, matches int, elapsed time.Duration, err error)
}
