package services

import (
	"time"

	"github.com/custodia-labs/gitlab-search/internal/core/domain"
	"github.com/custodia-labs/gitlab-search/internal/core/ports/driven"
)

// Ensure nopObserver implements the interface.
var _ driven.Observer = nopObserver{}

// nopObserver is the default observer. It ignores every event.
type nopObserver struct{}

func (nopObserver) PageFetched(domain.Group, int, int) {}
func (nopObserver) PageFailed(domain.Group, int, error) {}
func (nopObserver) GroupSkipped(domain.Group, error) {}
func (nopObserver) SearchCompleted(domain.Project, int, time.Duration, error) {}

func observerOrNop(o driven.Observer) driven.Observer {
	if o == nil {
		return nopObserver{}
	}
	return o
}
