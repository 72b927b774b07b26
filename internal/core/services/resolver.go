package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/gitlab-search/internal/core/domain"
	"github.com/custodia-labs/gitlab-search/internal/core/ports/driven"
	"github.com/custodia-labs/gitlab-search/internal/logger"
)

// GroupResolver turns a group selector into the groups to enumerate.
type GroupResolver struct {
	source   driven.GroupSource
	log      *logger.Logger
	pageSize int
	maxPages int
}

// NewGroupResolver creates a resolver. log may be nil.
func NewGroupResolver(source driven.GroupSource, log *logger.Logger) *GroupResolver {
	if log == nil {
		log = logger.Nop()
	}
	return &GroupResolver{
		source:   source,
		log:      log,
		pageSize: PageSize,
		maxPages: MaxPages,
	}
}

// Resolve returns the groups named by selector, a comma-separated list
// of group IDs. IDs are trusted as-is and named after themselves. An
// empty selector lists every group visible to the caller; a failure in
// that listing is returned.
func (r *GroupResolver) Resolve(ctx context.Context, selector string) ([]domain.Group, error) {
	if strings.TrimSpace(selector) != "" {
		groups := domain.ParseGroupSelector(selector)
		r.log.Debug("Using %d group(s) from selector %q", len(groups), selector)
		return groups, nil
	}

	r.log.Debug("No group selector, listing all visible groups")

	groups := []domain.Group{}
	for page := 1; ; page++ {
		batch, err := r.source.ListGroups(ctx, driven.ListOptions{Page: page, PerPage: r.pageSize})
		if err != nil {
			return nil, fmt.Errorf("list groups page %d: %w", page, err)
		}
		r.log.Debug("Groups page %d: %d group(s)", page, len(batch))

		groups = append(groups, batch...)
		if len(batch) < r.pageSize {
			return groups, nil
		}
		if page >= r.maxPages {
			r.log.Warn("Reached maximum page limit while listing groups")
			return groups, nil
		}
	}
}
