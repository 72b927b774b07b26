package services

import (
	"context"

	"github.com/custodia-labs/gitlab-search/internal/core/domain"
	"github.com/custodia-labs/gitlab-search/internal/core/ports/driven"
	"github.com/custodia-labs/gitlab-search/internal/logger"
)

const (
	// PageSize is the number of items requested per listing page.
	// A shorter page ends the listing.
	PageSize = 100

	// MaxPages is the hard ceiling of pages requested per listing.
	MaxPages = 1000
)

// ProjectEnumerator lists the projects of resolved groups.
//
// A failure on the first page of a group skips that group. A failure
// on any later page skips only that page and the listing continues
// with the next one, so a transient error can silently drop a page of
// projects. This trades completeness for availability.
type ProjectEnumerator struct {
	source   driven.ProjectSource
	log      *logger.Logger
	observer driven.Observer
	pageSize int
	maxPages int
}

// NewProjectEnumerator creates an enumerator. log and observer may be nil.
func NewProjectEnumerator(source driven.ProjectSource, log *logger.Logger, observer driven.Observer) *ProjectEnumerator {
	if log == nil {
		log = logger.Nop()
	}
	return &ProjectEnumerator{
		source:   source,
		log:      log,
		observer: observerOrNop(observer),
		pageSize: PageSize,
		maxPages: MaxPages,
	}
}

// Enumerate returns the projects of every group that pass mode, in group
// order, then page order, then listing order. Projects shared by two
// groups appear twice. Only context cancellation is returned as an error.
func (e *ProjectEnumerator) Enumerate(ctx context.Context, groups []domain.Group, mode domain.ArchiveMode) ([]domain.Project, error) {
	e.log.Section("Project Enumeration")
	e.log.Debug("Groups: %d, archive mode: %s", len(groups), mode)

	projects := []domain.Project{}
	for _, group := range groups {
		found, err := e.enumerateGroup(ctx, group, mode)
		if err != nil {
			return projects, err
		}
		e.log.Debug("Group %s: %d project(s)", group.DisplayName(), len(found))
		projects = append(projects, found...)
	}
	return projects, nil
}

func (e *ProjectEnumerator) enumerateGroup(ctx context.Context, group domain.Group, mode domain.ArchiveMode) ([]domain.Project, error) {
	opts := driven.ProjectListOptions{
		ListOptions: driven.ListOptions{PerPage: e.pageSize},
		Archived:    mode.ArchivedParam(),
	}

	var projects []domain.Project
	page := 1
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		opts.Page = page
		batch, err := e.source.ListGroupProjects(ctx, group.ID, opts)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			e.observer.PageFailed(group, page, err)

			if page == 1 {
				e.log.Warn("Failed to fetch first page for group %s, skipping this group: %v", group.DisplayName(), err)
				e.observer.GroupSkipped(group, err)
				return nil, nil
			}

			e.log.Warn("Failed to fetch page %d for group %s, skipping page: %v", page, group.DisplayName(), err)
			page++
			if page > e.maxPages {
				e.log.Warn("Reached maximum page limit for group %s", group.DisplayName())
				return projects, nil
			}
			continue
		}

		e.observer.PageFetched(group, page, len(batch))
		for _, p := range batch {
			if mode.Allows(p) {
				projects = append(projects, p)
			}
		}

		if len(batch) < e.pageSize {
			return projects, nil
		}
		page++
		if page > e.maxPages {
			e.log.Warn("Reached maximum page limit for group %s", group.DisplayName())
			return projects, nil
		}
	}
}
