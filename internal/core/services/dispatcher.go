package services

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/gitlab-search/internal/core/domain"
	"github.com/custodia-labs/gitlab-search/internal/core/ports/driven"
	"github.com/custodia-labs/gitlab-search/internal/logger"
)

// SearchDispatcher searches many projects in fixed-size parallel batches.
type SearchDispatcher struct {
	searcher driven.CodeSearcher
	log      *logger.Logger
	observer driven.Observer
	timeout  time.Duration
}

// NewSearchDispatcher creates a dispatcher. log and observer may be nil.
func NewSearchDispatcher(searcher driven.CodeSearcher, log *logger.Logger, observer driven.Observer) *SearchDispatcher {
	if log == nil {
		log = logger.Nop()
	}
	return &SearchDispatcher{
		searcher: searcher,
		log:      log,
		observer: observerOrNop(observer),
	}
}

// SetTimeout bounds each project search. A timed out search counts as
// a failed one. Zero disables the bound.
func (d *SearchDispatcher) SetTimeout(timeout time.Duration) {
	d.timeout = timeout
}

// Dispatch searches every project for criteria. Projects are split into
// consecutive batches of concurrency; all searches of a batch run in
// parallel and the batch completes before the next one starts.
//
// A failed search counts as no matches. Projects without matches are
// dropped; the rest keep their input order. If ctx is cancelled no
// further batches are started.
func (d *SearchDispatcher) Dispatch(
	ctx context.Context, projects []domain.Project, criteria domain.SearchCriteria, concurrency int,
) []domain.ProjectSearchResults {
	if concurrency < 1 {
		concurrency = 1
	}
	query := criteria.Query()

	d.log.Section("Search Dispatch")
	d.log.Debug("Query: %q, projects: %d, concurrency: %d", query, len(projects), concurrency)

	results := []domain.ProjectSearchResults{}
	for start := 0; start < len(projects); start += concurrency {
		if ctx.Err() != nil {
			d.log.Debug("Context done, stopping before batch at %d", start)
			break
		}

		end := min(start+concurrency, len(projects))
		batch := projects[start:end]
		found := d.searchBatch(ctx, batch, query)

		for i, matches := range found {
			if len(matches) == 0 {
				continue
			}
			results = append(results, domain.ProjectSearchResults{Project: batch[i], Results: matches})
		}
	}

	d.log.Debug("Projects with matches: %d", len(results))
	return results
}

// searchBatch runs one search per project and waits for all of them.
// found[i] holds the matches of batch[i].
func (d *SearchDispatcher) searchBatch(ctx context.Context, batch []domain.Project, query string) [][]domain.SearchResult {
	found := make([][]domain.SearchResult, len(batch))

	var wg sync.WaitGroup
	for i := range batch {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			found[i] = d.searchProject(ctx, batch[i], query)
		}(i)
	}
	wg.Wait()

	return found
}

func (d *SearchDispatcher) searchProject(ctx context.Context, project domain.Project, query string) []domain.SearchResult {
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	start := time.Now()
	matches, err := d.searcher.SearchBlobs(ctx, project.ID, query)
	if err != nil {
		d.observer.SearchCompleted(project, 0, time.Since(start), err)
		d.log.Debug("Search failed for project %s: %v", project.Name, err)
		return nil
	}

	d.observer.SearchCompleted(project, len(matches), time.Since(start), nil)
	return matches
}
