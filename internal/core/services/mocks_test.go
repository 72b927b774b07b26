package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/gitlab-search/internal/core/domain"
	"github.com/custodia-labs/gitlab-search/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockGitLab implements driven.GitLab for testing. Pages are served from
// in-memory fixtures keyed by group ID and 1-based page number.
type mockGitLab struct {
	mu sync.Mutex

	groups    [][]domain.Group
	groupsErr error

	// pages maps group ID to its pages of projects.
	pages map[string][][]domain.Project
	// pageErrs maps "group/page" to an error returned for that page.
	pageErrs map[string]error

	// results maps project ID to its matches.
	results map[int][]domain.SearchResult
	// searchErrs maps project ID to a search error.
	searchErrs map[int]error

	projectCalls []driven.ProjectListOptions
	groupCalls   int
	searchCalls  []int
	queries      []string
}

var _ driven.GitLab = (*mockGitLab)(nil)

func newMockGitLab() *mockGitLab {
	return &mockGitLab{
		pages:      make(map[string][][]domain.Project),
		pageErrs:   make(map[string]error),
		results:    make(map[int][]domain.SearchResult),
		searchErrs: make(map[int]error),
	}
}

func (m *mockGitLab) ListGroups(_ context.Context, opts driven.ListOptions) ([]domain.Group, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.groupCalls++
	if m.groupsErr != nil {
		return nil, m.groupsErr
	}
	if opts.Page < 1 || opts.Page > len(m.groups) {
		return []domain.Group{}, nil
	}
	return m.groups[opts.Page-1], nil
}

func (m *mockGitLab) ListGroupProjects(_ context.Context, groupID string, opts driven.ProjectListOptions) ([]domain.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.projectCalls = append(m.projectCalls, opts)
	if err, ok := m.pageErrs[fmt.Sprintf("%s/%d", groupID, opts.Page)]; ok {
		return nil, err
	}
	pages := m.pages[groupID]
	if opts.Page < 1 || opts.Page > len(pages) {
		return []domain.Project{}, nil
	}
	return pages[opts.Page-1], nil
}

func (m *mockGitLab) SearchBlobs(_ context.Context, projectID int, query string) ([]domain.SearchResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.searchCalls = append(m.searchCalls, projectID)
	m.queries = append(m.queries, query)
	if err, ok := m.searchErrs[projectID]; ok {
		return nil, err
	}
	return m.results[projectID], nil
}

func (m *mockGitLab) searchCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.searchCalls)
}

// recordingObserver implements driven.Observer and records every event.
type recordingObserver struct {
	mu           sync.Mutex
	pagesFetched int
	pagesFailed  []int
	groupsSkip   []string
	searches     int
	searchErrs   int
}

var _ driven.Observer = (*recordingObserver)(nil)

func (o *recordingObserver) PageFetched(domain.Group, int, int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.pagesFetched++
}

func (o *recordingObserver) PageFailed(_ domain.Group, page int, _ error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.pagesFailed = append(o.pagesFailed, page)
}

func (o *recordingObserver) GroupSkipped(group domain.Group, _ error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.groupsSkip = append(o.groupsSkip, group.ID)
}

func (o *recordingObserver) SearchCompleted(_ domain.Project, _ int, _ time.Duration, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.searches++
	if err != nil {
		o.searchErrs++
	}
}

// --- Fixture helpers ---

// makeProjects returns n projects with IDs starting at firstID.
// Every project whose ID is divisible by archivedEvery is archived
// (archivedEvery <= 0 archives none).
func makeProjects(firstID, n, archivedEvery int) []domain.Project {
	projects := make([]domain.Project, n)
	for i := range projects {
		id := firstID + i
		projects[i] = domain.Project{
			ID:       id,
			Name:     fmt.Sprintf("project-%d", id),
			WebURL:   fmt.Sprintf("https://gitlab.example.com/acme/project-%d", id),
			Archived: archivedEvery > 0 && id%archivedEvery == 0,
		}
	}
	return projects
}

// makePages splits sizes into consecutive pages of projects with unique IDs.
func makePages(firstID int, sizes ...int) [][]domain.Project {
	pages := make([][]domain.Project, len(sizes))
	next := firstID
	for i, size := range sizes {
		pages[i] = makeProjects(next, size, 0)
		next += size
	}
	return pages
}

func makeResults(n int) []domain.SearchResult {
	results := make([]domain.SearchResult, n)
	for i := range results {
		results[i] = domain.SearchResult{
			Data:      fmt.Sprintf("// TODO item %d", i),
			Filename:  "main.go",
			Ref:       "main",
			Startline: i + 1,
		}
	}
	return results
}

func projectIDs(projects []domain.Project) []int {
	ids := make([]int, len(projects))
	for i, p := range projects {
		ids[i] = p.ID
	}
	return ids
}
