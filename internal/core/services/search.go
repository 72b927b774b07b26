package services

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/custodia-labs/gitlab-search/internal/core/domain"
	"github.com/custodia-labs/gitlab-search/internal/core/ports/driven"
	"github.com/custodia-labs/gitlab-search/internal/core/ports/driving"
	"github.com/custodia-labs/gitlab-search/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// SearchService runs the resolve, enumerate and dispatch pipeline.
type SearchService struct {
	resolver   *GroupResolver
	enumerator *ProjectEnumerator
	dispatcher *SearchDispatcher
	log        *logger.Logger
	progress   io.Writer
}

// NewSearchService creates a search service backed by a GitLab API.
// The log and observer parameters are optional (can be nil).
func NewSearchService(gitlab driven.GitLab, log *logger.Logger, observer driven.Observer) *SearchService {
	if log == nil {
		log = logger.Nop()
	}
	return &SearchService{
		resolver:   NewGroupResolver(gitlab, log),
		enumerator: NewProjectEnumerator(gitlab, log, observer),
		dispatcher: NewSearchDispatcher(gitlab, log, observer),
		log:        log,
		progress:   io.Discard,
	}
}

// SetProgressWriter sets where progress lines are written.
func (s *SearchService) SetProgressWriter(w io.Writer) {
	if w == nil {
		w = io.Discard
	}
	s.progress = w
}

// SetRequestTimeout bounds each project search.
func (s *SearchService) SetRequestTimeout(timeout time.Duration) {
	s.dispatcher.SetTimeout(timeout)
}

// Search resolves the request's groups, enumerates their projects and
// searches each project. Recoverable failures are absorbed along the way;
// an empty report with no error means nothing matched.
func (s *SearchService) Search(ctx context.Context, req domain.SearchRequest) (*domain.SearchReport, error) {
	if strings.TrimSpace(req.Criteria.Term) == "" {
		return nil, fmt.Errorf("%w: search term is empty", domain.ErrInvalidInput)
	}
	if req.Concurrency < 1 {
		return nil, fmt.Errorf("%w: concurrency must be at least 1, got %d", domain.ErrInvalidInput, req.Concurrency)
	}
	mode := req.ArchiveMode
	if mode == "" {
		mode = domain.ArchiveAll
	}
	if !mode.IsValid() {
		return nil, fmt.Errorf("%w: archive mode %q", domain.ErrUnsupportedType, mode)
	}

	report := &domain.SearchReport{
		Groups:   []domain.Group{},
		Projects: []domain.Project{},
		Results:  []domain.ProjectSearchResults{},
	}

	s.printf("Fetching groups...\n")
	groups, err := s.resolver.Resolve(ctx, req.GroupSelector)
	if err != nil {
		return nil, fmt.Errorf("fetch groups: %w", err)
	}
	if len(groups) == 0 {
		s.printf("No groups found\n")
		return report, nil
	}
	report.Groups = groups
	s.printf("Found %d group(s)\n", len(groups))

	s.printf("Fetching projects...\n")
	projects, err := s.enumerator.Enumerate(ctx, groups, mode)
	if err != nil {
		return nil, fmt.Errorf("fetch projects: %w", err)
	}
	if len(projects) == 0 {
		s.printf("No projects found\n")
		return report, nil
	}
	report.Projects = projects
	s.printf("Found %d project(s)\n", len(projects))

	s.printf("Searching for %q...\n", req.Criteria.Term)
	report.Results = s.dispatcher.Dispatch(ctx, projects, req.Criteria, req.Concurrency)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	s.log.Info("Found %d match(es) in %d project(s)", report.TotalMatches(), report.ProjectCount())
	return report, nil
}

func (s *SearchService) printf(format string, args ...any) {
	fmt.Fprintf(s.progress, format, args...)
}
