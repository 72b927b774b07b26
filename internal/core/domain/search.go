package domain

import (
	"fmt"
	"strings"
)

// FilterKind identifies a structural search filter.
type FilterKind string

const (
	FilterFilename  FilterKind = "filename"
	FilterExtension FilterKind = "extension"
	FilterPath      FilterKind = "path"
)

// SearchFilter is an additional constraint layered onto the search term.
// An empty Value imposes no constraint.
type SearchFilter struct {
	Kind  FilterKind `json:"kind"`
	Value string     `json:"value,omitempty"`
}

// Token returns the filter as a "kind:value" search token, or "" when
// the filter has no value.
func (f SearchFilter) Token() string {
	if f.Value == "" {
		return ""
	}
	return string(f.Kind) + ":" + f.Value
}

// SearchCriteria combines the free-text term with structural filters.
type SearchCriteria struct {
	Term    string         `json:"term"`
	Filters []SearchFilter `json:"filters,omitempty"`
}

// NewSearchCriteria builds criteria from a term and the optional filename,
// extension and path filter values, in that order.
func NewSearchCriteria(term, filename, extension, path string) SearchCriteria {
	c := SearchCriteria{Term: term}
	if filename != "" {
		c.Filters = append(c.Filters, SearchFilter{Kind: FilterFilename, Value: filename})
	}
	if extension != "" {
		c.Filters = append(c.Filters, SearchFilter{Kind: FilterExtension, Value: extension})
	}
	if path != "" {
		c.Filters = append(c.Filters, SearchFilter{Kind: FilterPath, Value: path})
	}
	return c
}

// Query encodes the criteria as a single search string: the term
// followed by one space-separated "kind:value" token per filter.
// Values are left unescaped; the transport encodes the parameter.
func (c SearchCriteria) Query() string {
	parts := []string{c.Term}
	for _, f := range c.Filters {
		if tok := f.Token(); tok != "" {
			parts = append(parts, tok)
		}
	}
	return strings.Join(parts, " ")
}

// SearchResult is one matching location within one project.
type SearchResult struct {
	Data      string `json:"data"`
	Filename  string `json:"filename"`
	Ref       string `json:"ref"`
	Startline int    `json:"startline"`
}

// URL returns the web link to the matched line inside project p.
func (r SearchResult) URL(p Project) string {
	return fmt.Sprintf("%s/blob/%s/%s#L%d", p.WebURL, r.Ref, r.Filename, r.Startline)
}

// ProjectSearchResults associates a project with its matches.
// Results is never empty.
type ProjectSearchResults struct {
	Project Project        `json:"project"`
	Results []SearchResult `json:"results"`
}

// SearchRequest is the input of one search run.
type SearchRequest struct {
	Criteria SearchCriteria

	// GroupSelector is a comma-separated list of group IDs.
	// Empty means every group visible to the caller.
	GroupSelector string

	ArchiveMode ArchiveMode

	// Concurrency is the batch size of parallel search requests.
	Concurrency int
}

// SearchReport is the outcome of one search run.
type SearchReport struct {
	Groups   []Group
	Projects []Project
	Results  []ProjectSearchResults
}

// TotalMatches returns the number of matches across all projects.
func (r *SearchReport) TotalMatches() int {
	total := 0
	for _, pr := range r.Results {
		total += len(pr.Results)
	}
	return total
}

// ProjectCount returns the number of projects with at least one match.
func (r *SearchReport) ProjectCount() int {
	return len(r.Results)
}
