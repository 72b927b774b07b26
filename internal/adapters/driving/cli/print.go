package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/custodia-labs/gitlab-search/internal/core/domain"
)

// printResults writes every project's matches followed by a summary.
//
//	api (archived):
//
//		https://gitlab.example.com/acme/api/blob/main/main.go#L10
//
//			// TODO: fix
//
//	Found 1 results in 1 project(s)
func printResults(w io.Writer, styles *Styles, term string, results []domain.ProjectSearchResults) {
	highlight := highlighter(styles, term)

	total := 0
	for _, pr := range results {
		header := pr.Project.Name
		if pr.Project.Archived {
			header += styles.Archived.Render(" (archived)")
		}
		fmt.Fprintln(w, styles.Project.Render(header+":"))

		var b strings.Builder
		for _, r := range pr.Results {
			b.WriteString("\n\t")
			b.WriteString(styles.URL.Render(r.URL(pr.Project)))
			b.WriteString("\n\n\t\t")
			b.WriteString(highlight(indentSnippet(r.Data)))
		}
		fmt.Fprintln(w, b.String())
		total += len(pr.Results)
	}

	if len(results) == 0 {
		fmt.Fprintln(w, styles.NoResults.Render(fmt.Sprintf("No results found for %q", term)))
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, styles.Summary.Render(fmt.Sprintf("Found %d results in %d project(s)", total, len(results))))
}

// indentSnippet aligns continuation lines of a snippet under its first line.
func indentSnippet(data string) string {
	return strings.ReplaceAll(data, "\n", "\n\t\t")
}

// highlighter returns a function that styles every case-insensitive
// occurrence of term.
func highlighter(styles *Styles, term string) func(string) string {
	if term == "" {
		return func(s string) string { return s }
	}
	re := regexp.MustCompile("(?i)" + regexp.QuoteMeta(term))
	return func(s string) string {
		return re.ReplaceAllStringFunc(s, func(m string) string {
			return styles.Match.Render(m)
		})
	}
}

// jsonReport is the --json output document.
type jsonReport struct {
	Term         string                        `json:"term"`
	Query        string                        `json:"query"`
	Groups       int                           `json:"groups"`
	Projects     int                           `json:"projects"`
	TotalMatches int                           `json:"total_matches"`
	Results      []domain.ProjectSearchResults `json:"results"`
}

func printJSON(w io.Writer, criteria domain.SearchCriteria, report *domain.SearchReport) error {
	data, err := json.MarshalIndent(jsonReport{
		Term:         criteria.Term,
		Query:        criteria.Query(),
		Groups:       len(report.Groups),
		Projects:     len(report.Projects),
		TotalMatches: report.TotalMatches(),
		Results:      report.Results,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
