package cli

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/gitlab-search/internal/core/domain"
)

func validConfigWithoutToken() domain.Config {
	cfg := domain.DefaultConfig()
	cfg.Token = ""
	return cfg
}

func sampleReport() *domain.SearchReport {
	api := domain.Project{ID: 1, Name: "api", WebURL: "https://gitlab.example.com/acme/api"}
	legacy := domain.Project{ID: 2, Name: "legacy", WebURL: "https://gitlab.example.com/acme/legacy", Archived: true}
	return &domain.SearchReport{
		Groups:   []domain.Group{{ID: "acme", Name: "acme"}},
		Projects: []domain.Project{api, legacy},
		Results: []domain.ProjectSearchResults{
			{Project: api, Results: []domain.SearchResult{
				{Data: "// TODO: fix\n", Filename: "main.go", Ref: "main", Startline: 3},
				{Data: "todo list", Filename: "README.md", Ref: "main", Startline: 1},
			}},
			{Project: legacy, Results: []domain.SearchResult{
				{Data: "TODO", Filename: "old.go", Ref: "master", Startline: 7},
			}},
		},
	}
}

func TestSearch_MissingTokenFailsBeforeNetwork(t *testing.T) {
	h := setupTestServices(t, nil)

	_, _, err := execute("TODO")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrAuthRequired)
	assert.Contains(t, err.Error(), "gitlab-search setup --token")
	assert.Zero(t, h.factoryCalls)
	assert.Zero(t, h.search.calls)
}

func TestSearch_EmptyDomainFailsBeforeNetwork(t *testing.T) {
	h := setupTestServices(t, validSettings())

	_, _, err := execute("--domain", "", "TODO")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Zero(t, h.factoryCalls)
}

func TestSearch_PrintsResults(t *testing.T) {
	h := setupTestServices(t, validSettings())
	h.search.report = sampleReport()

	out, _, err := execute("TODO")

	require.NoError(t, err)
	assert.Contains(t, out, "api:\n")
	assert.Contains(t, out, "\n\thttps://gitlab.example.com/acme/api/blob/main/main.go#L3\n\n\t\t// TODO: fix\n\t\t")
	assert.Contains(t, out, "\n\thttps://gitlab.example.com/acme/api/blob/main/README.md#L1\n\n\t\ttodo list")
	assert.Contains(t, out, "legacy (archived):\n")
	assert.Contains(t, out, "Found 3 results in 2 project(s)\n")
}

func TestSearch_NoResults(t *testing.T) {
	setupTestServices(t, validSettings())

	out, _, err := execute("nothing-matches")

	require.NoError(t, err)
	assert.Equal(t, "No results found for \"nothing-matches\"\n", out)
}

func TestSearch_BuildsRequestFromFlags(t *testing.T) {
	h := setupTestServices(t, validSettings())

	_, _, err := execute(
		"-g", "12,acme/tools",
		"-f", "main.go",
		"-e", "go",
		"-p", "cmd/",
		"--archive=all",
		"-c", "5",
		"TODO",
	)

	require.NoError(t, err)
	require.Equal(t, 1, h.search.calls)
	got := h.search.got
	assert.Equal(t, "12,acme/tools", got.GroupSelector)
	assert.Equal(t, "TODO", got.Criteria.Term)
	assert.Equal(t, "TODO filename:main.go extension:go path:cmd/", got.Criteria.Query())
	assert.Equal(t, domain.ArchiveAll, got.ArchiveMode)
	assert.Equal(t, 5, got.Concurrency)
}

func TestSearch_ArchiveFlag(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    domain.ArchiveMode
		wantErr error
	}{
		{name: "default excludes", args: []string{"TODO"}, want: domain.ArchiveExclude},
		{name: "bare flag means only", args: []string{"-a", "TODO"}, want: domain.ArchiveOnly},
		{name: "explicit all", args: []string{"--archive=all", "TODO"}, want: domain.ArchiveAll},
		{name: "legacy true", args: []string{"--archive=true", "TODO"}, want: domain.ArchiveOnly},
		{name: "legacy false", args: []string{"-a=false", "TODO"}, want: domain.ArchiveExclude},
		{name: "unknown mode", args: []string{"--archive=sometimes", "TODO"}, wantErr: domain.ErrUnsupportedType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := setupTestServices(t, validSettings())

			_, _, err := execute(tt.args...)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Zero(t, h.search.calls)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, h.search.got.ArchiveMode)
		})
	}
}

func TestSearch_StoredSettingsUsedWhenFlagsAbsent(t *testing.T) {
	h := setupTestServices(t, map[string]any{
		"domain":          "gitlab.internal",
		"token":           "glpat-file",
		"protocol":        "http",
		"ignore_ssl":      true,
		"concurrency":     3,
		"timeout_seconds": 5,
	})

	_, _, err := execute("TODO")

	require.NoError(t, err)
	assert.Equal(t, "gitlab.internal", h.cfg.Domain)
	assert.Equal(t, "glpat-file", h.cfg.Token)
	assert.Equal(t, domain.ProtocolHTTP, h.cfg.Protocol)
	assert.True(t, h.cfg.IgnoreTLSVerification)
	assert.Equal(t, 3, h.cfg.Concurrency, "flag default must not override stored value")
	assert.Equal(t, 5*time.Second, h.cfg.RequestTimeout)
	assert.Equal(t, 3, h.search.got.Concurrency)
}

func TestSearch_FlagsOverrideStoredSettings(t *testing.T) {
	h := setupTestServices(t, map[string]any{
		"domain":      "gitlab.internal",
		"token":       "glpat-file",
		"ignore_ssl":  true,
		"concurrency": 3,
	})

	_, _, err := execute(
		"-d", "gitlab.example.com",
		"-t", "glpat-flag",
		"--ignore-ssl=false",
		"--protocol", "http",
		"-c", "20",
		"--timeout", "2s",
		"--rate-limit", "4",
		"TODO",
	)

	require.NoError(t, err)
	assert.Equal(t, "gitlab.example.com", h.cfg.Domain)
	assert.Equal(t, "glpat-flag", h.cfg.Token)
	assert.False(t, h.cfg.IgnoreTLSVerification)
	assert.Equal(t, domain.ProtocolHTTP, h.cfg.Protocol)
	assert.Equal(t, 20, h.cfg.Concurrency)
	assert.Equal(t, 2*time.Second, h.cfg.RequestTimeout)
	assert.Equal(t, 4.0, h.cfg.RateLimit)
}

func TestSearch_JSONOutput(t *testing.T) {
	h := setupTestServices(t, validSettings())
	h.search.report = sampleReport()

	out, _, err := execute("--json", "-e", "go", "TODO")

	require.NoError(t, err)
	var doc struct {
		Term         string `json:"term"`
		Query        string `json:"query"`
		Groups       int    `json:"groups"`
		Projects     int    `json:"projects"`
		TotalMatches int    `json:"total_matches"`
		Results      []struct {
			Project struct {
				Name     string `json:"name"`
				WebURL   string `json:"web_url"`
				Archived bool   `json:"archived"`
			} `json:"project"`
			Results []domain.SearchResult `json:"results"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "TODO", doc.Term)
	assert.Equal(t, "TODO extension:go", doc.Query)
	assert.Equal(t, 1, doc.Groups)
	assert.Equal(t, 2, doc.Projects)
	assert.Equal(t, 3, doc.TotalMatches)
	require.Len(t, doc.Results, 2)
	assert.Equal(t, "legacy", doc.Results[1].Project.Name)
	assert.True(t, doc.Results[1].Project.Archived)
	assert.Equal(t, 7, doc.Results[1].Results[0].Startline)
}

func TestSearch_ServiceError(t *testing.T) {
	h := setupTestServices(t, validSettings())
	h.search.err = errors.New("fetch groups: 401 Unauthorized")

	_, _, err := execute("TODO")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "search failed")
	assert.Contains(t, err.Error(), "401 Unauthorized")
}

func TestSearch_MetricsFile(t *testing.T) {
	h := setupTestServices(t, validSettings())
	path := filepath.Join(t.TempDir(), "run.prom")

	_, _, err := execute("--metrics-file", path, "TODO")

	require.NoError(t, err)
	assert.NotNil(t, h.observer)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "gitlab_search_matches_total")
}

func TestSearch_NoMetricsFileNoObserver(t *testing.T) {
	h := setupTestServices(t, validSettings())

	_, _, err := execute("TODO")

	require.NoError(t, err)
	assert.Nil(t, h.observer)
}

func TestSearch_MetricsWriteFailureOnlyWarns(t *testing.T) {
	setupTestServices(t, validSettings())
	path := filepath.Join(t.TempDir(), "missing", "run.prom")

	_, stderr, err := execute("--metrics-file", path, "TODO")

	require.NoError(t, err)
	assert.Contains(t, stderr, "[WARN] Failed to write metrics")
}

func TestSearch_VerboseLogsToStderr(t *testing.T) {
	setupTestServices(t, validSettings())

	out, stderr, err := execute("--verbose", "TODO")

	require.NoError(t, err)
	assert.Contains(t, stderr, "[DEBUG] Config: https://gitlab.example.com/api/v4")
	assert.NotContains(t, out, "[DEBUG]")
}

func TestSearch_DetachedArchiveModeGetsTargetedError(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "mode after term", args: []string{"TODO", "-a", "all"}, want: "--archive=all"},
		{name: "mode before term", args: []string{"-a", "exclude", "TODO"}, want: "--archive=exclude"},
		{name: "long flag", args: []string{"--archive", "only", "TODO"}, want: "--archive=only"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := setupTestServices(t, validSettings())

			_, _, err := execute(tt.args...)

			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Contains(t, err.Error(), tt.want)
			assert.NotContains(t, err.Error(), "accepts 1 arg(s)")
			assert.Zero(t, h.search.calls)
		})
	}
}

func TestSearch_TwoTermsWithoutArchiveModeIsArityError(t *testing.T) {
	setupTestServices(t, validSettings())

	_, _, err := execute("-a", "TODO", "FIXME")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s), received 2")
}
