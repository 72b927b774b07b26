package cli

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/spf13/pflag"

	"github.com/custodia-labs/gitlab-search/internal/adapters/driven/config/memory"
	"github.com/custodia-labs/gitlab-search/internal/core/domain"
	"github.com/custodia-labs/gitlab-search/internal/core/ports/driven"
	"github.com/custodia-labs/gitlab-search/internal/core/ports/driving"
	"github.com/custodia-labs/gitlab-search/internal/core/services"
	"github.com/custodia-labs/gitlab-search/internal/logger"
)

// fakeSearchService records the request and returns a canned report.
type fakeSearchService struct {
	report *domain.SearchReport
	err    error
	got    domain.SearchRequest
	calls  int
}

func (f *fakeSearchService) Search(_ context.Context, req domain.SearchRequest) (*domain.SearchReport, error) {
	f.calls++
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return f.report, nil
}

// testHarness holds the fakes wired into the command factories.
type testHarness struct {
	store        *memory.ConfigStore
	search       *fakeSearchService
	cfg          domain.Config
	observer     driven.Observer
	factoryCalls int
	verifyCalls  int
	verifyErr    error
}

// setupTestServices swaps the service factories for fakes backed by an
// in-memory store seeded with stored. Everything is restored on cleanup.
func setupTestServices(t *testing.T, stored map[string]any) *testHarness {
	t.Helper()

	h := &testHarness{
		store: memory.NewConfigStore(stored),
		search: &fakeSearchService{report: &domain.SearchReport{
			Groups:   []domain.Group{},
			Projects: []domain.Project{},
			Results:  []domain.ProjectSearchResults{},
		}},
	}

	origSettings, origSearch, origVerify := newSettingsService, newSearchService, verifyCredentials
	newSettingsService = func(string) (driving.SettingsService, error) {
		return services.NewSettingsService(h.store, nil), nil
	}
	newSearchService = func(cfg domain.Config, _ *logger.Logger, observer driven.Observer, _ io.Writer) (driving.SearchService, error) {
		h.factoryCalls++
		h.cfg = cfg
		h.observer = observer
		return h.search, nil
	}
	verifyCredentials = func(context.Context, domain.Config, *logger.Logger) error {
		h.verifyCalls++
		return h.verifyErr
	}

	resetFlags()
	t.Cleanup(func() {
		newSettingsService, newSearchService, verifyCredentials = origSettings, origSearch, origVerify
		resetFlags()
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetIn(nil)
	})
	return h
}

// resetFlags restores every flag to its default so tests do not leak
// state through the package-level command tree.
func resetFlags() {
	reset := func(fs *pflag.FlagSet) {
		fs.VisitAll(func(f *pflag.Flag) {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		})
	}
	reset(rootCmd.Flags())
	reset(rootCmd.PersistentFlags())
	for _, c := range rootCmd.Commands() {
		reset(c.Flags())
	}
}

// execute runs the root command with args and returns stdout and stderr.
func execute(args ...string) (stdout, stderr string, err error) {
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err = rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func validSettings() map[string]any {
	return map[string]any{
		"domain": "gitlab.example.com",
		"token":  "glpat-stored-token",
	}
}
