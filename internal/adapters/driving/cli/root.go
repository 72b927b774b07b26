// Package cli implements the gitlab-search command line interface.
package cli

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/gitlab-search/internal/adapters/driven/config/env"
	"github.com/custodia-labs/gitlab-search/internal/adapters/driven/config/file"
	"github.com/custodia-labs/gitlab-search/internal/adapters/driven/config/memory"
	"github.com/custodia-labs/gitlab-search/internal/connectors/gitlab"
	"github.com/custodia-labs/gitlab-search/internal/core/domain"
	"github.com/custodia-labs/gitlab-search/internal/core/ports/driven"
	"github.com/custodia-labs/gitlab-search/internal/core/ports/driving"
	"github.com/custodia-labs/gitlab-search/internal/core/services"
	"github.com/custodia-labs/gitlab-search/internal/logger"
)

// version is set at build time with -ldflags "-X .../cli.version=v1.2.3".
var version = "dev"

var (
	configDir string
	verbose   bool
)

var rootCmd = &cobra.Command{
	Use:   "gitlab-search <search-term>",
	Short: "Search for contents across all your GitLab repositories",
	Long: `Searches file contents in every project of one or more GitLab groups.

All groups visible to the access token are searched unless --groups is
given. Archived projects are excluded by default; pass --archive=all to
include them or -a to search archived projects only.

Connection settings are read from ~/.gitlab-search/config.toml (see
'gitlab-search setup'), then from GITLAB_SEARCH_* environment variables,
then from flags.`,
	Args:          searchArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runSearch,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "directory holding config.toml (default ~/.gitlab-search)")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "print debug output to stderr")
}

// Execute runs the root command until completion or interrupt.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

// Service factories. Tests replace them to run commands without a
// GitLab instance or a home directory.
var (
	newSettingsService = defaultSettingsService
	newSearchService   = defaultSearchService
	verifyCredentials  = defaultVerifyCredentials
)

// defaultSettingsService layers GITLAB_SEARCH_* variables over the TOML
// store in dir. Without a home directory settings are kept in memory.
func defaultSettingsService(dir string) (driving.SettingsService, error) {
	var store driven.ConfigStore
	if dir == "" {
		if _, err := os.UserHomeDir(); err != nil {
			store = memory.NewConfigStore(nil)
		}
	}
	if store == nil {
		fileStore, err := file.NewConfigStore(dir)
		if err != nil {
			return nil, err
		}
		store = fileStore
	}

	overrides, err := env.Load()
	if err != nil {
		return nil, err
	}
	return services.NewSettingsService(store, overrides), nil
}

func defaultSearchService(
	cfg domain.Config, log *logger.Logger, observer driven.Observer, progress io.Writer,
) (driving.SearchService, error) {
	client, err := gitlab.NewClient(cfg, log)
	if err != nil {
		return nil, err
	}
	svc := services.NewSearchService(client, log, observer)
	svc.SetProgressWriter(progress)
	svc.SetRequestTimeout(cfg.RequestTimeout)
	return svc, nil
}

func defaultVerifyCredentials(ctx context.Context, cfg domain.Config, log *logger.Logger) error {
	client, err := gitlab.NewClient(cfg, log)
	if err != nil {
		return err
	}
	return client.ValidateCredentials(ctx)
}
