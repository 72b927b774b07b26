package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/gitlab-search/internal/adapters/driven/metrics"
	"github.com/custodia-labs/gitlab-search/internal/core/domain"
	"github.com/custodia-labs/gitlab-search/internal/core/ports/driven"
	"github.com/custodia-labs/gitlab-search/internal/logger"
)

var (
	searchGroups      string
	searchFilename    string
	searchExtension   string
	searchPath        string
	searchArchive     string
	searchToken       string
	searchDomain      string
	searchIgnoreSSL   bool
	searchConcurrency int
	searchProtocol    string
	searchJSON        bool
	searchTimeout     time.Duration
	searchRateLimit   float64
	searchMetricsFile string
)

func init() {
	flags := rootCmd.Flags()
	flags.StringVarP(&searchGroups, "groups", "g", "", "comma-separated list of group IDs to search in (default all groups)")
	flags.StringVarP(&searchFilename, "filename", "f", "", "filter by filename")
	flags.StringVarP(&searchExtension, "extension", "e", "", "filter by file extension")
	flags.StringVarP(&searchPath, "path", "p", "", "filter by file path")
	flags.StringVarP(&searchArchive, "archive", "a", string(domain.ArchiveExclude),
		"archived projects: all, only or exclude (use --archive=<mode>; bare -a means only)")
	flags.Lookup("archive").NoOptDefVal = string(domain.ArchiveOnly)
	flags.StringVarP(&searchToken, "token", "t", "", "GitLab access token")
	flags.StringVarP(&searchDomain, "domain", "d", "", "GitLab domain (default gitlab.com)")
	flags.BoolVar(&searchIgnoreSSL, "ignore-ssl", false, "ignore SSL certificate errors")
	flags.IntVarP(&searchConcurrency, "concurrency", "c", domain.DefaultConcurrency, "number of concurrent search requests")
	flags.StringVar(&searchProtocol, "protocol", string(domain.ProtocolHTTPS), "protocol to use (http or https)")
	flags.BoolVar(&searchJSON, "json", false, "output results as JSON")
	flags.DurationVar(&searchTimeout, "timeout", domain.DefaultRequestTimeout, "timeout for each API request")
	flags.Float64Var(&searchRateLimit, "rate-limit", 0, "maximum API requests per second (0 for no limit)")
	flags.StringVar(&searchMetricsFile, "metrics-file", "", "write Prometheus metrics for the run to this file")
}

// searchArgs accepts exactly one search term. A bare -a takes no value,
// so "-a all" leaves the mode behind as an extra argument; that case
// gets an error naming the attached form instead of an arity error.
func searchArgs(cmd *cobra.Command, args []string) error {
	if len(args) == 2 && cmd.Flags().Changed("archive") && searchArchive == string(domain.ArchiveOnly) {
		for _, arg := range args {
			if _, err := domain.ParseArchiveMode(arg); err == nil {
				return fmt.Errorf("%w: archive mode must be attached to the flag, use --archive=%s", domain.ErrInvalidInput, arg)
			}
		}
	}
	return cobra.ExactArgs(1)(cmd, args)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if newSettingsService == nil || newSearchService == nil {
		return errors.New("search service not configured")
	}

	settings, err := newSettingsService(configDir)
	if err != nil {
		return fmt.Errorf("failed to open settings: %w", err)
	}
	cfg, err := settings.Load()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	applySearchFlags(cmd, &cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	mode, err := domain.ParseArchiveMode(searchArchive)
	if err != nil {
		return err
	}

	log := logger.New(cmd.ErrOrStderr(), verbose)
	defer func() { _ = log.Sync() }()
	log.Debug("Config: %s, concurrency %d, auth %s", cfg.BaseURL(), cfg.Concurrency, cfg.AuthMethod)

	var observer driven.Observer
	var runMetrics *metrics.Metrics
	if searchMetricsFile != "" {
		runMetrics = metrics.New()
		observer = runMetrics
		defer func() {
			if err := runMetrics.WriteTextfile(searchMetricsFile); err != nil {
				log.Warn("Failed to write metrics to %s: %v", searchMetricsFile, err)
			}
		}()
	}

	svc, err := newSearchService(cfg, log, observer, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	req := domain.SearchRequest{
		Criteria:      domain.NewSearchCriteria(args[0], searchFilename, searchExtension, searchPath),
		GroupSelector: searchGroups,
		ArchiveMode:   mode,
		Concurrency:   cfg.Concurrency,
	}
	report, err := svc.Search(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return printJSON(cmd.OutOrStdout(), req.Criteria, report)
	}

	out := cmd.OutOrStdout()
	printResults(out, NewStyles(lipgloss.NewRenderer(out), nil), req.Criteria.Term, report.Results)
	return nil
}

// applySearchFlags overrides cfg with the connection flags the user set
// explicitly. Defaults never override stored settings.
func applySearchFlags(cmd *cobra.Command, cfg *domain.Config) {
	flags := cmd.Flags()
	if flags.Changed("token") {
		cfg.Token = searchToken
	}
	if flags.Changed("domain") {
		cfg.Domain = searchDomain
	}
	if flags.Changed("ignore-ssl") {
		cfg.IgnoreTLSVerification = searchIgnoreSSL
	}
	if flags.Changed("concurrency") {
		cfg.Concurrency = searchConcurrency
	}
	if flags.Changed("protocol") {
		cfg.Protocol = domain.ParseProtocol(searchProtocol)
	}
	if flags.Changed("timeout") {
		cfg.RequestTimeout = searchTimeout
	}
	if flags.Changed("rate-limit") {
		cfg.RateLimit = searchRateLimit
	}
}
