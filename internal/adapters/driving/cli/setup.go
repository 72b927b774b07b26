package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/gitlab-search/internal/core/domain"
	"github.com/custodia-labs/gitlab-search/internal/logger"
)

var (
	setupToken       string
	setupDomain      string
	setupIgnoreSSL   bool
	setupProtocol    string
	setupConcurrency int
	setupAuthMethod  string
	setupVerify      bool
	setupShow        bool
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Save GitLab connection settings",
	Long: `Stores the GitLab domain, access token and connection options in
~/.gitlab-search/config.toml so later searches need no flags.

Only the flags you pass are changed. When no token is configured and
none is given, the token is read from the terminal without echo.`,
	Args: cobra.NoArgs,
	RunE: runSetup,
}

func init() {
	flags := setupCmd.Flags()
	flags.StringVarP(&setupToken, "token", "t", "", "GitLab access token")
	flags.StringVarP(&setupDomain, "domain", "d", "", "GitLab domain, e.g. gitlab.example.com")
	flags.BoolVar(&setupIgnoreSSL, "ignore-ssl", false, "ignore SSL certificate errors")
	flags.StringVar(&setupProtocol, "protocol", "", "protocol to use (http or https)")
	flags.IntVarP(&setupConcurrency, "concurrency", "c", 0, "number of concurrent search requests")
	flags.StringVar(&setupAuthMethod, "auth-method", "", "how the token is sent: private_token or oauth")
	flags.BoolVar(&setupVerify, "verify", false, "check the token against the GitLab API before saving")
	flags.BoolVar(&setupShow, "show", false, "print the current settings and exit")
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, _ []string) error {
	if newSettingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := newSettingsService(configDir)
	if err != nil {
		return fmt.Errorf("failed to open settings: %w", err)
	}

	if setupShow {
		cfg, err := settings.Load()
		if err != nil {
			return fmt.Errorf("failed to load settings: %w", err)
		}
		showSettings(cmd, cfg, settings.Path())
		return nil
	}

	// Edits apply to the stored settings; environment overrides only
	// take part in validation and the token check.
	stored, err := settings.LoadStored()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	effective, err := settings.Load()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	applySetupFlags(cmd, &stored)
	applySetupFlags(cmd, &effective)

	if effective.Token == "" {
		cmd.Print("GitLab access token: ")
		token := readPassword(cmd.InOrStdin())
		cmd.Println()
		stored.Token = token
		effective.Token = token
	}
	if err := effective.Validate(); err != nil {
		return err
	}

	if setupVerify {
		log := logger.New(cmd.ErrOrStderr(), verbose)
		if err := verifyCredentials(cmd.Context(), effective, log); err != nil {
			return fmt.Errorf("token check failed: %w", err)
		}
		cmd.Println("Token verified.")
	}

	if err := settings.Save(stored); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	cmd.Printf("Settings saved to %s\n", settings.Path())
	return nil
}

// applySetupFlags copies the flags the user set onto cfg.
func applySetupFlags(cmd *cobra.Command, cfg *domain.Config) {
	flags := cmd.Flags()
	if flags.Changed("token") {
		cfg.Token = setupToken
	}
	if flags.Changed("domain") {
		cfg.Domain = setupDomain
	}
	if flags.Changed("ignore-ssl") {
		cfg.IgnoreTLSVerification = setupIgnoreSSL
	}
	if flags.Changed("protocol") {
		cfg.Protocol = domain.ParseProtocol(setupProtocol)
	}
	if flags.Changed("concurrency") {
		cfg.Concurrency = setupConcurrency
	}
	if flags.Changed("auth-method") {
		cfg.AuthMethod = domain.AuthMethod(setupAuthMethod)
	}
}

func showSettings(cmd *cobra.Command, cfg domain.Config, path string) {
	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Printf("  File: %s\n", path)
	cmd.Printf("  API: %s\n", cfg.BaseURL())
	if cfg.Token != "" {
		cmd.Printf("  Token: %s\n", maskToken(cfg.Token))
	} else {
		cmd.Printf("  Token: (not set)\n")
	}
	cmd.Printf("  Auth method: %s\n", cfg.AuthMethod)
	cmd.Printf("  Ignore SSL: %t\n", cfg.IgnoreTLSVerification)
	cmd.Printf("  Concurrency: %d\n", cfg.Concurrency)
	cmd.Printf("  Request timeout: %s\n", cfg.RequestTimeout)
	if cfg.RateLimit > 0 {
		cmd.Printf("  Rate limit: %g req/s\n", cfg.RateLimit)
	}
}

// readPassword reads a token without echo when in is a terminal and
// falls back to a plain line read otherwise.
//
//nolint:errcheck // CLI helper, error ignored for UX
func readPassword(in io.Reader) string {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		password, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	reader := bufio.NewReader(in)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func maskToken(token string) string {
	if len(token) <= 8 {
		return "****"
	}
	return token[:4] + "..." + token[len(token)-4:]
}
