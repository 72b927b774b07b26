package services

import (
	"fmt"
	"time"

	"github.com/custodia-labs/gitlab-search/internal/core/domain"
	"github.com/custodia-labs/gitlab-search/internal/core/ports/driven"
	"github.com/custodia-labs/gitlab-search/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Configuration keys.
const (
	KeyDomain         = "domain"
	KeyToken          = "token"
	KeyProtocol       = "protocol"
	KeyIgnoreSSL      = "ignore_ssl"
	KeyConcurrency    = "concurrency"
	KeyAuthMethod     = "auth_method"
	KeyTimeoutSeconds = "timeout_seconds"
	KeyRateLimit      = "rate_limit"
)

// SettingsService loads and persists connection settings.
type SettingsService struct {
	store     driven.ConfigStore
	overrides driven.ConfigReader
}

// NewSettingsService creates a settings service. overrides is optional
// (can be nil) and takes precedence over the store.
func NewSettingsService(store driven.ConfigStore, overrides driven.ConfigReader) *SettingsService {
	return &SettingsService{
		store:     store,
		overrides: overrides,
	}
}

// Load returns defaults overlaid with the store and then the overrides.
func (s *SettingsService) Load() (domain.Config, error) {
	cfg := domain.DefaultConfig()
	if s.store == nil {
		return cfg, fmt.Errorf("settings store not configured")
	}

	applyConfig(&cfg, s.store)
	if s.overrides != nil {
		applyConfig(&cfg, s.overrides)
	}
	return cfg, nil
}

// LoadStored returns defaults overlaid with the store, without the
// overrides. Save writes what this returns, so environment values never
// reach the config file.
func (s *SettingsService) LoadStored() (domain.Config, error) {
	cfg := domain.DefaultConfig()
	if s.store == nil {
		return cfg, fmt.Errorf("settings store not configured")
	}

	applyConfig(&cfg, s.store)
	return cfg, nil
}

// Save persists cfg to the store.
func (s *SettingsService) Save(cfg domain.Config) error {
	if s.store == nil {
		return fmt.Errorf("settings store not configured")
	}

	values := []struct {
		key   string
		value any
	}{
		{KeyDomain, cfg.Domain},
		{KeyToken, cfg.Token},
		{KeyProtocol, string(cfg.Protocol)},
		{KeyIgnoreSSL, cfg.IgnoreTLSVerification},
		{KeyConcurrency, cfg.Concurrency},
		{KeyAuthMethod, string(cfg.AuthMethod)},
	}
	for _, v := range values {
		if err := s.store.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}
	return nil
}

// Path returns the config file path.
func (s *SettingsService) Path() string {
	if s.store == nil {
		return ""
	}
	return s.store.Path()
}

// applyConfig copies every key present in r onto cfg. Empty strings and
// non-positive numbers are ignored.
func applyConfig(cfg *domain.Config, r driven.ConfigReader) {
	if v := r.GetString(KeyDomain); v != "" {
		cfg.Domain = v
	}
	if v := r.GetString(KeyToken); v != "" {
		cfg.Token = v
	}
	if v := r.GetString(KeyProtocol); v != "" {
		cfg.Protocol = domain.ParseProtocol(v)
	}
	if _, ok := r.Get(KeyIgnoreSSL); ok {
		cfg.IgnoreTLSVerification = r.GetBool(KeyIgnoreSSL)
	}
	if v := r.GetInt(KeyConcurrency); v > 0 {
		cfg.Concurrency = v
	}
	if v := r.GetString(KeyAuthMethod); v != "" {
		cfg.AuthMethod = domain.AuthMethod(v)
	}
	if v := r.GetInt(KeyTimeoutSeconds); v > 0 {
		cfg.RequestTimeout = time.Duration(v) * time.Second
	}
	if v := r.GetFloat(KeyRateLimit); v > 0 {
		cfg.RateLimit = v
	}
}
