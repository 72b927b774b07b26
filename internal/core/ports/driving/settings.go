package driving

import "github.com/custodia-labs/gitlab-search/internal/core/domain"

// SettingsService manages persisted connection settings.
type SettingsService interface {
	// Load returns the effective configuration: defaults, then the
	// config file, then environment overrides.
	Load() (domain.Config, error)

	// LoadStored returns defaults overlaid with the config file only.
	// This is the base for edits that are written back with Save.
	LoadStored() (domain.Config, error)

	// Save persists cfg to the config file.
	Save(cfg domain.Config) error

	// Path returns the config file path.
	Path() string
}
