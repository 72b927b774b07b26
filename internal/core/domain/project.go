package domain

import (
	"fmt"
	"strings"
)

// Project is a single repository with searchable file contents.
type Project struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	WebURL   string `json:"web_url"`
	Archived bool   `json:"archived"`
}

// ArchiveMode selects which projects survive enumeration.
type ArchiveMode string

const (
	// ArchiveAll imposes no filter.
	ArchiveAll ArchiveMode = "all"

	// ArchiveOnly keeps archived projects only.
	ArchiveOnly ArchiveMode = "only"

	// ArchiveExclude keeps non-archived projects only.
	ArchiveExclude ArchiveMode = "exclude"
)

// AllArchiveModes returns the supported archive modes.
func AllArchiveModes() []ArchiveMode {
	return []ArchiveMode{ArchiveAll, ArchiveOnly, ArchiveExclude}
}

// ParseArchiveMode parses an archive mode name. The legacy boolean
// values are accepted too: "true" selects only archived projects and
// "false" excludes them.
func ParseArchiveMode(s string) (ArchiveMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "all":
		return ArchiveAll, nil
	case "only", "true":
		return ArchiveOnly, nil
	case "exclude", "false":
		return ArchiveExclude, nil
	default:
		return "", fmt.Errorf("%w: archive mode %q (want all, only or exclude)", ErrUnsupportedType, s)
	}
}

// IsValid reports whether m is one of the known modes.
func (m ArchiveMode) IsValid() bool {
	switch m {
	case ArchiveAll, ArchiveOnly, ArchiveExclude:
		return true
	}
	return false
}

// ArchivedParam returns the value of the "archived" listing parameter,
// or nil when the parameter must be omitted.
func (m ArchiveMode) ArchivedParam() *bool {
	switch m {
	case ArchiveOnly:
		v := true
		return &v
	case ArchiveExclude:
		v := false
		return &v
	default:
		return nil
	}
}

// Allows reports whether p passes the archive filter.
func (m ArchiveMode) Allows(p Project) bool {
	switch m {
	case ArchiveOnly:
		return p.Archived
	case ArchiveExclude:
		return !p.Archived
	default:
		return true
	}
}
