// Package env reads configuration overrides from GITLAB_SEARCH_*
// environment variables.
//
// GITLAB_SEARCH_TOKEN maps to the "token" key, GITLAB_SEARCH_IGNORE_SSL to
// "ignore_ssl", and so on. Values are parsed on access, so
// GITLAB_SEARCH_CONCURRENCY=20 reads as the integer 20.
package env

import (
	"fmt"
	"strings"

	envprovider "github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"

	"github.com/custodia-labs/gitlab-search/internal/core/ports/driven"
)

// Prefix is the environment variable prefix.
const Prefix = "GITLAB_SEARCH_"

// Ensure Reader implements the interface.
var _ driven.ConfigReader = (*Reader)(nil)

// Reader is a read-only driven.ConfigReader over the environment,
// captured when Load is called.
type Reader struct {
	k *koanf.Koanf
}

// Load snapshots the GITLAB_SEARCH_* variables of the current process.
func Load() (*Reader, error) {
	k := koanf.New(".")
	if err := k.Load(envprovider.Provider(Prefix, ".", keyFromEnv), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}
	return &Reader{k: k}, nil
}

// keyFromEnv turns GITLAB_SEARCH_IGNORE_SSL into ignore_ssl.
func keyFromEnv(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, Prefix))
}

// Get returns the raw string value of key.
func (r *Reader) Get(key string) (any, bool) {
	if !r.k.Exists(key) {
		return nil, false
	}
	return r.k.Get(key), true
}

// GetString returns the value of key, or "" if unset.
func (r *Reader) GetString(key string) string {
	return r.k.String(key)
}

// GetInt returns key parsed as an integer, or 0.
func (r *Reader) GetInt(key string) int {
	return r.k.Int(key)
}

// GetBool returns key parsed with strconv.ParseBool, or false.
func (r *Reader) GetBool(key string) bool {
	return r.k.Bool(key)
}

// GetFloat returns key parsed as a float, or 0.
func (r *Reader) GetFloat(key string) float64 {
	return r.k.Float64(key)
}

// Keys returns the configuration keys present in the environment.
func (r *Reader) Keys() []string {
	return r.k.Keys()
}
