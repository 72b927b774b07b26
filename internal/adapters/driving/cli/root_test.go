package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "gitlab-search <search-term>", rootCmd.Use)
	assert.Equal(t, "Search for contents across all your GitLab repositories", rootCmd.Short)
}

func TestRootCmd_RequiresExactlyOneArg(t *testing.T) {
	h := setupTestServices(t, validSettings())

	_, _, err := execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s), received 0")

	_, _, err = execute("TODO", "FIXME")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s), received 2")
	assert.Zero(t, h.factoryCalls)
}

func TestRootCmd_Flags(t *testing.T) {
	tests := []struct {
		name      string
		shorthand string
		defValue  string
	}{
		{"groups", "g", ""},
		{"filename", "f", ""},
		{"extension", "e", ""},
		{"path", "p", ""},
		{"archive", "a", "exclude"},
		{"token", "t", ""},
		{"domain", "d", ""},
		{"ignore-ssl", "", "false"},
		{"concurrency", "c", "10"},
		{"protocol", "", "https"},
		{"json", "", "false"},
		{"timeout", "", "30s"},
		{"rate-limit", "", "0"},
		{"metrics-file", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag := rootCmd.Flags().Lookup(tt.name)
			require.NotNil(t, flag, "flag %s should exist", tt.name)
			assert.Equal(t, tt.shorthand, flag.Shorthand)
			assert.Equal(t, tt.defValue, flag.DefValue)
		})
	}
}

func TestRootCmd_ArchiveBareFlagMeansOnly(t *testing.T) {
	flag := rootCmd.Flags().Lookup("archive")
	require.NotNil(t, flag)
	assert.Equal(t, "only", flag.NoOptDefVal)
}

func TestRootCmd_PersistentFlags(t *testing.T) {
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("config-dir"))
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("verbose"))
}

func TestRootCmd_Subcommands(t *testing.T) {
	names := make([]string, 0)
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Contains(t, names, "setup")
	assert.Contains(t, names, "version")
}

func TestDefaultSettingsService_UsesConfigDir(t *testing.T) {
	dir := t.TempDir()

	settings, err := defaultSettingsService(dir)

	require.NoError(t, err)
	assert.Contains(t, settings.Path(), dir)
}

func TestDefaultSearchService_ValidatesConfig(t *testing.T) {
	svc, err := defaultSearchService(validConfigWithoutToken(), nil, nil, nil)

	assert.Error(t, err)
	assert.Nil(t, svc)
}
