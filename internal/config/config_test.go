package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fetchFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	flags := pflag.NewFlagSet("fetch", pflag.ContinueOnError)
	flags.String("network", "mainnet", "")
	flags.String("api-key", "", "")
	flags.StringSlice("address", nil, "")
	flags.Int("concurrency", 4, "")
	flags.Int("batch-size", 50, "")
	require.NoError(t, flags.Parse(args))
	return flags
}

func TestLoadFetchDefaults(t *testing.T) {
	t.Setenv("ETHERSCAN_API_KEY", "")
	t.Setenv("SOURCESCOPE_API_KEY", "")

	cfg, err := LoadFetch("", fetchFlags(t))
	require.NoError(t, err)

	assert.Equal(t, "mainnet", cfg.Network)
	assert.Equal(t, "", cfg.APIKey)
	assert.Equal(t, "./data/sources.jsonl", cfg.Out)
	assert.Equal(t, "./data/checkpoint.json", cfg.Checkpoint)
	assert.True(t, cfg.CheckpointEnabled)
	assert.Equal(t, 4, cfg.Concurrency)
	assert.Equal(t, 50, cfg.BatchSize)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.Addresses)
}

func TestLoadFetchFlags(t *testing.T) {
	t.Setenv("ETHERSCAN_API_KEY", "")
	t.Setenv("SOURCESCOPE_API_KEY", "")

	cfg, err := LoadFetch("", fetchFlags(t,
		"--network", "goerli",
		"--api-key", "KEY",
		"--address", "0xa, 0xb",
		"--address", "0xc",
		"--concurrency", "8",
	))
	require.NoError(t, err)

	assert.Equal(t, "goerli", cfg.Network)
	assert.Equal(t, "KEY", cfg.APIKey)
	assert.Equal(t, []string{"0xa", "0xb", "0xc"}, cfg.Addresses)
	assert.Equal(t, 8, cfg.Concurrency)
}

func TestLoadFetchEnv(t *testing.T) {
	t.Setenv("SOURCESCOPE_API_KEY", "")
	t.Setenv("ETHERSCAN_API_KEY", "FALLBACK")
	t.Setenv("SOURCESCOPE_BATCH_SIZE", "7")
	t.Setenv("SOURCESCOPE_PG_DSN", "postgres://localhost/sources")

	cfg, err := LoadFetch("", nil)
	require.NoError(t, err)

	assert.Equal(t, "FALLBACK", cfg.APIKey)
	assert.Equal(t, 7, cfg.BatchSize)
	assert.Equal(t, "postgres://localhost/sources", cfg.PGDSN)
}

func TestLoadFetchPrefixedKeyWins(t *testing.T) {
	t.Setenv("SOURCESCOPE_API_KEY", "PRIMARY")
	t.Setenv("ETHERSCAN_API_KEY", "FALLBACK")

	cfg, err := LoadFetch("", nil)
	require.NoError(t, err)
	assert.Equal(t, "PRIMARY", cfg.APIKey)
}

func TestLoadFetchConfigFile(t *testing.T) {
	t.Setenv("ETHERSCAN_API_KEY", "")
	t.Setenv("SOURCESCOPE_API_KEY", "")

	path := filepath.Join(t.TempDir(), "sourcescope.yaml")
	content := []byte(`network: kovan
address:
  - "0x1111111111111111111111111111111111111111"
  - "0x2222222222222222222222222222222222222222"
checkpoint-enabled: false
`)
	require.NoError(t, os.WriteFile(path, content, 0o644))

	cfg, err := LoadFetch(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "kovan", cfg.Network)
	assert.Len(t, cfg.Addresses, 2)
	assert.False(t, cfg.CheckpointEnabled)
}

func TestLoadFetchMissingConfigFile(t *testing.T) {
	_, err := LoadFetch(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.Error(t, err)
}

func TestLoadServe(t *testing.T) {
	t.Setenv("ETHERSCAN_API_KEY", "")
	t.Setenv("SOURCESCOPE_API_KEY", "")

	flags := pflag.NewFlagSet("serve", pflag.ContinueOnError)
	flags.String("listen", ":8080", "")
	flags.String("explorer-domain", "", "")
	require.NoError(t, flags.Parse([]string{"--listen", "127.0.0.1:9000", "--explorer-domain", "bscscan.com"}))

	cfg, err := LoadServe("", flags)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Listen)
	assert.Equal(t, "mainnet", cfg.Network)
	assert.Equal(t, "bscscan.com", cfg.ExplorerDomain)
	assert.Equal(t, "info", cfg.LogLevel)
}
