package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/roach88/storefront/internal/cart"
	"github.com/roach88/storefront/internal/store"
)

func TestLoad_EmptyPathIsDefault(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	require.NoError(t, cfg.Validate())
}

func TestLoad_Full(t *testing.T) {
	cfg, err := Load(filepath.Join("testdata", "full.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/storefront/store.db", cfg.Database)
	assert.Equal(t, 24, cfg.PageSize)
	assert.Equal(t, 250*time.Millisecond, cfg.SearchDebounce)
	assert.Equal(t, uint64(42), cfg.SampleSeed)
	base, _ := cfg.LocaleTag().Base()
	assert.Equal(t, "fr", base.String())
	assert.Equal(t, cart.CheckoutConfig{
		StoreName:      "Test Shop",
		Contact:        "15550001",
		CurrencySymbol: "$",
		BaseURL:        "https://example.test/send/",
	}, cfg.Checkout)

	opts := cfg.RemoteOptions()
	assert.Equal(t, store.DriverRedis, opts.Driver)
	assert.Equal(t, "redis://localhost:6379/0", opts.URI)
	assert.Equal(t, "shop", opts.Namespace)
	assert.Equal(t, time.Second, opts.Timeout)
	// Unset keys keep their defaults.
	assert.Equal(t, "storefront", opts.Collection)
}

func TestLoad_PartialKeepsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join("testdata", "partial.yaml"))
	require.NoError(t, err)

	want := Default()
	want.PageSize = 6
	assert.Equal(t, want, cfg)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		wantErr []string
	}{
		{"unknown key", "unknown.yaml", []string{"colour"}},
		{"invalid values", "invalid.yaml", []string{"page_size", "locale", "remote.driver"}},
		{"missing file", "absent.yaml", []string{"read config"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(filepath.Join("testdata", tt.file))
			require.Error(t, err)
			for _, want := range tt.wantErr {
				assert.Contains(t, err.Error(), want)
			}
		})
	}
}

func TestLoad_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestValidate_RemoteNeedsURI(t *testing.T) {
	cfg := Default()
	cfg.Remote.Driver = store.DriverMongo

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "remote.uri")
}

func TestLocaleTag_FallsBackToUnd(t *testing.T) {
	cfg := Default()
	cfg.Locale = "!!"
	assert.Equal(t, language.Und, cfg.LocaleTag())
}
