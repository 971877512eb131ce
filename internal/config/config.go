// Package config loads storefront settings from a YAML file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/roach88/storefront/internal/cart"
	"github.com/roach88/storefront/internal/catalog"
	"github.com/roach88/storefront/internal/session"
	"github.com/roach88/storefront/internal/store"
)

// DefaultDatabase is the local store path used when none is configured.
const DefaultDatabase = "storefront.db"

// Config is the full storefront configuration.
type Config struct {
	Database       string              `yaml:"database"`
	Locale         string              `yaml:"locale"`
	PageSize       int                 `yaml:"page_size"`
	SearchDebounce time.Duration       `yaml:"search_debounce"`
	SampleSeed     uint64              `yaml:"sample_seed"`
	Remote         Remote              `yaml:"remote"`
	Checkout       cart.CheckoutConfig `yaml:"checkout"`
}

// Remote selects the optional remote product store.
type Remote struct {
	Driver     string        `yaml:"driver"`
	URI        string        `yaml:"uri"`
	Database   string        `yaml:"database"`
	Collection string        `yaml:"collection"`
	Namespace  string        `yaml:"namespace"`
	Timeout    time.Duration `yaml:"timeout"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Database:       DefaultDatabase,
		Locale:         "en-GB",
		PageSize:       catalog.DefaultPageSize,
		SearchDebounce: session.DefaultSearchDebounce,
		SampleSeed:     1,
		Remote: Remote{
			Driver:     store.DriverNone,
			Database:   "skye",
			Collection: "storefront",
			Namespace:  "skye",
			Timeout:    2 * time.Second,
		},
		Checkout: cart.DefaultCheckoutConfig(),
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
// Unknown keys are an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges and enums.
func (c Config) Validate() error {
	var errs []error
	if c.Database == "" {
		errs = append(errs, errors.New("database must be set"))
	}
	if c.PageSize < 1 {
		errs = append(errs, fmt.Errorf("page_size must be positive, got %d", c.PageSize))
	}
	if c.SearchDebounce < 0 {
		errs = append(errs, fmt.Errorf("search_debounce must not be negative, got %s", c.SearchDebounce))
	}
	if _, err := language.Parse(c.Locale); err != nil {
		errs = append(errs, fmt.Errorf("locale %q: %w", c.Locale, err))
	}
	switch c.Remote.Driver {
	case "", store.DriverNone, store.DriverMongo, store.DriverRedis:
	default:
		errs = append(errs, fmt.Errorf("remote.driver %q: want mongo, redis or none", c.Remote.Driver))
	}
	if c.Remote.Driver == store.DriverMongo || c.Remote.Driver == store.DriverRedis {
		if c.Remote.URI == "" {
			errs = append(errs, errors.New("remote.uri must be set when remote.driver is set"))
		}
	}
	if c.Checkout.Contact == "" {
		errs = append(errs, errors.New("checkout.contact must be set"))
	}
	return errors.Join(errs...)
}

// LocaleTag returns the parsed locale, or language.Und when it does not
// parse.
func (c Config) LocaleTag() language.Tag {
	tag, err := language.Parse(c.Locale)
	if err != nil {
		return language.Und
	}
	return tag
}

// RemoteOptions converts the remote section for store.DialRemote.
func (c Config) RemoteOptions() store.RemoteOptions {
	return store.RemoteOptions{
		Driver:     c.Remote.Driver,
		URI:        c.Remote.URI,
		Database:   c.Remote.Database,
		Collection: c.Remote.Collection,
		Namespace:  c.Remote.Namespace,
		Timeout:    c.Remote.Timeout,
	}
}
