// Package config loads the sheetcache settings from YAML with environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const envPrefix = "SHEETCACHE_"

type Config struct {
	Sheets Sheets `yaml:"sheets"`
	Cache  Cache  `yaml:"cache"`
	Server Server `yaml:"server"`
	Log    Log    `yaml:"log"`

	// Source is the file the config was read from, empty when only defaults
	// and the environment were used.
	Source string `yaml:"-"`
}

type Sheets struct {
	SpreadsheetID   string `yaml:"spreadsheet_id"`
	Worksheet       string `yaml:"worksheet"`
	CredentialsFile string `yaml:"credentials_file"`
}

type Cache struct {
	TTL          time.Duration `yaml:"ttl"`
	FetchTimeout time.Duration `yaml:"fetch_timeout"`
}

type Server struct {
	Addr     string `yaml:"addr"`
	PageSize int    `yaml:"page_size"`
}

type Log struct {
	Level string `yaml:"level"`
}

// Default returns the settings used when nothing overrides them.
func Default() Config {
	return Config{
		Sheets: Sheets{
			Worksheet:       "Form Responses 1",
			CredentialsFile: "credentials.json",
		},
		Cache: Cache{
			TTL:          300 * time.Second,
			FetchTimeout: 30 * time.Second,
		},
		Server: Server{
			Addr:     ":8080",
			PageSize: 20,
		},
		Log: Log{Level: "info"},
	}
}

// Load reads path (if non-empty) over the defaults, then applies SHEETCACHE_*
// environment overrides and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
		cfg.Source = path
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (cfg *Config) applyEnv() error {
	strs := map[string]*string{
		"SPREADSHEET_ID":   &cfg.Sheets.SpreadsheetID,
		"WORKSHEET":        &cfg.Sheets.Worksheet,
		"CREDENTIALS_FILE": &cfg.Sheets.CredentialsFile,
		"ADDR":             &cfg.Server.Addr,
		"LOG":              &cfg.Log.Level,
	}
	for key, dst := range strs {
		if v, ok := os.LookupEnv(envPrefix + key); ok {
			*dst = v
		}
	}

	durs := map[string]*time.Duration{
		"TTL":           &cfg.Cache.TTL,
		"FETCH_TIMEOUT": &cfg.Cache.FetchTimeout,
	}
	for key, dst := range durs {
		if v, ok := os.LookupEnv(envPrefix + key); ok {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("%s%s: %w", envPrefix, key, err)
			}
			*dst = d
		}
	}

	if v, ok := os.LookupEnv(envPrefix + "PAGE_SIZE"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sPAGE_SIZE: %w", envPrefix, err)
		}
		cfg.Server.PageSize = n
	}

	return nil
}

// Validate rejects settings the cache cannot run with.
func (cfg Config) Validate() error {
	var errs []error

	if cfg.Sheets.SpreadsheetID == "" {
		errs = append(errs, errors.New("sheets.spreadsheet_id is required"))
	}
	if cfg.Sheets.Worksheet == "" {
		errs = append(errs, errors.New("sheets.worksheet is required"))
	}
	if cfg.Cache.TTL <= 0 {
		errs = append(errs, fmt.Errorf("cache.ttl must be positive, got %s", cfg.Cache.TTL))
	}
	if cfg.Cache.FetchTimeout < 0 {
		errs = append(errs, fmt.Errorf("cache.fetch_timeout must not be negative, got %s", cfg.Cache.FetchTimeout))
	}
	if cfg.Server.PageSize <= 0 {
		errs = append(errs, fmt.Errorf("server.page_size must be positive, got %d", cfg.Server.PageSize))
	}

	return errors.Join(errs...)
}
