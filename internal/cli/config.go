package cli

import (
	"errors"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	apperr "github.com/martialmarel/linkrank/pkg/errors"
	"github.com/martialmarel/linkrank/pkg/pipeline"
	"github.com/martialmarel/linkrank/pkg/rank"
	"github.com/martialmarel/linkrank/pkg/server"
)

// envPrefix prefixes every environment variable the CLI reads.
const envPrefix = "LINKRANK_"

// Output formats of the rank and centrality commands.
const (
	outputTable = "table"
	outputJSON  = "json"
	outputCSV   = "csv"
)

// Config holds every setting that can come from the config file or the
// environment. Command-line flags override it per invocation.
//
// Example config.toml:
//
//	damping = 0.85
//	iterations = 100
//	workers = 4
//	dangling = "drop"
//	format = "table"
//	cache_ttl = "24h"
//	redis_url = "redis://localhost:6379/0"
//	addr = ":8080"
type Config struct {
	Damping    float64 `toml:"damping"`
	Iterations int     `toml:"iterations"`
	Workers    int     `toml:"workers"`
	Dangling   string  `toml:"dangling"`
	Tolerance  float64 `toml:"tolerance"`
	Top        int     `toml:"top"`
	Format     string  `toml:"format"`
	CacheDir   string  `toml:"cache_dir"`
	CacheTTL   string  `toml:"cache_ttl"`
	RedisURL   string  `toml:"redis_url"`
	Addr       string  `toml:"addr"`
}

// defaultConfig returns the built-in settings.
func defaultConfig() Config {
	d := rank.DefaultOptions()
	return Config{
		Damping:    d.Damping,
		Iterations: d.Iterations,
		Workers:    d.Workers,
		Dangling:   d.Dangling.String(),
		Format:     outputTable,
		CacheTTL:   pipeline.DefaultTTL.String(),
		Addr:       server.DefaultAddr,
	}
}

// loadConfigFile decodes path over the defaults. A missing file is only an
// error when the user named it explicitly.
func loadConfigFile(path string, explicit bool) (Config, error) {
	cfg := defaultConfig()
	md, err := toml.DecodeFile(path, &cfg)
	if errors.Is(err, fs.ErrNotExist) && !explicit {
		return defaultConfig(), nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return Config{}, apperr.Wrap(apperr.ErrCodeFileNotFound, err, "config file %s", path)
	}
	if err != nil {
		return Config{}, apperr.Wrap(apperr.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, apperr.New(apperr.ErrCodeInvalidConfig,
			"%s: unknown key %q", path, undecoded[0].String())
	}
	return cfg, nil
}

// applyEnv overrides cfg with LINKRANK_* variables read through getenv.
func applyEnv(cfg *Config, getenv func(string) string) error {
	lookup := func(name string) (string, bool) {
		v := strings.TrimSpace(getenv(envPrefix + name))
		return v, v != ""
	}

	if v, ok := lookup("DAMPING"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return envError("DAMPING", err)
		}
		cfg.Damping = f
	}
	for name, dst := range map[string]*int{
		"ITERATIONS": &cfg.Iterations,
		"WORKERS":    &cfg.Workers,
		"TOP":        &cfg.Top,
	} {
		if v, ok := lookup(name); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				return envError(name, err)
			}
			*dst = n
		}
	}
	if v, ok := lookup("TOLERANCE"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return envError("TOLERANCE", err)
		}
		cfg.Tolerance = f
	}
	for name, dst := range map[string]*string{
		"DANGLING":  &cfg.Dangling,
		"FORMAT":    &cfg.Format,
		"CACHE_DIR": &cfg.CacheDir,
		"CACHE_TTL": &cfg.CacheTTL,
		"REDIS_URL": &cfg.RedisURL,
		"ADDR":      &cfg.Addr,
	} {
		if v, ok := lookup(name); ok {
			*dst = v
		}
	}
	return nil
}

func envError(name string, err error) error {
	return apperr.Wrap(apperr.ErrCodeInvalidConfig, err, "%s%s", envPrefix, name)
}

// rankOptions converts the rank settings and validates them.
func (c Config) rankOptions() (rank.Options, error) {
	d, err := rank.ParseDangling(c.Dangling)
	if err != nil {
		return rank.Options{}, err
	}
	opts := rank.Options{
		Damping:    c.Damping,
		Iterations: c.Iterations,
		Workers:    c.Workers,
		Dangling:   d,
		Tolerance:  c.Tolerance,
	}
	return opts, opts.Validate()
}

// ttl parses CacheTTL. An empty value means the pipeline default.
func (c Config) ttl() (time.Duration, error) {
	if c.CacheTTL == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.CacheTTL)
	if err != nil || d < 0 {
		return 0, apperr.New(apperr.ErrCodeInvalidConfig, "cache_ttl %q", c.CacheTTL)
	}
	return d, nil
}

// validateOutput checks an output format name.
func validateOutput(format string) error {
	switch format {
	case outputTable, outputJSON, outputCSV:
		return nil
	}
	return apperr.New(apperr.ErrCodeInvalidConfig,
		"invalid format: %q (must be one of: table, json, csv)", format)
}
