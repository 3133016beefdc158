package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/vare7/cloud-db-inventory/internal/inventory"
)

var durationType = reflect.TypeOf(time.Duration(0))

// envField is one tagged leaf of Config.
type envField struct {
	name     string // env tag
	alt      string // envAlt tag, read when name is unset
	fallback string // default tag
	required bool
	dst      reflect.Value
}

// Load builds a Config from the environment, applies tag defaults and
// validates the result. Every unparsable variable is reported, not just the
// first.
func Load() (*Config, error) {
	cfg := &Config{}

	var errs []error
	for _, f := range envFields(reflect.ValueOf(cfg).Elem(), nil) {
		if err := f.load(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

// LoadEnvFile applies the variables of an env file over the process
// environment. A missing file is not an error; it reports whether one was read.
func LoadEnvFile(path string) (bool, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err := godotenv.Overload(path); err != nil {
		return false, fmt.Errorf("load %s: %w", path, err)
	}
	return true, nil
}

// envFields flattens the env-tagged fields of the struct v, depth first.
func envFields(v reflect.Value, out []envField) []envField {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		sf, fv := t.Field(i), v.Field(i)
		switch {
		case !sf.IsExported():
		case sf.Type.Kind() == reflect.Struct:
			out = envFields(fv, out)
		case sf.Tag.Get("env") != "":
			out = append(out, envField{
				name:     sf.Tag.Get("env"),
				alt:      sf.Tag.Get("envAlt"),
				fallback: sf.Tag.Get("default"),
				required: sf.Tag.Get("required") == "true",
				dst:      fv,
			})
		}
	}
	return out
}

// raw returns the configured text for f and whether any was found.
func (f envField) raw() (string, bool) {
	if s := os.Getenv(f.name); s != "" {
		return s, true
	}
	if f.alt != "" {
		if s := os.Getenv(f.alt); s != "" {
			return s, true
		}
	}
	return f.fallback, f.fallback != ""
}

func (f envField) load() error {
	s, ok := f.raw()
	if !ok {
		if f.required {
			return fmt.Errorf("required environment variable %s is not set", f.name)
		}
		return nil
	}
	if err := assign(f.dst, s); err != nil {
		return fmt.Errorf("invalid value for %s=%q: %w", f.name, s, err)
	}
	return nil
}

// assign parses s into dst according to dst's type.
// Lists are comma-separated with blanks dropped.
func assign(dst reflect.Value, s string) error {
	if dst.Type() == durationType {
		d, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid duration: %w", err)
		}
		dst.SetInt(int64(d))
		return nil
	}

	switch dst.Kind() {
	case reflect.String:
		dst.SetString(s)
	case reflect.Int, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(strings.TrimSpace(s), 10, dst.Type().Bits())
		if err != nil {
			return fmt.Errorf("invalid integer: %w", err)
		}
		dst.SetInt(n)
	case reflect.Bool:
		b, err := strconv.ParseBool(strings.TrimSpace(s))
		if err != nil {
			return fmt.Errorf("invalid boolean: %w", err)
		}
		dst.SetBool(b)
	case reflect.Slice:
		if dst.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported list of %s", dst.Type().Elem())
		}
		var items []string
		for _, item := range strings.Split(s, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		dst.Set(reflect.ValueOf(items))
	default:
		return fmt.Errorf("unsupported field type %s", dst.Type())
	}
	return nil
}

// problems accumulates validation failures.
type problems []string

func (p *problems) check(ok bool, format string, args ...any) {
	if !ok {
		*p = append(*p, fmt.Sprintf(format, args...))
	}
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var p problems

	db := c.Database
	p.check(db.URL != "", "DATABASE_URL is required")
	p.check(db.MaxConns >= db.MinConns, "DB_MAX_CONNS (%d) must be >= DB_MIN_CONNS (%d)", db.MaxConns, db.MinConns)
	p.check(db.MaxConns > 0, "DB_MAX_CONNS must be positive")
	p.check(db.MinConns >= 0, "DB_MIN_CONNS must be non-negative")

	srv := c.Server
	p.check(srv.Port > 0 && srv.Port <= 65535, "SERVER_PORT (%d) must be 1-65535", srv.Port)
	p.check(srv.ReadTimeout >= 0, "SERVER_READ_TIMEOUT must be non-negative")
	p.check(srv.ShutdownTimeout > 0, "SERVER_SHUTDOWN_TIMEOUT must be positive")

	imp := c.Import
	p.check(imp.MaxFileSize > 0, "IMPORT_MAX_FILE_SIZE must be positive")
	p.check(imp.MaxConcurrent > 0, "IMPORT_MAX_CONCURRENT must be positive")
	p.check(imp.BatchSize > 0, "IMPORT_BATCH_SIZE must be positive")
	p.check(imp.MaxWaitTime > 0, "IMPORT_MAX_WAIT_TIME must be positive")
	p.check(imp.Timeout > 0, "IMPORT_TIMEOUT must be positive")
	if _, err := inventory.ParseDuplicateKey(imp.DuplicateKey); err != nil {
		p.check(false, "IMPORT_DUPLICATE_KEY: %v", err)
	}

	if c.Rate.Enabled {
		p.check(c.Rate.RequestsPerMinute > 0, "RATE_LIMIT_REQUESTS_PER_MINUTE must be positive when rate limiting is enabled")
		p.check(c.Rate.ImportLimit > 0, "RATE_LIMIT_IMPORT must be positive when rate limiting is enabled")
	}

	if sc := c.Sync; sc.Enabled {
		p.check(sc.Bucket != "", "SYNC_BUCKET is required when SYNC_ENABLED is true")
		p.check(sc.AWSKey != "" || sc.AzureKey != "", "SYNC_ENABLED is true but neither SYNC_AWS_KEY nor SYNC_AZURE_KEY is set")
		p.check(sc.Interval > 0, "SYNC_INTERVAL must be positive")
	}

	p.check(!c.Security.RequireAPIKey || len(c.Security.APIKeys) > 0,
		"REQUIRE_API_KEY is true but API_KEYS is empty; configure at least one API key or disable auth")

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		p.check(false, "LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		p.check(false, "LOG_FORMAT (%q) must be one of: text, json", c.Logging.Format)
	}

	if len(p) == 0 {
		return nil
	}
	return fmt.Errorf("validation failed:\n  - %s", strings.Join(p, "\n  - "))
}

// String renders the config for logs with the database URL and API keys
// withheld.
func (c *Config) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Config{Server: {Host: %q, Port: %d}, ", c.Server.Host, c.Server.Port)
	fmt.Fprintf(&b, "Database: {URL: [MASKED], MaxConns: %d, MinConns: %d}, ", c.Database.MaxConns, c.Database.MinConns)
	fmt.Fprintf(&b, "Import: {MaxFileSize: %d, MaxConcurrent: %d, BatchSize: %d, DuplicateKey: %q}, ",
		c.Import.MaxFileSize, c.Import.MaxConcurrent, c.Import.BatchSize, c.Import.DuplicateKey)
	fmt.Fprintf(&b, "Rate: {Enabled: %v, RequestsPerMinute: %d}, ", c.Rate.Enabled, c.Rate.RequestsPerMinute)
	fmt.Fprintf(&b, "Security: {RequireAPIKey: %v, APIKeys: %d}, ", c.Security.RequireAPIKey, len(c.Security.APIKeys))
	fmt.Fprintf(&b, "Sync: {Enabled: %v, Bucket: %q, Interval: %s}, ", c.Sync.Enabled, c.Sync.Bucket, c.Sync.Interval)
	fmt.Fprintf(&b, "Logging: {Level: %q, Format: %q}}", c.Logging.Level, c.Logging.Format)
	return b.String()
}
