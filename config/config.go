package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"timecard/timecard"

	"gopkg.in/yaml.v3"
)

const (
	FileName = "config.yaml"

	DefaultDatabase    = "timecard.db"
	DefaultLogLevel    = "info"
	DefaultRestOverlap = string(timecard.OverlapIndependent)
)

// Config is stored as config.yaml inside the data directory.
type Config struct {
	// Database is the buntdb file, relative to the data directory unless absolute.
	Database string `yaml:"database"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
	// Notify enables desktop notifications on clock events. Unset means enabled.
	Notify *bool `yaml:"notify,omitempty"`
	// RestOverlap is independent or merge.
	RestOverlap string `yaml:"rest_overlap"`
	// RestPeriods are kept verbatim; malformed entries are skipped when hours are computed.
	RestPeriods []timecard.RestPeriod `yaml:"rest_periods"`
}

const template = `# timecard configuration
#
# database:     buntdb file, relative to this directory unless absolute
# log_level:    debug | info | warn | error
# notify:       desktop notification on clock in / clock out
# rest_overlap: independent (every rest period is subtracted on its own)
#               merge       (overlapping rest periods are subtracted once)
# rest_periods: recurring breaks as HH:MM; end before start runs past midnight
database: timecard.db
log_level: info
notify: true
rest_overlap: independent
rest_periods:
  - start: "12:00"
    end: "13:00"
`

func defaultConfig() Config {
	notify := true
	return Config{
		Database:    DefaultDatabase,
		LogLevel:    DefaultLogLevel,
		Notify:      &notify,
		RestOverlap: DefaultRestOverlap,
		RestPeriods: []timecard.RestPeriod{{Start: "12:00", End: "13:00"}},
	}
}

// Dir returns the data directory, creating it when missing. An empty override means ~/.timecard.
func Dir(override string) (string, error) {
	dir := override
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		dir = filepath.Join(home, ".timecard")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating data directory %s: %w", dir, err)
	}
	return dir, nil
}

// Load reads config.yaml from dir, writing the annotated defaults on first run.
func Load(dir string) (Config, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if err := os.WriteFile(path, []byte(template), 0o600); err != nil {
			return Config{}, fmt.Errorf("writing default config %s: %w", path, err)
		}
		return defaultConfig(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("reading config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	if cfg.Database == "" {
		cfg.Database = DefaultDatabase
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	if cfg.RestOverlap == "" {
		cfg.RestOverlap = DefaultRestOverlap
	}
	if _, err := cfg.Level(); err != nil {
		return Config{}, fmt.Errorf("config file %s: %w", path, err)
	}
	if _, err := cfg.OverlapPolicy(); err != nil {
		return Config{}, fmt.Errorf("config file %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config atomically. Comments of the first-run template are not preserved.
func (c Config) Save(dir string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	path := filepath.Join(dir, FileName)
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("writing temp config: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("renaming temp config: %w", err)
	}
	return nil
}

func (c Config) DatabasePath(dir string) string {
	if filepath.IsAbs(c.Database) {
		return c.Database
	}
	return filepath.Join(dir, c.Database)
}

func (c Config) NotifyEnabled() bool {
	return c.Notify == nil || *c.Notify
}

func (c Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	return l, nil
}

func (c Config) OverlapPolicy() (timecard.RestOverlapPolicy, error) {
	return timecard.ParseRestOverlapPolicy(c.RestOverlap)
}

// RestSnapshot returns a copy of the configured rest periods for one computation.
func (c Config) RestSnapshot() []timecard.RestPeriod {
	out := make([]timecard.RestPeriod, len(c.RestPeriods))
	copy(out, c.RestPeriods)
	return out
}

// RestSet builds an editable set from the valid rest periods and returns the ones it had to drop.
func (c Config) RestSet() (*timecard.RestPeriodSet, []timecard.RestPeriod) {
	set := &timecard.RestPeriodSet{}
	var invalid []timecard.RestPeriod
	for _, p := range c.RestPeriods {
		if err := set.Add(p); err != nil {
			invalid = append(invalid, p)
		}
	}
	return set, invalid
}
