// Package config holds the settings for collecting a study: where the
// report is, where the data go, and how hard to try when fetching.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/andrew-torda/bsi_collect/pkg/fetch"
	"github.com/andrew-torda/bsi_collect/pkg/report"
	"github.com/andrew-torda/bsi_collect/pkg/sample"
)

// Config is everything that can go in the YAML file.
type Config struct {
	Report      string         `yaml:"report"`
	DataRoot    string         `yaml:"data_root"`
	Workers     int            `yaml:"workers"`
	Fetch       FetchConfig    `yaml:"fetch"`
	S3          fetch.S3Config `yaml:"s3"`
	Logging     LoggingConfig  `yaml:"logging"`
	MetricsFile string         `yaml:"metrics_file"`
}

// FetchConfig controls retries. Durations are strings like "30s".
type FetchConfig struct {
	Timeout  string `yaml:"timeout"`
	Attempts int    `yaml:"attempts"`
	Backoff  string `yaml:"backoff"`
}

type LoggingConfig struct {
	Verbose bool `yaml:"verbose"`
}

// Default returns the settings used when there is no file.
func Default() *Config {
	return &Config{
		Report:   report.DefaultName,
		DataRoot: sample.DefaultRoot,
		Workers:  4,
		Fetch: FetchConfig{
			Timeout:  "10m",
			Attempts: 3,
			Backoff:  "2s",
		},
		S3: fetch.S3Config{Region: "us-east-1"},
	}
}

// Load reads fname over the defaults. A file which does not exist is
// not an error, you just get the defaults. Environment overrides are
// applied last.
func Load(fname string) (*Config, error) {
	cfg := Default()
	if fname != "" {
		data, err := os.ReadFile(fname)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, err
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing %s: %w", fname, err)
			}
		}
	}
	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

// applyEnvOverrides lets BSI_* variables win over the file.
func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv("BSI_REPORT"); v != "" {
		c.Report = v
	}
	if v := os.Getenv("BSI_DATA_ROOT"); v != "" {
		c.DataRoot = v
	}
	if v := os.Getenv("BSI_METRICS_FILE"); v != "" {
		c.MetricsFile = v
	}
	if v := os.Getenv("BSI_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("BSI_WORKERS: %w", err)
		}
		c.Workers = n
	}
	return nil
}

// Validate checks the numbers make sense and there is somewhere to
// put the data.
func (c *Config) Validate() error {
	if c.DataRoot == "" {
		return errors.New("data root must not be empty")
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, not %d", c.Workers)
	}
	if c.Fetch.Attempts < 1 {
		return fmt.Errorf("fetch attempts must be at least 1, not %d", c.Fetch.Attempts)
	}
	if _, err := c.FetchTimeout(); err != nil {
		return err
	}
	if _, err := c.FetchBackoff(); err != nil {
		return err
	}
	return nil
}

func parseDur(name, s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("fetch %s: %w", name, err)
	}
	return d, nil
}

// FetchTimeout is the limit on one attempt. Empty means no limit.
func (c *Config) FetchTimeout() (time.Duration, error) { return parseDur("timeout", c.Fetch.Timeout) }

// FetchBackoff is the first wait between attempts.
func (c *Config) FetchBackoff() (time.Duration, error) { return parseDur("backoff", c.Fetch.Backoff) }
