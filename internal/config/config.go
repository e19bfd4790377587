package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DoneDirName is the subdirectory of the source directory that loaded files
// are moved into. Files already inside it are never enumerated again.
const DoneDirName = "done"

// Config holds all runtime configuration for a ckload run. It is populated
// once from flags, config file and environment, then treated as read-only
// and shared by every worker.
type Config struct {
	Dir         string
	Table       string
	Password    string
	Workers     int
	Threads     int
	TimeoutSecs int
	LoaderBin   string
	Nice        int
	LogFormat   string // "text" or "json"
	FailOnError bool

	// HTTP push mode only.
	FilePath string
	URL      string
	User     string
	CapMB    int
}

// yamlConfig is the on-disk YAML structure.
type yamlConfig struct {
	Table       string `yaml:"table"`
	Workers     int    `yaml:"workers"`
	Threads     int    `yaml:"threads"`
	TimeoutSecs int    `yaml:"timeout_secs"`
	LoaderBin   string `yaml:"loader_bin"`
}

// LoadFromFile reads a YAML config file and merges its non-empty values into
// Config. Values already set on the command line win only when the file
// leaves them out.
func (c *Config) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	if yc.Table != "" {
		c.Table = yc.Table
	}
	if yc.Workers != 0 {
		c.Workers = yc.Workers
	}
	if yc.Threads != 0 {
		c.Threads = yc.Threads
	}
	if yc.TimeoutSecs != 0 {
		c.TimeoutSecs = yc.TimeoutSecs
	}
	if yc.LoaderBin != "" {
		c.LoaderBin = yc.LoaderBin
	}
	return nil
}

// Load merges the optional YAML config file at path (when non-empty) and
// then the environment into c. Every subcommand calls this before
// validating, so --config behaves the same in all modes.
func (c *Config) Load(path string) error {
	if path != "" {
		if err := c.LoadFromFile(path); err != nil {
			return err
		}
	}
	c.ApplyEnv()
	return nil
}

// ApplyEnv fills the password from CK_PASSWORD when the flag was left empty.
// A .env file in the working directory is honored when present.
func (c *Config) ApplyEnv() {
	_ = godotenv.Load()
	if c.Password == "" {
		c.Password = os.Getenv("CK_PASSWORD")
	}
}

// Timeout returns the per-job deadline as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSecs) * time.Second
}

// DoneDir returns the destination directory for loaded files.
func (c *Config) DoneDir() string {
	return filepath.Join(c.Dir, DoneDirName)
}

// ValidateBatch checks the fields required by the batch load mode.
func (c *Config) ValidateBatch() error {
	if c.Dir == "" {
		return fmt.Errorf("--dir is required")
	}
	stat, err := os.Stat(c.Dir)
	if err != nil {
		return fmt.Errorf("source directory not accessible: %w", err)
	}
	if !stat.IsDir() {
		return fmt.Errorf("%s is not a directory", c.Dir)
	}
	if c.Table == "" {
		return fmt.Errorf("--table is required")
	}
	if c.Workers < 1 {
		return fmt.Errorf("--workers must be at least 1, got %d", c.Workers)
	}
	if c.Threads < 1 {
		return fmt.Errorf("--threads must be at least 1, got %d", c.Threads)
	}
	if c.TimeoutSecs < 1 {
		return fmt.Errorf("--timeout-secs must be at least 1, got %d", c.TimeoutSecs)
	}
	if c.LoaderBin == "" {
		return fmt.Errorf("--loader-bin must not be empty")
	}
	return nil
}

// ValidatePush checks the fields required by the HTTP push mode.
func (c *Config) ValidatePush() error {
	if c.FilePath == "" {
		return fmt.Errorf("--file is required")
	}
	if _, err := os.Stat(c.FilePath); err != nil {
		return fmt.Errorf("file not accessible: %w", err)
	}
	if c.URL == "" {
		return fmt.Errorf("--url is required")
	}
	if c.Table == "" {
		return fmt.Errorf("--table is required")
	}
	if c.CapMB < 1 {
		return fmt.Errorf("--cap must be at least 1, got %d", c.CapMB)
	}
	return nil
}
