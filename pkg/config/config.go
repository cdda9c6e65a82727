// Package config loads facet settings from a TOML file with environment
// overrides.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// DefaultPath is the config file read when no path is given.
const DefaultPath = "facet.toml"

// ============================================================
// Configuration
// ============================================================

type Config struct {
	Port         string `toml:"port"`
	DBPath       string `toml:"db_path"`
	OutputDir    string `toml:"output_dir"`
	EvalTimeout  int    `toml:"eval_timeout"`  // seconds
	ReadTimeout  int    `toml:"read_timeout"`  // seconds
	WriteTimeout int    `toml:"write_timeout"` // seconds
	MeshCells    int    `toml:"mesh_cells"`    // sdfx marching-cubes resolution
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Port:         "3000",
		DBPath:       "data/facet.db",
		OutputDir:    ".",
		EvalTimeout:  5,
		ReadTimeout:  10,
		WriteTimeout: 10,
		MeshCells:    200,
	}
}

// Load reads path over the defaults and then applies environment overrides.
// A missing file at DefaultPath is not an error; a missing explicit path is.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}
	f, err := os.Open(path)
	switch {
	case err == nil:
		defer f.Close()
		if err := Decode(f, cfg); err != nil {
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("config: %w", err)
	}

	cfg.applyEnv()
	return cfg, nil
}

// Decode reads TOML from r into cfg. Keys not present keep their current
// values; unknown keys are rejected.
func Decode(r io.Reader, cfg *Config) error {
	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()
	return dec.Decode(cfg)
}

// Write encodes cfg as TOML.
func (c *Config) Write(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// Timeout returns EvalTimeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.EvalTimeout) * time.Second
}

func (c *Config) applyEnv() {
	c.Port = getEnv("FACET_PORT", c.Port)
	c.DBPath = getEnv("FACET_DB", c.DBPath)
	c.OutputDir = getEnv("FACET_OUTPUT_DIR", c.OutputDir)
	c.EvalTimeout = getEnvAsInt("FACET_EVAL_TIMEOUT", c.EvalTimeout)
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}
