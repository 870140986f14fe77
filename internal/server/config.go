package server

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/rs/zerolog"
)

// Config is the server configuration.
type Config struct {
	Server   ServerSettings
	Profiles ProfileSettings
	Depth    DepthSettings
}

// ServerSettings configures the listener and logging.
type ServerSettings struct {
	Address  string `hcl:"address,optional"`
	Port     int    `hcl:"port,optional"`
	LogLevel string `hcl:"log_level,optional"`
}

// ProfileSettings configures where tables come from. ReloadInterval is a Go
// duration; "0" disables reloading.
type ProfileSettings struct {
	Dir            string `hcl:"dir,optional"`
	Default        string `hcl:"default,optional"`
	FallbackTable  string `hcl:"fallback_table,optional"`
	ReloadInterval string `hcl:"reload_interval,optional"`
}

// DepthSettings bounds the stack depths requests are clamped to.
type DepthSettings struct {
	Min float64 `hcl:"min,optional"`
	Max float64 `hcl:"max,optional"`
}

type configFile struct {
	Server   *ServerSettings  `hcl:"server,block"`
	Profiles *ProfileSettings `hcl:"profiles,block"`
	Depth    *DepthSettings   `hcl:"depth,block"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerSettings{
			Address:  "localhost",
			Port:     3000,
			LogLevel: "info",
		},
		Profiles: ProfileSettings{
			Dir:            "data/profiles",
			Default:        "gto",
			FallbackTable:  "data/ranges.json",
			ReloadInterval: "5s",
		},
		Depth: DepthSettings{Min: 5, Max: 15},
	}
}

// LoadConfig reads an HCL config file. A missing file yields the defaults.
func LoadConfig(filename string) (*Config, error) {
	if filename == "" {
		return DefaultConfig(), nil
	}
	if _, err := os.Stat(filename); errors.Is(err, fs.ErrNotExist) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var raw configFile
	diags = gohcl.DecodeBody(file.Body, nil, &raw)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	config := DefaultConfig()
	if s := raw.Server; s != nil {
		if s.Address != "" {
			config.Server.Address = s.Address
		}
		if s.Port != 0 {
			config.Server.Port = s.Port
		}
		if s.LogLevel != "" {
			config.Server.LogLevel = s.LogLevel
		}
	}
	if p := raw.Profiles; p != nil {
		if p.Dir != "" {
			config.Profiles.Dir = p.Dir
		}
		if p.Default != "" {
			config.Profiles.Default = p.Default
		}
		if p.FallbackTable != "" {
			config.Profiles.FallbackTable = p.FallbackTable
		}
		if p.ReloadInterval != "" {
			config.Profiles.ReloadInterval = p.ReloadInterval
		}
	}
	if d := raw.Depth; d != nil {
		if d.Min != 0 {
			config.Depth.Min = d.Min
		}
		if d.Max != 0 {
			config.Depth.Max = d.Max
		}
	}
	return config, nil
}

// ApplyEnv overrides the port from PUSHFOLD_PORT when set.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	v, ok := lookup("PUSHFOLD_PORT")
	if !ok || v == "" {
		return nil
	}
	port, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid PUSHFOLD_PORT %q: %w", v, err)
	}
	c.Server.Port = port
	return nil
}

// Validate checks the configuration for values the server cannot run with.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if _, err := zerolog.ParseLevel(c.Server.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q", c.Server.LogLevel)
	}
	if c.Depth.Min <= 0 || c.Depth.Max < c.Depth.Min {
		return fmt.Errorf("invalid depth range: %g..%g", c.Depth.Min, c.Depth.Max)
	}
	if _, err := c.ReloadInterval(); err != nil {
		return err
	}
	if c.Profiles.Dir == "" {
		return fmt.Errorf("profiles dir must be set")
	}
	return nil
}

// ReloadInterval returns the parsed reload interval; zero disables reloading.
func (c *Config) ReloadInterval() (time.Duration, error) {
	d, err := time.ParseDuration(c.Profiles.ReloadInterval)
	if err != nil {
		return 0, fmt.Errorf("invalid reload interval %q: %w", c.Profiles.ReloadInterval, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid reload interval %q: must not be negative", c.Profiles.ReloadInterval)
	}
	return d, nil
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}
