// Package config loads and saves the tiller.json project configuration.
package config

import (
	"encoding/json"
	"net"
	"os"
	"path/filepath"
	"strconv"

	"github.com/tiller-ui/tiller/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "tiller.json"

	// DefaultPort is the default development server port.
	DefaultPort = 3000

	// DefaultHost is the default development server host.
	DefaultHost = "localhost"

	// DefaultEntry is the default application entry package.
	DefaultEntry = "./app"

	// DefaultOutput is the default build output directory.
	DefaultOutput = "dist"
)

// Config represents the complete tiller.json configuration.
type Config struct {
	// Name is the project name.
	Name string `json:"name,omitempty"`

	// Entry is the package containing the application's wasm main.
	Entry string `json:"entry,omitempty"`

	// Output is the build output directory.
	Output string `json:"output,omitempty"`

	// RootPath is the path prefix the application is served under.
	RootPath string `json:"rootPath,omitempty"`

	// Dev contains development server configuration.
	Dev DevConfig `json:"dev,omitempty"`

	// Deploy contains deployment configuration.
	Deploy DeployConfig `json:"deploy,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// DevConfig contains development server settings.
type DevConfig struct {
	// Port is the port to run the dev server on.
	Port int `json:"port,omitempty"`

	// Host is the host to bind to.
	Host string `json:"host,omitempty"`

	// Watch contains paths to watch for changes.
	Watch []string `json:"watch,omitempty"`

	// Ignore contains patterns to ignore during watch.
	Ignore []string `json:"ignore,omitempty"`
}

// DeployConfig contains S3 deployment settings.
type DeployConfig struct {
	// Bucket is the target S3 bucket.
	Bucket string `json:"bucket,omitempty"`

	// Region is the bucket's AWS region.
	Region string `json:"region,omitempty"`

	// Prefix is the key prefix uploads are written under.
	Prefix string `json:"prefix,omitempty"`
}

// New creates a config with defaults applied.
func New() *Config {
	return &Config{
		Entry:    DefaultEntry,
		Output:   DefaultOutput,
		RootPath: "/",
		Dev: DevConfig{
			Port:  DefaultPort,
			Host:  DefaultHost,
			Watch: []string{"."},
		},
	}
}

// Load reads the configuration from dir. A missing file yields the
// defaults; a malformed one is an error.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, ConfigFileName)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		cfg := New()
		cfg.configPath = path
		return cfg, nil
	}
	if err != nil {
		return nil, errors.Wrap("E101", err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap("E101", err)
	}
	cfg.applyDefaults()
	cfg.configPath = path
	return cfg, nil
}

// Save writes the configuration back to where it was loaded from, or to
// dir/tiller.json for a fresh config.
func (c *Config) Save(dir string) error {
	path := c.configPath
	if path == "" {
		path = filepath.Join(dir, ConfigFileName)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// Addr returns the dev server's listen address.
func (c *Config) Addr() string {
	host := c.Dev.Host
	if host == "" {
		host = DefaultHost
	}
	port := c.Dev.Port
	if port == 0 {
		port = DefaultPort
	}
	return net.JoinHostPort(host, strconv.Itoa(port))
}

func (c *Config) applyDefaults() {
	if c.Entry == "" {
		c.Entry = DefaultEntry
	}
	if c.Output == "" {
		c.Output = DefaultOutput
	}
	if c.RootPath == "" {
		c.RootPath = "/"
	}
	if c.Dev.Port == 0 {
		c.Dev.Port = DefaultPort
	}
	if c.Dev.Host == "" {
		c.Dev.Host = DefaultHost
	}
	if len(c.Dev.Watch) == 0 {
		c.Dev.Watch = []string{"."}
	}
}
