// Package config defines the hubctl configuration model and loading logic.
//
// Configuration is optional: every field has a default that matches the
// conventions of a stock k3s install, so `hubctl up` works on a bare host
// with no config file at all.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Default file locations following k3s conventions.
const (
	DefaultInstallerURL     = "https://get.k3s.io"
	DefaultSourceKubeconfig = "/etc/rancher/k3s/k3s.yaml"
	DefaultHostsFile        = "/etc/hosts"
	DefaultKubectlShimPath  = "/usr/local/bin/kubectl"
	DefaultUninstallScript  = "/usr/local/bin/k3s-uninstall.sh"
	DefaultManifestPath     = "bootstrap.yaml"
	DefaultConfigFile       = "hubctl.yaml"
)

// Config holds the application configuration.
type Config struct {
	// InstallerURL is the k3s install script location.
	InstallerURL string `yaml:"installer_url"`

	// SourceKubeconfig is where the distribution writes its admin credentials.
	SourceKubeconfig string `yaml:"source_kubeconfig"`

	// HostsFile is the static name-resolution file to maintain.
	HostsFile string `yaml:"hosts_file"`

	// Manifest is an optional bootstrap manifest (NodePort service etc.)
	// applied after the cluster is ready. A missing file is not an error.
	Manifest string `yaml:"manifest"`

	// KubectlShim is where the kubectl shim is written when kubectl is absent.
	KubectlShim string `yaml:"kubectl_shim"`

	Readiness ReadinessConfig `yaml:"readiness"`
	Rancher   RancherConfig   `yaml:"rancher"`
}

// ReadinessConfig bounds the node readiness poll loop.
type ReadinessConfig struct {
	IntervalSeconds int `yaml:"interval_seconds"`
	Attempts        int `yaml:"attempts"`
}

// RancherConfig configures the Rancher deployment installed after bootstrap.
type RancherConfig struct {
	Enabled           bool   `yaml:"enabled"`
	Version           string `yaml:"version"`
	RepoURL           string `yaml:"repo_url"`
	BootstrapPassword string `yaml:"bootstrap_password"`
	HTTPSNodePort     int    `yaml:"https_node_port"`
}

// Default returns a configuration populated with all default values.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	cfg.Rancher.Enabled = true
	return cfg
}

// LoadFile reads and parses the configuration from a YAML file.
// Unset fields fall back to their defaults.
func LoadFile(path string) (*Config, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var rawConfig map[string]interface{}
	if err := yaml.Unmarshal(data, &rawConfig); err != nil {
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	cfg.applyDefaults()

	// Default Rancher to enabled unless the config explicitly disabled it.
	if !cfg.Rancher.Enabled {
		cfg.Rancher.Enabled = shouldEnableRancherByDefault(rawConfig)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// Load returns the configuration from path, or from DefaultConfigFile when it
// exists in the working directory, or the built-in defaults otherwise.
func Load(path string) (*Config, error) {
	if path != "" {
		return LoadFile(path)
	}
	if _, err := os.Stat(DefaultConfigFile); err == nil {
		return LoadFile(DefaultConfigFile)
	}
	return Default(), nil
}

// shouldEnableRancherByDefault determines if Rancher should be enabled when
// not explicitly configured. Returns false only when rancher.enabled was
// explicitly set to false in the raw config.
func shouldEnableRancherByDefault(rawConfig map[string]interface{}) bool {
	rancherMap, ok := rawConfig["rancher"].(map[string]interface{})
	if !ok {
		return true
	}
	_, explicitlySet := rancherMap["enabled"]
	return !explicitlySet
}

func (c *Config) applyDefaults() {
	if c.InstallerURL == "" {
		c.InstallerURL = DefaultInstallerURL
	}
	if c.SourceKubeconfig == "" {
		c.SourceKubeconfig = DefaultSourceKubeconfig
	}
	if c.HostsFile == "" {
		c.HostsFile = DefaultHostsFile
	}
	if c.Manifest == "" {
		c.Manifest = DefaultManifestPath
	}
	if c.KubectlShim == "" {
		c.KubectlShim = DefaultKubectlShimPath
	}
	if c.Readiness.IntervalSeconds == 0 {
		c.Readiness.IntervalSeconds = 5
	}
	if c.Readiness.Attempts == 0 {
		c.Readiness.Attempts = 24
	}
	if c.Rancher.RepoURL == "" {
		c.Rancher.RepoURL = "https://releases.rancher.com/server-charts/stable"
	}
	if c.Rancher.BootstrapPassword == "" {
		c.Rancher.BootstrapPassword = "admin123"
	}
	if c.Rancher.HTTPSNodePort == 0 {
		c.Rancher.HTTPSNodePort = 30444
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Readiness.IntervalSeconds < 1 {
		return fmt.Errorf("readiness.interval_seconds must be at least 1, got %d", c.Readiness.IntervalSeconds)
	}
	if c.Readiness.Attempts < 1 {
		return fmt.Errorf("readiness.attempts must be at least 1, got %d", c.Readiness.Attempts)
	}
	if c.Rancher.HTTPSNodePort < 1 || c.Rancher.HTTPSNodePort > 65535 {
		return fmt.Errorf("rancher.https_node_port must be a valid port, got %d", c.Rancher.HTTPSNodePort)
	}
	return nil
}
