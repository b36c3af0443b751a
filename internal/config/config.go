package config

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds every tunable of a provisioning run. The defaults describe a
// fresh Ubuntu host running Sentinel behind ufw on port 8080; an optional
// /etc/sentinel-setup.yaml (or --config) overrides individual fields.
type Config struct {
	ServiceUser   string `mapstructure:"service_user"`
	ServicePort   int    `mapstructure:"service_port"`
	SSHPort       int    `mapstructure:"ssh_port"`
	Image         string `mapstructure:"image"`
	ImageTag      string `mapstructure:"image_tag"`
	ContainerName string `mapstructure:"container_name"`
	MemoryLimit   string `mapstructure:"memory_limit"`
	VolumeName    string `mapstructure:"volume_name"`

	// ProjectDir overrides the default /home/<service_user>/sentinel.
	ProjectDir string `mapstructure:"project_dir"`

	// BasePackages are installed during hardening before the Docker repo is added.
	BasePackages []string `mapstructure:"base_packages"`

	Health HealthConfig `mapstructure:"health"`
}

// HealthConfig holds the timings of the TCP reachability probe written into
// the compose descriptor. Values are compose duration strings.
type HealthConfig struct {
	Interval    string `mapstructure:"interval"`
	Timeout     string `mapstructure:"timeout"`
	Retries     int    `mapstructure:"retries"`
	StartPeriod string `mapstructure:"start_period"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		ServiceUser:   "sentinel",
		ServicePort:   8080,
		SSHPort:       22,
		Image:         "ghcr.io/altcha-org/sentinel",
		ImageTag:      "1.4.1",
		ContainerName: "sentinel",
		MemoryLimit:   "2g",
		VolumeName:    "sentinel-data",
		BasePackages: []string{
			"ca-certificates",
			"curl",
			"gnupg",
			"ufw",
			"fail2ban",
			"unattended-upgrades",
		},
		Health: HealthConfig{
			Interval:    "30s",
			Timeout:     "5s",
			Retries:     3,
			StartPeriod: "15s",
		},
	}
}

// Load builds the effective configuration from defaults plus whatever viper
// has read (config file and SENTINEL_SETUP_* env vars).
func Load() (*Config, error) {
	cfg := Default()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations that would produce a broken host.
func (c *Config) Validate() error {
	if c.ServiceUser == "" {
		return fmt.Errorf("service_user cannot be empty")
	}
	if c.Image == "" || c.ImageTag == "" {
		return fmt.Errorf("image and image_tag cannot be empty")
	}
	if c.ServicePort < 1 || c.ServicePort > 65535 {
		return fmt.Errorf("service_port %d out of range", c.ServicePort)
	}
	if c.SSHPort < 1 || c.SSHPort > 65535 {
		return fmt.Errorf("ssh_port %d out of range", c.SSHPort)
	}
	if c.ContainerName == "" {
		return fmt.Errorf("container_name cannot be empty")
	}
	return nil
}

// ImageRef returns the pinned image reference, e.g. ghcr.io/altcha-org/sentinel:1.4.1.
func (c *Config) ImageRef() string {
	return c.Image + ":" + c.ImageTag
}

// Dir returns the project directory, defaulting to the service user's home.
func (c *Config) Dir() string {
	if c.ProjectDir != "" {
		return c.ProjectDir
	}
	return filepath.Join("/home", c.ServiceUser, "sentinel")
}

// ServiceURL returns the URL the service is reachable at on the given host IP.
func (c *Config) ServiceURL(ip string) string {
	return fmt.Sprintf("http://%s:%d", ip, c.ServicePort)
}
