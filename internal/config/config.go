package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Mode selects the web front end deployment strategy.
type Mode string

const (
	// ModeNative installs Ollama via its installer and runs Open WebUI
	// through the uv execution shim.
	ModeNative Mode = "native"
	// ModeContainer runs Open WebUI as a Docker container instead.
	ModeContainer Mode = "container"
)

// Paths contains directory configuration.
type Paths struct {
	DataDir    string `toml:"data_dir"`
	LogDir     string `toml:"log_dir"`
	CacheDir   string `toml:"cache_dir"`
	DesktopDir string `toml:"desktop_dir"`
}

// Install contains installer sources and behavior.
type Install struct {
	Mode            string `toml:"mode"`
	InstallerURL    string `toml:"installer_url"`
	Force           bool   `toml:"force"`
	WingetPackage   string `toml:"winget_package"`
	UvInstallURL    string `toml:"uv_install_url"`
	InstallTimeout  int    `toml:"install_timeout"`
	DownloadTimeout int    `toml:"download_timeout"`
}

// Models contains the ordered model pull list.
type Models struct {
	Names []string `toml:"names"`
}

// Retry contains the bounded-retry tuning shared by every external call.
type Retry struct {
	Attempts     int `toml:"attempts"`
	DelaySeconds int `toml:"delay_seconds"`
}

// WebUI contains front end serving configuration.
type WebUI struct {
	Package       string `toml:"package"`
	Port          int    `toml:"port"`
	ContainerPort int    `toml:"container_port"`
	Image         string `toml:"image"`
	ContainerName string `toml:"container_name"`
}

// Network contains the outbound reachability probe settings.
type Network struct {
	ProbeURL            string `toml:"probe_url"`
	ProbeTimeoutSeconds int    `toml:"probe_timeout_seconds"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format        string `toml:"format"`
	Level         string `toml:"level"`
	RetentionDays int    `toml:"retention_days"`
}

// Config encapsulates all configuration values for the provisioner.
//
// Sections by subsystem:
//   - Paths: data, cache, log, and desktop directories
//   - Install: installer sources, deployment mode, force-reinstall
//   - Models: ordered pull list
//   - Retry: attempt limit and fixed delay for every external call
//   - WebUI: front end package/image and serving ports
//   - Network: reachability probe target
//   - Logging: log format, level, and retention
type Config struct {
	Paths   Paths   `toml:"paths"`
	Install Install `toml:"install"`
	Models  Models  `toml:"models"`
	Retry   Retry   `toml:"retry"`
	WebUI   WebUI   `toml:"webui"`
	Network Network `toml:"network"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/ailab/config.toml")
}

// Load locates, parses, and validates a configuration file. Environment
// overrides (optionally sourced from an ailab.env file next to the config)
// are applied after the file and before validation. The returned config has
// all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	loadEnvFile(resolvedPath)
	cfg.applyEnvOverrides()

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

// loadEnvFile sources AILAB_* variables from an optional env file beside the
// config. Existing process environment wins; a missing file is not an error.
func loadEnvFile(configPath string) {
	if configPath == "" {
		return
	}
	envPath := filepath.Join(filepath.Dir(configPath), "ailab.env")
	if _, err := os.Stat(envPath); err != nil {
		return
	}
	_ = godotenv.Load(envPath)
}

func (c *Config) applyEnvOverrides() {
	if v := strings.TrimSpace(os.Getenv("AILAB_INSTALLER_URL")); v != "" {
		c.Install.InstallerURL = v
	}
	if v := strings.TrimSpace(os.Getenv("AILAB_MODE")); v != "" {
		c.Install.Mode = v
	}
	if v := strings.TrimSpace(os.Getenv("AILAB_MODELS")); v != "" {
		var names []string
		for _, name := range strings.Split(v, ",") {
			if name = strings.TrimSpace(name); name != "" {
				names = append(names, name)
			}
		}
		if len(names) > 0 {
			c.Models.Names = names
		}
	}
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("ailab.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories the provisioner writes into.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir, c.Paths.CacheDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// DeployMode returns the canonical deployment mode.
func (c *Config) DeployMode() Mode {
	return Mode(strings.ToLower(strings.TrimSpace(c.Install.Mode)))
}

// RetryDelay returns the fixed inter-attempt delay as a duration.
func (c *Config) RetryDelay() time.Duration {
	return time.Duration(c.Retry.DelaySeconds) * time.Second
}

// ProbeTimeout returns the network reachability probe timeout.
func (c *Config) ProbeTimeout() time.Duration {
	return time.Duration(c.Network.ProbeTimeoutSeconds) * time.Second
}

// WebUIPort returns the front end port for the active deployment mode.
func (c *Config) WebUIPort() int {
	if c.DeployMode() == ModeContainer {
		return c.WebUI.ContainerPort
	}
	return c.WebUI.Port
}

// WebUIAddress returns the local URL the front end serves on.
func (c *Config) WebUIAddress() string {
	return fmt.Sprintf("http://localhost:%d", c.WebUIPort())
}

// OllamaBinary returns the model runner executable name.
func (c *Config) OllamaBinary() string {
	return "ollama"
}

// UvBinary returns the package manager executable name.
func (c *Config) UvBinary() string {
	return "uv"
}

// UvxBinary returns the package manager's execution shim name.
func (c *Config) UvxBinary() string {
	return "uvx"
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
