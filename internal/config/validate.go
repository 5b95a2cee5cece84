package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate checks configuration invariants that normalize cannot repair.
func (c *Config) Validate() error {
	var problems []string

	switch c.DeployMode() {
	case ModeNative, ModeContainer:
	default:
		problems = append(problems, fmt.Sprintf("install.mode: unsupported value %q (expected %q or %q)", c.Install.Mode, ModeNative, ModeContainer))
	}

	if err := validateURL("install.installer_url", c.Install.InstallerURL); err != nil {
		problems = append(problems, err.Error())
	}
	if err := validateURL("install.uv_install_url", c.Install.UvInstallURL); err != nil {
		problems = append(problems, err.Error())
	}
	if err := validateURL("network.probe_url", c.Network.ProbeURL); err != nil {
		problems = append(problems, err.Error())
	}

	if c.WebUI.Port == c.WebUI.ContainerPort {
		problems = append(problems, "webui: port and container_port must differ")
	}

	switch c.Logging.Format {
	case "console", "json":
	default:
		problems = append(problems, fmt.Sprintf("logging.format: unsupported value %q", c.Logging.Format))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func validateURL(field, value string) error {
	parsed, err := url.Parse(value)
	if err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%s: expected http(s) URL, got %q", field, value)
	}
	if parsed.Host == "" {
		return fmt.Errorf("%s: missing host in %q", field, value)
	}
	return nil
}
