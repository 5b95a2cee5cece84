package config

import (
	"os"
	"path/filepath"
	"strings"
)

// normalize expands paths, trims strings, and fills defaulted fields so the
// rest of the program never re-checks them.
func (c *Config) normalize() error {
	var err error
	if c.Paths.DataDir, err = expandPath(orDefault(c.Paths.DataDir, defaultDataDir)); err != nil {
		return err
	}
	if c.Paths.LogDir, err = expandPath(orDefault(c.Paths.LogDir, defaultLogDir)); err != nil {
		return err
	}
	if c.Paths.CacheDir, err = expandPath(orDefault(c.Paths.CacheDir, defaultCacheDir)); err != nil {
		return err
	}
	if strings.TrimSpace(c.Paths.DesktopDir) == "" {
		c.Paths.DesktopDir = defaultDesktopDir()
	} else if c.Paths.DesktopDir, err = expandPath(c.Paths.DesktopDir); err != nil {
		return err
	}

	c.Install.Mode = strings.ToLower(strings.TrimSpace(orDefault(c.Install.Mode, defaultMode)))
	c.Install.InstallerURL = strings.TrimSpace(orDefault(c.Install.InstallerURL, defaultInstallerURL))
	c.Install.WingetPackage = strings.TrimSpace(c.Install.WingetPackage)
	c.Install.UvInstallURL = strings.TrimSpace(orDefault(c.Install.UvInstallURL, defaultUvInstallURL))
	if c.Install.InstallTimeout <= 0 {
		c.Install.InstallTimeout = defaultInstallTimeout
	}
	if c.Install.DownloadTimeout <= 0 {
		c.Install.DownloadTimeout = defaultDownloadTimeout
	}

	names := make([]string, 0, len(c.Models.Names))
	for _, name := range c.Models.Names {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	c.Models.Names = names

	if c.Retry.Attempts <= 0 {
		c.Retry.Attempts = defaultRetryAttempts
	}
	if c.Retry.DelaySeconds <= 0 {
		c.Retry.DelaySeconds = defaultRetryDelaySeconds
	}

	c.WebUI.Package = strings.TrimSpace(orDefault(c.WebUI.Package, defaultWebUIPackage))
	if c.WebUI.Port <= 0 {
		c.WebUI.Port = defaultWebUIPort
	}
	if c.WebUI.ContainerPort <= 0 {
		c.WebUI.ContainerPort = defaultWebUIContainerPort
	}
	c.WebUI.Image = strings.TrimSpace(orDefault(c.WebUI.Image, defaultWebUIImage))
	c.WebUI.ContainerName = strings.TrimSpace(orDefault(c.WebUI.ContainerName, defaultWebUIContainerName))

	c.Network.ProbeURL = strings.TrimSpace(orDefault(c.Network.ProbeURL, defaultProbeURL))
	if c.Network.ProbeTimeoutSeconds <= 0 {
		c.Network.ProbeTimeoutSeconds = defaultProbeTimeoutSeconds
	}

	c.Logging.Format = strings.ToLower(strings.TrimSpace(orDefault(c.Logging.Format, defaultLogFormat)))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(orDefault(c.Logging.Level, defaultLogLevel)))
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = defaultLogRetentionDays
	}

	return nil
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

func defaultDesktopDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "Desktop"
	}
	return filepath.Join(home, "Desktop")
}
