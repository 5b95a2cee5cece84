// Package shortcut writes the desktop launch artifacts: an internet shortcut
// to the web front end and a launcher script that brings the stack up.
package shortcut

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/qualuo/ai-lab/internal/config"
	"github.com/qualuo/ai-lab/internal/logging"
	"github.com/qualuo/ai-lab/internal/services"
)

const (
	urlShortcutName      = "Open WebUI.url"
	launcherNameWindows  = "Start AI Lab.cmd"
	launcherNameUnix     = "start-ai-lab.sh"
	launcherPermissions  = 0o755
	shortcutPermissions  = 0o644
	directoryPermissions = 0o755
)

// Artifact names one file written to the desktop directory.
type Artifact struct {
	Name string
	Path string
}

// Provisioner writes desktop artifacts for the active deployment mode.
type Provisioner struct {
	cfg    *config.Config
	logger *slog.Logger
	// goos is swapped in tests to exercise both launcher formats.
	goos string
}

// NewProvisioner constructs a Provisioner. A nil logger discards log output.
func NewProvisioner(cfg *config.Config, logger *slog.Logger) *Provisioner {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Provisioner{cfg: cfg, logger: logger, goos: runtime.GOOS}
}

// Provision writes the internet shortcut and the launcher script. Filesystem
// errors are fatal; there is no retry and no partial cleanup.
func (p *Provisioner) Provision() ([]Artifact, error) {
	desktop := p.cfg.Paths.DesktopDir
	if strings.TrimSpace(desktop) == "" {
		return nil, services.Wrap(services.ErrConfiguration, "shortcut", "provision", "desktop directory not configured", nil)
	}
	if err := os.MkdirAll(desktop, directoryPermissions); err != nil {
		return nil, services.Wrap(services.ErrValidation, "shortcut", "provision", "create desktop directory", err)
	}

	var artifacts []Artifact

	urlPath := filepath.Join(desktop, urlShortcutName)
	if err := os.WriteFile(urlPath, []byte(p.internetShortcut()), shortcutPermissions); err != nil {
		return nil, services.Wrap(services.ErrValidation, "shortcut", "provision", "write internet shortcut", err)
	}
	artifacts = append(artifacts, Artifact{Name: urlShortcutName, Path: urlPath})
	p.logger.Info("wrote internet shortcut",
		logging.String("path", urlPath),
		logging.String("url", p.cfg.WebUIAddress()),
	)

	launcherName := launcherNameUnix
	if p.goos == "windows" {
		launcherName = launcherNameWindows
	}
	launcherPath := filepath.Join(desktop, launcherName)
	if err := os.WriteFile(launcherPath, []byte(p.launcherScript()), launcherPermissions); err != nil {
		return nil, services.Wrap(services.ErrValidation, "shortcut", "provision", "write launcher script", err)
	}
	artifacts = append(artifacts, Artifact{Name: launcherName, Path: launcherPath})
	p.logger.Info("wrote launcher script", logging.String("path", launcherPath))

	return artifacts, nil
}

// internetShortcut renders the .url file body. The format is the Windows
// InternetShortcut ini section; other desktops open it as a plain URL file.
func (p *Provisioner) internetShortcut() string {
	return fmt.Sprintf("[InternetShortcut]\nURL=%s\n", p.cfg.WebUIAddress())
}

// launcherScript renders the script that (re)starts the model runner and the
// web front end, then opens the browser shortcut target.
func (p *Provisioner) launcherScript() string {
	if p.goos == "windows" {
		return p.windowsLauncher()
	}
	return p.unixLauncher()
}

func (p *Provisioner) windowsLauncher() string {
	var b strings.Builder
	b.WriteString("@echo off\r\n")
	b.WriteString("rem Starts the model runner and the web front end.\r\n")
	fmt.Fprintf(&b, "start \"%s\" /min %s serve\r\n", p.cfg.OllamaBinary(), p.cfg.OllamaBinary())
	if p.cfg.DeployMode() == config.ModeContainer {
		fmt.Fprintf(&b, "docker start %s\r\n", p.cfg.WebUI.ContainerName)
	} else {
		fmt.Fprintf(&b, "set \"DATA_DIR=%s\"\r\n", p.cfg.Paths.DataDir)
		fmt.Fprintf(&b, "start \"%s\" /min %s\r\n", p.cfg.WebUI.Package, p.frontEndInvocation())
	}
	fmt.Fprintf(&b, "start \"\" %s\r\n", p.cfg.WebUIAddress())
	return b.String()
}

func (p *Provisioner) unixLauncher() string {
	var b strings.Builder
	b.WriteString("#!/bin/sh\n")
	b.WriteString("# Starts the model runner and the web front end.\n")
	fmt.Fprintf(&b, "%s serve &\n", p.cfg.OllamaBinary())
	if p.cfg.DeployMode() == config.ModeContainer {
		fmt.Fprintf(&b, "docker start %s\n", p.cfg.WebUI.ContainerName)
	} else {
		fmt.Fprintf(&b, "DATA_DIR=%q %s &\n", p.cfg.Paths.DataDir, p.frontEndInvocation())
	}
	fmt.Fprintf(&b, "xdg-open %s 2>/dev/null || true\n", p.cfg.WebUIAddress())
	return b.String()
}

// frontEndInvocation is the package-manager command that serves the front end.
func (p *Provisioner) frontEndInvocation() string {
	return fmt.Sprintf("%s %s serve --port %d", p.cfg.UvxBinary(), p.cfg.WebUI.Package, p.cfg.WebUI.Port)
}
