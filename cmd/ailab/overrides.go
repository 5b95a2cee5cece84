package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/qualuo/ai-lab/internal/config"
)

// overrides holds the per-invocation flags that shadow configuration values.
type overrides struct {
	installerURL string
	models       []string
	force        bool
	retries      int
	retryDelay   int
	mode         string
}

func (o *overrides) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&o.installerURL, "installer-url", "", "Model runner installer download URL")
	flags.StringSliceVar(&o.models, "model", nil, "Model to pull (repeatable; overrides the configured list)")
	flags.BoolVar(&o.force, "force", false, "Reinstall components even when already present")
	flags.IntVar(&o.retries, "retries", 0, "Retry attempts per operation")
	flags.IntVar(&o.retryDelay, "retry-delay", 0, "Delay between retries in seconds")
	flags.StringVar(&o.mode, "mode", "", "Deployment mode (native or container)")
}

// apply folds the flags into cfg and re-validates the result.
func (o *overrides) apply(cfg *config.Config) error {
	if url := strings.TrimSpace(o.installerURL); url != "" {
		cfg.Install.InstallerURL = url
	}
	if len(o.models) > 0 {
		cfg.Models.Names = o.models
	}
	if o.force {
		cfg.Install.Force = true
	}
	if o.retries > 0 {
		cfg.Retry.Attempts = o.retries
	}
	if o.retryDelay > 0 {
		cfg.Retry.DelaySeconds = o.retryDelay
	}
	if mode := strings.TrimSpace(o.mode); mode != "" {
		cfg.Install.Mode = mode
	}
	return cfg.Validate()
}
