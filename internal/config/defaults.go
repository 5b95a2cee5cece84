package config

const (
	defaultDataDir             = "~/.local/share/ailab"
	defaultLogDir              = "~/.local/share/ailab/logs"
	defaultCacheDir            = "~/.cache/ailab"
	defaultMode                = string(ModeNative)
	defaultInstallerURL        = "https://ollama.com/download/OllamaSetup.exe"
	defaultWingetPackage       = "Ollama.Ollama"
	defaultUvInstallURL        = "https://astral.sh/uv/install.sh"
	defaultInstallTimeout      = 600
	defaultDownloadTimeout     = 300
	defaultRetryAttempts       = 3
	defaultRetryDelaySeconds   = 5
	defaultWebUIPackage        = "open-webui"
	defaultWebUIPort           = 8080
	defaultWebUIContainerPort  = 3000
	defaultWebUIImage          = "ghcr.io/open-webui/open-webui:main"
	defaultWebUIContainerName  = "open-webui"
	defaultProbeURL            = "https://ollama.com"
	defaultProbeTimeoutSeconds = 10
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
	defaultLogRetentionDays    = 30
)

var defaultModels = []string{"llama3.2", "gemma3"}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:  defaultDataDir,
			LogDir:   defaultLogDir,
			CacheDir: defaultCacheDir,
		},
		Install: Install{
			Mode:            defaultMode,
			InstallerURL:    defaultInstallerURL,
			WingetPackage:   defaultWingetPackage,
			UvInstallURL:    defaultUvInstallURL,
			InstallTimeout:  defaultInstallTimeout,
			DownloadTimeout: defaultDownloadTimeout,
		},
		Models: Models{
			Names: append([]string(nil), defaultModels...),
		},
		Retry: Retry{
			Attempts:     defaultRetryAttempts,
			DelaySeconds: defaultRetryDelaySeconds,
		},
		WebUI: WebUI{
			Package:       defaultWebUIPackage,
			Port:          defaultWebUIPort,
			ContainerPort: defaultWebUIContainerPort,
			Image:         defaultWebUIImage,
			ContainerName: defaultWebUIContainerName,
		},
		Network: Network{
			ProbeURL:            defaultProbeURL,
			ProbeTimeoutSeconds: defaultProbeTimeoutSeconds,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
