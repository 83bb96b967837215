package config

const (
	defaultDataDir                = "~/.local/share/xpvcc"
	defaultLogDir                 = "~/.local/share/xpvcc/logs"
	defaultAPIBind                = "127.0.0.1:51901"
	defaultDownloadBaseURL        = "https://download.unity3d.com/download_unity"
	defaultDownloadUserAgent      = "XPVCC/0.1.0 (contact: GitHub.com/KisaragiEffective)"
	defaultDownloadTimeoutSeconds = 1800
	defaultHubEnabled             = true
	defaultLogFormat              = "console"
	defaultLogLevel               = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
			APIBind: defaultAPIBind,
		},
		Download: Download{
			BaseURL:        defaultDownloadBaseURL,
			UserAgent:      defaultDownloadUserAgent,
			TimeoutSeconds: defaultDownloadTimeoutSeconds,
		},
		Hub: Hub{
			Enabled: defaultHubEnabled,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
