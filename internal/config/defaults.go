package config

const (
	defaultConfigPath           = "~/.config/edgectl/config.toml"
	defaultGatewayURL           = "http://127.0.0.1:8080"
	defaultRequestTimeout       = 30
	minRequestTimeout           = 30
	defaultLoginPath            = "/login"
	defaultLanguage             = "zh-CN"
	defaultHexPreviewBytes      = 256
	defaultDownloadDir          = "~/Downloads"
	defaultNotifyRequestTimeout = 10
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
	sessionFileName             = "session.json"
	envGatewayURL               = "EDGECTL_GATEWAY_URL"
	envNtfyTopic                = "EDGECTL_NTFY_TOPIC"
	envLanguage                 = "EDGECTL_LANG"
	defaultMaxHexPreviewBytes   = 64 * 1024
	defaultUserAgent            = "edgectl/0.1.0"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Gateway: Gateway{
			BaseURL:        defaultGatewayURL,
			RequestTimeout: defaultRequestTimeout,
		},
		Session: Session{
			StateDir:  defaultStateDir(),
			LoginPath: defaultLoginPath,
		},
		UI: UI{
			Language:        defaultLanguage,
			HexPreviewBytes: defaultHexPreviewBytes,
			DownloadDir:     defaultDownloadDir,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyRequestTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

// UserAgent identifies edgectl in outbound HTTP requests.
func UserAgent() string {
	return defaultUserAgent
}
