package config

import "runtime"

const (
	defaultLogFormat = "console"
	defaultLogLevel  = "info"

	// defaultWindowsDatabasePath is the stock PlayOn Home install location.
	defaultWindowsDatabasePath = `C:\ProgramData\MediaMall\Recording\recording.db`

	defaultServerSettleSeconds = 10
)

// defaultProcessNames are the PlayOn executables that hold recording.db
// open. Mirrored by the process package; configuration can override.
var defaultProcessNames = []string{
	"PlayOn",
	"MediaMallServer",
	"MediaMall",
	"SettingsManager",
	"POC-Downloader",
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	cfg := Config{
		Processes: Processes{
			Names:               append([]string(nil), defaultProcessNames...),
			ServerSettleSeconds: defaultServerSettleSeconds,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
	if runtime.GOOS == "windows" {
		cfg.Database.Path = defaultWindowsDatabasePath
	}
	return cfg
}
