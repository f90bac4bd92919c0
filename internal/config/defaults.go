package config

const (
	defaultConfigPath      = "~/.config/pix/config.toml"
	defaultPicturesDir     = "~/Dropbox/pictures"
	defaultStateDir        = "~/.local/share/pix"
	defaultLogDir          = "~/.local/share/pix/logs"
	defaultPickerOrder     = OrderModifiedTime
	defaultFFmpegBinary    = "ffmpeg"
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
	defaultNotifyTimeout   = 10
	defaultCrossDeviceCopy = false
	defaultHistoryEnabled  = true
)

// Picker order values.
const (
	OrderAddTime      = "add_time"
	OrderCreateTime   = "create_time"
	OrderModifiedTime = "modified_time"
)

// defaultSearchPaths lists package-manager install locations that GUI-launched
// processes usually lack on PATH.
var defaultSearchPaths = []string{"/usr/local/bin", "/opt/homebrew/bin"}

var defaultVideoExtensions = []string{".mp4", ".mov", ".avi", ".mkv"}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			PicturesDir: defaultPicturesDir,
			StateDir:    defaultStateDir,
			LogDir:      defaultLogDir,
		},
		Picker: Picker{
			Order: defaultPickerOrder,
		},
		Move: Move{
			CrossDeviceCopy: defaultCrossDeviceCopy,
		},
		Frames: Frames{
			FFmpeg:      defaultFFmpegBinary,
			SearchPaths: append([]string(nil), defaultSearchPaths...),
			Extensions:  append([]string(nil), defaultVideoExtensions...),
		},
		History: History{
			Enabled: defaultHistoryEnabled,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyTimeout,
			Move:           true,
			Frames:         true,
			Errors:         true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
