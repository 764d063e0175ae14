// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults; Load layers file/env on top.
// - External errors are wrapped via this package's error helpers.
package config

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DataFile is the JSON document store location.
	DataFile string `koanf:"data_file"`

	// UploadDir is where attachment blobs are stored.
	UploadDir string `koanf:"upload_dir"`

	// MaxUploadBytes caps a single attachment upload.
	MaxUploadBytes int64 `koanf:"max_upload_bytes"`

	// AuthFile is the admin credentials file (user:argon2id-hash).
	AuthFile string `koanf:"auth_file"`

	// SessionTTLMinutes sets the admin session lifetime.
	SessionTTLMinutes int `koanf:"session_ttl_minutes"`

	// SnapshotSpec is the cron schedule of data file snapshots.
	// Empty disables them.
	SnapshotSpec string `koanf:"snapshot_spec"`

	// CalendarHourStart and CalendarHourEnd bound the week/day view
	// time axis, hours [start, end).
	CalendarHourStart int `koanf:"calendar_hour_start"`
	CalendarHourEnd   int `koanf:"calendar_hour_end"`

	// CalendarCellCap is how many events a month cell shows before
	// collapsing into "+N more".
	CalendarCellCap int `koanf:"calendar_cell_cap"`

	// TeamName is the site owner's team name, used for the iCalendar
	// feed and as the default for new game results.
	TeamName string `koanf:"team_name"`

	// Holidays holds extra YYYY-MM-DD -> name entries merged over the
	// built-in holiday table.
	Holidays map[string]string `koanf:"holidays"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		Addr:              ":8080",
		DataFile:          "data/teamsite.json",
		UploadDir:         "data/uploads",
		MaxUploadBytes:    10 << 20,
		AuthFile:          "auth.secret",
		SessionTTLMinutes: 720,
		SnapshotSpec:      "0 3 * * *",
		CalendarHourStart: 5,
		CalendarHourEnd:   21,
		CalendarCellCap:   3,
		TeamName:          "ポストン",
		Holidays:          map[string]string{},
	}
}
