package service

import (
	"time"

	"github.com/harusports/teamsite/internal/adapters/blob"
	"github.com/harusports/teamsite/internal/adapters/repository"
	"github.com/harusports/teamsite/internal/auth"
	"github.com/harusports/teamsite/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithDataFile sets the document store location.
func WithDataFile(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.dataFile = path
		}
	}
}

// WithUploadDir sets the attachment blob directory.
func WithUploadDir(dir string) Option {
	return func(s *Service) {
		if dir != "" {
			s.uploadDir = dir
		}
	}
}

// WithAuthFile sets the admin credentials file path.
func WithAuthFile(path string) Option {
	return func(s *Service) {
		s.authFile = path
	}
}

// WithSessionTTL sets the admin session lifetime.
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.sessionTTL = ttl
		}
	}
}

// WithSnapshotSpec sets the cron schedule for data file snapshots.
// Empty disables the scheduled snapshot.
func WithSnapshotSpec(spec string) Option {
	return func(s *Service) {
		s.snapshotSpec = spec
	}
}

// WithHourRange bounds the calendar's visible time axis.
func WithHourRange(start, end int) Option {
	return func(s *Service) {
		if start >= 0 && end <= 24 && end > start {
			s.hourStart, s.hourEnd = start, end
		}
	}
}

// WithCellCap sets the month cell display cap.
func WithCellCap(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.cellCap = n
		}
	}
}

// WithTeamName sets the site owner's team name.
func WithTeamName(name string) Option {
	return func(s *Service) {
		if name != "" {
			s.teamName = name
		}
	}
}

// WithExtraHolidays merges configured entries over the built-in table.
func WithExtraHolidays(entries map[string]string) Option {
	return func(s *Service) {
		s.extraHolidays = entries
	}
}

// WithStore injects a document store, bypassing the file store setup.
// Used by tests.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		s.store = store
	}
}

// WithBlobStore injects a blob store. Used by tests.
func WithBlobStore(store blob.Store) Option {
	return func(s *Service) {
		s.blobs = store
	}
}

// WithAuthenticator injects a prebuilt authenticator. Used by tests.
func WithAuthenticator(a *auth.Authenticator) Option {
	return func(s *Service) {
		s.authn = a
	}
}
