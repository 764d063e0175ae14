package calendar

import (
	"time"

	"github.com/harusports/teamsite/internal/domain/holiday"
)

// Option applies a configuration option to the Builder.
type Option func(*Builder)

// WithHourRange sets the visible time axis, hours [start, end).
func WithHourRange(start, end int) Option {
	return func(b *Builder) {
		if start >= 0 && end <= 24 && end > start {
			b.hours = HourRange{Start: start, End: end}
		}
	}
}

// WithCellCap sets how many events a month cell shows before collapsing
// the rest into a "+N more" count.
func WithCellCap(n int) Option {
	return func(b *Builder) {
		if n > 0 {
			b.cellCap = n
		}
	}
}

// WithWeekStart sets the first day of displayed weeks.
func WithWeekStart(wd time.Weekday) Option {
	return func(b *Builder) {
		b.weekStart = wd
	}
}

// WithHolidayTable injects the holiday table used for cell tagging.
func WithHolidayTable(t holiday.Table) Option {
	return func(b *Builder) {
		if t != nil {
			b.holidays = t
		}
	}
}

// WithClock overrides the time source, used by tests to pin "today".
func WithClock(now func() time.Time) Option {
	return func(b *Builder) {
		if now != nil {
			b.now = now
		}
	}
}
