// Package holiday classifies calendar dates as weekends or holidays.
package holiday

import "time"

// keyFormat is the table key layout, local date only.
const keyFormat = "2006-01-02"

// Table maps YYYY-MM-DD date keys to holiday display names. Tables are
// year-specific: dates in years the table does not cover are never
// holidays. This is a documented limitation of the data, not something
// the classifier papers over.
type Table map[string]string

// Default2026 is the Japanese national holiday table for 2026.
func Default2026() Table {
	return Table{
		"2026-01-01": "元日",
		"2026-01-12": "成人の日",
		"2026-02-11": "建国記念の日",
		"2026-02-23": "天皇誕生日",
		"2026-03-20": "春分の日",
		"2026-04-29": "昭和の日",
		"2026-05-03": "憲法記念日",
		"2026-05-04": "みどりの日",
		"2026-05-05": "こどもの日",
		"2026-07-20": "海の日",
		"2026-08-10": "山の日",
		"2026-09-21": "敬老の日",
		"2026-09-22": "秋分の日",
		"2026-10-12": "スポーツの日",
		"2026-11-03": "文化の日",
		"2026-11-23": "勤労感謝の日",
	}
}

// Merge returns a copy of the table with extra entries layered on top.
// Extra entries win on key collision, which lets deployments override or
// extend the built-in table through configuration.
func (t Table) Merge(extra map[string]string) Table {
	out := make(Table, len(t)+len(extra))
	for k, v := range t {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}

// Name returns the holiday name for the date, if any.
func (t Table) Name(d time.Time) (string, bool) {
	name, ok := t[d.Format(keyFormat)]
	return name, ok
}

// IsHoliday reports whether the date's (year, month, day) triple is a
// key in the table.
func (t Table) IsHoliday(d time.Time) bool {
	_, ok := t.Name(d)
	return ok
}

// IsWeekendOrHoliday reports whether the date falls on a Saturday or
// Sunday, or is a table holiday.
func (t Table) IsWeekendOrHoliday(d time.Time) bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday || t.IsHoliday(d)
}
