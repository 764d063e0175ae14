// Package calendar builds renderable month/week/day grids from events.
package calendar

import (
	"sort"
	"time"

	"github.com/harusports/teamsite/internal/domain/holiday"
	"github.com/harusports/teamsite/internal/domain/model"
)

// ViewMode selects the calendar layout.
type ViewMode string

const (
	ViewMonth ViewMode = "month"
	ViewWeek  ViewMode = "week"
	ViewDay   ViewMode = "day"
)

// Valid reports whether the view mode is one of month, week or day.
func (v ViewMode) Valid() bool {
	switch v {
	case ViewMonth, ViewWeek, ViewDay:
		return true
	}
	return false
}

// HourRange is the visible time axis of the week and day views,
// hours [Start, End) in local time.
type HourRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Minutes returns the axis length in minutes.
func (h HourRange) Minutes() int {
	return (h.End - h.Start) * 60
}

// Cell is one day cell of the month view. Events holds at most the
// builder's display cap; More counts the collapsed remainder behind the
// "+N more" affordance.
type Cell struct {
	Date             time.Time     `json:"date"`
	InMonth          bool          `json:"inMonth"`
	Today            bool          `json:"today"`
	WeekendOrHoliday bool          `json:"weekendOrHoliday"`
	Holiday          string        `json:"holiday,omitempty"`
	Events           []model.Event `json:"events"`
	More             int           `json:"more"`
}

// Placement positions one event on a day column's time axis. Offsets are
// minutes from the start of the visible hour range, clipped to the axis;
// an event whose end precedes its start collapses to a zero-length span.
type Placement struct {
	Event       model.Event `json:"event"`
	StartMinute int         `json:"startMinute"`
	EndMinute   int         `json:"endMinute"`
}

// DayColumn is one day of the week or day view.
type DayColumn struct {
	Date             time.Time   `json:"date"`
	Today            bool        `json:"today"`
	WeekendOrHoliday bool        `json:"weekendOrHoliday"`
	Holiday          string      `json:"holiday,omitempty"`
	Events           []Placement `json:"events"`
}

// Grid is the renderable output of Build. Cells is populated for the
// month view, Days for the week and day views.
type Grid struct {
	View      ViewMode    `json:"view"`
	Reference time.Time   `json:"reference"`
	Hours     HourRange   `json:"hours"`
	Cells     []Cell      `json:"cells,omitempty"`
	Days      []DayColumn `json:"days,omitempty"`
}

// Slot is the {start, end} hand-off for an empty slot selection.
type Slot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Builder assembles grids. It never mutates the events it is given and
// does not expect them pre-filtered by visible range.
type Builder struct {
	hours     HourRange
	cellCap   int
	weekStart time.Weekday
	holidays  holiday.Table
	now       func() time.Time
}

// Defaults mirror the public site: a 05:00-21:00 axis, three events per
// month cell before collapsing, weeks starting on Sunday.
const (
	defaultHourStart = 5
	defaultHourEnd   = 21
	defaultCellCap   = 3
)

// New creates a Builder with the given options applied over defaults.
func New(opts ...Option) *Builder {
	b := &Builder{
		hours:     HourRange{Start: defaultHourStart, End: defaultHourEnd},
		cellCap:   defaultCellCap,
		weekStart: time.Sunday,
		holidays:  holiday.Default2026(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build maps a reference date and view mode to a grid, assigning each
// event to the cells or columns it intersects.
func (b *Builder) Build(events []model.Event, view ViewMode, ref time.Time) Grid {
	g := Grid{View: view, Reference: dateOf(ref), Hours: b.hours}
	switch view {
	case ViewWeek:
		g.Days = b.columns(events, b.weekStartOf(ref), 7)
	case ViewDay:
		g.Days = b.columns(events, dateOf(ref), 1)
	default:
		g.View = ViewMonth
		g.Cells = b.monthCells(events, ref)
	}
	return g
}

// DayEvents returns every event starting on the given date ordered by
// start time, uncapped. Backs the "+N more" expansion of a month cell.
func (b *Builder) DayEvents(events []model.Event, date time.Time) []model.Event {
	var out []model.Event
	for _, e := range events {
		if sameDate(e.Start, date) {
			out = append(out, e)
		}
	}
	sortByStart(out)
	return out
}

// Step moves the reference date one view-sized unit forward or backward:
// a month, seven days, or one day per delta step.
func Step(view ViewMode, ref time.Time, delta int) time.Time {
	switch view {
	case ViewWeek:
		return ref.AddDate(0, 0, 7*delta)
	case ViewDay:
		return ref.AddDate(0, 0, delta)
	default:
		return ref.AddDate(0, delta, 0)
	}
}

// Today returns the builder's current date for "jump to today"; the
// caller keeps its view mode.
func (b *Builder) Today() time.Time {
	return dateOf(b.now())
}

// Slot returns the one-hour {start, end} pair for an empty slot at the
// given date and hour.
func (b *Builder) Slot(date time.Time, hour int) Slot {
	d := dateOf(date)
	start := time.Date(d.Year(), d.Month(), d.Day(), hour, 0, 0, 0, d.Location())
	return Slot{Start: start, End: start.Add(time.Hour)}
}

func (b *Builder) monthCells(events []model.Event, ref time.Time) []Cell {
	first := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
	last := first.AddDate(0, 1, -1)

	start := b.weekStartOf(first)
	end := b.weekStartOf(last).AddDate(0, 0, 6)

	byDay := make(map[string][]model.Event)
	for _, e := range events {
		key := dateOf(e.Start).Format("2006-01-02")
		byDay[key] = append(byDay[key], e)
	}

	today := b.Today()
	var cells []Cell
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		name, _ := b.holidays.Name(d)
		dayEvents := byDay[d.Format("2006-01-02")]
		sortByStart(dayEvents)

		cell := Cell{
			Date:             d,
			InMonth:          d.Month() == ref.Month(),
			Today:            d.Equal(today),
			WeekendOrHoliday: b.holidays.IsWeekendOrHoliday(d),
			Holiday:          name,
			Events:           dayEvents,
		}
		if len(dayEvents) > b.cellCap {
			cell.Events = dayEvents[:b.cellCap]
			cell.More = len(dayEvents) - b.cellCap
		}
		cells = append(cells, cell)
	}
	return cells
}

func (b *Builder) columns(events []model.Event, start time.Time, days int) []DayColumn {
	today := b.Today()
	cols := make([]DayColumn, 0, days)
	for i := 0; i < days; i++ {
		d := start.AddDate(0, 0, i)
		name, _ := b.holidays.Name(d)
		col := DayColumn{
			Date:             d,
			Today:            d.Equal(today),
			WeekendOrHoliday: b.holidays.IsWeekendOrHoliday(d),
			Holiday:          name,
			Events:           b.placements(events, d),
		}
		cols = append(cols, col)
	}
	return cols
}

// placements positions the events of one day on the visible axis.
// Events entirely before or after the hour range are omitted; partial
// overlaps are clipped.
func (b *Builder) placements(events []model.Event, day time.Time) []Placement {
	visStart := time.Date(day.Year(), day.Month(), day.Day(), b.hours.Start, 0, 0, 0, day.Location())
	visEnd := time.Date(day.Year(), day.Month(), day.Day(), b.hours.End, 0, 0, 0, day.Location())

	var dayEvents []model.Event
	for _, e := range events {
		if sameDate(e.Start, day) {
			dayEvents = append(dayEvents, e)
		}
	}
	sortByStart(dayEvents)

	var out []Placement
	for _, e := range dayEvents {
		if !e.End.After(visStart) || !e.Start.Before(visEnd) {
			continue
		}
		startMin := clampMinutes(e.Start, visStart, b.hours.Minutes())
		endMin := clampMinutes(e.End, visStart, b.hours.Minutes())
		if endMin < startMin {
			endMin = startMin
		}
		out = append(out, Placement{Event: e, StartMinute: startMin, EndMinute: endMin})
	}
	return out
}

func (b *Builder) weekStartOf(t time.Time) time.Time {
	d := dateOf(t)
	offset := (int(d.Weekday()) - int(b.weekStart) + 7) % 7
	return d.AddDate(0, 0, -offset)
}

func clampMinutes(t, axisStart time.Time, axisLen int) int {
	m := int(t.Sub(axisStart) / time.Minute)
	if m < 0 {
		return 0
	}
	if m > axisLen {
		return axisLen
	}
	return m
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// sameDate reports whether a and b fall on the same calendar date, each
// read in its own location. Bucketing by date components rather than
// midnight instants keeps events with a foreign UTC offset on the same
// day across the month, week and day views.
func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func sortByStart(events []model.Event) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Start.Before(events[j].Start)
	})
}
