package holiday_test

import (
	"testing"
	"time"

	"github.com/harusports/teamsite/internal/domain/holiday"
	. "github.com/smartystreets/goconvey/convey"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.Local)
}

func TestTable(t *testing.T) {
	Convey("Given the 2026 holiday table", t, func() {
		table := holiday.Default2026()

		Convey("Then New Year's Day 2026 is a holiday with its name", func() {
			d := date(2026, time.January, 1)
			So(table.IsHoliday(d), ShouldBeTrue)
			name, ok := table.Name(d)
			So(ok, ShouldBeTrue)
			So(name, ShouldEqual, "元日")
		})

		Convey("Then January 2nd 2026 is neither holiday nor weekend", func() {
			d := date(2026, time.January, 2) // a Friday
			So(table.IsHoliday(d), ShouldBeFalse)
			So(table.IsWeekendOrHoliday(d), ShouldBeFalse)
		})

		Convey("Then Saturdays and Sundays are always weekend-or-holiday", func() {
			sat := date(2026, time.January, 3)
			sun := date(2026, time.January, 4)
			So(sat.Weekday(), ShouldEqual, time.Saturday)
			So(sun.Weekday(), ShouldEqual, time.Sunday)
			So(table.IsWeekendOrHoliday(sat), ShouldBeTrue)
			So(table.IsWeekendOrHoliday(sun), ShouldBeTrue)
		})

		Convey("Then the same month and day in another year never matches", func() {
			So(table.IsHoliday(date(2025, time.January, 1)), ShouldBeFalse)
			So(table.IsHoliday(date(2027, time.May, 5)), ShouldBeFalse)
		})

		Convey("Then every table entry classifies as a holiday", func() {
			for key := range holiday.Default2026() {
				d, err := time.ParseInLocation("2006-01-02", key, time.Local)
				So(err, ShouldBeNil)
				So(table.IsHoliday(d), ShouldBeTrue)
				So(table.IsWeekendOrHoliday(d), ShouldBeTrue)
			}
		})
	})
}

func TestMerge(t *testing.T) {
	Convey("Given a table merged with configured extras", t, func() {
		base := holiday.Default2026()
		merged := base.Merge(map[string]string{
			"2027-01-01": "元日",
			"2026-01-01": "New Year's Day",
		})

		Convey("Then extras are added and collisions favor the extras", func() {
			So(merged.IsHoliday(date(2027, time.January, 1)), ShouldBeTrue)
			name, _ := merged.Name(date(2026, time.January, 1))
			So(name, ShouldEqual, "New Year's Day")
		})

		Convey("And the base table is left untouched", func() {
			name, _ := base.Name(date(2026, time.January, 1))
			So(name, ShouldEqual, "元日")
			So(base.IsHoliday(date(2027, time.January, 1)), ShouldBeFalse)
		})
	})
}
