package scoring_test

import (
	"encoding/json"
	"testing"

	"github.com/harusports/teamsite/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func intp(v int) *int { return &v }

func TestAggregate(t *testing.T) {
	Convey("Given a four inning score sheet", t, func() {
		innings := []scoring.InningScore{
			{Inning: 1, Our: intp(2), Opponent: intp(0)},
			{Inning: 2, Our: intp(0), Opponent: intp(1)},
			{Inning: 3, Our: intp(3), Opponent: intp(2)},
			{Inning: 4, Our: intp(1), Opponent: intp(0)},
		}

		Convey("When aggregating", func() {
			totals := scoring.Aggregate(innings)

			Convey("Then both sides should be summed", func() {
				So(totals.Our, ShouldEqual, 6)
				So(totals.Opponent, ShouldEqual, 3)
			})
		})

		Convey("When some innings are unset", func() {
			innings[1].Our = nil
			innings[3].Opponent = nil
			totals := scoring.Aggregate(innings)

			Convey("Then unset scores should count as zero", func() {
				So(totals.Our, ShouldEqual, 6)
				So(totals.Opponent, ShouldEqual, 3)
			})
		})

		Convey("When the sequence is empty", func() {
			totals := scoring.Aggregate(nil)

			Convey("Then totals should be zero", func() {
				So(totals.Our, ShouldEqual, 0)
				So(totals.Opponent, ShouldEqual, 0)
			})
		})
	})
}

func TestScoreSheet(t *testing.T) {
	Convey("Given a fresh score sheet", t, func() {
		sheet := scoring.NewScoreSheet()

		Convey("Then it should have nine unset innings numbered densely", func() {
			So(len(sheet), ShouldEqual, scoring.DefaultInnings)
			for i, s := range sheet {
				So(s.Inning, ShouldEqual, i+1)
				So(s.Our, ShouldBeNil)
				So(s.Opponent, ShouldBeNil)
			}
		})

		Convey("When appending an extra inning", func() {
			extended := scoring.Append(sheet)

			Convey("Then the new inning should be unset with the next number", func() {
				So(len(extended), ShouldEqual, 10)
				So(extended[9].Inning, ShouldEqual, 10)
				So(extended[9].Our, ShouldBeNil)
			})

			Convey("And removing the last inning should restore the original", func() {
				restored := scoring.RemoveLast(extended)
				So(restored, ShouldResemble, sheet)
			})
		})

		Convey("When removing from a single-inning sheet", func() {
			one := []scoring.InningScore{{Inning: 1, Our: intp(4)}}
			kept := scoring.RemoveLast(one)

			Convey("Then the removal should be a no-op", func() {
				So(kept, ShouldResemble, one)
			})
		})
	})
}

func TestRenumber(t *testing.T) {
	Convey("Given innings with caller-supplied numbering gaps", t, func() {
		innings := []scoring.InningScore{
			{Inning: 3, Our: intp(1)},
			{Inning: 7},
			{Inning: 7, Opponent: intp(2)},
		}

		Convey("When renumbering", func() {
			out := scoring.Renumber(innings)

			Convey("Then the sequence should be dense 1..N with scores untouched", func() {
				So(out[0].Inning, ShouldEqual, 1)
				So(out[1].Inning, ShouldEqual, 2)
				So(out[2].Inning, ShouldEqual, 3)
				So(*out[0].Our, ShouldEqual, 1)
				So(*out[2].Opponent, ShouldEqual, 2)
			})

			Convey("And the input should not be mutated", func() {
				So(innings[0].Inning, ShouldEqual, 3)
			})
		})
	})
}

func TestUnsetVersusZero(t *testing.T) {
	Convey("Given an inning with one explicit zero and one unset score", t, func() {
		s := scoring.InningScore{Inning: 1, Our: intp(0)}

		Convey("When marshaled to JSON", func() {
			b, err := json.Marshal(s)

			Convey("Then the unset side should stay null on the wire", func() {
				So(err, ShouldBeNil)
				So(string(b), ShouldEqual, `{"inning":1,"ourScore":0,"opponentScore":null}`)
			})
		})

		Convey("When setting and clearing a score through Set", func() {
			withScore := s.Set(scoring.SideOpponent, intp(5))
			So(*withScore.Opponent, ShouldEqual, 5)

			cleared := withScore.Set(scoring.SideOpponent, nil)
			So(cleared.Opponent, ShouldBeNil)

			Convey("Then the original value should be unchanged", func() {
				So(s.Opponent, ShouldBeNil)
			})
		})
	})
}
