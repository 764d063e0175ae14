package service

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/harusports/teamsite/internal/domain/calendar"
	"github.com/harusports/teamsite/internal/domain/model"
	"github.com/harusports/teamsite/internal/domain/scoring"
	"github.com/harusports/teamsite/pkg/logger"
)

func init() {
	// Initialize logging for tests
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	dir := t.TempDir()
	svc := New(
		WithDataFile(filepath.Join(dir, "data.json")),
		WithUploadDir(filepath.Join(dir, "uploads")),
		WithAuthFile(filepath.Join(dir, "auth.secret")),
		WithSnapshotSpec(""),
	)
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("start service: %v", err)
	}
	t.Cleanup(svc.Stop)
	return svc
}

func intPtr(v int) *int { return &v }

func TestServiceEvents(t *testing.T) {
	Convey("Given a running service", t, func() {
		svc := newTestService(t)
		ctx := context.Background()

		ev := model.Event{
			Title: "練習",
			Type:  model.EventPractice,
			Start: time.Date(2026, 4, 8, 10, 0, 0, 0, time.UTC),
			End:   time.Date(2026, 4, 8, 12, 0, 0, 0, time.UTC),
		}

		Convey("When creating a valid event", func() {
			created, err := svc.CreateEvent(ctx, ev)

			Convey("Then it should be stored with an id and timestamps", func() {
				So(err, ShouldBeNil)
				So(created.ID, ShouldNotBeEmpty)
				So(created.Title, ShouldEqual, "練習")
				So(created.CreatedAt.IsZero(), ShouldBeFalse)
			})

			Convey("Then it should be listable and gettable", func() {
				So(err, ShouldBeNil)
				got, err := svc.GetEvent(ctx, created.ID)
				So(err, ShouldBeNil)
				So(got.Title, ShouldEqual, "練習")

				all, err := svc.ListEvents(ctx, nil, nil)
				So(err, ShouldBeNil)
				So(len(all), ShouldEqual, 1)
			})
		})

		Convey("When creating an event without a title", func() {
			bad := ev
			bad.Title = ""
			_, err := svc.CreateEvent(ctx, bad)

			Convey("Then validation should fail", func() {
				So(errors.Is(err, ErrValidation), ShouldBeTrue)
			})
		})

		Convey("When creating an event that ends before it starts", func() {
			bad := ev
			bad.End = bad.Start.Add(-time.Hour)
			_, err := svc.CreateEvent(ctx, bad)

			Convey("Then validation should fail", func() {
				So(errors.Is(err, ErrValidation), ShouldBeTrue)
			})
		})

		Convey("When listing with a date window", func() {
			_, err := svc.CreateEvent(ctx, ev)
			So(err, ShouldBeNil)

			later := ev
			later.Start = time.Date(2026, 6, 15, 10, 0, 0, 0, time.UTC)
			later.End = later.Start.Add(2 * time.Hour)
			_, err = svc.CreateEvent(ctx, later)
			So(err, ShouldBeNil)

			from := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
			to := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
			windowed, err := svc.ListEvents(ctx, &from, &to)

			Convey("Then only events starting inside the window remain", func() {
				So(err, ShouldBeNil)
				So(len(windowed), ShouldEqual, 1)
				So(windowed[0].Start.Month(), ShouldEqual, time.June)
			})
		})

		Convey("When updating an event", func() {
			created, err := svc.CreateEvent(ctx, ev)
			So(err, ShouldBeNil)

			changed := created
			changed.Title = "試合"
			changed.Type = model.EventGame
			updated, err := svc.UpdateEvent(ctx, created.ID, changed)

			Convey("Then the new body should be visible", func() {
				So(err, ShouldBeNil)
				So(updated.Title, ShouldEqual, "試合")
				So(updated.Type, ShouldEqual, model.EventGame)
			})
		})

		Convey("When deleting an event", func() {
			created, err := svc.CreateEvent(ctx, ev)
			So(err, ShouldBeNil)
			So(svc.DeleteEvent(ctx, created.ID), ShouldBeNil)

			Convey("Then it should be gone", func() {
				_, err := svc.GetEvent(ctx, created.ID)
				So(err, ShouldNotBeNil)
			})
		})
	})
}

func TestServiceAttachments(t *testing.T) {
	Convey("Given a service with one event", t, func() {
		svc := newTestService(t)
		ctx := context.Background()

		created, err := svc.CreateEvent(ctx, model.Event{
			Title: "練習試合",
			Type:  model.EventGame,
			Start: time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC),
			End:   time.Date(2026, 5, 10, 13, 0, 0, 0, time.UTC),
		})
		So(err, ShouldBeNil)

		Convey("When uploading an attachment", func() {
			att, err := svc.AddAttachment(ctx, created.ID, "schedule.pdf", "application/pdf",
				strings.NewReader("%PDF-1.4 fake"))

			Convey("Then it should be recorded on the event", func() {
				So(err, ShouldBeNil)
				So(att.ID, ShouldNotBeEmpty)
				So(att.Size, ShouldEqual, int64(len("%PDF-1.4 fake")))
				So(att.URL, ShouldStartWith, "/files/")

				got, err := svc.GetEvent(ctx, created.ID)
				So(err, ShouldBeNil)
				So(len(got.Attachments), ShouldEqual, 1)
				So(got.Attachments[0].Name, ShouldEqual, "schedule.pdf")
			})

			Convey("And the blob should be readable back", func() {
				So(err, ShouldBeNil)
				got, err := svc.GetEvent(ctx, created.ID)
				So(err, ShouldBeNil)
				rc, err := svc.OpenAttachment(strings.TrimPrefix(got.Attachments[0].URL, "/files/"))
				So(err, ShouldBeNil)
				rc.Close()
			})

			Convey("When removing it again", func() {
				So(err, ShouldBeNil)
				So(svc.RemoveAttachment(ctx, created.ID, att.ID), ShouldBeNil)

				got, err := svc.GetEvent(ctx, created.ID)
				So(err, ShouldBeNil)
				So(len(got.Attachments), ShouldEqual, 0)
			})
		})

		Convey("When removing an unknown attachment", func() {
			err := svc.RemoveAttachment(ctx, created.ID, "nope")

			Convey("Then it should report not found", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}

func TestServiceResults(t *testing.T) {
	Convey("Given a running service", t, func() {
		svc := newTestService(t)
		ctx := context.Background()

		Convey("When saving a result whose totals disagree with the innings", func() {
			r := model.GameResult{
				Date:     time.Date(2026, 7, 20, 0, 0, 0, 0, time.UTC),
				Opponent: "イーグルス",
				InningScores: []scoring.InningScore{
					{Inning: 1, Our: intPtr(3), Opponent: intPtr(1)},
					{Inning: 2, Our: intPtr(5), Opponent: intPtr(4)},
				},
				OurScore:      99,
				OpponentScore: 99,
			}
			saved, err := svc.CreateResult(ctx, r)

			Convey("Then the stored totals come from the innings, not the caller", func() {
				So(err, ShouldBeNil)
				So(saved.OurScore, ShouldEqual, 8)
				So(saved.OpponentScore, ShouldEqual, 5)
			})

			Convey("And the default team name is filled in", func() {
				So(err, ShouldBeNil)
				So(saved.OurTeamName, ShouldEqual, "ポストン")
			})
		})

		Convey("When saving a result without innings", func() {
			saved, err := svc.CreateResult(ctx, model.GameResult{
				Date:     time.Date(2026, 7, 21, 0, 0, 0, 0, time.UTC),
				Opponent: "ホークス",
			})

			Convey("Then a nine empty innings sheet is created with zero totals", func() {
				So(err, ShouldBeNil)
				So(len(saved.InningScores), ShouldEqual, scoring.DefaultInnings)
				So(saved.OurScore, ShouldEqual, 0)
				So(saved.OpponentScore, ShouldEqual, 0)
			})
		})

		Convey("When saving a result with gapped inning numbers", func() {
			saved, err := svc.CreateResult(ctx, model.GameResult{
				Date:     time.Date(2026, 7, 22, 0, 0, 0, 0, time.UTC),
				Opponent: "ファイターズ",
				InningScores: []scoring.InningScore{
					{Inning: 4, Our: intPtr(1)},
					{Inning: 9, Our: intPtr(2)},
				},
			})

			Convey("Then the innings are renumbered densely from one", func() {
				So(err, ShouldBeNil)
				So(saved.InningScores[0].Inning, ShouldEqual, 1)
				So(saved.InningScores[1].Inning, ShouldEqual, 2)
			})
		})

		Convey("When saving a result with a negative inning score", func() {
			_, err := svc.CreateResult(ctx, model.GameResult{
				Date:     time.Date(2026, 7, 24, 0, 0, 0, 0, time.UTC),
				Opponent: "ライオンズ",
				InningScores: []scoring.InningScore{
					{Inning: 1, Our: intPtr(-5)},
				},
			})

			Convey("Then validation should fail and nothing is stored", func() {
				So(errors.Is(err, ErrValidation), ShouldBeTrue)
				results, err := svc.ListResults(ctx)
				So(err, ShouldBeNil)
				So(len(results), ShouldEqual, 0)
			})
		})

		Convey("When saving a result without an opponent", func() {
			_, err := svc.CreateResult(ctx, model.GameResult{
				Date: time.Date(2026, 7, 23, 0, 0, 0, 0, time.UTC),
			})

			Convey("Then validation should fail", func() {
				So(errors.Is(err, ErrValidation), ShouldBeTrue)
			})
		})

		Convey("When listing results", func() {
			for _, d := range []time.Time{
				time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
				time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
				time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
			} {
				_, err := svc.CreateResult(ctx, model.GameResult{Date: d, Opponent: "相手"})
				So(err, ShouldBeNil)
			}
			results, err := svc.ListResults(ctx)

			Convey("Then they come back newest first", func() {
				So(err, ShouldBeNil)
				So(len(results), ShouldEqual, 3)
				So(results[0].Date.Month(), ShouldEqual, time.May)
				So(results[2].Date.Month(), ShouldEqual, time.March)
			})
		})
	})
}

func TestServiceContacts(t *testing.T) {
	Convey("Given a running service", t, func() {
		svc := newTestService(t)
		ctx := context.Background()

		Convey("When submitting a contact message", func() {
			saved, err := svc.SubmitContact(ctx, model.ContactMessage{
				Name:    "山田太郎",
				Email:   "taro@example.com",
				Message: "入団について教えてください",
				Status:  model.ContactReplied, // caller may not pre-set this
			})

			Convey("Then it is stored as unread regardless of caller input", func() {
				So(err, ShouldBeNil)
				So(saved.Status, ShouldEqual, model.ContactUnread)
			})

			Convey("And its status can be advanced", func() {
				So(err, ShouldBeNil)
				updated, err := svc.UpdateContactStatus(ctx, saved.ID, model.ContactRead)
				So(err, ShouldBeNil)
				So(updated.Status, ShouldEqual, model.ContactRead)
			})

			Convey("But not to an unknown status", func() {
				So(err, ShouldBeNil)
				_, err := svc.UpdateContactStatus(ctx, saved.ID, "archived")
				So(errors.Is(err, ErrValidation), ShouldBeTrue)
			})
		})

		Convey("When submitting without a message body", func() {
			_, err := svc.SubmitContact(ctx, model.ContactMessage{
				Name:  "名無し",
				Email: "nobody@example.com",
			})

			Convey("Then validation should fail", func() {
				So(errors.Is(err, ErrValidation), ShouldBeTrue)
			})
		})
	})
}

func TestServiceAnnouncement(t *testing.T) {
	Convey("Given a running service", t, func() {
		svc := newTestService(t)
		ctx := context.Background()

		Convey("When no announcement was ever written", func() {
			a, err := svc.Announcement(ctx)

			Convey("Then a hidden empty banner is returned, not an error", func() {
				So(err, ShouldBeNil)
				So(a.Text, ShouldBeEmpty)
				So(a.Shown(), ShouldBeFalse)
			})
		})

		Convey("When setting the announcement", func() {
			set, err := svc.SetAnnouncement(ctx, "今週の練習は雨天中止です", true)

			Convey("Then it should round-trip", func() {
				So(err, ShouldBeNil)
				So(set.Shown(), ShouldBeTrue)

				got, err := svc.Announcement(ctx)
				So(err, ShouldBeNil)
				So(got.Text, ShouldEqual, "今週の練習は雨天中止です")
				So(got.Visible, ShouldBeTrue)
			})
		})
	})
}

func TestServiceCalendar(t *testing.T) {
	Convey("Given a service with events across two months", t, func() {
		svc := newTestService(t)
		ctx := context.Background()

		for _, e := range []model.Event{
			{Title: "朝練", Type: model.EventPractice,
				Start: time.Date(2026, 4, 8, 6, 0, 0, 0, time.UTC),
				End:   time.Date(2026, 4, 8, 8, 0, 0, 0, time.UTC)},
			{Title: "公式戦", Type: model.EventGame,
				Start: time.Date(2026, 4, 8, 13, 0, 0, 0, time.UTC),
				End:   time.Date(2026, 4, 8, 16, 0, 0, 0, time.UTC)},
			{Title: "ミーティング", Type: model.EventMeeting,
				Start: time.Date(2026, 5, 1, 19, 0, 0, 0, time.UTC),
				End:   time.Date(2026, 5, 1, 20, 0, 0, 0, time.UTC)},
		} {
			_, err := svc.CreateEvent(ctx, e)
			So(err, ShouldBeNil)
		}

		Convey("When building the April month grid", func() {
			grid, err := svc.CalendarGrid(ctx, calendar.ViewMonth,
				time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC))

			Convey("Then the 8th carries both April events and May's none", func() {
				So(err, ShouldBeNil)
				var apr8 *calendar.Cell
				for i := range grid.Cells {
					if grid.Cells[i].Date.Day() == 8 && grid.Cells[i].InMonth {
						apr8 = &grid.Cells[i]
					}
				}
				So(apr8, ShouldNotBeNil)
				So(len(apr8.Events), ShouldEqual, 2)
			})
		})

		Convey("When asking for one day's events", func() {
			events, err := svc.CalendarDay(ctx, time.Date(2026, 4, 8, 0, 0, 0, 0, time.UTC))

			Convey("Then both events of that day come back", func() {
				So(err, ShouldBeNil)
				So(len(events), ShouldEqual, 2)
			})
		})

		Convey("When serializing the iCalendar feed", func() {
			feed, err := svc.CalendarFeed(ctx)

			Convey("Then it contains every event summary", func() {
				So(err, ShouldBeNil)
				So(feed, ShouldContainSubstring, "BEGIN:VCALENDAR")
				So(feed, ShouldContainSubstring, "朝練")
				So(feed, ShouldContainSubstring, "公式戦")
				So(feed, ShouldContainSubstring, "ミーティング")
			})
		})
	})
}

func TestServiceStats(t *testing.T) {
	Convey("Given a running service with some documents", t, func() {
		svc := newTestService(t)
		ctx := context.Background()

		_, err := svc.CreateEvent(ctx, model.Event{
			Title: "練習",
			Type:  model.EventPractice,
			Start: time.Date(2026, 4, 8, 10, 0, 0, 0, time.UTC),
			End:   time.Date(2026, 4, 8, 12, 0, 0, 0, time.UTC),
		})
		So(err, ShouldBeNil)

		Convey("When reading stats", func() {
			stats := svc.GetStats()

			Convey("Then collection counts are reported", func() {
				So(stats.Started, ShouldBeTrue)
				So(stats.TeamName, ShouldEqual, "ポストン")
				So(stats.Events, ShouldEqual, 1)
				So(stats.GameResults, ShouldEqual, 0)
				So(stats.Contacts, ShouldEqual, 0)
			})
		})
	})
}
