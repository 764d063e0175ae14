package metrics_test

import (
	"testing"

	"github.com/harusports/teamsite/pkg/metrics"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetrics(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When recording values through the package helpers", func() {
			Convey("Then none of them should panic", func() {
				So(func() {
					metrics.RecordHTTPRequest("events", "GET", "200")
					metrics.RecordHTTPRequestDuration("events", "GET", 12.5)
					metrics.UpdateDocumentCount("events", 3)
					metrics.RecordStoreSave()
					metrics.RecordStoreError()
					metrics.RecordSnapshot()
					metrics.RecordContactSubmission()
					metrics.RecordResultSaved()
					metrics.RecordUploadBytes(1024)
					metrics.UpdateActiveSessions(2)
					metrics.RecordLoginFailure()
					metrics.UpdateSystemMemoryUsage(1 << 20)
					metrics.UpdateSystemGoroutineCount(12)
				}, ShouldNotPanic)
			})
		})

		Convey("When gathering the custom registry", func() {
			families, err := metrics.GetRegistry().Gather()

			Convey("Then our collectors should be registered", func() {
				So(err, ShouldBeNil)
				So(len(families), ShouldBeGreaterThan, 0)

				names := make(map[string]bool, len(families))
				for _, f := range families {
					names[f.GetName()] = true
				}
				So(names["teamsite_http_requests_total"], ShouldBeTrue)
				So(names["teamsite_documents_total"], ShouldBeTrue)
				So(names["teamsite_contact_submissions_total"], ShouldBeTrue)
			})
		})
	})
}
