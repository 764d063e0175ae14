package main

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/harusports/teamsite/internal/adapters/http/api"
	"github.com/harusports/teamsite/internal/adapters/http/swagger"
	app "github.com/harusports/teamsite/internal/app"
	"github.com/harusports/teamsite/internal/config"
	"github.com/harusports/teamsite/pkg/logger"
)

func init() {
	// Initialize logging for tests
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func TestMainFunction(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		convey.Convey("When testing configuration loading", func() {
			_ = os.Setenv("TEAMSITE_ADDR", ":8090")
			_ = os.Setenv("TEAMSITE_TEAM_NAME", "テスト")
			defer func() {
				_ = os.Unsetenv("TEAMSITE_ADDR")
				_ = os.Unsetenv("TEAMSITE_TEAM_NAME")
			}()

			convey.Convey("Then configuration should be loadable", func() {
				ctx := context.Background()
				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8090")
				convey.So(cfg.TeamName, convey.ShouldEqual, "テスト")
			})
		})

		convey.Convey("When testing service creation", func() {
			convey.Convey("Then service should be creatable with default options", func() {
				svc := app.New()
				convey.So(svc, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When testing HTTP server wiring", func() {
			dir := t.TempDir()
			svc := app.New(
				app.WithDataFile(filepath.Join(dir, "data.json")),
				app.WithUploadDir(filepath.Join(dir, "uploads")),
				app.WithAuthFile(filepath.Join(dir, "auth.secret")),
				app.WithSnapshotSpec(""),
			)
			ctx := context.Background()
			convey.So(svc.Start(ctx), convey.ShouldBeNil)
			defer svc.Stop()

			mux := http.NewServeMux()
			swagger.Register(ctx, mux)
			apiServer := api.NewServer(svc, svc, 1<<20)
			apiServer.Register(ctx, mux)

			convey.Convey("Then the server should be constructible with timeouts", func() {
				srv := &http.Server{
					Addr:              ":0",
					Handler:           mux,
					ReadTimeout:       readTimeout,
					WriteTimeout:      writeTimeout,
					IdleTimeout:       idleTimeout,
					ReadHeaderTimeout: readHeaderTimeout,
				}
				convey.So(srv, convey.ShouldNotBeNil)
				convey.So(srv.ReadTimeout, convey.ShouldEqual, 10*time.Second)
			})
		})
	})
}

func TestUpdateSystemMetrics(t *testing.T) {
	convey.Convey("Given the system metrics updater", t, func() {
		convey.Convey("When updating once", func() {
			convey.So(updateSystemMetrics, convey.ShouldNotPanic)
		})
	})
}
