package config_test

import (
	"testing"
	"time"

	"github.com/okian/pacpong/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.LogFormat, convey.ShouldEqual, "text")
			convey.So(cfg.Timezone, convey.ShouldEqual, "Europe/Amsterdam")
			convey.So(cfg.DecayDays, convey.ShouldEqual, 28)
			convey.So(cfg.NotPlayedScore, convey.ShouldEqual, 0.5)
			convey.So(cfg.RunTimeout, convey.ShouldEqual, 2*time.Minute)
			convey.So(cfg.Store, convey.ShouldEqual, config.StoreSheets)
			convey.So(cfg.Sheets.MatchesSheet, convey.ShouldEqual, "matches")
			convey.So(cfg.Sheets.ResultsSheet, convey.ShouldEqual, "results")
			convey.So(cfg.Metrics.PushgatewayURL, convey.ShouldBeEmpty)
			convey.So(cfg.Metrics.Enabled, convey.ShouldBeTrue)
			convey.So(cfg.Metrics.Namespace, convey.ShouldEqual, "pacpong")
			convey.So(cfg.Metrics.Subsystem, convey.ShouldEqual, "ranking")
		})

		convey.Convey("Then the timezone should resolve", func() {
			loc, err := cfg.Location()
			convey.So(err, convey.ShouldBeNil)
			convey.So(loc.String(), convey.ShouldEqual, "Europe/Amsterdam")
		})

		convey.Convey("Then it should not validate without a spreadsheet id", func() {
			convey.So(cfg.Validate(), convey.ShouldNotBeNil)
		})
	})
}
