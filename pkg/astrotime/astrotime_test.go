package astrotime

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestJulianDate(t *testing.T) {
	Convey("Given well-known epochs", t, func() {
		Convey("Then J2000.0 maps to 2451545.0", func() {
			So(JulianDate(time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC)), ShouldAlmostEqual, 2451545.0, 1e-9)
		})

		Convey("Then the end of HST Cycle 23 maps to 2457662.5", func() {
			So(JulianDate(time.Date(2016, 10, 1, 0, 0, 0, 0, time.UTC)), ShouldAlmostEqual, 2457662.5, 1e-9)
		})

		Convey("Then non-UTC zones are converted first", func() {
			zone := time.FixedZone("UTC+2", 2*3600)
			So(JulianDate(time.Date(2016, 10, 1, 2, 0, 0, 0, zone)), ShouldAlmostEqual, 2457662.5, 1e-9)
		})

		Convey("Then sub-second precision is kept", func() {
			jd := JulianDate(time.Date(2000, 1, 1, 12, 0, 0, 500_000_000, time.UTC))
			So(jd, ShouldAlmostEqual, 2451545.0+0.5/secondsPerDay, 1e-9)
		})
	})
}

func TestTime(t *testing.T) {
	Convey("Given a Julian Date", t, func() {
		Convey("Then the Unix epoch converts back exactly", func() {
			So(Time(unixEpochJD).Equal(time.Unix(0, 0)), ShouldBeTrue)
		})

		Convey("Then it round-trips with JulianDate to within a millisecond", func() {
			want := time.Date(2016, 9, 30, 17, 33, 12, 0, time.UTC)
			got := Time(JulianDate(want))
			So(got.Sub(want), ShouldBeLessThan, time.Millisecond)
			So(want.Sub(got), ShouldBeLessThan, time.Millisecond)
		})
	})
}

func TestParse(t *testing.T) {
	Convey("Given calendar strings", t, func() {
		Convey("Then plain dates and RFC3339 are accepted", func() {
			jd, err := Parse("2016-10-01")
			So(err, ShouldBeNil)
			So(jd, ShouldAlmostEqual, 2457662.5, 1e-9)

			jd, err = Parse(" 2016-10-01T00:00:00Z ")
			So(err, ShouldBeNil)
			So(jd, ShouldAlmostEqual, 2457662.5, 1e-9)
		})

		Convey("Then garbage is rejected", func() {
			_, err := Parse("next tuesday")
			So(err, ShouldNotBeNil)
		})
	})
}
