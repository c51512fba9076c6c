package ephstore

import (
	"github.com/submeter/ssrosr/pkg/gnssgo/gtime"
	"github.com/submeter/ssrosr/pkg/gnssgo/rtcm"
)

// NewKeplerianEntry resolves e's raw broadcast week against gpsWeekBase,
// a config-derived base rather than a blind +1024 rollover assumption,
// and returns the Entry ready for Store.Add.
func NewKeplerianEntry(e *rtcm.KeplerianEphemeris, gpsWeekBase int) Entry {
	var week int
	switch e.Constellation {
	case rtcm.Galileo:
		week = gtime.ResolveGalileoWeek(gpsWeekBase, int(e.RawWeek))
	case rtcm.BeiDou:
		week = gtime.ResolveBeiDouWeek(gpsWeekBase, int(e.RawWeek))
	default: // GPS, QZSS
		week = gtime.ResolveBroadcastWeek(gpsWeekBase, int(e.RawWeek))
	}

	abs := float64(week)*gtime.SECONDS_IN_WEEK + e.Toe
	if e.Constellation == rtcm.BeiDou {
		// BDT runs gtime.BeiDouGPSOffset seconds behind GPST.
		abs += gtime.BeiDouGPSOffset
	}
	return Entry{AbsoluteSeconds: abs, AbsoluteWeek: week, Keplerian: e}
}

// NewGlonassEntry resolves e's NT day number, within the four-year
// interval inferred from the configured calendar year (the decoded e.N4
// is not used), to an absolute GPS time for its reference instant tb,
// applying the GPS-UTC leap-second offset (tb is treated as UTC-based).
func NewGlonassEntry(e *rtcm.GLONASSEphemeris, configYear int) Entry {
	n4 := gtime.InferGlonassN4(configYear)
	date := gtime.GlonassDate(n4, int(e.NT))
	dayStart := gtime.Epoch2Time([6]float64{
		float64(date.Year()), float64(date.Month()), float64(date.Day()), 0, 0, 0,
	})
	// dayStart.Time is Unix seconds (UTC); rebase to GPS-epoch seconds and
	// add tb, then convert UTC to GPS time via the leap-second offset.
	utcSecondsSinceGPSEpoch := float64(dayStart.Time-gtime.GPS_EPOCH) + float64(e.Tb)
	gpsSeconds := utcSecondsSinceGPSEpoch + float64(gtime.LeapSeconds(date))
	return Entry{AbsoluteSeconds: gpsSeconds, Glonass: e}
}
