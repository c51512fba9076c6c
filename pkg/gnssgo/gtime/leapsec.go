package gtime

import (
	"math"
	"time"
)

// LeapSeconds is the step-function GPS-UTC leap-second table. It is
// deliberately data, not derived from the stream: GPS time is ahead of
// UTC by this many seconds at the start of each period.
//
// 2006-01-01..2008-12-31: 14
// 2009-01-01..2011-12-31: 15
// 2012-01-01..2012-06-30: 15, 2012-07-01 onward: 16
// 2013-01-01..2014-12-31: 16
// 2015-01-01..2015-06-30: 16, 2015-07-01 onward: 17
// 2016-01-01..2016-06-30: 17, 2016-07-01 onward: 18
// 2017-01-01 onward: 18
var leapSecondTable = []struct {
	from    time.Time
	seconds int
}{
	{time.Date(2006, 1, 1, 0, 0, 0, 0, time.UTC), 14},
	{time.Date(2009, 1, 1, 0, 0, 0, 0, time.UTC), 15},
	{time.Date(2012, 7, 1, 0, 0, 0, 0, time.UTC), 16},
	{time.Date(2015, 7, 1, 0, 0, 0, 0, time.UTC), 17},
	{time.Date(2016, 7, 1, 0, 0, 0, 0, time.UTC), 18},
}

// LeapSeconds returns GPS-UTC at the given date. Dates before the table's
// first entry return the first entry's value rather than extrapolating.
func LeapSeconds(t time.Time) int {
	seconds := leapSecondTable[0].seconds
	for _, e := range leapSecondTable {
		if !t.Before(e.from) {
			seconds = e.seconds
		}
	}
	return seconds
}

// BeiDouGPSOffset is the constant BDT-GPS time-system offset (seconds).
// Unlike GPS-UTC this is a fixed system-time constant, not a leap second,
// and must never be looked up from the leap-second table.
const BeiDouGPSOffset = 14

// GPSWeekBase derives the reference GPS week from a calendar year and
// day-of-year: the full (not rolled-over) GPS week containing that date.
// Broadcast week fields are resolved against it with NearestWeek, which
// picks the week with matching low bits closest to this reference,
// rather than the unconditional +1024 folklore adjustment, which is only
// valid for the 1999-2019 rollover window.
func GPSWeekBase(year, dayOfYear int) int {
	ref := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, dayOfYear-1)
	fullWeek := int(ref.Sub(gpsEpoch).Hours() / 24 / 7)
	return fullWeek
}

var gpsEpoch = time.Date(1980, 1, 6, 0, 0, 0, 0, time.UTC)

// ResolveBroadcastWeek combines a configuration-derived week base with a
// 10-bit broadcast week field, replacing the source's blanket "+1024".
func ResolveBroadcastWeek(base, broadcastWeek int) int {
	return NearestWeek(base, 1024, broadcastWeek)
}

// NearestWeek returns the value of the form k*modulus+raw (raw in
// [0,modulus)) closest to base, the general form of the GPS-week
// rollover adjustment. It is reused for every broadcast week field that
// rolls over on a cycle other than GPS's 1024 weeks.
func NearestWeek(base, modulus, raw int) int {
	k := int(math.Round(float64(base-raw) / float64(modulus)))
	return k*modulus + raw
}

// bdsEpoch is the BeiDou Time origin, 2006-01-01 00:00:00 UTC.
var bdsEpoch = time.Date(2006, 1, 1, 0, 0, 0, 0, time.UTC)

// bdtToGPSWeekOffset is the number of GPS weeks between the GPS epoch
// and the BeiDou Time epoch: BDT week 0 falls in GPS week bdtToGPSWeekOffset.
func bdtToGPSWeekOffset() int {
	return int(bdsEpoch.Sub(gpsEpoch).Hours() / 24 / 7)
}

// ResolveGalileoWeek rebases a 12-bit GST broadcast week (4096-week
// rollover) against a GPS week base; GST week numbering shares the GPS
// epoch, so no additional offset applies.
func ResolveGalileoWeek(gpsWeekBase, broadcastWeek int) int {
	return NearestWeek(gpsWeekBase, 4096, broadcastWeek)
}

// ResolveBeiDouWeek rebases a 13-bit BDT broadcast week (8192-week
// rollover, BDT epoch 2006-01-01) against a GPS week base, returning the
// result expressed in GPS week numbering.
func ResolveBeiDouWeek(gpsWeekBase, broadcastWeek int) int {
	offset := bdtToGPSWeekOffset()
	localBase := gpsWeekBase - offset
	return NearestWeek(localBase, 8192, broadcastWeek) + offset
}

// GlonassFourYearEpoch returns the start of GLONASS four-year interval
// n4 (n4=1 is 1996-01-01), the calendar scheme the GLONASS NT/N4 day
// fields are counted from.
func GlonassFourYearEpoch(n4 int) time.Time {
	return time.Date(1996, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(4*(n4-1), 0, 0)
}

// GlonassDate resolves the calendar date for a GLONASS (N4, NT) pair:
// NT counts days from 1 within four-year interval N4.
func GlonassDate(n4, nt int) time.Time {
	return GlonassFourYearEpoch(n4).AddDate(0, 0, nt-1)
}

// InferGlonassN4 derives the four-year interval number from a
// configuration year, the way the decoder infers it since RTCM's N4
// field alone does not carry the calendar century.
func InferGlonassN4(year int) int {
	return (year-1996)/4 + 1
}
