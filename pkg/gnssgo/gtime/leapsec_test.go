package gtime

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGPSWeekBaseRebaseScenario(t *testing.T) {
	// 2019 day 100 falls in GPS week 2048; a raw broadcast week of 1023
	// rebases to the nearest matching week, 2047 (1*1024 + 1023).
	base := GPSWeekBase(2019, 100)
	require.Equal(t, 2047, ResolveBroadcastWeek(base, 1023))
}

func TestNearestWeekRoundsToClosestCycle(t *testing.T) {
	require.Equal(t, 1024, NearestWeek(1030, 1024, 0))
	require.Equal(t, 2048, NearestWeek(2040, 1024, 0))
}

func TestResolveGalileoWeekSharesGPSEpoch(t *testing.T) {
	require.Equal(t, 0, ResolveGalileoWeek(0, 0))
	require.Equal(t, 4096, ResolveGalileoWeek(4100, 0))
}

func TestResolveBeiDouWeekOffsetsFromBDTEpoch(t *testing.T) {
	gpsWeekBase := GPSWeekBase(2019, 100)
	offset := bdtToGPSWeekOffset()
	localBase := gpsWeekBase - offset
	raw := ((localBase % 8192) + 8192) % 8192

	resolved := ResolveBeiDouWeek(gpsWeekBase, raw)
	require.Equal(t, gpsWeekBase, resolved)
}

func TestInferGlonassN4AndDateRoundtrip(t *testing.T) {
	// 2023 lies in the interval starting 2020-01-01; 2020 (366 days),
	// 2021 and 2022 (365 each) precede it, so 2023-01-01 is NT = 1097.
	n4 := InferGlonassN4(2023)
	d := GlonassDate(n4, 1097)
	require.Equal(t, 2023, d.Year())
	require.Equal(t, 1, d.YearDay())
}
