package ephstore

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/submeter/ssrosr/pkg/gnssgo/rtcm"
)

func TestAddIsIdempotentOnDuplicateReferenceTime(t *testing.T) {
	s := New()
	e := Entry{AbsoluteSeconds: 1000}

	require.True(t, s.Add(rtcm.GPS, 1, e))
	require.False(t, s.Add(rtcm.GPS, 1, e))

	entries := s.bySat[satKey{rtcm.GPS, 1}]
	require.Len(t, entries, 1)
}

func TestNearestPicksClosestEntry(t *testing.T) {
	s := New()
	s.Add(rtcm.GPS, 1, Entry{AbsoluteSeconds: 0})
	s.Add(rtcm.GPS, 1, Entry{AbsoluteSeconds: 7200})
	s.Add(rtcm.GPS, 1, Entry{AbsoluteSeconds: 3600})

	got, ok := s.Nearest(rtcm.GPS, 1, 3700)
	require.True(t, ok)
	require.Equal(t, 3600.0, got.AbsoluteSeconds)
}

func TestNearestReportsMissingSatellite(t *testing.T) {
	s := New()
	_, ok := s.Nearest(rtcm.GPS, 9, 0)
	require.False(t, ok)
}

func TestSatellitesFiltersByConstellation(t *testing.T) {
	s := New()
	s.Add(rtcm.GPS, 1, Entry{AbsoluteSeconds: 0})
	s.Add(rtcm.GLONASS, 2, Entry{AbsoluteSeconds: 0})

	gps := s.Satellites(rtcm.GPS)
	require.Equal(t, []uint8{1}, gps)
}
