// Package ephstore holds the broadcast ephemeris state the orbit
// propagator needs: an ordered, per-satellite sequence of records keyed
// by their reference time, with nearest-in-time lookup.
package ephstore

import (
	"math"

	"github.com/submeter/ssrosr/pkg/gnssgo/rtcm"
)

// Entry is one stored ephemeris record, tagged with the absolute GPS
// time (seconds since the GPS epoch) its reference time resolves to.
// Exactly one of Keplerian/Glonass is populated.
type Entry struct {
	AbsoluteSeconds float64
	AbsoluteWeek    int // meaningful for Keplerian entries only
	Keplerian       *rtcm.KeplerianEphemeris
	Glonass         *rtcm.GLONASSEphemeris
}

type satKey struct {
	constellation rtcm.Constellation
	satID         uint8
}

// Store is the session's exclusive owner of every satellite's
// ephemeris history. There is no concurrent mutation, so it carries no
// lock.
type Store struct {
	bySat map[satKey][]Entry
}

// New returns an empty store.
func New() *Store {
	return &Store{bySat: make(map[satKey][]Entry)}
}

// Add inserts e for (constellation, satID). Insertion is idempotent on
// duplicate reference time: if an entry with the same AbsoluteSeconds
// already exists for this satellite, Add is a no-op and returns false.
func (s *Store) Add(constellation rtcm.Constellation, satID uint8, e Entry) bool {
	key := satKey{constellation, satID}
	for _, existing := range s.bySat[key] {
		if existing.AbsoluteSeconds == e.AbsoluteSeconds {
			return false
		}
	}
	s.bySat[key] = append(s.bySat[key], e)
	return true
}

// Satellites lists every satellite ID with at least one stored record
// for constellation.
func (s *Store) Satellites(constellation rtcm.Constellation) []uint8 {
	var out []uint8
	for key := range s.bySat {
		if key.constellation == constellation {
			out = append(out, key.satID)
		}
	}
	return out
}

// Nearest returns the stored entry whose AbsoluteSeconds is closest to
// atSeconds, or ok=false if the satellite has no record at all.
func (s *Store) Nearest(constellation rtcm.Constellation, satID uint8, atSeconds float64) (Entry, bool) {
	entries := s.bySat[satKey{constellation, satID}]
	if len(entries) == 0 {
		return Entry{}, false
	}
	best := entries[0]
	bestDiff := math.Abs(best.AbsoluteSeconds - atSeconds)
	for _, e := range entries[1:] {
		d := math.Abs(e.AbsoluteSeconds - atSeconds)
		if d < bestDiff {
			best, bestDiff = e, d
		}
	}
	return best, true
}
