// Package ssrstore holds the decoded SSR correction state the OSR
// translator walks: per-epoch, per-constellation buckets of the latest
// correction of each kind, plus an ionosphere timeline tracked
// independently of the constellation epochs.
package ssrstore

import (
	"fmt"
	"sort"

	"github.com/submeter/ssrosr/pkg/gnssgo/rtcm"
)

// Bucket holds the most recently received correction of each kind for
// one (epoch, constellation) pair. A later Ingest of the same kind
// overwrites the earlier one.
type Bucket struct {
	Orbit         *rtcm.SSROrbitClockMessage
	Clock         *rtcm.SSROrbitClockMessage
	OrbitClock    *rtcm.SSROrbitClockMessage
	CodeBias      *rtcm.SSRCodeBiasMessage
	PhaseBias     *rtcm.SSRPhaseBiasMessage
	Ura           *rtcm.SSRUraMessage
	HighRateClock *rtcm.SSRHighRateClockMessage
}

// Epoch is every constellation's SSR state at one epoch key.
type Epoch struct {
	Seconds        uint32
	constellations map[rtcm.Constellation]*Bucket
	Vtec           *rtcm.VtecMessage
}

// Constellations lists the constellations with any correction data at
// this epoch.
func (e *Epoch) Constellations() []rtcm.Constellation {
	out := make([]rtcm.Constellation, 0, len(e.constellations))
	for c := range e.constellations {
		out = append(out, c)
	}
	return out
}

// Bucket returns the bucket for c, or nil if c has no data this epoch.
func (e *Epoch) Bucket(c rtcm.Constellation) *Bucket {
	return e.constellations[c]
}

// Store is the session's exclusive owner of SSR correction state: no
// concurrent mutation, so it carries no lock.
type Store struct {
	epochs     map[uint32]*Epoch
	ionoEpochs []uint32 // ascending, de-duplicated
}

// New returns an empty store.
func New() *Store {
	return &Store{epochs: make(map[uint32]*Epoch)}
}

func (s *Store) epoch(seconds uint32) *Epoch {
	e, ok := s.epochs[seconds]
	if !ok {
		e = &Epoch{Seconds: seconds, constellations: make(map[rtcm.Constellation]*Bucket)}
		s.epochs[seconds] = e
	}
	return e
}

func (e *Epoch) bucket(c rtcm.Constellation) *Bucket {
	b, ok := e.constellations[c]
	if !ok {
		b = &Bucket{}
		e.constellations[c] = b
	}
	return b
}

// Ingest routes a decoded SSR or VTEC payload into its bucket, keyed by
// the epoch the message itself carries; VTEC messages are passed on to
// PutVtec. Together with PutVtec it is the store's only mutation path:
// callers never reach into a Bucket directly to mutate it.
func (s *Store) Ingest(msgType int, decoded interface{}) error {
	if vtec, ok := decoded.(*rtcm.VtecMessage); ok {
		s.PutVtec(vtec.Header.Epoch, vtec)
		return nil
	}

	kind, constellation, ok := rtcm.ClassifyMessage(msgType)
	if !ok {
		return fmt.Errorf("ssrstore: unclassified message type %d", msgType)
	}

	switch v := decoded.(type) {
	case *rtcm.SSROrbitClockMessage:
		b := s.epoch(v.Header.Epoch).bucket(constellation)
		switch kind {
		case rtcm.SSROrbit:
			b.Orbit = v
		case rtcm.SSRClock:
			b.Clock = v
		case rtcm.SSROrbitClock:
			b.OrbitClock = v
		default:
			return fmt.Errorf("ssrstore: kind/type mismatch for %d", msgType)
		}
	case *rtcm.SSRCodeBiasMessage:
		s.epoch(v.Header.Epoch).bucket(constellation).CodeBias = v
	case *rtcm.SSRPhaseBiasMessage:
		s.epoch(v.Header.Epoch).bucket(constellation).PhaseBias = v
	case *rtcm.SSRUraMessage:
		s.epoch(v.Header.Epoch).bucket(constellation).Ura = v
	case *rtcm.SSRHighRateClockMessage:
		s.epoch(v.Header.Epoch).bucket(constellation).HighRateClock = v
	default:
		return fmt.Errorf("ssrstore: unexpected decoded type for message %d", msgType)
	}
	return nil
}

// PutVtec stores the latest VTEC message for epoch seconds, tracking
// the epoch in the ionosphere timeline independent of constellation
// epochs.
func (s *Store) PutVtec(seconds uint32, msg *rtcm.VtecMessage) {
	e := s.epoch(seconds)
	if e.Vtec == nil {
		s.ionoEpochs = append(s.ionoEpochs, seconds)
		sort.Slice(s.ionoEpochs, func(i, j int) bool { return s.ionoEpochs[i] < s.ionoEpochs[j] })
	}
	e.Vtec = msg
}

// Epochs returns every epoch key with any stored data, ascending.
func (s *Store) Epochs() []uint32 {
	out := make([]uint32, 0, len(s.epochs))
	for k := range s.epochs {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Get returns the epoch record for seconds, if any.
func (s *Store) Get(seconds uint32) (*Epoch, bool) {
	e, ok := s.epochs[seconds]
	return e, ok
}

// NearestIono returns the VTEC message whose epoch is closest to
// atSeconds, independent of which constellation epochs exist.
func (s *Store) NearestIono(atSeconds uint32) (*rtcm.VtecMessage, bool) {
	if len(s.ionoEpochs) == 0 {
		return nil, false
	}
	best := s.ionoEpochs[0]
	bestDiff := diff(best, atSeconds)
	for _, e := range s.ionoEpochs[1:] {
		if d := diff(e, atSeconds); d < bestDiff {
			best, bestDiff = e, d
		}
	}
	return s.epochs[best].Vtec, true
}

func diff(a, b uint32) uint32 {
	if a > b {
		return a - b
	}
	return b - a
}
