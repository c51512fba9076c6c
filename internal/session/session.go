// Package session wires the decoding pipeline, ephemeris/SSR stores,
// orbit/iono/OSR evaluation, and text emitters into a single decoding
// run.
package session

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/submeter/ssrosr/internal/config"
	"github.com/submeter/ssrosr/pkg/gnssgo/emit"
	"github.com/submeter/ssrosr/pkg/gnssgo/ephstore"
	"github.com/submeter/ssrosr/pkg/gnssgo/geo"
	"github.com/submeter/ssrosr/pkg/gnssgo/gtime"
	"github.com/submeter/ssrosr/pkg/gnssgo/osr"
	"github.com/submeter/ssrosr/pkg/gnssgo/rtcm"
	"github.com/submeter/ssrosr/pkg/gnssgo/ssrstore"
)

// Session is a single decoding run's exclusive owner of every decoder
// state component: single-threaded, no locks.
type Session struct {
	id     uuid.UUID
	log    *logrus.Entry
	cfg    *config.Config
	eph    *ephstore.Store
	ssr    *ssrstore.Store
	pipe   *rtcm.Pipeline
	gpsWeekBase int
}

// New builds a session from cfg, registering the pipeline handlers that
// route ephemeris and SSR decodes into their stores.
func New(cfg *config.Config) *Session {
	id := uuid.New()
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger := logrus.New()
	logger.SetLevel(level)

	s := &Session{
		id:          id,
		log:         logger.WithField("session", id.String()),
		cfg:         cfg,
		eph:         ephstore.New(),
		ssr:         ssrstore.New(),
		pipe:        rtcm.NewPipeline(),
		gpsWeekBase: gtime.GPSWeekBase(cfg.Year, cfg.DayOfYear),
	}
	s.registerHandlers()
	return s
}

func (s *Session) registerHandlers() {
	s.pipe.OnMessageType(0, func(msg *rtcm.RTCMMessage, decoded interface{}) {
		switch v := decoded.(type) {
		case *rtcm.KeplerianEphemeris:
			entry := ephstore.NewKeplerianEntry(v, s.gpsWeekBase)
			s.eph.Add(v.Constellation, v.SatID, entry)
		case *rtcm.GLONASSEphemeris:
			entry := ephstore.NewGlonassEntry(v, s.cfg.Year)
			s.eph.Add(rtcm.GLONASS, v.SatID, entry)
		default:
			if err := s.ssr.Ingest(msg.Type, decoded); err != nil {
				s.log.WithError(err).Warn("unrouted decoded message")
			}
		}
	})
}

// Run reads every byte from r through the pipeline, then (unless
// decode-only) evaluates OSR corrections and writes every output file.
func (s *Session) Run(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("session: reading input: %w", err)
	}

	if err := s.pipe.ProcessData(data); err != nil {
		s.log.WithError(err).Debug("one or more frames failed to decode")
	}
	s.log.WithField("stats", s.pipe.GetStats()).Info("stream decoded")

	if s.cfg.DecodeOnly {
		return s.writeDecodeOnlyOutputs()
	}
	return s.writeFullOutputs()
}

func (s *Session) writeDecodeOnlyOutputs() error {
	return s.writeSSRAndIon()
}

func (s *Session) writeFullOutputs() error {
	if err := s.writeSSRAndIon(); err != nil {
		return err
	}

	rcvECEF := geo.Pos2Ecef(geo.Geodetic{
		LatRad: s.cfg.ReceiverLatDeg * degToRad,
		LonRad: s.cfg.ReceiverLonDeg * degToRad,
		Height: s.cfg.ReceiverHeightM,
	})

	dayStart := gtime.Epoch2Time([6]float64{float64(s.cfg.Year), 1, float64(s.cfg.DayOfYear), 0, 0, 0})
	dayStartAbsolute := float64(dayStart.Time - gtime.GPS_EPOCH)

	corrections := osr.Translate(s.eph, s.ssr, rcvECEF, osr.TimeBase{
		GPSWeek:                 s.gpsWeekBase,
		DayStartAbsoluteSeconds: dayStartAbsolute,
	})

	f, err := s.createOutput("osr")
	if err != nil {
		return err
	}
	defer f.Close()

	w := emit.NewOSRWriter(f)
	w.Write(corrections)
	s.log.WithField("records", len(corrections)).Info("osr corrections written")
	return nil
}

func (s *Session) writeSSRAndIon() error {
	ssrFile, err := s.createOutput("ssr")
	if err != nil {
		return err
	}
	defer ssrFile.Close()
	ssrWriter := emit.NewSSRWriter(ssrFile)

	ionFile, err := s.createOutput("ion")
	if err != nil {
		return err
	}
	defer ionFile.Close()
	ionWriter := emit.NewIonWriter(ionFile)

	for _, epochSeconds := range s.ssr.Epochs() {
		epoch, ok := s.ssr.Get(epochSeconds)
		if !ok {
			continue
		}
		if epoch.Vtec != nil {
			ionWriter.Write(epoch.Vtec)
		}
		for _, c := range epoch.Constellations() {
			b := epoch.Bucket(c)
			if b.Orbit != nil {
				ssrWriter.WriteOrbitClock(b.Orbit.Header.MessageType, rtcm.SSROrbit, b.Orbit)
			}
			if b.Clock != nil {
				ssrWriter.WriteOrbitClock(b.Clock.Header.MessageType, rtcm.SSRClock, b.Clock)
			}
			if b.OrbitClock != nil {
				ssrWriter.WriteOrbitClock(b.OrbitClock.Header.MessageType, rtcm.SSROrbitClock, b.OrbitClock)
			}
			if b.CodeBias != nil {
				ssrWriter.WriteCodeBias(b.CodeBias.Header.MessageType, b.CodeBias)
			}
			if b.PhaseBias != nil {
				ssrWriter.WritePhaseBias(b.PhaseBias.Header.MessageType, b.PhaseBias)
			}
			if b.Ura != nil {
				ssrWriter.WriteUra(b.Ura.Header.MessageType, b.Ura)
			}
			if b.HighRateClock != nil {
				ssrWriter.WriteHighRateClock(b.HighRateClock.Header.MessageType, b.HighRateClock)
			}
		}
	}
	return nil
}

func (s *Session) createOutput(extension string) (*os.File, error) {
	name := fmt.Sprintf("%s.%s", s.id.String(), extension)
	path := filepath.Join(s.cfg.OutputDir, name)
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("session: creating %s: %w", path, err)
	}
	return f, nil
}

const degToRad = 3.14159265358979323846 / 180.0
