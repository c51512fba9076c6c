// Package emit writes fixed-column text dumps of decoded RTCM messages
// and OSR results, labelling each row with its message number and
// constellation: one row per record, "n/a" for anything not present.
package emit

import (
	"fmt"
	"io"

	"github.com/submeter/ssrosr/pkg/gnssgo/osr"
	"github.com/submeter/ssrosr/pkg/gnssgo/rtcm"
)

// SSRWriter dumps every decoded SSR message to a `.ssr` text stream.
type SSRWriter struct {
	w io.Writer
}

// NewSSRWriter returns a writer that emits a header row immediately.
func NewSSRWriter(w io.Writer) *SSRWriter {
	sw := &SSRWriter{w: w}
	fmt.Fprintf(w, "%-6s %-9s %-10s %6s %4s %6s %8s\n",
		"type", "const", "kind", "epoch", "nsat", "iod", "update_s")
	return sw
}

// WriteOrbitClock emits one row per orbit entry and one row per clock
// entry in msg (two rows per satellite for a combined orbit+clock message).
func (s *SSRWriter) WriteOrbitClock(msgType int, kind rtcm.SSRKind, msg *rtcm.SSROrbitClockMessage) {
	kindName := "orbit"
	if kind == rtcm.SSRClock {
		kindName = "clock"
	} else if kind == rtcm.SSROrbitClock {
		kindName = "orbit+clock"
	}
	for i := range msg.Orbits {
		o := msg.Orbits[i]
		fmt.Fprintf(s.w, "%-6d %-9s %-10s %6d %4d %6d %8d sat=%3d dr=%9.4f da=%9.4f dc=%9.4f\n",
			msgType, msg.Header.Constellation, kindName, msg.Header.Epoch, msg.Header.NumSatellites,
			msg.Header.IODSSR, msg.Header.UpdateIntervalSeconds, o.SatID,
			o.DeltaRadial, o.DeltaAlongTrack, o.DeltaCrossTrack)
	}
	for i := range msg.Clocks {
		k := msg.Clocks[i]
		fmt.Fprintf(s.w, "%-6d %-9s %-10s %6d %4d %6d %8d sat=%3d c0=%9.4f c1=%9.6f c2=%9.8f\n",
			msgType, msg.Header.Constellation, kindName, msg.Header.Epoch, msg.Header.NumSatellites,
			msg.Header.IODSSR, msg.Header.UpdateIntervalSeconds, k.SatID, k.C0, k.C1, k.C2)
	}
}

// WriteCodeBias emits one row per satellite/signal.
func (s *SSRWriter) WriteCodeBias(msgType int, msg *rtcm.SSRCodeBiasMessage) {
	for _, b := range msg.Biases {
		for i, signalID := range b.SignalIDs {
			name, err := rtcm.ResolveSignalName(msg.Header.Constellation, signalID)
			if err != nil {
				name = "??"
			}
			fmt.Fprintf(s.w, "%-6d %-9s %-10s %6d sat=%3d sig=%-3s bias=%9.4f\n",
				msgType, msg.Header.Constellation, "code_bias", msg.Header.Epoch, b.SatID, name, b.Biases[i])
		}
	}
}

// WritePhaseBias emits one row per satellite/signal.
func (s *SSRWriter) WritePhaseBias(msgType int, msg *rtcm.SSRPhaseBiasMessage) {
	for _, b := range msg.Biases {
		for _, sig := range b.Signals {
			name, err := rtcm.ResolveSignalName(msg.Header.Constellation, sig.SignalID)
			if err != nil {
				name = "??"
			}
			fmt.Fprintf(s.w, "%-6d %-9s %-10s %6d sat=%3d sig=%-3s bias=%9.4f yaw=%7.3f yawrate=%9.6f\n",
				msgType, msg.Header.Constellation, "phase_bias", msg.Header.Epoch, b.SatID, name,
				sig.Bias, b.YawRad*180/3.14159265358979, b.YawRateRadPerSec)
		}
	}
}

// WriteUra emits one row per satellite.
func (s *SSRWriter) WriteUra(msgType int, msg *rtcm.SSRUraMessage) {
	for _, e := range msg.Entries {
		fmt.Fprintf(s.w, "%-6d %-9s %-10s %6d sat=%3d class=%d value=%d ura=%9.4f\n",
			msgType, msg.Header.Constellation, "ura", msg.Header.Epoch, e.SatID, e.Class, e.Value, e.UraMetres)
	}
}

// WriteHighRateClock emits one row per satellite.
func (s *SSRWriter) WriteHighRateClock(msgType int, msg *rtcm.SSRHighRateClockMessage) {
	for _, e := range msg.Entries {
		fmt.Fprintf(s.w, "%-6d %-9s %-10s %6d sat=%3d corr=%9.4f\n",
			msgType, msg.Header.Constellation, "highrate_clock", msg.Header.Epoch, e.SatID, e.Correction)
	}
}

// IonWriter dumps decoded VTEC messages to a `.ion` text stream.
type IonWriter struct {
	w io.Writer
}

// NewIonWriter returns a writer that emits a header row immediately.
func NewIonWriter(w io.Writer) *IonWriter {
	iw := &IonWriter{w: w}
	fmt.Fprintf(w, "%-6s %6s %5s %5s %5s\n", "epoch", "layer", "hgt_m", "deg", "ord")
	return iw
}

// Write emits one row per layer in msg.
func (i *IonWriter) Write(msg *rtcm.VtecMessage) {
	for idx, layer := range msg.Layers {
		fmt.Fprintf(i.w, "%-6d %6d %5.0f %5d %5d\n",
			msg.Header.Epoch, idx, layer.HeightMetres, layer.Degree, layer.Order)
	}
}

// OSRWriter dumps resolved osr.Correction records to a `.osr` text
// stream, one fixed-column row per satellite.
type OSRWriter struct {
	w io.Writer
}

// NewOSRWriter returns a writer that emits a header row immediately.
func NewOSRWriter(w io.Writer) *OSRWriter {
	ow := &OSRWriter{w: w}
	fmt.Fprintf(w, "%-6s %-9s %4s %4s %8s %10s %10s %10s %10s %10s %10s %10s\n",
		"epoch", "const", "sat", "sig", "el_deg", "clock_m", "orbit_m", "iono_m", "shapiro_m", "windup_m", "pbias_m", "cbias_m")
	return ow
}

// Write emits one row per correction in corrections.
func (o *OSRWriter) Write(corrections []osr.Correction) {
	for _, c := range corrections {
		fmt.Fprintf(o.w, "%-6d %-9s %4d %4s %8.3f %s %s %s %10.4f %s %s %s\n",
			c.Epoch, c.Constellation, c.SatID, c.TrackingMode, c.ElevationDeg,
			column(c.ClockCorrection), column(c.OrbitCorrection), column(c.VtecDelay),
			c.Shapiro, column(c.WindupMetres), column(c.PhaseBias), column(c.CodeBias))
	}
}

// column formats an optional metres value, or "n/a" if absent.
func column(v *float64) string {
	if v == nil {
		return fmt.Sprintf("%10s", "n/a")
	}
	return fmt.Sprintf("%10.4f", *v)
}
