package emit

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/submeter/ssrosr/pkg/gnssgo/osr"
	"github.com/submeter/ssrosr/pkg/gnssgo/rtcm"
)

func TestOSRWriterRendersNAForAbsentCorrections(t *testing.T) {
	var buf bytes.Buffer
	w := NewOSRWriter(&buf)

	w.Write([]osr.Correction{{
		Epoch:         100,
		Constellation: rtcm.GPS,
		SatID:         5,
		TrackingMode:  "1C",
		ElevationDeg:  45,
		Shapiro:       0.01,
	}})

	out := buf.String()
	require.Contains(t, out, "n/a")
	require.True(t, strings.Contains(out, "epoch"))
}

func TestOSRWriterRendersPresentCorrection(t *testing.T) {
	var buf bytes.Buffer
	w := NewOSRWriter(&buf)

	clock := 0.1
	w.Write([]osr.Correction{{
		Epoch:           100,
		Constellation:   rtcm.GPS,
		SatID:           5,
		TrackingMode:    "1C",
		ElevationDeg:    45,
		ClockCorrection: &clock,
	}})

	require.Contains(t, buf.String(), "0.1000")
}

func TestSSRWriterWritesHeaderImmediately(t *testing.T) {
	var buf bytes.Buffer
	NewSSRWriter(&buf)
	require.Contains(t, buf.String(), "type")
}
