package rtcm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeVtecCoefficientOutOfRangeSentinelPreserved(t *testing.T) {
	w := newBitWriter(16)
	w.writeI(16, 32767)
	r := NewReader(w.buf)
	v := decodeVtecCoefficient(r)
	require.InDelta(t, 163.835, v, 1e-9)
}

// newSingleLayerVtecPayload builds a 1264 body with one layer, height
// 450km, degree=order=1, C00 = 10 TECU and every other coefficient zero.
func newSingleLayerVtecPayload() []byte {
	w := newBitWriter(36 + 49 + 9 + 2 + 16 + 3*16 + 16)
	w.pos = 36

	w.writeU(20, 0) // epoch
	w.writeU(4, 0)
	w.writeBool(false)
	w.writeU(4, 0)
	w.writeU(16, 0)
	w.writeU(4, 0)

	w.writeU(9, 0) // quality
	w.writeU(2, 0) // numLayers-1 = 0 -> 1 layer

	w.writeU(8, 45) // height = 45 * 10km = 450km
	w.writeU(4, 2)  // degree field carries degree+1 -> degree=1
	w.writeU(4, 2)  // order field carries order+1 -> order=1

	w.writeI(16, 2000) // C[0][0] = 10 TECU
	w.writeI(16, 0)     // C[1][0]
	w.writeI(16, 0)     // C[1][1]
	w.writeI(16, 0)     // S[1][1]

	return w.buf
}

func TestDecodeVtecSingleLayerScenario(t *testing.T) {
	msg := &RTCMMessage{Type: 1264, Data: newSingleLayerVtecPayload()}

	out, err := decodeVtecMessage(msg)
	require.NoError(t, err)
	require.Len(t, out.Layers, 1)

	layer := out.Layers[0]
	require.InDelta(t, 450000, layer.HeightMetres, 1e-6)
	require.Equal(t, 1, layer.Degree)
	require.Equal(t, 1, layer.Order)
	require.InDelta(t, 10.0, layer.Cosine[0][0], 1e-9)
	require.InDelta(t, 0.0, layer.Cosine[1][0], 1e-9)
	require.InDelta(t, 0.0, layer.Cosine[1][1], 1e-9)
	require.InDelta(t, 0.0, layer.Sine[1][1], 1e-9)
}
