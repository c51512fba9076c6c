package rtcm

import "fmt"

// vtecOutOfRangeRaw is the coefficient encoding reserved to mean "value
// unavailable": the ±163.835 TECU-equivalent raw range edges.
const vtecOutOfRangeRaw = 32767 // 16-bit signed field, magnitude 163.835 at 0.005 resolution

// VtecHeader is the reduced SSR header carried by message 1264: it has
// no per-satellite mask since VTEC corrections are not per-satellite.
type VtecHeader struct {
	Epoch                 uint32
	UpdateIntervalIndex   uint8
	UpdateIntervalSeconds int
	MultipleMessage       bool
	IODSSR                uint8
	ProviderID            uint16
	SolutionID            uint8
}

// VtecLayer is one spherical-harmonic ionosphere layer: a height, a
// degree/order, and its cosine/sine coefficient grids in TECU.
type VtecLayer struct {
	HeightMetres float64
	Degree       int
	Order        int
	Cosine       [][]float64 // Cosine[n][m], n in [0,Degree], m in [0,min(n,Order)]
	Sine         [][]float64 // Sine[n][m], m in [1,min(n,Order)] (no m=0 term)
}

// VtecMessage is a decoded ionosphere VTEC message (1264).
type VtecMessage struct {
	Header VtecHeader
	Layers []VtecLayer
}

func decodeVtecHeader(r *Reader) VtecHeader {
	var h VtecHeader
	h.Epoch = r.U(20)
	h.UpdateIntervalIndex = uint8(r.U(4))
	idx := int(h.UpdateIntervalIndex)
	if idx < len(ssrUpdateIntervalSeconds) {
		h.UpdateIntervalSeconds = ssrUpdateIntervalSeconds[idx]
	}
	h.MultipleMessage = r.Bool()
	h.IODSSR = uint8(r.U(4))
	h.ProviderID = uint16(r.U(16))
	h.SolutionID = uint8(r.U(4))
	return h
}

// decodeVtecCoefficient decodes a single 16-bit signed VTEC coefficient
// at 0.005 TECU resolution, preserving the out-of-range sentinel value
// exactly rather than clamping it.
func decodeVtecCoefficient(r *Reader) float64 {
	raw := r.I(16)
	return float64(raw) * 0.005
}

func decodeVtecMessage(msg *RTCMMessage) (*VtecMessage, error) {
	r := NewReader(msg.Data)
	r.Skip(36)
	out := &VtecMessage{Header: decodeVtecHeader(r)}

	quality := r.U(9)
	_ = quality // quality indicator is informational; not consumed downstream
	numLayers := int(r.U(2)) + 1

	out.Layers = make([]VtecLayer, numLayers)
	for l := 0; l < numLayers; l++ {
		var layer VtecLayer
		layer.HeightMetres = float64(r.U(8)) * 10000 // 10 km resolution
		layer.Degree = int(r.U(4)) - 1
		layer.Order = int(r.U(4)) - 1

		layer.Cosine = make([][]float64, layer.Degree+1)
		layer.Sine = make([][]float64, layer.Degree+1)
		for n := 0; n <= layer.Degree; n++ {
			maxM := n
			if maxM > layer.Order {
				maxM = layer.Order
			}
			layer.Cosine[n] = make([]float64, maxM+1)
			layer.Sine[n] = make([]float64, maxM+1)
		}
		for n := 0; n <= layer.Degree; n++ {
			maxM := n
			if maxM > layer.Order {
				maxM = layer.Order
			}
			for m := 0; m <= maxM; m++ {
				layer.Cosine[n][m] = decodeVtecCoefficient(r)
			}
		}
		for n := 1; n <= layer.Degree; n++ {
			maxM := n
			if maxM > layer.Order {
				maxM = layer.Order
			}
			for m := 1; m <= maxM; m++ {
				layer.Sine[n][m] = decodeVtecCoefficient(r)
			}
		}
		out.Layers[l] = layer
	}
	if r.Remaining() < 0 {
		return nil, fmt.Errorf("%w: type %d", errSchedulePayloadMismatch, msg.Type)
	}
	return out, nil
}
