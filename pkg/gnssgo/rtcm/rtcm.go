// Package rtcm decodes the RTCM 3.x messages carrying GNSS SSR (State
// Space Representation) corrections and the broadcast ephemerides
// needed to apply them: frame synchronization and CRC-24Q validation,
// per-constellation ephemeris decoders, and the SSR orbit/clock/bias/
// URA/VTEC message family.
//
// Message types handled:
//
// Ephemeris:
//   - 1019: GPS Ephemeris
//   - 1020: GLONASS Ephemeris
//   - 1042: BeiDou Ephemeris
//   - 1044: QZSS Ephemeris
//   - 1045: Galileo Ephemeris (F/NAV)
//   - 1046: Galileo Ephemeris (I/NAV)
//
// State Space Representation (SSR):
//   - 1057-1061, 1063-1067, 1240-1251, 1258-1263, 1265-1268, 1270:
//     orbit, clock, combined orbit+clock, code bias, phase bias, and URA
//     corrections for GPS/GLONASS/Galileo/BeiDou/QZSS, and high-rate
//     clock corrections for Galileo/BeiDou/QZSS (1245, 1251, 1263)
//   - 1264: VTEC ionosphere correction
package rtcm

import (
	"errors"
	"fmt"
	"time"
)

const RTCM3PREAMB = 0xD3 // RTCM ver.3 frame preamble

var (
	ErrInvalidPreamble    = errors.New("invalid RTCM preamble")
	ErrMessageTooShort    = errors.New("RTCM message too short")
	ErrInvalidCRC         = errors.New("invalid RTCM CRC")
	ErrUnsupportedMessage = errors.New("unsupported RTCM message type")
	ErrIncompleteMessage  = errors.New("incomplete RTCM message")
)

// RTCMMessage is a single synchronized, CRC-validated RTCM 3 frame.
type RTCMMessage struct {
	Type      int
	Length    int
	Data      []byte
	Timestamp time.Time
	StationID uint16
}

// RTCMMessageStats tracks per-message-type counters for diagnostics.
type RTCMMessageStats struct {
	MessageType  int
	Count        int
	LastReceived time.Time
	TotalBytes   int
}

// RTCMParser turns a byte stream into a sequence of synchronized RTCM
// frames. It holds no goroutines and no pools: a single-threaded,
// synchronous pipeline, so each ParseRTCMMessage call runs entirely on
// the caller's goroutine.
type RTCMParser struct {
	buffer []byte
	stats  map[int]*RTCMMessageStats
}

// NewRTCMParser creates an empty parser.
func NewRTCMParser() *RTCMParser {
	return &RTCMParser{
		buffer: make([]byte, 0, 1024),
		stats:  make(map[int]*RTCMMessageStats),
	}
}

// ParseRTCMMessage appends data to the parser's internal buffer and
// extracts every complete, CRC-valid frame it now contains.
func (p *RTCMParser) ParseRTCMMessage(data []byte) ([]RTCMMessage, []byte, error) {
	p.buffer = append(p.buffer, data...)

	var messages []RTCMMessage
	for {
		frame, msgType, consumed, err := syncFrame(p.buffer)
		if errors.Is(err, ErrIncompleteMessage) {
			p.buffer = p.buffer[consumed:]
			break
		}

		msg := RTCMMessage{
			Type:      msgType,
			Length:    len(frame) - 6,
			Data:      append([]byte(nil), frame...),
			Timestamp: time.Now(),
			StationID: uint16(getBitU(frame, 36, 12)),
		}
		messages = append(messages, msg)
		p.updateStats(msg)
		p.buffer = p.buffer[consumed:]

		if len(p.buffer) == 0 {
			break
		}
	}
	return messages, p.buffer, nil
}

func (p *RTCMParser) updateStats(msg RTCMMessage) {
	stats, ok := p.stats[msg.Type]
	if !ok {
		stats = &RTCMMessageStats{MessageType: msg.Type}
		p.stats[msg.Type] = stats
	}
	stats.Count++
	stats.LastReceived = msg.Timestamp
	stats.TotalBytes += msg.Length
}

// GetStats returns per-message-type counters collected so far.
func (p *RTCMParser) GetStats() map[int]*RTCMMessageStats {
	return p.stats
}

// ValidateCRC reports whether msg's trailing CRC-24Q matches its body.
func ValidateCRC(msg *RTCMMessage) bool {
	if msg == nil {
		return false
	}
	return checkFrameCRC(msg.Data)
}

var ephemerisDecoders = map[int]func(*RTCMMessage) (interface{}, error){
	1019: func(m *RTCMMessage) (interface{}, error) { return decodeGPSEphemeris(m) },
	1020: func(m *RTCMMessage) (interface{}, error) { return decodeGLONASSEphemeris(m) },
	1042: func(m *RTCMMessage) (interface{}, error) { return decodeBeiDouEphemeris(m) },
	1044: func(m *RTCMMessage) (interface{}, error) { return decodeQZSSEphemeris(m) },
	1045: func(m *RTCMMessage) (interface{}, error) { return decodeGalileoFNAV(m) },
	1046: func(m *RTCMMessage) (interface{}, error) { return decodeGalileoINAV(m) },
}

// DecodeRTCMMessage decodes the content of a synchronized RTCM message
// according to its message number. It is the single fan-out point:
// everything downstream works against the decoded structures, never
// against raw bit offsets.
func DecodeRTCMMessage(msg *RTCMMessage) (interface{}, error) {
	if msg == nil {
		return nil, errors.New("nil message")
	}

	if decode, ok := ephemerisDecoders[msg.Type]; ok {
		return decode(msg)
	}

	if msg.Type == 1264 {
		return decodeVtecMessage(msg)
	}

	entry, ok := ssrCatalog[msg.Type]
	if !ok {
		return nil, fmt.Errorf("%w: type %d", ErrUnsupportedMessage, msg.Type)
	}
	switch entry.kind {
	case SSROrbit, SSRClock, SSROrbitClock:
		return decodeSSROrbitClockMessage(msg, entry)
	case SSRCodeBiasKind:
		return decodeSSRCodeBias(msg, entry)
	case SSRPhaseBiasKind:
		return decodeSSRPhaseBias(msg, entry)
	case SSRUra:
		return decodeSSRUra(msg, entry)
	case SSRHighRateClock:
		return decodeSSRHighRateClock(msg, entry)
	default:
		return nil, fmt.Errorf("%w: type %d", ErrUnsupportedMessage, msg.Type)
	}
}

// GetMessageTypeDescription returns a human-readable description of an
// RTCM message type.
func GetMessageTypeDescription(msgType int) string {
	if _, ok := ephemerisDecoders[msgType]; ok {
		switch msgType {
		case 1019:
			return "GPS Ephemeris"
		case 1020:
			return "GLONASS Ephemeris"
		case 1042:
			return "BeiDou Ephemeris"
		case 1044:
			return "QZSS Ephemeris"
		case 1045:
			return "Galileo Ephemeris (F/NAV)"
		case 1046:
			return "Galileo Ephemeris (I/NAV)"
		}
	}
	if msgType == 1264 {
		return "SSR VTEC Ionosphere Correction"
	}
	if entry, ok := ssrCatalog[msgType]; ok {
		switch entry.kind {
		case SSROrbit:
			return fmt.Sprintf("SSR Orbit Correction (%s)", entry.constellation)
		case SSRClock:
			return fmt.Sprintf("SSR Clock Correction (%s)", entry.constellation)
		case SSROrbitClock:
			return fmt.Sprintf("SSR Orbit+Clock Correction (%s)", entry.constellation)
		case SSRCodeBiasKind:
			return fmt.Sprintf("SSR Code Bias (%s)", entry.constellation)
		case SSRPhaseBiasKind:
			return fmt.Sprintf("SSR Phase Bias (%s)", entry.constellation)
		case SSRUra:
			return fmt.Sprintf("SSR URA (%s)", entry.constellation)
		case SSRHighRateClock:
			return fmt.Sprintf("SSR High-Rate Clock (%s)", entry.constellation)
		}
	}
	return fmt.Sprintf("Unknown (%d)", msgType)
}
