package rtcm

import (
	"github.com/goblimey/go-crc24q/crc24q"
)

// checkFrameCRC validates the trailing 24-bit CRC of a complete RTCM
// frame (header + payload + CRC), the same hash-and-compare-bytes shape
// used for real RTCM streams elsewhere in this lineage: the CRC is
// computed over everything but the last three bytes and compared
// byte-by-byte against them.
func checkFrameCRC(frame []byte) bool {
	if len(frame) < 6 {
		return false
	}
	body := frame[:len(frame)-3]
	want := crc24q.Hash(body)
	return crc24q.HiByte(want) == frame[len(frame)-3] &&
		crc24q.MiByte(want) == frame[len(frame)-2] &&
		crc24q.LoByte(want) == frame[len(frame)-1]
}

// appendFrameCRC appends the 24-bit CRC to a header+payload buffer,
// producing a frame that checkFrameCRC accepts.
func appendFrameCRC(headerAndPayload []byte) []byte {
	c := crc24q.Hash(headerAndPayload)
	return append(headerAndPayload, crc24q.HiByte(c), crc24q.MiByte(c), crc24q.LoByte(c))
}

// syncFrame scans buf for the next complete, CRC-valid RTCM 3 frame.
// If the 3-byte header cannot be read, it reports incomplete and waits
// for more data; if a
// candidate frame's CRC fails, it advances one byte and resumes the
// preamble search rather than trusting the declared length. It returns
// the frame (including header and CRC), the message type, the number of
// bytes consumed from buf, and ErrIncompleteMessage if no complete frame
// was found (nil otherwise).
func syncFrame(buf []byte) (frame []byte, msgType int, consumed int, err error) {
	for i := 0; i < len(buf); i++ {
		if buf[i] != RTCM3PREAMB {
			continue
		}
		rest := buf[i:]
		if len(rest) < 3 {
			return nil, 0, i, ErrIncompleteMessage
		}
		length := int(getBitU(rest, 14, 10))
		total := 3 + length + 3
		if len(rest) < total {
			return nil, 0, i, ErrIncompleteMessage
		}
		candidate := rest[:total]
		if !checkFrameCRC(candidate) {
			// CRC mismatch: do not trust the length, advance one byte
			// and keep scanning from the next position.
			continue
		}
		msgType = int(getBitU(candidate, 24, 12))
		return candidate, msgType, i + total, nil
	}
	return nil, 0, len(buf), ErrIncompleteMessage
}
