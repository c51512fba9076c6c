package rtcm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSyncFrameZeroLengthFrame(t *testing.T) {
	// D3 00 00 + CRC-24Q(D3 00 00) = 47 EA BD: a zero-length frame.
	buf := []byte{0xD3, 0x00, 0x00, 0x47, 0xEA, 0xBD}

	frame, msgType, consumed, err := syncFrame(buf)
	require.NoError(t, err)
	require.Equal(t, 6, consumed)
	require.Equal(t, buf, frame)
	require.Equal(t, 0, msgType)
}

func TestSyncFrameAdvancesOnCRCMismatch(t *testing.T) {
	buf := []byte{0xD3, 0x00, 0x00, 0x00, 0x00, 0x00, 0xD3, 0x00, 0x00, 0x47, 0xEA, 0xBD}

	_, _, consumed, err := syncFrame(buf)
	require.NoError(t, err)
	require.Equal(t, len(buf), consumed)
}

func TestSyncFramePreambleInsidePayloadRejected(t *testing.T) {
	// A spurious 0xD3 with a valid-looking zero-length header but wrong
	// CRC bytes is rejected; the scanner advances one byte at a time and
	// still finds the real frame that follows.
	bogus := []byte{0xD3, 0x00, 0x00, 0xFF, 0xFF, 0xFF}
	valid := []byte{0xD3, 0x00, 0x00, 0x47, 0xEA, 0xBD}
	buf := append(bogus, valid...)

	_, _, consumed, err := syncFrame(buf)
	require.NoError(t, err)
	require.Equal(t, len(buf), consumed)
}

func TestSyncFrameIncompleteStream(t *testing.T) {
	buf := []byte{0xD3, 0x00}
	_, _, _, err := syncFrame(buf)
	require.ErrorIs(t, err, ErrIncompleteMessage)
}

func TestSyncFrameTruncatedFinalFrameDoesNotPanic(t *testing.T) {
	buf := []byte{0xD3, 0x00, 0x10, 0x01, 0x02} // declares a length longer than available data
	require.NotPanics(t, func() {
		_, _, _, _ = syncFrame(buf)
	})
}
