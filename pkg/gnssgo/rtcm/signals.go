package rtcm

import "fmt"

// ErrUnresolvedTrackingMode is returned when a tracking-mode index has no
// entry in its constellation's signal table. A handful of indices are
// deliberately left unfilled in the real tables (GPS 3-4 and 13-14,
// assorted GLONASS slots) and callers must treat them as unknown rather
// than guessing a name.
var ErrUnresolvedTrackingMode = fmt.Errorf("unresolved tracking mode")

var gpsSignalTable = [32]string{
	0: "1C", 1: "1P", 2: "1W",
	5: "2C", 6: "2P", 7: "2W", 8: "2S", 9: "2L", 10: "2X",
	11: "5I", 12: "5Q", 15: "5X",
	16: "1S", 17: "1L", 20: "1X",
}

var glonassSignalTable = [32]string{
	0: "1C", 1: "1P", 6: "2C", 7: "2P",
}

var galileoSignalTable = [32]string{
	0: "1A", 1: "1B", 2: "1C", 3: "1X", 4: "1Z",
	5: "6A", 6: "6B", 7: "6C", 8: "6X",
	9: "7I", 10: "7Q", 11: "7X",
	12: "8I", 13: "8Q", 14: "8X",
	15: "5I", 16: "5Q", 17: "5X",
	18: "6Z",
}

var beidouSignalTable = [32]string{
	0: "2I", 1: "2Q", 2: "2X",
	3: "6I", 4: "6Q", 5: "6X",
	6: "7I", 7: "7Q", 8: "7X",
	9: "5D", 10: "5P", 11: "5X",
	12: "1D", 13: "1P", 14: "1X",
}

var qzssSignalTable = [32]string{
	0: "1C",
	7: "6S", 8: "6L", 9: "6X",
	13: "2S", 14: "2L", 15: "2X",
	20: "5I", 21: "5Q", 22: "5X",
	28: "1S", 29: "1L", 30: "1X",
}

func signalTable(c Constellation) [32]string {
	switch c {
	case GLONASS:
		return glonassSignalTable
	case Galileo:
		return galileoSignalTable
	case BeiDou:
		return beidouSignalTable
	case QZSS:
		return qzssSignalTable
	default:
		return gpsSignalTable
	}
}

// ResolveSignalName maps a per-constellation tracking-mode index to its
// two-character RTCM signal name. An index with no table entry resolves
// to ErrUnresolvedTrackingMode; the caller is expected to skip that
// signal entry while retaining the rest of the message.
func ResolveSignalName(c Constellation, index uint8) (string, error) {
	if int(index) >= len(gpsSignalTable) {
		return "", fmt.Errorf("%w: index %d out of range", ErrUnresolvedTrackingMode, index)
	}
	name := signalTable(c)[index]
	if name == "" {
		return "", fmt.Errorf("%w: %s index %d", ErrUnresolvedTrackingMode, c, index)
	}
	return name, nil
}
