// Package frametest provides the frame-construction helper described by
// spec.md section 6: a way for tests to build well-formed
// STX|cmd|payload|ETX byte sequences without duplicating the wire-format
// knowledge that belongs to the frame package. It is test-only
// infrastructure and is never imported by non-test code.
package frametest

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/damianoneill/lawbridge/frame"
)

// commandLengths mirrors frame's private command table; duplicated here
// because frame.Scanner intentionally doesn't export its dispatch table,
// and this helper must reject the same malformed input the real decoder
// would reject.
var commandLengths = map[byte]int{
	'P': 2,
	'N': 1,
	'F': 1,
	'T': 4,
	'R': 8,
	'E': 0,
	'D': 0,
	'K': 0,
}

// Build returns STX|cmd|payload|ETX. It returns an error if cmd is not one
// of the eight recognized commands, or if len(payload) doesn't match that
// command's declared length.
func Build(cmd byte, payload []byte) ([]byte, error) {
	want, ok := commandLengths[cmd]
	if !ok {
		return nil, errors.Errorf("frametest: unknown command %q", cmd)
	}
	if len(payload) != want {
		return nil, errors.Errorf("frametest: command %q wants %d payload bytes, got %d", cmd, want, len(payload))
	}

	out := make([]byte, 0, len(payload)+3)
	out = append(out, frame.STX, cmd)
	out = append(out, payload...)
	out = append(out, frame.ETX)
	return out, nil
}

// TC returns the 4-byte wire encoding of a timecode.
func TC(hh, mm, ss, ff byte) [4]byte {
	return [4]byte{hh, mm, ss, ff}
}

// LE16 returns the little-endian 2-byte encoding of n, as used by the P
// (page) command's payload.
func LE16(n uint16) [2]byte {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], n)
	return b
}
