// Package timecode implements the LawBridge wire timecode: four unsigned
// octets (HH, MM, SS, FF) reduced to a total 30fps frame count for ordering.
package timecode

import "fmt"

// FramesPerSecond is the frame rate assumed by the FF field.
const FramesPerSecond = 30

// Timecode is a four-octet (HH, MM, SS, FF) point in media time. Field
// ranges are not validated; callers may supply out-of-range minutes or
// seconds and only the derived frame count is used.
type Timecode struct {
	HH, MM, SS, FF byte
}

// FromBytes builds a Timecode from its wire representation, one byte per
// field in (HH, MM, SS, FF) order.
func FromBytes(b [4]byte) Timecode {
	return Timecode{HH: b[0], MM: b[1], SS: b[2], FF: b[3]}
}

// Bytes returns the wire representation of tc.
func (tc Timecode) Bytes() [4]byte {
	return [4]byte{tc.HH, tc.MM, tc.SS, tc.FF}
}

// Frames returns the total frame count used as tc's sort key:
// ((HH*60+MM)*60+SS)*30+FF.
func (tc Timecode) Frames() int {
	return (((int(tc.HH)*60)+int(tc.MM))*60+int(tc.SS))*FramesPerSecond + int(tc.FF)
}

// Before reports whether tc sorts before other by frame count.
func (tc Timecode) Before(other Timecode) bool {
	return tc.Frames() < other.Frames()
}

// String renders tc as zero-padded HH:MM:SS:FF, for trace/log output.
func (tc Timecode) String() string {
	return fmt.Sprintf("%02d:%02d:%02d:%02d", tc.HH, tc.MM, tc.SS, tc.FF)
}
