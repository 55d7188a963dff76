package timecode_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/damianoneill/lawbridge/timecode"
)

func TestFrames(t *testing.T) {
	tests := []struct {
		name string
		tc   timecode.Timecode
		want int
	}{
		{"zero", timecode.Timecode{}, 0},
		{"one second", timecode.Timecode{SS: 1}, 30},
		{"one minute", timecode.Timecode{MM: 1}, 1800},
		{"one hour", timecode.Timecode{HH: 1}, 108000},
		{"frames only", timecode.Timecode{FF: 15}, 15},
		{"composite", timecode.Timecode{HH: 1, MM: 2, SS: 3, FF: 4}, ((1*60+2)*60+3)*30 + 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.tc.Frames(), "frame count for %s", tt.name)
		})
	}
}

func TestFromBytesRoundTrip(t *testing.T) {
	b := [4]byte{1, 2, 3, 4}
	tc := timecode.FromBytes(b)
	assert.Equal(t, b, tc.Bytes(), "Bytes should round-trip FromBytes")
}

func TestBefore(t *testing.T) {
	a := timecode.Timecode{SS: 1}
	b := timecode.Timecode{SS: 2}
	assert.True(t, a.Before(b))
	assert.False(t, b.Before(a))
}

func TestNoRangeValidation(t *testing.T) {
	// MM=99 is accepted and simply contributes to the frame count, per spec.
	tc := timecode.Timecode{MM: 99}
	assert.Equal(t, 99*60*30, tc.Frames())
}

func TestString(t *testing.T) {
	tc := timecode.Timecode{HH: 1, MM: 2, SS: 3, FF: 4}
	assert.Equal(t, "01:02:03:04", tc.String())
}
