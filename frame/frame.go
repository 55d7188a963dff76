// Package frame implements the low-level byte-driven state machine that
// recognizes LawBridge wire frames: STX, a one-byte command, a
// fixed-length payload, and ETX. Bytes outside a frame are text; bytes
// inside a frame for a recognized command are handed to a Handler once
// the frame closes. Unknown commands are drained to the next ETX and their
// payload discarded; an optional callback is still notified of the command
// byte.
package frame

import "fmt"

// Control bytes.
const (
	STX = 0x02
	ETX = 0x03
)

// SubstitutionChar replaces any text byte >= 0x80, since the wire format
// carries ASCII only. Chosen to match the conventional "unrepresentable
// character" placeholder and kept stable across runs.
const SubstitutionChar = '?'

// commandLengths gives the fixed payload length, in bytes, for each
// recognized command, not counting the command byte itself or the
// trailing ETX.
var commandLengths = map[byte]int{
	'P': 2, // Page (little-endian u16)
	'N': 1, // Line
	'F': 1, // Format
	'T': 4, // Timecode (HH,MM,SS,FF)
	'R': 8, // Refresh begin (startTC[4] || endTC[4])
	'E': 0, // Refresh end
	'D': 0, // Delete (backspace)
	'K': 0, // Prevent save
}

// Handler receives the decoded output of a Scanner: text bytes and
// completed recognized-command frames. A non-nil error returned from
// either method aborts the Scanner's current Feed call immediately.
type Handler interface {
	HandleText(b byte) error
	HandleCommand(cmd byte, payload []byte) error
}

// FramingError reports that the byte found at a frame's expected ETX
// position was not ETX.
type FramingError struct {
	Cmd byte
	Got byte
}

func (e *FramingError) Error() string {
	return fmt.Sprintf("frame: expected ETX after command %q, got %#x", e.Cmd, e.Got)
}

// inner scanner sub-state, valid only while inFrame is true.
type subState int

const (
	awaitingCommand subState = iota
	accumulatingPayload
)

// Scanner is a synchronous, single-threaded byte-at-a-time frame
// recognizer. Feeding the same bytes split across multiple calls to Feed
// produces identical Handler calls to feeding them in one call; the
// scanner's state persists across calls.
type Scanner struct {
	handler      Handler
	onSubstitute func(original byte)
	onUnknown    func(cmd byte)

	inFrame bool
	sub     subState

	cmd         byte
	known       bool
	expectedLen int
	payload     []byte
}

// NewScanner returns a Scanner that reports decoded text and commands to
// handler.
func NewScanner(handler Handler) *Scanner {
	return &Scanner{handler: handler}
}

// OnSubstitute registers a callback invoked whenever a non-ASCII text byte
// is replaced by SubstitutionChar, receiving the original byte.
func (s *Scanner) OnSubstitute(fn func(original byte)) {
	s.onSubstitute = fn
}

// OnUnknown registers a callback invoked whenever an unrecognized command's
// frame closes, receiving the command byte. The frame's payload is always
// discarded regardless of whether a callback is registered.
func (s *Scanner) OnUnknown(fn func(cmd byte)) {
	s.onUnknown = fn
}

// Feed processes data one byte at a time. On a FramingError, or on any
// error returned by the Handler, Feed stops at that byte and returns the
// error; no later bytes in data are processed. The scanner resets to its
// not-in-frame state after a FramingError, so the next Feed call begins
// fresh rather than staying wedged inside a malformed frame.
func (s *Scanner) Feed(data []byte) error {
	for _, b := range data {
		if err := s.feedByte(b); err != nil {
			return err
		}
	}
	return nil
}

func (s *Scanner) feedByte(b byte) error {
	if !s.inFrame {
		if b == STX {
			s.enterFrame()
			return nil
		}
		if b >= 0x80 && s.onSubstitute != nil {
			s.onSubstitute(b)
		}
		return s.handler.HandleText(substitute(b))
	}

	switch s.sub {
	case awaitingCommand:
		s.cmd = b
		if length, ok := commandLengths[b]; ok {
			s.known = true
			s.expectedLen = length
		} else {
			s.known = false
		}
		s.sub = accumulatingPayload
		return nil

	default: // accumulatingPayload
		if !s.known {
			if b == ETX {
				cmd := s.cmd
				s.resetFrame()
				if s.onUnknown != nil {
					s.onUnknown(cmd)
				}
			}
			// Unknown command payload bytes are discarded; Ignored, not an error.
			return nil
		}

		if len(s.payload) < s.expectedLen {
			s.payload = append(s.payload, b)
			return nil
		}

		if b != ETX {
			cmd := s.cmd
			s.resetFrame()
			return &FramingError{Cmd: cmd, Got: b}
		}

		cmd, payload := s.cmd, s.payload
		s.resetFrame()
		return s.handler.HandleCommand(cmd, payload)
	}
}

func (s *Scanner) enterFrame() {
	s.inFrame = true
	s.sub = awaitingCommand
	s.cmd = 0
	s.known = false
	s.expectedLen = 0
	s.payload = nil
}

func (s *Scanner) resetFrame() {
	s.inFrame = false
	s.sub = awaitingCommand
	s.cmd = 0
	s.known = false
	s.expectedLen = 0
	s.payload = nil
}

func substitute(b byte) byte {
	if b >= 0x80 {
		return SubstitutionChar
	}
	return b
}
