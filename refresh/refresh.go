// Package refresh implements the LawBridge refresh state machine: the
// transition between NORMAL and REFRESH on the R/E commands, range
// resolution of a timecode pair against a Document's time index, and the
// two refresh delivery strategies (buffered-atomic and live-streaming).
package refresh

import (
	"github.com/pkg/errors"

	"github.com/damianoneill/lawbridge/document"
	"github.com/damianoneill/lawbridge/timecode"
)

// Mode selects how a refresh is applied.
type Mode int

const (
	// BufferMode accumulates refresh content in a scratch document and
	// atomically replaces the resolved range on End.
	BufferMode Mode = iota
	// StreamMode deletes the resolved range immediately on Begin and
	// applies subsequent edits live to the main document.
	StreamMode
)

func (m Mode) String() string {
	if m == StreamMode {
		return "stream"
	}
	return "buffer"
}

// ErrNestedRefresh is returned by Begin when a refresh is already active.
var ErrNestedRefresh = errors.New("refresh: nested refresh")

// Controller tracks whether the parser is in NORMAL or REFRESH mode and
// owns the scratch document used by BufferMode.
type Controller struct {
	mode Mode
	main *document.Document

	active     bool
	startTC    timecode.Timecode
	endTC      timecode.Timecode
	startPos   int
	endPos     int
	scratch    *document.Document
	lowerBound int
}

// New returns a Controller operating in mode against main.
func New(mode Mode, main *document.Document) *Controller {
	return &Controller{mode: mode, main: main}
}

// Mode returns the configured refresh strategy.
func (c *Controller) Mode() Mode {
	return c.mode
}

// Active reports whether a refresh is currently in progress.
func (c *Controller) Active() bool {
	return c.active
}

// StartPos returns the resolved start offset of the current refresh range,
// or 0 when no refresh is active (End clears it).
func (c *Controller) StartPos() int {
	return c.startPos
}

// EndPos returns the resolved end offset of the current refresh range, or
// 0 when no refresh is active (End clears it).
func (c *Controller) EndPos() int {
	return c.endPos
}

// Target returns the document that text bytes and state-mutating commands
// should currently be routed to: the main document in NORMAL or in
// StreamMode REFRESH, or the scratch document in BufferMode REFRESH.
func (c *Controller) Target() *document.Document {
	if c.active && c.mode == BufferMode {
		return c.scratch
	}
	return c.main
}

// DeleteLowerBound returns the lower bound that must be enforced on D
// (backspace) commands for the current target: 0 outside a refresh or
// inside a BufferMode scratch document, or the refresh start offset inside
// a StreamMode refresh.
func (c *Controller) DeleteLowerBound() int {
	if c.active && c.mode == StreamMode {
		return c.lowerBound
	}
	return 0
}

// Begin starts a refresh for the timecode range [start, end], resolving it
// against main's time index. It returns ErrNestedRefresh if a refresh is
// already active.
func (c *Controller) Begin(start, end timecode.Timecode) error {
	if c.active {
		return ErrNestedRefresh
	}

	startPos, endPos := resolveRange(c.main, start, end)

	c.active = true
	c.startTC, c.endTC = start, end
	c.startPos, c.endPos = startPos, endPos

	switch c.mode {
	case BufferMode:
		c.scratch = document.New()
		c.scratch.SetInsertion(0)
	case StreamMode:
		c.main.DeleteRange(startPos, endPos)
		c.main.SetInsertion(startPos)
		c.lowerBound = startPos
	}
	return nil
}

// End finalizes an active refresh: BufferMode atomically swaps the
// resolved range for the scratch document's content and copies its
// prevent-save flag onto main; StreamMode moves the cursor to the end of
// the (now live-edited) document. A refresh that isn't active is a no-op,
// matching spec.md's "E outside REFRESH is silently ignored".
func (c *Controller) End() {
	if !c.active {
		return
	}

	switch c.mode {
	case BufferMode:
		c.main.DeleteRange(c.startPos, c.endPos)
		c.main.SetInsertion(c.startPos)
		c.main.InsertText(c.scratch.Text())
		c.main.SetPreventSave(c.scratch.PreventSave())
	case StreamMode:
		c.main.SetInsertion(c.main.Length())
	}

	c.active = false
	c.scratch = nil
	c.startPos, c.endPos = 0, 0
	c.lowerBound = 0
}

// MirrorPreventSave latches prevent-save directly on the main document,
// even when the active target is the scratch document. K mirrors onto
// main immediately during a refresh, per spec.md.
func (c *Controller) MirrorPreventSave() {
	c.main.OnPreventSave()
}

// resolveRange maps [start, end] timecodes to a [startPos, endPos) offset
// range in main, per spec.md's range-resolution policy: the start anchor
// is the smallest time-index key >= start (else the largest key <= start,
// else 0); the end anchor is the largest key <= end (else the smallest key
// >= end, else main's length). Both are clamped into [0, length] and
// swapped if inverted.
func resolveRange(main *document.Document, start, end timecode.Timecode) (startPos, endPos int) {
	startFrames, endFrames := start.Frames(), end.Frames()
	if endFrames < startFrames {
		startFrames, endFrames = endFrames, startFrames
	}

	length := main.Length()

	if !main.HasTimeIndex() {
		return 0, length
	}

	if off, ok := main.Ceiling(startFrames); ok {
		startPos = off
	} else if off, ok := main.Floor(startFrames); ok {
		startPos = off
	} else {
		startPos = 0
	}

	if off, ok := main.Floor(endFrames); ok {
		endPos = off
	} else if off, ok := main.Ceiling(endFrames); ok {
		endPos = off
	} else {
		endPos = length
	}

	startPos = clamp(startPos, 0, length)
	endPos = clamp(endPos, 0, length)
	if endPos < startPos {
		startPos, endPos = endPos, startPos
	}
	return startPos, endPos
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
