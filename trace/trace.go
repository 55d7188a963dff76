// Package trace defines optional observation hooks for a LawBridge
// decoding session, mirroring the teacher's ClientTrace pattern: a caller
// supplies whichever hooks it cares about, and the rest are filled in
// with no-ops via mergo so call sites never need a nil check.
package trace

import (
	"log"

	"github.com/imdario/mergo"

	"github.com/damianoneill/lawbridge/refresh"
	"github.com/damianoneill/lawbridge/timecode"
)

// Hooks defines the events a caller may observe while a Parser decodes a
// byte stream. Every field is optional.
type Hooks struct {
	// CommandDispatched is called after a recognized command frame has
	// been fully applied to its active target.
	CommandDispatched func(id string, cmd byte, payload []byte)

	// UnknownCommand is called when a command byte isn't recognized; the
	// frame is discarded, not an error.
	UnknownCommand func(id string, cmd byte)

	// RefreshBegin is called when an R command starts a refresh.
	RefreshBegin func(id string, mode refresh.Mode, start, end timecode.Timecode, startPos, endPos int)

	// RefreshEnd is called when an E command finalizes an active refresh.
	RefreshEnd func(id string, mode refresh.Mode)

	// NestedRefreshRejected is called when an R command arrives while a
	// refresh is already active.
	NestedRefreshRejected func(id string)

	// FramingError is called when a frame's expected ETX position holds
	// something else.
	FramingError func(id string, err error)

	// TextSubstituted is called whenever a non-ASCII byte is replaced by
	// the substitution character.
	TextSubstituted func(id string, original byte)
}

// Merge fills any nil field of h with the corresponding field from
// NoOpHooks, so every field is callable afterward.
func Merge(h *Hooks) *Hooks {
	if h == nil {
		h = &Hooks{}
	}
	_ = mergo.Merge(h, NoOpHooks)
	return h
}

// NoOpHooks does nothing for every event; it is the base every supplied
// Hooks value is merged against.
var NoOpHooks = &Hooks{
	CommandDispatched:     func(id string, cmd byte, payload []byte) {},
	UnknownCommand:        func(id string, cmd byte) {},
	RefreshBegin:          func(id string, mode refresh.Mode, start, end timecode.Timecode, startPos, endPos int) {},
	RefreshEnd:            func(id string, mode refresh.Mode) {},
	NestedRefreshRejected: func(id string) {},
	FramingError:          func(id string, err error) {},
	TextSubstituted:       func(id string, original byte) {},
}

// Default logs every event with the standard library logger, in the style
// of the teacher's DiagnosticLoggingHooks.
var Default = &Hooks{
	CommandDispatched: func(id string, cmd byte, payload []byte) {
		log.Printf("lawbridge[%s] command dispatched: %q payload=%v", id, cmd, payload)
	},
	UnknownCommand: func(id string, cmd byte) {
		log.Printf("lawbridge[%s] unknown command ignored: %q", id, cmd)
	},
	RefreshBegin: func(id string, mode refresh.Mode, start, end timecode.Timecode, startPos, endPos int) {
		log.Printf("lawbridge[%s] refresh begin mode=%s range=[%s,%s] resolved=[%d,%d)", id, mode, start, end, startPos, endPos)
	},
	RefreshEnd: func(id string, mode refresh.Mode) {
		log.Printf("lawbridge[%s] refresh end mode=%s", id, mode)
	},
	NestedRefreshRejected: func(id string) {
		log.Printf("lawbridge[%s] nested refresh rejected", id)
	},
	FramingError: func(id string, err error) {
		log.Printf("lawbridge[%s] framing error: %v", id, err)
	},
	TextSubstituted: func(id string, original byte) {
		log.Printf("lawbridge[%s] non-ASCII byte %#x substituted", id, original)
	},
}
