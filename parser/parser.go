// Package parser wires the frame scanner, the document, and the refresh
// controller together into the LawBridge decoder's public API: construct
// a Parser, Feed it bytes, read back the live document.
package parser

import (
	"encoding/binary"
	stderrors "errors"

	"github.com/google/uuid"
	"github.com/imdario/mergo"
	"github.com/pkg/errors"

	"github.com/damianoneill/lawbridge/document"
	"github.com/damianoneill/lawbridge/frame"
	"github.com/damianoneill/lawbridge/refresh"
	"github.com/damianoneill/lawbridge/timecode"
	"github.com/damianoneill/lawbridge/trace"
)

// RefreshMode selects the refresh delivery strategy; re-exported from
// package refresh so callers need only import package parser.
type RefreshMode = refresh.Mode

// The two refresh delivery strategies.
const (
	BufferMode = refresh.BufferMode
	StreamMode = refresh.StreamMode
)

// config holds Parser construction options, resolved with DefaultConfig
// via mergo before use.
type config struct {
	Hooks *trace.Hooks
}

// DefaultConfig is merged into every caller-supplied config, in the style
// of the teacher's DefaultConfig/mergo.Merge pattern.
var DefaultConfig = config{
	Hooks: trace.NoOpHooks,
}

// Option configures a Parser at construction time.
type Option func(*config)

// WithHooks installs observation hooks. Unset fields of hooks are filled
// from trace.NoOpHooks.
func WithHooks(hooks *trace.Hooks) Option {
	return func(c *config) {
		c.Hooks = trace.Merge(hooks)
	}
}

// Parser decodes a single LawBridge byte stream into a live Document. It
// is not safe for concurrent use; feed it from a single goroutine.
type Parser struct {
	id      uuid.UUID
	doc     *document.Document
	refresh *refresh.Controller
	scanner *frame.Scanner
	hooks   *trace.Hooks
}

// New constructs a Parser using the given refresh strategy.
func New(mode RefreshMode, opts ...Option) *Parser {
	resolved := config{}
	for _, opt := range opts {
		opt(&resolved)
	}
	_ = mergo.Merge(&resolved, DefaultConfig)

	doc := document.New()
	p := &Parser{
		id:      uuid.New(),
		doc:     doc,
		refresh: refresh.New(mode, doc),
		hooks:   trace.Merge(resolved.Hooks),
	}
	p.scanner = frame.NewScanner(p)
	p.scanner.OnSubstitute(func(original byte) {
		p.hooks.TextSubstituted(p.ID(), original)
	})
	p.scanner.OnUnknown(func(cmd byte) {
		p.hooks.UnknownCommand(p.ID(), cmd)
	})
	return p
}

// ID returns the Parser's instance identifier, used to correlate trace log
// lines from multiple concurrently-decoded streams.
func (p *Parser) ID() string {
	return p.id.String()
}

// Feed consumes a chunk of the wire stream. Feeding the same bytes split
// across multiple calls produces identical document state to feeding them
// in one call; the parser's internal state (frame/refresh) persists across
// calls. Feed returns a FramingError or ErrNestedRefresh if one is
// encountered; the byte that caused it and everything after it in this
// call are not processed.
func (p *Parser) Feed(data []byte) error {
	if err := p.scanner.Feed(data); err != nil {
		var framingErr *frame.FramingError
		if stderrors.As(err, &framingErr) {
			p.hooks.FramingError(p.ID(), framingErr)
		}
		return errors.Wrap(err, "lawbridge: feed")
	}
	return nil
}

// DocumentText returns a snapshot of the live document's text.
func (p *Parser) DocumentText() string {
	return p.doc.Text()
}

// CurrentPage returns the latched page and whether one has been set.
func (p *Parser) CurrentPage() (uint16, bool) {
	return p.doc.CurrentPage()
}

// CurrentLine returns the latched line and whether one has been set.
func (p *Parser) CurrentLine() (uint8, bool) {
	return p.doc.CurrentLine()
}

// CurrentFormat returns the latched format identifier and whether one has
// been set.
func (p *Parser) CurrentFormat() (uint8, bool) {
	return p.doc.CurrentFormat()
}

// PreventSave reports the latched prevent-save flag.
func (p *Parser) PreventSave() bool {
	return p.doc.PreventSave()
}

// TimeIndex returns a snapshot of the frame-count-to-offset map recorded
// by T commands so far.
func (p *Parser) TimeIndex() map[int]int {
	return p.doc.TimeIndex()
}

// HandleText implements frame.Handler. It is called by the scanner for
// every byte outside a frame and routes it to the currently active edit
// target.
func (p *Parser) HandleText(b byte) error {
	p.refresh.Target().InsertText(string(b))
	return nil
}

// HandleCommand implements frame.Handler. It is called by the scanner once
// a recognized command frame has fully arrived.
func (p *Parser) HandleCommand(cmd byte, payload []byte) error {
	switch cmd {
	case 'P':
		p.refresh.Target().OnPage(binary.LittleEndian.Uint16(payload))
	case 'N':
		p.refresh.Target().OnLine(payload[0])
	case 'F':
		p.refresh.Target().OnFormat(payload[0])
	case 'T':
		tc := timecode.FromBytes([4]byte(payload))
		target := p.refresh.Target()
		target.OnTimecode(tc.Frames(), target.Insertion())
	case 'D':
		p.refresh.Target().DeleteBackspace(p.refresh.DeleteLowerBound())
	case 'K':
		p.refresh.Target().OnPreventSave()
		if p.refresh.Active() {
			p.refresh.MirrorPreventSave()
		}
	case 'R':
		if err := p.beginRefresh(payload); err != nil {
			return err
		}
	case 'E':
		p.endRefresh()
	}
	p.hooks.CommandDispatched(p.ID(), cmd, payload)
	return nil
}

func (p *Parser) beginRefresh(payload []byte) error {
	start := timecode.FromBytes([4]byte(payload[0:4]))
	end := timecode.FromBytes([4]byte(payload[4:8]))

	if err := p.refresh.Begin(start, end); err != nil {
		p.hooks.NestedRefreshRejected(p.ID())
		return err
	}

	p.hooks.RefreshBegin(p.ID(), p.refresh.Mode(), start, end, p.refreshStartPos(), p.refreshEndPos())
	return nil
}

func (p *Parser) endRefresh() {
	mode := p.refresh.Mode()
	wasActive := p.refresh.Active()
	p.refresh.End()
	if wasActive {
		p.hooks.RefreshEnd(p.ID(), mode)
	}
}

// refreshStartPos and refreshEndPos exist only to feed the RefreshBegin
// trace hook with the resolved range; they are not part of the decoding
// semantics.
func (p *Parser) refreshStartPos() int { return p.refresh.StartPos() }
func (p *Parser) refreshEndPos() int   { return p.refresh.EndPos() }
