// Package document implements the character-addressable text buffer that
// backs a LawBridge decoding session: an insertion cursor, a sparse
// frame-count-to-offset time index, and small pieces of latched state
// (current page, current line, current format, prevent-save).
package document

import "sort"

// Document is a mutable ASCII text buffer with an insertion cursor and a
// time index. The zero value is a ready-to-use empty document.
type Document struct {
	chars     []byte
	insertion int

	timeKeys  []int // sorted, unique
	timeIndex map[int]int

	currentPage   *uint16
	currentLine   *uint8
	currentFormat *uint8
	preventSave   bool
}

// New returns an empty Document with its cursor at offset 0.
func New() *Document {
	return &Document{timeIndex: make(map[int]int)}
}

// SetInsertion clamps pos into [0, Length()] and sets it as the cursor.
func (d *Document) SetInsertion(pos int) {
	d.insertion = clamp(pos, 0, len(d.chars))
}

// Insertion returns the current cursor offset.
func (d *Document) Insertion() int {
	return d.insertion
}

// InsertText inserts s at the cursor and advances the cursor by len(s). A
// no-op for empty s.
func (d *Document) InsertText(s string) {
	if len(s) == 0 {
		return
	}
	pos := d.insertion
	grown := make([]byte, 0, len(d.chars)+len(s))
	grown = append(grown, d.chars[:pos]...)
	grown = append(grown, s...)
	grown = append(grown, d.chars[pos:]...)
	d.chars = grown
	d.insertion = pos + len(s)
}

// DeleteBackspace removes the character immediately before the cursor,
// unless the cursor is already at or below lower, or at the start of the
// document.
func (d *Document) DeleteBackspace(lower int) {
	if d.insertion > lower && d.insertion > 0 {
		d.chars = append(d.chars[:d.insertion-1], d.chars[d.insertion:]...)
		d.insertion--
	}
}

// DeleteRange clamps a and b into [0, Length()] and, if b>a, removes
// chars[a:b] and sets the cursor to a.
func (d *Document) DeleteRange(a, b int) {
	a = clamp(a, 0, len(d.chars))
	b = clamp(b, 0, len(d.chars))
	if b > a {
		d.chars = append(d.chars[:a], d.chars[b:]...)
		d.insertion = a
	}
}

// Length returns the number of characters currently in the document.
func (d *Document) Length() int {
	return len(d.chars)
}

// Text returns a snapshot of the document's full content.
func (d *Document) Text() string {
	return string(d.chars)
}

// OnPage sets the current page.
func (d *Document) OnPage(page uint16) {
	d.currentPage = &page
}

// CurrentPage returns the latched page and whether one has been set.
func (d *Document) CurrentPage() (uint16, bool) {
	if d.currentPage == nil {
		return 0, false
	}
	return *d.currentPage, true
}

// OnLine sets the current line.
func (d *Document) OnLine(line uint8) {
	d.currentLine = &line
}

// CurrentLine returns the latched line and whether one has been set.
func (d *Document) CurrentLine() (uint8, bool) {
	if d.currentLine == nil {
		return 0, false
	}
	return *d.currentLine, true
}

// OnFormat sets the current format identifier.
func (d *Document) OnFormat(format uint8) {
	d.currentFormat = &format
}

// CurrentFormat returns the latched format identifier and whether one has
// been set.
func (d *Document) CurrentFormat() (uint8, bool) {
	if d.currentFormat == nil {
		return 0, false
	}
	return *d.currentFormat, true
}

// OnPreventSave latches the prevent-save flag to true. The flag never
// clears on its own.
func (d *Document) OnPreventSave() {
	d.preventSave = true
}

// PreventSave reports the latched prevent-save flag.
func (d *Document) PreventSave() bool {
	return d.preventSave
}

// SetPreventSave overwrites the prevent-save flag directly, used by the
// refresh controller to copy a scratch document's flag onto the main one.
func (d *Document) SetPreventSave(v bool) {
	d.preventSave = v
}

// OnTimecode records offset against the frame count frames in the time
// index. A later write for the same frame count overwrites the earlier
// one; this is not a multimap. Existing entries are never rewritten by
// subsequent edits, so stored offsets may become stale relative to later
// insertions and deletions.
func (d *Document) OnTimecode(frames, offset int) {
	if d.timeIndex == nil {
		d.timeIndex = make(map[int]int)
	}
	if _, exists := d.timeIndex[frames]; !exists {
		i := sort.SearchInts(d.timeKeys, frames)
		d.timeKeys = append(d.timeKeys, 0)
		copy(d.timeKeys[i+1:], d.timeKeys[i:])
		d.timeKeys[i] = frames
	}
	d.timeIndex[frames] = offset
}

// TimeIndex returns a snapshot copy of the frame-count-to-offset map.
func (d *Document) TimeIndex() map[int]int {
	out := make(map[int]int, len(d.timeIndex))
	for k, v := range d.timeIndex {
		out[k] = v
	}
	return out
}

// Ceiling returns the smallest recorded frame count >= frames, and its
// offset, or ok=false if none exists.
func (d *Document) Ceiling(frames int) (offset int, ok bool) {
	i := sort.SearchInts(d.timeKeys, frames)
	if i == len(d.timeKeys) {
		return 0, false
	}
	return d.timeIndex[d.timeKeys[i]], true
}

// Floor returns the largest recorded frame count <= frames, and its
// offset, or ok=false if none exists.
func (d *Document) Floor(frames int) (offset int, ok bool) {
	i := sort.SearchInts(d.timeKeys, frames)
	if i < len(d.timeKeys) && d.timeKeys[i] == frames {
		return d.timeIndex[d.timeKeys[i]], true
	}
	if i == 0 {
		return 0, false
	}
	return d.timeIndex[d.timeKeys[i-1]], true
}

// HasTimeIndex reports whether any timecode has been recorded.
func (d *Document) HasTimeIndex() bool {
	return len(d.timeKeys) > 0
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
