package refresh_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/damianoneill/lawbridge/document"
	"github.com/damianoneill/lawbridge/refresh"
	"github.com/damianoneill/lawbridge/timecode"
)

func tc(hh, mm, ss, ff byte) timecode.Timecode {
	return timecode.Timecode{HH: hh, MM: mm, SS: ss, FF: ff}
}

func TestBufferRefreshReplacesMiddleRange(t *testing.T) {
	doc := document.New()
	c := refresh.New(refresh.BufferMode, doc)

	doc.InsertText("AA")
	doc.OnTimecode(tc(0, 0, 0, 0).Frames(), doc.Insertion())
	doc.InsertText("BB")
	doc.OnTimecode(tc(0, 0, 1, 0).Frames(), doc.Insertion())
	doc.InsertText("CC")

	require.NoError(t, c.Begin(tc(0, 0, 0, 0), tc(0, 0, 1, 0)))
	require.True(t, c.Active())

	target := c.Target()
	target.InsertText("XYZ")

	c.End()
	assert.False(t, c.Active())
	assert.Equal(t, "AAXYZCC", doc.Text())
}

func TestStreamRefreshWithInRegionBackspace(t *testing.T) {
	doc := document.New()
	c := refresh.New(refresh.StreamMode, doc)

	doc.InsertText("AA")
	doc.OnTimecode(tc(0, 0, 0, 0).Frames(), doc.Insertion())
	doc.InsertText("BB")
	doc.OnTimecode(tc(0, 0, 1, 0).Frames(), doc.Insertion())
	doc.InsertText("CC")

	require.NoError(t, c.Begin(tc(0, 0, 0, 0), tc(0, 0, 1, 0)))
	assert.Equal(t, "AACC", doc.Text())
	assert.Equal(t, 2, doc.Insertion())

	doc.DeleteBackspace(c.DeleteLowerBound())
	assert.Equal(t, "AACC", doc.Text(), "backspace at the lower bound is a no-op")

	c.Target().InsertText("X")
	assert.Equal(t, "AAXCC", doc.Text())

	c.End()
	assert.Equal(t, 5, doc.Insertion(), "cursor moves to the new document end")
}

func TestNestedRefreshRejected(t *testing.T) {
	doc := document.New()
	c := refresh.New(refresh.BufferMode, doc)

	require.NoError(t, c.Begin(tc(0, 0, 0, 0), tc(0, 0, 1, 0)))
	err := c.Begin(tc(0, 0, 2, 0), tc(0, 0, 3, 0))
	assert.ErrorIs(t, err, refresh.ErrNestedRefresh)
}

func TestEndOutsideRefreshIsNoop(t *testing.T) {
	doc := document.New()
	doc.InsertText("AB")
	c := refresh.New(refresh.BufferMode, doc)
	c.End()
	assert.Equal(t, "AB", doc.Text())
}

func TestEmptyIndexReplacesWholeDocument(t *testing.T) {
	doc := document.New()
	doc.InsertText("HELLO")
	c := refresh.New(refresh.BufferMode, doc)

	require.NoError(t, c.Begin(tc(0, 0, 0, 0), tc(0, 0, 1, 0)))
	c.Target().InsertText("content")
	c.End()
	assert.Equal(t, "content", doc.Text())
}

func TestPreventSaveCopiedFromScratchOnEnd(t *testing.T) {
	doc := document.New()
	c := refresh.New(refresh.BufferMode, doc)

	require.NoError(t, c.Begin(tc(0, 0, 0, 0), tc(0, 0, 1, 0)))
	c.Target().OnPreventSave()
	c.End()
	assert.True(t, doc.PreventSave())
}

func TestMirrorPreventSaveAffectsMainDuringRefresh(t *testing.T) {
	doc := document.New()
	c := refresh.New(refresh.BufferMode, doc)

	require.NoError(t, c.Begin(tc(0, 0, 0, 0), tc(0, 0, 1, 0)))
	c.MirrorPreventSave()
	assert.True(t, doc.PreventSave(), "K mirrors onto main even while targeting the scratch document")
}

func TestRangeResolutionSwapsInvertedTimecodes(t *testing.T) {
	doc := document.New()
	doc.InsertText("ABCDEFGH")
	doc.OnTimecode(tc(0, 0, 1, 0).Frames(), 2)
	doc.OnTimecode(tc(0, 0, 2, 0).Frames(), 6)
	c := refresh.New(refresh.BufferMode, doc)

	// end before start on the wire; controller must treat it as [1s, 2s].
	require.NoError(t, c.Begin(tc(0, 0, 2, 0), tc(0, 0, 1, 0)))
	c.Target().InsertText("X")
	c.End()
	assert.Equal(t, "ABXGH", doc.Text())
}

func TestStartAnchorFallsBackToNearestBefore(t *testing.T) {
	doc := document.New()
	doc.InsertText("0123456789")
	doc.OnTimecode(tc(0, 0, 5, 0).Frames(), 5) // only key: 5s -> offset 5

	c := refresh.New(refresh.BufferMode, doc)
	// start (8s) is after the only key, so ceiling fails and the start
	// anchor falls back to the nearest key before it (5s -> 5); end (9s)
	// resolves normally via floor to the same key.
	require.NoError(t, c.Begin(tc(0, 0, 8, 0), tc(0, 0, 9, 0)))
	c.Target().InsertText("Y")
	c.End()
	assert.Equal(t, "01234Y56789", doc.Text())
}

func TestEndAnchorFallsBackToNearestAfter(t *testing.T) {
	doc := document.New()
	doc.InsertText("0123456789")
	doc.OnTimecode(tc(0, 0, 5, 0).Frames(), 5) // only key: 5s -> offset 5

	c := refresh.New(refresh.BufferMode, doc)
	// end (2s) is before the only key, so floor fails and the end anchor
	// falls back to the nearest key after it (5s -> 5); start (1s)
	// resolves normally via ceiling to the same key.
	require.NoError(t, c.Begin(tc(0, 0, 1, 0), tc(0, 0, 2, 0)))
	c.Target().InsertText("Y")
	c.End()
	assert.Equal(t, "01234Y56789", doc.Text())
}
