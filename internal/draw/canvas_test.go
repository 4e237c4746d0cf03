package draw_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomz197/voidblocks/internal/draw"
)

func render(t *testing.T, c *draw.Canvas) string {
	t.Helper()
	var out bytes.Buffer
	cw := draw.NewChunkWriter(&out, c.OffsetCol(), c.OffsetRow())
	c.Render(cw)
	require.NoError(t, cw.Flush())
	return out.String()
}

func TestCanvasFirstRenderWritesEverything(t *testing.T) {
	c := draw.NewCanvas(3, 2)
	c.Text(0, 0, "ab", draw.ColorDefault)

	out := render(t, c)

	assert.Equal(t, "\033[1;1Hab \033[2;1H   ", out)
}

func TestCanvasRenderOnlyChanges(t *testing.T) {
	c := draw.NewCanvas(4, 2)
	render(t, c)

	assert.Empty(t, render(t, c), "nothing changed")

	c.Set(2, 1, 'x', draw.ColorDefault)
	assert.Equal(t, "\033[2;3Hx", render(t, c))

	c.Clear()
	assert.Equal(t, "\033[2;3H ", render(t, c))
}

func TestCanvasRenderColors(t *testing.T) {
	c := draw.NewCanvas(3, 1)
	render(t, c)

	c.Set(0, 0, '#', draw.ColorRed)
	c.Set(1, 0, '#', draw.ColorRed)
	c.Set(2, 0, '#', draw.ColorBlue)

	out := render(t, c)

	assert.Equal(t, 1, strings.Count(out, string(draw.ColorRed)))
	assert.Equal(t, 1, strings.Count(out, string(draw.ColorBlue)))
	assert.True(t, strings.HasSuffix(out, string(draw.ColorReset)))
	assert.Equal(t, 1, strings.Count(out, "H"), "one cursor move for a contiguous run")
}

func TestCanvasOffset(t *testing.T) {
	c := draw.NewCanvas(2, 1)
	c.SetOffset(5, 3)
	c.Set(1, 0, 'z', draw.ColorDefault)

	out := render(t, c)

	assert.True(t, strings.HasPrefix(out, "\033[4;6H"))
}

func TestCanvasForceRedraw(t *testing.T) {
	c := draw.NewCanvas(2, 1)
	render(t, c)

	c.ForceRedraw()

	assert.Equal(t, "\033[1;1H  ", render(t, c))
}

func TestCanvasResize(t *testing.T) {
	c := draw.NewCanvas(2, 2)
	c.Set(0, 0, 'a', draw.ColorDefault)
	render(t, c)

	c.Resize(2, 2)
	assert.Equal(t, 'a', c.Get(0, 0).Ch, "same size keeps content")

	c.Resize(3, 1)
	assert.Equal(t, 3, c.Width())
	assert.Equal(t, 1, c.Height())
	assert.Equal(t, ' ', c.Get(0, 0).Ch)
	assert.NotEmpty(t, render(t, c))
}

func TestCanvasClipsWrites(t *testing.T) {
	c := draw.NewCanvas(3, 1)

	end := c.Text(1, 0, "hello", draw.ColorDefault)
	c.Set(-1, 0, 'x', draw.ColorDefault)
	c.Set(0, 5, 'x', draw.ColorDefault)

	assert.Equal(t, 6, end)
	assert.Equal(t, ' ', c.Get(0, 0).Ch)
	assert.Equal(t, 'h', c.Get(1, 0).Ch)
	assert.Equal(t, 'e', c.Get(2, 0).Ch)
}

func TestCanvasTextCentered(t *testing.T) {
	c := draw.NewCanvas(7, 1)
	c.TextCentered(0, "abc", draw.ColorDefault)

	assert.Equal(t, 'a', c.Get(2, 0).Ch)
	assert.Equal(t, 'c', c.Get(4, 0).Ch)
}

func TestCanvasBox(t *testing.T) {
	c := draw.NewCanvas(4, 3)
	c.Box(0, 0, 4, 3, draw.ColorDefault)

	assert.Equal(t, draw.BoxTopLeft, c.Get(0, 0).Ch)
	assert.Equal(t, draw.BoxHorizontal, c.Get(1, 0).Ch)
	assert.Equal(t, draw.BoxTopRight, c.Get(3, 0).Ch)
	assert.Equal(t, draw.BoxVertical, c.Get(0, 1).Ch)
	assert.Equal(t, ' ', c.Get(1, 1).Ch)
	assert.Equal(t, draw.BoxBottomRight, c.Get(3, 2).Ch)
}

func TestRenderBorder(t *testing.T) {
	c := draw.NewCanvas(2, 1)
	c.SetOffset(1, 1)

	var out bytes.Buffer
	cw := draw.NewChunkWriter(&out, 1, 1)
	c.RenderBorder(cw)
	require.NoError(t, cw.Flush())

	assert.Contains(t, out.String(), "\033[1;1H┌──┐")
	assert.Contains(t, out.String(), "\033[3;1H└──┘")
	assert.Contains(t, out.String(), "\033[2;4H│")
}

func TestRenderBorderNoOffset(t *testing.T) {
	c := draw.NewCanvas(2, 1)

	var out bytes.Buffer
	cw := draw.NewChunkWriter(&out, 0, 0)
	c.RenderBorder(cw)
	require.NoError(t, cw.Flush())

	assert.Empty(t, out.String())
}

func TestChunkWriterFlushesLargeFrames(t *testing.T) {
	var out bytes.Buffer
	cw := draw.NewChunkWriter(&out, 0, 0)
	frame := strings.Repeat("x", 5000)
	cw.WriteString(frame)
	assert.Equal(t, 5000, cw.Len())

	require.NoError(t, cw.Flush())

	assert.Equal(t, frame, out.String())
	assert.Zero(t, cw.Len())
}

func TestShadeLevel(t *testing.T) {
	assert.Equal(t, ' ', draw.ShadeLevel(-1))
	assert.Equal(t, ' ', draw.ShadeLevel(0))
	assert.Equal(t, '░', draw.ShadeLevel(0.3))
	assert.Equal(t, '▒', draw.ShadeLevel(0.5))
	assert.Equal(t, '▓', draw.ShadeLevel(0.8))
	assert.Equal(t, '█', draw.ShadeLevel(1))
}
