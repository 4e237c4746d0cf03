package input_test

import (
	"bufio"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/tomz197/voidblocks/internal/input"
)

func TestParseBytesArrows(t *testing.T) {
	in := input.ParseBytes([]byte("\x1b[A\x1b[B\x1b[C\x1b[D"))

	assert.Equal(t, []input.Action{
		input.ActionRotate,
		input.ActionSoftDrop,
		input.ActionRight,
		input.ActionLeft,
	}, in.Actions)
	assert.False(t, in.Escape)
}

func TestParseBytesLetters(t *testing.T) {
	tests := []struct {
		key  string
		want input.Action
	}{
		{"a", input.ActionLeft},
		{"H", input.ActionLeft},
		{"d", input.ActionRight},
		{"l", input.ActionRight},
		{"w", input.ActionRotate},
		{"k", input.ActionRotate},
		{"s", input.ActionSoftDrop},
		{"J", input.ActionSoftDrop},
		{" ", input.ActionHardDrop},
	}
	for _, tt := range tests {
		t.Run(tt.want.String()+"/"+tt.key, func(t *testing.T) {
			in := input.ParseBytes([]byte(tt.key))
			assert.Equal(t, []input.Action{tt.want}, in.Actions)
		})
	}
}

func TestParseBytesKeepsOrder(t *testing.T) {
	in := input.ParseBytes([]byte("aa\x1b[Aw d"))

	assert.Equal(t, []input.Action{
		input.ActionLeft,
		input.ActionLeft,
		input.ActionRotate,
		input.ActionRotate,
		input.ActionHardDrop,
		input.ActionRight,
	}, in.Actions)
	assert.True(t, in.Space)
}

func TestParseBytesControlKeys(t *testing.T) {
	assert.True(t, input.ParseBytes([]byte("q")).Quit)
	assert.True(t, input.ParseBytes([]byte{0x03}).Quit)
	assert.True(t, input.ParseBytes([]byte("\r")).Enter)
	assert.True(t, input.ParseBytes([]byte("\n")).Enter)

	esc := input.ParseBytes([]byte{0x1b})
	assert.True(t, esc.Escape)
	assert.Empty(t, esc.Actions)
}

func TestParseBytesIgnoresUnknown(t *testing.T) {
	in := input.ParseBytes([]byte("xyz9\x1b[Z"))

	assert.Empty(t, in.Actions)
	assert.True(t, in.Any())
	assert.False(t, input.ParseBytes(nil).Any())
}

func TestReadInputReportsClosedStream(t *testing.T) {
	s := input.StartStream(bufio.NewReader(strings.NewReader("ad")))

	var got []input.Action
	assert.Eventually(t, func() bool {
		in := input.ReadInput(s)
		got = append(got, in.Actions...)
		return in.Closed
	}, time.Second, time.Millisecond)

	assert.Equal(t, []input.Action{input.ActionLeft, input.ActionRight}, got)
}
