package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestStream() *Stream {
	return &Stream{ch: make(chan byte, 16)}
}

func (s *Stream) push(b ...byte) {
	for _, c := range b {
		s.ch <- c
	}
}

func TestReadInputJoinsSplitArrow(t *testing.T) {
	tests := []struct {
		name   string
		first  []byte
		second []byte
		want   Action
	}{
		{"esc then bracket and code", []byte{0x1b}, []byte("[B"), ActionSoftDrop},
		{"esc bracket then code", []byte("\x1b["), []byte("A"), ActionRotate},
		{"key then split left", []byte("d\x1b"), []byte("[D"), ActionLeft},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStream()

			s.push(tt.first...)
			first := ReadInput(s)
			assert.False(t, first.Escape)

			s.push(tt.second...)
			second := ReadInput(s)

			all := append(first.Actions, second.Actions...)
			assert.Equal(t, tt.want, all[len(all)-1])
			assert.False(t, second.Escape)
			assert.Len(t, second.Actions, 1)
		})
	}
}

func TestReadInputLoneEscapeResolvesNextRead(t *testing.T) {
	s := newTestStream()

	s.push(0x1b)
	assert.False(t, ReadInput(s).Escape, "held for one read")

	in := ReadInput(s)
	assert.True(t, in.Escape)
	assert.Empty(t, in.Actions)
	assert.Nil(t, ReadInput(s).Pressed)
}

func TestReadInputFlushesPendingOnClose(t *testing.T) {
	s := newTestStream()
	s.push(0x1b)
	ReadInput(s)

	close(s.ch)
	in := ReadInput(s)

	assert.True(t, in.Closed)
	assert.True(t, in.Escape)
}
