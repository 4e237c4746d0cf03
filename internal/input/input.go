// Package input turns raw terminal bytes into per-frame game actions.
package input

import (
	"bufio"
)

// Action is a discrete player command applied to the falling piece.
type Action int

const (
	ActionNone Action = iota
	ActionLeft
	ActionRight
	ActionRotate
	ActionSoftDrop
	ActionHardDrop
)

// String returns the action name for logs.
func (a Action) String() string {
	switch a {
	case ActionLeft:
		return "left"
	case ActionRight:
		return "right"
	case ActionRotate:
		return "rotate"
	case ActionSoftDrop:
		return "soft_drop"
	case ActionHardDrop:
		return "hard_drop"
	default:
		return "none"
	}
}

// Input represents the current frame's input state.
type Input struct {
	Quit    bool
	Enter   bool
	Space   bool
	Escape  bool
	Closed  bool     // The underlying reader hit EOF or an error
	Actions []Action // Piece actions in the order they were typed
	Pressed []byte
}

// Any reports whether the frame carried any key press.
func (in Input) Any() bool {
	return len(in.Pressed) > 0
}

// Stream delivers input bytes via a channel.
type Stream struct {
	ch      chan byte
	pending []byte // Start of an escape sequence carried to the next read
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r *bufio.Reader) *Stream {
	s := &Stream{
		ch: make(chan byte, 128),
	}
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// ReadInput drains all available bytes from the stream without blocking and
// parses them. A trailing ESC or ESC [ is held back for one read so an arrow
// key split across reads still parses; if nothing follows, it is a lone ESC.
func ReadInput(s *Stream) Input {
	buf := s.pending
	s.pending = nil
	held := len(buf)
	closed := false

drain:
	for {
		select {
		case b, ok := <-s.ch:
			if !ok {
				closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	if !closed && len(buf) > held {
		if n := partialEscape(buf); n > 0 {
			s.pending = append([]byte(nil), buf[len(buf)-n:]...)
			buf = buf[:len(buf)-n]
		}
	}

	in := ParseBytes(buf)
	in.Closed = closed
	return in
}

// partialEscape returns the length of an unfinished arrow sequence at the
// end of buf, or 0.
func partialEscape(buf []byte) int {
	n := len(buf)
	switch {
	case n >= 1 && buf[n-1] == '\x1b':
		return 1
	case n >= 2 && buf[n-2] == '\x1b' && buf[n-1] == '[':
		return 2
	}
	return 0
}

// ParseBytes decodes one frame of terminal bytes. Arrow keys arrive as
// ESC [ A..D; every other key is a single byte.
func ParseBytes(buf []byte) Input {
	in := Input{Pressed: buf}

	for i := 0; i < len(buf); i++ {
		b := buf[i]

		if b == '\x1b' && i+2 < len(buf) && buf[i+1] == '[' {
			if a := arrowAction(buf[i+2]); a != ActionNone {
				in.Actions = append(in.Actions, a)
				i += 2
				continue
			}
		}

		switch b {
		case 'q', 'Q', '\x03':
			in.Quit = true
		case ' ':
			in.Space = true
			in.Actions = append(in.Actions, ActionHardDrop)
		case '\n', '\r':
			in.Enter = true
		case '\x1b':
			in.Escape = true
		default:
			if a := keyAction(b); a != ActionNone {
				in.Actions = append(in.Actions, a)
			}
		}
	}
	return in
}

func arrowAction(code byte) Action {
	switch code {
	case 'A':
		return ActionRotate
	case 'B':
		return ActionSoftDrop
	case 'C':
		return ActionRight
	case 'D':
		return ActionLeft
	}
	return ActionNone
}

// keyAction maps WASD and vi keys.
func keyAction(b byte) Action {
	switch b {
	case 'a', 'A', 'h', 'H':
		return ActionLeft
	case 'd', 'D', 'l', 'L':
		return ActionRight
	case 'w', 'W', 'k', 'K':
		return ActionRotate
	case 's', 'S', 'j', 'J':
		return ActionSoftDrop
	}
	return ActionNone
}
