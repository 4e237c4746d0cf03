// Package piece defines block kinds, the seven tetromino shapes, and the
// falling Piece value.
package piece

import "iter"

// Kind is the type of a block. It is also the value stored in a grid cell,
// where Empty marks a free slot.
type Kind uint8

const (
	Empty        Kind = iota // Free grid slot
	Standard                 // Plain block
	DataFragment             // Triggers slow-time on lock
	Special                  // Cosmetic variant
	Virus                    // Corrupts the system
	PowerUp                  // Purges all virus cells on lock
)

// String returns the display name of the kind.
func (k Kind) String() string {
	switch k {
	case Empty:
		return "empty"
	case Standard:
		return "standard"
	case DataFragment:
		return "data-fragment"
	case Special:
		return "special"
	case Virus:
		return "virus"
	case PowerUp:
		return "power-up"
	default:
		return "unknown"
	}
}

// Shape is a rectangular occupancy matrix indexed [row][col].
type Shape [][]bool

// Rows returns the shape height.
func (s Shape) Rows() int {
	return len(s)
}

// Cols returns the shape width.
func (s Shape) Cols() int {
	if len(s) == 0 {
		return 0
	}
	return len(s[0])
}

// Clone returns a deep copy of the shape.
func (s Shape) Clone() Shape {
	out := make(Shape, len(s))
	for i, row := range s {
		out[i] = append([]bool(nil), row...)
	}
	return out
}

// Cells yields the (dx, dy) offset of every occupied cell.
func (s Shape) Cells() iter.Seq2[int, int] {
	return func(yield func(int, int) bool) {
		for dy, row := range s {
			for dx, filled := range row {
				if filled && !yield(dx, dy) {
					return
				}
			}
		}
	}
}

// RotateShape returns the shape rotated 90 degrees clockwise.
// A rows x cols matrix becomes cols x rows; the input is left untouched.
func RotateShape(s Shape) Shape {
	rows := s.Rows()
	cols := s.Cols()

	rotated := make(Shape, cols)
	for j := range rotated {
		rotated[j] = make([]bool, rows)
	}

	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			rotated[j][rows-1-i] = s[i][j]
		}
	}
	return rotated
}

// Piece is a falling tetromino. X and Y anchor the top-left corner of Shape
// in grid coordinates.
type Piece struct {
	Shape      Shape
	X, Y       int
	Kind       Kind
	Rotation   int // 0..3, advanced by Rotate
	ShapeIndex int // Index into Shapes
}

// Cells yields the absolute grid coordinates of every occupied cell.
func (p Piece) Cells() iter.Seq2[int, int] {
	return func(yield func(int, int) bool) {
		for dx, dy := range p.Shape.Cells() {
			if !yield(p.X+dx, p.Y+dy) {
				return
			}
		}
	}
}

// Moved returns a copy of the piece shifted by (dx, dy). The shape is shared.
func (p Piece) Moved(dx, dy int) Piece {
	p.X += dx
	p.Y += dy
	return p
}

// Rotate returns a copy of the piece with its shape rotated clockwise and its
// rotation state advanced. Callers validate placement before adopting it.
func Rotate(p Piece) Piece {
	p.Shape = RotateShape(p.Shape)
	p.Rotation = (p.Rotation + 1) % 4
	return p
}
