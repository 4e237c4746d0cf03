package piece

import "github.com/tomz197/voidblocks/internal/rng"

// Shapes holds the seven tetrominoes in spawn orientation, trimmed to their
// bounding boxes: I, O, T, S, Z, J, L.
var Shapes = []Shape{
	{ // I
		{true, true, true, true},
	},
	{ // O
		{true, true},
		{true, true},
	},
	{ // T
		{false, true, false},
		{true, true, true},
	},
	{ // S
		{false, true, true},
		{true, true, false},
	},
	{ // Z
		{true, true, false},
		{false, true, true},
	},
	{ // J
		{true, false, false},
		{true, true, true},
	},
	{ // L
		{false, false, true},
		{true, true, true},
	},
}

// Shape indices into Shapes.
const (
	ShapeI = iota
	ShapeO
	ShapeT
	ShapeS
	ShapeZ
	ShapeJ
	ShapeL
)

// KindWeight is one bucket of the kind distribution, in percent.
type KindWeight struct {
	Kind   Kind
	Weight float64
}

// KindWeights is the spawn distribution of block kinds. Weights sum to 100.
var KindWeights = []KindWeight{
	{Standard, 60},
	{DataFragment, 20},
	{Special, 10},
	{Virus, 5},
	{PowerUp, 5},
}

// Generator produces new falling pieces from an injected random source.
type Generator struct {
	src rng.Source
}

// NewGenerator creates a generator drawing from src.
func NewGenerator(src rng.Source) *Generator {
	return &Generator{src: src}
}

// Spawn returns a fresh piece anchored at (gridWidth/2, 0) with a uniformly
// random shape, rotation 0, and a weighted random kind.
func (g *Generator) Spawn(gridWidth int) Piece {
	idx := g.src.IntN(len(Shapes))
	return Piece{
		Shape:      Shapes[idx].Clone(),
		X:          gridWidth / 2,
		Y:          0,
		Kind:       g.RandomKind(),
		Rotation:   0,
		ShapeIndex: idx,
	}
}

// RandomKind samples a kind from KindWeights.
func (g *Generator) RandomKind() Kind {
	return KindFor(g.src.Float64() * 100)
}

// KindFor maps a draw in [0, 100) to the first cumulative bucket it falls
// under. Draws past the last bucket (floating-point drift) yield Standard.
func KindFor(draw float64) Kind {
	accumulated := 0.0
	for _, w := range KindWeights {
		accumulated += w.Weight
		if draw < accumulated {
			return w.Kind
		}
	}
	return Standard
}
