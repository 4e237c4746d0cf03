package piece_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomz197/voidblocks/internal/piece"
	"github.com/tomz197/voidblocks/internal/rng"
)

func TestRotateShapeClockwise(t *testing.T) {
	// T piece:
	//   .#.
	//   ###
	rotated := piece.RotateShape(piece.Shapes[piece.ShapeT])

	expected := piece.Shape{
		{true, false},
		{true, true},
		{true, false},
	}
	assert.Equal(t, expected, rotated)
}

func TestRotateShapeIPieceTransposes(t *testing.T) {
	rotated := piece.RotateShape(piece.Shapes[piece.ShapeI])

	require.Equal(t, 4, rotated.Rows())
	require.Equal(t, 1, rotated.Cols())
	for _, row := range rotated {
		assert.True(t, row[0])
	}
}

func TestRotateFourTimesIsIdentity(t *testing.T) {
	for idx, shape := range piece.Shapes {
		p := piece.Piece{Shape: shape.Clone(), ShapeIndex: idx}
		for i := 0; i < 4; i++ {
			p = piece.Rotate(p)
		}
		assert.Equal(t, shape, p.Shape, "shape %d", idx)
		assert.Equal(t, 0, p.Rotation)
	}
}

func TestRotateDoesNotMutate(t *testing.T) {
	p := piece.Piece{Shape: piece.Shapes[piece.ShapeL].Clone(), Rotation: 3}
	before := p.Shape.Clone()

	r := piece.Rotate(p)

	assert.Equal(t, before, p.Shape)
	assert.Equal(t, 3, p.Rotation)
	assert.Equal(t, 0, r.Rotation)
	assert.NotEqual(t, p.Shape, r.Shape)
}

func TestPieceCells(t *testing.T) {
	p := piece.Piece{Shape: piece.Shapes[piece.ShapeO].Clone(), X: 4, Y: 7}

	var got [][2]int
	for x, y := range p.Cells() {
		got = append(got, [2]int{x, y})
	}

	assert.ElementsMatch(t, [][2]int{{4, 7}, {5, 7}, {4, 8}, {5, 8}}, got)
}

func TestMovedSharesShapeButShiftsOrigin(t *testing.T) {
	p := piece.Piece{Shape: piece.Shapes[piece.ShapeS].Clone(), X: 1, Y: 2}
	m := p.Moved(-1, 3)

	assert.Equal(t, 0, m.X)
	assert.Equal(t, 5, m.Y)
	assert.Equal(t, 1, p.X)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "virus", piece.Virus.String())
	assert.Equal(t, "unknown", piece.Kind(42).String())
}

func TestKindForBuckets(t *testing.T) {
	tests := []struct {
		draw float64
		want piece.Kind
	}{
		{0, piece.Standard},
		{59.999, piece.Standard},
		{60, piece.DataFragment},
		{79.9, piece.DataFragment},
		{80, piece.Special},
		{90, piece.Virus},
		{95, piece.PowerUp},
		{99.999, piece.PowerUp},
		{100, piece.Standard}, // past every bucket
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, piece.KindFor(tt.draw), "draw %v", tt.draw)
	}
}

func TestKindWeightsSumTo100(t *testing.T) {
	total := 0.0
	for _, w := range piece.KindWeights {
		total += w.Weight
	}
	assert.InDelta(t, 100.0, total, 1e-9)
}

func TestSpawn(t *testing.T) {
	src := rng.NewScripted(0.92).WithInts(piece.ShapeZ)
	gen := piece.NewGenerator(src)

	p := gen.Spawn(10)

	assert.Equal(t, 5, p.X)
	assert.Equal(t, 0, p.Y)
	assert.Equal(t, 0, p.Rotation)
	assert.Equal(t, piece.ShapeZ, p.ShapeIndex)
	assert.Equal(t, piece.Shapes[piece.ShapeZ], p.Shape)
	assert.Equal(t, piece.Virus, p.Kind)
}

func TestSpawnClonesShape(t *testing.T) {
	gen := piece.NewGenerator(rng.NewScripted().WithInts(piece.ShapeO))

	p := gen.Spawn(10)
	p.Shape[0][0] = false

	assert.True(t, piece.Shapes[piece.ShapeO][0][0])
}

func TestSpawnDistribution(t *testing.T) {
	gen := piece.NewGenerator(rng.New(7))
	counts := map[piece.Kind]int{}
	shapes := map[int]int{}

	const n = 20000
	for i := 0; i < n; i++ {
		p := gen.Spawn(10)
		counts[p.Kind]++
		shapes[p.ShapeIndex]++
	}

	assert.InDelta(t, 0.60, float64(counts[piece.Standard])/n, 0.02)
	assert.InDelta(t, 0.20, float64(counts[piece.DataFragment])/n, 0.02)
	assert.InDelta(t, 0.10, float64(counts[piece.Special])/n, 0.02)
	assert.InDelta(t, 0.05, float64(counts[piece.Virus])/n, 0.02)
	assert.InDelta(t, 0.05, float64(counts[piece.PowerUp])/n, 0.02)
	assert.Len(t, shapes, len(piece.Shapes))
}
