package session_test

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/voidblocks/internal/input"
	"github.com/tomz197/voidblocks/internal/piece"
	"github.com/tomz197/voidblocks/internal/progression"
	"github.com/tomz197/voidblocks/internal/rng"
	"github.com/tomz197/voidblocks/internal/score"
	"github.com/tomz197/voidblocks/internal/session"
)

func apply(s *session.Session, a input.Action, n int) {
	for i := 0; i < n; i++ {
		s.Apply(a)
	}
}

func tick(s *session.Session, n int) {
	for i := 0; i < n; i++ {
		s.Tick()
	}
}

// virusPieces scripts n spawns of the virus kind, each followed by four
// clean infection rolls.
func virusPieces(n int) []float64 {
	var floats []float64
	for i := 0; i < n; i++ {
		floats = append(floats, 0.92, 0.5, 0.5, 0.5, 0.5)
	}
	return floats
}

// clearBottomRow plays four I pieces into an empty 10-wide board so that the
// bottom row fills and clears.
func clearBottomRow(s *session.Session) {
	apply(s, input.ActionLeft, 5)
	s.Apply(input.ActionHardDrop)

	s.Apply(input.ActionLeft)
	s.Apply(input.ActionHardDrop)

	s.Apply(input.ActionRotate)
	apply(s, input.ActionRight, 3)
	s.Apply(input.ActionHardDrop)

	s.Apply(input.ActionRotate)
	apply(s, input.ActionRight, 4)
	s.Apply(input.ActionHardDrop)
}

func TestNewSession(t *testing.T) {
	s := session.New(rng.NewScripted())

	cur := s.Current()
	assert.Equal(t, session.PhasePlaying, s.Phase())
	assert.Equal(t, session.ReasonNone, s.Reason())
	assert.Equal(t, piece.ShapeI, cur.ShapeIndex)
	assert.Equal(t, piece.Standard, cur.Kind)
	assert.Equal(t, 5, cur.X)
	assert.Zero(t, cur.Y)
	assert.Equal(t, 10, s.Board().Width())
	assert.Equal(t, 20, s.Board().Height())
	assert.Equal(t, 19, s.GhostY())
}

func TestWithSize(t *testing.T) {
	s := session.New(rng.NewScripted(), session.WithSize(6, 8))

	assert.Equal(t, 6, s.Board().Width())
	assert.Equal(t, 8, s.Board().Height())
	assert.Equal(t, 3, s.Current().X)
}

func TestGravity(t *testing.T) {
	s := session.New(rng.NewScripted())

	tick(s, 59)
	assert.Zero(t, s.Current().Y)

	tick(s, 1)
	assert.Equal(t, 1, s.Current().Y)
}

func TestGravityLocksAtBottom(t *testing.T) {
	s := session.New(rng.NewScripted(), session.WithSize(10, 3))

	tick(s, 60*3)

	assert.Equal(t, 4, s.Board().Occupied())
	assert.Zero(t, s.Current().Y, "a fresh piece spawned")
}

func TestMoveStopsAtWalls(t *testing.T) {
	s := session.New(rng.NewScripted())

	apply(s, input.ActionLeft, 20)
	assert.Zero(t, s.Current().X)
	assert.False(t, s.Apply(input.ActionLeft))

	apply(s, input.ActionRight, 20)
	assert.Equal(t, 6, s.Current().X)
}

func TestRotateRejectedAtWall(t *testing.T) {
	s := session.New(rng.NewScripted())

	require.True(t, s.Apply(input.ActionRotate))
	apply(s, input.ActionRight, 10)
	require.Equal(t, 9, s.Current().X)

	assert.False(t, s.Apply(input.ActionRotate))
	assert.Equal(t, 1, s.Current().Rotation)
	assert.Equal(t, 4, s.Current().Shape.Rows())
}

func TestSoftDropLocksWhenBlocked(t *testing.T) {
	s := session.New(rng.NewScripted())

	apply(s, input.ActionSoftDrop, 19)
	require.Equal(t, 19, s.Current().Y)
	assert.Zero(t, s.Board().Occupied())

	s.Apply(input.ActionSoftDrop)
	assert.Equal(t, 4, s.Board().Occupied())
	assert.Zero(t, s.Current().Y)
}

func TestHardDropClearsLine(t *testing.T) {
	s := session.New(rng.NewScripted())

	clearBottomRow(s)

	e := s.Engine()
	assert.Equal(t, 40, e.Score())
	assert.Equal(t, 1, e.Lines())
	assert.Equal(t, 6, s.Board().Occupied())
	for y := 17; y < 20; y++ {
		assert.Equal(t, piece.Standard, s.Board().Cell(8, y))
		assert.Equal(t, piece.Standard, s.Board().Cell(9, y))
	}
	assert.Equal(t, session.PhasePlaying, s.Phase())
}

func TestDataFragmentActivatesSlowTime(t *testing.T) {
	s := session.New(rng.NewScripted(0.7))
	require.Equal(t, piece.DataFragment, s.Current().Kind)

	s.Apply(input.ActionHardDrop)

	e := s.Engine()
	assert.True(t, e.SlowTimeActive())
	assert.Equal(t, 120, e.DropInterval())
	assert.Equal(t, "SLOW TIME", s.Notice())
	assert.Equal(t, piece.Standard, s.Current().Kind)
}

func TestPowerUpPurgesVirus(t *testing.T) {
	s := session.New(rng.NewScripted(0.97))
	require.Equal(t, piece.PowerUp, s.Current().Kind)
	s.Board().Infect(0, 19)
	s.Board().Infect(1, 19)
	s.Engine().AddCorruption(30)

	s.Apply(input.ActionHardDrop)

	assert.Zero(t, s.Board().InfectedCount())
	assert.Equal(t, 4, s.Board().Occupied())
	assert.Equal(t, 10.0, s.Engine().Corruption())
	assert.Equal(t, "VIRUS PURGED: 2", s.Notice())
}

func TestVirusPieceRaisesCorruption(t *testing.T) {
	s := session.New(rng.NewScripted(0.92))
	require.Equal(t, piece.Virus, s.Current().Kind)

	s.Apply(input.ActionHardDrop)

	assert.Equal(t, 4*session.VirusCorruptionPerCell, s.Engine().Corruption())
	assert.Zero(t, s.Board().InfectedCount(), "virus-kind blocks are not infected")
}

func TestInfectedLockRaisesCorruption(t *testing.T) {
	s := session.New(rng.NewScripted(0.5, 0.05))

	s.Apply(input.ActionHardDrop)

	assert.Equal(t, 1, s.Board().InfectedCount())
	assert.Equal(t, session.VirusCorruptionPerCell, s.Engine().Corruption())
	assert.Equal(t, "INFECTED: 1", s.Notice())
}

func TestVirusSpreadsOnTicks(t *testing.T) {
	src := rng.NewScripted()
	s := session.New(src, session.WithSize(10, 40))
	s.Board().Infect(0, 39)
	s.Board().Set(1, 39, piece.Standard)
	src.Default = 0

	tick(s, 179)
	assert.Equal(t, 1, s.Board().InfectedCount())

	tick(s, 1)
	assert.Equal(t, 2, s.Board().InfectedCount())
}

func TestSystemFailureEndsGame(t *testing.T) {
	s := session.New(rng.NewScripted(virusPieces(5)...))

	for i := 0; i < 4; i++ {
		s.Apply(input.ActionHardDrop)
		require.Equal(t, session.PhasePlaying, s.Phase())
	}
	s.Apply(input.ActionHardDrop)

	assert.Equal(t, progression.MaxCorruption, s.Engine().Corruption())
	assert.Equal(t, session.PhaseGameOver, s.Phase())
	assert.Equal(t, session.ReasonSystemFailure, s.Reason())
}

func TestSystemFailureOnTick(t *testing.T) {
	s := session.New(rng.NewScripted())
	s.Engine().AddCorruption(progression.MaxCorruption)

	s.Tick()

	assert.Equal(t, session.ReasonSystemFailure, s.Reason())
}

func TestLockInSpawnRowEndsGame(t *testing.T) {
	s := session.New(rng.NewScripted())
	s.Board().Set(0, 0, piece.Standard)

	s.Apply(input.ActionHardDrop)

	assert.Equal(t, session.PhaseGameOver, s.Phase())
	assert.Equal(t, session.ReasonBlocked, s.Reason())
}

func TestBlockedSpawnEndsGame(t *testing.T) {
	src := rng.NewScripted().WithInts(piece.ShapeI, piece.ShapeT)
	s := session.New(src)
	s.Board().Set(6, 1, piece.Standard)

	apply(s, input.ActionLeft, 5)
	s.Apply(input.ActionHardDrop)

	assert.Equal(t, piece.ShapeT, s.Current().ShapeIndex)
	assert.False(t, s.Board().IsGameOver())
	assert.Equal(t, session.ReasonBlocked, s.Reason())
}

func TestGameOverIgnoresInput(t *testing.T) {
	s := session.New(rng.NewScripted())
	s.Board().Set(0, 0, piece.Standard)
	s.Apply(input.ActionHardDrop)
	require.Equal(t, session.PhaseGameOver, s.Phase())
	ticks := s.Engine().Ticks()

	assert.False(t, s.Apply(input.ActionLeft))
	s.Tick()
	assert.Equal(t, ticks, s.Engine().Ticks())
}

func TestHighScoreRecorded(t *testing.T) {
	store := score.NewMemoryStore()
	require.NoError(t, store.Set(score.HighScoreKey, 10))
	s := session.New(rng.NewScripted(), session.WithHighScores(score.NewHighScores(store)))
	assert.Equal(t, 10, s.HighScore())

	clearBottomRow(s)
	assert.Equal(t, 40, s.HighScore())
	s.Board().Set(0, 0, piece.Standard)
	s.Apply(input.ActionHardDrop)

	require.Equal(t, session.PhaseGameOver, s.Phase())
	assert.True(t, s.NewHighScore())
	best, err := store.Get(score.HighScoreKey)
	require.NoError(t, err)
	assert.Equal(t, 40, best)
}

func TestHighScoreKept(t *testing.T) {
	store := score.NewMemoryStore()
	require.NoError(t, store.Set(score.HighScoreKey, 1000))
	s := session.New(rng.NewScripted(), session.WithHighScores(score.NewHighScores(store)))

	s.Board().Set(0, 0, piece.Standard)
	s.Apply(input.ActionHardDrop)

	assert.False(t, s.NewHighScore())
	assert.Equal(t, 1000, s.HighScore())
}

func TestRestart(t *testing.T) {
	s := session.New(rng.NewScripted())
	clearBottomRow(s)
	s.Board().Set(0, 0, piece.Standard)
	s.Apply(input.ActionHardDrop)
	require.Equal(t, session.PhaseGameOver, s.Phase())

	s.Restart()

	assert.Equal(t, session.PhasePlaying, s.Phase())
	assert.Equal(t, session.ReasonNone, s.Reason())
	assert.Zero(t, s.Board().Occupied())
	assert.Zero(t, s.Engine().Score())
	assert.Equal(t, 40, s.HighScore(), "best score survives a restart")
}

func TestNoticeExpires(t *testing.T) {
	s := session.New(rng.NewScripted(0.7))
	s.Apply(input.ActionHardDrop)
	require.Equal(t, "SLOW TIME", s.Notice())

	tick(s, 120)

	assert.Empty(t, s.Notice())
}

func TestLoggerReceivesEvents(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf)
	s := session.New(rng.NewScripted(), session.WithLogger(logger))

	s.Board().Set(0, 0, piece.Standard)
	s.Apply(input.ActionHardDrop)

	assert.Contains(t, buf.String(), "game over")
	assert.Contains(t, buf.String(), "reason=blocked")
}
