// Package session runs a single game of VOID BLOCKS. A Session owns the grid,
// the progression engine, the piece generator and the falling piece, and
// turns ticks and player actions into calls on them.
//
// A Session is driven by exactly one goroutine.
package session

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/tomz197/voidblocks/internal/grid"
	"github.com/tomz197/voidblocks/internal/input"
	"github.com/tomz197/voidblocks/internal/piece"
	"github.com/tomz197/voidblocks/internal/progression"
	"github.com/tomz197/voidblocks/internal/rng"
	"github.com/tomz197/voidblocks/internal/score"
)

// Board size and lock-effect tuning.
const (
	DefaultWidth  = 10
	DefaultHeight = 20

	VirusCorruptionPerCell  = 5.0  // Per locked cell that ends up as virus
	PowerUpCorruptionRelief = 20.0 // Subtracted when a power-up purges viruses

	noticeSeconds = 2
)

// Phase is the lifecycle state of a session.
type Phase int

const (
	PhasePlaying Phase = iota
	PhaseGameOver
)

// GameOverReason tells why a session ended.
type GameOverReason int

const (
	ReasonNone          GameOverReason = iota
	ReasonBlocked                      // Stack reached the spawn row
	ReasonSystemFailure                // Corruption hit the maximum
)

func (r GameOverReason) String() string {
	switch r {
	case ReasonBlocked:
		return "blocked"
	case ReasonSystemFailure:
		return "system_failure"
	default:
		return "none"
	}
}

// Session is one game in progress.
type Session struct {
	src            rng.Source
	width, height  int
	ticksPerSecond int

	board   *grid.Grid
	engine  *progression.Engine
	gen     *piece.Generator
	current piece.Piece

	phase  Phase
	reason GameOverReason

	logger       *log.Logger
	highScores   *score.HighScores
	highScore    int
	newHighScore bool

	notice      string
	noticeUntil uint64
}

// Option configures a Session.
type Option func(*Session)

// WithLogger routes game events to logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithHighScores records the final score of every game in hs.
func WithHighScores(hs *score.HighScores) Option {
	return func(s *Session) {
		s.highScores = hs
	}
}

// WithSize sets the board dimensions.
func WithSize(width, height int) Option {
	return func(s *Session) {
		if width > 0 && height > 0 {
			s.width, s.height = width, height
		}
	}
}

// WithTicksPerSecond sets the simulation rate of the progression engine.
func WithTicksPerSecond(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.ticksPerSecond = n
		}
	}
}

// New starts a game. src feeds both the generator and the grid.
func New(src rng.Source, opts ...Option) *Session {
	s := &Session{
		src:            src,
		width:          DefaultWidth,
		height:         DefaultHeight,
		ticksPerSecond: progression.DefaultTicksPerSecond,
		logger:         log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.board = grid.New(s.width, s.height, src)
	s.gen = piece.NewGenerator(src)
	s.start()
	return s
}

// Restart discards the current game and begins a fresh one on the same
// random source.
func (s *Session) Restart() {
	s.board.Reset()
	s.start()
	s.logger.Debug("game restarted")
}

func (s *Session) start() {
	s.engine = progression.New(progression.WithTicksPerSecond(s.ticksPerSecond))
	s.phase = PhasePlaying
	s.reason = ReasonNone
	s.newHighScore = false
	s.notice = ""
	s.noticeUntil = 0
	s.loadHighScore()
	s.current = s.gen.Spawn(s.width)
}

func (s *Session) loadHighScore() {
	if s.highScores == nil {
		return
	}
	best, err := s.highScores.Get()
	if err != nil {
		s.logger.Warn("failed to load high score", "err", err)
		return
	}
	s.highScore = best
}

// Tick advances the game by one simulation step: progression, gravity, then
// virus spread.
func (s *Session) Tick() {
	if s.phase != PhasePlaying {
		return
	}

	s.engine.Tick()
	if s.engine.ShouldDrop() {
		s.stepDown()
	}
	if s.phase == PhasePlaying {
		if s.board.Update() {
			s.logger.Debug("virus spread", "infected", s.board.InfectedCount())
		}
	}
	s.processEvents()
}

// Apply performs one player action. It reports whether the falling piece
// moved, rotated or locked.
func (s *Session) Apply(a input.Action) bool {
	if s.phase != PhasePlaying {
		return false
	}

	applied := false
	switch a {
	case input.ActionLeft:
		applied = s.tryMove(-1, 0)
	case input.ActionRight:
		applied = s.tryMove(1, 0)
	case input.ActionRotate:
		rotated := piece.Rotate(s.current)
		if s.board.CanPlace(rotated, rotated.X, rotated.Y) {
			s.current = rotated
			applied = true
		}
	case input.ActionSoftDrop:
		s.stepDown()
		applied = true
	case input.ActionHardDrop:
		s.current.Y = s.board.GhostY(s.current)
		s.lock()
		applied = true
	}

	s.processEvents()
	return applied
}

func (s *Session) tryMove(dx, dy int) bool {
	if !s.board.CanPlace(s.current, s.current.X+dx, s.current.Y+dy) {
		return false
	}
	s.current = s.current.Moved(dx, dy)
	return true
}

// stepDown moves the piece one row, locking it when it cannot fall.
func (s *Session) stepDown() {
	if !s.tryMove(0, 1) {
		s.lock()
	}
}

func (s *Session) lock() {
	locked := s.current
	res := s.board.Commit(locked)

	switch locked.Kind {
	case piece.PowerUp:
		purged := s.board.ClearAllVirus()
		s.engine.ReduceCorruption(PowerUpCorruptionRelief)
		s.setNotice(fmt.Sprintf("VIRUS PURGED: %d", purged))
		s.logger.Info("virus purged", "cells", purged)
	case piece.DataFragment:
		s.engine.ActivateSlowTime()
	}
	if locked.Kind != piece.PowerUp && res.Virus > 0 {
		s.engine.AddCorruption(VirusCorruptionPerCell * float64(res.Virus))
	}
	if locked.Kind != piece.PowerUp && res.Infected > 0 {
		s.setNotice(fmt.Sprintf("INFECTED: %d", res.Infected))
		s.logger.Debug("cells infected on lock", "cells", res.Infected, "corruption", s.engine.Corruption())
	}

	if n := s.board.ClearFullLines(); n > 0 {
		s.engine.AddScore(n)
		s.logger.Debug("lines cleared", "count", n, "score", s.engine.Score())
	}

	if s.board.IsGameOver() {
		s.gameOver(ReasonBlocked)
		return
	}

	next := s.gen.Spawn(s.width)
	s.current = next
	if !s.board.CanPlace(next, next.X, next.Y) {
		s.gameOver(ReasonBlocked)
	}
}

func (s *Session) processEvents() {
	for _, ev := range s.engine.DrainEvents() {
		switch ev.Kind {
		case progression.EventLevelUp:
			s.setNotice(fmt.Sprintf("LEVEL %d", ev.Level))
			s.logger.Info("level up", "level", ev.Level)
		case progression.EventFirewallActivated:
			s.setNotice("FIREWALL CHALLENGE")
			s.logger.Info("firewall activated", "level", ev.Level)
		case progression.EventFirewallCleared:
			s.setNotice("FIREWALL CLEARED")
			s.logger.Info("firewall cleared", "level", ev.Level)
		case progression.EventSlowTimeStarted:
			s.setNotice("SLOW TIME")
			s.logger.Debug("slow time started", "interval", s.engine.DropInterval())
		case progression.EventSlowTimeExpired:
			s.logger.Debug("slow time expired", "interval", s.engine.DropInterval())
		case progression.EventSystemFailure:
			if s.phase == PhasePlaying {
				s.logger.Info("system failure", "corruption", s.engine.Corruption())
				s.gameOver(ReasonSystemFailure)
			}
		}
	}
}

func (s *Session) gameOver(reason GameOverReason) {
	if s.phase == PhaseGameOver {
		return
	}
	s.phase = PhaseGameOver
	s.reason = reason
	s.notice = ""

	s.logger.Info("game over",
		"reason", reason,
		"score", s.engine.Score(),
		"lines", s.engine.Lines(),
		"level", s.engine.Level(),
	)

	if s.highScores == nil {
		if s.engine.Score() > s.highScore {
			s.highScore = s.engine.Score()
			s.newHighScore = true
		}
		return
	}
	recorded, err := s.highScores.RecordIfHigh(s.engine.Score())
	if err != nil {
		s.logger.Warn("failed to record high score", "err", err)
		return
	}
	if recorded {
		s.highScore = s.engine.Score()
		s.newHighScore = true
		s.logger.Info("new high score", "score", s.highScore)
	}
}

func (s *Session) setNotice(msg string) {
	s.notice = msg
	s.noticeUntil = s.engine.Ticks() + uint64(noticeSeconds*s.ticksPerSecond)
}

// Board returns the playfield for rendering.
func (s *Session) Board() *grid.Grid {
	return s.board
}

// Engine returns the progression state for rendering.
func (s *Session) Engine() *progression.Engine {
	return s.engine
}

// Current returns the falling piece.
func (s *Session) Current() piece.Piece {
	return s.current
}

// GhostY returns the row the falling piece would land on.
func (s *Session) GhostY() int {
	return s.board.GhostY(s.current)
}

// Phase returns the lifecycle state.
func (s *Session) Phase() Phase {
	return s.phase
}

// Reason returns why the game ended, or ReasonNone while playing.
func (s *Session) Reason() GameOverReason {
	return s.reason
}

// HighScore returns the best score known to this session, including the
// running game.
func (s *Session) HighScore() int {
	return max(s.highScore, s.engine.Score())
}

// NewHighScore reports whether the finished game set a new record.
func (s *Session) NewHighScore() bool {
	return s.newHighScore
}

// Notice returns the current HUD message, or "" when none is showing.
func (s *Session) Notice() string {
	if s.notice == "" || s.engine.Ticks() >= s.noticeUntil {
		return ""
	}
	return s.notice
}
