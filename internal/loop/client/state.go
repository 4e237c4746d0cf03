package client

import (
	"time"

	"github.com/tomz197/voidblocks/internal/input"
	"github.com/tomz197/voidblocks/internal/loop/config"
)

// GameState represents the current screen of a client.
type GameState int

const (
	GameStateStart    GameState = iota // Title screen
	GameStatePlaying                   // Active gameplay
	GameStateGameOver                  // Game ended, show results and restart prompt
	GameStateShutdown                  // Server is shutting down
)

// ClientState holds per-connection UI state. The game itself lives in the
// client's session.
type ClientState struct {
	Input         input.Input
	GameState     GameState
	prevGameState GameState
	Running       bool          // Client loop running
	delta         time.Duration // Frame delta time

	restartDelay  float64 // Seconds until the game over screen accepts a restart
	shutdownTimer float64 // Countdown before auto-disconnect on shutdown

	isInactive  bool // Whether the client is in inactive warning state
	wasInactive bool

	announcement      string  // Server-wide message, e.g. another player's record
	announcementTimer float64 // Seconds the announcement stays visible

	tooSmall    bool // Terminal cannot fit the board and HUD
	wasTooSmall bool
}

// NewClientState creates a client state on the title screen.
func NewClientState() *ClientState {
	return &ClientState{
		GameState: GameStateStart,
		Running:   true,
	}
}

// tickTimers counts down the per-frame timers.
func (s *ClientState) tickTimers() {
	dt := s.delta.Seconds()
	s.restartDelay = max(0, s.restartDelay-dt)
	if s.announcementTimer > 0 {
		s.announcementTimer -= dt
		if s.announcementTimer <= 0 {
			s.announcementTimer = 0
			s.announcement = ""
		}
	}
}

func (s *ClientState) announce(msg string) {
	s.announcement = msg
	s.announcementTimer = config.AnnouncementSeconds
}
