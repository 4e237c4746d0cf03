// Package config centralizes the tunable parameters of the terminal client.
package config

import "time"

// Board dimensions in cells.
const (
	BoardWidth  = 10
	BoardHeight = 20
	CellColumns = 2 // Terminal columns per board cell
)

// Render area. The client draws into at most this many columns and rows and
// centers the area in larger terminals.
const (
	MaxTermWidth  = 64
	MaxTermHeight = 24
)

// Minimum terminal size that fits the board and the HUD.
const (
	MinTermWidth  = 54
	MinTermHeight = BoardHeight + 3
)

// Player
const (
	MaxUsernameLength = 16 // Maximum display length for player usernames
)

// Game over
const (
	RestartDelaySeconds = 1.0 // Restart prompt is ignored until this elapses
	TopScoresTracked    = 5
)

// Shutdown
const (
	ShutdownDisplaySeconds = 10.0 // Seconds to show shutdown message before auto-disconnect
	ShutdownWait           = 15 * time.Second
)

// Inactivity
const (
	InactivityWarnUser       = 90  // Seconds
	InactivityDisconnectUser = 120 // Seconds
)

// Client rendering and simulation. The session advances one tick per frame.
const (
	ClientTargetFPS       = 60
	ClientTargetFrameTime = time.Second / ClientTargetFPS
	TicksPerSecond        = ClientTargetFPS
)

// Announcements pushed by the server stay on screen this long.
const (
	AnnouncementSeconds = 4.0
)
