package server

// TopScoreEntry represents a single entry on the leaderboard.
type TopScoreEntry struct {
	Username string
	Score    int
	seq      int // Report order; earlier reports win ties
}

// Snapshot is an immutable view of the host for rendering.
type Snapshot struct {
	Players   int             // Connected clients
	TopScores []TopScoreEntry // Best finished games since startup, highest first
}
