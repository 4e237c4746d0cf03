// Package server tracks the clients connected to one host process. Every
// client plays its own independent game; the server only shares the
// high-score store, a leaderboard of finished games, and shutdown notices.
package server

import (
	"io"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/voidblocks/internal/loop/config"
	"github.com/tomz197/voidblocks/internal/score"
)

// GameServer is the interface clients use to communicate with the host.
type GameServer interface {
	RegisterClient(username string) *ClientHandle
	UnregisterClient(clientID int)
	ReportScore(clientID int, points int, record bool)
	GetSnapshot() Snapshot
	HighScores() *score.HighScores
}

// Server is the in-process GameServer. It is safe for concurrent use.
type Server struct {
	mu           sync.RWMutex
	clients      map[int]*ClientHandle
	nextClientID int
	topScores    []TopScoreEntry
	nextSeq      int
	highScores   *score.HighScores
	logger       *log.Logger
}

var _ GameServer = (*Server)(nil)

// ClientHandle represents a client's registration with the server.
type ClientHandle struct {
	ID       int
	Username string
	EventsCh chan ClientEvent // Events sent to the client; closed on unregister
}

// ClientEvent represents an event sent from server to client.
type ClientEvent struct {
	Type     ClientEventType
	Username string // Record holder for EventNewRecord
	Score    int
}

// ClientEventType identifies the type of client event.
type ClientEventType int

const (
	EventServerShutdown ClientEventType = iota
	EventNewRecord                      // Another player set a new high score
)

// NewServer creates a server sharing hs between all clients. A nil hs keeps
// scores in memory; a nil logger discards output.
func NewServer(hs *score.HighScores, logger *log.Logger) *Server {
	if hs == nil {
		hs = score.NewHighScores(nil)
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Server{
		clients:      make(map[int]*ClientHandle),
		nextClientID: 1,
		highScores:   hs,
		logger:       logger,
	}
}

// HighScores returns the shared high-score tracker.
func (s *Server) HighScores() *score.HighScores {
	return s.highScores
}

// RegisterClient registers a new client with the given username and returns its handle.
func (s *Server) RegisterClient(username string) *ClientHandle {
	if username == "" {
		username = "player"
	}
	if r := []rune(username); len(r) > config.MaxUsernameLength {
		username = string(r[:config.MaxUsernameLength])
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	handle := &ClientHandle{
		ID:       s.nextClientID,
		Username: username,
		EventsCh: make(chan ClientEvent, 16),
	}
	s.nextClientID++
	s.clients[handle.ID] = handle
	s.logger.Debug("client registered", "id", handle.ID, "user", username, "players", len(s.clients))
	return handle
}

// UnregisterClient removes a client and closes its event channel.
func (s *Server) UnregisterClient(clientID int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	handle, ok := s.clients[clientID]
	if !ok {
		return
	}
	close(handle.EventsCh)
	delete(s.clients, clientID)
	s.logger.Debug("client unregistered", "id", clientID, "players", len(s.clients))
}

// ReportScore adds a finished game to the leaderboard. When record is set
// the other clients are told about the new high score.
func (s *Server) ReportScore(clientID int, points int, record bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	handle, ok := s.clients[clientID]
	if !ok {
		return
	}

	s.topScores = append(s.topScores, TopScoreEntry{Username: handle.Username, Score: points, seq: s.nextSeq})
	s.nextSeq++
	slices.SortStableFunc(s.topScores, func(a, b TopScoreEntry) int {
		if a.Score != b.Score {
			return b.Score - a.Score
		}
		return a.seq - b.seq
	})
	if len(s.topScores) > config.TopScoresTracked {
		s.topScores = s.topScores[:config.TopScoresTracked]
	}

	if !record {
		return
	}
	s.logger.Info("new high score", "user", handle.Username, "score", points)
	event := ClientEvent{Type: EventNewRecord, Username: handle.Username, Score: points}
	for id, other := range s.clients {
		if id == clientID {
			continue
		}
		select {
		case other.EventsCh <- event:
		default:
		}
	}
}

// GetSnapshot returns the current player count and leaderboard.
func (s *Server) GetSnapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Players:   len(s.clients),
		TopScores: slices.Clone(s.topScores),
	}
}

// Shutdown notifies all connected clients about the shutdown and waits for
// them to disconnect, up to the given timeout.
func (s *Server) Shutdown(timeout time.Duration) {
	s.mu.RLock()
	for _, handle := range s.clients {
		select {
		case handle.EventsCh <- ClientEvent{Type: EventServerShutdown}:
		default:
		}
	}
	s.mu.RUnlock()

	deadline := time.After(timeout)
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-deadline:
			return
		case <-ticker.C:
			s.mu.RLock()
			remaining := len(s.clients)
			s.mu.RUnlock()
			if remaining == 0 {
				return
			}
		}
	}
}
