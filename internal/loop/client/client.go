// Package client runs one player's terminal: it reads keys, drives that
// player's game session at a fixed frame rate, and draws every frame.
package client

import (
	"bufio"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/voidblocks/internal/draw"
	"github.com/tomz197/voidblocks/internal/input"
	"github.com/tomz197/voidblocks/internal/loop/config"
	"github.com/tomz197/voidblocks/internal/loop/server"
	"github.com/tomz197/voidblocks/internal/rng"
	"github.com/tomz197/voidblocks/internal/session"
)

// Client handles rendering and input for a single connection.
type Client struct {
	server       server.GameServer
	handle       *server.ClientHandle
	state        *ClientState
	game         *session.Session
	canvas       *draw.Canvas
	chunkWriter  *draw.ChunkWriter // Accumulates the frame for chunked output
	writer       io.Writer
	inputStream  *input.Stream
	lastInput    time.Time
	termSizeFunc draw.TermSizeFunc
	logger       *log.Logger
	fx           rng.Source // Drives visual glitches only, never the game
}

// ClientOptions configures the client.
type ClientOptions struct {
	TermSizeFunc draw.TermSizeFunc
	Username     string
	Logger       *log.Logger
	Seed         uint64 // Game seed; 0 picks one from the clock
}

// NewClient creates a client registered with gs.
func NewClient(gs server.GameServer, r *bufio.Reader, w io.Writer, opts ClientOptions) *Client {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	handle := gs.RegisterClient(opts.Username)
	logger = logger.With("client", handle.ID, "user", handle.Username)

	var src rng.Source
	seed := opts.Seed
	if seed == 0 {
		src, seed = rng.NewFromTime()
	} else {
		src = rng.New(seed)
	}
	logger.Debug("new game session", "seed", seed)

	game := session.New(src,
		session.WithSize(config.BoardWidth, config.BoardHeight),
		session.WithTicksPerSecond(config.TicksPerSecond),
		session.WithHighScores(gs.HighScores()),
		session.WithLogger(logger),
	)

	termWidth, termHeight, _ := termSizeFunc()
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)
	canvas := draw.NewCanvas(renderWidth, renderHeight)
	canvas.SetOffset(offsetCol, offsetRow)

	state := NewClientState()
	state.tooSmall = termWidth < config.MinTermWidth || termHeight < config.MinTermHeight

	return &Client{
		server:       gs,
		handle:       handle,
		state:        state,
		game:         game,
		canvas:       canvas,
		chunkWriter:  draw.NewChunkWriter(w, offsetCol, offsetRow),
		writer:       w,
		inputStream:  input.StartStream(r),
		lastInput:    time.Now(),
		termSizeFunc: termSizeFunc,
		logger:       logger,
		fx:           rng.New(seed ^ 0xfeed),
	}
}

// Run starts the client loop. Blocks until the client quits, disconnects,
// or the server finishes shutting down.
func (c *Client) Run() error {
	draw.HideCursor(c.writer)
	defer draw.ShowCursor(c.writer)
	draw.ClearScreen(c.writer)
	defer c.server.UnregisterClient(c.handle.ID)

	lastTime := time.Now()

	for c.state.Running {
		frameStart := time.Now()
		c.state.delta = frameStart.Sub(lastTime)
		lastTime = frameStart

		c.handleInput(input.ReadInput(c.inputStream))
		c.processServerEvents()
		c.updateScreen()
		c.update()

		if err := c.drawFrame(); err != nil {
			return fmt.Errorf("draw frame: %w", err)
		}

		elapsed := time.Since(frameStart)
		if elapsed < config.ClientTargetFrameTime {
			time.Sleep(config.ClientTargetFrameTime - elapsed)
		}
	}

	c.logger.Debug("client stopped", "score", c.game.Engine().Score())
	draw.ClearScreen(c.writer)
	return nil
}

// handleInput records the frame's input and tracks inactivity.
func (c *Client) handleInput(in input.Input) {
	c.state.Input = in

	if in.Any() {
		c.lastInput = time.Now()
		c.state.isInactive = false
	} else if time.Since(c.lastInput).Seconds() > config.InactivityDisconnectUser {
		c.logger.Debug("disconnecting inactive client")
		c.state.Running = false
	} else if time.Since(c.lastInput).Seconds() > config.InactivityWarnUser {
		c.state.isInactive = true
	}

	if in.Quit || in.Closed {
		c.state.Running = false
	}
}

// processServerEvents handles events from the server.
func (c *Client) processServerEvents() {
	for {
		select {
		case event, ok := <-c.handle.EventsCh:
			if !ok {
				c.state.Running = false
				return
			}
			switch event.Type {
			case server.EventServerShutdown:
				c.state.GameState = GameStateShutdown
				c.state.shutdownTimer = config.ShutdownDisplaySeconds
			case server.EventNewRecord:
				c.state.announce(fmt.Sprintf("NEW RECORD BY %s: %d", event.Username, event.Score))
			}
		default:
			return
		}
	}
}

// updateScreen handles terminal resize, clamping to the render area.
// On actual size changes, clears the terminal to remove residual
// characters outside the new canvas area.
func (c *Client) updateScreen() {
	termWidth, termHeight, err := c.termSizeFunc()
	if err != nil {
		return
	}
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)

	if renderWidth != c.canvas.Width() || renderHeight != c.canvas.Height() ||
		offsetCol != c.canvas.OffsetCol() || offsetRow != c.canvas.OffsetRow() {
		c.chunkWriter.ClearScreen()
		c.canvas.ForceRedraw()
	}

	c.canvas.Resize(renderWidth, renderHeight)
	c.canvas.SetOffset(offsetCol, offsetRow)
	c.chunkWriter.SetOffset(offsetCol, offsetRow)
	c.state.tooSmall = termWidth < config.MinTermWidth || termHeight < config.MinTermHeight
}

// clampTermSize clamps terminal dimensions to the max render resolution and computes
// the centering offset for the render area.
func clampTermSize(termWidth, termHeight int) (renderWidth, renderHeight, offsetCol, offsetRow int) {
	renderWidth = min(max(termWidth, 0), config.MaxTermWidth)
	renderHeight = min(max(termHeight, 0), config.MaxTermHeight)
	offsetCol = max(0, (termWidth-renderWidth)/2)
	offsetRow = max(0, (termHeight-renderHeight)/2)
	return
}

// update advances the current screen by one frame.
func (c *Client) update() {
	c.state.tickTimers()

	switch c.state.GameState {
	case GameStateStart:
		if c.state.Input.Space || c.state.Input.Enter {
			c.state.GameState = GameStatePlaying
			c.logger.Debug("game started")
		}
	case GameStatePlaying:
		c.updatePlayingState()
	case GameStateGameOver:
		if c.state.restartDelay > 0 {
			break
		}
		switch {
		case c.state.Input.Space || c.state.Input.Enter:
			c.game.Restart()
			c.state.GameState = GameStatePlaying
		case c.state.Input.Escape:
			c.game.Restart()
			c.state.GameState = GameStateStart
		}
	case GameStateShutdown:
		c.state.shutdownTimer -= c.state.delta.Seconds()
		if c.state.shutdownTimer <= 0 {
			c.state.Running = false
		}
	}
}

// updatePlayingState applies the frame's actions, then advances the game
// by one tick.
func (c *Client) updatePlayingState() {
	for _, a := range c.state.Input.Actions {
		c.game.Apply(a)
		if c.game.Phase() != session.PhasePlaying {
			break
		}
	}
	c.game.Tick()

	if c.game.Phase() == session.PhaseGameOver {
		c.state.GameState = GameStateGameOver
		c.state.restartDelay = config.RestartDelaySeconds
		c.server.ReportScore(c.handle.ID, c.game.Engine().Score(), c.game.NewHighScore())
	}
}
