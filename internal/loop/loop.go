// Package loop runs a single local game on the process's own terminal.
package loop

import (
	"bufio"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/tomz197/voidblocks/internal/draw"
	"github.com/tomz197/voidblocks/internal/loop/client"
	"github.com/tomz197/voidblocks/internal/loop/server"
	"github.com/tomz197/voidblocks/internal/score"
)

// Options configures a local game.
type Options struct {
	HighScores   *score.HighScores // nil keeps the high score in memory
	Logger       *log.Logger       // nil discards logs
	Seed         uint64            // 0 seeds from the clock
	Username     string
	TermSizeFunc draw.TermSizeFunc // nil reads the size of stdout
}

// Run plays until the player quits or r is closed. The local game is a
// one-client server, so it draws and scores exactly like a remote session.
func Run(r *bufio.Reader, w io.Writer, opts Options) error {
	gs := server.NewServer(opts.HighScores, opts.Logger)

	c := client.NewClient(gs, r, w, client.ClientOptions{
		TermSizeFunc: opts.TermSizeFunc,
		Username:     opts.Username,
		Logger:       opts.Logger,
		Seed:         opts.Seed,
	})
	if err := c.Run(); err != nil {
		return fmt.Errorf("run client: %w", err)
	}
	return nil
}
