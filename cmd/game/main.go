package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/tomz197/voidblocks/internal/config"
	"github.com/tomz197/voidblocks/internal/loop"
	"github.com/tomz197/voidblocks/internal/score"
)

const defaultHighScoreFile = "voidblocks-highscore.json"

func main() {
	envErr := config.LoadDotEnv()
	if envErr != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", envErr)
	}

	logger, closeLog, err := newLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()
	if envErr != nil {
		logger.Warn("using environment without .env", "err", envErr)
	}

	store, err := score.NewFileStore(config.GetEnv("VOIDBLOCKS_HIGHSCORE_FILE", defaultHighScoreFile))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open high score file: %v\n", err)
		os.Exit(1)
	}
	logger.Info("high scores", "path", store.Path())

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to enable raw mode: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	reader := bufio.NewReader(os.Stdin)
	err = loop.Run(reader, os.Stdout, loop.Options{
		HighScores: score.NewHighScores(store),
		Logger:     logger,
		Seed:       config.GetEnvUint64("VOIDBLOCKS_SEED", 0),
		Username:   config.GetEnv("USER", ""),
	})
	if err != nil {
		_ = term.Restore(fd, oldState)
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}

// newLogger writes to VOIDBLOCKS_LOG_FILE when set. The game owns the
// terminal, so without a file logs are discarded.
func newLogger() (*log.Logger, func(), error) {
	path := config.GetEnv("VOIDBLOCKS_LOG_FILE", "")
	if path == "" {
		return log.New(io.Discard), func() {}, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	logger := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		Prefix:          "voidblocks",
	})
	if level, err := log.ParseLevel(config.GetEnv("VOIDBLOCKS_LOG_LEVEL", "info")); err == nil {
		logger.SetLevel(level)
	}
	return logger, func() { _ = f.Close() }, nil
}
