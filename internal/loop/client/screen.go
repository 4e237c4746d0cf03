package client

import (
	"fmt"
	"strings"
	"time"

	"github.com/tomz197/voidblocks/internal/draw"
	"github.com/tomz197/voidblocks/internal/loop/config"
	"github.com/tomz197/voidblocks/internal/piece"
	"github.com/tomz197/voidblocks/internal/progression"
	"github.com/tomz197/voidblocks/internal/session"
)

// Board placement on the canvas, in cells.
const (
	boardLeft = 1
	boardTop  = 0
	hudGap    = 2
)

const corruptionBarWidth = 20

// drawFrame draws the current frame.
func (c *Client) drawFrame() error {
	// On screen or inactivity transitions, do a full terminal clear so
	// nothing from the previous screen persists.
	stateChanged := c.state.GameState != c.state.prevGameState
	inactiveChanged := c.state.isInactive != c.state.wasInactive
	sizeChanged := c.state.tooSmall != c.state.wasTooSmall
	if stateChanged || inactiveChanged || sizeChanged {
		c.chunkWriter.ClearScreen()
		c.canvas.ForceRedraw()
		c.state.prevGameState = c.state.GameState
		c.state.wasInactive = c.state.isInactive
		c.state.wasTooSmall = c.state.tooSmall
	}

	c.canvas.Clear()
	c.drawUI()
	c.canvas.Render(c.chunkWriter)
	c.canvas.RenderBorder(c.chunkWriter)

	return c.chunkWriter.Flush()
}

// drawUI draws the screen for the current state into the canvas.
func (c *Client) drawUI() {
	switch {
	case c.state.tooSmall:
		c.drawTooSmallScreen()
	case c.state.GameState == GameStateShutdown:
		c.drawShutdownScreen()
	case c.state.isInactive:
		c.drawInactivityScreen()
	case c.state.GameState == GameStatePlaying:
		c.drawBoard()
		c.drawPlayingHUD()
	case c.state.GameState == GameStateStart:
		c.drawStartScreen()
	case c.state.GameState == GameStateGameOver:
		c.drawGameOverScreen()
	}
}

func blinkOn() bool {
	return time.Now().UnixMilli()/600%2 == 0
}

func (c *Client) drawLines(y int, lines []string, color draw.Color) {
	width := 0
	for _, line := range lines {
		width = max(width, len([]rune(line)))
	}
	x := (c.canvas.Width() - width) / 2
	for i, line := range lines {
		c.canvas.Text(x, y+i, line, color)
	}
}

// drawTooSmallScreen asks the player to enlarge the terminal.
func (c *Client) drawTooSmallScreen() {
	cv := c.canvas
	cv.Text(0, 0, "Terminal too small", draw.ColorBrightRed)
	cv.Text(0, 1, fmt.Sprintf("Need %dx%d", config.MinTermWidth, config.MinTermHeight), draw.ColorDefault)
	cv.Text(0, 2, "Q to quit", draw.ColorBrightBlack)
}

// drawInactivityScreen draws the inactivity warning screen.
func (c *Client) drawInactivityScreen() {
	cv := c.canvas
	centerY := cv.Height() / 2

	cv.TextCentered(centerY-2, "INACTIVITY WARNING", draw.ColorBrightYellow)
	remaining := int(config.InactivityDisconnectUser - time.Since(c.lastInput).Seconds())
	cv.TextCentered(centerY, fmt.Sprintf("Disconnecting in %d seconds.", max(0, remaining)), draw.ColorDefault)
	cv.TextCentered(centerY+2, "Press any key to continue", draw.ColorBrightBlack)
}

// drawShutdownScreen draws the server shutdown notification screen.
func (c *Client) drawShutdownScreen() {
	cv := c.canvas
	centerY := cv.Height() / 2

	cv.TextCentered(centerY-3, "SERVER SHUTTING DOWN", draw.ColorBrightRed)
	cv.TextCentered(centerY-1, "The server is restarting for maintenance.", draw.ColorDefault)
	cv.TextCentered(centerY, "Please reconnect in a moment.", draw.ColorDefault)
	remaining := int(c.state.shutdownTimer) + 1
	cv.TextCentered(centerY+2, fmt.Sprintf("Disconnecting in %d seconds...", remaining), draw.ColorDefault)
	cv.TextCentered(centerY+4, "Press Q to disconnect now", draw.ColorBrightBlack)
}

// drawStartScreen draws the title screen.
func (c *Client) drawStartScreen() {
	// ASCII art title (figlet "small" font)
	titleArt := []string{
		` __   _____ ___ ___    ___ _    ___   ___ _  _____ `,
		` \ \ / / _ \_ _|   \  | _ ) |  / _ \ / __| |/ / __|`,
		`  \ V / (_) | || |) | | _ \ |_| (_) | (__| ' <\__ \`,
		`   \_/ \___/___|___/  |___/____\___/ \___|_|\_\___/`,
	}
	cv := c.canvas
	y := 1
	c.drawLines(y, titleArt, draw.ColorBrightCyan)
	y += len(titleArt) + 1

	cv.TextCentered(y, "~ stack blocks, contain the corruption ~", draw.ColorBrightBlack)
	y += 2

	controls := []string{
		"A D / < >  . . . . .  Move",
		"W / Up  . . . . . . Rotate",
		"S / Down  . . . . Soft drop",
		"SPACE  . . . . .  Hard drop",
		"Q  . . . . . . . . . . Quit",
	}
	c.drawLines(y, controls, draw.ColorDefault)
	y += len(controls) + 1

	c.drawLegend(y)
	y += 2

	best, err := c.server.HighScores().Get()
	if err == nil {
		cv.TextCentered(y, fmt.Sprintf("HIGH SCORE %d", best), draw.ColorBrightYellow)
	}
	y += 2

	if blinkOn() {
		cv.TextCentered(y, ">>  Press SPACE to Start  <<", draw.ColorBrightWhite)
	}
}

// drawLegend shows what each block kind does.
func (c *Client) drawLegend(y int) {
	entries := []struct {
		kind  piece.Kind
		label string
	}{
		{piece.DataFragment, "slow time"},
		{piece.PowerUp, "purge virus"},
		{piece.Virus, "corrupts"},
	}

	width := 0
	for _, e := range entries {
		width += 3 + len(e.label) + 2
	}
	x := (c.canvas.Width() - width) / 2
	for _, e := range entries {
		ch, color := kindGlyph(e.kind)
		c.canvas.Set(x, y, ch, color)
		c.canvas.Set(x+1, y, ch, color)
		x = c.canvas.Text(x+3, y, e.label, draw.ColorBrightBlack) + 2
	}
}

// kindGlyph returns the character and color of a settled block.
func kindGlyph(k piece.Kind) (rune, draw.Color) {
	switch k {
	case piece.Standard:
		return draw.BlockFull, draw.ColorCyan
	case piece.DataFragment:
		return draw.BlockDark, draw.ColorBrightGreen
	case piece.Special:
		return draw.BlockFull, draw.ColorBrightMagenta
	case piece.Virus:
		return draw.BlockMedium, draw.ColorRed
	case piece.PowerUp:
		return draw.BlockFull, draw.ColorBrightYellow
	default:
		return draw.BlockEmpty, draw.ColorDefault
	}
}

// setBoardCell paints one board cell, which is CellColumns terminal columns wide.
func (c *Client) setBoardCell(x, y int, ch rune, color draw.Color) {
	col := boardLeft + 1 + x*config.CellColumns
	row := boardTop + 1 + y
	for i := 0; i < config.CellColumns; i++ {
		c.canvas.Set(col+i, row, ch, color)
	}
}

// drawBoard draws the well, settled blocks, ghost and falling piece.
// Infected cells flicker and empty cells pick up noise as corruption grows.
func (c *Client) drawBoard() {
	g := c.game.Board()
	e := c.game.Engine()
	glitch := e.GlitchIntensity()

	frameColor := draw.ColorBrightBlack
	if e.FirewallActive() {
		frameColor = draw.ColorRed
		if blinkOn() {
			frameColor = draw.ColorBrightRed
		}
	}
	c.canvas.Box(boardLeft, boardTop, g.Width()*config.CellColumns+2, g.Height()+2, frameColor)

	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			kind := g.Cell(x, y)
			switch {
			case g.Infected(x, y):
				ch := draw.BlockDark
				if c.fx.Float64() < 0.05+0.25*glitch {
					ch = draw.BlockMedium
				}
				c.setBoardCell(x, y, ch, draw.ColorBrightRed)
			case kind != piece.Empty:
				ch, color := kindGlyph(kind)
				c.setBoardCell(x, y, ch, color)
			}
		}
	}

	// Corruption noise on a few empty cells.
	for i := 0; i < int(glitch*6); i++ {
		x, y := c.fx.IntN(g.Width()), c.fx.IntN(g.Height())
		if g.Cell(x, y) == piece.Empty {
			c.setBoardCell(x, y, draw.ShadeLevel(c.fx.Float64()*0.5), draw.ColorMagenta)
		}
	}

	cur := c.game.Current()
	ghostY := c.game.GhostY()
	if ghostY != cur.Y {
		for dx, dy := range cur.Shape.Cells() {
			c.setBoardCell(cur.X+dx, ghostY+dy, draw.BlockLight, draw.ColorBrightBlack)
		}
	}
	ch, color := kindGlyph(cur.Kind)
	for x, y := range cur.Cells() {
		c.setBoardCell(x, y, ch, color)
	}
}

// drawPlayingHUD draws score, progression and event state beside the board.
func (c *Client) drawPlayingHUD() {
	cv := c.canvas
	e := c.game.Engine()
	g := c.game.Board()
	x := boardLeft + g.Width()*config.CellColumns + 2 + hudGap
	row := boardTop

	line := func(label, value string, color draw.Color) {
		cv.Text(x, row, fmt.Sprintf("%-11s", label), draw.ColorBrightBlack)
		cv.Text(x+11, row, value, color)
		row++
	}

	cv.Text(x, row, "VOID BLOCKS", draw.ColorBrightCyan)
	row += 2
	line("SCORE", fmt.Sprint(e.Score()), draw.ColorBrightWhite)
	line("HIGH", fmt.Sprint(c.game.HighScore()), draw.ColorBrightYellow)
	line("LEVEL", fmt.Sprint(e.Level()), draw.ColorDefault)
	line("LINES", fmt.Sprint(e.Lines()), draw.ColorDefault)
	row++

	cv.Text(x, row, "CORRUPTION", draw.ColorBrightBlack)
	row++
	c.drawCorruptionBar(x, row, e.Corruption())
	row += 2

	if e.FirewallActive() {
		line("FIREWALL", ticksToSeconds(e.FirewallRemaining()), draw.ColorBrightRed)
	} else {
		next := (e.Level()/progression.FirewallLevelPeriod + 1) * progression.FirewallLevelPeriod
		line("FIREWALL", fmt.Sprintf("lvl %d", next), draw.ColorBrightBlack)
	}
	if e.SlowTimeActive() {
		line("SLOW TIME", ticksToSeconds(e.SlowTimeRemaining()), draw.ColorBrightGreen)
	} else {
		line("SLOW TIME", "-", draw.ColorBrightBlack)
	}
	line("VIRUS", fmt.Sprintf("%d  %s", g.InfectedCount(), ticksToSeconds(g.SpreadCountdown())), draw.ColorRed)
	row++

	if notice := c.game.Notice(); notice != "" {
		cv.Text(x, row, notice, draw.ColorBrightMagenta)
	}
	row++
	if c.state.announcement != "" {
		cv.Text(x, row, c.state.announcement, draw.ColorBrightYellow)
	}
	row++

	if players := c.server.GetSnapshot().Players; players > 1 {
		line("ONLINE", fmt.Sprint(players), draw.ColorDefault)
	}

	cv.Text(x, boardTop+g.Height()+1, "<> move  ^ rot  v drop  SPC", draw.ColorBrightBlack)
}

// drawCorruptionBar draws a meter of corruption in [0, MaxCorruption].
func (c *Client) drawCorruptionBar(x, y int, corruption float64) {
	color := draw.ColorGreen
	switch {
	case corruption >= 80:
		color = draw.ColorBrightRed
	case corruption >= 50:
		color = draw.ColorYellow
	}

	filled := corruption / progression.MaxCorruption * corruptionBarWidth
	for i := 0; i < corruptionBarWidth; i++ {
		ch := draw.ShadeLevel(filled - float64(i))
		cellColor := color
		if ch == draw.BlockEmpty {
			ch = draw.BlockLight
			cellColor = draw.ColorBrightBlack
		}
		c.canvas.Set(x+i, y, ch, cellColor)
	}
	c.canvas.Text(x+corruptionBarWidth+1, y, fmt.Sprintf("%3.0f%%", corruption), color)
}

func ticksToSeconds(ticks int) string {
	return fmt.Sprintf("%.1fs", float64(ticks)/config.TicksPerSecond)
}

// drawGameOverScreen shows the final result, the leaderboard and the
// restart prompt.
func (c *Client) drawGameOverScreen() {
	cv := c.canvas
	e := c.game.Engine()

	var titleArt []string
	color := draw.ColorBrightWhite
	if c.game.Reason() == session.ReasonSystemFailure {
		titleArt = []string{
			`  ___ _   _ ___ _____ ___ __  __   ___ _   ___ _   _   _ ___ ___ `,
			` / __\ \ / / __|_   _| __|  \/  | | __/_\ |_ _| | | | | | _ \ __|`,
			` \__ \\ V /\__ \ | | | _|| |\/| | | _/ _ \ | || |_| |_| |   / _| `,
			` |___/ |_| |___/ |_| |___|_|  |_| |_/_/ \_\___|____\___/|_|_\___|`,
		}
		color = draw.ColorBrightRed
		if cv.Width() < len(titleArt[0]) {
			titleArt = []string{"SYSTEM FAILURE"}
		}
	} else {
		titleArt = []string{
			`   ___   _   __  __ ___    _____   _____ ___  `,
			`  / __| /_\ |  \/  | __|  / _ \ \ / / __| _ \ `,
			` | (_ |/ _ \| |\/| | _|  | (_) \ V /| _||   / `,
			`  \___/_/ \_\_|  |_|___|  \___/ \_/ |___|_|_\ `,
		}
	}

	y := 1
	c.drawLines(y, titleArt, color)
	y += len(titleArt) + 1

	stats := fmt.Sprintf("Score %d   Lines %d   Level %d", e.Score(), e.Lines(), e.Level())
	cv.TextCentered(y, stats, draw.ColorDefault)
	y += 2

	if c.game.NewHighScore() {
		if blinkOn() {
			cv.TextCentered(y, "*** NEW HIGH SCORE ***", draw.ColorBrightYellow)
		}
	} else {
		cv.TextCentered(y, fmt.Sprintf("High score %d", c.game.HighScore()), draw.ColorBrightYellow)
	}
	y += 2

	if top := c.server.GetSnapshot().TopScores; len(top) > 0 {
		cv.TextCentered(y, "TOP SCORES", draw.ColorBrightBlack)
		y++
		for i, entry := range top {
			row := fmt.Sprintf("%d. %-*s %8d", i+1, config.MaxUsernameLength, entry.Username, entry.Score)
			entryColor := draw.ColorDefault
			if entry.Username == c.handle.Username {
				entryColor = draw.ColorBrightCyan
			}
			cv.TextCentered(y, strings.TrimRight(row, " "), entryColor)
			y++
		}
		y++
	}

	if c.state.announcement != "" {
		cv.TextCentered(y, c.state.announcement, draw.ColorBrightYellow)
	}
	y++

	if c.state.restartDelay > 0 {
		cv.TextCentered(y, "...", draw.ColorBrightBlack)
	} else if blinkOn() {
		cv.TextCentered(y, ">>  Press SPACE to Restart  <<", draw.ColorBrightWhite)
	}
	if c.state.restartDelay <= 0 {
		cv.TextCentered(y+1, "ESC for title screen", draw.ColorBrightBlack)
	}
}
