// Package progression owns the numeric game state: score, lines, level, the
// drop-speed curve, the firewall challenge, corruption, and slow-time.
//
// The Engine advances once per fixed simulation tick and never touches the
// grid; the session feeds it cleared-line counts and corruption.
package progression

import (
	"math"
	"time"
)

// Timing and difficulty tuning.
const (
	DefaultTicksPerSecond = 60
	InitialDropInterval   = 60  // Ticks per drop at level 1
	MinDropInterval       = 3   // Floor of the level curve
	DropSpeedCurve        = 0.8 // Interval multiplier per level
	LinesPerLevel         = 10

	FirewallLevelPeriod     = 10  // Firewall triggers on every Nth level
	FirewallDurationTicks   = 600 // 10 seconds at 60 ticks/second
	FirewallSpeedFactor     = 3   // Drop interval divisor while active
	FirewallMinDropInterval = 10  // Floor while firewall-throttled
	FirewallScoreMultiplier = 2

	SlowTimeDuration = 3 * time.Second
	SlowTimeFactor   = 2
)

// Corruption tuning.
const (
	MaxCorruption           = 100.0
	CorruptionDecayPerTick  = 0.1
	CorruptionReliefPerLine = 5.0
)

// lineClearPoints is the base score per simultaneous line clear, by count.
var lineClearPoints = [...]int{0, 40, 100, 300, 1200}

// Engine is the progression state machine. It is not safe for concurrent use;
// exactly one game loop drives it.
type Engine struct {
	ticksPerSecond int
	tick           uint64 // Ticks processed since creation

	score int
	lines int
	level int

	dropTimer        int
	dropInterval     int
	baseDropInterval int

	corruption float64

	firewallActive  bool
	firewallElapsed int

	slowTimeActive bool
	slowTimeUntil  uint64 // Tick at which slow-time restores the interval

	events []Event
}

// Option configures an Engine.
type Option func(*Engine)

// WithTicksPerSecond sets the simulation rate used to convert real-time
// effect durations into ticks.
func WithTicksPerSecond(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.ticksPerSecond = n
		}
	}
}

// New creates an engine at level 1 with an empty score.
func New(opts ...Option) *Engine {
	e := &Engine{
		ticksPerSecond:   DefaultTicksPerSecond,
		level:            1,
		dropInterval:     InitialDropInterval,
		baseDropInterval: InitialDropInterval,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// LevelForLines returns the level reached after clearing lines in total.
func LevelForLines(lines int) int {
	if lines < 0 {
		lines = 0
	}
	return lines/LinesPerLevel + 1
}

// BaseDropIntervalForLevel returns the ticks-per-drop of the speed curve.
func BaseDropIntervalForLevel(level int) int {
	if level < 1 {
		level = 1
	}
	interval := int(math.Floor(InitialDropInterval * math.Pow(DropSpeedCurve, float64(level-1))))
	return max(MinDropInterval, interval)
}

// firewallInterval returns the throttled interval for a base interval.
func firewallInterval(base int) int {
	return max(FirewallMinDropInterval, base/FirewallSpeedFactor)
}

// Tick advances the engine by one simulation step.
func (e *Engine) Tick() {
	e.tick++
	e.dropTimer++
	e.updateFirewall()
	e.decayCorruption()
	e.updateLevel()
	e.updateSlowTime()
}

// ShouldDrop reports whether the falling piece should move down this tick.
// A true result resets the drop timer.
func (e *Engine) ShouldDrop() bool {
	if e.dropTimer >= e.dropInterval {
		e.dropTimer = 0
		return true
	}
	return false
}

func (e *Engine) updateFirewall() {
	if e.level > 0 && e.level%FirewallLevelPeriod == 0 && !e.firewallActive {
		e.firewallActive = true
		e.firewallElapsed = 0
		e.dropInterval = firewallInterval(e.baseDropInterval)
		e.emit(EventFirewallActivated)
	}

	if e.firewallActive {
		e.firewallElapsed++
		if e.firewallElapsed >= FirewallDurationTicks {
			e.firewallActive = false
			e.firewallElapsed = 0
			e.dropInterval = e.baseDropInterval
			e.emit(EventFirewallCleared)
		}
	}
}

func (e *Engine) decayCorruption() {
	if e.corruption > 0 {
		e.corruption = math.Max(0, e.corruption-CorruptionDecayPerTick)
	}
}

func (e *Engine) updateLevel() {
	level := LevelForLines(e.lines)
	if level == e.level {
		return
	}
	e.level = level
	e.baseDropInterval = BaseDropIntervalForLevel(level)
	if !e.firewallActive {
		e.dropInterval = e.baseDropInterval
	}
	e.emit(EventLevelUp)
}

func (e *Engine) updateSlowTime() {
	if !e.slowTimeActive || e.tick < e.slowTimeUntil {
		return
	}
	e.slowTimeActive = false
	e.dropInterval = e.restoredInterval()
	e.emit(EventSlowTimeExpired)
}

// restoredInterval is the interval slow-time returns to, judged at expiry.
func (e *Engine) restoredInterval() int {
	if e.firewallActive {
		return firewallInterval(e.baseDropInterval)
	}
	return e.baseDropInterval
}

// Points returns the score for clearing n lines at once. It returns 0 for
// counts outside 1..4.
func Points(n, level int, firewall bool) int {
	if n <= 0 || n >= len(lineClearPoints) {
		return 0
	}
	points := lineClearPoints[n] * level
	if firewall {
		points *= FirewallScoreMultiplier
	}
	return points
}

// AddScore credits a simultaneous clear of n lines. Counts outside 1..4 are
// ignored.
func (e *Engine) AddScore(n int) {
	if n <= 0 || n >= len(lineClearPoints) {
		return
	}
	e.score += Points(n, e.level, e.firewallActive)
	e.lines += n
	e.ReduceCorruption(CorruptionReliefPerLine * float64(n))
}

// AddCorruption raises corruption, clamped to [0, MaxCorruption]. Reaching
// the maximum queues EventSystemFailure.
func (e *Engine) AddCorruption(amount float64) {
	e.corruption = math.Min(MaxCorruption, math.Max(0, e.corruption+amount))
	if e.corruption >= MaxCorruption {
		e.emit(EventSystemFailure)
	}
}

// ReduceCorruption lowers corruption, floored at zero.
func (e *Engine) ReduceCorruption(amount float64) {
	e.corruption = math.Max(0, e.corruption-amount)
}

// ActivateSlowTime doubles the current drop interval and arms a restore after
// SlowTimeDuration. Activating again while armed re-arms the single pending
// restore.
func (e *Engine) ActivateSlowTime() {
	e.dropInterval *= SlowTimeFactor
	e.slowTimeActive = true
	e.slowTimeUntil = e.tick + e.slowTimeTicks()
	e.emit(EventSlowTimeStarted)
}

func (e *Engine) slowTimeTicks() uint64 {
	return uint64(SlowTimeDuration.Seconds() * float64(e.ticksPerSecond))
}

// Score returns the accumulated score.
func (e *Engine) Score() int {
	return e.score
}

// Lines returns the total number of lines cleared.
func (e *Engine) Lines() int {
	return e.lines
}

// Level returns the current level.
func (e *Engine) Level() int {
	return e.level
}

// Corruption returns the corruption meter in [0, MaxCorruption].
func (e *Engine) Corruption() float64 {
	return e.corruption
}

// GlitchIntensity returns corruption scaled to [0, 1] for visual effects.
func (e *Engine) GlitchIntensity() float64 {
	return e.corruption / MaxCorruption
}

// FirewallActive reports whether a firewall challenge is running.
func (e *Engine) FirewallActive() bool {
	return e.firewallActive
}

// FirewallRemaining returns the ticks left in the running firewall challenge.
func (e *Engine) FirewallRemaining() int {
	if !e.firewallActive {
		return 0
	}
	return FirewallDurationTicks - e.firewallElapsed
}

// SlowTimeActive reports whether a slow-time restore is pending.
func (e *Engine) SlowTimeActive() bool {
	return e.slowTimeActive
}

// SlowTimeRemaining returns the ticks left until slow-time expires.
func (e *Engine) SlowTimeRemaining() int {
	if !e.slowTimeActive {
		return 0
	}
	return int(e.slowTimeUntil - e.tick)
}

// DropInterval returns the current ticks per drop.
func (e *Engine) DropInterval() int {
	return e.dropInterval
}

// BaseDropInterval returns the level curve's ticks per drop.
func (e *Engine) BaseDropInterval() int {
	return e.baseDropInterval
}

// Ticks returns the number of ticks processed.
func (e *Engine) Ticks() uint64 {
	return e.tick
}
