package model

import (
	"sync"
	"time"
)

// Clock accounts thinking time for one side. It only reports; running out of
// time does not end the game.
type Clock struct {
	mu          sync.Mutex
	timeLeft    time.Duration
	lastStarted time.Time
	isRunning   bool
	now         func() time.Time
}

func NewClock(initial time.Duration) *Clock {
	return &Clock{timeLeft: initial, now: time.Now}
}

func (c *Clock) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.isRunning {
		c.lastStarted = c.now()
		c.isRunning = true
	}
}

func (c *Clock) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.isRunning {
		c.timeLeft -= c.now().Sub(c.lastStarted)
		c.isRunning = false
	}
}

func (c *Clock) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isRunning
}

// TimeLeft may go negative; nothing acts on a flag fall.
func (c *Clock) TimeLeft() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.isRunning {
		return c.timeLeft - c.now().Sub(c.lastStarted)
	}
	return c.timeLeft
}

// Clocks pairs a clock per color.
type Clocks struct {
	White *Clock
	Black *Clock
}

func NewClocks(initial time.Duration) *Clocks {
	return &Clocks{White: NewClock(initial), Black: NewClock(initial)}
}

func (c *Clocks) For(color PieceColor) *Clock {
	if color == White {
		return c.White
	}
	return c.Black
}

// Switch stops the clock of the side that just moved and starts the other.
func (c *Clocks) Switch(moved PieceColor) {
	c.For(moved).Stop()
	c.For(moved.Opposite()).Start()
}

// StopAll freezes both clocks, for a finished game.
func (c *Clocks) StopAll() {
	c.White.Stop()
	c.Black.Stop()
}

// ClockView is the client facing remaining time in milliseconds.
type ClockView struct {
	WhiteMillis int64 `json:"whiteMillis"`
	BlackMillis int64 `json:"blackMillis"`
}

func (c *Clocks) View() ClockView {
	return ClockView{
		WhiteMillis: c.White.TimeLeft().Milliseconds(),
		BlackMillis: c.Black.TimeLeft().Milliseconds(),
	}
}
