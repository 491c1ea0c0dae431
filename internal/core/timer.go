package core

import (
	"context"
	"time"
)

// maxBurst caps the catch-up steps returned by a single Due call after a
// stall.
const maxBurst = 8

// Pacer meters simulation steps to a fixed steps-per-second rate.
type Pacer struct {
	interval time.Duration
	pending  time.Duration
	last     time.Time
	now      func() time.Time
}

// NewPacer returns a Pacer targeting tps steps per second. A non-positive
// rate falls back to 60.
func NewPacer(tps int) *Pacer {
	p := &Pacer{now: time.Now}
	p.SetRate(tps)
	p.pending = p.interval
	return p
}

// SetRate changes the target rate.
func (p *Pacer) SetRate(tps int) {
	if tps <= 0 {
		tps = 60
	}
	p.interval = time.Second / time.Duration(tps)
}

// Rate returns the current target rate in steps per second.
func (p *Pacer) Rate() int {
	if p.interval <= 0 {
		return 0
	}
	return int(time.Second / p.interval)
}

// Interval returns the time between two steps.
func (p *Pacer) Interval() time.Duration { return p.interval }

// Due reports how many steps should run now, at most maxBurst.
func (p *Pacer) Due() int {
	now := p.now()
	if p.last.IsZero() {
		p.last = now
	}
	p.pending += now.Sub(p.last)
	p.last = now
	n := int(p.pending / p.interval)
	if n > maxBurst {
		n = maxBurst
		p.pending = 0
		return n
	}
	p.pending -= time.Duration(n) * p.interval
	return n
}

// Wait blocks until the next step is due or ctx is done.
func (p *Pacer) Wait(ctx context.Context) error {
	for {
		if p.Due() > 0 {
			return nil
		}
		wait := p.interval - p.pending
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
