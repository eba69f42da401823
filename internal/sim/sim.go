// Package sim runs the deterministic demo flight that drives the panel.
package sim

import (
	"math"
	"time"

	"glasscockpit/internal/geom"
)

// PitchRate is how fast the demo sweeps pitch, in radians per second.
const PitchRate = 0.4

// ClimbRate is the demo's altitude gain per second.
const ClimbRate = 100

// maxStep bounds a single Step so a stalled frame cannot fling the
// pitch sweep past its limits.
const maxStep = 250 * time.Millisecond

// State is one sample of the simulated aircraft. Heading is in degrees,
// pitch and roll in radians.
type State struct {
	Heading       float64
	HeadingRate   float64
	Speed         float64
	Accel         float64
	VerticalSpeed float64
	VerticalAccel float64
	Altitude      float64
	Pitch         float64
	Roll          float64
}

// Autopilot holds the selected targets shown next to the readouts.
type Autopilot struct {
	Heading       float64
	Speed         float64
	Altitude      float64
	VerticalSpeed float64
}

func DefaultState() State {
	return State{
		Heading:       35,
		HeadingRate:   0.1,
		Speed:         165,
		Accel:         5,
		VerticalSpeed: -212,
		VerticalAccel: -5,
		Altitude:      360,
	}
}

func DefaultAutopilot() Autopilot {
	return Autopilot{
		Heading:       45,
		Speed:         175,
		Altitude:      2000,
		VerticalSpeed: 100,
	}
}

// Sim advances a State over time. It is not safe for concurrent use; the
// game loop owns it.
type Sim struct {
	initial   State
	initialAP Autopilot

	state    State
	ap       Autopilot
	pitchDir float64
	paused   bool
	elapsed  time.Duration
}

func New(initial State, ap Autopilot) *Sim {
	s := &Sim{initial: initial, initialAP: ap}
	s.Reset()
	return s
}

// Reset returns to the initial state and targets and resumes.
func (s *Sim) Reset() {
	s.state = s.initial
	s.ap = s.initialAP
	s.pitchDir = 1
	s.paused = false
	s.elapsed = 0
}

func (s *Sim) State() State         { return s.state }
func (s *Sim) Autopilot() Autopilot { return s.ap }
func (s *Sim) Paused() bool         { return s.paused }

// Elapsed is the simulated time since the last reset.
func (s *Sim) Elapsed() time.Duration { return s.elapsed }

func (s *Sim) SetPaused(paused bool) {
	s.paused = paused
}

// TogglePause flips the paused flag and returns the new value.
func (s *Sim) TogglePause() bool {
	s.paused = !s.paused
	return s.paused
}

// Step advances the simulation by dt. The aircraft climbs steadily while
// pitch sweeps between straight down and straight up, reversing at each
// limit.
func (s *Sim) Step(dt time.Duration) {
	if s.paused || dt <= 0 {
		return
	}
	dt = min(dt, maxStep)
	s.elapsed += dt
	sec := dt.Seconds()

	s.state.Altitude += ClimbRate * sec

	step := PitchRate * sec
	s.state.Pitch += step * s.pitchDir
	if s.state.Pitch > math.Pi/2 {
		s.pitchDir = -1
		s.state.Pitch -= 2 * step
	}
	if s.state.Pitch < -math.Pi/2 {
		s.pitchDir = 1
		s.state.Pitch += 2 * step
	}
}

// Nudge offsets pitch and roll by hand. Pitch stays within ±90° and roll
// wraps into (-π, π].
func (s *Sim) Nudge(dPitch, dRoll float64) {
	s.state.Pitch = geom.Clamp(s.state.Pitch+dPitch, -math.Pi/2, math.Pi/2)
	r := geom.NormalizeAngle(s.state.Roll + dRoll)
	if r > math.Pi {
		r -= geom.TwoPi
	}
	s.state.Roll = r
}

// AdjustSpeedTarget moves the autopilot speed by delta, never below 0.
func (s *Sim) AdjustSpeedTarget(delta float64) {
	s.ap.Speed = math.Max(0, s.ap.Speed+delta)
}
