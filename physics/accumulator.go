package physics

import "math"

// Accumulator converts variable elapsed time into whole fixed-size
// simulation steps plus a leftover fraction used for render smoothing.
type Accumulator struct {
	fixedStep float64
	maxSteps  int
	leftover  float64
	ratio     float64
}

// NewAccumulator creates an accumulator for the given step size and
// per-frame step cap
func NewAccumulator(fixedStep float64, maxSteps int) *Accumulator {
	return &Accumulator{
		fixedStep: fixedStep,
		maxSteps:  maxSteps,
	}
}

// Advance adds elapsed seconds and returns the number of whole steps to
// simulate this frame, capped at maxSteps. The residue of every computed
// step is removed up front, so time belonging to steps dropped by the cap
// is discarded rather than carried forward as debt. That is the overload
// policy: under sustained overload the simulation falls behind real time.
func (a *Accumulator) Advance(elapsed float64) int {
	a.leftover += elapsed

	steps := int(math.Floor(a.leftover / a.fixedStep))
	if steps > 0 {
		a.leftover -= float64(steps) * a.fixedStep
	}
	a.ratio = a.leftover / a.fixedStep

	if steps > a.maxSteps {
		steps = a.maxSteps
	}
	return steps
}

// Ratio is the interpolation fraction for the next render: how far into
// the upcoming step the current visual state sits. Always in [0, 1).
func (a *Accumulator) Ratio() float64 {
	return a.ratio
}

// Leftover is the unconsumed elapsed time, always in [0, fixedStep)
func (a *Accumulator) Leftover() float64 {
	return a.leftover
}

// FixedStep returns the configured step size in seconds
func (a *Accumulator) FixedStep() float64 {
	return a.fixedStep
}
