package wheel

import "fmt"

// Revolutions is the number of full turns every spin makes before landing.
const Revolutions = 3

// Animation is the deterministic tick sequence of one spin.
// It lands on the winning slot after exactly slots*Revolutions+winning steps.
type Animation struct {
	slots   int
	winning int
	total   int
	steps   int
	current int
}

// NewAnimation validates winning against slots and prepares the sequence.
func NewAnimation(slots, winning int) (*Animation, error) {
	if slots <= 0 {
		return nil, fmt.Errorf("invalid slot count %d", slots)
	}
	if winning < 0 || winning >= slots {
		return nil, fmt.Errorf("%w: %d not in [0, %d)", ErrWinningOutOfRange, winning, slots)
	}
	return &Animation{
		slots:   slots,
		winning: winning,
		total:   slots*Revolutions + winning,
	}, nil
}

// Ticks is the number of Step calls until Done.
func (a *Animation) Ticks() int { return a.total }

// Steps is the number of Step calls made so far.
func (a *Animation) Steps() int { return a.steps }

// Done reports whether the animation has landed.
func (a *Animation) Done() bool { return a.steps >= a.total }

// Step advances one tick and returns the slot under the pointer.
// On the final tick the slot is the winning slot. Calls after Done are no-ops.
func (a *Animation) Step() (slot int, done bool) {
	if a.Done() {
		return a.current, true
	}
	a.steps++
	a.current = a.steps % a.slots
	if a.Done() {
		a.current = a.winning
		return a.current, true
	}
	return a.current, false
}

// Current is the slot under the pointer.
func (a *Animation) Current() int { return a.current }

// Rotation is the wheel angle in degrees. Once landed it is FinalRotation.
func (a *Animation) Rotation() float64 {
	if a.Done() {
		return FinalRotation(a.slots, a.winning)
	}
	return float64(a.steps) * slotAngle(a.slots)
}

// FinalRotation centers winning under the pointer after Revolutions turns.
func FinalRotation(slots, winning int) float64 {
	angle := slotAngle(slots)
	return Revolutions*360 + float64(winning)*angle + angle/2
}

func slotAngle(slots int) float64 {
	return 360 / float64(slots)
}
