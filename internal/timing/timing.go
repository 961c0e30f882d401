// Package timing holds the fixed delays of the lift and its guide. Keeping
// them in one place makes the pacing of a session easy to find; none of them
// are adjustable at runtime.
package timing

import "time"

// Step is the wait before the car moves one floor.
const Step = 800 * time.Millisecond

// LegHold is the pause between two legs of the same journey.
const LegHold = 500 * time.Millisecond

// Arrival is how long the arrival chime stays on screen before the lift
// becomes ready again.
const Arrival = 1000 * time.Millisecond

// ErrorRevert is how long an out-of-range error stays on the status display.
const ErrorRevert = 1500 * time.Millisecond

// IntroDelay is the wait before the guide first speaks, and before the
// default sequence starts after an unrecognized resume state.
const IntroDelay = 1000 * time.Millisecond

// TaskIntro is the time the greeting stays up before the first task.
const TaskIntro = 5000 * time.Millisecond

// Narrative separates a mission success from the next guide message.
const Narrative = 3000 * time.Millisecond

// LabelSuccess keeps a correct guess on the status display.
const LabelSuccess = 2000 * time.Millisecond

// LabelFailure keeps a wrong guess on the status display.
const LabelFailure = 1200 * time.Millisecond
