package engine

import (
	"strconv"
	"strings"
)

// Move is one turn of input: a command followed by GO, or by SUBMIT.
type Move struct {
	Command string
	Submit  bool
}

func (m Move) String() string {
	if m.Submit {
		return "SUBMIT " + m.Command
	}
	return "GO " + m.Command
}

// Travel is the command that moves the car by delta floors in mode.
func Travel(delta int, mode Mode) string {
	dir := Up
	if delta < 0 {
		dir, delta = Down, -delta
	}
	if delta == 0 {
		return ""
	}
	if mode == Numeric {
		return mode.Symbol(dir) + strconv.Itoa(delta)
	}
	return strings.Repeat(mode.Symbol(dir), delta)
}

// Guess is the command that names level as a floor guess.
func Guess(level int, mode Mode) string {
	if level == 0 {
		return "0"
	}
	return Travel(level, mode)
}

// NextMove picks the input that makes progress on the active mission. It
// reports false when there is nothing useful to do right now.
func NextMove(snap Snapshot) (Move, bool) {
	if snap.Journeying || !snap.ControlsEnabled || snap.Advancing {
		return Move{}, false
	}
	if snap.State == StateLabelingTask {
		if snap.SubmitEnabled {
			return Move{Command: Guess(snap.Level, snap.Mode), Submit: true}, true
		}
		level, ok := nearestUnlabeled(snap)
		if !ok {
			if snap.Level == snap.MaxLevel {
				return Move{Command: Travel(-1, snap.Mode)}, !snap.contains(snap.Level)
			}
			return Move{Command: Travel(1, snap.Mode)}, !snap.contains(snap.Level)
		}
		return Move{Command: Travel(level-snap.Level, snap.Mode)}, true
	}
	if snap.HasTarget && snap.Target != snap.Level {
		return Move{Command: Travel(snap.Target-snap.Level, snap.Mode)}, true
	}
	return Move{}, false
}

func nearestUnlabeled(snap Snapshot) (int, bool) {
	labeled := make(map[int]bool, len(snap.Labeled))
	for _, level := range snap.Labeled {
		labeled[level] = true
	}
	best, found := 0, false
	for level := snap.MinLevel; level <= snap.MaxLevel; level++ {
		if labeled[level] || level == snap.Level {
			continue
		}
		if !found || abs(level-snap.Level) < abs(best-snap.Level) {
			best, found = level, true
		}
	}
	return best, found
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// contains reports whether level is labeled.
func (snap Snapshot) contains(level int) bool {
	for _, l := range snap.Labeled {
		if l == level {
			return true
		}
	}
	return false
}
