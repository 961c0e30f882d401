package engine

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/tatianab/liftguide/internal/timing"
	"go.uber.org/zap"
)

// MissionState is one step of the guide's script.
type MissionState int

const (
	StateIdle MissionState = iota
	StateIntro
	StateMovingToArt
	StateMovingToDinosaur
	StateNumericUpgrade
	StateMovingToSpace
	StateLabelingIntro
	StateLabelingTask
	StateCompleted
)

var stateNames = [...]string{
	StateIdle:             "IDLE",
	StateIntro:            "INTRO",
	StateMovingToArt:      "MOVING_TO_ART",
	StateMovingToDinosaur: "MOVING_TO_DINOSAUR",
	StateNumericUpgrade:   "NUMERIC_UPGRADE",
	StateMovingToSpace:    "MOVING_TO_SPACE",
	StateLabelingIntro:    "LABELING_INTRO",
	StateLabelingTask:     "LABELING_TASK",
	StateCompleted:        "COMPLETED",
}

func (m MissionState) String() string {
	if m < 0 || int(m) >= len(stateNames) {
		return fmt.Sprintf("MissionState(%d)", int(m))
	}
	return stateNames[m]
}

// stateAliases maps extra resume identifiers onto states.
var stateAliases = map[string]MissionState{
	"MOVING_TO_TARGET": StateMovingToArt,
	"LABELING":         StateLabelingTask,
}

// ParseMissionState resolves a resume identifier. Matching ignores case,
// and accepts MOVING_TO_ART, moving-to-art and MovingToArt alike.
func ParseMissionState(id string) (MissionState, bool) {
	key := normalizeStateID(id)
	if key == "" {
		return StateIdle, false
	}
	for state, name := range stateNames {
		if MissionState(state) != StateIdle && name == key {
			return MissionState(state), true
		}
	}
	state, ok := stateAliases[key]
	return state, ok
}

func normalizeStateID(id string) string {
	var b strings.Builder
	var prev rune
	for _, r := range strings.TrimSpace(id) {
		switch {
		case r == '-' || r == ' ' || r == '_':
			r = '_'
		case unicode.IsUpper(r) && (unicode.IsLower(prev) || unicode.IsDigit(prev)):
			b.WriteRune('_')
		}
		b.WriteRune(unicode.ToUpper(r))
		prev = r
	}
	return b.String()
}

// transition is one row of the mission table. A row without holds is a
// narrative state that moves on to next after delay by itself.
type transition struct {
	guide     func(s *Session) string
	target    int
	hasTarget bool
	action    func(s *Session)
	arrive    func(s *Session) // runs once the state is shown
	holds     func(s *Session) bool
	success   func(s *Session) string
	retry     func(s *Session)
	next      MissionState
	delay     time.Duration
	terminal  bool
}

func say(text string) func(*Session) string {
	return func(*Session) string { return text }
}

func sayRetry(format string, level int) func(*Session) {
	return func(s *Session) {
		s.showGuide(fmt.Sprintf(format, s.floorName(level), FormatLevel(level)))
	}
}

func reach(level int) func(*Session) bool {
	return func(s *Session) bool { return s.car.Level == level }
}

const (
	artLevel      = 2
	dinosaurLevel = -5
	spaceLevel    = 6
	teleportLevel = 0
)

var missions = map[MissionState]transition{
	StateIntro: {
		guide: say("Hello! I am your Guide. 👋<br><br>To go UP use <b>+</b>.<br>To go DOWN use <b>-</b>."),
		next:  StateMovingToArt,
		delay: timing.TaskIntro,
	},
	StateMovingToArt: {
		guide: func(s *Session) string {
			return fmt.Sprintf("Now, a task for you!<br><br>Please take the lift to the <b>%s (Level %s)</b>.",
				s.floorName(artLevel), FormatLevel(artLevel))
		},
		target:    artLevel,
		hasTarget: true,
		holds:     reach(artLevel),
		success: func(s *Session) string {
			return fmt.Sprintf("🌟 Excellent work!<br>You reached the %s!", s.floorName(artLevel))
		},
		retry: sayRetry("Not quite there yet.<br>I need you to go to <b>Level %[2]s</b> (%[1]s).", artLevel),
		next:  StateMovingToDinosaur,
		delay: timing.Narrative,
	},
	StateMovingToDinosaur: {
		guide: func(s *Session) string {
			return fmt.Sprintf("Time to dig deep!<br><br>Take the lift all the way down to the <b>%s (Level %s)</b>.<br>One command can hold many moves.",
				s.floorName(dinosaurLevel), FormatLevel(dinosaurLevel))
		},
		target:    dinosaurLevel,
		hasTarget: true,
		holds:     reach(dinosaurLevel),
		success: func(s *Session) string {
			return fmt.Sprintf("🦖 Roar! You found the %s!", s.floorName(dinosaurLevel))
		},
		retry: sayRetry("Keep going! The <b>%s</b> is on <b>Level %s</b>.", dinosaurLevel),
		next:  StateNumericUpgrade,
		delay: timing.Narrative,
	},
	StateNumericUpgrade: {
		action: func(s *Session) { s.teleportAndUpgrade(teleportLevel) },
		guide: func(s *Session) string {
			return fmt.Sprintf("Whoosh! ✨ The lift has been upgraded and you are back on the <b>%s</b>.<br><br>"+
				"Now type a direction and a number: <b>↑4</b> goes up four floors, <b>↓2</b> goes down two.",
				s.floorName(teleportLevel))
		},
		next:  StateMovingToSpace,
		delay: timing.Narrative,
	},
	StateMovingToSpace: {
		guide: func(s *Session) string {
			return fmt.Sprintf("Let's try the new buttons!<br><br>Take the lift up to <b>%s (Level %s)</b>.",
				s.floorName(spaceLevel), FormatLevel(spaceLevel))
		},
		target:    spaceLevel,
		hasTarget: true,
		holds:     reach(spaceLevel),
		success: func(s *Session) string {
			return fmt.Sprintf("🚀 Blast off! You made it to %s!", s.floorName(spaceLevel))
		},
		retry: sayRetry("Not there yet. <b>%s</b> is on <b>Level %s</b>.", spaceLevel),
		next:  StateLabelingIntro,
		delay: timing.Narrative,
	},
	StateLabelingIntro: {
		action: (*Session).activateLabeling,
		guide:  say("Oh no! 😱 Most of the floor signs have fallen off.<br><br>Only a few floors still show their names."),
		next:   StateLabelingTask,
		delay:  timing.Narrative,
	},
	StateLabelingTask: {
		guide: say("Visit every floor with a <b>" + Placeholder + "</b> sign.<br>" +
			"When you arrive, type the floor number and press <b>SUBMIT</b>."),
		arrive:  (*Session).promptIfUnlabeled,
		holds:   func(s *Session) bool { return s.labels.Complete() },
		success: say("🏆 Every floor has its sign back. Thank you!"),
		retry:   (*Session).promptLabel,
		next:    StateCompleted,
		delay:   timing.Narrative,
	},
	StateCompleted: {
		guide:    say("🎉 Mission complete!<br><br>You are now a lift expert."),
		terminal: true,
	},
}

// enter makes state active. States with an action wait for a running
// journey to finish first.
func (s *Session) enter(state MissionState) {
	t, ok := missions[state]
	if !ok {
		return
	}
	if t.action != nil && s.journeying {
		s.pending = &state
		s.log.Debug("mission state deferred until arrival", zap.Stringer("state", state))
		return
	}

	s.state = state
	s.advancing = false
	s.log.Info("mission state", zap.Stringer("state", state), zap.Int("level", s.car.Level))

	if t.action != nil {
		t.action(s)
	}
	if t.guide != nil {
		s.showGuide(t.guide(s))
	}
	if t.hasTarget {
		s.setTarget(t.target)
	}
	if t.arrive != nil {
		t.arrive(s)
	}
	if t.holds == nil && !t.terminal {
		s.advanceAfter(t.next, t.delay)
	}
}

func (s *Session) advanceAfter(next MissionState, d time.Duration) {
	s.advancing = true
	s.after(d, "mission:"+next.String(), func() { s.enter(next) })
}

// CheckAndAdvance evaluates the active mission against the lift. It runs
// after every journey and every resolved label guess.
func (s *Session) CheckAndAdvance() {
	t, ok := missions[s.state]
	if !ok || t.holds == nil || s.advancing {
		return
	}
	if !t.holds(s) {
		s.log.Debug("mission not met", zap.Stringer("state", s.state), zap.Int("level", s.car.Level))
		if t.retry != nil {
			t.retry(s)
		}
		return
	}

	s.log.Info("mission met", zap.Stringer("state", s.state), zap.Int("level", s.car.Level))
	s.showGuide(t.success(s))
	s.clearTarget()
	s.advanceAfter(t.next, t.delay)
}

// teleportAndUpgrade moves the car straight to level and switches to
// numeric input. Both happen together; the mode never goes back.
func (s *Session) teleportAndUpgrade(level int) {
	s.car.Level = level
	s.car.Stops = nil
	s.mode = Numeric
	s.buffer.Clear()
	s.render.ShowCommand(s.buffer.Display())
	s.render.Report(level)
	s.showLevelStatus()
	s.log.Info("lift upgraded", zap.Int("level", level), zap.Stringer("mode", s.mode))
}
