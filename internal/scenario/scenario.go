// Package scenario runs Lua scripts against a headless lift session on a
// virtual clock.
package scenario

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Shopify/go-lua"
	"github.com/tatianab/liftguide/internal/engine"
	"github.com/tatianab/liftguide/internal/models"
	"github.com/tatianab/liftguide/internal/schedule"
	"go.uber.org/zap"
)

// settleLimit bounds the tasks one settle call may run.
const settleLimit = 100000

// defaultAutoplayTurns bounds lift.autoplay when the script gives no limit.
const defaultAutoplayTurns = 200

// Config configures a scenario run.
type Config struct {
	Building *models.Building
	Logger   *zap.Logger
	// Out receives guide messages and alerts when Verbose is set.
	Out     io.Writer
	Verbose bool
}

// Result summarizes a finished scenario.
type Result struct {
	Name    string
	State   engine.MissionState
	Level   int
	Elapsed time.Duration
	Checks  int
}

type runner struct {
	ctx     context.Context
	name    string
	log     *zap.Logger
	sched   *schedule.Scheduler
	session *engine.Session
	checks  int
}

// RunFile runs the scenario script at path.
func RunFile(ctx context.Context, path string, cfg Config) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return RunString(ctx, name, string(data), cfg)
}

// RunString runs src as a scenario called name.
func RunString(ctx context.Context, name, src string, cfg Config) (*Result, error) {
	if cfg.Building == nil {
		b, err := models.DefaultBuilding()
		if err != nil {
			return nil, err
		}
		cfg.Building = b
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Out == nil || !cfg.Verbose {
		cfg.Out = io.Discard
	}
	log := cfg.Logger.With(zap.String("scenario", name))

	sched := schedule.New()
	session, err := engine.NewSession(cfg.Building, &logRenderer{log: log, out: cfg.Out}, sched,
		engine.WithLogger(log))
	if err != nil {
		return nil, fmt.Errorf("new session: %w", err)
	}
	r := &runner{ctx: ctx, name: name, log: log, sched: sched, session: session}

	state := lua.NewState()
	lua.OpenLibraries(state)
	r.register(state)

	if err := lua.LoadBuffer(state, src, name, ""); err != nil {
		return nil, fmt.Errorf("load lua: %w", err)
	}
	if err := state.ProtectedCall(0, 0, 0); err != nil {
		return nil, fmt.Errorf("run %s: %w", name, err)
	}

	res := &Result{
		Name:    name,
		State:   session.State(),
		Level:   session.Level(),
		Elapsed: sched.Now(),
		Checks:  r.checks,
	}
	log.Info("scenario finished",
		zap.Stringer("state", res.State),
		zap.Int("level", res.Level),
		zap.Duration("elapsed", res.Elapsed),
		zap.Int("checks", res.Checks))
	return res, nil
}

func (r *runner) register(state *lua.State) {
	state.NewTable()
	lua.SetFunctions(state, []lua.RegistryFunction{
		{Name: "start", Function: r.start},
		{Name: "press", Function: r.press},
		{Name: "back", Function: r.back},
		{Name: "clear", Function: r.clear},
		{Name: "go", Function: r.goCommand},
		{Name: "submit", Function: r.submit},
		{Name: "wait", Function: r.wait},
		{Name: "settle", Function: r.settle},
		{Name: "level", Function: r.level},
		{Name: "state", Function: r.state},
		{Name: "mode", Function: r.mode},
		{Name: "command", Function: r.command},
		{Name: "labeled", Function: r.labeled},
		{Name: "now", Function: r.now},
		{Name: "expect_level", Function: r.expectLevel},
		{Name: "expect_state", Function: r.expectState},
		{Name: "expect_mode", Function: r.expectMode},
		{Name: "expect_labeled_count", Function: r.expectLabeledCount},
		{Name: "autoplay", Function: r.autoplay},
	}, 0)
	state.SetGlobal("lift")
}

// checkContext aborts the script once the run is cancelled.
func (r *runner) checkContext(state *lua.State) {
	if err := r.ctx.Err(); err != nil {
		lua.Errorf(state, "scenario cancelled: %s", err.Error())
	}
}

// pushResult leaves nil for success or the lift error code on the stack.
// Anything that is not a lift error aborts the script.
func pushResult(state *lua.State, err error) int {
	if err == nil {
		state.PushNil()
		return 1
	}
	var liftErr *engine.Error
	if errors.As(err, &liftErr) {
		state.PushString(string(liftErr.Code))
		return 1
	}
	lua.Errorf(state, "%s", err.Error())
	return 0
}

func (r *runner) start(state *lua.State) int {
	r.checkContext(state)
	return pushResult(state, r.session.Start(lua.OptString(state, 1, "")))
}

func (r *runner) press(state *lua.State) int {
	r.checkContext(state)
	return pushResult(state, r.session.Press(lua.CheckString(state, 1)))
}

func (r *runner) back(state *lua.State) int {
	r.checkContext(state)
	return pushResult(state, r.session.Backspace())
}

func (r *runner) clear(state *lua.State) int {
	r.checkContext(state)
	return pushResult(state, r.session.Clear())
}

// retype replaces the command with the optional string argument.
func (r *runner) retype(state *lua.State) error {
	if state.IsNoneOrNil(1) {
		return nil
	}
	command := lua.CheckString(state, 1)
	if err := r.session.Clear(); err != nil {
		return err
	}
	return r.session.Press(command)
}

func (r *runner) goCommand(state *lua.State) int {
	r.checkContext(state)
	if err := r.retype(state); err != nil {
		return pushResult(state, err)
	}
	return pushResult(state, r.session.Go())
}

func (r *runner) submit(state *lua.State) int {
	r.checkContext(state)
	if err := r.retype(state); err != nil {
		return pushResult(state, err)
	}
	return pushResult(state, r.session.Submit())
}

func (r *runner) wait(state *lua.State) int {
	r.checkContext(state)
	ms := lua.CheckInteger(state, 1)
	if ms < 0 {
		lua.ArgumentError(state, 1, "negative wait")
	}
	state.PushInteger(r.sched.Advance(time.Duration(ms) * time.Millisecond))
	return 1
}

func (r *runner) settle(state *lua.State) int {
	r.checkContext(state)
	n, err := r.sched.RunUntilIdle(settleLimit)
	if err != nil {
		lua.Errorf(state, "settle: %s", err.Error())
	}
	state.PushInteger(n)
	return 1
}

func (r *runner) level(state *lua.State) int {
	state.PushInteger(r.session.Level())
	return 1
}

func (r *runner) state(state *lua.State) int {
	state.PushString(r.session.State().String())
	return 1
}

func (r *runner) mode(state *lua.State) int {
	state.PushString(r.session.Mode().String())
	return 1
}

func (r *runner) command(state *lua.State) int {
	state.PushString(r.session.Command())
	return 1
}

func (r *runner) labeled(state *lua.State) int {
	levels := r.session.Snapshot().Labeled
	state.NewTable()
	for i, level := range levels {
		state.PushInteger(level)
		state.RawSetInt(-2, i+1)
	}
	return 1
}

func (r *runner) now(state *lua.State) int {
	state.PushInteger(int(r.sched.Now() / time.Millisecond))
	return 1
}

func (r *runner) expectLevel(state *lua.State) int {
	want := lua.CheckInteger(state, 1)
	r.checks++
	if got := r.session.Level(); got != want {
		lua.Errorf(state, "level = %d, want %d", got, want)
	}
	return 0
}

func (r *runner) expectState(state *lua.State) int {
	name := lua.CheckString(state, 1)
	want, ok := engine.ParseMissionState(name)
	if !ok {
		lua.ArgumentError(state, 1, "unknown mission state "+name)
	}
	r.checks++
	if got := r.session.State(); got != want {
		lua.Errorf(state, "state = %s, want %s", got, want)
	}
	return 0
}

func (r *runner) expectMode(state *lua.State) int {
	want := strings.ToLower(lua.CheckString(state, 1))
	r.checks++
	if got := r.session.Mode().String(); strings.ToLower(got) != want {
		lua.Errorf(state, "mode = %s, want %s", got, want)
	}
	return 0
}

func (r *runner) expectLabeledCount(state *lua.State) int {
	want := lua.CheckInteger(state, 1)
	r.checks++
	if got := len(r.session.Snapshot().Labeled); got != want {
		lua.Errorf(state, "labeled floors = %d, want %d", got, want)
	}
	return 0
}

// autoplay lets the autopilot play until the mission completes or the turn
// limit runs out. It returns the number of turns taken.
func (r *runner) autoplay(state *lua.State) int {
	limit := lua.OptInteger(state, 1, defaultAutoplayTurns)
	turns := 0
	for turns < limit && r.session.State() != engine.StateCompleted {
		r.checkContext(state)
		if _, err := r.sched.RunUntilIdle(settleLimit); err != nil {
			lua.Errorf(state, "autoplay: %s", err.Error())
		}
		move, ok := engine.NextMove(r.session.Snapshot())
		if !ok {
			break
		}
		turns++
		r.log.Debug("autopilot move", zap.Int("turn", turns), zap.Stringer("move", move))
		if err := r.session.Clear(); err != nil {
			lua.Errorf(state, "autoplay: %s", err.Error())
		}
		if err := r.session.Press(move.Command); err != nil {
			lua.Errorf(state, "autoplay: %s", err.Error())
		}
		var err error
		if move.Submit {
			err = r.session.Submit()
		} else {
			err = r.session.Go()
		}
		if err != nil {
			lua.Errorf(state, "autoplay %s: %s", move, err.Error())
		}
	}
	if _, err := r.sched.RunUntilIdle(settleLimit); err != nil {
		lua.Errorf(state, "autoplay: %s", err.Error())
	}
	state.PushInteger(turns)
	return 1
}

// logRenderer sends the session's output to the log, and the guide's words
// to out.
type logRenderer struct {
	log *zap.Logger
	out io.Writer
}

func (l *logRenderer) Report(level int) {
	l.log.Debug("car", zap.Int("level", level))
}

func (l *logRenderer) ShowStatus(text string, style engine.StatusStyle) {
	l.log.Debug("status", zap.String("text", text), zap.Int("style", int(style)))
}

func (l *logRenderer) ShowPanel(text string) {
	l.log.Debug("panel", zap.String("text", text))
}

func (l *logRenderer) SetTargetHighlight(level int, on bool) {
	l.log.Debug("target", zap.Int("level", level), zap.Bool("on", on))
}

func (l *logRenderer) SetControlsEnabled(enabled bool) {}
func (l *logRenderer) SetSubmitEnabled(enabled bool)   {}
func (l *logRenderer) ShowCommand(text string)         {}

func (l *logRenderer) ShowFloorLabel(level int, text string) {
	l.log.Debug("floor label", zap.Int("level", level), zap.String("text", text))
}

func (l *logRenderer) ShowGuideMessage(text string) {
	l.log.Info("guide", zap.String("text", text))
	fmt.Fprintf(l.out, "GUIDE: %s\n", plain(text))
}

func (l *logRenderer) Alert(text string) {
	l.log.Info("alert", zap.String("text", text))
	fmt.Fprintf(l.out, "ALERT: %s\n", text)
}

// plain strips the guide's markup for line-oriented output.
func plain(text string) string {
	return strings.NewReplacer("<br><br>", " ", "<br>", " ", "<b>", "", "</b>", "").Replace(text)
}
