package scenario

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tatianab/liftguide/internal/engine"
)

func TestBundledScenarios(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("..", "..", "scenarios", "*.lua"))
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) == 0 {
		t.Fatal("no scenarios found")
	}
	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			res, err := RunFile(context.Background(), path, Config{})
			if err != nil {
				t.Fatalf("RunFile: %v", err)
			}
			if res.Checks == 0 {
				t.Error("scenario made no checks")
			}
		})
	}
}

func TestRunStringResult(t *testing.T) {
	src := `
lift.start("MOVING_TO_ART")
lift.go("++")
lift.settle()
lift.expect_level(2)
`
	res, err := RunString(context.Background(), "inline", src, Config{})
	if err != nil {
		t.Fatalf("RunString: %v", err)
	}
	if res.Name != "inline" || res.Level != 2 || res.Checks != 1 {
		t.Errorf("result = %+v", res)
	}
	if res.State != engine.StateMovingToDinosaur {
		t.Errorf("state = %v, want %v", res.State, engine.StateMovingToDinosaur)
	}
	if res.Elapsed <= 0 {
		t.Error("virtual clock did not move")
	}
}

func TestFailedExpectation(t *testing.T) {
	src := `
lift.start("MOVING_TO_ART")
lift.expect_level(3)
`
	_, err := RunString(context.Background(), "bad", src, Config{})
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "level = 0, want 3") {
		t.Errorf("error = %v", err)
	}
}

func TestLiftErrorsAreValues(t *testing.T) {
	src := `
assert(lift.start("NOT_A_STATE") == "UNRECOGNIZED_BOOTSTRAP_STATE")
assert(lift.go("") == "NO_OP")
assert(lift.submit("+") == "SUBMIT_DISABLED")
assert(lift.state() == "IDLE")
lift.expect_level(0)
`
	if _, err := RunString(context.Background(), "errors", src, Config{}); err != nil {
		t.Fatalf("RunString: %v", err)
	}
}

func TestControlsLockedWhileMoving(t *testing.T) {
	src := `
lift.start("MOVING_TO_ART")
lift.go("+")
assert(lift.press("+") == "CONTROLS_DISABLED")
lift.wait(400)
assert(lift.level() == 0)
lift.wait(400)
assert(lift.level() == 1)
`
	if _, err := RunString(context.Background(), "locked", src, Config{}); err != nil {
		t.Fatalf("RunString: %v", err)
	}
}

func TestVerboseWritesGuide(t *testing.T) {
	var out bytes.Buffer
	src := `
lift.start("MOVING_TO_ART")
`
	if _, err := RunString(context.Background(), "verbose", src, Config{Out: &out, Verbose: true}); err != nil {
		t.Fatalf("RunString: %v", err)
	}
	if !strings.Contains(out.String(), "GUIDE: Now, a task for you!") {
		t.Errorf("output = %q", out.String())
	}
	if strings.Contains(out.String(), "<b>") {
		t.Errorf("markup leaked: %q", out.String())
	}
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := RunString(ctx, "cancelled", `lift.start()`, Config{})
	if err == nil || !strings.Contains(err.Error(), "cancelled") {
		t.Errorf("err = %v, want cancellation", err)
	}
}
