package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/tatianab/liftguide/internal/config"
	"github.com/tatianab/liftguide/internal/engine"
	"github.com/tatianab/liftguide/internal/logging"
	"github.com/tatianab/liftguide/internal/models"
	"github.com/tatianab/liftguide/internal/schedule"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// transcriptSize is how many recent guide messages the player sees.
const transcriptSize = 4

func main() {
	ctx := context.Background()
	cfg, err := config.LoadConfig()
	if err != nil {
		config.Exitf("Failed to load config: %v", err)
	}
	log, err := logging.New(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		config.Exitf("Failed to create logger: %v", err)
	}
	defer log.Sync()

	building, err := models.LoadBuilding(cfg.BuildingFile)
	if err != nil {
		log.Fatal("Failed to load building", zap.Error(err))
	}

	out := &printer{verbose: cfg.Verbose}
	sched := schedule.New()
	session, err := engine.NewSession(building, out, sched, engine.WithLogger(log))
	if err != nil {
		log.Fatal("Failed to create session", zap.Error(err))
	}

	missionState := cfg.MissionState
	if missionState == "" {
		if missionState, err = engine.ParseParams(cfg.Params); err != nil {
			log.Fatal("Failed to read params", zap.Error(err))
		}
	}
	if err := session.Start(missionState); err != nil {
		fmt.Printf("Ignoring mission state: %v\n", err)
	}

	// The player is an LLM when a key is configured, the autopilot otherwise.
	var player *genai.GenerativeModel
	if cfg.GeminiAPIKey != "" {
		client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
		if err != nil {
			log.Fatal("Failed to create player client", zap.Error(err))
		}
		defer client.Close()
		player = client.GenerativeModel(cfg.GeminiModel)
		fmt.Printf("--- Player: %s ---\n\n", cfg.GeminiModel)
	} else {
		fmt.Print("--- Player: autopilot ---\n\n")
	}

	for turn := 1; turn <= cfg.MaxTurns; turn++ {
		if _, err := sched.RunUntilIdle(0); err != nil {
			log.Fatal("Scheduler did not settle", zap.Error(err))
		}
		if session.State() == engine.StateCompleted {
			break
		}

		snap := session.Snapshot()
		move, ok := engine.NextMove(snap)
		if !ok {
			fmt.Println("Nothing left to do.")
			break
		}
		if player != nil {
			chosen, err := getPlayerMove(ctx, player, session, out.recent())
			if err != nil {
				log.Warn("player move rejected, using autopilot", zap.Error(err))
			} else {
				move = chosen
			}
		}

		fmt.Printf("--- Turn %d (level %s, %s) ---\n", turn, engine.FormatLevel(snap.Level), snap.State)
		fmt.Printf("Player: %s\n", move)
		if err := play(session, move); err != nil {
			fmt.Printf("Lift refused: %v\n", err)
		}
	}
	if _, err := sched.RunUntilIdle(0); err != nil {
		log.Fatal("Scheduler did not settle", zap.Error(err))
	}

	fmt.Printf("\nFinal state: %s at level %s after %s\n",
		session.State(), engine.FormatLevel(session.Level()), sched.Now())
	if session.State() == engine.StateCompleted {
		fmt.Println("Mission complete!")
	}
}

func play(session *engine.Session, move engine.Move) error {
	if err := session.Clear(); err != nil {
		return err
	}
	if err := session.Press(move.Command); err != nil {
		return err
	}
	if move.Submit {
		return session.Submit()
	}
	return session.Go()
}

func getPlayerMove(ctx context.Context, model *genai.GenerativeModel, session *engine.Session, recent []string) (engine.Move, error) {
	resp, err := model.GenerateContent(ctx, genai.Text(buildPrompt(session, recent)))
	if err != nil {
		return engine.Move{}, err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return engine.Move{}, errors.New("empty response")
	}
	return parseMove(fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0]))
}

func buildPrompt(session *engine.Session, recent []string) string {
	snap := session.Snapshot()
	var floors strings.Builder
	for _, level := range session.Building().Levels() {
		marker := "  "
		if level == snap.Level {
			marker = "> "
		}
		fmt.Fprintf(&floors, "%s%s\n", marker, session.FloorText(level))
	}

	keys := "+ moves up one floor and - moves down one floor; repeat them, e.g. +++ or --."
	if snap.Mode == engine.Numeric {
		keys = "↑N moves up N floors and ↓N moves down N floors, e.g. ↑3 or ↓2."
	}
	task := "Follow the guide."
	if snap.SubmitEnabled {
		task = "The guide asks which floor this is. Answer with SUBMIT and the floor number, e.g. SUBMIT ↑4, SUBMIT ↓2 or SUBMIT 0."
	}

	return fmt.Sprintf(`You are riding a lift in a building, guided by a friendly Guide.
Floors (you are at ">"):
%s
Controls: %s
Guide says:
%s

%s
Reply with exactly one line: GO <keys> to travel, or SUBMIT <floor> to name the current floor.`,
		floors.String(), keys, strings.Join(recent, "\n"), task)
}

// parseMove reads a player reply such as "GO ++" or "SUBMIT ↓2".
func parseMove(reply string) (engine.Move, error) {
	for _, line := range strings.Split(reply, "\n") {
		line = strings.Trim(strings.TrimSpace(line), "`")
		verb, rest, _ := strings.Cut(line, " ")
		rest = strings.ReplaceAll(strings.TrimSpace(rest), " ", "")
		switch strings.ToUpper(verb) {
		case "GO":
			if rest != "" {
				return engine.Move{Command: rest}, nil
			}
		case "SUBMIT":
			if rest != "" {
				return engine.Move{Command: rest, Submit: true}, nil
			}
		}
	}
	return engine.Move{}, fmt.Errorf("no move in reply %q", reply)
}

// printer writes what a rider would see to stdout.
type printer struct {
	verbose bool
	guide   []string
}

func (p *printer) recent() []string {
	if len(p.guide) > transcriptSize {
		return p.guide[len(p.guide)-transcriptSize:]
	}
	return p.guide
}

func (p *printer) Report(level int) {
	if p.verbose {
		fmt.Printf("  [level %s]\n", engine.FormatLevel(level))
	}
}

func (p *printer) ShowStatus(text string, style engine.StatusStyle) {
	if p.verbose || style == engine.StyleError || style == engine.StyleSuccess {
		fmt.Printf("  Display: %s\n", text)
	}
}

func (p *printer) ShowPanel(text string) {
	if p.verbose {
		fmt.Printf("  Panel: %s\n", text)
	}
}

func (p *printer) SetTargetHighlight(level int, on bool) {
	if on {
		fmt.Printf("  Target: level %s\n", engine.FormatLevel(level))
	}
}

func (p *printer) SetControlsEnabled(bool) {}
func (p *printer) SetSubmitEnabled(bool)   {}
func (p *printer) ShowCommand(string)      {}

func (p *printer) ShowFloorLabel(level int, text string) {
	if p.verbose {
		fmt.Printf("  Sign %s: %s\n", engine.FormatLevel(level), text)
	}
}

func (p *printer) ShowGuideMessage(text string) {
	text = strings.NewReplacer("<br><br>", " ", "<br>", " ", "<b>", "", "</b>", "").Replace(text)
	p.guide = append(p.guide, text)
	fmt.Printf("Guide: %s\n", text)
}

func (p *printer) Alert(text string) {
	fmt.Printf("ALERT: %s\n", text)
}
