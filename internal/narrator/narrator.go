// Package narrator rewrites the guide's scripted messages with Gemini.
package narrator

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

//go:embed prompts/rephrase.txt
var rephrasePrompt string

var rephraseTemplate = template.Must(template.New("rephrase").Parse(rephrasePrompt))

// Scene is what the narrator knows when it speaks.
type Scene struct {
	Persona  string
	Message  string
	Level    int
	MinLevel int
	MaxLevel int

	// Floor the player is on, when its sign is known.
	FloorName        string
	FloorDescription string
}

type Narrator struct {
	client  *genai.Client
	model   *genai.GenerativeModel
	persona string
	log     *zap.Logger
}

func NewNarrator(ctx context.Context, apiKey, modelName, persona string, log *zap.Logger) (*Narrator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("narrator needs an API key")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Narrator{
		client:  client,
		model:   client.GenerativeModel(modelName),
		persona: persona,
		log:     log,
	}, nil
}

func (n *Narrator) Close() error {
	return n.client.Close()
}

// Rephrase returns the guide message in the narrator's voice. On any
// failure it returns the original message along with the error.
func (n *Narrator) Rephrase(ctx context.Context, scene Scene) (string, error) {
	if scene.Persona == "" {
		scene.Persona = n.persona
	}
	prompt, err := BuildPrompt(scene)
	if err != nil {
		return scene.Message, err
	}

	resp, err := n.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		n.log.Warn("narrator request failed", zap.Error(err))
		return scene.Message, err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return scene.Message, fmt.Errorf("no content returned from Gemini")
	}
	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return scene.Message, fmt.Errorf("unexpected response type from Gemini")
	}

	rewritten, err := Accept(scene.Message, string(text))
	if err != nil {
		n.log.Info("narrator reply discarded", zap.Error(err))
		return scene.Message, err
	}
	return rewritten, nil
}

// BuildPrompt renders the rephrase prompt for scene.
func BuildPrompt(scene Scene) (string, error) {
	var buf bytes.Buffer
	if err := rephraseTemplate.Execute(&buf, scene); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Accept cleans a model reply and checks it kept the markup of the
// original message.
func Accept(original, reply string) (string, error) {
	clean := strings.TrimSpace(reply)
	clean = strings.TrimPrefix(clean, "```html")
	clean = strings.TrimPrefix(clean, "```")
	clean = strings.TrimSuffix(clean, "```")
	clean = strings.TrimSpace(clean)

	if clean == "" {
		return "", fmt.Errorf("empty reply")
	}
	if len(clean) > 3*len(original)+80 {
		return "", fmt.Errorf("reply too long: %d bytes", len(clean))
	}
	for _, tag := range []string{"<b>", "</b>", "<br>"} {
		if strings.Count(clean, tag) < strings.Count(original, tag) {
			return "", fmt.Errorf("reply dropped %s markup", tag)
		}
	}
	return clean, nil
}
