// Package gemini generates test procedures with Google's Gemini models.
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"purity/internal/model"
)

// DefaultModel is used when Config.Model is empty.
const DefaultModel = "gemini-3-flash-preview"

var (
	ErrNoAPIKey   = errors.New("gemini API key is required")
	ErrEmpty      = errors.New("gemini returned no text")
	ErrIncomplete = errors.New("gemini returned an incomplete procedure")
)

// Config holds provider settings.
type Config struct {
	APIKey string
	Model  string

	// BaseURL overrides the API endpoint. Tests point it at a local server.
	BaseURL string
}

// Generator implements procedure.Generator on the Gemini API.
type Generator struct {
	client *genai.Client
	model  string
	logger *zap.Logger
}

// New creates a Gemini client. It does not contact the API.
func New(ctx context.Context, cfg Config, logger *zap.Logger) (*Generator, error) {
	if cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &Generator{client: client, model: cfg.Model, logger: logger}, nil
}

// Model is the model name requests are sent to.
func (g *Generator) Model() string { return g.model }

// Generate asks the model for a procedure as structured JSON.
func (g *Generator) Generate(ctx context.Context, foodName, adulterantName string) (model.TestProcedure, error) {
	g.logger.Debug("Requesting procedure",
		zap.String("model", g.model),
		zap.String("food", foodName),
		zap.String("adulterant", adulterantName))

	resp, err := g.client.Models.GenerateContent(ctx, g.model,
		genai.Text(Prompt(foodName, adulterantName)),
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   ResponseSchema(),
		},
	)
	if err != nil {
		return model.TestProcedure{}, fmt.Errorf("gemini generate failed: %w", err)
	}
	return ParseProcedure(resp.Text())
}

// Prompt is the instruction sent for a food/adulterant pair.
func Prompt(foodName, adulterantName string) string {
	return fmt.Sprintf("Create a simple, educational scientific test procedure to detect the adulterant %q in the food item %q.\n"+
		"Target audience: School students.\n"+
		"Keep it safe and simple.", adulterantName, foodName)
}

var procedureFields = []string{"aim", "materials", "procedure", "observation", "conclusion", "precautions"}

// ResponseSchema constrains the model output to a TestProcedure object.
func ResponseSchema() *genai.Schema {
	str := func() *genai.Schema { return &genai.Schema{Type: genai.TypeString} }
	list := func() *genai.Schema { return &genai.Schema{Type: genai.TypeArray, Items: str()} }

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"aim":         str(),
			"materials":   list(),
			"procedure":   list(),
			"observation": str(),
			"conclusion":  str(),
			"precautions": list(),
		},
		Required:         procedureFields,
		PropertyOrdering: procedureFields,
	}
}

// ParseProcedure decodes model output. Code fences around the JSON are
// tolerated; blank list entries are dropped.
func ParseProcedure(text string) (model.TestProcedure, error) {
	text = stripFence(strings.TrimSpace(text))
	if text == "" {
		return model.TestProcedure{}, ErrEmpty
	}

	var p model.TestProcedure
	if err := json.Unmarshal([]byte(text), &p); err != nil {
		return model.TestProcedure{}, fmt.Errorf("decode procedure: %w", err)
	}

	p.Aim = strings.TrimSpace(p.Aim)
	p.Observation = strings.TrimSpace(p.Observation)
	p.Conclusion = strings.TrimSpace(p.Conclusion)
	p.Materials = compact(p.Materials)
	p.Procedure = compact(p.Procedure)
	p.Precautions = compact(p.Precautions)

	if !p.Complete() {
		return model.TestProcedure{}, ErrIncomplete
	}
	return p, nil
}

func stripFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func compact(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
