package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/skylinehq/skyline/api/internal/config"
	"github.com/skylinehq/skyline/api/internal/logger"
	"github.com/skylinehq/skyline/api/internal/models"
	"google.golang.org/genai"
)

// ErrMissingAPIKey is returned when a query is interpreted without a
// configured Gemini credential. The remote model is never called in
// that case.
var ErrMissingAPIKey = errors.New("missing GEMINI_API_KEY")

// ParseError is returned when the model's output could not be parsed as a
// filter object. Raw holds the normalized model text for diagnosis by the
// caller.
type ParseError struct {
	Err error
	Raw string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse model response: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Interpreter translates a free-text user query into structured filter
// criteria. Implementations are non-deterministic external oracles; there
// is no retry and no repeat-on-malformed-output logic.
type Interpreter interface {
	Interpret(ctx context.Context, query string) (models.FilterCriteria, error)
}

// GeminiInterpreter is the remote-call Interpreter backed by the Gemini API.
type GeminiInterpreter struct {
	client *genai.Client
	log    *logger.Logger
	model  string
}

// NewGeminiInterpreter creates a Gemini-backed interpreter. A missing API
// key is not a construction error: the client is left unset and every
// Interpret call reports ErrMissingAPIKey, matching the contract that
// credential absence surfaces at query time rather than startup.
func NewGeminiInterpreter(ctx context.Context, cfg config.LLMConfig, log *logger.Logger) (*GeminiInterpreter, error) {
	interpreter := &GeminiInterpreter{
		log:   log.WithComponent("llm"),
		model: cfg.Model,
	}

	if cfg.APIKey == "" {
		return interpreter, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	interpreter.client = client
	return interpreter, nil
}

// buildPrompt embeds the raw user query into the fixed instruction template.
func buildPrompt(query string) string {
	return "Output ONLY a JSON object with keys:\n" +
		"  attribute: one of height, zoning, value, etc.\n" +
		"  operator: >, <, >=, <=, or ==\n" +
		"  value: a number or string\n" +
		fmt.Sprintf("For this query: %q", query)
}

// Interpret sends the prompt to Gemini and parses the reply as a single
// JSON filter object.
func (g *GeminiInterpreter) Interpret(ctx context.Context, query string) (models.FilterCriteria, error) {
	if g.client == nil {
		return models.FilterCriteria{}, ErrMissingAPIKey
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(buildPrompt(query)), nil)
	if err != nil {
		return models.FilterCriteria{}, fmt.Errorf("Gemini call failed: %w", err)
	}

	raw := resp.Text()
	g.log.Debug("Raw model output", map[string]interface{}{
		"model":  g.model,
		"output": raw,
	})

	return ParseCriteria(raw)
}

// ParseCriteria normalizes raw model output and parses it as filter
// criteria. Normalization trims whitespace and strips a fenced code block
// (triple-backtick delimited, optionally tagged json) when present. The
// parsed object is returned verbatim with no schema validation of the
// three expected fields.
func ParseCriteria(raw string) (models.FilterCriteria, error) {
	body := stripCodeFence(strings.TrimSpace(raw))

	var criteria models.FilterCriteria
	if err := json.Unmarshal([]byte(body), &criteria); err != nil {
		return models.FilterCriteria{}, &ParseError{Err: err, Raw: body}
	}

	return criteria, nil
}

// stripCodeFence removes an optional ```json ... ``` wrapper around the
// model output.
func stripCodeFence(body string) string {
	if !strings.HasPrefix(body, "```") {
		return body
	}

	body = strings.TrimLeft(body, "`")
	body = strings.TrimSpace(strings.Replace(body, "json", "", 1))
	if strings.HasSuffix(body, "```") {
		body = strings.TrimSpace(strings.TrimSuffix(body, "```"))
	}

	return body
}
