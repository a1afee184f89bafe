package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/archassist/archgames-backend/internal/logger"
	"github.com/archassist/archgames-backend/internal/types"
)

// RawCircuit is an untrusted generator payload. Nothing in it is used before
// circuit.ParseCandidate has checked every field.
type RawCircuit map[string]interface{}

// CircuitGenerator produces candidate circuits for a tier and difficulty.
// Implementations may fail or return garbage; callers own validation and the
// fallback path.
type CircuitGenerator interface {
	GenerateCircuit(ctx context.Context, tier types.ComplexityType, difficulty types.Difficulty) (RawCircuit, error)
}

type llmGenerator struct {
	log        *logger.Logger
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	maxRetries int
}

// NewLLMGenerator builds the hosted-model generator from the environment.
func NewLLMGenerator(log *logger.Logger) (CircuitGenerator, error) {
	apiKey := os.Getenv("LLM_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("missing LLM_API_KEY")
	}

	baseURL := os.Getenv("LLM_BASE_URL")
	if baseURL == "" {
		baseURL = "https://api.openai.com"
	}

	model := os.Getenv("LLM_MODEL")
	if model == "" {
		model = "gpt-4o-mini"
	}

	timeoutSec := 60
	if v := os.Getenv("LLM_TIMEOUT_SECONDS"); v != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && parsed > 0 {
			timeoutSec = parsed
		}
	}

	maxRetries := 2
	if v := os.Getenv("LLM_MAX_RETRIES"); v != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && parsed >= 0 {
			maxRetries = parsed
		}
	}

	return &llmGenerator{
		log:        log.With("service", "LLMGenerator"),
		baseURL:    baseURL,
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
		maxRetries: maxRetries,
	}, nil
}

type llmHTTPError struct {
	StatusCode int
	Body       string
}

func (e *llmHTTPError) Error() string {
	return fmt.Sprintf("llm http %d: %s", e.StatusCode, e.Body)
}

func isRetryableHTTP(code int) bool {
	if code == 408 || code == 429 {
		return true
	}
	return code >= 500 && code <= 599
}

func isRetryableErr(err error) bool {
	var httpErr *llmHTTPError
	if errors.As(err, &httpErr) {
		return isRetryableHTTP(httpErr.StatusCode)
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}
	return false
}

func (g *llmGenerator) GenerateCircuit(ctx context.Context, tier types.ComplexityType, difficulty types.Difficulty) (RawCircuit, error) {
	prompt := buildCircuitPrompt(tier, difficulty)

	var lastErr error
	for attempt := 0; attempt <= g.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(200*(1<<uint(attempt-1)))*time.Millisecond +
				time.Duration(rand.Intn(100))*time.Millisecond
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}
		raw, err := g.complete(ctx, prompt)
		if err == nil {
			return raw, nil
		}
		lastErr = err
		if !isRetryableErr(err) {
			break
		}
		g.log.Warn("LLM call failed, retrying", "attempt", attempt, "error", err)
	}
	return nil, lastErr
}

func (g *llmGenerator) complete(ctx context.Context, prompt string) (RawCircuit, error) {
	body := map[string]interface{}{
		"model": g.model,
		"messages": []map[string]string{
			{"role": "system", "content": "You generate logic-gate exercises for a computer architecture course. Respond with a single JSON object and nothing else."},
			{"role": "user", "content": prompt},
		},
		"response_format": map[string]string{"type": "json_object"},
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/v1/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &llmHTTPError{StatusCode: resp.StatusCode, Body: truncate(string(raw), 300)}
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("decode llm response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("llm response has no choices")
	}

	content := stripFences(parsed.Choices[0].Message.Content)
	var out RawCircuit
	if err := json.Unmarshal([]byte(content), &out); err != nil {
		return nil, fmt.Errorf("llm content is not a JSON object: %w", err)
	}
	return out, nil
}

// stripFences removes a markdown code fence if the model wrapped its JSON in
// one. This is fence removal only; malformed JSON inside is not repaired.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func buildCircuitPrompt(tier types.ComplexityType, difficulty types.Difficulty) string {
	gateCount := difficulty.GateCount()
	inputCount := difficulty.InputCount()

	var b strings.Builder
	fmt.Fprintf(&b, "Create a logic-gate exercise at %s difficulty using a chain of %d gates drawn from AND, OR, NOT, XOR, NAND, NOR, XNOR. Use at least two different gate types and not only AND/OR.\n", difficulty, gateCount)

	switch tier {
	case types.ComplexityMultipleCases:
		fmt.Fprintf(&b, `Provide 3 test cases with different inputs and differing final outputs.
JSON format:
{
  "pattern": ["GATE1", "GATE2", ...],
  "test_cases": {
    "case1": [[in1, in2, ..., out], ...],
    "case2": [[in1, in2, ..., out], ...],
    "case3": [[in1, in2, ..., out], ...]
  }
}
Each case has one row per gate; a row lists %d binary inputs followed by the gate's output (a NOT row lists exactly one input). All values are 0 or 1.`, inputCount)
	case types.ComplexityPatternAnalysis:
		b.WriteString(`The gate chain, applied repeatedly, produces a repeating bit sequence of 8 elements containing both 0s and 1s.
JSON format:
{
  "pattern": ["GATE1", "GATE2", ...],
  "sequence": [b1, b2, b3, b4, b5, b6, b7, b8]
}
All sequence values are 0 or 1.`)
	default:
		fmt.Fprintf(&b, `Provide one evaluation row per gate with varied inputs.
JSON format:
{
  "pattern": ["GATE1", "GATE2", ...],
  "input_values": [[in1, in2, ..., out], ...]
}
A row lists %d binary inputs followed by that gate's output (a NOT row lists exactly one input). All values are 0 or 1.`, inputCount)
	}
	return b.String()
}
