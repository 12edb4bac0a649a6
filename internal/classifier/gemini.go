package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sony/gobreaker"
)

// Defaults for the Gemini REST client.
const (
	DefaultEndpoint = "https://generativelanguage.googleapis.com"
	DefaultModel    = "gemini-2.0-flash-exp"
	DefaultTimeout  = 30 * time.Second
)

var (
	// ErrUnavailable is returned when no API key is configured or the breaker is open.
	ErrUnavailable = errors.New("classifier: unavailable")
	// ErrUpstream is returned when the model call fails or returns no text.
	ErrUpstream = errors.New("classifier: upstream failure")
)

// Classifier turns free text into a risk report.
type Classifier interface {
	Classify(ctx context.Context, text string) (Report, error)
}

// GeminiConfig configures the Gemini generateContent client.
type GeminiConfig struct {
	APIKey   string
	Model    string
	Endpoint string
	Timeout  time.Duration
}

// Gemini calls the generateContent REST endpoint through a circuit breaker.
type Gemini struct {
	cfg     GeminiConfig
	breaker *gobreaker.CircuitBreaker
	logger  *slog.Logger
}

// NewGemini constructs a Gemini classifier. Missing fields take package defaults.
func NewGemini(cfg GeminiConfig, logger *slog.Logger) *Gemini {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	cfg.Endpoint = strings.TrimRight(cfg.Endpoint, "/")

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "classifier",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		// A caller giving up says nothing about upstream health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
		},
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("classifier.breaker", slog.String("name", name), slog.String("from", from.String()), slog.String("to", to.String()))
		},
	})
	return &Gemini{cfg: cfg, breaker: cb, logger: logger}
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// Classify implements Classifier.
func (g *Gemini) Classify(ctx context.Context, text string) (Report, error) {
	if g.cfg.APIKey == "" {
		return Report{}, ErrUnavailable
	}
	if err := ctx.Err(); err != nil {
		return Report{}, err
	}

	out, err := g.breaker.Execute(func() (interface{}, error) {
		return g.generate(ctx, BuildPrompt(text))
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return Report{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if err != nil {
		return Report{}, err
	}
	return ParseReport(out.(string)), nil
}

type agentResult struct {
	status int
	body   []byte
	errs   []error
}

// generate calls the model. The request timeout is the configured Timeout or
// the time left before ctx's deadline, whichever is shorter. fiber.Agent takes
// no context, so on cancellation generate returns ctx.Err() at once and the
// in-flight call is abandoned until its own timeout fires.
func (g *Gemini) generate(ctx context.Context, prompt string) (string, error) {
	timeout := g.cfg.Timeout
	if dl, ok := ctx.Deadline(); ok {
		left := time.Until(dl)
		if left <= 0 {
			return "", context.DeadlineExceeded
		}
		if left < timeout {
			timeout = left
		}
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", g.cfg.Endpoint, g.cfg.Model)
	agent := fiber.Post(url).
		JSON(generateRequest{Contents: []content{{Parts: []part{{Text: prompt}}}}}).
		Set("x-goog-api-key", g.cfg.APIKey).
		Timeout(timeout)

	done := make(chan agentResult, 1)
	go func() {
		status, body, errs := agent.Bytes()
		done <- agentResult{status: status, body: body, errs: errs}
	}()

	var res agentResult
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res = <-done:
	}
	status, body, errs := res.status, res.body, res.errs
	if len(errs) > 0 {
		return "", fmt.Errorf("%w: %v", ErrUpstream, errors.Join(errs...))
	}
	if status != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrUpstream, status)
	}

	var resp generateResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("%w: decode: %v", ErrUpstream, err)
	}
	var b strings.Builder
	for _, c := range resp.Candidates {
		for _, p := range c.Content.Parts {
			b.WriteString(p.Text)
		}
		if b.Len() > 0 {
			break
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("%w: empty reply", ErrUpstream)
	}
	return b.String(), nil
}
