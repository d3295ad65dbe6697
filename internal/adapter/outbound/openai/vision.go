// Package openai implements the vision model port on the OpenAI chat
// completions API.
package openai

import (
	"context"
	"errors"
	"net/http"
	"time"

	goopenai "github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/aiwonderland/imagecode/internal/port/outbound"
	"github.com/aiwonderland/imagecode/internal/utils/metrics"
)

const (
	providerName = "openai"
	opComplete   = "chat completion"
)

// Config holds vision adapter configuration.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	// Timeout bounds one completion call. Zero leaves it to the caller.
	Timeout time.Duration

	// Circuit breaker settings.
	FailureThreshold uint32
	CircuitTimeout   time.Duration
	MaxHalfOpen      uint32
}

// DefaultConfig returns default configuration.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:          "https://api.openai.com/v1",
		Model:            "gpt-4o",
		Timeout:          120 * time.Second,
		FailureThreshold: 5,
		CircuitTimeout:   30 * time.Second,
		MaxHalfOpen:      1,
	}
}

// VisionAdapter implements outbound.VisionModelPort.
type VisionAdapter struct {
	client  *goopenai.Client
	breaker *gobreaker.CircuitBreaker[*goopenai.ChatCompletionResponse]
	config  *Config
	metrics *metrics.Metrics
	logger  *zap.Logger
}

var _ outbound.VisionModelPort = (*VisionAdapter)(nil)

// NewVisionAdapter creates a vision adapter. httpClient and m may be nil.
func NewVisionAdapter(cfg *Config, httpClient *http.Client, m *metrics.Metrics, logger *zap.Logger) *VisionAdapter {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	def := DefaultConfig()
	if cfg.Model == "" {
		cfg.Model = def.Model
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = def.FailureThreshold
	}
	if cfg.MaxHalfOpen == 0 {
		cfg.MaxHalfOpen = def.MaxHalfOpen
	}
	if cfg.CircuitTimeout <= 0 {
		cfg.CircuitTimeout = def.CircuitTimeout
	}

	clientCfg := goopenai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	if httpClient != nil {
		clientCfg.HTTPClient = httpClient
	}

	a := &VisionAdapter{
		client:  goopenai.NewClientWithConfig(clientCfg),
		config:  cfg,
		metrics: m,
		logger:  logger.Named("openai"),
	}

	threshold := cfg.FailureThreshold
	a.breaker = gobreaker.NewCircuitBreaker[*goopenai.ChatCompletionResponse](gobreaker.Settings{
		Name:        providerName,
		MaxRequests: cfg.MaxHalfOpen,
		Interval:    60 * time.Second,
		Timeout:     cfg.CircuitTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		IsSuccessful: isSuccessful,
		OnStateChange: func(name string, from, to gobreaker.State) {
			a.logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
			if a.metrics != nil {
				a.metrics.SetBreakerState(providerName, int(to))
			}
		},
	})

	return a
}

// Provider returns the provider name.
func (a *VisionAdapter) Provider() string {
	return providerName
}

// DefaultModel returns the configured model.
func (a *VisionAdapter) DefaultModel() string {
	return a.config.Model
}

// Complete sends one image and prompt to the chat completions API.
func (a *VisionAdapter) Complete(ctx context.Context, req *outbound.VisionRequest) (*outbound.VisionResponse, error) {
	model := req.Model
	if model == "" {
		model = a.config.Model
	}

	if a.config.APIKey == "" {
		a.record(model, "unconfigured", 0)
		return nil, &outbound.ExternalServiceError{
			Provider:    providerName,
			Op:          opComplete,
			Unavailable: true,
			Err:         outbound.ErrNotConfigured,
		}
	}

	if a.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.config.Timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := a.breaker.Execute(func() (*goopenai.ChatCompletionResponse, error) {
		resp, err := a.client.CreateChatCompletion(ctx, buildRequest(model, req))
		if err != nil {
			return nil, err
		}
		return &resp, nil
	})
	if err != nil {
		ext := toExternalError(err)
		a.record(model, "error", time.Since(start))
		a.logger.Warn("vision completion failed",
			zap.String("model", model),
			zap.Int("status", ext.StatusCode),
			zap.Bool("unavailable", ext.Unavailable),
			zap.Error(err),
		)
		return nil, ext
	}

	if len(resp.Choices) == 0 {
		a.record(model, "error", time.Since(start))
		return nil, &outbound.ExternalServiceError{
			Provider: providerName,
			Op:       opComplete,
			Err:      errors.New("response contained no choices"),
		}
	}

	a.record(model, "success", time.Since(start))
	if a.metrics != nil {
		a.metrics.RecordAITokens(providerName, model, resp.Usage.PromptTokens, resp.Usage.CompletionTokens)
	}

	return &outbound.VisionResponse{
		Content:          resp.Choices[0].Message.Content,
		Model:            resp.Model,
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
	}, nil
}

func (a *VisionAdapter) record(model, status string, d time.Duration) {
	if a.metrics != nil {
		a.metrics.RecordAIRequest(providerName, model, status, d)
	}
}

func buildRequest(model string, req *outbound.VisionRequest) goopenai.ChatCompletionRequest {
	return goopenai.ChatCompletionRequest{
		Model:     model,
		MaxTokens: req.MaxTokens,
		Messages: []goopenai.ChatCompletionMessage{
			{
				Role: goopenai.ChatMessageRoleUser,
				MultiContent: []goopenai.ChatMessagePart{
					{Type: goopenai.ChatMessagePartTypeText, Text: req.Prompt},
					{
						Type:     goopenai.ChatMessagePartTypeImageURL,
						ImageURL: &goopenai.ChatMessageImageURL{URL: req.ImageDataURI},
					},
				},
			},
		},
	}
}

// isSuccessful keeps client errors and caller cancellations from tripping
// the breaker.
func isSuccessful(err error) bool {
	if err == nil {
		return true
	}
	if errors.Is(err, context.Canceled) {
		return true
	}
	status := statusOf(err)
	return status >= 400 && status < 500 && status != http.StatusTooManyRequests && status != http.StatusRequestTimeout
}

func statusOf(err error) int {
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var reqErr *goopenai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	return 0
}

func toExternalError(err error) *outbound.ExternalServiceError {
	return &outbound.ExternalServiceError{
		Provider:    providerName,
		Op:          opComplete,
		StatusCode:  statusOf(err),
		Unavailable: errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests),
		Err:         err,
	}
}
