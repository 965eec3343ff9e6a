package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/BaSui01/clinicalflow/llm"
	"github.com/BaSui01/clinicalflow/types"
)

const (
	// DefaultModel is used when Config.Model is empty.
	DefaultModel = "gemini-3-flash-preview"
	// DefaultTemperature matches the sampling used for clinical analysis.
	DefaultTemperature float32 = 0.5
	// DefaultTimeout bounds a single call when Config.Timeout is zero.
	DefaultTimeout = 2 * time.Minute

	providerName = "gemini"
)

// Config configures the Gemini provider. A nil Temperature means
// DefaultTemperature; an explicit zero is sent as is.
type Config struct {
	APIKey      string
	Model       string
	Temperature *float32
	Timeout     time.Duration
}

// contentGenerator is the slice of the SDK the provider calls.
// *genai.Models satisfies it.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Provider implements llm.Generator for Google Gemini.
type Provider struct {
	models    contentGenerator
	model     string
	timeout   time.Duration
	genConfig *genai.GenerateContentConfig
	logger    *zap.Logger
}

// New creates a Provider backed by a GenAI SDK client.
func New(ctx context.Context, cfg Config, logger *zap.Logger) (*Provider, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, types.NewError(types.ErrInvalidConfig, "gemini API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return newWithModels(client.Models, cfg, logger), nil
}

func newWithModels(models contentGenerator, cfg Config, logger *zap.Logger) *Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	temperature := DefaultTemperature
	if cfg.Temperature != nil {
		temperature = *cfg.Temperature
	}

	return &Provider{
		models:  models,
		model:   model,
		timeout: timeout,
		genConfig: &genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   ResponseSchema(),
			Temperature:      genai.Ptr(temperature),
			SafetySettings:   SafetyOverrides(),
		},
		logger: logger.With(zap.String("component", "gemini"), zap.String("model", model)),
	}
}

// Name implements llm.Generator.
func (p *Provider) Name() string { return providerName }

// Model returns the model identifier requests are sent to.
func (p *Provider) Model() string { return p.model }

// Generate issues one GenerateContent call. An empty candidate text is not a
// failure: it is returned as-is for the validator to reject.
func (p *Provider) Generate(ctx context.Context, prompt string) (string, error) {
	if err := llm.CheckContext(ctx, providerName); err != nil {
		return "", err
	}

	callCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	resp, err := p.models.GenerateContent(callCtx, p.model, genai.Text(prompt), p.genConfig)
	if err != nil {
		return "", mapError(err)
	}
	if resp == nil {
		return "", llm.NewGenerationFailure(types.ErrEmptyResponse, providerName, "service returned no response", nil)
	}

	if fb := resp.PromptFeedback; fb != nil && fb.BlockReason != "" && fb.BlockReason != genai.BlockedReasonUnspecified {
		return "", llm.NewGenerationFailure(types.ErrContentFiltered, providerName,
			fmt.Sprintf("prompt blocked: %s %s", fb.BlockReason, fb.BlockReasonMessage), nil)
	}
	if len(resp.Candidates) == 0 {
		return "", llm.NewGenerationFailure(types.ErrEmptyResponse, providerName, "service returned no candidates", nil)
	}

	text := resp.Text()
	if text == "" && blockedFinish(resp.Candidates[0].FinishReason) {
		return "", llm.NewGenerationFailure(types.ErrContentFiltered, providerName,
			fmt.Sprintf("candidate blocked: finish reason %s", resp.Candidates[0].FinishReason), nil)
	}

	p.logger.Debug("gemini response received",
		zap.String("finish_reason", string(resp.Candidates[0].FinishReason)),
		zap.Int("chars", len(text)),
	)
	return text, nil
}

func blockedFinish(reason genai.FinishReason) bool {
	switch reason {
	case genai.FinishReasonSafety,
		genai.FinishReasonProhibitedContent,
		genai.FinishReasonBlocklist,
		genai.FinishReasonSPII:
		return true
	}
	return false
}

// mapError converts SDK errors to generation failures.
func mapError(err error) *llm.GenerationFailure {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return llm.ToGenerationFailure(err, providerName)
	}

	apiErr, ok := asAPIError(err)
	if !ok {
		return llm.NewGenerationFailure(types.ErrUpstreamError, providerName, err.Error(), err)
	}

	msg := apiErr.Message
	if msg == "" {
		msg = apiErr.Status
	}
	f := llm.NewGenerationFailure(codeForStatus(apiErr.Code, apiErr.Status, msg), providerName, msg, err)
	f.HTTPStatus = apiErr.Code
	return f
}

func codeForStatus(status int, rpcStatus, msg string) types.ErrorCode {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return types.ErrUnauthorized
	case http.StatusTooManyRequests:
		if strings.Contains(strings.ToLower(msg), "quota") {
			return types.ErrQuotaExceeded
		}
		return types.ErrRateLimited
	case http.StatusBadRequest, http.StatusNotFound, http.StatusRequestEntityTooLarge:
		if rpcStatus == "RESOURCE_EXHAUSTED" {
			return types.ErrQuotaExceeded
		}
		return types.ErrInvalidRequest
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return types.ErrUpstreamTimeout
	default:
		return types.ErrUpstreamError
	}
}

func asAPIError(err error) (genai.APIError, bool) {
	var v genai.APIError
	if errors.As(err, &v) {
		return v, true
	}
	var p *genai.APIError
	if errors.As(err, &p) && p != nil {
		return *p, true
	}
	return genai.APIError{}, false
}
