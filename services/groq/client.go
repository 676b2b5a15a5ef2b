package groq

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Tanveersultana125/co-teacher-backend/utils"
	"github.com/Tanveersultana125/co-teacher-backend/utils/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is Groq's OpenAI-compatible endpoint root.
	DefaultBaseURL = "https://api.groq.com/openai"
	// DefaultTimeout bounds a single HTTP round trip.
	DefaultTimeout = 120 * time.Second
	// DefaultPrimaryModel is tried first for every request.
	DefaultPrimaryModel = "llama-3.3-70b-versatile"
	// DefaultFallbackModel takes over when the primary is rate limited or its circuit is open.
	DefaultFallbackModel = "llama-3.1-8b-instant"
	// DefaultRequestsPerMinute paces outbound calls below the free tier quota.
	DefaultRequestsPerMinute = 30
)

// ErrMissingAPIKey is returned when the client was built without a key.
var ErrMissingAPIKey = errors.New("groq: GROQ_API_KEY is not configured")

// Config holds configuration for the Groq client. Zero values get defaults.
type Config struct {
	APIKey        string
	BaseURL       string
	PrimaryModel  string
	FallbackModel string
	Timeout       time.Duration

	// RequestsPerMinute paces outbound requests. Negative disables pacing.
	RequestsPerMinute int

	// BreakerFailures is the number of consecutive failures that opens a model's circuit.
	BreakerFailures uint32
	// BreakerOpenTimeout is how long an open circuit rejects calls before probing again.
	BreakerOpenTimeout time.Duration

	Logger     *logger.Logger
	Registerer prometheus.Registerer
}

// Client talks to the Groq chat completions API. Each model gets its own
// circuit breaker, and requests are paced by a shared limiter.
type Client struct {
	apiKey        string
	baseURL       string
	httpClient    *http.Client
	primaryModel  string
	fallbackModel string
	limiter       *rate.Limiter
	breakers      map[string]*gobreaker.CircuitBreaker[*ChatResponse]
	log           *logger.Logger
	requests      *prometheus.CounterVec
}

// NewClient creates a new Groq client.
func NewClient(config Config) *Client {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.Timeout == 0 {
		config.Timeout = DefaultTimeout
	}
	if config.PrimaryModel == "" {
		config.PrimaryModel = DefaultPrimaryModel
	}
	if config.FallbackModel == "" {
		config.FallbackModel = DefaultFallbackModel
	}
	if config.RequestsPerMinute == 0 {
		config.RequestsPerMinute = DefaultRequestsPerMinute
	}
	if config.BreakerFailures == 0 {
		config.BreakerFailures = 5
	}
	if config.BreakerOpenTimeout == 0 {
		config.BreakerOpenTimeout = 30 * time.Second
	}
	if config.Logger == nil {
		config.Logger = logger.Nop()
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if config.RequestsPerMinute > 0 {
		burst := config.RequestsPerMinute / 10
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(float64(config.RequestsPerMinute)/60.0), burst)
	}

	c := &Client{
		apiKey:        config.APIKey,
		baseURL:       config.BaseURL,
		httpClient:    &http.Client{Timeout: config.Timeout},
		primaryModel:  config.PrimaryModel,
		fallbackModel: config.FallbackModel,
		limiter:       limiter,
		breakers:      make(map[string]*gobreaker.CircuitBreaker[*ChatResponse]),
		log:           config.Logger.With("component", "groq"),
	}

	for _, model := range []string{config.PrimaryModel, config.FallbackModel} {
		c.breakers[model] = newBreaker(model, config.BreakerFailures, config.BreakerOpenTimeout, c.log)
	}

	if config.Registerer != nil {
		c.requests = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "coteacher",
			Subsystem: "llm",
			Name:      "requests_total",
			Help:      "LLM provider requests by model and outcome.",
		}, []string{"model", "status"})
		if err := config.Registerer.Register(c.requests); err != nil {
			var already prometheus.AlreadyRegisteredError
			if errors.As(err, &already) {
				c.requests = already.ExistingCollector.(*prometheus.CounterVec)
			} else {
				c.log.Warn("metrics registration failed", "error", err)
				c.requests = nil
			}
		}
	}

	return c
}

// Message is one chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ResponseFormat selects plain text or JSON object output.
type ResponseFormat struct {
	Type string `json:"type"`
}

// ChatRequest is an OpenAI-compatible chat completion request.
type ChatRequest struct {
	Model          string          `json:"model"`
	Messages       []Message       `json:"messages"`
	Temperature    float64         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *ResponseFormat `json:"response_format,omitempty"`
}

// Choice is one completion candidate.
type Choice struct {
	Index        int     `json:"index"`
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

// Usage reports token counts.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ChatResponse is the completion response body.
type ChatResponse struct {
	ID      string   `json:"id"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage"`
}

// Option modifies a chat request.
type Option func(*ChatRequest)

// WithTemperature sets the sampling temperature.
func WithTemperature(temp float64) Option {
	return func(req *ChatRequest) {
		req.Temperature = temp
	}
}

// WithMaxTokens caps the completion length.
func WithMaxTokens(tokens int) Option {
	return func(req *ChatRequest) {
		req.MaxTokens = tokens
	}
}

// WithJSONResponse enables JSON object output mode.
func WithJSONResponse() Option {
	return func(req *ChatRequest) {
		req.ResponseFormat = &ResponseFormat{Type: "json_object"}
	}
}

// ChatCompletion sends messages to the primary model, retrying once on the
// fallback model when the primary is rate limited or its circuit is open.
func (c *Client) ChatCompletion(ctx context.Context, messages []Message, options ...Option) (*ChatResponse, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	req := ChatRequest{
		Model:       c.primaryModel,
		Messages:    messages,
		Temperature: 0.3,
		MaxTokens:   4096,
	}
	for _, opt := range options {
		opt(&req)
	}

	resp, err := c.send(ctx, req)
	if err == nil {
		return resp, nil
	}
	if c.fallbackModel == "" || req.Model == c.fallbackModel || !shouldFallback(err) {
		return nil, err
	}

	c.log.Warn("primary model unavailable, using fallback",
		"model", req.Model,
		"fallback", c.fallbackModel,
		"error", err,
	)
	req.Model = c.fallbackModel
	return c.send(ctx, req)
}

// SimpleCompletion runs a single-turn system+user completion and returns the
// first choice's content.
func (c *Client) SimpleCompletion(ctx context.Context, systemPrompt, userPrompt string, options ...Option) (string, error) {
	messages := []Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: userPrompt},
	}

	resp, err := c.ChatCompletion(ctx, messages, options...)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("groq: no choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}

// CompleteJSON requests a JSON-mode completion and decodes the object it
// contains, tolerating prose or markdown around it.
func (c *Client) CompleteJSON(ctx context.Context, systemPrompt, userPrompt string, options ...Option) (map[string]interface{}, error) {
	options = append(options, WithJSONResponse())
	content, err := c.SimpleCompletion(ctx, systemPrompt, userPrompt, options...)
	if err != nil {
		return nil, err
	}
	return utils.ExtractObject(content)
}

func (c *Client) send(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("groq: rate limiter: %w", err)
	}

	var resp *ChatResponse
	var err error
	if breaker, ok := c.breakers[req.Model]; ok {
		resp, err = breaker.Execute(func() (*ChatResponse, error) {
			return c.do(ctx, req)
		})
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			err = fmt.Errorf("groq: model %s circuit open: %w", req.Model, err)
		}
	} else {
		resp, err = c.do(ctx, req)
	}

	c.observe(req.Model, err)
	return resp, err
}

func (c *Client) do(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("groq request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{StatusCode: resp.StatusCode, Model: req.Model, Body: string(respBody)}
	}

	var result ChatResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	c.log.Debug("completion received",
		"model", req.Model,
		"tokens", result.Usage.TotalTokens,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return &result, nil
}

func (c *Client) observe(model string, err error) {
	if c.requests == nil {
		return
	}
	status := "ok"
	switch {
	case err == nil:
	case IsRateLimit(err):
		status = "rate_limited"
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		status = "circuit_open"
	default:
		status = "error"
	}
	c.requests.WithLabelValues(model, status).Inc()
}
