package analysis

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Tanveersultana125/co-teacher-backend/services/groq"
	"github.com/Tanveersultana125/co-teacher-backend/utils"
	"github.com/Tanveersultana125/co-teacher-backend/utils/logger"
)

// Provider is the LLM completion capability the analyzer needs.
// *groq.Client satisfies it.
type Provider interface {
	SimpleCompletion(ctx context.Context, systemPrompt, userPrompt string, options ...groq.Option) (string, error)
}

const missingSummary = "No summary generated."

// ChunkAnalyzer turns one chunk into a ChunkAnalysisResult with a single
// provider request per attempt.
type ChunkAnalyzer struct {
	provider Provider
	timeout  time.Duration
	log      *logger.Logger
	metrics  *Metrics
}

// NewChunkAnalyzer creates an analyzer. timeout bounds each provider call;
// zero means DefaultChunkTimeout.
func NewChunkAnalyzer(provider Provider, timeout time.Duration, log *logger.Logger, metrics *Metrics) *ChunkAnalyzer {
	if timeout <= 0 {
		timeout = DefaultChunkTimeout
	}
	if log == nil {
		log = logger.Nop()
	}
	return &ChunkAnalyzer{provider: provider, timeout: timeout, log: log, metrics: metrics}
}

// AnalyzeChunk requests a study guide for chunk. When the response holds no
// recoverable JSON object the whole request is repeated, at most
// retriesRemaining more times. Provider failures are not retried here.
func (a *ChunkAnalyzer) AnalyzeChunk(ctx context.Context, chunk TextChunk, retriesRemaining int) (ChunkAnalysisResult, error) {
	for {
		raw, err := a.complete(ctx, chunk)
		if err != nil {
			return ChunkAnalysisResult{}, providerError(ctx, chunk.Index, err)
		}

		obj, err := utils.ExtractObject(raw)
		if err == nil {
			return coerceResult(obj), nil
		}

		a.metrics.malformed()
		if retriesRemaining <= 0 {
			return ChunkAnalysisResult{}, NewError(KindMalformedResponse,
				fmt.Errorf("chunk %d: %w", chunk.Index, err))
		}
		retriesRemaining--
		a.log.Warn("malformed model response, retrying chunk",
			"chunk", chunk.Index,
			"retries_left", retriesRemaining,
			"error", err,
		)
	}
}

func (a *ChunkAnalyzer) complete(ctx context.Context, chunk TextChunk) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	return a.provider.SimpleCompletion(callCtx, studyGuidePrompt, chunkUserPrompt(chunk.Content),
		groq.WithTemperature(0.3),
		groq.WithMaxTokens(3000),
		groq.WithJSONResponse(),
	)
}

func providerError(ctx context.Context, index int, err error) *Error {
	wrapped := fmt.Errorf("chunk %d: %w", index, err)
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		return NewError(KindCanceled, wrapped)
	}
	e := NewError(KindProvider, wrapped)
	if groq.IsRateLimit(err) {
		e.Status = http.StatusTooManyRequests
	}
	return e
}

func coerceResult(obj map[string]interface{}) ChunkAnalysisResult {
	result := ChunkAnalysisResult{
		Summary:   missingSummary,
		KeyPoints: []string{},
		Quiz:      []QuizItem{},
	}

	if s, ok := obj["summary"].(string); ok && strings.TrimSpace(s) != "" {
		result.Summary = strings.TrimSpace(s)
	}

	if items, ok := obj["key_points"].([]interface{}); ok {
		for _, item := range items {
			if point := coerceKeyPoint(item); point != "" {
				result.KeyPoints = append(result.KeyPoints, point)
			}
		}
	}

	if items, ok := obj["quiz"].([]interface{}); ok {
		for _, item := range items {
			if q, ok := coerceQuizItem(item); ok {
				result.Quiz = append(result.Quiz, q)
			}
		}
	}

	return result
}

func coerceKeyPoint(item interface{}) string {
	switch v := item.(type) {
	case string:
		return strings.TrimSpace(v)
	case map[string]interface{}:
		heading := firstString(v, "heading", "title", "point")
		explanation := firstString(v, "explanation", "description", "detail", "text")
		switch {
		case heading != "" && explanation != "":
			return heading + ": " + explanation
		case heading != "":
			return heading
		default:
			return explanation
		}
	}
	return ""
}

func firstString(m map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

func coerceQuizItem(item interface{}) (QuizItem, bool) {
	m, ok := item.(map[string]interface{})
	if !ok {
		return QuizItem{}, false
	}

	question := firstString(m, "question")
	rawOptions, _ := m["options"].([]interface{})
	if question == "" || len(rawOptions) != 4 {
		return QuizItem{}, false
	}

	options := make([]string, 0, 4)
	for _, o := range rawOptions {
		s, ok := o.(string)
		if !ok || strings.TrimSpace(s) == "" {
			return QuizItem{}, false
		}
		options = append(options, strings.TrimSpace(s))
	}

	answer, ok := resolveAnswer(m["answer"], options)
	if !ok {
		return QuizItem{}, false
	}
	return QuizItem{Question: question, Options: options, Answer: answer}, true
}

var (
	answerLetter = regexp.MustCompile(`^(?i:option\s+)?([A-Da-d])[\)\.:]?$`)
	optionLabel  = regexp.MustCompile(`^(?:[A-Da-d]|[1-4])[\)\.:]\s+`)
)

// resolveAnswer maps the model's answer onto one of options. It accepts the
// exact option text, a case-insensitive or label-stripped match, a letter
// ("B", "b)", "Option B") or an option number. Numbers are 1-based whether
// they arrive as JSON numbers or digit strings, so 2 and "2" both mean the
// second option, like "B".
func resolveAnswer(raw interface{}, options []string) (string, bool) {
	switch v := raw.(type) {
	case float64:
		n := int(v)
		if float64(n) == v && n >= 1 && n <= len(options) {
			return options[n-1], true
		}
		return "", false
	case string:
		ans := strings.TrimSpace(v)
		if ans == "" {
			return "", false
		}
		for _, o := range options {
			if o == ans {
				return o, true
			}
		}
		for _, o := range options {
			if strings.EqualFold(o, ans) || strings.EqualFold(stripLabel(o), stripLabel(ans)) {
				return o, true
			}
		}
		if m := answerLetter.FindStringSubmatch(ans); m != nil {
			return options[strings.ToUpper(m[1])[0]-'A'], true
		}
		if n, err := strconv.Atoi(ans); err == nil && n >= 1 && n <= len(options) {
			return options[n-1], true
		}
	}
	return "", false
}

func stripLabel(s string) string {
	return strings.TrimSpace(optionLabel.ReplaceAllString(strings.TrimSpace(s), ""))
}
