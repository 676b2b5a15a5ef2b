package content

import (
	"context"
	"strings"

	"github.com/Tanveersultana125/co-teacher-backend/services/groq"
	"github.com/Tanveersultana125/co-teacher-backend/utils/logger"
)

const systemPrompt = "You are a world-class educational consultant. You MUST provide detailed, professional, and accurate content in strictly valid JSON format ONLY."

const (
	temperature = 0.6
	maxTokens   = 4096
)

// Document is a generated JSON document, passed through to clients as is.
type Document = map[string]interface{}

// Completer returns a decoded JSON object for a prompt.
type Completer interface {
	CompleteJSON(ctx context.Context, systemPrompt, userPrompt string, options ...groq.Option) (map[string]interface{}, error)
}

// ImageSearcher finds an illustration URL for a keyword.
type ImageSearcher interface {
	RandomImage(ctx context.Context, query string) (string, error)
}

// Generator produces teaching material with the LLM. Every operation falls
// back to a fixed document when generation fails, so callers always get a
// usable shape.
type Generator struct {
	llm    Completer
	images ImageSearcher
	log    *logger.Logger
}

// NewGenerator creates a generator. images may be nil.
func NewGenerator(llm Completer, images ImageSearcher, log *logger.Logger) *Generator {
	if log == nil {
		log = logger.Nop()
	}
	return &Generator{llm: llm, images: images, log: log}
}

func (g *Generator) generate(ctx context.Context, op, prompt string) (Document, error) {
	doc, err := g.llm.CompleteJSON(ctx, systemPrompt, prompt,
		groq.WithTemperature(temperature),
		groq.WithMaxTokens(maxTokens),
	)
	if err != nil {
		g.log.Warn("generation failed, using fallback", "operation", op, "error", err)
		return nil, err
	}
	return doc, nil
}

// Language is the script generated content is written in.
type Language int

const (
	English Language = iota
	Urdu
	Hindi
)

// DetectLanguage picks the output language from the subject and topic.
func DetectLanguage(subject, topic string) Language {
	s := strings.ToLower(subject)
	t := strings.ToLower(topic)
	switch {
	case strings.Contains(s, "urdu") || strings.Contains(t, "mazmoon") || strings.Contains(t, "navesi"):
		return Urdu
	case strings.Contains(s, "hindi") || strings.Contains(s, "sanskrit"):
		return Hindi
	default:
		return English
	}
}

func (l Language) instruction() string {
	switch l {
	case Urdu:
		return "MANDATORY: Since this is an Urdu topic/subject, generate ALL content (title, objective, explanation, activities, etc.) in URDU SCRIPT (Perso-Arabic)."
	case Hindi:
		return "MANDATORY: Since this is a Hindi topic/subject, generate ALL content in HINDI (Devanagari script)."
	default:
		return "Generate content in ENGLISH."
	}
}

const scriptInstruction = `Language Instructions:
- If the subject is a language (Urdu, Hindi, Arabic, etc.), use that language's script for ALL text.
- Otherwise, use ENGLISH.`

// head returns at most n runes of s.
func head(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
