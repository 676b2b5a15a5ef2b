package analysis

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/Tanveersultana125/co-teacher-backend/services/groq"
)

type fakeProvider struct {
	mu      sync.Mutex
	prompts []string
	respond func(call int, userPrompt string) (string, error)
}

func (f *fakeProvider) SimpleCompletion(ctx context.Context, systemPrompt, userPrompt string, options ...groq.Option) (string, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, userPrompt)
	call := len(f.prompts)
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	return f.respond(call, userPrompt)
}

func (f *fakeProvider) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

type fakeExtractor struct {
	text string
	err  error
}

func (f fakeExtractor) ExtractText(ctx context.Context, path string) (string, error) {
	return f.text, f.err
}

func validResponse(tag string) string {
	return fmt.Sprintf(`{
  "summary": "summary %[1]s",
  "key_points": ["Shared: appears everywhere", "Point %[1]s: only here"],
  "quiz": [{"question": "Q %[1]s?", "options": ["w", "x", "y", "z"], "answer": "x"}]
}`, tag)
}

// section repeats word up to 80 runes and ends with a full stop, so every
// section fits in one 100-rune chunk.
func section(word string) string {
	var b strings.Builder
	for b.Len()+len(word)+1 <= 80 {
		b.WriteString(word + " ")
	}
	b.WriteString("end.")
	return b.String()
}

func document(words ...string) string {
	parts := make([]string, len(words))
	for i, w := range words {
		parts[i] = section(w)
	}
	return strings.Join(parts, "\n\n")
}
