package analysis

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/prometheus/client_golang/prometheus"
)

func tempUpload(t *testing.T) Document {
	t.Helper()
	path := filepath.Join(t.TempDir(), "upload.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4"), 0o600); err != nil {
		t.Fatal(err)
	}
	return Document{Path: path, Filename: "notes.pdf"}
}

func assertDeleted(t *testing.T, doc Document) {
	t.Helper()
	if _, err := os.Stat(doc.Path); !os.IsNotExist(err) {
		t.Errorf("upload %s still exists (stat err = %v)", doc.Path, err)
	}
}

func smallChunks() Config {
	return Config{ChunkSize: 100}
}

func TestPipelineSkipsMalformedMiddleChunk(t *testing.T) {
	provider := &fakeProvider{respond: func(_ int, prompt string) (string, error) {
		switch {
		case strings.Contains(prompt, "alfa"):
			return validResponse("one"), nil
		case strings.Contains(prompt, "bravo"):
			return "I could not format that, sorry.", nil
		default:
			return validResponse("three"), nil
		}
	}}
	doc := tempUpload(t)
	p := NewPipeline(fakeExtractor{text: document("alfa", "bravo", "charlie")}, provider, smallChunks(), nil, nil)

	got, err := p.Analyze(context.Background(), doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// chunk 1, chunk 2 + one retry, chunk 3
	if provider.calls() != 4 {
		t.Errorf("provider calls = %d, want 4", provider.calls())
	}
	if got.Summary != "summary one\n\nsummary three" {
		t.Errorf("summary = %q", got.Summary)
	}
	if len(got.KeyPoints) != 3 {
		t.Errorf("key_points = %v, want shared point once plus two", got.KeyPoints)
	}
	if len(got.Quiz) != 2 {
		t.Errorf("quiz length = %d, want 2", len(got.Quiz))
	}
	if got.IsPartial {
		t.Error("is_partial should be false")
	}
	assertDeleted(t, doc)
}

func TestPipelineCapsChunkCount(t *testing.T) {
	words := []string{"alfa", "bravo", "charlie", "delta", "echo", "foxtrot",
		"golf", "hotel", "india", "juliett", "kilo", "lima"}
	provider := &fakeProvider{respond: func(call int, _ string) (string, error) {
		return validResponse("x"), nil
	}}
	p := NewPipeline(fakeExtractor{text: document(words...)}, provider, smallChunks(), nil, nil)

	if chunks := Split(Normalize(document(words...)), 100); len(chunks) != 12 {
		t.Fatalf("fixture should split into 12 chunks, got %d", len(chunks))
	}

	if _, err := p.Analyze(context.Background(), tempUpload(t)); err != nil {
		t.Fatal(err)
	}
	if provider.calls() != 8 {
		t.Fatalf("provider calls = %d, want 8", provider.calls())
	}
	for _, prompt := range provider.prompts {
		for _, dropped := range words[8:] {
			if strings.Contains(prompt, dropped) {
				t.Errorf("chunk containing %q should never be sent", dropped)
			}
		}
	}
}

func TestPipelineTruncatesLongText(t *testing.T) {
	text := document("alfa", "bravo", "charlie", "delta", "echo", "foxtrot")
	var sent strings.Builder
	provider := &fakeProvider{respond: func(_ int, prompt string) (string, error) {
		sent.WriteString(strings.TrimPrefix(prompt, "Content to expand: \n\n"))
		return validResponse("x"), nil
	}}
	cfg := Config{ChunkSize: 100, MaxAnalysisChars: 200, MaxChunks: 20}
	p := NewPipeline(fakeExtractor{text: text}, provider, cfg, nil, nil)

	got, err := p.Analyze(context.Background(), tempUpload(t))
	if err != nil {
		t.Fatal(err)
	}
	if !got.IsPartial {
		t.Error("is_partial should be true")
	}
	if !strings.HasSuffix(got.Summary, PartialNotice) {
		t.Errorf("summary missing partial notice: %q", got.Summary)
	}

	truncated := string([]rune(text)[:200])
	if squash(sent.String()) != squash(truncated) {
		t.Errorf("analyzed text does not match the first 200 characters")
	}
	if strings.Contains(sent.String(), "delta") {
		t.Error("text past the budget was analyzed")
	}
}

func TestPipelineAtBudgetIsNotPartial(t *testing.T) {
	text := document("alfa", "bravo")
	cfg := Config{ChunkSize: 100, MaxAnalysisChars: utf8.RuneCountInString(text)}
	provider := &fakeProvider{respond: func(int, string) (string, error) { return validResponse("x"), nil }}

	got, err := NewPipeline(fakeExtractor{text: text}, provider, cfg, nil, nil).Analyze(context.Background(), tempUpload(t))
	if err != nil {
		t.Fatal(err)
	}
	if got.IsPartial || strings.Contains(got.Summary, "Note:") {
		t.Errorf("unexpected partial result: %+v", got)
	}
}

func TestPipelineEmptyDocument(t *testing.T) {
	provider := &fakeProvider{respond: func(int, string) (string, error) { return validResponse("x"), nil }}
	doc := tempUpload(t)
	p := NewPipeline(fakeExtractor{text: "  \x00 ===== PAGE 1 of 1 =====\n tiny \ufffd "}, provider, Config{}, nil, nil)

	_, err := p.Analyze(context.Background(), doc)
	if KindOf(err) != KindEmptyDocument {
		t.Fatalf("kind = %q, err = %v", KindOf(err), err)
	}
	if StatusOf(err) != 422 {
		t.Errorf("status = %d", StatusOf(err))
	}
	if provider.calls() != 0 {
		t.Errorf("provider called %d times", provider.calls())
	}
	assertDeleted(t, doc)
}

func TestPipelineAllChunksFail(t *testing.T) {
	provider := &fakeProvider{respond: func(int, string) (string, error) { return "nope", nil }}
	doc := tempUpload(t)
	p := NewPipeline(fakeExtractor{text: document("alfa", "bravo")}, provider, smallChunks(), nil, nil)

	_, err := p.Analyze(context.Background(), doc)
	if KindOf(err) != KindNoInsights {
		t.Fatalf("kind = %q, err = %v", KindOf(err), err)
	}
	if MessageOf(err) != "AI was unable to generate any insights. Try a different file." {
		t.Errorf("message = %q", MessageOf(err))
	}
	var outer *Error
	if !errors.As(err, &outer) {
		t.Fatalf("not an *Error: %v", err)
	}
	inner, _ := outer.Err.(*Error)
	if inner == nil || inner.Kind != KindMalformedResponse {
		t.Errorf("last chunk failure not carried: %v", err)
	}
	assertDeleted(t, doc)
}

func TestPipelineExtractionFailure(t *testing.T) {
	doc := tempUpload(t)
	provider := &fakeProvider{respond: func(int, string) (string, error) { return validResponse("x"), nil }}
	p := NewPipeline(fakeExtractor{err: errors.New("encrypted pdf")}, provider, Config{}, nil, nil)

	_, err := p.Analyze(context.Background(), doc)
	if KindOf(err) != KindExtraction || StatusOf(err) != 422 {
		t.Fatalf("kind = %q status = %d", KindOf(err), StatusOf(err))
	}
	if provider.calls() != 0 {
		t.Errorf("provider called after extraction failure")
	}
	assertDeleted(t, doc)
}

func TestPipelineMissingDocument(t *testing.T) {
	p := NewPipeline(fakeExtractor{}, &fakeProvider{}, Config{}, nil, nil)
	_, err := p.Analyze(context.Background(), Document{})
	if KindOf(err) != KindInput || StatusOf(err) != 400 {
		t.Fatalf("kind = %q status = %d", KindOf(err), StatusOf(err))
	}
}

func TestPipelineStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	provider := &fakeProvider{respond: func(call int, _ string) (string, error) {
		cancel()
		return validResponse("x"), nil
	}}
	doc := tempUpload(t)
	p := NewPipeline(fakeExtractor{text: document("alfa", "bravo", "charlie")}, provider, smallChunks(), nil, nil)

	_, err := p.Analyze(ctx, doc)
	if KindOf(err) != KindCanceled {
		t.Fatalf("kind = %q, err = %v", KindOf(err), err)
	}
	if provider.calls() != 1 {
		t.Errorf("provider calls = %d, want 1", provider.calls())
	}
	assertDeleted(t, doc)
}

func TestPipelineReleaseFailureDoesNotMaskResult(t *testing.T) {
	provider := &fakeProvider{respond: func(int, string) (string, error) { return validResponse("x"), nil }}
	p := NewPipeline(fakeExtractor{text: document("alfa")}, provider, Config{}, nil, nil)
	p.remove = func(string) error { return errors.New("permission denied") }

	got, err := p.Analyze(context.Background(), Document{Path: "/tmp/whatever.pdf"})
	if err != nil {
		t.Fatalf("release failure leaked: %v", err)
	}
	if got.Summary != "summary x" {
		t.Errorf("summary = %q", got.Summary)
	}
}

func TestPipelineRecordsMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	if err != nil {
		t.Fatal(err)
	}
	provider := &fakeProvider{respond: func(int, string) (string, error) { return validResponse("x"), nil }}
	p := NewPipeline(fakeExtractor{text: document("alfa")}, provider, Config{}, nil, m)

	if _, err := p.Analyze(context.Background(), tempUpload(t)); err != nil {
		t.Fatal(err)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, f := range families {
		if f.GetName() == "coteacher_analysis_runs_total" {
			found = true
		}
	}
	if !found {
		t.Error("runs_total not exported")
	}
}
