package analysis

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"time"
	"unicode/utf8"

	"github.com/Tanveersultana125/co-teacher-backend/utils/logger"
)

const (
	DefaultMinTextLength    = 50
	DefaultMaxAnalysisChars = 50000
	DefaultChunkSize        = 7000
	DefaultMaxChunks        = 8
	DefaultMaxRetries       = 1
	DefaultChunkTimeout     = 90 * time.Second

	// PartialNotice is appended to the summary of truncated documents.
	PartialNotice = "\n\n(Note: Summary based on first part of large document.)"
)

// Extractor pulls raw text out of an uploaded file.
type Extractor interface {
	ExtractText(ctx context.Context, path string) (string, error)
}

// Config holds pipeline limits. Zero values get defaults; a negative
// MaxRetries disables malformed-response retries.
type Config struct {
	MinTextLength    int
	MaxAnalysisChars int
	ChunkSize        int
	MaxChunks        int
	MaxRetries       int
	ChunkTimeout     time.Duration
}

func (c Config) withDefaults() Config {
	if c.MinTextLength <= 0 {
		c.MinTextLength = DefaultMinTextLength
	}
	if c.MaxAnalysisChars <= 0 {
		c.MaxAnalysisChars = DefaultMaxAnalysisChars
	}
	if c.ChunkSize <= 0 {
		c.ChunkSize = DefaultChunkSize
	}
	if c.MaxChunks <= 0 {
		c.MaxChunks = DefaultMaxChunks
	}
	switch {
	case c.MaxRetries == 0:
		c.MaxRetries = DefaultMaxRetries
	case c.MaxRetries < 0:
		c.MaxRetries = 0
	}
	if c.ChunkTimeout <= 0 {
		c.ChunkTimeout = DefaultChunkTimeout
	}
	return c
}

// Pipeline runs extract, normalize, truncate, chunk, analyze and merge for
// one uploaded document, then deletes the upload.
type Pipeline struct {
	extractor Extractor
	analyzer  *ChunkAnalyzer
	config    Config
	log       *logger.Logger
	metrics   *Metrics
	remove    func(string) error
}

// NewPipeline wires a pipeline. log and metrics may be nil.
func NewPipeline(extractor Extractor, provider Provider, config Config, log *logger.Logger, metrics *Metrics) *Pipeline {
	config = config.withDefaults()
	if log == nil {
		log = logger.Nop()
	}
	log = log.With("component", "analysis")
	return &Pipeline{
		extractor: extractor,
		analyzer:  NewChunkAnalyzer(provider, config.ChunkTimeout, log, metrics),
		config:    config,
		log:       log,
		metrics:   metrics,
		remove:    os.Remove,
	}
}

// Analyze processes doc and always deletes it before returning. Failures are
// *Error values.
func (p *Pipeline) Analyze(ctx context.Context, doc Document) (MergedAnalysis, error) {
	defer p.release(doc)

	start := time.Now()
	p.metrics.start()
	result, err := p.run(ctx, doc)
	p.metrics.finish(time.Since(start), err)

	if err != nil {
		p.log.Error("analysis failed",
			"file", doc.Filename,
			"kind", KindOf(err),
			"duration_ms", time.Since(start).Milliseconds(),
			"error", err,
		)
		return MergedAnalysis{}, err
	}

	p.log.Info("analysis complete",
		"file", doc.Filename,
		"key_points", len(result.KeyPoints),
		"quiz", len(result.Quiz),
		"partial", result.IsPartial,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return result, nil
}

func (p *Pipeline) run(ctx context.Context, doc Document) (MergedAnalysis, error) {
	if doc.Path == "" {
		return MergedAnalysis{}, NewError(KindInput, nil)
	}

	p.log.Info("extracting text", "step", 1, "file", doc.Filename)
	raw, err := p.extractor.ExtractText(ctx, doc.Path)
	if err != nil {
		if ctx.Err() != nil {
			return MergedAnalysis{}, NewError(KindCanceled, err)
		}
		return MergedAnalysis{}, NewError(KindExtraction, err)
	}

	text := Normalize(raw)
	length := utf8.RuneCountInString(text)
	p.log.Info("text normalized", "step", 2, "raw_chars", utf8.RuneCountInString(raw), "chars", length)
	if length < p.config.MinTextLength {
		return MergedAnalysis{}, NewError(KindEmptyDocument,
			fmt.Errorf("normalized text has %d characters, need %d", length, p.config.MinTextLength))
	}

	partial := false
	if length > p.config.MaxAnalysisChars {
		p.log.Warn("truncating text", "step", 3, "chars", length, "limit", p.config.MaxAnalysisChars)
		text = string([]rune(text)[:p.config.MaxAnalysisChars])
		partial = true
	}

	chunks := Split(text, p.config.ChunkSize)
	if len(chunks) > p.config.MaxChunks {
		p.log.Warn("dropping chunks over cap", "step", 4, "chunks", len(chunks), "cap", p.config.MaxChunks)
		chunks = chunks[:p.config.MaxChunks]
	}

	results, lastErr, err := p.analyzeAll(ctx, chunks)
	if err != nil {
		return MergedAnalysis{}, err
	}
	if len(results) == 0 {
		e := NewError(KindNoInsights, lastErr)
		if StatusOf(lastErr) == http.StatusTooManyRequests {
			e.Status = http.StatusTooManyRequests
		}
		return MergedAnalysis{}, e
	}

	merged := Merge(results)
	if partial {
		merged.Summary += PartialNotice
	}
	merged.IsPartial = partial
	return merged, nil
}

// analyzeAll runs chunks one at a time. A failed chunk is logged and skipped;
// lastErr keeps the most recent failure so an all-failed run can report it.
// The returned err is set only when the caller cancelled.
func (p *Pipeline) analyzeAll(ctx context.Context, chunks []TextChunk) (results []ChunkAnalysisResult, lastErr error, err error) {
	results = make([]ChunkAnalysisResult, 0, len(chunks))

	for _, chunk := range chunks {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, lastErr, NewError(KindCanceled, ctxErr)
		}

		p.log.Info("analyzing chunk", "step", 5, "chunk", chunk.Index+1, "of", len(chunks))
		res, chunkErr := p.analyzer.AnalyzeChunk(ctx, chunk, p.config.MaxRetries)
		if chunkErr != nil {
			if KindOf(chunkErr) == KindCanceled {
				return nil, lastErr, chunkErr
			}
			p.metrics.chunk("failed")
			p.log.Warn("chunk failed, skipping", "chunk", chunk.Index, "kind", KindOf(chunkErr), "error", chunkErr)
			lastErr = chunkErr
			continue
		}

		p.metrics.chunk("ok")
		results = append(results, res)
	}

	return results, lastErr, nil
}

func (p *Pipeline) release(doc Document) {
	if doc.Path == "" {
		return
	}
	if err := p.remove(doc.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		p.log.Warn("failed to delete upload", "path", doc.Path, "error", err)
	}
}
