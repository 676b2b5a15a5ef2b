package analysis

// Document is an uploaded file owned by a single pipeline run. It is removed
// from disk when the run finishes, whatever the outcome.
type Document struct {
	Path     string
	Filename string
}

// TextChunk is one bounded slice of normalized text, in document order.
type TextChunk struct {
	Index   int
	Content string
}

// QuizItem is a four-option multiple choice question. Answer always equals
// one of Options.
type QuizItem struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   string   `json:"answer"`
}

// ChunkAnalysisResult is the model output for a single chunk.
type ChunkAnalysisResult struct {
	Summary   string     `json:"summary"`
	KeyPoints []string   `json:"key_points"`
	Quiz      []QuizItem `json:"quiz"`
}

// MergedAnalysis is the document-level result returned to callers.
type MergedAnalysis struct {
	Summary   string     `json:"summary"`
	KeyPoints []string   `json:"key_points"`
	Quiz      []QuizItem `json:"quiz"`
	IsPartial bool       `json:"is_partial"`
}
