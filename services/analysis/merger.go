package analysis

import "strings"

// Merge combines per-chunk results in order. Summaries are joined with a
// blank line, key points are flattened and deduplicated by exact match
// keeping first occurrences, and quiz items are concatenated as is.
func Merge(results []ChunkAnalysisResult) MergedAnalysis {
	merged := MergedAnalysis{
		KeyPoints: []string{},
		Quiz:      []QuizItem{},
	}

	summaries := make([]string, 0, len(results))
	seen := make(map[string]struct{})
	for _, r := range results {
		if r.Summary != "" {
			summaries = append(summaries, r.Summary)
		}
		for _, p := range r.KeyPoints {
			if _, dup := seen[p]; dup {
				continue
			}
			seen[p] = struct{}{}
			merged.KeyPoints = append(merged.KeyPoints, p)
		}
		merged.Quiz = append(merged.Quiz, r.Quiz...)
	}
	merged.Summary = strings.Join(summaries, "\n\n")

	return merged
}
