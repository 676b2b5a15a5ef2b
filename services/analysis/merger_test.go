package analysis

import (
	"reflect"
	"testing"
)

func TestMerge(t *testing.T) {
	q1 := QuizItem{Question: "Q1", Options: []string{"a", "b", "c", "d"}, Answer: "a"}
	q2 := QuizItem{Question: "Q2", Options: []string{"a", "b", "c", "d"}, Answer: "b"}

	merged := Merge([]ChunkAnalysisResult{
		{Summary: "first", KeyPoints: []string{"A", "B"}, Quiz: []QuizItem{q1}},
		{Summary: "second", KeyPoints: []string{"B", "C", "A"}, Quiz: []QuizItem{q1, q2}},
	})

	if merged.Summary != "first\n\nsecond" {
		t.Errorf("summary = %q", merged.Summary)
	}
	if want := []string{"A", "B", "C"}; !reflect.DeepEqual(merged.KeyPoints, want) {
		t.Errorf("key_points = %v, want %v", merged.KeyPoints, want)
	}
	if len(merged.Quiz) != 3 {
		t.Errorf("quiz length = %d, repeated questions must be kept", len(merged.Quiz))
	}
	if merged.IsPartial {
		t.Error("merge must not set is_partial")
	}
}

func TestMergeEmpty(t *testing.T) {
	merged := Merge(nil)
	if merged.Summary != "" || merged.KeyPoints == nil || merged.Quiz == nil {
		t.Errorf("unexpected empty merge: %#v", merged)
	}
}

func TestMergeOrderPreservingDedup(t *testing.T) {
	a := ChunkAnalysisResult{Summary: "a", KeyPoints: []string{"x", "y"}}
	b := ChunkAnalysisResult{Summary: "b", KeyPoints: []string{"y", "z"}}
	c := ChunkAnalysisResult{Summary: "c", KeyPoints: []string{"z", "w", "x"}}

	direct := Merge([]ChunkAnalysisResult{a, b, c})

	ab := Merge([]ChunkAnalysisResult{a, b})
	stepwise := Merge([]ChunkAnalysisResult{
		{Summary: ab.Summary, KeyPoints: ab.KeyPoints},
		c,
	})

	if !reflect.DeepEqual(direct.KeyPoints, stepwise.KeyPoints) {
		t.Errorf("direct %v != stepwise %v", direct.KeyPoints, stepwise.KeyPoints)
	}
	if direct.Summary != stepwise.Summary {
		t.Errorf("direct %q != stepwise %q", direct.Summary, stepwise.Summary)
	}
}
