package content

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Tanveersultana125/co-teacher-backend/services/groq"
)

type fakeCompleter struct {
	doc     map[string]interface{}
	err     error
	prompts []string
}

func (f *fakeCompleter) CompleteJSON(_ context.Context, system, user string, _ ...groq.Option) (map[string]interface{}, error) {
	if system != systemPrompt {
		return nil, errors.New("unexpected system prompt")
	}
	f.prompts = append(f.prompts, user)
	if f.err != nil {
		return nil, f.err
	}
	return f.doc, nil
}

type fakeImages struct {
	urls map[string]string
	err  error
}

func (f fakeImages) RandomImage(_ context.Context, query string) (string, error) {
	return f.urls[query], f.err
}

func TestDetectLanguage(t *testing.T) {
	cases := []struct {
		subject, topic string
		want           Language
	}{
		{"Urdu Literature", "Ghazal", Urdu},
		{"Language", "Mazmoon Navesi", Urdu},
		{"Hindi", "Kahani", Hindi},
		{"Sanskrit", "Shlok", Hindi},
		{"Science", "Photosynthesis", English},
	}
	for _, tc := range cases {
		if got := DetectLanguage(tc.subject, tc.topic); got != tc.want {
			t.Errorf("DetectLanguage(%q, %q) = %v, want %v", tc.subject, tc.topic, got, tc.want)
		}
	}
}

func TestLessonPlanPrompt(t *testing.T) {
	llm := &fakeCompleter{doc: map[string]interface{}{"title": "Fractions"}}
	g := NewGenerator(llm, nil, nil)

	doc := g.LessonPlan(context.Background(), LessonPlanRequest{
		Topic:      "Fractions",
		Subject:    "Hindi",
		Grade:      "5",
		Board:      "CBSE",
		PDFContext: strings.Repeat("x", 5000),
	})
	if doc["title"] != "Fractions" {
		t.Errorf("title = %v", doc["title"])
	}

	prompt := llm.prompts[0]
	if !strings.Contains(prompt, "HINDI (Devanagari script)") {
		t.Error("expected Hindi instruction")
	}
	if !strings.Contains(prompt, "Board: CBSE, Time: 45 mins") {
		t.Error("expected default duration")
	}
	if strings.Contains(prompt, strings.Repeat("x", pdfContextLimit+1)) {
		t.Error("pdf context not truncated")
	}
	if !strings.Contains(prompt, strings.Repeat("x", pdfContextLimit)) {
		t.Error("pdf context missing")
	}
}

func TestFallbacksOnProviderFailure(t *testing.T) {
	g := NewGenerator(&fakeCompleter{err: groq.ErrMissingAPIKey}, nil, nil)
	ctx := context.Background()

	if doc := g.LessonPlan(ctx, LessonPlanRequest{Topic: "Magnets"}); doc["title"] != "Magnets" || doc["explanation"] == "" {
		t.Errorf("lesson fallback = %v", doc)
	}
	if doc := g.Quiz(ctx, QuizRequest{Topic: "Magnets"}); doc["title"] != "Magnets" {
		t.Errorf("quiz fallback = %v", doc)
	}
	if doc := g.QuestionPaper(ctx, QuestionPaperRequest{Subject: "Physics", Marks: 40}); doc["totalMarks"] != 40 || doc["title"] != "Final Exam" {
		t.Errorf("paper fallback = %v", doc)
	}
	if doc := g.Summarize(ctx, "text"); doc["overview"] != "Summary failed" {
		t.Errorf("summary fallback = %v", doc)
	}
	if doc := g.Vocabulary(ctx, "text"); len(doc["vocabulary"].([]interface{})) != 0 {
		t.Errorf("vocabulary fallback = %v", doc)
	}
	if doc := g.MiniQuiz(ctx, "text"); len(doc["questions"].([]interface{})) != 0 {
		t.Errorf("mini quiz fallback = %v", doc)
	}
	if doc := g.Material(ctx, MaterialRequest{Topic: "Magnets"}); doc["intro"] != "Material generation failed. Please try again." {
		t.Errorf("material fallback = %v", doc)
	}
	if doc := g.Assignment(ctx, AssignmentRequest{Topic: "Magnets"}); doc["title"] != "Magnets" {
		t.Errorf("assignment fallback = %v", doc)
	}
	if doc := g.DataAnalysis(ctx, "a,b\n1,2", ""); doc["message"] != "Analysis failed" {
		t.Errorf("analysis fallback = %v", doc)
	}
	if slides := g.Presentation(ctx, PresentationRequest{Topic: "Magnets", Slides: 3}); len(slides) != 3 || slides[2]["slide_number"] != 3 {
		t.Errorf("presentation fallback = %v", slides)
	}
}

func TestPresentationImages(t *testing.T) {
	llm := &fakeCompleter{doc: map[string]interface{}{
		"slides": []interface{}{
			map[string]interface{}{"slide_number": 1.0, "title": "Intro", "image_keyword": "volcano"},
			map[string]interface{}{"slide_number": 2.0, "title": "Lava"},
			"not a slide",
		},
	}}
	images := fakeImages{urls: map[string]string{"volcano": "https://pexels/volcano.jpg"}}
	g := NewGenerator(llm, images, nil)

	slides := g.Presentation(context.Background(), PresentationRequest{Topic: "Earth science", Subject: "Urdu"})
	if len(slides) != 2 {
		t.Fatalf("slides = %d, want 2", len(slides))
	}
	if slides[0]["image_url"] != "https://pexels/volcano.jpg" {
		t.Errorf("slide 1 image = %v", slides[0]["image_url"])
	}
	if slides[1]["image_url"] != "https://source.unsplash.com/featured/1600x900?Earth+science" {
		t.Errorf("slide 2 image = %v", slides[1]["image_url"])
	}
	if !strings.Contains(llm.prompts[0], "Generate 5 PowerPoint slides") || !strings.Contains(llm.prompts[0], "URDU SCRIPT") {
		t.Errorf("prompt = %q", llm.prompts[0])
	}
}

func TestUrduTitles(t *testing.T) {
	llm := &fakeCompleter{doc: map[string]interface{}{}}
	g := NewGenerator(llm, nil, nil)

	g.Assignment(context.Background(), AssignmentRequest{Topic: "Ghazal", Subject: "Urdu"})
	g.QuestionPaper(context.Background(), QuestionPaperRequest{Subject: "Urdu"})

	if !strings.Contains(llm.prompts[0], "تفویض") {
		t.Error("assignment title not localized")
	}
	if !strings.Contains(llm.prompts[1], "حصہ اول") {
		t.Error("question paper section not localized")
	}
}

func TestHeadCountsRunes(t *testing.T) {
	if got := head("नमस्ते दुनिया", 3); got != "नमस" {
		t.Errorf("head = %q", got)
	}
	if got := head("short", 10); got != "short" {
		t.Errorf("head = %q", got)
	}
}
