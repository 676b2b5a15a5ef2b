package content

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// LessonPlanRequest describes the lesson to generate.
type LessonPlanRequest struct {
	Topic       string
	Subject     string
	Grade       string
	Board       string
	Duration    string // minutes
	Sessions    string
	PDFContext  string
	UnitDetails string
}

const pdfContextLimit = 3000

// LessonPlan generates a narrative lesson plan.
func (g *Generator) LessonPlan(ctx context.Context, req LessonPlanRequest) Document {
	grade := orDefault(req.Grade, "10")
	board := orDefault(req.Board, "Standard")
	duration := orDefault(req.Duration, "45")
	lang := DetectLanguage(req.Subject, req.Topic)

	var extra strings.Builder
	if req.UnitDetails != "" {
		fmt.Fprintf(&extra, "\n- Unit Context: %s", req.UnitDetails)
	}
	if req.PDFContext != "" {
		fmt.Fprintf(&extra, "\n- Reference Content: %s", head(req.PDFContext, pdfContextLimit))
	}
	if req.Sessions != "" && req.Sessions != "1" {
		fmt.Fprintf(&extra, "\n- Sessions: %s", req.Sessions)
	}

	prompt := fmt.Sprintf(`Act as an expert Senior Educator. Generate a professional, highly detailed, and narrative Lesson Plan for %q.

Language Instructions:
%s

Details:
- Grade: %s, Subject: %s
- Board: %s, Time: %s mins%s

Structure Requirements:
- Use a descriptive, encouraging, and step-by-step narrative style.
- 'explanation' must be a multi-paragraph, high-quality guide for the teacher.
- 'activities' should have clear, pedagogical steps.

Return strictly valid JSON:
{
  "title": "Professional Title",
  "groupSize": "e.g. Groups of 5 students",
  "objective": ["Learning objective 1", "Learning objective 2"],
  "standardsAlignment": "Standards this lesson meets",
  "materials": ["Material 1", "Material 2"],
  "explanation": "A thorough academic guide for the teacher explaining this concept in depth.",
  "pedagogy": "The introduction/hook strategy (10-15 mins).",
  "inquiryBasedLearning": "Strategy to encourage critical thinking.",
  "activities": [{"time": "20 mins", "task": "Activity Title", "description": "Step-by-step instructions.", "recap": "Learning summary.", "tip": "Instructional tip."}],
  "closure": "Closure activity (10 mins) with reflection tasks.",
  "assessment": {"formative": "Checks during the lesson.", "individual": "Evidence of learning after the lesson."},
  "differentiation": {"struggling": "Support tasks.", "advanced": "Extension tasks.", "ell": "Visual aids and vocabulary support."},
  "homework": "Follow-up task.",
  "questions": ["Review Q1", "Deep Thinking Q2"],
  "teachingStrategies": ["Active learning technique"],
  "estimatedTime": [{"section": "Introduction", "time": "15%%"}, {"section": "Concept", "time": "35%%"}, {"section": "Practice", "time": "40%%"}, {"section": "Closure", "time": "10%%"}],
  "videoSearchQuery": "Keywords for educational video",
  "motivationalQuote": "An inspiring quote for this lesson."
}`, req.Topic, lang.instruction(), grade, req.Subject, board, duration, extra.String())

	doc, err := g.generate(ctx, "lesson_plan", prompt)
	if err != nil {
		return fallbackLessonPlan(req.Topic)
	}
	return doc
}

func fallbackLessonPlan(topic string) Document {
	return Document{
		"title":       topic,
		"objective":   []interface{}{"Objective placeholder"},
		"materials":   []interface{}{"Material placeholder"},
		"explanation": "Simulated content due to technical error.",
		"pedagogy":    "",
		"activities":  []interface{}{},
		"homework":    "",
		"questions":   []interface{}{},
		"estimatedTime": []interface{}{
			map[string]interface{}{"section": "Introduction", "time": "10m"},
			map[string]interface{}{"section": "Core", "time": "30m"},
		},
	}
}

// PresentationRequest describes a slide deck.
type PresentationRequest struct {
	Topic      string
	Grade      string
	Curriculum string
	Subject    string
	Slides     int
}

const defaultSlides = 5

// Presentation generates slides and decorates each with an image_url. A
// stock photo search is tried first; the Unsplash featured URL is the
// fallback.
func (g *Generator) Presentation(ctx context.Context, req PresentationRequest) []Document {
	slides := req.Slides
	if slides <= 0 {
		slides = defaultSlides
	}
	grade := orDefault(req.Grade, "10")

	var lang string
	if DetectLanguage(req.Subject, req.Topic) == Urdu {
		lang = "\nMANDATORY: Return content (titles, text, activities) in URDU SCRIPT."
	}

	prompt := fmt.Sprintf(`Generate %d PowerPoint slides for %s, grade %s (%s).%s
Return JSON: { "slides": [{"slide_number": 1, "title": "", "subtitle": "", "content": [], "activity": "", "image_keyword": "", "layout_type": ""}] }`,
		slides, req.Topic, grade, orDefault(req.Curriculum, "CBSE"), lang)

	doc, err := g.generate(ctx, "presentation", prompt)
	if err != nil {
		return fallbackSlides(slides)
	}

	raw, _ := doc["slides"].([]interface{})
	out := make([]Document, 0, len(raw))
	for _, item := range raw {
		slide, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		keyword, _ := slide["image_keyword"].(string)
		if strings.TrimSpace(keyword) == "" {
			keyword = req.Topic
		}
		slide["image_url"] = g.imageFor(ctx, keyword)
		out = append(out, slide)
	}
	return out
}

func (g *Generator) imageFor(ctx context.Context, keyword string) string {
	if g.images != nil {
		found, err := g.images.RandomImage(ctx, keyword)
		if err != nil {
			g.log.Debug("image search failed", "keyword", keyword, "error", err)
		}
		if found != "" {
			return found
		}
	}
	return "https://source.unsplash.com/featured/1600x900?" + url.QueryEscape(keyword)
}

func fallbackSlides(n int) []Document {
	out := make([]Document, n)
	for i := range out {
		out[i] = Document{"slide_number": i + 1, "title": "Slide", "content": []interface{}{}}
	}
	return out
}
