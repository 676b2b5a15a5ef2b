package content

import (
	"context"
	"fmt"
)

const (
	summaryInputLimit    = 8000
	vocabularyInputLimit = 3000
	csvInputLimit        = 10000
)

// MaterialRequest describes study material.
type MaterialRequest struct {
	Topic   string
	Type    string
	Grade   string
	Subject string
}

// Material generates a sectioned reading handout.
func (g *Generator) Material(ctx context.Context, req MaterialRequest) Document {
	grade := orDefault(req.Grade, "General")
	subject := orDefault(req.Subject, "General")

	prompt := fmt.Sprintf(`Generate detailed educational material (type: %s) for %q.
Grade: %s, Subject: %s.

%s

Return STRICT JSON format:
{
  "title": "Comprehensive Topic Title",
  "chapterNumber": 1,
  "intro": "Engaging introduction to the topic.",
  "sections": [
    {
      "heading": "Section Heading",
      "content": "In-depth explanatory text for this section.",
      "bulletPoints": ["Key fact 1", "Key fact 2", "Important detail"]
    }
  ],
  "learningObjectives": ["What student will learn 1", "What student will learn 2"],
  "illustrationDescription": "Detailed description of a diagram that should illustrate this concept.",
  "preparationTips": ["Study tip 1", "Self-study strategy"],
  "reviewQuestions": ["Deep thinking question 1", "Practice question 2"],
  "footer": "%s | Grade %s | Standard Curriculum"
}`, orDefault(req.Type, "Notes"), req.Topic, grade, subject, scriptInstruction, subject, grade)

	doc, err := g.generate(ctx, "material", prompt)
	if err != nil {
		return Document{
			"title":    req.Topic,
			"intro":    "Material generation failed. Please try again.",
			"sections": []interface{}{},
		}
	}
	return doc
}

// Summarize condenses a passage into an overview with key points.
func (g *Generator) Summarize(ctx context.Context, text string) Document {
	prompt := fmt.Sprintf(`Summarize the following educational content: %s.
Return STRICT JSON format:
{
  "overview": "High-level summary",
  "keyPoints": ["Core concept 1", "Core concept 2"],
  "actionItems": ["Suggested activity for students", "Discussion point"]
}`, head(text, summaryInputLimit))

	doc, err := g.generate(ctx, "summarize", prompt)
	if err != nil {
		return Document{"overview": "Summary failed", "keyPoints": []interface{}{}, "actionItems": []interface{}{}}
	}
	return doc
}

// Vocabulary extracts difficult words with definitions and examples.
func (g *Generator) Vocabulary(ctx context.Context, text string) Document {
	prompt := fmt.Sprintf(`Extract difficult vocabulary from: %s. Return JSON: { "vocabulary": [{"word": "", "definition": "", "example": ""}] }`,
		head(text, vocabularyInputLimit))

	doc, err := g.generate(ctx, "vocabulary", prompt)
	if err != nil {
		return Document{"vocabulary": []interface{}{}}
	}
	return doc
}

// DataAnalysis interprets CSV data such as class marks.
func (g *Generator) DataAnalysis(ctx context.Context, csvData, analysisType string) Document {
	prompt := fmt.Sprintf(`Analyze this CSV data (%s): %s. Return detailed JSON analysis.`,
		orDefault(analysisType, "performance"), head(csvData, csvInputLimit))

	doc, err := g.generate(ctx, "data_analysis", prompt)
	if err != nil {
		return Document{"success": false, "message": "Analysis failed"}
	}
	return doc
}
