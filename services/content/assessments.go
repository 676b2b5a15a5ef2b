package content

import (
	"context"
	"fmt"
)

// QuizRequest describes a standalone quiz.
type QuizRequest struct {
	Topic        string
	Grade        string
	Subject      string
	QuestionType string
	BloomLevel   string
	Count        int
}

// Quiz generates a multiple choice quiz.
func (g *Generator) Quiz(ctx context.Context, req QuizRequest) Document {
	count := req.Count
	if count <= 0 {
		count = 5
	}

	prompt := fmt.Sprintf(`Generate a %d-question %s quiz on %q for grade %s.
Subject: %s, Bloom's Taxonomy Level: %s.

%s

Return STRICT JSON format:
{
  "title": "%s Quiz",
  "questions": [
    {
      "id": 1,
      "question": "Clear and concise question text?",
      "options": ["Option A", "Option B", "Option C", "Option D"],
      "correctAnswer": "The exact string from options that is correct",
      "explanation": "Why this answer is correct."
    }
  ]
}`, count, orDefault(req.QuestionType, "multiple choice"), req.Topic, orDefault(req.Grade, "10"),
		orDefault(req.Subject, "General"), orDefault(req.BloomLevel, "Understand"), scriptInstruction, req.Topic)

	doc, err := g.generate(ctx, "quiz", prompt)
	if err != nil {
		return Document{"title": req.Topic, "questions": []interface{}{}}
	}
	return doc
}

// AssignmentRequest describes a homework assignment.
type AssignmentRequest struct {
	Topic      string
	Grade      string
	Subject    string
	Type       string
	Difficulty string
	Count      string
}

// Assignment generates questions, activities and an answer key.
func (g *Generator) Assignment(ctx context.Context, req AssignmentRequest) Document {
	title := req.Topic + " Assignment"
	if DetectLanguage(req.Subject, req.Topic) == Urdu {
		title = "تفویض"
	}

	prompt := fmt.Sprintf(`Generate a high-quality assignment on %q for grade %s.
Type: %s, Difficulty: %s, Target Question Count: %s.

%s

Return STRICT JSON format:
{
  "title": %q,
  "assignmentQuestions": ["Question 1"],
  "fillInTheBlanks": ["Statement with ____"],
  "activityQuestions": ["Task 1"],
  "projectIdeas": ["Idea 1"],
  "answers": {
    "assignmentQuestions": ["Answer 1"],
    "fillInTheBlanks": ["Word 1"],
    "activityQuestions": ["Guide 1"]
  }
}`, req.Topic, orDefault(req.Grade, "10"), orDefault(req.Type, "Mixed"), orDefault(req.Difficulty, "Medium"),
		orDefault(req.Count, "10"), scriptInstruction, title)

	doc, err := g.generate(ctx, "assignment", prompt)
	if err != nil {
		return Document{
			"title":               req.Topic,
			"assignmentQuestions": []interface{}{},
			"fillInTheBlanks":     []interface{}{},
			"projectIdeas":        []interface{}{},
		}
	}
	return doc
}

// QuestionPaperRequest describes an exam paper.
type QuestionPaperRequest struct {
	Subject    string
	Grade      string
	Marks      int
	Difficulty string
	ExamType   string
	Syllabus   string
}

// QuestionPaper generates a sectioned exam paper with an answer key.
func (g *Generator) QuestionPaper(ctx context.Context, req QuestionPaperRequest) Document {
	marks := req.Marks
	if marks <= 0 {
		marks = 100
	}
	examType := orDefault(req.ExamType, "Final Exam")

	title := examType + " - " + req.Subject
	section := "Section A"
	if DetectLanguage(req.Subject, "") == Urdu {
		title = "پرچہ"
		section = "حصہ اول"
	}

	prompt := fmt.Sprintf(`Generate a %d-marks %s question paper for %s, grade %s.
Difficulty: %s. Syllabus Details: %s.

%s

Return STRICT JSON format:
{
  "title": %q,
  "totalMarks": %d,
  "sections": [
    {
      "name": %q,
      "questions": [
        {"text": "Actual question text here?", "marks": 1, "type": "MCQ", "options": ["Option 1", "Option 2", "Option 3", "Option 4"]}
      ]
    }
  ],
  "answerKey": { %q: ["Correct Answers"] }
}`, marks, examType, req.Subject, orDefault(req.Grade, "10"), orDefault(req.Difficulty, "Medium"),
		orDefault(req.Syllabus, "Full syllabus"), scriptInstruction, title, marks, section, section)

	doc, err := g.generate(ctx, "question_paper", prompt)
	if err != nil {
		return Document{"title": examType, "totalMarks": marks, "sections": []interface{}{}}
	}
	return doc
}

// MiniQuiz generates a three question check on a passage.
func (g *Generator) MiniQuiz(ctx context.Context, text string) Document {
	prompt := fmt.Sprintf(`Generate a 3-question mini-quiz based on the following text: %s
Return JSON: { "questions": [{"id": 1, "question": "", "options": [], "correctAnswer": ""}] }`, head(text, pdfContextLimit))

	doc, err := g.generate(ctx, "mini_quiz", prompt)
	if err != nil {
		return Document{"questions": []interface{}{}}
	}
	return doc
}
