package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Tanveersultana125/co-teacher-backend/services/content"
	"github.com/gofiber/fiber/v2"
)

type recorder struct {
	quiz     content.QuizRequest
	paper    content.QuestionPaperRequest
	csv      string
	csvType  string
	material content.MaterialRequest
	assign   content.AssignmentRequest
}

func (r *recorder) Quiz(_ context.Context, req content.QuizRequest) content.Document {
	r.quiz = req
	return content.Document{"title": req.Topic + " Quiz"}
}

func (r *recorder) Material(_ context.Context, req content.MaterialRequest) content.Document {
	r.material = req
	return content.Document{"title": req.Topic}
}

func (r *recorder) Assignment(_ context.Context, req content.AssignmentRequest) content.Document {
	r.assign = req
	return content.Document{"title": req.Topic}
}

func (r *recorder) QuestionPaper(_ context.Context, req content.QuestionPaperRequest) content.Document {
	r.paper = req
	return content.Document{"subject": req.Subject}
}

func (r *recorder) DataAnalysis(_ context.Context, csvData, analysisType string) content.Document {
	r.csv, r.csvType = csvData, analysisType
	return content.Document{"success": true}
}

func newApp(gen Generator) *fiber.App {
	h := NewAIHandler(gen, nil)
	app := fiber.New()
	app.Post("/ai/quiz", h.GenerateQuiz)
	app.Post("/ai/material", h.GenerateMaterial)
	app.Post("/ai/assignment", h.GenerateAssignment)
	app.Post("/ai/question-paper", h.GenerateQuestionPaper)
	app.Post("/ai/data-analysis", h.AnalyzeData)
	return app
}

func post(t *testing.T, app *fiber.App, path, body string) (int, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	raw, _ := io.ReadAll(resp.Body)
	var out map[string]interface{}
	_ = json.Unmarshal(raw, &out)
	return resp.StatusCode, out
}

func TestGeneratorsPassRequestThrough(t *testing.T) {
	rec := &recorder{}
	app := newApp(rec)

	status, out := post(t, app, "/ai/quiz", `{"topic":"Fractions","grade":"5","bloomLevel":"Apply","count":3}`)
	if status != fiber.StatusOK {
		t.Fatalf("quiz status = %d", status)
	}
	if data, _ := out["data"].(map[string]interface{}); data["title"] != "Fractions Quiz" {
		t.Errorf("quiz body = %v", out)
	}
	if rec.quiz.Count != 3 || rec.quiz.BloomLevel != "Apply" || rec.quiz.Grade != "5" {
		t.Errorf("quiz request = %+v", rec.quiz)
	}

	if status, _ = post(t, app, "/ai/question-paper", `{"subject":"Physics","marks":80,"examType":"Mid Term"}`); status != fiber.StatusOK {
		t.Fatalf("question paper status = %d", status)
	}
	if rec.paper.Marks != 80 || rec.paper.ExamType != "Mid Term" {
		t.Errorf("paper request = %+v", rec.paper)
	}

	if status, _ = post(t, app, "/ai/material", `{"topic":"Rivers","type":"notes"}`); status != fiber.StatusOK || rec.material.Type != "notes" {
		t.Errorf("material status = %d, request = %+v", status, rec.material)
	}
	if status, _ = post(t, app, "/ai/assignment", `{"topic":"Rivers","count":"4"}`); status != fiber.StatusOK || rec.assign.Count != "4" {
		t.Errorf("assignment status = %d, request = %+v", status, rec.assign)
	}
	if status, _ = post(t, app, "/ai/data-analysis", `{"csvData":"name,marks\nA,90","analysisType":"performance"}`); status != fiber.StatusOK {
		t.Errorf("data analysis status = %d", status)
	}
	if rec.csv != "name,marks\nA,90" || rec.csvType != "performance" {
		t.Errorf("csv = %q type = %q", rec.csv, rec.csvType)
	}
}

func TestGeneratorsValidate(t *testing.T) {
	app := newApp(&recorder{})
	cases := []struct {
		path, body string
		status     int
	}{
		{"/ai/quiz", `{}`, fiber.StatusUnprocessableEntity},
		{"/ai/quiz", `{"topic":"x","count":500}`, fiber.StatusUnprocessableEntity},
		{"/ai/material", `{"type":"notes"}`, fiber.StatusUnprocessableEntity},
		{"/ai/assignment", `{}`, fiber.StatusUnprocessableEntity},
		{"/ai/question-paper", `{"grade":"9"}`, fiber.StatusUnprocessableEntity},
		{"/ai/data-analysis", `{"analysisType":"x"}`, fiber.StatusUnprocessableEntity},
		{"/ai/quiz", `{not json`, fiber.StatusBadRequest},
	}
	for _, tc := range cases {
		if status, _ := post(t, app, tc.path, tc.body); status != tc.status {
			t.Errorf("%s %s: status = %d, want %d", tc.path, tc.body, status, tc.status)
		}
	}
}
