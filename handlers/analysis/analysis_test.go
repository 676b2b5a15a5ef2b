package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/Tanveersultana125/co-teacher-backend/services/analysis"
	"github.com/gofiber/fiber/v2"
)

type fakePipeline struct {
	result analysis.MergedAnalysis
	err    error
	seen   analysis.Document
	stored []byte
}

func (f *fakePipeline) Analyze(_ context.Context, doc analysis.Document) (analysis.MergedAnalysis, error) {
	f.seen = doc
	f.stored, _ = os.ReadFile(doc.Path)
	_ = os.Remove(doc.Path)
	return f.result, f.err
}

func multipartBody(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	if field != "" {
		part, err := w.CreateFormFile(field, filename)
		if err != nil {
			t.Fatal(err)
		}
		_, _ = part.Write(content)
	} else {
		_ = w.WriteField("note", "no file")
	}
	_ = w.Close()
	return body, w.FormDataContentType()
}

func do(t *testing.T, h *AnalysisHandler, field, filename string, content []byte) (int, map[string]interface{}) {
	t.Helper()
	app := fiber.New()
	app.Post("/analysis/pdf", h.AnalyzePDF)

	body, contentType := multipartBody(t, field, filename, content)
	req := httptest.NewRequest(http.MethodPost, "/analysis/pdf", body)
	req.Header.Set("Content-Type", contentType)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	var out map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

var samplePDF = []byte("%PDF-1.4\nnot really a pdf body")

func TestAnalyzePDFSuccess(t *testing.T) {
	dir := t.TempDir()
	pipeline := &fakePipeline{result: analysis.MergedAnalysis{
		Summary:   "Cells are the unit of life.",
		KeyPoints: []string{"Cell: basic unit"},
		IsPartial: true,
	}}
	h := NewAnalysisHandler(pipeline, dir, false, nil)

	status, out := do(t, h, "pdf", "biology.pdf", samplePDF)
	if status != fiber.StatusOK {
		t.Fatalf("status = %d: %v", status, out)
	}
	if out["success"] != true || out["summary"] != "Cells are the unit of life." || out["is_partial"] != true {
		t.Errorf("body = %v", out)
	}
	if quiz, ok := out["quiz"].([]interface{}); !ok || len(quiz) != 0 {
		t.Errorf("quiz should be an empty array, got %v", out["quiz"])
	}
	if pipeline.seen.Filename != "biology.pdf" || !bytes.Equal(pipeline.stored, samplePDF) {
		t.Errorf("pipeline saw %+v with %q", pipeline.seen, pipeline.stored)
	}
	if entries, _ := os.ReadDir(dir); len(entries) != 0 {
		t.Errorf("upload directory not empty: %d entries", len(entries))
	}
}

func TestAnalyzePDFAcceptsFileField(t *testing.T) {
	pipeline := &fakePipeline{}
	status, out := do(t, NewAnalysisHandler(pipeline, t.TempDir(), false, nil), "file", "notes.pdf", samplePDF)
	if status != fiber.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if out["summary"] != missingSummary {
		t.Errorf("summary = %v", out["summary"])
	}
}

func TestAnalyzePDFMissingFile(t *testing.T) {
	status, out := do(t, NewAnalysisHandler(&fakePipeline{}, t.TempDir(), false, nil), "", "", nil)
	if status != fiber.StatusBadRequest {
		t.Fatalf("status = %d", status)
	}
	if out["success"] != false || out["message"] != "No PDF file uploaded." {
		t.Errorf("body = %v", out)
	}
}

func TestAnalyzePDFRejectsNonPDF(t *testing.T) {
	pipeline := &fakePipeline{}
	status, _ := do(t, NewAnalysisHandler(pipeline, t.TempDir(), false, nil), "pdf", "notes.pdf", []byte("hello"))
	if status != fiber.StatusUnprocessableEntity {
		t.Fatalf("status = %d", status)
	}
	if pipeline.seen.Path != "" {
		t.Error("pipeline should not run for an invalid upload")
	}
}

func TestAnalyzePDFPipelineErrors(t *testing.T) {
	cause := errors.New("groq: 401 invalid api key")
	cases := []struct {
		name   string
		err    error
		debug  bool
		status int
	}{
		{"empty document", analysis.NewError(analysis.KindEmptyDocument, nil), false, fiber.StatusUnprocessableEntity},
		{"no insights hides detail", analysis.NewError(analysis.KindNoInsights, cause), false, fiber.StatusInternalServerError},
		{"no insights with debug", analysis.NewError(analysis.KindNoInsights, cause), true, fiber.StatusInternalServerError},
		{"untyped error", cause, false, fiber.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewAnalysisHandler(&fakePipeline{err: tc.err}, t.TempDir(), tc.debug, nil)
			status, out := do(t, h, "pdf", "a.pdf", samplePDF)
			if status != tc.status {
				t.Errorf("status = %d, want %d", status, tc.status)
			}
			if out["success"] != false || out["message"] != analysis.MessageOf(tc.err) {
				t.Errorf("body = %v", out)
			}
			_, hasDebug := out["debug"]
			if hasDebug != tc.debug {
				t.Errorf("debug present = %v, want %v", hasDebug, tc.debug)
			}
		})
	}
}
