package groq

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func newTestServer(t *testing.T, handler func(w http.ResponseWriter, req ChatRequest)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		handler(w, req)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func writeCompletion(w http.ResponseWriter, model, content string) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(ChatResponse{
		ID:      "cmpl-1",
		Model:   model,
		Choices: []Choice{{Message: Message{Role: "assistant", Content: content}}},
	})
}

func testClient(baseURL string, failures uint32) *Client {
	return NewClient(Config{
		APIKey:            "test-key",
		BaseURL:           baseURL,
		RequestsPerMinute: -1,
		BreakerFailures:   failures,
	})
}

func TestSimpleCompletion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q", got)
		}
		var req ChatRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Model != DefaultPrimaryModel {
			t.Errorf("model = %q", req.Model)
		}
		if req.ResponseFormat == nil || req.ResponseFormat.Type != "json_object" {
			t.Errorf("response_format = %+v", req.ResponseFormat)
		}
		if req.Temperature != 0.3 || req.MaxTokens != 3000 {
			t.Errorf("temperature/max_tokens = %v/%d", req.Temperature, req.MaxTokens)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" || req.Messages[1].Content != "hello" {
			t.Errorf("messages = %+v", req.Messages)
		}
		writeCompletion(w, req.Model, `{"ok":true}`)
	}))
	defer srv.Close()

	out, err := testClient(srv.URL, 5).SimpleCompletion(context.Background(), "sys", "hello",
		WithTemperature(0.3), WithMaxTokens(3000), WithJSONResponse())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != `{"ok":true}` {
		t.Errorf("content = %q", out)
	}
}

func TestFallbackOnRateLimit(t *testing.T) {
	var models []string
	srv := newTestServer(t, func(w http.ResponseWriter, req ChatRequest) {
		models = append(models, req.Model)
		if req.Model == DefaultPrimaryModel {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":{"message":"Rate limit reached"}}`))
			return
		}
		writeCompletion(w, req.Model, "from fallback")
	})

	out, err := testClient(srv.URL, 5).SimpleCompletion(context.Background(), "sys", "user")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "from fallback" {
		t.Errorf("content = %q", out)
	}
	if len(models) != 2 || models[0] != DefaultPrimaryModel || models[1] != DefaultFallbackModel {
		t.Errorf("models called = %v", models)
	}
}

func TestNoFallbackOnServerError(t *testing.T) {
	var calls int32
	srv := newTestServer(t, func(w http.ResponseWriter, req ChatRequest) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("boom"))
	})

	_, err := testClient(srv.URL, 5).SimpleCompletion(context.Background(), "sys", "user")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d", apiErr.StatusCode)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestOpenCircuitRoutesToFallback(t *testing.T) {
	var primaryCalls int32
	srv := newTestServer(t, func(w http.ResponseWriter, req ChatRequest) {
		if req.Model == DefaultPrimaryModel {
			atomic.AddInt32(&primaryCalls, 1)
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		writeCompletion(w, req.Model, "fallback ok")
	})

	client := testClient(srv.URL, 2)
	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if _, err := client.SimpleCompletion(ctx, "sys", "user"); err == nil {
			t.Fatalf("call %d: expected error", i)
		}
	}

	out, err := client.SimpleCompletion(ctx, "sys", "user")
	if err != nil {
		t.Fatalf("expected fallback success, got %v", err)
	}
	if out != "fallback ok" {
		t.Errorf("content = %q", out)
	}
	if primaryCalls != 2 {
		t.Errorf("primary calls = %d, want 2", primaryCalls)
	}
}

func TestMissingAPIKey(t *testing.T) {
	client := NewClient(Config{})
	if _, err := client.SimpleCompletion(context.Background(), "s", "u"); !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("expected ErrMissingAPIKey, got %v", err)
	}
}

func TestIsRateLimit(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{&APIError{StatusCode: 429}, true},
		{&APIError{StatusCode: 400, Body: "Request too large: token LIMIT exceeded"}, true},
		{&APIError{StatusCode: 401, Body: "invalid key"}, false},
		{errors.New("dial tcp: connection refused"), false},
	}
	for _, tt := range tests {
		if got := IsRateLimit(tt.err); got != tt.want {
			t.Errorf("IsRateLimit(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestCompleteJSONStripsProse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ChatRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.ResponseFormat == nil {
			t.Error("expected JSON response format")
		}
		writeCompletion(w, req.Model, "Sure! {\"title\":\"Fractions\"} Hope it helps.")
	}))
	defer srv.Close()

	obj, err := testClient(srv.URL, 5).CompleteJSON(context.Background(), "sys", "user")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if obj["title"] != "Fractions" {
		t.Errorf("title = %v", obj["title"])
	}
}
