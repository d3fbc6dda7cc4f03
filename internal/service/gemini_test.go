package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func replyWith(text string) string {
	resp := map[string]any{
		"candidates": []map[string]any{
			{
				"content":      map[string]any{"parts": []map[string]any{{"text": text}}},
				"finishReason": "STOP",
			},
		},
	}
	data, _ := json.Marshal(resp)
	return string(data)
}

func TestAnalyzeMealRequestShape(t *testing.T) {
	var got geminiRequest
	var path, query string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		query = r.URL.RawQuery
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Write([]byte(replyWith(`{"calories":95,"proteins":0.5,"carbs":25,"fats":0.3}`)))
	}))
	defer srv.Close()

	svc := NewGeminiService(srv.URL, "test-key", "gemini-2.0-flash", 5*time.Second)
	image := []byte{0xff, 0xd8, 0xff, 0xe0}
	text, err := svc.AnalyzeMeal(context.Background(), image, "image/jpeg", "apple", "1 medium")
	if err != nil {
		t.Fatalf("AnalyzeMeal: %v", err)
	}
	if !strings.Contains(text, `"calories":95`) {
		t.Errorf("reply text = %q", text)
	}

	if path != "/v1beta/models/gemini-2.0-flash:generateContent" {
		t.Errorf("path = %q", path)
	}
	if !strings.Contains(query, "key=test-key") {
		t.Errorf("query = %q, want api key", query)
	}

	if len(got.Contents) != 1 || len(got.Contents[0].Parts) != 2 {
		t.Fatalf("contents/parts shape: %+v", got.Contents)
	}
	prompt := got.Contents[0].Parts[0].Text
	if !strings.Contains(prompt, "Food name: apple") {
		t.Errorf("prompt missing food name: %q", prompt)
	}
	if !strings.Contains(prompt, "Quantity: 1 medium") {
		t.Errorf("prompt missing quantity: %q", prompt)
	}
	if !strings.Contains(prompt, "Protein = 4 kcal per gram") {
		t.Errorf("prompt missing kcal-per-gram rule: %q", prompt)
	}

	blob := got.Contents[0].Parts[1].InlineData
	if blob == nil {
		t.Fatal("missing inline_data part")
	}
	if blob.MimeType != "image/jpeg" {
		t.Errorf("mime type = %q", blob.MimeType)
	}
	if blob.Data != base64.StdEncoding.EncodeToString(image) {
		t.Errorf("image data not base64 of the upload")
	}

	if got.GenerationConfig.Temperature != 0.4 || got.GenerationConfig.MaxOutputTokens != 1024 || got.GenerationConfig.CandidateCount != 1 {
		t.Errorf("generation config = %+v", got.GenerationConfig)
	}
	if len(got.SafetySettings) != 4 {
		t.Errorf("safety settings = %d, want 4", len(got.SafetySettings))
	}
}

func TestAnalyzeMealNoQuantityAsksForReferences(t *testing.T) {
	var got geminiRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(replyWith("{}")))
	}))
	defer srv.Close()

	svc := NewGeminiService(srv.URL, "k", "gemini-2.0-flash", 5*time.Second)
	if _, err := svc.AnalyzeMeal(context.Background(), []byte{1}, "image/png", "toast", ""); err != nil {
		t.Fatalf("AnalyzeMeal: %v", err)
	}
	prompt := got.Contents[0].Parts[0].Text
	if !strings.Contains(prompt, "size references in the image") {
		t.Errorf("prompt missing size-reference instruction: %q", prompt)
	}
	if strings.Contains(prompt, "Quantity:") {
		t.Errorf("prompt should not carry a quantity line: %q", prompt)
	}
}

func TestAnalyzeMealDefaultsToJPEG(t *testing.T) {
	var got geminiRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(replyWith("{}")))
	}))
	defer srv.Close()

	svc := NewGeminiService(srv.URL, "k", "gemini-2.0-flash", 5*time.Second)
	if _, err := svc.AnalyzeMeal(context.Background(), []byte{1}, "application/octet-stream", "", ""); err != nil {
		t.Fatalf("AnalyzeMeal: %v", err)
	}
	if mime := got.Contents[0].Parts[1].InlineData.MimeType; mime != "image/jpeg" {
		t.Errorf("mime type = %q, want image/jpeg fallback", mime)
	}
}

func TestAnalyzeMealBlocked(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"prompt feedback", `{"promptFeedback":{"blockReason":"SAFETY"}}`},
		{"no candidates", `{"candidates":[]}`},
		{"safety finish", `{"candidates":[{"content":{"parts":[]},"finishReason":"SAFETY"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			svc := NewGeminiService(srv.URL, "k", "gemini-2.0-flash", 5*time.Second)
			_, err := svc.AnalyzeMeal(context.Background(), []byte{1}, "image/jpeg", "", "")
			if !errors.Is(err, ErrContentBlocked) {
				t.Errorf("error = %v, want ErrContentBlocked", err)
			}
		})
	}
}

func TestAnalyzeMealUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	}))
	defer srv.Close()

	svc := NewGeminiService(srv.URL, "k", "gemini-2.0-flash", 5*time.Second)
	_, err := svc.AnalyzeMeal(context.Background(), []byte{1}, "image/jpeg", "", "")
	if !errors.Is(err, ErrUpstreamUnavailable) {
		t.Errorf("error = %v, want ErrUpstreamUnavailable", err)
	}
}

func TestAnalyzeMealTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(replyWith("{}")))
	}))
	defer srv.Close()

	svc := NewGeminiService(srv.URL, "k", "gemini-2.0-flash", 20*time.Millisecond)
	_, err := svc.AnalyzeMeal(context.Background(), []byte{1}, "image/jpeg", "", "")
	if !errors.Is(err, ErrUpstreamTimeout) {
		t.Errorf("error = %v, want ErrUpstreamTimeout", err)
	}
}
