package openai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lehigh-university-libraries/wordcards/internal/providers"
)

func TestGenerateContent(t *testing.T) {
	var gotAuth, gotURL string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		var body struct {
			Messages []struct {
				Content []struct {
					Type     string            `json:"type"`
					ImageURL map[string]string `json:"image_url"`
				} `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("failed to decode body: %v", err)
			return
		}
		gotURL = body.Messages[0].Content[1].ImageURL["url"]
		_, _ = io.WriteString(w, `{"choices":[{"message":{"content":"[{\"englishWord\":\"dog\",\"chineseTranslation\":\"狗\"}]"}}]}`)
	}))
	defer srv.Close()

	o := New(srv.URL, "sk-test", "", srv.Client())
	resp, err := o.GenerateContent(context.Background(), providers.Request{Prompt: "p", MIMEType: "image/png", Data: "AAAA"})
	if err != nil {
		t.Fatalf("GenerateContent returned error: %v", err)
	}

	if gotAuth != "Bearer sk-test" {
		t.Errorf("Unexpected Authorization header %q", gotAuth)
	}
	if gotURL != "data:image/png;base64,AAAA" {
		t.Errorf("Unexpected image url %q", gotURL)
	}
	if got := resp.Candidates[0].Content.Parts[0].Text; got != `[{"englishWord":"dog","chineseTranslation":"狗"}]` {
		t.Errorf("Unexpected text %q", got)
	}
}

func TestGenerateContentNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := New(srv.URL, "", "", srv.Client()).GenerateContent(context.Background(), providers.Request{})
	if !errors.Is(err, providers.ErrService) {
		t.Errorf("Expected ErrService, got %v", err)
	}
}
