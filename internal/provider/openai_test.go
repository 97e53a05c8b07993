package provider

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pixil98/go-testutil"
)

func TestCoerceContent(t *testing.T) {
	tests := map[string]struct {
		raw      string
		expTitle string
		expDesc  string
		expLabel string
	}{
		"strict json": {
			raw:      `{"title":"The Vault","description":"Steel walls.","exit_labels":{"1":"Hatch"}}`,
			expTitle: "The Vault",
			expDesc:  "Steel walls.",
			expLabel: "Hatch",
		},
		"fenced json": {
			raw:      "```json\n{\"title\":\"The Vault\",\"description\":\"Steel walls.\"}\n```",
			expTitle: "The Vault",
			expDesc:  "Steel walls.",
		},
		"json without title": {
			raw:      `{"description":"Steel walls."}`,
			expTitle: "An Unnamed Chamber",
			expDesc:  "Steel walls.",
		},
		"raw prose": {
			raw:      "A corridor of dripping stone.",
			expTitle: "An Unnamed Chamber",
			expDesc:  "A corridor of dripping stone.",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			content := CoerceContent(tt.raw)
			testutil.AssertEqual(t, "title", content.Title, tt.expTitle)
			testutil.AssertEqual(t, "description", content.Description, tt.expDesc)
			testutil.AssertEqual(t, "label", content.Label("1", ""), tt.expLabel)
		})
	}
}

func TestGenerateRoom(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", got)
		}

		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		if len(req.Messages) != 2 {
			t.Errorf("expected system+user messages, got %d", len(req.Messages))
		}

		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{
					"content": `{"title":"The Vault","description":"Steel walls.","image_prompt":"a vault","exit_labels":{"1":"Hatch","2":"Duct"}}`,
				}},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	c := NewOpenAIClient("test-key", WithBaseUrl(srv.URL))
	content, err := c.GenerateRoom(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	testutil.AssertEqual(t, "title", content.Title, "The Vault")
	testutil.AssertEqual(t, "image prompt", content.ImagePrompt, "a vault")
	testutil.AssertEqual(t, "label 2", content.Label("2", ""), "Duct")
}

func TestGenerateRoomServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewOpenAIClient("bad-key", WithBaseUrl(srv.URL))
	_, err := c.GenerateRoom(context.Background(), "")
	if !errors.Is(err, ErrProvider) {
		t.Errorf("expected ErrProvider, got %v", err)
	}
}

func TestGenerateImage(t *testing.T) {
	payload := []byte{0x89, 'P', 'N', 'G'}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/images/generations" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		var req imageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		testutil.AssertEqual(t, "size", req.Size, "512x512")

		resp := map[string]any{
			"data": []map[string]any{
				{"b64_json": base64.StdEncoding.EncodeToString(payload)},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	c := NewOpenAIClient("test-key", WithBaseUrl(srv.URL))
	img, err := c.Generate(context.Background(), "a vault", "512x512")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "image length", len(img), len(payload))
}

func TestStaticProviderDeterministic(t *testing.T) {
	a := NewStatic()
	b := NewStatic()

	for i := 0; i < 6; i++ {
		ra, err := a.GenerateRoom(context.Background(), "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		rb, err := b.GenerateRoom(context.Background(), "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		testutil.AssertEqual(t, "title", ra.Title, rb.Title)
	}
}
