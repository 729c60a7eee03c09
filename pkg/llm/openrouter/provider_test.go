package openrouter

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"forge-ai-be/pkg/llm"
)

func completionBody(text string, tokens int) string {
	body, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]string{"role": "assistant", "content": text}},
		},
		"usage": map[string]int{"total_tokens": tokens},
	})
	return string(body)
}

func TestChatParsesCompletion(t *testing.T) {
	var captured chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("authorization = %q", got)
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &captured); err != nil {
			t.Fatalf("request body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(completionBody(`{"action": "SYNTHESIZE"}`, 42)))
	}))
	defer server.Close()

	provider := NewOpenRouterProvider(server.URL, "test-key", "default-model", 5*time.Second)
	completion, err := provider.Chat(context.Background(), []llm.Message{
		{Role: "system", Content: "triage"},
		{Role: "user", Content: "classify this"},
	}, llm.WithModel("google/gemini-2.5-flash-lite"), llm.WithTemperature(0.1), llm.WithMaxTokens(100), llm.WithJSONResponse())
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}

	if completion.Text != `{"action": "SYNTHESIZE"}` {
		t.Errorf("text = %q", completion.Text)
	}
	if completion.TokensUsed != 42 {
		t.Errorf("tokens = %d", completion.TokensUsed)
	}

	if captured.Model != "google/gemini-2.5-flash-lite" {
		t.Errorf("request model = %q", captured.Model)
	}
	if captured.Temperature != 0.1 {
		t.Errorf("request temperature = %v", captured.Temperature)
	}
	if captured.MaxTokens != 100 {
		t.Errorf("request max_tokens = %d", captured.MaxTokens)
	}
	if captured.ResponseFormat == nil || captured.ResponseFormat.Type != "json_object" {
		t.Error("request must carry response_format json_object")
	}
	if len(captured.Messages) != 2 || captured.Messages[0].Role != "system" {
		t.Errorf("request messages = %+v", captured.Messages)
	}
}

func TestChatMapsModelRoleToAssistant(t *testing.T) {
	var captured chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &captured)
		w.Write([]byte(completionBody("ok", 1)))
	}))
	defer server.Close()

	provider := NewOpenRouterProvider(server.URL, "key", "m", 5*time.Second)
	if _, err := provider.Chat(context.Background(), []llm.Message{
		{Role: "user", Content: "hi"},
		{Role: "model", Content: "previous turn"},
	}); err != nil {
		t.Fatalf("Chat() error = %v", err)
	}

	if captured.Messages[1].Role != "assistant" {
		t.Errorf("role = %q, want assistant", captured.Messages[1].Role)
	}
}

func TestChatServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusInternalServerError)
	}))
	defer server.Close()

	provider := NewOpenRouterProvider(server.URL, "key", "m", 5*time.Second)
	_, err := provider.Chat(context.Background(), []llm.Message{{Role: "user", Content: "hi"}})
	if !errors.Is(err, llm.ErrModelUnavailable) {
		t.Fatalf("err = %v, want ErrModelUnavailable", err)
	}
}

func TestChatEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices": [], "usage": {"total_tokens": 0}}`))
	}))
	defer server.Close()

	provider := NewOpenRouterProvider(server.URL, "key", "m", 5*time.Second)
	_, err := provider.Chat(context.Background(), []llm.Message{{Role: "user", Content: "hi"}})
	if !errors.Is(err, llm.ErrModelUnavailable) {
		t.Fatalf("err = %v, want ErrModelUnavailable", err)
	}
}

func TestChatTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(completionBody("too late", 1)))
	}))
	defer server.Close()

	provider := NewOpenRouterProvider(server.URL, "key", "m", 20*time.Millisecond)
	_, err := provider.Chat(context.Background(), []llm.Message{{Role: "user", Content: "hi"}})
	if !errors.Is(err, llm.ErrModelTimeout) {
		t.Fatalf("err = %v, want ErrModelTimeout", err)
	}
}

func TestGenerateWrapsSingleUserTurn(t *testing.T) {
	var captured chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &captured)
		w.Write([]byte(completionBody("answer", 1)))
	}))
	defer server.Close()

	provider := NewOpenRouterProvider(server.URL, "key", "fallback-model", 5*time.Second)
	if _, err := provider.Generate(context.Background(), "one-shot prompt"); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if len(captured.Messages) != 1 || captured.Messages[0].Role != "user" {
		t.Errorf("messages = %+v", captured.Messages)
	}
	if captured.Model != "fallback-model" {
		t.Errorf("model = %q, want provider default", captured.Model)
	}
}
