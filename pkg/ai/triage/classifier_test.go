package triage

import (
	"context"
	"errors"
	"testing"

	"forge-ai-be/internal/entity"
	"forge-ai-be/pkg/llm"
)

type fakeProvider struct {
	response string
	err      error
	lastOpts llm.Options
	calls    int
}

func (f *fakeProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (*llm.Completion, error) {
	f.calls++
	f.lastOpts = llm.Options{}
	for _, opt := range opts {
		opt(&f.lastOpts)
	}
	if f.err != nil {
		return nil, f.err
	}
	return &llm.Completion{Text: f.response}, nil
}

func (f *fakeProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (*llm.Completion, error) {
	return f.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}

type fakePromptStore struct {
	prompts map[string]*entity.Prompt
}

func (f *fakePromptStore) ActivePrompt(ctx context.Context, name string) (*entity.Prompt, error) {
	return f.prompts[name], nil
}

func triagePromptFixture() *entity.Prompt {
	return &entity.Prompt{
		Name:    entity.PromptTriageAgent,
		Version: 1,
		Status:  entity.PromptStatusActive,
		Parameters: entity.PromptParameters{
			Model:          "google/gemini-2.5-flash-lite",
			Temperature:    0.1,
			MaxTokens:      100,
			ResponseFormat: &entity.ResponseFormat{Type: "json_object"},
		},
		ExpectedVars: []string{"goal", "latest_contribution_text"},
		Template:     "Goal: {{ goal }}\nLatest contribution: {{ latest_contribution_text }}",
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name         string
		response     string
		wantAction   Action
		wantParseErr bool
	}{
		{
			name:       "log only",
			response:   `{"action": "LOG_ONLY"}`,
			wantAction: ActionLogOnly,
		},
		{
			name:       "answer directly",
			response:   `{"action": "ANSWER_DIRECTLY"}`,
			wantAction: ActionAnswerDirectly,
		},
		{
			name:       "synthesize",
			response:   `{"action": "SYNTHESIZE"}`,
			wantAction: ActionSynthesize,
		},
		{
			name:       "fenced json",
			response:   "```json\n{\"action\": \"SYNTHESIZE\"}\n```",
			wantAction: ActionSynthesize,
		},
		{
			name:         "malformed json",
			response:     "definitely not json",
			wantAction:   ActionLogOnly,
			wantParseErr: true,
		},
		{
			name:         "unknown action",
			response:     `{"action": "ESCALATE"}`,
			wantAction:   ActionLogOnly,
			wantParseErr: true,
		},
		{
			name:         "missing action field",
			response:     `{"decision": "SYNTHESIZE"}`,
			wantAction:   ActionLogOnly,
			wantParseErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &fakeProvider{response: tt.response}
			store := &fakePromptStore{prompts: map[string]*entity.Prompt{
				entity.PromptTriageAgent: triagePromptFixture(),
			}}
			classifier := NewClassifier(provider, store)

			action, err := classifier.Classify(context.Background(), "Build an MVP", "Let's use React Native")

			if action != tt.wantAction {
				t.Errorf("Classify() action = %q, want %q", action, tt.wantAction)
			}

			var parseErr *ParseError
			if tt.wantParseErr {
				if !errors.As(err, &parseErr) {
					t.Fatalf("Classify() err = %v, want *ParseError", err)
				}
			} else if err != nil {
				t.Fatalf("Classify() unexpected error: %v", err)
			}
		})
	}
}

func TestClassifyAppliesPromptParameters(t *testing.T) {
	provider := &fakeProvider{response: `{"action": "LOG_ONLY"}`}
	store := &fakePromptStore{prompts: map[string]*entity.Prompt{
		entity.PromptTriageAgent: triagePromptFixture(),
	}}
	classifier := NewClassifier(provider, store)

	if _, err := classifier.Classify(context.Background(), "goal", "text"); err != nil {
		t.Fatalf("Classify() error = %v", err)
	}

	if provider.lastOpts.Model != "google/gemini-2.5-flash-lite" {
		t.Errorf("model = %q", provider.lastOpts.Model)
	}
	if provider.lastOpts.Temperature != 0.1 {
		t.Errorf("temperature = %v", provider.lastOpts.Temperature)
	}
	if provider.lastOpts.MaxTokens != 100 {
		t.Errorf("maxTokens = %d", provider.lastOpts.MaxTokens)
	}
	if !provider.lastOpts.JSONResponse {
		t.Error("expected JSON response format to be requested")
	}
}

func TestClassifyMissingPrompt(t *testing.T) {
	provider := &fakeProvider{response: `{"action": "SYNTHESIZE"}`}
	store := &fakePromptStore{prompts: map[string]*entity.Prompt{}}
	classifier := NewClassifier(provider, store)

	action, err := classifier.Classify(context.Background(), "goal", "text")
	if err == nil {
		t.Fatal("expected error for missing prompt")
	}
	if action != ActionLogOnly {
		t.Errorf("action = %q, want LOG_ONLY", action)
	}
	if provider.calls != 0 {
		t.Errorf("provider called %d times, want 0", provider.calls)
	}
}
