package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"forge-ai-be/internal/entity"
	"forge-ai-be/internal/pkg/logger"
	"forge-ai-be/pkg/ai/triage"
	"forge-ai-be/pkg/llm"
)

type fakeProvider struct {
	response string
	err      error
	calls    int
}

func (f *fakeProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (*llm.Completion, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &llm.Completion{Text: f.response}, nil
}

func (f *fakeProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (*llm.Completion, error) {
	return f.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}

type fakePromptStore struct{}

func (fakePromptStore) ActivePrompt(ctx context.Context, name string) (*entity.Prompt, error) {
	switch name {
	case entity.PromptDirectResponseAgent:
		return &entity.Prompt{
			Name:     name,
			Version:  1,
			Status:   entity.PromptStatusActive,
			Template: "Briefing: {{ current_briefing }}\nContext: {{ synthesis }}\nHistory: {{ chat_history_text }}\nRole: {{ role['name'] }}",
			Parameters: entity.PromptParameters{
				Model:       "google/gemini-2.5-flash",
				Temperature: 0.7,
				MaxTokens:   1000,
			},
		}, nil
	case entity.PromptSynthesisFacilitator:
		return &entity.Prompt{
			Name:     name,
			Version:  1,
			Status:   entity.PromptStatusActive,
			Template: "Goal: {{ goal }}\nTeam: {{ roles_text }}\nConversation: {{ contributions_text }}",
			Parameters: entity.PromptParameters{
				Model:          "google/gemini-2.5-flash",
				Temperature:    0.2,
				MaxTokens:      2048,
				ResponseFormat: &entity.ResponseFormat{Type: "json_object"},
			},
		}, nil
	}
	return nil, nil
}

type fakeMutator struct {
	chatMessages []string
	chatAuthors  []string
	syntheses    []entity.Synthesis
	briefings    [][]entity.Briefing
}

func (f *fakeMutator) AppendChatMessage(ctx context.Context, forgeId, roleId, author, content string) (*entity.ChatMessage, error) {
	f.chatMessages = append(f.chatMessages, content)
	f.chatAuthors = append(f.chatAuthors, author)
	return &entity.ChatMessage{Author: author, Content: content}, nil
}

func (f *fakeMutator) AppendSynthesis(ctx context.Context, forgeId string, synthesis entity.Synthesis, briefings []entity.Briefing) error {
	f.syntheses = append(f.syntheses, synthesis)
	f.briefings = append(f.briefings, briefings)
	return nil
}

func nopLogger() logger.ILogger {
	return logger.NewZapLogger("/dev/null", true)
}

func sessionFixture() *entity.Session {
	session := entity.NewDefaultSession()
	session.AddContribution("1", "Let's use React Native")
	return session
}

func TestExecuteLogOnly(t *testing.T) {
	provider := &fakeProvider{}
	mutator := &fakeMutator{}
	executor := NewExecutor(provider, fakePromptStore{}, mutator, nopLogger())

	session := sessionFixture()
	err := executor.Execute(context.Background(), "f1", triage.ActionLogOnly, session, &session.Contributions[0])
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if provider.calls != 0 {
		t.Errorf("model called %d times, want 0", provider.calls)
	}
	if len(mutator.chatMessages) != 0 || len(mutator.syntheses) != 0 {
		t.Error("LOG_ONLY must not persist anything")
	}
}

func TestExecuteAnswerDirectly(t *testing.T) {
	provider := &fakeProvider{response: "Here is a helpful answer."}
	mutator := &fakeMutator{}
	executor := NewExecutor(provider, fakePromptStore{}, mutator, nopLogger())

	session := sessionFixture()
	err := executor.Execute(context.Background(), "f1", triage.ActionAnswerDirectly, session, &session.Contributions[0])
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if len(mutator.chatMessages) != 1 {
		t.Fatalf("chat messages = %d, want 1", len(mutator.chatMessages))
	}
	if mutator.chatAuthors[0] != entity.ChatAuthorAI {
		t.Errorf("author = %q, want ai", mutator.chatAuthors[0])
	}
	if mutator.chatMessages[0] != "Here is a helpful answer." {
		t.Errorf("content = %q", mutator.chatMessages[0])
	}
	if len(mutator.syntheses) != 0 {
		t.Error("ANSWER_DIRECTLY must not append a synthesis")
	}
}

func TestExecuteSynthesize(t *testing.T) {
	provider := &fakeProvider{response: `{
		"overallContext": "Key decisions: React Native chosen.",
		"individualBriefings": {
			"1": {
				"briefing": "Hi Konrad, the stack is settled.",
				"questions": ["What is the launch date?"],
				"todos": ["Draft the MVP scope"],
				"priorities": "Scope first."
			}
		}
	}`}
	mutator := &fakeMutator{}
	executor := NewExecutor(provider, fakePromptStore{}, mutator, nopLogger())

	session := sessionFixture()
	err := executor.Execute(context.Background(), "f1", triage.ActionSynthesize, session, &session.Contributions[0])
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if len(mutator.syntheses) != 1 {
		t.Fatalf("syntheses = %d, want 1", len(mutator.syntheses))
	}
	synthesis := mutator.syntheses[0]
	if synthesis.Content != "Key decisions: React Native chosen." {
		t.Errorf("content = %q", synthesis.Content)
	}
	if len(synthesis.SourceContributions) != 1 {
		t.Errorf("source contributions = %d, want 1", len(synthesis.SourceContributions))
	}

	briefings := mutator.briefings[0]
	if len(briefings) != 2 {
		t.Fatalf("briefings = %d, want one per roster role", len(briefings))
	}

	konrad := briefings[0]
	if !strings.Contains(konrad.Briefing, "Hi Konrad, the stack is settled.") {
		t.Errorf("briefing missing body: %q", konrad.Briefing)
	}
	if !strings.Contains(konrad.Briefing, "**Questions:**\n- What is the launch date?") {
		t.Errorf("briefing missing questions: %q", konrad.Briefing)
	}
	if !strings.Contains(konrad.Briefing, "**Next Steps:**\n- Draft the MVP scope") {
		t.Errorf("briefing missing todos: %q", konrad.Briefing)
	}
	if !strings.Contains(konrad.Briefing, "**Priority:** Scope first.") {
		t.Errorf("briefing missing priority: %q", konrad.Briefing)
	}

	// Eike got no block from the model: fallback text.
	eike := briefings[1]
	if !strings.Contains(eike.Briefing, "Hi Eike, no specific briefing was generated for your role.") {
		t.Errorf("fallback briefing = %q", eike.Briefing)
	}
}

func TestExecuteSynthesizeModelFailure(t *testing.T) {
	provider := &fakeProvider{err: llm.ErrModelTimeout}
	mutator := &fakeMutator{}
	executor := NewExecutor(provider, fakePromptStore{}, mutator, nopLogger())

	session := sessionFixture()
	err := executor.Execute(context.Background(), "f1", triage.ActionSynthesize, session, &session.Contributions[0])
	if !errors.Is(err, llm.ErrModelTimeout) {
		t.Fatalf("Execute() err = %v, want ErrModelTimeout", err)
	}

	if len(mutator.syntheses) != 0 || len(mutator.chatMessages) != 0 {
		t.Error("failed model call must not persist partial artifacts")
	}
}

func TestExecuteSynthesizeMalformedResponse(t *testing.T) {
	provider := &fakeProvider{response: "not json at all"}
	mutator := &fakeMutator{}
	executor := NewExecutor(provider, fakePromptStore{}, mutator, nopLogger())

	session := sessionFixture()
	err := executor.Execute(context.Background(), "f1", triage.ActionSynthesize, session, &session.Contributions[0])
	if err == nil {
		t.Fatal("expected parse error")
	}
	if len(mutator.syntheses) != 0 {
		t.Error("malformed synthesis must not be persisted")
	}
}

func TestGenerateDirectAnswerUsesLatestBriefing(t *testing.T) {
	provider := &fakeProvider{response: "Answer."}
	mutator := &fakeMutator{}
	executor := NewExecutor(provider, fakePromptStore{}, mutator, nopLogger())

	session := sessionFixture()
	session.AppendSynthesis(entity.Synthesis{Id: "s1", Content: "Context text"}, []entity.Briefing{
		{RoleId: "1", Briefing: "Konrad briefing"},
	})
	session.AppendChatMessage("1", entity.ChatAuthorUser, "What next?")

	role := session.FindRole("1")
	answer, err := executor.GenerateDirectAnswer(context.Background(), session, role)
	if err != nil {
		t.Fatalf("GenerateDirectAnswer() error = %v", err)
	}
	if answer != "Answer." {
		t.Errorf("answer = %q", answer)
	}
	if provider.calls != 1 {
		t.Errorf("model calls = %d, want 1", provider.calls)
	}
}

func TestChatHistoryText(t *testing.T) {
	role := &entity.Role{Id: "1", Name: "Konrad", Title: "Product Lead"}
	messages := []entity.ChatMessage{
		{Author: entity.ChatAuthorUser, Content: "What next?"},
		{Author: entity.ChatAuthorAI, Content: "Define the scope."},
	}

	got := ChatHistoryText(role, messages)
	want := "Konrad: What next?\nAI: Define the scope."
	if got != want {
		t.Errorf("ChatHistoryText() = %q, want %q", got, want)
	}
}
