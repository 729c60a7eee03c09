// Package triage decides what the pipeline does with a new contribution.
package triage

import (
	"context"
	"encoding/json"
	"fmt"

	"forge-ai-be/internal/entity"
	"forge-ai-be/pkg/llm"
	"forge-ai-be/pkg/prompt"
)

// Action is the closed set of pipeline outcomes.
type Action string

const (
	ActionLogOnly        Action = "LOG_ONLY"
	ActionAnswerDirectly Action = "ANSWER_DIRECTLY"
	ActionSynthesize     Action = "SYNTHESIZE"
)

// ParseError reports classifier output that was not a valid action. Callers
// treat it as LOG_ONLY rather than dropping the contribution.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("triage: unparsable classifier output %q: %v", e.Raw, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// PromptStore resolves the active version of a named prompt.
type PromptStore interface {
	ActivePrompt(ctx context.Context, name string) (*entity.Prompt, error)
}

type Classifier struct {
	provider llm.LLMProvider
	prompts  PromptStore
}

func NewClassifier(provider llm.LLMProvider, prompts PromptStore) *Classifier {
	return &Classifier{
		provider: provider,
		prompts:  prompts,
	}
}

// Classify runs the triage prompt over the goal and the new contribution.
// A malformed or out-of-set model response returns ActionLogOnly together
// with a *ParseError so the caller can log the degradation and continue.
func (c *Classifier) Classify(ctx context.Context, goal, contributionText string) (Action, error) {
	triagePrompt, err := c.prompts.ActivePrompt(ctx, entity.PromptTriageAgent)
	if err != nil {
		return ActionLogOnly, fmt.Errorf("load triage prompt: %w", err)
	}
	if triagePrompt == nil {
		return ActionLogOnly, fmt.Errorf("no active %s prompt", entity.PromptTriageAgent)
	}

	rendered, err := prompt.Render(triagePrompt.Template, map[string]any{
		"goal":                     goal,
		"latest_contribution_text": contributionText,
	})
	if err != nil {
		return ActionLogOnly, fmt.Errorf("render triage prompt: %w", err)
	}

	opts := []llm.Option{
		llm.WithModel(triagePrompt.Parameters.Model),
		llm.WithTemperature(triagePrompt.Parameters.Temperature),
		llm.WithMaxTokens(triagePrompt.Parameters.MaxTokens),
	}
	if triagePrompt.Parameters.ResponseFormat != nil && triagePrompt.Parameters.ResponseFormat.Type == "json_object" {
		opts = append(opts, llm.WithJSONResponse())
	}

	completion, err := c.provider.Chat(ctx, []llm.Message{
		{Role: "system", Content: "You are a triage agent for a collaboration tool. Always respond with valid JSON."},
		{Role: "user", Content: rendered},
	}, opts...)
	if err != nil {
		return ActionLogOnly, err
	}

	return parseAction(completion.Text)
}

func parseAction(raw string) (Action, error) {
	clean := prompt.StripCodeFence(raw)

	var decoded struct {
		Action string `json:"action"`
	}
	if err := json.Unmarshal([]byte(clean), &decoded); err != nil {
		return ActionLogOnly, &ParseError{Raw: raw, Err: err}
	}

	switch Action(decoded.Action) {
	case ActionLogOnly, ActionAnswerDirectly, ActionSynthesize:
		return Action(decoded.Action), nil
	default:
		return ActionLogOnly, &ParseError{Raw: raw, Err: fmt.Errorf("unknown action %q", decoded.Action)}
	}
}
