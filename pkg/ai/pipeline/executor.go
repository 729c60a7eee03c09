// Package pipeline runs the AI action stage: given a triage decision it
// renders the relevant prompt, calls the model, and hands the produced
// artifact back to the session layer for persistence.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"forge-ai-be/internal/entity"
	"forge-ai-be/internal/pkg/logger"
	"forge-ai-be/pkg/ai/triage"
	"forge-ai-be/pkg/llm"
	"forge-ai-be/pkg/prompt"
)

// PromptStore resolves the active version of a named prompt.
type PromptStore interface {
	ActivePrompt(ctx context.Context, name string) (*entity.Prompt, error)
}

// SessionMutator persists pipeline artifacts into a forge document. The
// implementation owns the read-modify-write cycle; the executor never touches
// storage directly.
type SessionMutator interface {
	AppendChatMessage(ctx context.Context, forgeId, roleId, author, content string) (*entity.ChatMessage, error)
	AppendSynthesis(ctx context.Context, forgeId string, synthesis entity.Synthesis, briefings []entity.Briefing) error
}

// RoleBriefing is the per-role block of the synthesis model response.
type RoleBriefing struct {
	Briefing   string   `json:"briefing"`
	Questions  []string `json:"questions"`
	Todos      []string `json:"todos"`
	Priorities string   `json:"priorities"`
}

// SynthesisResult is the parsed synthesis model response.
type SynthesisResult struct {
	OverallContext      string                  `json:"overallContext"`
	IndividualBriefings map[string]RoleBriefing `json:"individualBriefings"`
}

type Executor struct {
	provider llm.LLMProvider
	prompts  PromptStore
	sessions SessionMutator
	log      logger.ILogger
}

func NewExecutor(provider llm.LLMProvider, prompts PromptStore, sessions SessionMutator, log logger.ILogger) *Executor {
	return &Executor{
		provider: provider,
		prompts:  prompts,
		sessions: sessions,
		log:      log,
	}
}

// Execute runs exactly one action branch for a contribution. LOG_ONLY is a
// no-op: the contribution is already stored by the time triage runs. Model
// failures abort the branch without persisting a partial artifact.
func (e *Executor) Execute(ctx context.Context, forgeId string, action triage.Action, session *entity.Session, contribution *entity.Contribution) error {
	switch action {
	case triage.ActionLogOnly:
		return nil

	case triage.ActionAnswerDirectly:
		role := session.FindRole(contribution.AuthorId)
		if role == nil {
			return fmt.Errorf("pipeline: role %s not found", contribution.AuthorId)
		}

		answer, err := e.GenerateDirectAnswer(ctx, session, role)
		if err != nil {
			return err
		}

		_, err = e.sessions.AppendChatMessage(ctx, forgeId, role.Id, entity.ChatAuthorAI, answer)
		return err

	case triage.ActionSynthesize:
		result, err := e.Synthesize(ctx, session)
		if err != nil {
			return err
		}

		synthesis := entity.Synthesis{
			Id:                  uuid.NewString(),
			Content:             result.OverallContext,
			Timestamp:           time.Now().UTC(),
			SourceContributions: contributionIds(session.Contributions),
		}
		briefings := e.BuildBriefings(session.Roles, result)

		return e.sessions.AppendSynthesis(ctx, forgeId, synthesis, briefings)

	default:
		return fmt.Errorf("pipeline: unknown action %q", action)
	}
}

// GenerateDirectAnswer renders the direct response prompt against the role's
// briefing, the latest synthesis, and the role's chat history.
func (e *Executor) GenerateDirectAnswer(ctx context.Context, session *entity.Session, role *entity.Role) (string, error) {
	directPrompt, err := e.prompts.ActivePrompt(ctx, entity.PromptDirectResponseAgent)
	if err != nil {
		return "", fmt.Errorf("load direct response prompt: %w", err)
	}
	if directPrompt == nil {
		return "", fmt.Errorf("no active %s prompt", entity.PromptDirectResponseAgent)
	}

	currentBriefing := "No current briefing"
	synthesisContent := "No current project context"
	if latest := session.LatestSynthesis(); latest != nil {
		synthesisContent = latest.Content
		if b := session.BriefingFor(latest.Id, role.Id); b != "" {
			currentBriefing = b
		}
	}

	rendered, err := prompt.Render(directPrompt.Template, map[string]any{
		"role":              map[string]string{"name": role.Name, "title": role.Title},
		"current_briefing":  currentBriefing,
		"synthesis":         synthesisContent,
		"chat_history_text": chatHistoryText(session, role),
	})
	if err != nil {
		return "", fmt.Errorf("render direct response prompt: %w", err)
	}

	completion, err := e.provider.Chat(ctx, []llm.Message{
		{Role: "system", Content: "You are Forge, an AI facilitator helping teams collaborate effectively."},
		{Role: "user", Content: rendered},
	}, callOptions(directPrompt)...)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(completion.Text), nil
}

// Synthesize renders the synthesis prompt over the full conversation and
// parses the structured JSON response.
func (e *Executor) Synthesize(ctx context.Context, session *entity.Session) (*SynthesisResult, error) {
	synthesisPrompt, err := e.prompts.ActivePrompt(ctx, entity.PromptSynthesisFacilitator)
	if err != nil {
		return nil, fmt.Errorf("load synthesis prompt: %w", err)
	}
	if synthesisPrompt == nil {
		return nil, fmt.Errorf("no active %s prompt", entity.PromptSynthesisFacilitator)
	}

	rendered, err := prompt.Render(synthesisPrompt.Template, map[string]any{
		"goal":               session.Goal,
		"roles_text":         rolesText(session.Roles),
		"contributions_text": contributionsText(session.Contributions),
	})
	if err != nil {
		return nil, fmt.Errorf("render synthesis prompt: %w", err)
	}

	completion, err := e.provider.Chat(ctx, []llm.Message{
		{Role: "system", Content: "You are Forge, an AI facilitator. Generate a structured synthesis as requested."},
		{Role: "user", Content: rendered},
	}, callOptions(synthesisPrompt)...)
	if err != nil {
		return nil, err
	}

	clean := prompt.StripCodeFence(completion.Text)
	var result SynthesisResult
	if err := json.Unmarshal([]byte(clean), &result); err != nil {
		return nil, fmt.Errorf("parse synthesis response: %w", err)
	}
	return &result, nil
}

// BuildBriefings flattens the per-role blocks into briefing texts, one per
// roster role. Roles the model skipped get a fallback pointing at the overall
// context.
func (e *Executor) BuildBriefings(roles []entity.Role, result *SynthesisResult) []entity.Briefing {
	briefings := make([]entity.Briefing, 0, len(roles))
	for _, role := range roles {
		block, ok := result.IndividualBriefings[role.Id]
		if !ok {
			e.log.Warn("pipeline", "no briefing generated for role", map[string]interface{}{
				"roleId": role.Id,
			})
			briefings = append(briefings, entity.Briefing{
				RoleId:   role.Id,
				Briefing: fmt.Sprintf("Hi %s, no specific briefing was generated for your role. Please check the overall context.", role.Name),
			})
			continue
		}

		var sb strings.Builder
		sb.WriteString(block.Briefing)
		if len(block.Questions) > 0 {
			sb.WriteString("\n\n**Questions:**")
			for _, q := range block.Questions {
				sb.WriteString("\n- " + q)
			}
		}
		if len(block.Todos) > 0 {
			sb.WriteString("\n\n**Next Steps:**")
			for _, t := range block.Todos {
				sb.WriteString("\n- " + t)
			}
		}
		if block.Priorities != "" {
			sb.WriteString("\n\n**Priority:** " + block.Priorities)
		}

		briefings = append(briefings, entity.Briefing{
			RoleId:   role.Id,
			Briefing: sb.String(),
		})
	}
	return briefings
}

func callOptions(p *entity.Prompt) []llm.Option {
	opts := []llm.Option{
		llm.WithModel(p.Parameters.Model),
		llm.WithTemperature(p.Parameters.Temperature),
		llm.WithMaxTokens(p.Parameters.MaxTokens),
	}
	if p.Parameters.ResponseFormat != nil && p.Parameters.ResponseFormat.Type == "json_object" {
		opts = append(opts, llm.WithJSONResponse())
	}
	return opts
}

func rolesText(roles []entity.Role) string {
	lines := make([]string, len(roles))
	for i, r := range roles {
		lines[i] = fmt.Sprintf("- %s: %s (ID: %s)", r.Name, r.Title, r.Id)
	}
	return strings.Join(lines, "\n")
}

func contributionsText(contributions []entity.Contribution) string {
	parts := make([]string, len(contributions))
	for i, c := range contributions {
		parts[i] = fmt.Sprintf("%s (%s): %s", c.AuthorName, c.AuthorTitle, c.Text)
	}
	return strings.Join(parts, "\n\n")
}

// ChatHistoryText formats a role's chat transcript for prompt context. User
// turns carry the role's name; AI turns are labeled "AI".
func ChatHistoryText(role *entity.Role, messages []entity.ChatMessage) string {
	lines := make([]string, len(messages))
	for i, m := range messages {
		speaker := "AI"
		if m.Author == entity.ChatAuthorUser {
			speaker = role.Name
		}
		lines[i] = fmt.Sprintf("%s: %s", speaker, m.Content)
	}
	return strings.Join(lines, "\n")
}

func chatHistoryText(session *entity.Session, role *entity.Role) string {
	for _, rc := range session.RoleChats {
		if rc.RoleId == role.Id {
			return ChatHistoryText(role, rc.Messages)
		}
	}
	return ""
}

func contributionIds(contributions []entity.Contribution) []string {
	ids := make([]string, len(contributions))
	for i, c := range contributions {
		ids[i] = c.Id
	}
	return ids
}
