// Package seed holds the initial prompt definitions and the idempotent
// seeding routine used by the seed_prompts command.
package seed

import (
	"context"
	"fmt"

	"forge-ai-be/internal/entity"
	"forge-ai-be/internal/repository/contract"
)

func intPtr(v int) *int {
	return &v
}

// InitialPrompts returns the prompt set a fresh deployment needs. Versions
// start at 1; operators publish tuned versions through the database.
func InitialPrompts() []*entity.Prompt {
	return []*entity.Prompt{
		{
			Name:        entity.PromptTriageAgent,
			Version:     1,
			Status:      entity.PromptStatusActive,
			Description: "Analyzes a new user contribution to decide the next AI action. Uses a fast, cheap model.",
			Parameters: entity.PromptParameters{
				Model:          "google/gemini-2.5-flash-lite",
				Temperature:    0.1,
				MaxTokens:      100,
				ResponseFormat: &entity.ResponseFormat{Type: "json_object"},
			},
			ExpectedVars: []string{"goal", "latest_contribution_text"},
			Template: `You are a triage agent for a collaboration tool. Analyze the 'LATEST CONTRIBUTION' in the context of the 'GOAL' and decide on an action.

Goal: {{ goal }}
Latest contribution: {{ latest_contribution_text }}

Actions:
- LOG_ONLY: Just log the message, no AI response needed
- ANSWER_DIRECTLY: Provide a direct answer to a question
- SYNTHESIZE: Generate a full synthesis of the conversation

Respond only with a JSON object: {"action": "CHOSEN_ACTION"}`,
		},
		{
			Name:        entity.PromptDirectResponseAgent,
			Version:     1,
			Status:      entity.PromptStatusActive,
			Description: "AI facilitator that provides helpful, contextual responses to team members' questions using project context and briefings.",
			Parameters: entity.PromptParameters{
				Model:       "google/gemini-2.5-flash",
				Temperature: 0.7,
				MaxTokens:   1000,
			},
			ExpectedVars: []string{"role", "current_briefing", "synthesis", "chat_history_text"},
			Template: `You are the AI facilitator for {{ role['name'] }} ({{ role['title'] }}). They have asked you a question and expect a helpful response.

**Current Briefing for {{ role['name'] }}**:
{{ current_briefing }}

**Project Context**:
{{ synthesis }}

**Chat History**:
{{ chat_history_text }}

**CRITICAL CONSTRAINTS:**
- For FACTUAL questions about the project: Only use information from the briefing, project context, and chat history above
- For PROCESS/FACILITATION questions: You may use your knowledge of facilitation methods and project management
- If factual information isn't available in the provided context, clearly state "I don't have that information from our discussion" rather than guessing
- Never inject external knowledge about the subject matter or make assumptions beyond what was shared

**Your Task**: Provide a concise, helpful response to their latest question:

- Reference their briefing and project context when relevant
- Ask follow-up questions to move their work forward
- Stay facilitative, not directive - help them think through it
- Keep it to 2-3 sentences max
- Be directly helpful and specific
- Be honest about information gaps

Respond with your answer directly (no JSON formatting needed):`,
		},
		{
			Name:               entity.PromptSynthesisFacilitator,
			Version:            1,
			Status:             entity.PromptStatusActive,
			AssertivenessLevel: intPtr(2),
			Description:        "Comprehensive synthesis prompt that creates briefing packages with overall context and personalized briefings for each team member.",
			Parameters: entity.PromptParameters{
				Model:          "google/gemini-2.5-flash",
				Temperature:    0.2,
				MaxTokens:      2048,
				ResponseFormat: &entity.ResponseFormat{Type: "json_object"},
			},
			ExpectedVars: []string{"goal", "roles_text", "contributions_text"},
			Template: `You are the lead AI facilitator managing a team discussion. Create a comprehensive briefing package that includes overall context and personalized briefings for each team member.

**Session Goal**: {{ goal }}

**Team**: {{ roles_text }}

**Full Conversation**: {{ contributions_text }}

**Your Task**: Output valid JSON with this exact structure:

{
  "overallContext": "COMPREHENSIVE facilitator notes for full team context. Include: key decisions made, critical information shared, specific next steps identified, open questions, context dependencies between roles, priorities, strategic context, and any important nuances. Use bullet points and structure this well - it should be thorough and detailed to give complete situational awareness.",

  "individualBriefings": {
    "ROLE_ID_1": {
      "briefing": "Hi [Name], 2-3 concise sentences max about what's most relevant to your role right now. Be direct and specific.",
      "questions": ["Specific question 1 to move their work forward", "Specific question 2 if needed"],
      "todos": ["Concrete action item 1 if clear from context", "Action item 2 if applicable"],
      "priorities": "Single sentence about what they should focus on first"
    },
    "ROLE_ID_2": {
      "briefing": "Hi [Name], ...",
      "questions": ["..."],
      "todos": ["..."],
      "priorities": "..."
    }
  }
}

**Guidelines:**

**For Overall Context (be comprehensive):**
- Include all key decisions, information, and strategic context
- Use bullet points and clear structure
- Cover dependencies between team members
- Note priorities and open questions
- Be thorough - this is the master context for facilitators
- Include nuances and important details that inform the situation

**For Individual Briefings (be concise):**
- Keep briefings to 2-3 sentences MAX - be concise and scannable
- Focus on what's immediately actionable and relevant to their role
- Questions should be specific and focused (1-2 max)
- Todos only if they clearly emerged from discussion
- Priorities should be one clear, focused sentence
- Make it quick to read and understand at a glance

**CRITICAL: Output ONLY the raw JSON object - no markdown code blocks, no ` + "```json```" + `, no additional text or formatting. Start directly with { and end with }.**`,
		},
	}
}

// Result summarizes one seeding run.
type Result struct {
	Created int
	Skipped int
	Cleared int64
}

// Run seeds the prompt table. Without force, prompts that already have an
// active version are skipped; with force, the table is cleared first and
// everything is recreated.
func Run(ctx context.Context, repo contract.PromptRepository, force bool) (*Result, error) {
	res := &Result{}

	if force {
		cleared, err := repo.DeleteAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("clear prompts: %w", err)
		}
		res.Cleared = cleared
	}

	for _, p := range InitialPrompts() {
		if !force {
			existing, err := repo.FindActiveByName(ctx, p.Name)
			if err != nil {
				return nil, fmt.Errorf("check prompt %s: %w", p.Name, err)
			}
			if existing != nil {
				res.Skipped++
				continue
			}
		}

		if err := repo.Create(ctx, p); err != nil {
			return nil, fmt.Errorf("create prompt %s: %w", p.Name, err)
		}
		res.Created++
	}

	return res, nil
}
