package seed

import (
	"context"
	"testing"

	"forge-ai-be/internal/entity"
)

type fakePromptRepository struct {
	prompts []*entity.Prompt
}

func (r *fakePromptRepository) FindActiveByName(ctx context.Context, name string) (*entity.Prompt, error) {
	for _, p := range r.prompts {
		if p.Name == name && p.Status == entity.PromptStatusActive {
			return p, nil
		}
	}
	return nil, nil
}

func (r *fakePromptRepository) FindByNameAndVersion(ctx context.Context, name string, version int) (*entity.Prompt, error) {
	for _, p := range r.prompts {
		if p.Name == name && p.Version == version {
			return p, nil
		}
	}
	return nil, nil
}

func (r *fakePromptRepository) ListActive(ctx context.Context) ([]*entity.Prompt, error) {
	return r.prompts, nil
}

func (r *fakePromptRepository) Create(ctx context.Context, prompt *entity.Prompt) error {
	r.prompts = append(r.prompts, prompt)
	return nil
}

func (r *fakePromptRepository) DeleteAll(ctx context.Context) (int64, error) {
	n := int64(len(r.prompts))
	r.prompts = nil
	return n, nil
}

func TestRunSeedsAllPrompts(t *testing.T) {
	repo := &fakePromptRepository{}

	res, err := Run(context.Background(), repo, false)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.Created != 3 || res.Skipped != 0 {
		t.Errorf("result = %+v, want 3 created", res)
	}

	for _, name := range []string{
		entity.PromptTriageAgent,
		entity.PromptDirectResponseAgent,
		entity.PromptSynthesisFacilitator,
	} {
		p, _ := repo.FindActiveByName(context.Background(), name)
		if p == nil {
			t.Errorf("prompt %s not seeded", name)
			continue
		}
		if p.Version != 1 || p.Status != entity.PromptStatusActive {
			t.Errorf("prompt %s = v%d/%s, want v1/active", name, p.Version, p.Status)
		}
	}
}

func TestRunIsIdempotent(t *testing.T) {
	repo := &fakePromptRepository{}

	if _, err := Run(context.Background(), repo, false); err != nil {
		t.Fatalf("first Run() error = %v", err)
	}

	res, err := Run(context.Background(), repo, false)
	if err != nil {
		t.Fatalf("second Run() error = %v", err)
	}
	if res.Created != 0 || res.Skipped != 3 {
		t.Errorf("second run = %+v, want all skipped", res)
	}
	if len(repo.prompts) != 3 {
		t.Errorf("prompts = %d, want 3 (no duplicates)", len(repo.prompts))
	}
}

func TestRunForceClearsAndRecreates(t *testing.T) {
	repo := &fakePromptRepository{}

	if _, err := Run(context.Background(), repo, false); err != nil {
		t.Fatalf("first Run() error = %v", err)
	}

	res, err := Run(context.Background(), repo, true)
	if err != nil {
		t.Fatalf("force Run() error = %v", err)
	}
	if res.Cleared != 3 || res.Created != 3 || res.Skipped != 0 {
		t.Errorf("force run = %+v", res)
	}
	if len(repo.prompts) != 3 {
		t.Errorf("prompts = %d, want 3", len(repo.prompts))
	}
}

func TestInitialPromptsShape(t *testing.T) {
	prompts := InitialPrompts()
	if len(prompts) != 3 {
		t.Fatalf("prompts = %d, want 3", len(prompts))
	}

	triagePrompt := prompts[0]
	if triagePrompt.Parameters.ResponseFormat == nil || triagePrompt.Parameters.ResponseFormat.Type != "json_object" {
		t.Error("triage prompt must request json_object responses")
	}
	if len(triagePrompt.ExpectedVars) != 2 {
		t.Errorf("triage expected vars = %v", triagePrompt.ExpectedVars)
	}

	directPrompt := prompts[1]
	if directPrompt.Parameters.ResponseFormat != nil {
		t.Error("direct response prompt is free text, no response format")
	}

	synthesisPrompt := prompts[2]
	if synthesisPrompt.AssertivenessLevel == nil || *synthesisPrompt.AssertivenessLevel != 2 {
		t.Error("synthesis prompt must carry assertiveness level 2")
	}
}
