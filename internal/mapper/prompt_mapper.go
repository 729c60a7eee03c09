package mapper

import (
	"encoding/json"
	"fmt"

	"forge-ai-be/internal/entity"
	"forge-ai-be/internal/model"
)

type PromptMapper struct{}

func NewPromptMapper() *PromptMapper {
	return &PromptMapper{}
}

func (m *PromptMapper) ToEntity(p *model.AiPrompt) (*entity.Prompt, error) {
	if p == nil {
		return nil, nil
	}

	var params entity.PromptParameters
	if err := json.Unmarshal(p.Parameters, &params); err != nil {
		return nil, fmt.Errorf("decode parameters for prompt %s v%d: %w", p.Name, p.Version, err)
	}

	var expectedVars []string
	if err := json.Unmarshal(p.ExpectedVars, &expectedVars); err != nil {
		return nil, fmt.Errorf("decode expected vars for prompt %s v%d: %w", p.Name, p.Version, err)
	}

	return &entity.Prompt{
		Id:                 p.Id,
		Name:               p.Name,
		Version:            p.Version,
		Status:             p.Status,
		Description:        p.Description,
		Parameters:         params,
		ExpectedVars:       expectedVars,
		Template:           p.Template,
		AssertivenessLevel: p.AssertivenessLevel,
		CreatedAt:          p.CreatedAt,
	}, nil
}

func (m *PromptMapper) ToModel(p *entity.Prompt) (*model.AiPrompt, error) {
	if p == nil {
		return nil, nil
	}

	params, err := json.Marshal(p.Parameters)
	if err != nil {
		return nil, fmt.Errorf("encode parameters for prompt %s: %w", p.Name, err)
	}
	expectedVars, err := json.Marshal(p.ExpectedVars)
	if err != nil {
		return nil, fmt.Errorf("encode expected vars for prompt %s: %w", p.Name, err)
	}

	return &model.AiPrompt{
		Id:                 p.Id,
		Name:               p.Name,
		Version:            p.Version,
		Status:             p.Status,
		Description:        p.Description,
		Parameters:         params,
		ExpectedVars:       expectedVars,
		Template:           p.Template,
		AssertivenessLevel: p.AssertivenessLevel,
		CreatedAt:          p.CreatedAt,
	}, nil
}

func (m *PromptMapper) ToEntities(prompts []*model.AiPrompt) ([]*entity.Prompt, error) {
	entities := make([]*entity.Prompt, 0, len(prompts))
	for _, p := range prompts {
		e, err := m.ToEntity(p)
		if err != nil {
			return nil, err
		}
		entities = append(entities, e)
	}
	return entities, nil
}
