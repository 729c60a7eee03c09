package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"forge-ai-be/internal/dto"
	"forge-ai-be/internal/entity"
	"forge-ai-be/internal/pkg/logger"
	"forge-ai-be/internal/repository/unitofwork"
	"forge-ai-be/pkg/llm"
	"forge-ai-be/pkg/prompt"

	gocache "github.com/patrickmn/go-cache"
)

const templatePreviewLength = 200

// MissingVariablesError reports test variables absent from the request.
type MissingVariablesError struct {
	Missing []string
}

func (e *MissingVariablesError) Error() string {
	return fmt.Sprintf("missing required variables: %s", strings.Join(e.Missing, ", "))
}

type IPromptService interface {
	// ActivePrompt returns the highest active version of a named prompt, or
	// nil, nil when none exists. Results are cached briefly.
	ActivePrompt(ctx context.Context, name string) (*entity.Prompt, error)

	List(ctx context.Context) (*dto.PromptsListResponse, error)
	Detail(ctx context.Context, name string, version *int) (*dto.PromptDetailResponse, error)
	Sample(ctx context.Context, name string, version *int) (*dto.PromptSampleResponse, error)
	Test(ctx context.Context, name string, version *int, variables map[string]interface{}) (*dto.PromptTestResponse, error)
}

type promptService struct {
	uowFactory unitofwork.RepositoryFactory
	provider   llm.LLMProvider
	cache      *gocache.Cache
	log        logger.ILogger
}

func NewPromptService(
	uowFactory unitofwork.RepositoryFactory,
	provider llm.LLMProvider,
	log logger.ILogger,
) IPromptService {
	return &promptService{
		uowFactory: uowFactory,
		provider:   provider,
		cache:      gocache.New(5*time.Minute, 10*time.Minute),
		log:        log,
	}
}

func (s *promptService) ActivePrompt(ctx context.Context, name string) (*entity.Prompt, error) {
	if cached, found := s.cache.Get(name); found {
		return cached.(*entity.Prompt), nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	p, err := uow.PromptRepository().FindActiveByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if p != nil {
		s.cache.Set(name, p, gocache.DefaultExpiration)
	}
	return p, nil
}

func (s *promptService) resolve(ctx context.Context, name string, version *int) (*entity.Prompt, error) {
	if version != nil {
		uow := s.uowFactory.NewUnitOfWork(ctx)
		return uow.PromptRepository().FindByNameAndVersion(ctx, name, *version)
	}
	return s.ActivePrompt(ctx, name)
}

func (s *promptService) List(ctx context.Context) (*dto.PromptsListResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	prompts, err := uow.PromptRepository().ListActive(ctx)
	if err != nil {
		return nil, err
	}

	infos := make([]dto.PromptInfo, len(prompts))
	for i, p := range prompts {
		infos[i] = promptInfo(p)
	}

	return &dto.PromptsListResponse{
		Prompts:    infos,
		TotalCount: len(infos),
	}, nil
}

func (s *promptService) Detail(ctx context.Context, name string, version *int) (*dto.PromptDetailResponse, error) {
	p, err := s.resolve(ctx, name, version)
	if err != nil || p == nil {
		return nil, err
	}

	preview := p.Template
	if len(preview) > templatePreviewLength {
		preview = preview[:templatePreviewLength] + "..."
	}

	return &dto.PromptDetailResponse{
		Prompt:          promptInfo(p),
		TemplatePreview: preview,
		SampleVariables: sampleVariables(p.ExpectedVars),
	}, nil
}

func (s *promptService) Sample(ctx context.Context, name string, version *int) (*dto.PromptSampleResponse, error) {
	p, err := s.resolve(ctx, name, version)
	if err != nil || p == nil {
		return nil, err
	}

	samples := sampleVariables(p.ExpectedVars)
	return &dto.PromptSampleResponse{
		PromptName:      p.Name,
		PromptVersion:   p.Version,
		SampleVariables: samples,
		UsageExample: dto.PromptUsageExample{
			Curl:        fmt.Sprintf("curl -X POST /api/prompts/%s/test -H 'Content-Type: application/json' -d '{\"variables\": {...}}'", p.Name),
			Description: "Copy the sample_variables above and modify them as needed for testing",
		},
	}, nil
}

func (s *promptService) Test(ctx context.Context, name string, version *int, variables map[string]interface{}) (*dto.PromptTestResponse, error) {
	p, err := s.resolve(ctx, name, version)
	if err != nil || p == nil {
		return nil, err
	}

	if missing := missingVariables(p.Template, p.ExpectedVars, variables); len(missing) > 0 {
		return nil, &MissingVariablesError{Missing: missing}
	}

	rendered, err := prompt.Render(p.Template, variables)
	if err != nil {
		return nil, err
	}

	opts := []llm.Option{
		llm.WithModel(p.Parameters.Model),
		llm.WithTemperature(p.Parameters.Temperature),
		llm.WithMaxTokens(p.Parameters.MaxTokens),
	}
	if p.Parameters.ResponseFormat != nil && p.Parameters.ResponseFormat.Type == "json_object" {
		opts = append(opts, llm.WithJSONResponse())
	}

	start := time.Now()
	completion, err := s.provider.Chat(ctx, []llm.Message{
		{Role: "system", Content: "You are an AI assistant helping to test prompt responses."},
		{Role: "user", Content: rendered},
	}, opts...)
	if err != nil {
		return nil, err
	}

	resp := &dto.PromptTestResponse{
		PromptName:      p.Name,
		PromptVersion:   p.Version,
		RenderedPrompt:  rendered,
		ModelResponse:   strings.TrimSpace(completion.Text),
		ExecutionTimeMs: time.Since(start).Milliseconds(),
		ModelUsed:       p.Parameters.Model,
	}
	if completion.TokensUsed > 0 {
		tokens := completion.TokensUsed
		resp.TokensUsed = &tokens
	}

	s.log.Info("prompt", "prompt tested", map[string]interface{}{
		"name":            p.Name,
		"version":         p.Version,
		"executionTimeMs": resp.ExecutionTimeMs,
	})
	return resp, nil
}

func promptInfo(p *entity.Prompt) dto.PromptInfo {
	return dto.PromptInfo{
		Name:               p.Name,
		Version:            p.Version,
		Description:        p.Description,
		ExpectedVars:       p.ExpectedVars,
		Parameters:         p.Parameters,
		AssertivenessLevel: p.AssertivenessLevel,
	}
}

// missingVariables checks the expected list plus any nested keys the template
// subscripts, e.g. {{ role['name'] }} requires variables["role"]["name"].
func missingVariables(template string, expectedVars []string, provided map[string]interface{}) []string {
	var missing []string
	for _, name := range expectedVars {
		value, ok := provided[name]
		if !ok {
			missing = append(missing, name)
			continue
		}

		nested, ok := value.(map[string]interface{})
		if !ok {
			continue
		}
		pattern := regexp.MustCompile(`\{\{\s*` + regexp.QuoteMeta(name) + `\['([^']+)'\]\s*\}\}`)
		for _, match := range pattern.FindAllStringSubmatch(template, -1) {
			if _, ok := nested[match[1]]; !ok {
				missing = append(missing, fmt.Sprintf("%s['%s']", name, match[1]))
			}
		}
	}
	return missing
}

func sampleVariables(expectedVars []string) map[string]string {
	samples := make(map[string]string, len(expectedVars))
	for _, name := range expectedVars {
		switch name {
		case "goal":
			samples[name] = "Build a mobile app for task management"
		case "latest_contribution_text":
			samples[name] = "I think we should use React Native for cross-platform compatibility"
		case "roles_text":
			samples[name] = "John Doe (Senior Developer), Jane Smith (UI/UX Designer), Bob Wilson (Project Manager)"
		case "contributions_text":
			samples[name] = "John: We need to decide on the tech stack\nJane: I suggest focusing on user experience first\nBob: Let's align on timeline and priorities"
		case "role":
			samples[name] = "{'name': 'John Doe', 'title': 'Senior Developer'}"
		case "current_briefing":
			samples[name] = "You're responsible for the technical architecture decisions. The team is currently discussing framework options."
		case "synthesis":
			samples[name] = "The team has agreed on React Native for mobile development and is now discussing state management approaches."
		case "chat_history_text":
			samples[name] = "John: What about Redux for state management?\nJane: I prefer Zustand for its simplicity\nBob: Both are good options, let's prototype with both"
		default:
			samples[name] = "Sample value for " + name
		}
	}
	return samples
}
