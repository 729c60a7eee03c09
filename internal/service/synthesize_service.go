package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"forge-ai-be/internal/dto"
	"forge-ai-be/internal/entity"
	"forge-ai-be/internal/pkg/logger"
	"forge-ai-be/pkg/ai/pipeline"
)

// ErrNoContributions is reported when a synthesis is requested for an empty
// conversation.
var ErrNoContributions = errors.New("no contributions found to synthesize")

type ISynthesizeService interface {
	Synthesize(ctx context.Context, forgeId string) (*dto.SynthesizeResponse, error)
}

type synthesizeService struct {
	sessionService ISessionService
	executor       *pipeline.Executor
	log            logger.ILogger
}

func NewSynthesizeService(
	sessionService ISessionService,
	executor *pipeline.Executor,
	log logger.ILogger,
) ISynthesizeService {
	return &synthesizeService{
		sessionService: sessionService,
		executor:       executor,
		log:            log,
	}
}

func (s *synthesizeService) Synthesize(ctx context.Context, forgeId string) (*dto.SynthesizeResponse, error) {
	s.log.Info("synthesize", "starting synthesis", map[string]interface{}{"forgeId": forgeId})

	state, err := s.sessionService.GetState(ctx, forgeId)
	if err != nil {
		return nil, err
	}
	if len(state.Contributions) == 0 {
		return nil, ErrNoContributions
	}

	result, err := s.executor.Synthesize(ctx, state)
	if err != nil {
		return nil, err
	}

	sourceIds := make([]string, len(state.Contributions))
	for i, c := range state.Contributions {
		sourceIds[i] = c.Id
	}

	synthesis := entity.Synthesis{
		Id:                  uuid.NewString(),
		Content:             result.OverallContext,
		Timestamp:           time.Now().UTC(),
		SourceContributions: sourceIds,
	}
	briefings := s.executor.BuildBriefings(state.Roles, result)

	if err := s.sessionService.AppendSynthesis(ctx, forgeId, synthesis, briefings); err != nil {
		return nil, err
	}

	s.log.Info("synthesize", "synthesis completed", map[string]interface{}{
		"forgeId":     forgeId,
		"synthesisId": synthesis.Id,
	})

	return &dto.SynthesizeResponse{
		Success:     true,
		Message:     "Synthesis completed successfully",
		SynthesisId: synthesis.Id,
	}, nil
}
