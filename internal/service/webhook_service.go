package service

import (
	"context"
	"encoding/json"
	"errors"

	"forge-ai-be/internal/dto"
	"forge-ai-be/internal/pkg/logger"
)

// ErrContributionNotFound distinguishes a missing contribution from a missing
// forge at the webhook boundary.
var ErrContributionNotFound = errors.New("contribution not found")

type IWebhookService interface {
	// ProcessContribution validates the referenced contribution and enqueues
	// the pipeline run. The caller responds before the pipeline executes.
	ProcessContribution(ctx context.Context, req *dto.ProcessContributionRequest) (*dto.ProcessContributionResponse, error)
}

type webhookService struct {
	sessionService   ISessionService
	publisherService IPublisherService
	log              logger.ILogger
}

func NewWebhookService(
	sessionService ISessionService,
	publisherService IPublisherService,
	log logger.ILogger,
) IWebhookService {
	return &webhookService{
		sessionService:   sessionService,
		publisherService: publisherService,
		log:              log,
	}
}

func (s *webhookService) ProcessContribution(ctx context.Context, req *dto.ProcessContributionRequest) (*dto.ProcessContributionResponse, error) {
	state, err := s.sessionService.GetState(ctx, req.ForgeId)
	if err != nil {
		return nil, err
	}
	if state.FindContribution(req.NewContributionId) == nil {
		return nil, ErrContributionNotFound
	}

	task := dto.ProcessContributionTask{
		ForgeId:        req.ForgeId,
		ContributionId: req.NewContributionId,
	}
	payload, err := json.Marshal(task)
	if err != nil {
		return nil, err
	}
	if err := s.publisherService.Publish(ctx, payload); err != nil {
		return nil, err
	}

	s.log.Info("webhook", "contribution processing enqueued", map[string]interface{}{
		"forgeId":        req.ForgeId,
		"contributionId": req.NewContributionId,
	})

	return &dto.ProcessContributionResponse{
		Status:         "accepted",
		Message:        "Contribution processing started",
		ContributionId: req.NewContributionId,
	}, nil
}
