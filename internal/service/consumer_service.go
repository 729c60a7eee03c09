package service

import (
	"context"
	"encoding/json"
	"errors"

	"forge-ai-be/internal/dto"
	"forge-ai-be/internal/pkg/logger"
	"forge-ai-be/pkg/ai/pipeline"
	"forge-ai-be/pkg/ai/triage"
	"forge-ai-be/pkg/events"
	pkgNats "forge-ai-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub         *gochannel.GoChannel
	topicName      string
	sessionService ISessionService
	classifier     *triage.Classifier
	executor       *pipeline.Executor
	eventPublisher *pkgNats.Publisher
	log            logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	sessionService ISessionService,
	classifier *triage.Classifier,
	executor *pipeline.Executor,
	eventPublisher *pkgNats.Publisher,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:         pubSub,
		topicName:      topicName,
		sessionService: sessionService,
		classifier:     classifier,
		executor:       executor,
		eventPublisher: eventPublisher,
		log:            log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

// processMessage runs one pipeline pass: triage, then exactly one action.
// Every message is acked; the pipeline never retries a failed run, the
// contribution itself stays logged either way.
func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	defer msg.Ack()

	var task dto.ProcessContributionTask
	if err := json.Unmarshal(msg.Payload, &task); err != nil {
		cs.log.Error("consumer", "failed to unmarshal task", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	cs.log.Info("consumer", "processing contribution", map[string]interface{}{
		"forgeId":        task.ForgeId,
		"contributionId": task.ContributionId,
	})

	state, err := cs.sessionService.GetState(ctx, task.ForgeId)
	if err != nil {
		cs.log.Error("consumer", "failed to load forge state", map[string]interface{}{
			"forgeId": task.ForgeId,
			"error":   err.Error(),
		})
		return
	}

	contribution := state.FindContribution(task.ContributionId)
	if contribution == nil {
		cs.log.Error("consumer", "contribution not found", map[string]interface{}{
			"forgeId":        task.ForgeId,
			"contributionId": task.ContributionId,
		})
		return
	}

	action, err := cs.classifier.Classify(ctx, state.Goal, contribution.Text)
	if err != nil {
		var parseErr *triage.ParseError
		if errors.As(err, &parseErr) {
			// Unparsable classifier output degrades to LOG_ONLY.
			cs.log.Warn("consumer", "triage output unparsable, logging only", map[string]interface{}{
				"contributionId": task.ContributionId,
				"raw":            parseErr.Raw,
			})
		} else {
			cs.log.Error("consumer", "triage failed", map[string]interface{}{
				"contributionId": task.ContributionId,
				"error":          err.Error(),
			})
			return
		}
	}

	cs.log.Info("consumer", "triage decision", map[string]interface{}{
		"contributionId": task.ContributionId,
		"action":         string(action),
	})

	if err := cs.executor.Execute(ctx, task.ForgeId, action, state, contribution); err != nil {
		cs.log.Error("consumer", "action execution failed", map[string]interface{}{
			"forgeId":        task.ForgeId,
			"contributionId": task.ContributionId,
			"action":         string(action),
			"error":          err.Error(),
		})
		return
	}

	if cs.eventPublisher != nil {
		evt := events.ContributionProcessed(task.ForgeId, task.ContributionId, string(action))
		if err := cs.eventPublisher.Publish(ctx, evt); err != nil {
			cs.log.Warn("consumer", "failed to publish processed event", map[string]interface{}{
				"contributionId": task.ContributionId,
				"error":          err.Error(),
			})
		}
	}
}
