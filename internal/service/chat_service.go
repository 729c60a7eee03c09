package service

import (
	"context"
	"fmt"

	"forge-ai-be/internal/dto"
	"forge-ai-be/internal/entity"
	"forge-ai-be/internal/pkg/logger"
	"forge-ai-be/pkg/ai/pipeline"
)

type IChatService interface {
	// Handle stores a chat message and, for questions, generates an AI reply.
	// Returns nil, nil when the role does not exist.
	Handle(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error)
}

type chatService struct {
	sessionService ISessionService
	executor       *pipeline.Executor
	log            logger.ILogger
}

func NewChatService(
	sessionService ISessionService,
	executor *pipeline.Executor,
	log logger.ILogger,
) IChatService {
	return &chatService{
		sessionService: sessionService,
		executor:       executor,
		log:            log,
	}
}

func (s *chatService) Handle(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	s.log.Info("chat", "processing chat message", map[string]interface{}{
		"forgeId":    req.ForgeId,
		"roleId":     req.RoleId,
		"isQuestion": req.IsQuestion,
	})

	state, err := s.sessionService.GetState(ctx, req.ForgeId)
	if err != nil {
		return nil, err
	}
	if state.FindRole(req.RoleId) == nil {
		return nil, nil
	}

	if _, err := s.sessionService.AppendChatMessage(ctx, req.ForgeId, req.RoleId, entity.ChatAuthorUser, req.Message); err != nil {
		return nil, fmt.Errorf("save chat message: %w", err)
	}

	var aiResponse *string
	if req.IsQuestion {
		// Re-read so the prompt context includes the message just stored.
		state, err = s.sessionService.GetState(ctx, req.ForgeId)
		if err != nil {
			return nil, err
		}
		role := state.FindRole(req.RoleId)
		if role == nil {
			return nil, nil
		}

		answer, err := s.executor.GenerateDirectAnswer(ctx, state, role)
		if err != nil {
			// Question flow degrades to message-only: the user message is
			// stored, no AI reply is produced.
			s.log.Error("chat", "direct answer generation failed", map[string]interface{}{
				"forgeId": req.ForgeId,
				"roleId":  req.RoleId,
				"error":   err.Error(),
			})
		} else {
			aiResponse = &answer
			if _, err := s.sessionService.AppendChatMessage(ctx, req.ForgeId, req.RoleId, entity.ChatAuthorAI, answer); err != nil {
				s.log.Warn("chat", "failed to store ai reply", map[string]interface{}{
					"forgeId": req.ForgeId,
					"error":   err.Error(),
				})
			}
		}
	}

	// Every chat lands in the contribution log so later syntheses see it.
	contributionText := req.Message
	if req.IsQuestion && aiResponse != nil {
		contributionText = fmt.Sprintf("Question: %s\n\nAI Facilitator Response: %s", req.Message, *aiResponse)
	}
	if _, err := s.sessionService.AddContribution(ctx, req.ForgeId, req.RoleId, contributionText); err != nil {
		s.log.Warn("chat", "failed to add contribution", map[string]interface{}{
			"forgeId": req.ForgeId,
			"error":   err.Error(),
		})
	}

	return &dto.ChatResponse{
		Success:    true,
		Message:    "Chat message processed successfully",
		AiResponse: aiResponse,
	}, nil
}
