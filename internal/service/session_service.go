package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"forge-ai-be/internal/entity"
	"forge-ai-be/internal/pkg/logger"
	"forge-ai-be/internal/repository/contract"
	"forge-ai-be/internal/repository/unitofwork"
	"forge-ai-be/pkg/events"
	pkgNats "forge-ai-be/pkg/nats"

	"github.com/redis/go-redis/v9"
)

// saveRetries bounds the optimistic concurrency retry loop. Conflicts are
// rare (two contributions racing on one forge), so a short loop suffices.
const saveRetries = 3

// stateCacheTTL keeps the polling read path off the database between writes.
const stateCacheTTL = 2 * time.Second

type ISessionService interface {
	// GetState returns the forge document, creating the default one on first
	// access. Storage read failures degrade to the in-memory default.
	GetState(ctx context.Context, forgeId string) (*entity.Session, error)

	// Reset overwrites the document with the default state.
	Reset(ctx context.Context, forgeId string) (*entity.Session, error)

	AddContribution(ctx context.Context, forgeId, roleId, text string) (*entity.Contribution, error)
	AppendChatMessage(ctx context.Context, forgeId, roleId, author, content string) (*entity.ChatMessage, error)
	AppendSynthesis(ctx context.Context, forgeId string, synthesis entity.Synthesis, briefings []entity.Briefing) error
}

type sessionService struct {
	uowFactory     unitofwork.RepositoryFactory
	cache          *redis.Client
	eventPublisher *pkgNats.Publisher
	log            logger.ILogger
}

func NewSessionService(
	uowFactory unitofwork.RepositoryFactory,
	cache *redis.Client,
	eventPublisher *pkgNats.Publisher,
	log logger.ILogger,
) ISessionService {
	return &sessionService{
		uowFactory:     uowFactory,
		cache:          cache,
		eventPublisher: eventPublisher,
		log:            log,
	}
}

func cacheKey(forgeId string) string {
	return "forge:state:" + forgeId
}

func (s *sessionService) GetState(ctx context.Context, forgeId string) (*entity.Session, error) {
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, cacheKey(forgeId)).Bytes(); err == nil {
			var cached entity.Session
			if err := json.Unmarshal(raw, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	session, err := s.loadOrCreate(ctx, forgeId)
	if err != nil {
		// Read path degrades to the default document instead of failing the
		// poll. Writes against this fallback will fail loudly later.
		s.log.Error("session", "state read failed, serving default", map[string]interface{}{
			"forgeId": forgeId,
			"error":   err.Error(),
		})
		return entity.NewDefaultSession(), nil
	}

	s.cacheState(ctx, forgeId, session)
	return session, nil
}

func (s *sessionService) Reset(ctx context.Context, forgeId string) (*entity.Session, error) {
	session := entity.NewDefaultSession()

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.SessionRepository().Replace(ctx, forgeId, session); err != nil {
		return nil, err
	}

	s.invalidate(ctx, forgeId)
	s.log.Info("session", "forge state reset", map[string]interface{}{"forgeId": forgeId})
	return session, nil
}

func (s *sessionService) AddContribution(ctx context.Context, forgeId, roleId, text string) (*entity.Contribution, error) {
	var created *entity.Contribution
	err := s.mutate(ctx, forgeId, func(session *entity.Session) error {
		contribution, err := session.AddContribution(roleId, text)
		if err != nil {
			return err
		}
		created = contribution
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *sessionService) AppendChatMessage(ctx context.Context, forgeId, roleId, author, content string) (*entity.ChatMessage, error) {
	var created *entity.ChatMessage
	err := s.mutate(ctx, forgeId, func(session *entity.Session) error {
		if session.FindRole(roleId) == nil {
			return fmt.Errorf("role %s not found", roleId)
		}
		_, msg := session.AppendChatMessage(roleId, author, content)
		created = msg
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *sessionService) AppendSynthesis(ctx context.Context, forgeId string, synthesis entity.Synthesis, briefings []entity.Briefing) error {
	err := s.mutate(ctx, forgeId, func(session *entity.Session) error {
		session.AppendSynthesis(synthesis, briefings)
		return nil
	})
	if err != nil {
		return err
	}

	if s.eventPublisher != nil {
		evt := events.SynthesisCreated(forgeId, synthesis.Id, len(briefings))
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.log.Warn("session", "failed to publish synthesis event", map[string]interface{}{
				"forgeId": forgeId,
				"error":   err.Error(),
			})
		}
	}
	return nil
}

// mutate runs a read-modify-write cycle with a conditional save. A version
// conflict means another writer landed between our read and write; the
// mutation is re-applied against the fresh document.
func (s *sessionService) mutate(ctx context.Context, forgeId string, apply func(*entity.Session) error) error {
	var lastErr error
	for attempt := 0; attempt < saveRetries; attempt++ {
		session, err := s.loadOrCreate(ctx, forgeId)
		if err != nil {
			return err
		}

		if err := apply(session); err != nil {
			return err
		}

		uow := s.uowFactory.NewUnitOfWork(ctx)
		err = uow.SessionRepository().Save(ctx, forgeId, session)
		if err == nil {
			s.invalidate(ctx, forgeId)
			return nil
		}
		if err != contract.ErrVersionConflict {
			return err
		}

		lastErr = err
		s.log.Warn("session", "version conflict, retrying mutation", map[string]interface{}{
			"forgeId": forgeId,
			"attempt": attempt + 1,
		})
	}
	return fmt.Errorf("session mutation failed after %d attempts: %w", saveRetries, lastErr)
}

func (s *sessionService) loadOrCreate(ctx context.Context, forgeId string) (*entity.Session, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.SessionRepository()

	session, err := repo.FindByForgeId(ctx, forgeId)
	if err != nil {
		return nil, err
	}
	if session != nil {
		return session, nil
	}

	session = entity.NewDefaultSession()
	if err := repo.Create(ctx, forgeId, session); err != nil {
		// A concurrent first access may have created the row already.
		if existing, readErr := repo.FindByForgeId(ctx, forgeId); readErr == nil && existing != nil {
			return existing, nil
		}
		return nil, err
	}
	return session, nil
}

func (s *sessionService) cacheState(ctx context.Context, forgeId string, session *entity.Session) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(session)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, cacheKey(forgeId), raw, stateCacheTTL).Err(); err != nil {
		s.log.Debug("session", "state cache write failed", map[string]interface{}{
			"forgeId": forgeId,
			"error":   err.Error(),
		})
	}
}

func (s *sessionService) invalidate(ctx context.Context, forgeId string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, cacheKey(forgeId)).Err(); err != nil {
		s.log.Debug("session", "state cache invalidation failed", map[string]interface{}{
			"forgeId": forgeId,
			"error":   err.Error(),
		})
	}
}
