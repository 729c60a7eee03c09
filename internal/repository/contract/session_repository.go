package contract

import (
	"context"
	"errors"

	"forge-ai-be/internal/entity"
)

// ErrVersionConflict is returned by Save when the document changed underneath
// the caller. Callers re-read, re-apply, and retry.
var ErrVersionConflict = errors.New("session version conflict")

type SessionRepository interface {
	// FindByForgeId returns nil, nil when no document exists yet.
	FindByForgeId(ctx context.Context, forgeId string) (*entity.Session, error)

	// Create inserts the document with version 0.
	Create(ctx context.Context, forgeId string, session *entity.Session) error

	// Save replaces the whole document iff the stored version still matches
	// session.Version; on success the entity's version is bumped in place.
	Save(ctx context.Context, forgeId string, session *entity.Session) error

	// Replace overwrites the document unconditionally (used by reset).
	Replace(ctx context.Context, forgeId string, session *entity.Session) error
}
