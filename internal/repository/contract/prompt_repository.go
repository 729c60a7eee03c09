package contract

import (
	"context"

	"forge-ai-be/internal/entity"
)

type PromptRepository interface {
	// FindActiveByName returns the highest active version, or nil, nil.
	FindActiveByName(ctx context.Context, name string) (*entity.Prompt, error)

	// FindByNameAndVersion pins an exact version regardless of status.
	FindByNameAndVersion(ctx context.Context, name string, version int) (*entity.Prompt, error)

	// ListActive returns the latest active version of every prompt name.
	ListActive(ctx context.Context) ([]*entity.Prompt, error)

	Create(ctx context.Context, prompt *entity.Prompt) error

	// DeleteAll clears the collection (force re-seed only).
	DeleteAll(ctx context.Context) (int64, error)
}
