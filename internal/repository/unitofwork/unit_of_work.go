package unitofwork

import (
	"context"

	"forge-ai-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	SessionRepository() contract.SessionRepository
	PromptRepository() contract.PromptRepository
}
