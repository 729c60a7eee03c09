package implementation

import (
	"context"
	"errors"

	"forge-ai-be/internal/entity"
	"forge-ai-be/internal/mapper"
	"forge-ai-be/internal/model"
	"forge-ai-be/internal/repository/contract"

	"gorm.io/gorm"
)

type SessionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SessionMapper
}

func NewSessionRepository(db *gorm.DB) contract.SessionRepository {
	return &SessionRepositoryImpl{
		db:     db,
		mapper: mapper.NewSessionMapper(),
	}
}

func (r *SessionRepositoryImpl) FindByForgeId(ctx context.Context, forgeId string) (*entity.Session, error) {
	var row model.ForgeSession
	if err := r.db.WithContext(ctx).First(&row, "forge_id = ?", forgeId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&row)
}

func (r *SessionRepositoryImpl) Create(ctx context.Context, forgeId string, session *entity.Session) error {
	session.Version = 0
	row, err := r.mapper.ToModel(forgeId, session)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *SessionRepositoryImpl) Save(ctx context.Context, forgeId string, session *entity.Session) error {
	row, err := r.mapper.ToModel(forgeId, session)
	if err != nil {
		return err
	}

	res := r.db.WithContext(ctx).
		Model(&model.ForgeSession{}).
		Where("forge_id = ? AND version = ?", forgeId, session.Version).
		Updates(map[string]interface{}{
			"document": row.Document,
			"version":  session.Version + 1,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return contract.ErrVersionConflict
	}

	session.Version++
	return nil
}

func (r *SessionRepositoryImpl) Replace(ctx context.Context, forgeId string, session *entity.Session) error {
	row, err := r.mapper.ToModel(forgeId, session)
	if err != nil {
		return err
	}

	// Unconditional overwrite: bump version past whatever is stored so that
	// concurrent conditional saves lose.
	res := r.db.WithContext(ctx).
		Model(&model.ForgeSession{}).
		Where("forge_id = ?", forgeId).
		Updates(map[string]interface{}{
			"document": row.Document,
			"version":  gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return r.Create(ctx, forgeId, session)
	}
	return nil
}
