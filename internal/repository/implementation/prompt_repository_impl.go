package implementation

import (
	"context"
	"errors"

	"forge-ai-be/internal/entity"
	"forge-ai-be/internal/mapper"
	"forge-ai-be/internal/model"
	"forge-ai-be/internal/repository/contract"
	"forge-ai-be/internal/repository/specification"

	"gorm.io/gorm"
)

type PromptRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.PromptMapper
}

func NewPromptRepository(db *gorm.DB) contract.PromptRepository {
	return &PromptRepositoryImpl{
		db:     db,
		mapper: mapper.NewPromptMapper(),
	}
}

func (r *PromptRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *PromptRepositoryImpl) findOne(ctx context.Context, specs ...specification.Specification) (*entity.Prompt, error) {
	var row model.AiPrompt
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&row)
}

func (r *PromptRepositoryImpl) FindActiveByName(ctx context.Context, name string) (*entity.Prompt, error) {
	return r.findOne(ctx,
		specification.ByName{Name: name},
		specification.ActiveOnly{},
		specification.OrderBy{Field: "version", Desc: true},
	)
}

func (r *PromptRepositoryImpl) FindByNameAndVersion(ctx context.Context, name string, version int) (*entity.Prompt, error) {
	return r.findOne(ctx,
		specification.ByName{Name: name},
		specification.ByVersion{Version: version},
	)
}

func (r *PromptRepositoryImpl) ListActive(ctx context.Context) ([]*entity.Prompt, error) {
	var rows []*model.AiPrompt
	query := r.applySpecifications(r.db.WithContext(ctx),
		specification.ActiveOnly{},
		specification.OrderBy{Field: "name", Desc: false},
		specification.OrderBy{Field: "version", Desc: true},
	)
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	// Keep only the highest version per name; rows arrive name ASC, version DESC.
	seen := map[string]bool{}
	var latest []*model.AiPrompt
	for _, row := range rows {
		if seen[row.Name] {
			continue
		}
		seen[row.Name] = true
		latest = append(latest, row)
	}

	return r.mapper.ToEntities(latest)
}

func (r *PromptRepositoryImpl) Create(ctx context.Context, prompt *entity.Prompt) error {
	row, err := r.mapper.ToModel(prompt)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return err
	}
	prompt.Id = row.Id
	prompt.CreatedAt = row.CreatedAt
	return nil
}

func (r *PromptRepositoryImpl) DeleteAll(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).Where("1 = 1").Delete(&model.AiPrompt{})
	return res.RowsAffected, res.Error
}
