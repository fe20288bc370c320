package implementation

import (
	"context"
	"errors"
	"time"

	"sms-rental-be/internal/entity"
	"sms-rental-be/internal/mapper"
	"sms-rental-be/internal/model"
	"sms-rental-be/internal/repository/contract"
	"sms-rental-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ActivationRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ActivationMapper
}

func NewActivationRepository(db *gorm.DB) contract.ActivationRepository {
	return &ActivationRepositoryImpl{
		db:     db,
		mapper: mapper.NewActivationMapper(),
	}
}

func (r *ActivationRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ActivationRepositoryImpl) Create(ctx context.Context, activation *entity.Activation) error {
	m := r.mapper.ToModel(activation)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*activation = *r.mapper.ToEntity(m)
	return nil
}

func (r *ActivationRepositoryImpl) Update(ctx context.Context, activation *entity.Activation) error {
	m := r.mapper.ToModel(activation)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*activation = *r.mapper.ToEntity(m)
	return nil
}

func (r *ActivationRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Activation, error) {
	var m model.Activation
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return r.mapper.ToEntity(&m), nil
}

func (r *ActivationRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Activation, error) {
	var models []*model.Activation
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	return r.mapper.ToEntities(models), nil
}

func (r *ActivationRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Activation{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// MarkCompleted guards on status so a record can only leave pending
// once; a concurrent cancel that won the race leaves RowsAffected at 0.
func (r *ActivationRepositoryImpl) MarkCompleted(ctx context.Context, id uuid.UUID, smsCode string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Activation{}).
		Where("id = ? AND status = ?", id, string(entity.ActivationStatusPending)).
		Updates(map[string]interface{}{
			"status":     string(entity.ActivationStatusCompleted),
			"sms_code":   smsCode,
			"is_active":  false,
			"updated_at": time.Now(),
		})
	return res.RowsAffected, res.Error
}

func (r *ActivationRepositoryImpl) MarkCancelled(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Activation{}).
		Where("id = ? AND status = ?", id, string(entity.ActivationStatusPending)).
		Updates(map[string]interface{}{
			"status":     string(entity.ActivationStatusCancelled),
			"is_active":  false,
			"updated_at": time.Now(),
		})
	return res.RowsAffected, res.Error
}
