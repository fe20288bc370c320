package contract

import (
	"context"

	"sms-rental-be/internal/entity"
	"sms-rental-be/internal/repository/specification"
)

type SystemLogRepository interface {
	Create(ctx context.Context, log *entity.SystemLog) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.SystemLog, error)
}
