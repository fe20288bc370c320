package contract

import (
	"context"

	"sms-rental-be/internal/entity"
	"sms-rental-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ActivationRepository interface {
	Create(ctx context.Context, activation *entity.Activation) error
	Update(ctx context.Context, activation *entity.Activation) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Activation, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Activation, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// MarkCompleted and MarkCancelled flip a pending record to its
	// terminal state. Both return the number of rows changed so the
	// caller can detect a lost race against another transition.
	MarkCompleted(ctx context.Context, id uuid.UUID, smsCode string) (int64, error)
	MarkCancelled(ctx context.Context, id uuid.UUID) (int64, error)
}
