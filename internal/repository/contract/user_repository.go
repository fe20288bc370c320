package contract

import (
	"context"

	"sms-rental-be/internal/entity"
	"sms-rental-be/internal/repository/specification"

	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	Update(ctx context.Context, user *entity.User) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// Ledger operations. AdjustBalance applies delta as a single
	// conditional update: it fails with ErrBalanceConflict when the
	// adjustment would drive the balance negative, and reports the
	// balance after the write. SetBalance is the admin absolute
	// override.
	AdjustBalance(ctx context.Context, id uuid.UUID, delta int64) (int64, error)
	SetBalance(ctx context.Context, id uuid.UUID, balance int64) error
}
