package unitofwork

import (
	"context"

	"sms-rental-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	ActivationRepository() contract.ActivationRepository
	SystemLogRepository() contract.SystemLogRepository
}
