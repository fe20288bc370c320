package service

import (
	"context"
	"errors"
	"time"

	"sms-rental-be/internal/dto"
	"sms-rental-be/internal/entity"
	"sms-rental-be/internal/repository/contract"
	"sms-rental-be/internal/repository/specification"
	"sms-rental-be/internal/repository/unitofwork"
	"sms-rental-be/pkg/events"
	pktNats "sms-rental-be/pkg/nats"
)

type IUserService interface {
	// GetOrCreate resolves the local account for an identity-provider
	// subject, provisioning it with the default balance on first
	// access.
	GetOrCreate(ctx context.Context, principal dto.AuthPrincipal) (*entity.User, error)
	GetBalance(ctx context.Context, principal dto.AuthPrincipal) (*dto.BalanceResponse, error)
	GetProfile(ctx context.Context, principal dto.AuthPrincipal) (*dto.ProfileResponse, error)
}

type userService struct {
	uowFactory          unitofwork.RepositoryFactory
	eventPublisher      *pktNats.Publisher
	defaultBalance      int64
	lowBalanceThreshold int64
}

func NewUserService(
	uowFactory unitofwork.RepositoryFactory,
	eventPublisher *pktNats.Publisher,
	defaultBalance int64,
	lowBalanceThreshold int64,
) IUserService {
	return &userService{
		uowFactory:          uowFactory,
		eventPublisher:      eventPublisher,
		defaultBalance:      defaultBalance,
		lowBalanceThreshold: lowBalanceThreshold,
	}
}

func (s *userService) GetOrCreate(ctx context.Context, principal dto.AuthPrincipal) (*entity.User, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.BySubject{SubjectId: principal.SubjectId})
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}

	user = &entity.User{
		SubjectId: principal.SubjectId,
		Email:     principal.Email,
		Role:      entity.UserRoleUser,
		Balance:   s.defaultBalance,
	}
	if err := uow.UserRepository().Create(ctx, user); err != nil {
		// Two first requests can race the insert; the unique index on
		// subject_id makes one of them lose. Re-read in that case.
		existing, findErr := uow.UserRepository().FindOne(ctx, specification.BySubject{SubjectId: principal.SubjectId})
		if findErr == nil && existing != nil {
			return existing, nil
		}
		return nil, err
	}

	if s.eventPublisher != nil {
		evt := events.BaseEvent{
			Type: events.TypeUserProvisioned,
			Data: map[string]interface{}{
				"user_id":     user.Id,
				"subject_id":  user.SubjectId,
				"email":       user.Email,
				"balance":     user.Balance,
				"occurred_at": time.Now(),
			},
			OccurredAt: time.Now(),
		}
		_ = s.eventPublisher.Publish(ctx, evt)
	}

	return user, nil
}

func (s *userService) GetBalance(ctx context.Context, principal dto.AuthPrincipal) (*dto.BalanceResponse, error) {
	user, err := s.GetOrCreate(ctx, principal)
	if err != nil {
		return nil, err
	}
	return &dto.BalanceResponse{
		Balance:    user.Balance,
		LowBalance: user.Balance < s.lowBalanceThreshold,
	}, nil
}

func (s *userService) GetProfile(ctx context.Context, principal dto.AuthPrincipal) (*dto.ProfileResponse, error) {
	user, err := s.GetOrCreate(ctx, principal)
	if err != nil {
		return nil, err
	}
	return &dto.ProfileResponse{
		Id:        user.Id,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Balance:   user.Balance,
		CreatedAt: user.CreatedAt,
	}, nil
}

// creditBalance is shared by the refund path. A credit can only fail on
// a missing row, reported as ErrUserNotFound.
func creditBalance(ctx context.Context, uow unitofwork.UnitOfWork, user *entity.User, amount int64) (int64, error) {
	newBalance, err := uow.UserRepository().AdjustBalance(ctx, user.Id, amount)
	if err != nil {
		if errors.Is(err, contract.ErrBalanceConflict) {
			return 0, ErrUserNotFound
		}
		return 0, err
	}
	return newBalance, nil
}
