package service

import (
	"context"
	"errors"
	"time"

	"sms-rental-be/internal/dto"
	"sms-rental-be/internal/entity"
	"sms-rental-be/internal/pkg/logger"
	"sms-rental-be/internal/repository/contract"
	"sms-rental-be/internal/repository/specification"
	"sms-rental-be/internal/repository/unitofwork"
	"sms-rental-be/pkg/events"
	pktNats "sms-rental-be/pkg/nats"
)

type IAdminService interface {
	ListUsers(ctx context.Context, page, pageSize int) ([]*dto.AdminUserResponse, error)
	SearchUsers(ctx context.Context, emailFragment string) ([]*dto.AdminUserResponse, error)
	// ManageBalance applies a relative credit or debit; a debit that
	// would drive the balance negative fails with
	// ErrInsufficientBalance.
	ManageBalance(ctx context.Context, req *dto.ManageBalanceRequest) (*dto.ManageBalanceResponse, error)
	// SetBalance overwrites the balance outright.
	SetBalance(ctx context.Context, req *dto.SetBalanceRequest) (*dto.ManageBalanceResponse, error)
	GetLogs(ctx context.Context, level string, limit, offset int) ([]logger.LogEntry, error)
}

type adminService struct {
	uowFactory     unitofwork.RepositoryFactory
	eventPublisher *pktNats.Publisher
	logger         logger.ILogger
}

func NewAdminService(
	uowFactory unitofwork.RepositoryFactory,
	eventPublisher *pktNats.Publisher,
	logger logger.ILogger,
) IAdminService {
	return &adminService{
		uowFactory:     uowFactory,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

func (s *adminService) ListUsers(ctx context.Context, page, pageSize int) ([]*dto.AdminUserResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 200 {
		pageSize = 50
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	users, err := uow.UserRepository().FindAll(ctx,
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: pageSize, Offset: (page - 1) * pageSize},
	)
	if err != nil {
		return nil, err
	}
	return toAdminUserResponses(users), nil
}

func (s *adminService) SearchUsers(ctx context.Context, emailFragment string) ([]*dto.AdminUserResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	users, err := uow.UserRepository().FindAll(ctx,
		specification.EmailContains{Fragment: emailFragment},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: 50, Offset: 0},
	)
	if err != nil {
		return nil, err
	}
	return toAdminUserResponses(users), nil
}

func (s *adminService) ManageBalance(ctx context.Context, req *dto.ManageBalanceRequest) (*dto.ManageBalanceResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	delta := req.Amount
	if req.Operation == "debit" {
		delta = -delta
	}

	newBalance, err := uow.UserRepository().AdjustBalance(ctx, user.Id, delta)
	if err != nil {
		if errors.Is(err, contract.ErrBalanceConflict) {
			return nil, ErrInsufficientBalance
		}
		return nil, err
	}

	s.logger.Info("admin", "balance adjusted", map[string]interface{}{
		"email":       req.Email,
		"operation":   req.Operation,
		"amount":      req.Amount,
		"new_balance": newBalance,
	})
	s.publishBalanceEvent(ctx, user, req.Operation, delta, newBalance)

	return &dto.ManageBalanceResponse{
		Email:      user.Email,
		NewBalance: newBalance,
	}, nil
}

func (s *adminService) SetBalance(ctx context.Context, req *dto.SetBalanceRequest) (*dto.ManageBalanceResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if err := uow.UserRepository().SetBalance(ctx, user.Id, req.Balance); err != nil {
		return nil, err
	}

	s.logger.Info("admin", "balance overwritten", map[string]interface{}{
		"email":       req.Email,
		"new_balance": req.Balance,
	})
	s.publishBalanceEvent(ctx, user, "set", req.Balance-user.Balance, req.Balance)

	return &dto.ManageBalanceResponse{
		Email:      user.Email,
		NewBalance: req.Balance,
	}, nil
}

func (s *adminService) GetLogs(ctx context.Context, level string, limit, offset int) ([]logger.LogEntry, error) {
	return s.logger.GetLogs(level, limit, offset)
}

func (s *adminService) publishBalanceEvent(ctx context.Context, user *entity.User, operation string, delta, newBalance int64) {
	if s.eventPublisher == nil {
		return
	}
	evt := events.BaseEvent{
		Type: events.TypeBalanceAdjusted,
		Data: map[string]interface{}{
			"user_id":     user.Id,
			"email":       user.Email,
			"operation":   operation,
			"delta":       delta,
			"new_balance": newBalance,
		},
		OccurredAt: time.Now(),
	}
	if err := s.eventPublisher.Publish(ctx, evt); err != nil {
		s.logger.Warn("admin", "failed to publish balance event", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func toAdminUserResponses(users []*entity.User) []*dto.AdminUserResponse {
	out := make([]*dto.AdminUserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, &dto.AdminUserResponse{
			Id:        u.Id,
			SubjectId: u.SubjectId,
			Email:     u.Email,
			FirstName: u.FirstName,
			LastName:  u.LastName,
			Balance:   u.Balance,
			CreatedAt: u.CreatedAt,
		})
	}
	return out
}
