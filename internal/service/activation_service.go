package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sms-rental-be/internal/dto"
	"sms-rental-be/internal/entity"
	"sms-rental-be/internal/pkg/logger"
	"sms-rental-be/internal/repository/contract"
	"sms-rental-be/internal/repository/specification"
	"sms-rental-be/internal/repository/unitofwork"
	"sms-rental-be/pkg/events"
	"sms-rental-be/pkg/keylock"
	pktNats "sms-rental-be/pkg/nats"
	"sms-rental-be/pkg/pricing"
	"sms-rental-be/pkg/provider"

	"github.com/google/uuid"
)

type IActivationService interface {
	Purchase(ctx context.Context, principal dto.AuthPrincipal, req *dto.PurchaseRequest) (*dto.PurchaseResponse, error)
	Poll(ctx context.Context, principal dto.AuthPrincipal, activationId string) (*dto.PollResponse, error)
	Cancel(ctx context.Context, principal dto.AuthPrincipal, activationId string) (*dto.CancelResponse, error)
	ListActive(ctx context.Context, principal dto.AuthPrincipal) ([]*dto.ActivationResponse, error)
	ListHistory(ctx context.Context, principal dto.AuthPrincipal, page, pageSize int) (*dto.HistoryResponse, error)
	ListServices(ctx context.Context) []*dto.ServiceResponse
}

type activationService struct {
	uowFactory     unitofwork.RepositoryFactory
	userService    IUserService
	provider       provider.Api
	alertService   IAlertService
	eventPublisher *pktNats.Publisher
	locker         keylock.Locker
	logger         logger.ILogger
	country        string
	cancelCooldown time.Duration
}

func NewActivationService(
	uowFactory unitofwork.RepositoryFactory,
	userService IUserService,
	providerApi provider.Api,
	alertService IAlertService,
	eventPublisher *pktNats.Publisher,
	locker keylock.Locker,
	logger logger.ILogger,
	country string,
	cancelCooldown time.Duration,
) IActivationService {
	return &activationService{
		uowFactory:     uowFactory,
		userService:    userService,
		provider:       providerApi,
		alertService:   alertService,
		eventPublisher: eventPublisher,
		locker:         locker,
		logger:         logger,
		country:        country,
		cancelCooldown: cancelCooldown,
	}
}

// Purchase rents a number. The debit happens after the provider has
// handed the number out: a rejected debit triggers a best-effort
// upstream cancel, and a failed local insert after a committed debit
// raises a reconciliation alert instead of failing the request.
func (s *activationService) Purchase(ctx context.Context, principal dto.AuthPrincipal, req *dto.PurchaseRequest) (*dto.PurchaseResponse, error) {
	svc, ok := pricing.Lookup(req.Service)
	if !ok {
		return nil, ErrUnknownService
	}

	user, err := s.userService.GetOrCreate(ctx, principal)
	if err != nil {
		return nil, err
	}

	// Cheap pre-check. The conditional debit below is the authority;
	// this only saves a pointless provider round trip.
	if user.Balance < svc.Price {
		return nil, ErrInsufficientBalance
	}

	acq, err := s.provider.AcquireNumber(ctx, svc.Code, s.country)
	if err != nil {
		return nil, mapProviderError(err)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	newBalance, err := uow.UserRepository().AdjustBalance(ctx, user.Id, -svc.Price)
	if err != nil {
		// Another request spent the balance between the pre-check and
		// the debit. Hand the number back so it is not billed upstream.
		if cancelErr := s.provider.Cancel(ctx, acq.ActivationId); cancelErr != nil {
			s.logger.Warn("activation", "failed to return number after rejected debit", map[string]interface{}{
				"activation_id": acq.ActivationId,
				"error":         cancelErr.Error(),
			})
		}
		if errors.Is(err, contract.ErrBalanceConflict) {
			return nil, ErrInsufficientBalance
		}
		return nil, err
	}

	activation := &entity.Activation{
		Id:           uuid.New(),
		UserId:       user.Id,
		ActivationId: acq.ActivationId,
		PhoneNumber:  acq.PhoneNumber,
		Service:      svc.Code,
		Status:       entity.ActivationStatusPending,
		IsActive:     true,
		CreatedAt:    time.Now(),
	}
	if err := uow.ActivationRepository().Create(ctx, activation); err != nil {
		// The debit is already committed. The number is still usable,
		// so the request succeeds; the missing row goes to the
		// reconciliation queue.
		s.alertService.Report(ctx, dto.ReconciliationAlertMessage{
			Kind:         dto.AlertPurchaseUnpersisted,
			SubjectId:    principal.SubjectId,
			ActivationId: acq.ActivationId,
			Service:      svc.Code,
			Amount:       svc.Price,
			Detail:       fmt.Sprintf("debit committed, activation insert failed: %v", err),
		})
	}

	s.publishEvent(ctx, events.TypeActivationPurchased, map[string]interface{}{
		"user_id":       user.Id,
		"activation_id": acq.ActivationId,
		"service":       svc.Code,
		"price":         svc.Price,
		"balance":       newBalance,
	})

	return &dto.PurchaseResponse{
		ActivationId: acq.ActivationId,
		PhoneNumber:  acq.PhoneNumber,
		Service:      svc.Code,
		Price:        svc.Price,
		Balance:      newBalance,
	}, nil
}

// Poll reports the current state of an activation. A code that already
// reached the database is answered locally; the provider is only asked
// while the activation is still pending.
func (s *activationService) Poll(ctx context.Context, principal dto.AuthPrincipal, activationId string) (*dto.PollResponse, error) {
	release, err := s.locker.Lock(ctx, "activation:"+activationId)
	if err != nil {
		return nil, err
	}
	defer release()

	user, err := s.userService.GetOrCreate(ctx, principal)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	activation, err := uow.ActivationRepository().FindOne(ctx,
		specification.ByActivationId{ActivationId: activationId},
		specification.OwnedBy{UserID: user.Id},
	)
	if err != nil {
		return nil, err
	}
	if activation == nil {
		return nil, ErrActivationNotFound
	}

	if activation.SmsCode != nil {
		return &dto.PollResponse{
			Status:  provider.StatusCodeReceived.String(),
			Message: "sms code received",
			Code:    *activation.SmsCode,
		}, nil
	}
	if activation.Status == entity.ActivationStatusCancelled {
		return &dto.PollResponse{
			Status:  provider.StatusCancelled.String(),
			Message: "activation cancelled",
		}, nil
	}

	status, err := s.provider.PollStatus(ctx, activationId)
	if err != nil {
		if errors.Is(err, provider.ErrNotFound) {
			return nil, ErrActivationNotFound
		}
		return nil, mapProviderError(err)
	}

	switch status.Kind {
	case provider.StatusCodeReceived:
		if _, err := uow.ActivationRepository().MarkCompleted(ctx, activation.Id, status.Code); err != nil {
			return nil, err
		}
		s.publishEvent(ctx, events.TypeActivationCompleted, map[string]interface{}{
			"user_id":       user.Id,
			"activation_id": activationId,
			"service":       activation.Service,
		})
		return &dto.PollResponse{
			Status:  status.Kind.String(),
			Message: "sms code received",
			Code:    status.Code,
		}, nil

	case provider.StatusCancelled:
		if _, err := uow.ActivationRepository().MarkCancelled(ctx, activation.Id); err != nil {
			return nil, err
		}
		s.publishEvent(ctx, events.TypeActivationCancelled, map[string]interface{}{
			"user_id":       user.Id,
			"activation_id": activationId,
			"service":       activation.Service,
			"origin":        "provider",
		})
		return &dto.PollResponse{
			Status:  status.Kind.String(),
			Message: "activation cancelled by provider",
		}, nil

	case provider.StatusRetryRequested:
		return &dto.PollResponse{
			Status:   status.Kind.String(),
			Message:  "waiting for a new sms code",
			LastCode: status.LastCode,
		}, nil

	case provider.StatusResendRequested:
		return &dto.PollResponse{
			Status:  status.Kind.String(),
			Message: "provider asked the sender to resend",
		}, nil

	default:
		return &dto.PollResponse{
			Status:  provider.StatusWaiting.String(),
			Message: "waiting for sms",
		}, nil
	}
}

// Cancel returns a pending number for a full refund. Early requests are
// rejected locally before the provider ever sees them; the provider can
// still refuse with its own cooldown verdict.
func (s *activationService) Cancel(ctx context.Context, principal dto.AuthPrincipal, activationId string) (*dto.CancelResponse, error) {
	release, err := s.locker.Lock(ctx, "activation:"+activationId)
	if err != nil {
		return nil, err
	}
	defer release()

	user, err := s.userService.GetOrCreate(ctx, principal)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	activation, err := uow.ActivationRepository().FindOne(ctx,
		specification.ByActivationId{ActivationId: activationId},
		specification.OwnedBy{UserID: user.Id},
	)
	if err != nil {
		return nil, err
	}
	if activation == nil {
		return nil, ErrActivationNotFound
	}
	if activation.Terminal() {
		return nil, ErrAlreadyTerminal
	}
	if time.Since(activation.CreatedAt) < s.cancelCooldown {
		return nil, ErrEarlyCancelDenied
	}

	if err := s.provider.Cancel(ctx, activationId); err != nil {
		switch {
		case errors.Is(err, provider.ErrEarlyCancelDenied):
			return nil, ErrEarlyCancelDenied
		case errors.Is(err, provider.ErrNotFound):
			// The provider already dropped it; finish the local side.
		default:
			return nil, mapProviderError(err)
		}
	}

	rows, err := uow.ActivationRepository().MarkCancelled(ctx, activation.Id)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, ErrAlreadyTerminal
	}

	price, _ := pricing.PriceFor(activation.Service)

	resp := &dto.CancelResponse{
		ActivationId: activationId,
		Refunded:     price,
	}

	newBalance, err := creditBalance(ctx, uow, user, price)
	if err != nil {
		// The cancellation is committed but the money never came back.
		// The user keeps a success response; operators get paged.
		s.alertService.Report(ctx, dto.ReconciliationAlertMessage{
			Kind:         dto.AlertCancelUnrefunded,
			SubjectId:    principal.SubjectId,
			ActivationId: activationId,
			Service:      activation.Service,
			Amount:       price,
			Detail:       fmt.Sprintf("cancel committed, refund failed: %v", err),
		})
		resp.Refunded = 0
		resp.RefundPending = true
		resp.Balance = user.Balance
	} else {
		resp.Balance = newBalance
	}

	s.publishEvent(ctx, events.TypeActivationCancelled, map[string]interface{}{
		"user_id":       user.Id,
		"activation_id": activationId,
		"service":       activation.Service,
		"refunded":      resp.Refunded,
		"origin":        "user",
	})

	return resp, nil
}

func (s *activationService) ListActive(ctx context.Context, principal dto.AuthPrincipal) ([]*dto.ActivationResponse, error) {
	user, err := s.userService.GetOrCreate(ctx, principal)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	activations, err := uow.ActivationRepository().FindAll(ctx,
		specification.OwnedBy{UserID: user.Id},
		specification.ActiveOnly{},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	return toActivationResponses(activations), nil
}

func (s *activationService) ListHistory(ctx context.Context, principal dto.AuthPrincipal, page, pageSize int) (*dto.HistoryResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	user, err := s.userService.GetOrCreate(ctx, principal)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	total, err := uow.ActivationRepository().Count(ctx, specification.OwnedBy{UserID: user.Id})
	if err != nil {
		return nil, err
	}

	activations, err := uow.ActivationRepository().FindAll(ctx,
		specification.OwnedBy{UserID: user.Id},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: pageSize, Offset: (page - 1) * pageSize},
	)
	if err != nil {
		return nil, err
	}

	return &dto.HistoryResponse{
		Items:    toActivationResponses(activations),
		Page:     page,
		PageSize: pageSize,
		Total:    total,
	}, nil
}

func (s *activationService) ListServices(ctx context.Context) []*dto.ServiceResponse {
	all := pricing.All()
	out := make([]*dto.ServiceResponse, 0, len(all))
	for _, svc := range all {
		out = append(out, &dto.ServiceResponse{
			Code:  svc.Code,
			Name:  svc.Name,
			Price: svc.Price,
		})
	}
	return out
}

func (s *activationService) publishEvent(ctx context.Context, eventType string, data map[string]interface{}) {
	if s.eventPublisher == nil {
		return
	}
	evt := events.BaseEvent{
		Type:       eventType,
		Data:       data,
		OccurredAt: time.Now(),
	}
	if err := s.eventPublisher.Publish(ctx, evt); err != nil {
		s.logger.Warn("activation", "failed to publish event", map[string]interface{}{
			"event": eventType,
			"error": err.Error(),
		})
	}
}

func mapProviderError(err error) error {
	switch {
	case errors.Is(err, provider.ErrNoNumbers):
		return ErrNoNumbersAvailable
	case errors.Is(err, provider.ErrUnavailable):
		return ErrProviderUnavailable
	case errors.Is(err, provider.ErrBadKey),
		errors.Is(err, provider.ErrUnexpectedResponse):
		return ErrProviderRejected
	}
	return err
}

func toActivationResponses(activations []*entity.Activation) []*dto.ActivationResponse {
	out := make([]*dto.ActivationResponse, 0, len(activations))
	for _, a := range activations {
		out = append(out, &dto.ActivationResponse{
			Id:           a.Id,
			ActivationId: a.ActivationId,
			PhoneNumber:  a.PhoneNumber,
			Service:      a.Service,
			Status:       string(a.Status),
			SmsCode:      a.SmsCode,
			IsActive:     a.IsActive,
			CreatedAt:    a.CreatedAt,
			UpdatedAt:    a.UpdatedAt,
		})
	}
	return out
}
