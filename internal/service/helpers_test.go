package service

import (
	"context"
	"errors"
	"sync"

	"sms-rental-be/internal/dto"
	"sms-rental-be/internal/entity"
	"sms-rental-be/internal/pkg/logger"
	"sms-rental-be/internal/repository/contract"
	"sms-rental-be/internal/repository/specification"
	"sms-rental-be/internal/repository/unitofwork"
	"sms-rental-be/pkg/provider"

	"github.com/google/uuid"
)

// In-memory doubles for the repository contracts. Specifications are
// interpreted by type so the service layer can be exercised without a
// database.

type fakeUserRepo struct {
	mu    sync.Mutex
	users []*entity.User

	adjustErr error // injected failure for the next AdjustBalance
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.Id == uuid.Nil {
		user.Id = uuid.New()
	}
	for _, u := range r.users {
		if u.SubjectId == user.SubjectId {
			return errors.New("duplicate subject_id")
		}
	}
	r.users = append(r.users, user)
	return nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *entity.User) error {
	return nil
}

func (r *fakeUserRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if userMatches(u, specs) {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.User, 0)
	for _, u := range r.users {
		if userMatches(u, specs) {
			copied := *u
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

func (r *fakeUserRepo) AdjustBalance(ctx context.Context, id uuid.UUID, delta int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.adjustErr != nil {
		err := r.adjustErr
		r.adjustErr = nil
		return 0, err
	}
	for _, u := range r.users {
		if u.Id == id {
			if u.Balance+delta < 0 {
				return 0, contract.ErrBalanceConflict
			}
			u.Balance += delta
			return u.Balance, nil
		}
	}
	return 0, contract.ErrBalanceConflict
}

func (r *fakeUserRepo) SetBalance(ctx context.Context, id uuid.UUID, balance int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Id == id {
			u.Balance = balance
			return nil
		}
	}
	return errors.New("user not found")
}

func userMatches(u *entity.User, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			if u.Id != s.ID {
				return false
			}
		case specification.BySubject:
			if u.SubjectId != s.SubjectId {
				return false
			}
		case specification.ByEmail:
			if u.Email != s.Email {
				return false
			}
		}
	}
	return true
}

type fakeActivationRepo struct {
	mu          sync.Mutex
	activations []*entity.Activation

	createErr error // injected failure for the next Create
}

func (r *fakeActivationRepo) Create(ctx context.Context, a *entity.Activation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		err := r.createErr
		r.createErr = nil
		return err
	}
	r.activations = append(r.activations, a)
	return nil
}

func (r *fakeActivationRepo) Update(ctx context.Context, a *entity.Activation) error {
	return nil
}

func (r *fakeActivationRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Activation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.activations {
		if activationMatches(a, specs) {
			copied := *a
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeActivationRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Activation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.Activation, 0)
	for _, a := range r.activations {
		if activationMatches(a, specs) {
			copied := *a
			out = append(out, &copied)
		}
	}
	// Crude pagination, enough for the history tests.
	for _, spec := range specs {
		if p, ok := spec.(specification.Pagination); ok {
			if p.Offset >= len(out) {
				return []*entity.Activation{}, nil
			}
			end := p.Offset + p.Limit
			if end > len(out) {
				end = len(out)
			}
			out = out[p.Offset:end]
		}
	}
	return out, nil
}

func (r *fakeActivationRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, a := range r.activations {
		if activationMatches(a, specs) {
			n++
		}
	}
	return n, nil
}

func (r *fakeActivationRepo) MarkCompleted(ctx context.Context, id uuid.UUID, smsCode string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.activations {
		if a.Id == id && a.Status == entity.ActivationStatusPending {
			code := smsCode
			a.Status = entity.ActivationStatusCompleted
			a.SmsCode = &code
			a.IsActive = false
			return 1, nil
		}
	}
	return 0, nil
}

func (r *fakeActivationRepo) MarkCancelled(ctx context.Context, id uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.activations {
		if a.Id == id && a.Status == entity.ActivationStatusPending {
			a.Status = entity.ActivationStatusCancelled
			a.IsActive = false
			return 1, nil
		}
	}
	return 0, nil
}

func activationMatches(a *entity.Activation, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			if a.Id != s.ID {
				return false
			}
		case specification.ByActivationId:
			if a.ActivationId != s.ActivationId {
				return false
			}
		case specification.OwnedBy:
			if a.UserId != s.UserID {
				return false
			}
		case specification.ActiveOnly:
			if !a.IsActive {
				return false
			}
		}
	}
	return true
}

type fakeSystemLogRepo struct {
	mu   sync.Mutex
	logs []*entity.SystemLog
}

func (r *fakeSystemLogRepo) Create(ctx context.Context, log *entity.SystemLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs = append(r.logs, log)
	return nil
}

func (r *fakeSystemLogRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.SystemLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*entity.SystemLog(nil), r.logs...), nil
}

type fakeUow struct {
	users       *fakeUserRepo
	activations *fakeActivationRepo
	systemLogs  *fakeSystemLogRepo
}

func newFakeUow() *fakeUow {
	return &fakeUow{
		users:       &fakeUserRepo{},
		activations: &fakeActivationRepo{},
		systemLogs:  &fakeSystemLogRepo{},
	}
}

func (f *fakeUow) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork { return f }
func (f *fakeUow) Begin(ctx context.Context) error                         { return nil }
func (f *fakeUow) Commit() error                                           { return nil }
func (f *fakeUow) Rollback() error                                         { return nil }
func (f *fakeUow) UserRepository() contract.UserRepository                 { return f.users }
func (f *fakeUow) ActivationRepository() contract.ActivationRepository     { return f.activations }
func (f *fakeUow) SystemLogRepository() contract.SystemLogRepository       { return f.systemLogs }

type fakeProvider struct {
	mu          sync.Mutex
	acquireFn   func(service, country string) (*provider.Acquisition, error)
	pollFn      func(activationId string) (*provider.Status, error)
	cancelFn    func(activationId string) error
	acquireCnt  int
	pollCnt     int
	cancelCnt   int
	lastCountry string
}

func (p *fakeProvider) AcquireNumber(ctx context.Context, service, country string) (*provider.Acquisition, error) {
	p.mu.Lock()
	p.acquireCnt++
	p.lastCountry = country
	fn := p.acquireFn
	p.mu.Unlock()
	if fn == nil {
		return &provider.Acquisition{ActivationId: "931", PhoneNumber: "79161234567"}, nil
	}
	return fn(service, country)
}

func (p *fakeProvider) PollStatus(ctx context.Context, activationId string) (*provider.Status, error) {
	p.mu.Lock()
	p.pollCnt++
	fn := p.pollFn
	p.mu.Unlock()
	if fn == nil {
		return &provider.Status{Kind: provider.StatusWaiting}, nil
	}
	return fn(activationId)
}

func (p *fakeProvider) Cancel(ctx context.Context, activationId string) error {
	p.mu.Lock()
	p.cancelCnt++
	fn := p.cancelFn
	p.mu.Unlock()
	if fn == nil {
		return nil
	}
	return fn(activationId)
}

type fakeAlertService struct {
	mu     sync.Mutex
	alerts []dto.ReconciliationAlertMessage
}

func (a *fakeAlertService) Report(ctx context.Context, alert dto.ReconciliationAlertMessage) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.alerts = append(a.alerts, alert)
}

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }
func (nopLogger) GetLogs(level string, limit, offset int) ([]logger.LogEntry, error) {
	return nil, nil
}
