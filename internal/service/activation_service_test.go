package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"sms-rental-be/internal/dto"
	"sms-rental-be/internal/entity"
	"sms-rental-be/internal/repository/contract"
	"sms-rental-be/pkg/keylock"
	"sms-rental-be/pkg/provider"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

const testCooldown = 2 * time.Minute

type activationFixture struct {
	uow      *fakeUow
	provider *fakeProvider
	alerts   *fakeAlertService
	users    IUserService
	svc      IActivationService
}

func newActivationFixture() *activationFixture {
	uow := newFakeUow()
	prov := &fakeProvider{}
	alerts := &fakeAlertService{}
	users := NewUserService(uow, nil, 0, 10)
	svc := NewActivationService(
		uow,
		users,
		prov,
		alerts,
		nil,
		keylock.NewLocal(),
		nopLogger{},
		"22",
		testCooldown,
	)
	return &activationFixture{uow: uow, provider: prov, alerts: alerts, users: users, svc: svc}
}

func (f *activationFixture) seedUser(t *testing.T, balance int64) (dto.AuthPrincipal, uuid.UUID) {
	t.Helper()
	principal := dto.AuthPrincipal{SubjectId: "auth0|u1", Email: "u1@example.com"}
	user, err := f.users.GetOrCreate(context.Background(), principal)
	if err != nil {
		t.Fatal(err)
	}
	if err := f.uow.users.SetBalance(context.Background(), user.Id, balance); err != nil {
		t.Fatal(err)
	}
	return principal, user.Id
}

func (f *activationFixture) seedActivation(userId uuid.UUID, age time.Duration, status entity.ActivationStatus) *entity.Activation {
	a := &entity.Activation{
		Id:           uuid.New(),
		UserId:       userId,
		ActivationId: "931",
		PhoneNumber:  "79161234567",
		Service:      "am",
		Status:       status,
		IsActive:     status == entity.ActivationStatusPending,
		CreatedAt:    time.Now().Add(-age),
	}
	f.uow.activations.activations = append(f.uow.activations.activations, a)
	return a
}

func TestPurchaseDebitsAndPersists(t *testing.T) {
	f := newActivationFixture()
	principal, userId := f.seedUser(t, 100)

	res, err := f.svc.Purchase(context.Background(), principal, &dto.PurchaseRequest{Service: "am"})
	assert.NoError(t, err)
	assert.Equal(t, "931", res.ActivationId)
	assert.Equal(t, "79161234567", res.PhoneNumber)
	assert.Equal(t, int64(20), res.Price)
	assert.Equal(t, int64(80), res.Balance)
	assert.Equal(t, "22", f.provider.lastCountry)

	stored, _ := f.uow.activations.FindOne(context.Background())
	assert.NotNil(t, stored)
	assert.Equal(t, userId, stored.UserId)
	assert.Equal(t, entity.ActivationStatusPending, stored.Status)
	assert.True(t, stored.IsActive)
}

func TestPurchaseUnknownService(t *testing.T) {
	f := newActivationFixture()
	principal, _ := f.seedUser(t, 100)

	_, err := f.svc.Purchase(context.Background(), principal, &dto.PurchaseRequest{Service: "nope"})
	assert.ErrorIs(t, err, ErrUnknownService)
	assert.Equal(t, 0, f.provider.acquireCnt)
}

func TestPurchaseInsufficientBalance(t *testing.T) {
	f := newActivationFixture()
	principal, _ := f.seedUser(t, 10)

	_, err := f.svc.Purchase(context.Background(), principal, &dto.PurchaseRequest{Service: "am"})
	assert.ErrorIs(t, err, ErrInsufficientBalance)
	// Rejected before the provider ever hands out a number.
	assert.Equal(t, 0, f.provider.acquireCnt)
}

func TestPurchaseDebitRaceReturnsNumber(t *testing.T) {
	f := newActivationFixture()
	principal, _ := f.seedUser(t, 100)

	// The pre-check sees funds but a concurrent spender wins the
	// conditional update.
	f.uow.users.adjustErr = contract.ErrBalanceConflict

	_, err := f.svc.Purchase(context.Background(), principal, &dto.PurchaseRequest{Service: "am"})
	assert.ErrorIs(t, err, ErrInsufficientBalance)
	assert.Equal(t, 1, f.provider.cancelCnt, "number must be handed back upstream")

	count, _ := f.uow.activations.Count(context.Background())
	assert.Zero(t, count)
}

func TestPurchaseNoNumbers(t *testing.T) {
	f := newActivationFixture()
	principal, _ := f.seedUser(t, 100)
	f.provider.acquireFn = func(service, country string) (*provider.Acquisition, error) {
		return nil, provider.ErrNoNumbers
	}

	_, err := f.svc.Purchase(context.Background(), principal, &dto.PurchaseRequest{Service: "am"})
	assert.ErrorIs(t, err, ErrNoNumbersAvailable)

	// Balance untouched.
	bal, err := f.users.GetBalance(context.Background(), principal)
	assert.NoError(t, err)
	assert.Equal(t, int64(100), bal.Balance)
}

func TestPurchaseInsertFailureStillSucceedsAndAlerts(t *testing.T) {
	f := newActivationFixture()
	principal, _ := f.seedUser(t, 100)
	f.uow.activations.createErr = errors.New("connection reset")

	res, err := f.svc.Purchase(context.Background(), principal, &dto.PurchaseRequest{Service: "am"})
	assert.NoError(t, err, "the user already paid and holds a number")
	assert.Equal(t, int64(80), res.Balance)

	assert.Len(t, f.alerts.alerts, 1)
	assert.Equal(t, dto.AlertPurchaseUnpersisted, f.alerts.alerts[0].Kind)
	assert.Equal(t, int64(20), f.alerts.alerts[0].Amount)
}

func TestPollCacheFirst(t *testing.T) {
	f := newActivationFixture()
	principal, userId := f.seedUser(t, 100)
	a := f.seedActivation(userId, time.Minute, entity.ActivationStatusCompleted)
	code := "4821"
	a.SmsCode = &code

	res, err := f.svc.Poll(context.Background(), principal, "931")
	assert.NoError(t, err)
	assert.Equal(t, "success", res.Status)
	assert.Equal(t, "4821", res.Code)
	assert.Equal(t, 0, f.provider.pollCnt, "stored code must short-circuit the provider")
}

func TestPollWaiting(t *testing.T) {
	f := newActivationFixture()
	principal, userId := f.seedUser(t, 100)
	f.seedActivation(userId, time.Minute, entity.ActivationStatusPending)

	res, err := f.svc.Poll(context.Background(), principal, "931")
	assert.NoError(t, err)
	assert.Equal(t, "waiting", res.Status)
	assert.Empty(t, res.Code)
}

func TestPollCodeReceivedPersistsTransition(t *testing.T) {
	f := newActivationFixture()
	principal, userId := f.seedUser(t, 100)
	f.seedActivation(userId, time.Minute, entity.ActivationStatusPending)
	f.provider.pollFn = func(activationId string) (*provider.Status, error) {
		return &provider.Status{Kind: provider.StatusCodeReceived, Code: "7755"}, nil
	}

	res, err := f.svc.Poll(context.Background(), principal, "931")
	assert.NoError(t, err)
	assert.Equal(t, "success", res.Status)
	assert.Equal(t, "7755", res.Code)

	stored, _ := f.uow.activations.FindOne(context.Background())
	assert.Equal(t, entity.ActivationStatusCompleted, stored.Status)
	assert.NotNil(t, stored.SmsCode)
	assert.False(t, stored.IsActive)

	// Next poll answers from the database.
	res2, err := f.svc.Poll(context.Background(), principal, "931")
	assert.NoError(t, err)
	assert.Equal(t, "7755", res2.Code)
	assert.Equal(t, 1, f.provider.pollCnt)
}

func TestPollRetryCarriesLastCode(t *testing.T) {
	f := newActivationFixture()
	principal, userId := f.seedUser(t, 100)
	f.seedActivation(userId, time.Minute, entity.ActivationStatusPending)
	f.provider.pollFn = func(activationId string) (*provider.Status, error) {
		return &provider.Status{Kind: provider.StatusRetryRequested, LastCode: "1111"}, nil
	}

	res, err := f.svc.Poll(context.Background(), principal, "931")
	assert.NoError(t, err)
	assert.Equal(t, "retry", res.Status)
	assert.Equal(t, "1111", res.LastCode)
}

func TestPollUnknownActivation(t *testing.T) {
	f := newActivationFixture()
	principal, _ := f.seedUser(t, 100)

	_, err := f.svc.Poll(context.Background(), principal, "999")
	assert.ErrorIs(t, err, ErrActivationNotFound)
}

func TestPollForeignActivationIsInvisible(t *testing.T) {
	f := newActivationFixture()
	principal, _ := f.seedUser(t, 100)
	f.seedActivation(uuid.New(), time.Minute, entity.ActivationStatusPending) // someone else's

	_, err := f.svc.Poll(context.Background(), principal, "931")
	assert.ErrorIs(t, err, ErrActivationNotFound)
}

func TestCancelBeforeCooldown(t *testing.T) {
	f := newActivationFixture()
	principal, userId := f.seedUser(t, 80)
	f.seedActivation(userId, 119*time.Second, entity.ActivationStatusPending)

	_, err := f.svc.Cancel(context.Background(), principal, "931")
	assert.ErrorIs(t, err, ErrEarlyCancelDenied)
	assert.Equal(t, 0, f.provider.cancelCnt, "local cooldown rejects before the provider is asked")
}

func TestCancelAfterCooldownRefundsFullPrice(t *testing.T) {
	f := newActivationFixture()
	principal, userId := f.seedUser(t, 80)
	f.seedActivation(userId, 121*time.Second, entity.ActivationStatusPending)

	res, err := f.svc.Cancel(context.Background(), principal, "931")
	assert.NoError(t, err)
	assert.Equal(t, int64(20), res.Refunded)
	assert.Equal(t, int64(100), res.Balance)
	assert.False(t, res.RefundPending)

	stored, _ := f.uow.activations.FindOne(context.Background())
	assert.Equal(t, entity.ActivationStatusCancelled, stored.Status)
	assert.False(t, stored.IsActive)
}

func TestCancelTwice(t *testing.T) {
	f := newActivationFixture()
	principal, userId := f.seedUser(t, 80)
	f.seedActivation(userId, 3*time.Minute, entity.ActivationStatusPending)

	_, err := f.svc.Cancel(context.Background(), principal, "931")
	assert.NoError(t, err)

	_, err = f.svc.Cancel(context.Background(), principal, "931")
	assert.ErrorIs(t, err, ErrAlreadyTerminal)

	// Only one refund.
	bal, _ := f.users.GetBalance(context.Background(), principal)
	assert.Equal(t, int64(100), bal.Balance)
}

func TestCancelCompletedActivation(t *testing.T) {
	f := newActivationFixture()
	principal, userId := f.seedUser(t, 80)
	f.seedActivation(userId, 3*time.Minute, entity.ActivationStatusCompleted)

	_, err := f.svc.Cancel(context.Background(), principal, "931")
	assert.ErrorIs(t, err, ErrAlreadyTerminal)
}

func TestCancelProviderCooldownVerdict(t *testing.T) {
	f := newActivationFixture()
	principal, userId := f.seedUser(t, 80)
	f.seedActivation(userId, 3*time.Minute, entity.ActivationStatusPending)
	f.provider.cancelFn = func(activationId string) error {
		return provider.ErrEarlyCancelDenied
	}

	_, err := f.svc.Cancel(context.Background(), principal, "931")
	assert.ErrorIs(t, err, ErrEarlyCancelDenied)

	stored, _ := f.uow.activations.FindOne(context.Background())
	assert.Equal(t, entity.ActivationStatusPending, stored.Status, "provider refusal must not flip local state")
}

func TestCancelRefundFailureAlerts(t *testing.T) {
	f := newActivationFixture()
	principal, userId := f.seedUser(t, 80)
	f.seedActivation(userId, 3*time.Minute, entity.ActivationStatusPending)
	f.uow.users.adjustErr = errors.New("connection reset")

	res, err := f.svc.Cancel(context.Background(), principal, "931")
	assert.NoError(t, err, "the cancellation itself committed")
	assert.True(t, res.RefundPending)
	assert.Zero(t, res.Refunded)

	assert.Len(t, f.alerts.alerts, 1)
	assert.Equal(t, dto.AlertCancelUnrefunded, f.alerts.alerts[0].Kind)
	assert.Equal(t, int64(20), f.alerts.alerts[0].Amount)
}

func TestListActiveFiltersTerminal(t *testing.T) {
	f := newActivationFixture()
	principal, userId := f.seedUser(t, 100)
	f.seedActivation(userId, time.Minute, entity.ActivationStatusPending)
	done := f.seedActivation(userId, time.Hour, entity.ActivationStatusCompleted)
	done.ActivationId = "800"

	active, err := f.svc.ListActive(context.Background(), principal)
	assert.NoError(t, err)
	assert.Len(t, active, 1)
	assert.Equal(t, "931", active[0].ActivationId)
}

func TestListHistoryPaginates(t *testing.T) {
	f := newActivationFixture()
	principal, userId := f.seedUser(t, 100)
	for i := 0; i < 5; i++ {
		a := f.seedActivation(userId, time.Duration(i)*time.Hour, entity.ActivationStatusCancelled)
		a.ActivationId = string(rune('a' + i))
	}

	res, err := f.svc.ListHistory(context.Background(), principal, 2, 2)
	assert.NoError(t, err)
	assert.Equal(t, int64(5), res.Total)
	assert.Equal(t, 2, res.Page)
	assert.Len(t, res.Items, 2)
}

func TestListServices(t *testing.T) {
	f := newActivationFixture()
	services := f.svc.ListServices(context.Background())
	assert.Len(t, services, 10)
	for _, s := range services {
		assert.Positive(t, s.Price)
		assert.NotEmpty(t, s.Name)
	}
}
