package entity

import (
	"time"

	"github.com/google/uuid"
)

type ActivationStatus string

const (
	ActivationStatusPending   ActivationStatus = "pending"
	ActivationStatusCompleted ActivationStatus = "completed"
	ActivationStatusCancelled ActivationStatus = "cancelled"
)

// Activation is one rented number. ActivationId is assigned by the
// provider and is the handle for all follow-up provider calls.
// IsActive holds exactly while the status is pending.
type Activation struct {
	Id           uuid.UUID
	UserId       uuid.UUID
	ActivationId string
	PhoneNumber  string
	Service      string
	Status       ActivationStatus
	SmsCode      *string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (a *Activation) Terminal() bool {
	return a.Status == ActivationStatusCompleted || a.Status == ActivationStatusCancelled
}
