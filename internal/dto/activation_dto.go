package dto

import (
	"time"

	"github.com/google/uuid"
)

type PurchaseRequest struct {
	Service string `json:"service" validate:"required"`
}

type PurchaseResponse struct {
	ActivationId string `json:"activation_id"`
	PhoneNumber  string `json:"phone_number"`
	Service      string `json:"service"`
	Price        int64  `json:"price"`
	Balance      int64  `json:"balance"`
}

// PollResponse mirrors the provider's advisory vocabulary: waiting,
// retry, resend, success, cancelled.
type PollResponse struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Code     string `json:"code,omitempty"`
	LastCode string `json:"last_code,omitempty"`
}

type CancelResponse struct {
	ActivationId string `json:"activation_id"`
	Refunded     int64  `json:"refunded"`
	Balance      int64  `json:"balance"`
	// RefundPending is set when the cancellation committed but the
	// refund write failed and was queued for manual reconciliation.
	RefundPending bool `json:"refund_pending,omitempty"`
}

type ActivationResponse struct {
	Id           uuid.UUID `json:"id"`
	ActivationId string    `json:"activation_id"`
	PhoneNumber  string    `json:"phone_number"`
	Service      string    `json:"service"`
	Status       string    `json:"status"`
	SmsCode      *string   `json:"sms_code,omitempty"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type HistoryResponse struct {
	Items    []*ActivationResponse `json:"items"`
	Page     int                   `json:"page"`
	PageSize int                   `json:"page_size"`
	Total    int64                 `json:"total"`
}

type ServiceResponse struct {
	Code  string `json:"code"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
}
