package dto

import (
	"time"

	"github.com/google/uuid"
)

type AdminUserResponse struct {
	Id        uuid.UUID `json:"id"`
	SubjectId string    `json:"subject_id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Balance   int64     `json:"balance"`
	CreatedAt time.Time `json:"created_at"`
}

type ManageBalanceRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Amount    int64  `json:"amount" validate:"required,gt=0"`
	Operation string `json:"operation" validate:"required,oneof=credit debit"`
}

type SetBalanceRequest struct {
	Email   string `json:"email" validate:"required,email"`
	Balance int64  `json:"balance" validate:"gte=0"`
}

type ManageBalanceResponse struct {
	Email      string `json:"email"`
	NewBalance int64  `json:"new_balance"`
}
