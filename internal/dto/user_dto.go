package dto

import (
	"time"

	"github.com/google/uuid"
)

// AuthPrincipal carries the identity-provider claims extracted by the
// JWT middleware. The subject id is opaque; the local account row is
// provisioned lazily from it.
type AuthPrincipal struct {
	SubjectId string
	Email     string
}

type BalanceResponse struct {
	Balance    int64 `json:"balance"`
	LowBalance bool  `json:"low_balance"`
}

type ProfileResponse struct {
	Id        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Balance   int64     `json:"balance"`
	CreatedAt time.Time `json:"created_at"`
}
