package entity

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"
)

// User is the local account row for an identity-provider subject.
// The subject id is opaque to us; the balance is the only mutable
// financial state and must never go negative.
type User struct {
	Id        uuid.UUID
	SubjectId string
	Email     string
	FirstName string
	LastName  string
	AvatarURL *string
	Role      UserRole
	Balance   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}
