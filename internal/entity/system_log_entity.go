package entity

import (
	"time"

	"github.com/google/uuid"
)

// SystemLog rows back the operational alert trail, most importantly the
// reconciliation entries for the accepted partial-failure windows
// (debit committed but activation insert failed, cancel committed but
// refund failed). These are surfaced to operators, never to users.
type SystemLog struct {
	Id        uuid.UUID
	Level     string
	Module    *string
	Message   string
	Details   map[string]interface{}
	CreatedAt time.Time
}
