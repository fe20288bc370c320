package dto

import "time"

// Reconciliation alert kinds: the two accepted partial-failure windows.
const (
	AlertPurchaseUnpersisted = "purchase_unpersisted"
	AlertCancelUnrefunded    = "cancel_unrefunded"
)

// ReconciliationAlertMessage is the payload published on the in-process
// alert bus when a financially relevant write was committed but its
// companion write failed. Consumers persist it and page operators; the
// originating request is never rolled back.
type ReconciliationAlertMessage struct {
	Kind         string    `json:"kind"`
	SubjectId    string    `json:"subject_id"`
	ActivationId string    `json:"activation_id"`
	Service      string    `json:"service"`
	Amount       int64     `json:"amount"`
	Detail       string    `json:"detail"`
	OccurredAt   time.Time `json:"occurred_at"`
}
