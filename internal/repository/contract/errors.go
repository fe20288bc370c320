package contract

import "errors"

// ErrBalanceConflict is returned by AdjustBalance when the conditional
// update matched no row: either the user is missing or the debit would
// have driven the balance below zero. The service layer disambiguates.
var ErrBalanceConflict = errors.New("balance adjustment rejected")
