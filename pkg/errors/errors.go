package errors

import (
	"errors"
	"fmt"
)

var (
	ErrAuth                 = errors.New("store authentication failed")
	ErrStoreRead            = errors.New("store read failed")
	ErrStoreWrite           = errors.New("store write failed")
	ErrAccountNotFound      = errors.New("account not found")
	ErrAccountMissingHandle = errors.New("account handle is not set")
	ErrProductNotFound      = errors.New("product not found")
	ErrDebitFailed          = errors.New("failed to debit points")
	ErrNotifyFailed         = errors.New("failed to send order notification")
	ErrBalanceLocked        = errors.New("balance is locked by another purchase")
)

// InsufficientFundsError carries the amounts so callers can tell the user
// exactly how many points are missing.
type InsufficientFundsError struct {
	Balance   int
	Price     int
	Shortfall int
}

func NewInsufficientFunds(balance, price int) *InsufficientFundsError {
	return &InsufficientFundsError{
		Balance:   balance,
		Price:     price,
		Shortfall: price - balance,
	}
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: balance %d, price %d, short %d", e.Balance, e.Price, e.Shortfall)
}
