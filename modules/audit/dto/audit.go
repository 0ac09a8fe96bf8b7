package dto

import (
	"errors"

	"github.com/shopspring/decimal"
)

const (
	ActionRegistered  = "registered"
	ActionTransaction = "transaction"
)

// NewEntry is an audit record as produced by the redemption engine.
type NewEntry struct {
	ActorID    int64
	ActorName  string
	Action     string
	CustomerID int64
	Amount     *decimal.Decimal
	ItemCount  *int
}

func (e *NewEntry) Validate() error {
	var errs error
	if e.ActorID <= 0 {
		errs = errors.Join(errs, errors.New("actor id must be a positive integer"))
	}
	if e.Action != ActionRegistered && e.Action != ActionTransaction {
		errs = errors.Join(errs, errors.New("action must be registered or transaction"))
	}
	if e.CustomerID <= 0 {
		errs = errors.Join(errs, errors.New("customer id must be a positive integer"))
	}
	return errs
}
