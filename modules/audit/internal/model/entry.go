package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	ActionRegistered  = "registered"
	ActionTransaction = "transaction"
)

type Entry struct {
	ID         int64            `db:"id"`
	ActorID    int64            `db:"actor_id"`
	ActorName  *string          `db:"actor_name"`
	Action     string           `db:"action"`
	CustomerID int64            `db:"customer_id"`
	Amount     *decimal.Decimal `db:"amount"`
	ItemCount  *int             `db:"item_count"`
	CreatedAt  time.Time        `db:"created_at"`
}

// WaiterDailyStat is one waiter's activity on one day.
type WaiterDailyStat struct {
	Day             time.Time       `db:"day"`
	ActorID         int64           `db:"actor_id"`
	ActorName       *string         `db:"actor_name"`
	RegisteredCount int             `db:"registered_count"`
	TxCount         int             `db:"tx_count"`
	TxSum           decimal.Decimal `db:"tx_sum"`
}

// ServicedDailyStat aggregates serviced clients per day within a range.
type ServicedDailyStat struct {
	Day         time.Time       `db:"day"`
	ClientCount int             `db:"client_count"`
	TxCount     int             `db:"tx_count"`
	TxSum       decimal.Decimal `db:"tx_sum"`
}
