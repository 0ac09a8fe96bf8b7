package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer is the durable per-customer loyalty record. The id is the external
// chat id, so there is no surrogate key. Rows are created on first interaction
// and never deleted; balances are mutated only by the redemption engine.
type Customer struct {
	ID           int64           `db:"id"`
	Name         string          `db:"name"`
	Phone        *string         `db:"phone"`
	TotalSpent   decimal.Decimal `db:"total_spent"`
	PaidCount    int             `db:"paid_count"`
	FreeCredit   int             `db:"free_credit"`
	RegisteredAt time.Time       `db:"registered_at"`
}
