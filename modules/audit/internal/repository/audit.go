package repository

import (
	"context"
	"fmt"
	"time"

	"go-loyalty/modules/audit/internal/model"
	"go-loyalty/util/errs"
	"go-loyalty/util/storage/sqldb/transactor"
)

type AuditRepository interface {
	Append(ctx context.Context, entry *model.Entry) error
	WaiterDailyStats(ctx context.Context) ([]model.WaiterDailyStat, error)
	ServicedDailyStats(ctx context.Context, from, to time.Time) ([]model.ServicedDailyStat, error)
}

type auditRepository struct {
	dbCtx transactor.DBTXContext
}

func NewAuditRepository(dbCtx transactor.DBTXContext) AuditRepository {
	return &auditRepository{
		dbCtx: dbCtx,
	}
}

// Append joins the enclosing transaction when there is one, so audit rows
// commit or roll back together with the change they describe.
func (r *auditRepository) Append(ctx context.Context, entry *model.Entry) error {
	query := `
	INSERT INTO audit_entries (actor_id, actor_name, action, customer_id, amount, item_count)
	VALUES ($1, $2, $3, $4, $5, $6)
	`

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := r.dbCtx(ctx).ExecContext(ctx, query,
		entry.ActorID, entry.ActorName, entry.Action, entry.CustomerID, entry.Amount, entry.ItemCount)
	if err != nil {
		return errs.HandleDBError(fmt.Errorf("an error occurred while appending an audit entry: %w", err))
	}
	return nil
}

func (r *auditRepository) WaiterDailyStats(ctx context.Context) ([]model.WaiterDailyStat, error) {
	query := `
	SELECT date_trunc('day', created_at)                                        AS day,
	       actor_id,
	       MAX(actor_name)                                                      AS actor_name,
	       COUNT(*) FILTER (WHERE action = 'registered')                        AS registered_count,
	       COUNT(*) FILTER (WHERE action = 'transaction')                       AS tx_count,
	       COALESCE(SUM(amount) FILTER (WHERE action = 'transaction'), 0)       AS tx_sum
	FROM audit_entries
	GROUP BY day, actor_id
	ORDER BY day, actor_id
	`

	ctx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	var stats []model.WaiterDailyStat
	if err := r.dbCtx(ctx).SelectContext(ctx, &stats, query); err != nil {
		return nil, errs.HandleDBError(fmt.Errorf("an error occurred while querying waiter stats: %w", err))
	}
	return stats, nil
}

func (r *auditRepository) ServicedDailyStats(ctx context.Context, from, to time.Time) ([]model.ServicedDailyStat, error) {
	query := `
	SELECT date_trunc('day', created_at)                                        AS day,
	       COUNT(DISTINCT customer_id)                                          AS client_count,
	       COUNT(*) FILTER (WHERE action = 'transaction')                       AS tx_count,
	       COALESCE(SUM(amount) FILTER (WHERE action = 'transaction'), 0)       AS tx_sum
	FROM audit_entries
	WHERE created_at >= $1 AND created_at < $2
	GROUP BY day
	ORDER BY day
	`

	ctx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	var stats []model.ServicedDailyStat
	if err := r.dbCtx(ctx).SelectContext(ctx, &stats, query, from, to); err != nil {
		return nil, errs.HandleDBError(fmt.Errorf("an error occurred while querying serviced stats: %w", err))
	}
	return stats, nil
}
