package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go-loyalty/modules/customer/internal/model"
	"go-loyalty/util/errs"
	"go-loyalty/util/storage/sqldb/transactor"

	"github.com/shopspring/decimal"
)

type CustomerRepository interface {
	Upsert(ctx context.Context, id int64, name string) (*model.Customer, error)
	UpdatePhone(ctx context.Context, id int64, phone string) (bool, error)
	FindByID(ctx context.Context, id int64) (*model.Customer, error)
	FindByIDForUpdate(ctx context.Context, id int64) (*model.Customer, error)
	ApplyTransaction(ctx context.Context, id int64, amount decimal.Decimal, paidItemsAdded, freeItemsUsed, freeItemsEarned int) (*model.Customer, error)
	ListIDs(ctx context.Context) ([]int64, error)
	ListAll(ctx context.Context) ([]model.Customer, error)
}

type customerRepository struct {
	dbCtx transactor.DBTXContext
}

func NewCustomerRepository(dbCtx transactor.DBTXContext) CustomerRepository {
	return &customerRepository{
		dbCtx: dbCtx,
	}
}

func (r *customerRepository) Upsert(ctx context.Context, id int64, name string) (*model.Customer, error) {
	query := `
	INSERT INTO customers (id, name)
	VALUES ($1, $2)
	ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name
	RETURNING *
	`

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var customer model.Customer
	err := r.dbCtx(ctx).
		QueryRowxContext(ctx, query, id, name).
		StructScan(&customer)
	if err != nil {
		return nil, errs.HandleDBError(fmt.Errorf("an error occurred while upserting customer: %w", err))
	}
	return &customer, nil
}

func (r *customerRepository) UpdatePhone(ctx context.Context, id int64, phone string) (bool, error) {
	query := `UPDATE customers SET phone = $2 WHERE id = $1`

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	res, err := r.dbCtx(ctx).ExecContext(ctx, query, id, phone)
	if err != nil {
		return false, errs.HandleDBError(fmt.Errorf("an error occurred while updating customer phone: %w", err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, errs.HandleDBError(err)
	}
	return n > 0, nil
}

func (r *customerRepository) FindByID(ctx context.Context, id int64) (*model.Customer, error) {
	query := `
	SELECT *
	FROM customers
	WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	var customer model.Customer
	err := r.dbCtx(ctx).QueryRowxContext(ctx, query, id).StructScan(&customer)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errs.HandleDBError(fmt.Errorf("an error occurred while finding a customer by id: %w", err))
	}
	return &customer, nil
}

// FindByIDForUpdate locks the customer row for the rest of the enclosing
// transaction so concurrent redemptions serialize per customer.
func (r *customerRepository) FindByIDForUpdate(ctx context.Context, id int64) (*model.Customer, error) {
	query := `
	SELECT *
	FROM customers
	WHERE id = $1
	FOR UPDATE
	`

	ctx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	var customer model.Customer
	err := r.dbCtx(ctx).QueryRowxContext(ctx, query, id).StructScan(&customer)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errs.HandleDBError(fmt.Errorf("an error occurred while locking a customer by id: %w", err))
	}
	return &customer, nil
}

// ApplyTransaction mutates all three balances in one conditional statement.
// The free-credit guard is re-checked by the statement itself; a nil result
// means the guard failed (or the row vanished) and nothing was changed.
func (r *customerRepository) ApplyTransaction(ctx context.Context, id int64, amount decimal.Decimal, paidItemsAdded, freeItemsUsed, freeItemsEarned int) (*model.Customer, error) {
	query := `
	UPDATE customers
	SET total_spent = total_spent + $2,
	    paid_count  = paid_count + $3,
	    free_credit = free_credit - $4 + $5
	WHERE id = $1 AND free_credit >= $4
	RETURNING *
	`

	ctx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	var customer model.Customer
	err := r.dbCtx(ctx).
		QueryRowxContext(ctx, query, id, amount, paidItemsAdded, freeItemsUsed, freeItemsEarned).
		StructScan(&customer)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errs.HandleDBError(fmt.Errorf("an error occurred while applying a transaction: %w", err))
	}
	return &customer, nil
}

func (r *customerRepository) ListIDs(ctx context.Context) ([]int64, error) {
	query := `SELECT id FROM customers ORDER BY id`

	ctx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	var ids []int64
	if err := r.dbCtx(ctx).SelectContext(ctx, &ids, query); err != nil {
		return nil, errs.HandleDBError(fmt.Errorf("an error occurred while listing customer ids: %w", err))
	}
	return ids, nil
}

func (r *customerRepository) ListAll(ctx context.Context) ([]model.Customer, error) {
	query := `SELECT * FROM customers ORDER BY registered_at ASC`

	ctx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	var customers []model.Customer
	if err := r.dbCtx(ctx).SelectContext(ctx, &customers, query); err != nil {
		return nil, errs.HandleDBError(fmt.Errorf("an error occurred while listing customers: %w", err))
	}
	return customers, nil
}
