package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"orderdesk/internal/apperr"
	"orderdesk/internal/domain"
	"orderdesk/internal/ports/dispatchtx"
)

// OrderRepo implements the order store contract on Postgres.
type OrderRepo struct {
	db *pgxpool.Pool
}

// NewOrderRepo creates a new OrderRepo.
func NewOrderRepo(db *pgxpool.Pool) *OrderRepo { return &OrderRepo{db: db} }

const orderColumns = `
    id, number, customer_name, status,
    payment_method, payment_status,
    delivery_type, delivery_fee::text,
    items, assigned_driver_id,
    delivery_departed_at, estimated_delivery_time,
    staff_notes, created_at, updated_at, version`

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var (
		o         domain.Order
		feeText   string
		itemsJSON []byte
		notesJSON []byte
	)
	err := row.Scan(
		&o.ID, &o.Number, &o.CustomerName, &o.Status,
		&o.Payment.Method, &o.Payment.Status,
		&o.Delivery.Type, &feeText,
		&itemsJSON, &o.AssignedDriverID,
		&o.DeliveryDepartedAt, &o.EstimatedDeliveryTime,
		&notesJSON, &o.CreatedAt, &o.UpdatedAt, &o.Version,
	)
	if err != nil {
		return nil, err
	}
	if o.Delivery.Fee, err = decimal.NewFromString(feeText); err != nil {
		return nil, fmt.Errorf("parse delivery fee %q: %w", feeText, err)
	}
	if len(itemsJSON) > 0 {
		if err := json.Unmarshal(itemsJSON, &o.Items); err != nil {
			return nil, fmt.Errorf("decode order items: %w", err)
		}
	}
	if len(notesJSON) > 0 {
		if err := json.Unmarshal(notesJSON, &o.StaffNotes); err != nil {
			return nil, fmt.Errorf("decode staff notes: %w", err)
		}
	}
	return &o, nil
}

// List returns all orders ordered oldest first, so the newest order is the
// last element (the ordering the intake monitor and UI queue rely on).
func (r *OrderRepo) List(ctx context.Context) ([]domain.Order, error) {
	rows, err := r.db.Query(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY created_at, number`)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var out []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

// Get returns an order by its ID, or nil when it does not exist.
func (r *OrderRepo) Get(ctx context.Context, id string) (*domain.Order, error) {
	o, err := scanOrder(r.db.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id=$1`, id))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order %s: %w", id, err)
	}
	return o, nil
}

// failUpdate distinguishes a stale version from a missing row after an
// update matched nothing.
func (r *OrderRepo) failUpdate(ctx context.Context, id string) error {
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM orders WHERE id=$1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("check order %s: %w", id, err)
	}
	if exists {
		return apperr.ErrConflict
	}
	return apperr.ErrNotFound
}

// UpdateStatus persists a status change guarded by the version token and
// returns the updated order.
func (r *OrderRepo) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus, version int64) (*domain.Order, error) {
	o, err := scanOrder(r.db.QueryRow(ctx, `
        UPDATE orders
        SET status = $2, updated_at = now(), version = version + 1
        WHERE id = $1 AND version = $3
        RETURNING `+orderColumns, id, status, version))
	if err != nil {
		if IsNotFound(err) {
			return nil, r.failUpdate(ctx, id)
		}
		return nil, fmt.Errorf("update order %s status: %w", id, err)
	}
	return o, nil
}

// StartDelivery stamps departure and ETA and moves the order to the
// delivery status in a single guarded update.
func (r *OrderRepo) StartDelivery(ctx context.Context, id string, departedAt, eta time.Time, version int64) (*domain.Order, error) {
	o, err := scanOrder(r.db.QueryRow(ctx, `
        UPDATE orders
        SET status = $2,
            delivery_departed_at = $3,
            estimated_delivery_time = $4,
            updated_at = now(),
            version = version + 1
        WHERE id = $1 AND version = $5
        RETURNING `+orderColumns, id, domain.StatusDelivery, departedAt, eta, version))
	if err != nil {
		if IsNotFound(err) {
			return nil, r.failUpdate(ctx, id)
		}
		return nil, fmt.Errorf("start delivery for order %s: %w", id, err)
	}
	return o, nil
}

// AppendStaffNote appends a note to the order's append-only note list.
func (r *OrderRepo) AppendStaffNote(ctx context.Context, id string, note domain.StaffNote) error {
	noteJSON, err := json.Marshal(note)
	if err != nil {
		return fmt.Errorf("encode staff note: %w", err)
	}
	ct, err := r.db.Exec(ctx, `
        UPDATE orders
        SET staff_notes = coalesce(staff_notes, '[]'::jsonb) || $2::jsonb,
            updated_at = now(),
            version = version + 1
        WHERE id = $1
    `, id, noteJSON)
	if err != nil {
		return fmt.Errorf("append staff note to order %s: %w", id, err)
	}
	if ct.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// WithTx opens a transaction and executes fn within it.
func (r *OrderRepo) WithTx(ctx context.Context, fn func(tx dispatchtx.Repository) error) (err error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			err = tx.Rollback(ctx)
			if err != nil {
				panic(err)
			}
			panic(p)
		}
	}()

	wrapped := &TxRepo{tx: tx}

	if err := fn(wrapped); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("rollback tx: %w (original error: %s)", rbErr, err.Error())
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// TxRepo implements the dispatch transaction port on a single pgx.Tx.
type TxRepo struct {
	tx pgx.Tx
}

var _ dispatchtx.Repository = (*TxRepo)(nil)

// GetOrderForUpdate loads an order and locks its row for the transaction.
func (r *TxRepo) GetOrderForUpdate(ctx context.Context, orderID string) (*domain.Order, error) {
	o, err := scanOrder(r.tx.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id=$1 FOR UPDATE`, orderID))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order %s for update: %w", orderID, err)
	}
	return o, nil
}

// SetOrderDriver points the order at a driver; nil unassigns.
func (r *TxRepo) SetOrderDriver(ctx context.Context, orderID string, driverID *int64) error {
	ct, err := r.tx.Exec(ctx, `
        UPDATE orders
        SET assigned_driver_id = $2, updated_at = now(), version = version + 1
        WHERE id = $1
    `, orderID, driverID)
	if err != nil {
		return fmt.Errorf("set driver on order %s: %w", orderID, err)
	}
	if ct.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// GetDriverForUpdate loads a driver and locks its row for the transaction.
func (r *TxRepo) GetDriverForUpdate(ctx context.Context, id int64) (*domain.Driver, error) {
	var d domain.Driver
	err := r.tx.QueryRow(ctx, `
        SELECT id, name, phone, manually_offline, active_deliveries
        FROM drivers WHERE id=$1 FOR UPDATE
    `, id).Scan(&d.ID, &d.Name, &d.Phone, &d.ManuallyOffline, &d.ActiveDeliveries)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get driver %d for update: %w", id, err)
	}
	return &d, nil
}

// AdjustDriverLoad changes a driver's active-delivery counter by delta,
// never letting it drop below zero.
func (r *TxRepo) AdjustDriverLoad(ctx context.Context, id int64, delta int) error {
	ct, err := r.tx.Exec(ctx, `
        UPDATE drivers
        SET active_deliveries = greatest(active_deliveries + $2, 0)
        WHERE id = $1
    `, id, delta)
	if err != nil {
		return fmt.Errorf("adjust load for driver %d: %w", id, err)
	}
	if ct.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}
