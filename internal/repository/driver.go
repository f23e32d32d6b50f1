package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"orderdesk/internal/apperr"
	"orderdesk/internal/domain"
)

// DriverRepo represents the driver registry on Postgres.
type DriverRepo struct{ db *pgxpool.Pool }

// NewDriverRepo creates a new DriverRepo.
func NewDriverRepo(db *pgxpool.Pool) *DriverRepo { return &DriverRepo{db: db} }

// Get - returns driver by its ID, or nil when it does not exist.
func (r *DriverRepo) Get(ctx context.Context, id int64) (*domain.Driver, error) {
	var d domain.Driver
	err := r.db.QueryRow(ctx,
		`SELECT id, name, phone, manually_offline, active_deliveries FROM drivers WHERE id=$1`, id,
	).Scan(&d.ID, &d.Name, &d.Phone, &d.ManuallyOffline, &d.ActiveDeliveries)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get driver %d: %w", id, err)
	}
	return &d, nil
}

// List returns all drivers ordered by id.
func (r *DriverRepo) List(ctx context.Context) ([]domain.Driver, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, phone, manually_offline, active_deliveries FROM drivers ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list drivers: %w", err)
	}
	defer rows.Close()

	var out []domain.Driver
	for rows.Next() {
		var d domain.Driver
		if err := rows.Scan(&d.ID, &d.Name, &d.Phone, &d.ManuallyOffline, &d.ActiveDeliveries); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Create - creates a new driver.
func (r *DriverRepo) Create(ctx context.Context, d *domain.Driver) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx,
		`INSERT INTO drivers(name, phone) VALUES($1, $2) RETURNING id`,
		d.Name, d.Phone).Scan(&id)
	if err != nil {
		if IsDuplicate(err) {
			return 0, apperr.ErrConflict
		}
		return 0, fmt.Errorf("create driver: %w", err)
	}
	return id, nil
}

// UpdatePartial applies a partial update to a driver and returns true if a row was affected.
func (r *DriverRepo) UpdatePartial(ctx context.Context, u domain.PartialDriverUpdate) (bool, error) {
	ct, err := r.db.Exec(ctx, `
        UPDATE drivers
        SET
            name  = COALESCE($2, name),
            phone = COALESCE($3, phone)
        WHERE id = $1
    `, u.ID, u.Name, u.Phone)
	if err != nil {
		if IsDuplicate(err) {
			return false, apperr.ErrConflict
		}
		return false, fmt.Errorf("update driver %d: %w", u.ID, err)
	}
	return ct.RowsAffected() > 0, nil
}

// SetManuallyOffline flips the operator override flag.
func (r *DriverRepo) SetManuallyOffline(ctx context.Context, id int64, offline bool) error {
	ct, err := r.db.Exec(ctx,
		`UPDATE drivers SET manually_offline = $2 WHERE id = $1`, id, offline)
	if err != nil {
		return fmt.Errorf("set driver %d offline=%t: %w", id, offline, err)
	}
	if ct.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// Delete removes a driver. Drivers with outstanding deliveries are kept.
func (r *DriverRepo) Delete(ctx context.Context, id int64) error {
	ct, err := r.db.Exec(ctx,
		`DELETE FROM drivers WHERE id = $1 AND active_deliveries = 0`, id)
	if err != nil {
		return fmt.Errorf("delete driver %d: %w", id, err)
	}
	if ct.RowsAffected() == 0 {
		d, getErr := r.Get(ctx, id)
		if getErr != nil {
			return getErr
		}
		if d != nil {
			return apperr.ErrConflict
		}
		return apperr.ErrNotFound
	}
	return nil
}
