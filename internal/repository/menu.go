package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"orderdesk/internal/domain"
)

// MenuRepo reads the menu catalog. The console core never writes it; the
// catalog is edited elsewhere and consumed here for category joins.
type MenuRepo struct{ db *pgxpool.Pool }

// NewMenuRepo creates a new MenuRepo.
func NewMenuRepo(db *pgxpool.Pool) *MenuRepo { return &MenuRepo{db: db} }

// List returns all catalog items ordered by id.
func (r *MenuRepo) List(ctx context.Context) ([]domain.MenuItem, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, category, price::text, available FROM menu_items ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list menu items: %w", err)
	}
	defer rows.Close()

	var out []domain.MenuItem
	for rows.Next() {
		var (
			m         domain.MenuItem
			priceText string
		)
		if err := rows.Scan(&m.ID, &m.Name, &m.Category, &priceText, &m.Available); err != nil {
			return nil, err
		}
		if m.Price, err = decimal.NewFromString(priceText); err != nil {
			return nil, fmt.Errorf("parse price %q: %w", priceText, err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
