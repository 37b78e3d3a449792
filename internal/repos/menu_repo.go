package repos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"tablepos/internal/domain"
	"tablepos/internal/pos"
)

type MenuRepo struct{ db Queryer }

func NewMenuRepo(db Queryer) *MenuRepo { return &MenuRepo{db: db} }

const menuCols = `id, name, category, description, unit_price, original_price, discount_percent, available_count, active`

// MenuFilter narrows List. Empty fields match everything.
type MenuFilter struct {
	Category   string
	Q          string
	ActiveOnly bool
}

func (r *MenuRepo) List(ctx context.Context, f MenuFilter) ([]domain.MenuItem, error) {
	var (
		where []string
		args  []any
	)
	if f.Category != "" {
		where = append(where, `category = ?`)
		args = append(args, f.Category)
	}
	if q := strings.TrimSpace(f.Q); q != "" {
		where = append(where, `(LOWER(name) LIKE ? OR LOWER(description) LIKE ?)`)
		like := "%" + strings.ToLower(q) + "%"
		args = append(args, like, like)
	}
	if f.ActiveOnly {
		where = append(where, `active = 1`)
	}

	query := `SELECT ` + menuCols + ` FROM menu_items`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, ` AND `)
	}
	query += ` ORDER BY category, name`

	out := []domain.MenuItem{}
	if err := sqlx.SelectContext(ctx, r.db, &out, query, args...); err != nil {
		return nil, err
	}
	return out, nil
}

// Categories returns the distinct categories in display order.
func (r *MenuRepo) Categories(ctx context.Context) ([]string, error) {
	var out []string
	err := sqlx.SelectContext(ctx, r.db, &out, `SELECT DISTINCT category FROM menu_items ORDER BY category`)
	return out, err
}

func (r *MenuRepo) Get(ctx context.Context, id string) (domain.MenuItem, error) {
	var it domain.MenuItem
	err := sqlx.GetContext(ctx, r.db, &it, `SELECT `+menuCols+` FROM menu_items WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.MenuItem{}, fmt.Errorf("%w: %s", pos.ErrItemNotFound, id)
	}
	return it, err
}

// Catalog snapshots every item (active or not) for the pricing engine.
func (r *MenuRepo) Catalog(ctx context.Context) (pos.MapCatalog, error) {
	items, err := r.List(ctx, MenuFilter{})
	if err != nil {
		return nil, err
	}
	return pos.NewCatalog(items), nil
}

func (r *MenuRepo) Create(ctx context.Context, it domain.MenuItem, now time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO menu_items(`+menuCols+`, updated_at)
		VALUES(?,?,?,?,?,?,?,?,?,?)
	`, it.ID, it.Name, it.Category, it.Description, it.UnitPrice, it.OriginalPrice,
		it.DiscountPercent, it.AvailableCount, it.Active, formatTime(now))
	return err
}

func (r *MenuRepo) Update(ctx context.Context, it domain.MenuItem, now time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE menu_items
		SET name = ?, category = ?, description = ?, unit_price = ?, original_price = ?,
		    discount_percent = ?, available_count = ?, active = ?, updated_at = ?
		WHERE id = ?
	`, it.Name, it.Category, it.Description, it.UnitPrice, it.OriginalPrice,
		it.DiscountPercent, it.AvailableCount, it.Active, formatTime(now), it.ID)
	return mustAffect(res, err, pos.ErrItemNotFound, it.ID)
}

func (r *MenuRepo) SetActive(ctx context.Context, id string, active bool, now time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE menu_items SET active = ?, updated_at = ? WHERE id = ?`, active, formatTime(now), id)
	return mustAffect(res, err, pos.ErrItemNotFound, id)
}

// Delete removes the item and any cart lines still pointing at it. Placed
// orders keep their own snapshot.
func (r *MenuRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE item_id = ?`, id); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM menu_items WHERE id = ?`, id)
	return mustAffect(res, err, pos.ErrItemNotFound, id)
}
