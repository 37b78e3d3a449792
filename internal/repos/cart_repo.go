package repos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"tablepos/internal/domain"
)

type CartRepo struct{ db Queryer }

func NewCartRepo(db Queryer) *CartRepo { return &CartRepo{db: db} }

func (r *CartRepo) EnsureCart(ctx context.Context, sessionID string, now time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO carts(session_id, updated_at) VALUES(?, ?)
		ON CONFLICT(session_id) DO NOTHING
	`, sessionID, formatTime(now))
	return err
}

// Load returns the session's cart in insertion order. A missing cart is empty.
func (r *CartRepo) Load(ctx context.Context, sessionID string) (domain.Cart, error) {
	var lines []domain.CartLine
	err := sqlx.SelectContext(ctx, r.db, &lines, `
		SELECT item_id, qty
		FROM cart_items
		WHERE session_id = ?
		ORDER BY position
	`, sessionID)
	if err != nil {
		return domain.Cart{}, err
	}
	if len(lines) == 0 {
		lines = nil
	}
	return domain.Cart{Lines: lines}, nil
}

// Save replaces the stored lines with cart. Callers run it inside Store.InTx.
func (r *CartRepo) Save(ctx context.Context, sessionID string, cart domain.Cart, now time.Time) error {
	if err := r.EnsureCart(ctx, sessionID, now); err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE session_id = ?`, sessionID); err != nil {
		return err
	}
	for i, l := range cart.Lines {
		if _, err := r.db.ExecContext(ctx, `
			INSERT INTO cart_items(session_id, item_id, qty, position) VALUES(?,?,?,?)
		`, sessionID, l.ItemID, l.Quantity, i); err != nil {
			return err
		}
	}
	_, err := r.db.ExecContext(ctx, `UPDATE carts SET updated_at = ? WHERE session_id = ?`, formatTime(now), sessionID)
	return err
}

func (r *CartRepo) Clear(ctx context.Context, sessionID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE session_id = ?`, sessionID)
	return err
}
