package repos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"tablepos/internal/domain"
	"tablepos/internal/pos"
)

type OrderRepo struct{ db Queryer }

func NewOrderRepo(db Queryer) *OrderRepo { return &OrderRepo{db: db} }

const orderCols = `id, customer_name, party_size, subtotal, discount_total, tax_rate, tax, total, status, table_id, created_at, updated_at, version`

type orderRow struct {
	ID            string          `db:"id"`
	CustomerName  string          `db:"customer_name"`
	PartySize     int             `db:"party_size"`
	Subtotal      decimal.Decimal `db:"subtotal"`
	DiscountTotal decimal.Decimal `db:"discount_total"`
	TaxRate       decimal.Decimal `db:"tax_rate"`
	Tax           decimal.Decimal `db:"tax"`
	Total         decimal.Decimal `db:"total"`
	Status        string          `db:"status"`
	TableID       sql.NullString  `db:"table_id"`
	CreatedAt     string          `db:"created_at"`
	UpdatedAt     string          `db:"updated_at"`
	Version       int             `db:"version"`
}

type orderLineRow struct {
	OrderID       string              `db:"order_id"`
	ItemID        string              `db:"item_id"`
	Name          string              `db:"name"`
	UnitPrice     decimal.Decimal     `db:"unit_price"`
	OriginalPrice decimal.NullDecimal `db:"original_price"`
	Qty           int                 `db:"qty"`
}

func (row orderRow) toDomain() (domain.Order, error) {
	created, err := parseTime(row.CreatedAt)
	if err != nil {
		return domain.Order{}, err
	}
	updated, err := parseTime(row.UpdatedAt)
	if err != nil {
		return domain.Order{}, err
	}
	return domain.Order{
		ID:            row.ID,
		CustomerName:  row.CustomerName,
		PartySize:     row.PartySize,
		Subtotal:      row.Subtotal,
		DiscountTotal: row.DiscountTotal,
		TaxRate:       row.TaxRate,
		Tax:           row.Tax,
		Total:         row.Total,
		Status:        domain.OrderStatus(row.Status),
		TableID:       row.TableID.String,
		CreatedAt:     created,
		UpdatedAt:     updated,
		Version:       row.Version,
	}, nil
}

// Insert writes the order header and its line snapshot.
func (r *OrderRepo) Insert(ctx context.Context, o domain.Order) error {
	seq, ok := pos.ParseOrderID(o.ID)
	if !ok {
		return fmt.Errorf("%w: order id %q", pos.ErrInvalidInput, o.ID)
	}
	if _, err := r.db.ExecContext(ctx, `
		INSERT INTO orders(id, seq, customer_name, party_size, subtotal, discount_total, tax_rate, tax, total,
		                   status, table_id, created_at, updated_at, version)
		VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?,0)
	`, o.ID, seq, o.CustomerName, o.PartySize, o.Subtotal, o.DiscountTotal, o.TaxRate, o.Tax, o.Total,
		string(o.Status), nullString(o.TableID), formatTime(o.CreatedAt), formatTime(o.UpdatedAt)); err != nil {
		return err
	}
	for i, l := range o.Lines {
		if _, err := r.db.ExecContext(ctx, `
			INSERT INTO order_lines(order_id, position, item_id, name, unit_price, original_price, qty)
			VALUES(?,?,?,?,?,?,?)
		`, o.ID, i, l.ItemID, l.Name, l.UnitPrice, l.OriginalPrice, l.Quantity); err != nil {
			return err
		}
	}
	return nil
}

func (r *OrderRepo) Get(ctx context.Context, id string) (domain.Order, error) {
	var row orderRow
	err := sqlx.GetContext(ctx, r.db, &row, `SELECT `+orderCols+` FROM orders WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Order{}, fmt.Errorf("%w: %s", pos.ErrOrderNotFound, id)
	}
	if err != nil {
		return domain.Order{}, err
	}
	out, err := r.withLines(ctx, []orderRow{row})
	if err != nil {
		return domain.Order{}, err
	}
	return out[0], nil
}

// OrderFilter narrows List. No statuses means every status.
type OrderFilter struct {
	Statuses []domain.OrderStatus
	Limit    int
}

// List returns orders newest first.
func (r *OrderRepo) List(ctx context.Context, f OrderFilter) ([]domain.Order, error) {
	query := `SELECT ` + orderCols + ` FROM orders`
	var args []any
	if len(f.Statuses) > 0 {
		marks := strings.TrimSuffix(strings.Repeat("?,", len(f.Statuses)), ",")
		query += ` WHERE status IN (` + marks + `)`
		for _, s := range f.Statuses {
			args = append(args, string(s))
		}
	}
	query += ` ORDER BY seq DESC`
	if f.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, f.Limit)
	}

	var rows []orderRow
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, args...); err != nil {
		return nil, err
	}
	return r.withLines(ctx, rows)
}

func (r *OrderRepo) withLines(ctx context.Context, rows []orderRow) ([]domain.Order, error) {
	out := make([]domain.Order, 0, len(rows))
	if len(rows) == 0 {
		return out, nil
	}
	ids := make([]string, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}

	query, args, err := sqlx.In(`
		SELECT order_id, item_id, name, unit_price, original_price, qty
		FROM order_lines
		WHERE order_id IN (?)
		ORDER BY order_id, position
	`, ids)
	if err != nil {
		return nil, err
	}
	var lines []orderLineRow
	if err := sqlx.SelectContext(ctx, r.db, &lines, r.db.Rebind(query), args...); err != nil {
		return nil, err
	}
	byOrder := make(map[string][]domain.OrderLine, len(rows))
	for _, l := range lines {
		byOrder[l.OrderID] = append(byOrder[l.OrderID], domain.OrderLine{
			ItemID:        l.ItemID,
			Name:          l.Name,
			UnitPrice:     l.UnitPrice,
			OriginalPrice: l.OriginalPrice,
			Quantity:      l.Qty,
		})
	}

	for _, row := range rows {
		o, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		o.Lines = byOrder[o.ID]
		out = append(out, o)
	}
	return out, nil
}

// UpdateStatus persists o.Status if the stored version still equals o.Version.
// On success o.Version is bumped.
func (r *OrderRepo) UpdateStatus(ctx context.Context, o *domain.Order) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET status = ?, updated_at = ?, version = version + 1
		WHERE id = ? AND version = ?
	`, string(o.Status), formatTime(o.UpdatedAt), o.ID, o.Version)
	if err := mustAffect(res, err, pos.ErrConflict, o.ID); err != nil {
		return err
	}
	o.Version++
	return nil
}

// MaxSequence is the highest order number ever issued, 0 on an empty store.
func (r *OrderRepo) MaxSequence(ctx context.Context) (int64, error) {
	var n int64
	err := sqlx.GetContext(ctx, r.db, &n, `SELECT COALESCE(MAX(seq), 0) FROM orders`)
	return n, err
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
