package repos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"tablepos/internal/domain"
)

type PaymentRepo struct{ db Queryer }

func NewPaymentRepo(db Queryer) *PaymentRepo { return &PaymentRepo{db: db} }

type paymentRow struct {
	ID         string          `db:"id"`
	OrderID    string          `db:"order_id"`
	Method     string          `db:"method"`
	Subtotal   decimal.Decimal `db:"subtotal"`
	Tax        decimal.Decimal `db:"tax"`
	TipAmount  decimal.Decimal `db:"tip_amount"`
	GrandTotal decimal.Decimal `db:"grand_total"`
	PaidAt     string          `db:"paid_at"`
}

func (row paymentRow) toDomain() (domain.Payment, error) {
	paid, err := parseTime(row.PaidAt)
	if err != nil {
		return domain.Payment{}, err
	}
	return domain.Payment{
		ID:         row.ID,
		OrderID:    row.OrderID,
		Method:     domain.PaymentMethod(row.Method),
		Subtotal:   row.Subtotal,
		Tax:        row.Tax,
		TipAmount:  row.TipAmount,
		GrandTotal: row.GrandTotal,
		PaidAt:     paid,
	}, nil
}

func (r *PaymentRepo) Insert(ctx context.Context, p domain.Payment) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO payments(id, order_id, method, subtotal, tax, tip_amount, grand_total, paid_at)
		VALUES(?,?,?,?,?,?,?,?)
	`, p.ID, p.OrderID, string(p.Method), p.Subtotal, p.Tax, p.TipAmount, p.GrandTotal, formatTime(p.PaidAt))
	return err
}

// ByOrder reports the payment settled against orderID; ok is false while the
// order is unpaid.
func (r *PaymentRepo) ByOrder(ctx context.Context, orderID string) (p domain.Payment, ok bool, err error) {
	var row paymentRow
	err = sqlx.GetContext(ctx, r.db, &row, `
		SELECT id, order_id, method, subtotal, tax, tip_amount, grand_total, paid_at
		FROM payments WHERE order_id = ?
	`, orderID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Payment{}, false, nil
	}
	if err != nil {
		return domain.Payment{}, false, err
	}
	p, err = row.toDomain()
	return p, err == nil, err
}

func (r *PaymentRepo) List(ctx context.Context) ([]domain.Payment, error) {
	var rows []paymentRow
	if err := sqlx.SelectContext(ctx, r.db, &rows, `
		SELECT id, order_id, method, subtotal, tax, tip_amount, grand_total, paid_at
		FROM payments ORDER BY paid_at DESC
	`); err != nil {
		return nil, err
	}
	out := make([]domain.Payment, 0, len(rows))
	for _, row := range rows {
		p, err := row.toDomain()
		if err != nil {
			return nil, fmt.Errorf("payment %s: %w", row.ID, err)
		}
		out = append(out, p)
	}
	return out, nil
}
