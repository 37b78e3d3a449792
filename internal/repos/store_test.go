package repos_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"tablepos/internal/domain"
	"tablepos/internal/repos"
)

func TestStore_InTxRollsBack(t *testing.T) {
	_, st := openStore(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := st.InTx(ctx, func(tx *repos.Store) error {
		placeTestOrder(t, tx, 1, "")
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("want boom, got %v", err)
	}
	if n, _ := st.Orders.MaxSequence(ctx); n != 0 {
		t.Fatalf("rolled back order still visible (seq %d)", n)
	}

	err = st.InTx(ctx, func(tx *repos.Store) error {
		placeTestOrder(t, tx, 1, "")
		// nested call joins the open transaction
		return tx.InTx(ctx, func(inner *repos.Store) error {
			return inner.Payments.Insert(ctx, domain.Payment{
				ID: "pay-1", OrderID: "ORD-001", Method: domain.PayCash,
				Subtotal: decimal.RequireFromString("14.97"), Tax: decimal.RequireFromString("1.1976"),
				TipAmount: decimal.Zero, GrandTotal: decimal.RequireFromString("16.1676"), PaidAt: time.Now(),
			})
		})
	})
	if err != nil {
		t.Fatal(err)
	}
	p, ok, err := st.Payments.ByOrder(ctx, "ORD-001")
	if err != nil || !ok {
		t.Fatalf("payment missing: %v", err)
	}
	if p.Method != domain.PayCash || !p.GrandTotal.Equal(decimal.RequireFromString("16.1676")) {
		t.Fatalf("unexpected payment: %+v", p)
	}
}
