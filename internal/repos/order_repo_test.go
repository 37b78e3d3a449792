package repos_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"tablepos/internal/domain"
	"tablepos/internal/pos"
	"tablepos/internal/repos"
)

func placeTestOrder(t *testing.T, st *repos.Store, n int64, tableID string) domain.Order {
	t.Helper()
	ctx := context.Background()
	cat, err := st.Menu.Catalog(ctx)
	if err != nil {
		t.Fatal(err)
	}
	cart := domain.Cart{Lines: []domain.CartLine{
		{ItemID: "caesar-salad", Quantity: 1},
		{ItemID: "iced-tea", Quantity: 2},
	}}
	now := time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC).Add(time.Duration(n) * time.Minute)
	o, err := pos.PlaceOrder(pos.FormatOrderID(n), pos.CustomerInfo{Name: "Ana", PartySize: 2, TableID: tableID}, cart, cat, pos.DefaultTaxRate, now)
	if err != nil {
		t.Fatal(err)
	}
	if err := st.Orders.Insert(ctx, o); err != nil {
		t.Fatal(err)
	}
	return o
}

func TestOrderRepo_InsertGetRoundTrip(t *testing.T) {
	_, st := openStore(t)
	ctx := context.Background()
	want := placeTestOrder(t, st, 1, "")

	got, err := st.Orders.Get(ctx, "ORD-001")
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != domain.StatusPreparing || got.CustomerName != "Ana" || !got.CreatedAt.Equal(want.CreatedAt) {
		t.Fatalf("header mismatch: %+v", got)
	}
	if !got.Total.Equal(want.Total) || !got.Tax.Equal(want.Tax) {
		t.Fatalf("totals lost precision: %s %s", got.Total, got.Tax)
	}
	if len(got.Lines) != 2 || got.Lines[0].ItemID != "caesar-salad" || got.Lines[1].Quantity != 2 {
		t.Fatalf("lines mismatch: %+v", got.Lines)
	}
	if !got.Lines[0].OriginalPrice.Valid || got.Lines[1].OriginalPrice.Valid {
		t.Fatalf("original price snapshot wrong: %+v", got.Lines)
	}

	if _, err := st.Orders.Get(ctx, "ORD-404"); !errors.Is(err, pos.ErrOrderNotFound) {
		t.Fatalf("want ErrOrderNotFound, got %v", err)
	}
}

func TestOrderRepo_ListAndMaxSequence(t *testing.T) {
	_, st := openStore(t)
	ctx := context.Background()

	n, err := st.Orders.MaxSequence(ctx)
	if err != nil || n != 0 {
		t.Fatalf("empty store: want 0, got %d (%v)", n, err)
	}

	for i := int64(1); i <= 3; i++ {
		placeTestOrder(t, st, i, "")
	}
	o, _ := st.Orders.Get(ctx, "ORD-002")
	pos.Advance(&o, time.Now())
	pos.Advance(&o, time.Now())
	pos.Advance(&o, time.Now())
	if err := st.Orders.UpdateStatus(ctx, &o); err != nil {
		t.Fatal(err)
	}

	all, err := st.Orders.List(ctx, repos.OrderFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 || all[0].ID != "ORD-003" || len(all[2].Lines) != 2 {
		t.Fatalf("want newest first with lines, got %+v", all)
	}

	done, err := st.Orders.List(ctx, repos.OrderFilter{Statuses: []domain.OrderStatus{domain.StatusCompleted}})
	if err != nil {
		t.Fatal(err)
	}
	if len(done) != 1 || done[0].ID != "ORD-002" {
		t.Fatalf("unexpected completed list: %+v", done)
	}

	n, err = st.Orders.MaxSequence(ctx)
	if err != nil || n != 3 {
		t.Fatalf("want 3, got %d (%v)", n, err)
	}
}

func TestOrderRepo_StaleVersionConflicts(t *testing.T) {
	_, st := openStore(t)
	ctx := context.Background()
	placeTestOrder(t, st, 7, "")

	a, _ := st.Orders.Get(ctx, "ORD-007")
	b, _ := st.Orders.Get(ctx, "ORD-007")

	pos.Advance(&a, time.Now())
	if err := st.Orders.UpdateStatus(ctx, &a); err != nil {
		t.Fatal(err)
	}
	if err := pos.Cancel(&b, time.Now()); err != nil {
		t.Fatal(err)
	}
	if err := st.Orders.UpdateStatus(ctx, &b); !errors.Is(err, pos.ErrConflict) {
		t.Fatalf("want ErrConflict, got %v", err)
	}

	got, _ := st.Orders.Get(ctx, "ORD-007")
	if got.Status != domain.StatusReady || got.Version != 1 {
		t.Fatalf("want Ready v1, got %s v%d", got.Status, got.Version)
	}
}
