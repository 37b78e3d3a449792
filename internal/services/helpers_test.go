package services_test

import (
	"context"
	"testing"
	"time"

	"tablepos/internal/domain"
	"tablepos/internal/pos"
	"tablepos/internal/repos"
	"tablepos/internal/services"
)

var lunch = time.Date(2026, 3, 6, 12, 30, 0, 0, time.UTC)

type env struct {
	store    *repos.Store
	menu     *services.MenuService
	cart     *services.CartService
	orders   *services.OrderService
	tables   *services.TableService
	payments *services.PaymentService
	reports  *services.ReportService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })

	store := repos.NewStore(db)
	clock := services.Clock(func() time.Time { return lunch })
	return &env{
		store:    store,
		menu:     services.NewMenuService(store, clock),
		cart:     services.NewCartService(store, pos.DefaultTaxRate, clock),
		orders:   services.NewOrderService(store, pos.NewCounter(0), pos.DefaultTaxRate, clock),
		tables:   services.NewTableService(store, clock),
		payments: services.NewPaymentService(store, clock),
		reports:  services.NewReportService(store, clock),
	}
}

// tableByNumber finds a seeded table.
func (e *env) tableByNumber(t *testing.T, n int) domain.Table {
	t.Helper()
	tables, err := e.tables.List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	for _, tb := range tables {
		if tb.Number == n {
			return tb
		}
	}
	t.Fatalf("no table %d", n)
	return domain.Table{}
}

// order fills the session cart and places it.
func (e *env) order(t *testing.T, sid string, info pos.CustomerInfo, items ...string) domain.Order {
	t.Helper()
	ctx := context.Background()
	for _, id := range items {
		if _, err := e.cart.Add(ctx, sid, id); err != nil {
			t.Fatalf("add %s: %v", id, err)
		}
	}
	o, err := e.orders.Place(ctx, sid, info)
	if err != nil {
		t.Fatal(err)
	}
	return o
}
