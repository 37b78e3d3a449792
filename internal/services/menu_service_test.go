package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"tablepos/internal/domain"
	"tablepos/internal/pos"
	"tablepos/internal/repos"
)

func TestMenuService_CreateValidatesAndAssignsID(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	if _, err := e.menu.Create(ctx, domain.MenuItem{Name: "Soup", Category: "Appetizer", UnitPrice: dec("5"), OriginalPrice: decimal.NewNullDecimal(dec("4"))}); !errors.Is(err, pos.ErrInvalidInput) {
		t.Fatalf("want ErrInvalidInput, got %v", err)
	}

	it, err := e.menu.Create(ctx, domain.MenuItem{Name: " Tomato Soup ", Category: "Appetizer", UnitPrice: dec("5.49"), AvailableCount: 10, Active: true})
	if err != nil {
		t.Fatal(err)
	}
	if it.ID == "" || it.Name != "Tomato Soup" {
		t.Fatalf("unexpected item: %+v", it)
	}
	got, err := e.menu.Get(ctx, it.ID)
	if err != nil || !got.UnitPrice.Equal(dec("5.49")) {
		t.Fatalf("stored item: %+v %v", got, err)
	}
}

func TestMenuService_PriceChangeDoesNotRepriceOrders(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	o := e.order(t, "sid", pos.CustomerInfo{Name: "Ana", PartySize: 1}, "iced-tea")

	tea, _ := e.menu.Get(ctx, "iced-tea")
	tea.UnitPrice = dec("3.49")
	if _, err := e.menu.Update(ctx, "iced-tea", tea); err != nil {
		t.Fatal(err)
	}

	again, err := e.orders.Get(ctx, o.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !again.Lines[0].UnitPrice.Equal(dec("2.99")) || !again.Subtotal.Equal(dec("2.99")) {
		t.Fatalf("order repriced: %+v", again)
	}
}

func TestMenuService_AvailabilityAndDelete(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, _ = e.cart.Add(ctx, "sid", "garlic-bread")
	it, err := e.menu.SetAvailability(ctx, "garlic-bread", false)
	if err != nil || it.Active {
		t.Fatalf("toggle: %+v %v", it, err)
	}
	if _, err := e.orders.Place(ctx, "sid", pos.CustomerInfo{Name: "Ana", PartySize: 1}); !errors.Is(err, pos.ErrItemUnavailable) {
		t.Fatalf("want ErrItemUnavailable, got %v", err)
	}

	if err := e.menu.Delete(ctx, "garlic-bread"); err != nil {
		t.Fatal(err)
	}
	v, _ := e.cart.View(ctx, "sid")
	if len(v.Lines) != 0 {
		t.Fatalf("deleted item left in cart: %+v", v.Lines)
	}
	items, _ := e.menu.List(ctx, repos.MenuFilter{Category: "Appetizer"})
	if len(items) != 1 {
		t.Fatalf("want 1 appetizer left, got %d", len(items))
	}
	if err := e.menu.Delete(ctx, "garlic-bread"); !errors.Is(err, pos.ErrItemNotFound) {
		t.Fatalf("want ErrItemNotFound, got %v", err)
	}
}
