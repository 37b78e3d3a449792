package pos_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"tablepos/internal/domain"
	"tablepos/internal/pos"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestComputeTotals_SaladAndTea(t *testing.T) {
	cat := testCatalog()
	cart := domain.Cart{Lines: []domain.CartLine{
		{ItemID: "caesar-salad", Quantity: 1},
		{ItemID: "iced-tea", Quantity: 2},
	}}

	got, err := pos.ComputeTotals(cat, cart, pos.DefaultTaxRate)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Subtotal.Equal(dec("14.97")) {
		t.Fatalf("subtotal: want 14.97, got %s", got.Subtotal)
	}
	if !got.Tax.Equal(dec("1.1976")) {
		t.Fatalf("tax must keep full precision: want 1.1976, got %s", got.Tax)
	}
	if !got.DiscountTotal.Equal(dec("2.51")) {
		t.Fatalf("discount: want 2.51, got %s", got.DiscountTotal)
	}
	if !got.Total.Equal(dec("16.1676")) {
		t.Fatalf("total: want 16.1676, got %s", got.Total)
	}

	shown := got.Display()
	if shown.Tax.StringFixed(2) != "1.20" || shown.Total.StringFixed(2) != "16.17" {
		t.Fatalf("display: want 1.20/16.17, got %s/%s", shown.Tax.StringFixed(2), shown.Total.StringFixed(2))
	}
}

func TestComputeTotals_Empty(t *testing.T) {
	got, err := pos.ComputeTotals(testCatalog(), domain.Cart{}, pos.DefaultTaxRate)
	if err != nil {
		t.Fatal(err)
	}
	for name, v := range map[string]decimal.Decimal{
		"subtotal": got.Subtotal, "discount": got.DiscountTotal, "tax": got.Tax, "total": got.Total,
	} {
		if !v.IsZero() {
			t.Fatalf("%s should be zero, got %s", name, v)
		}
	}
}

func TestComputeTotals_SubtotalIsSumOfLines(t *testing.T) {
	cat := testCatalog()
	carts := []domain.Cart{
		{Lines: []domain.CartLine{{ItemID: "tiramisu", Quantity: 7}}},
		{Lines: []domain.CartLine{{ItemID: "iced-tea", Quantity: 1}, {ItemID: "tiramisu", Quantity: 3}, {ItemID: "caesar-salad", Quantity: 4}}},
	}
	for _, c := range carts {
		want := decimal.Zero
		for _, l := range c.Lines {
			it, _ := cat.Item(l.ItemID)
			want = want.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
		}
		got, err := pos.ComputeTotals(cat, c, pos.DefaultTaxRate)
		if err != nil {
			t.Fatal(err)
		}
		if got.Subtotal.IsNegative() || !got.Subtotal.Equal(want) {
			t.Fatalf("want subtotal %s, got %s", want, got.Subtotal)
		}
	}
}

func TestComputeTotals_UnknownLine(t *testing.T) {
	cart := domain.Cart{Lines: []domain.CartLine{{ItemID: "ghost", Quantity: 1}}}
	if _, err := pos.ComputeTotals(testCatalog(), cart, pos.DefaultTaxRate); !errors.Is(err, pos.ErrItemNotFound) {
		t.Fatalf("want ErrItemNotFound, got %v", err)
	}
}

func TestComputePayment(t *testing.T) {
	subtotal := dec("38.50")

	cases := []struct {
		name      string
		tip       pos.Tip
		wantTip   string
		wantGrand string
		wantErr   error
	}{
		{"fifteen percent", pos.PercentTip(dec("0.15")), "5.775", "47.355", nil},
		{"twenty percent", pos.PercentTip(dec("0.20")), "7.7", "49.28", nil},
		{"custom", pos.CustomTip(dec("5")), "5", "46.58", nil},
		{"no tip", pos.Tip{}, "0", "41.58", nil},
		{"negative custom", pos.CustomTip(dec("-1")), "", "", pos.ErrInvalidInput},
		{"percent over one", pos.PercentTip(dec("1.5")), "", "", pos.ErrInvalidInput},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			got, err := pos.ComputePayment(subtotal, pos.DefaultTaxRate, tt.tip)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("want %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if !got.Tax.Equal(dec("3.08")) {
				t.Fatalf("tax: want 3.08, got %s", got.Tax)
			}
			if !got.TipAmount.Equal(dec(tt.wantTip)) || !got.GrandTotal.Equal(dec(tt.wantGrand)) {
				t.Fatalf("want tip %s grand %s, got %s %s", tt.wantTip, tt.wantGrand, got.TipAmount, got.GrandTotal)
			}
		})
	}
}

func TestPaymentDisplay_RoundsHalfUp(t *testing.T) {
	got, err := pos.ComputePayment(dec("38.50"), pos.DefaultTaxRate, pos.PercentTip(dec("0.15")))
	if err != nil {
		t.Fatal(err)
	}
	shown := got.Display()
	if shown.TipAmount.StringFixed(2) != "5.78" || shown.GrandTotal.StringFixed(2) != "47.36" {
		t.Fatalf("want 5.78/47.36, got %s/%s", shown.TipAmount.StringFixed(2), shown.GrandTotal.StringFixed(2))
	}
}
