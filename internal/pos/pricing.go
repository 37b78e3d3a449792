package pos

import (
	"fmt"

	"github.com/shopspring/decimal"

	"tablepos/internal/domain"
)

// DefaultTaxRate is the 8% sales tax the terminal was configured with.
var DefaultTaxRate = decimal.RequireFromString("0.08")

const displayPlaces = 2

// Totals keeps full precision; call Display before presenting.
type Totals struct {
	Subtotal      decimal.Decimal `json:"subtotal"`
	DiscountTotal decimal.Decimal `json:"discountTotal"`
	Tax           decimal.Decimal `json:"tax"`
	Total         decimal.Decimal `json:"total"`
}

func (t Totals) Display() Totals {
	return Totals{
		Subtotal:      t.Subtotal.Round(displayPlaces),
		DiscountTotal: t.DiscountTotal.Round(displayPlaces),
		Tax:           t.Tax.Round(displayPlaces),
		Total:         t.Total.Round(displayPlaces),
	}
}

// ComputeTotals prices the cart against the catalog. unitPrice already carries
// any discount, so discountTotal is informational and never subtracted again.
func ComputeTotals(catalog Catalog, cart domain.Cart, taxRate decimal.Decimal) (Totals, error) {
	var t Totals
	for _, l := range cart.Lines {
		it, ok := catalog.Item(l.ItemID)
		if !ok {
			return Totals{}, fmt.Errorf("%w: %s", ErrItemNotFound, l.ItemID)
		}
		qty := decimal.NewFromInt(int64(l.Quantity))
		t.Subtotal = t.Subtotal.Add(it.UnitPrice.Mul(qty))
		if it.OriginalPrice.Valid {
			t.DiscountTotal = t.DiscountTotal.Add(it.OriginalPrice.Decimal.Sub(it.UnitPrice).Mul(qty))
		}
	}
	t.Tax = t.Subtotal.Mul(taxRate)
	t.Total = t.Subtotal.Add(t.Tax)
	return t, nil
}

func linesTotals(lines []domain.OrderLine, taxRate decimal.Decimal) Totals {
	var t Totals
	for _, l := range lines {
		qty := decimal.NewFromInt(int64(l.Quantity))
		t.Subtotal = t.Subtotal.Add(l.UnitPrice.Mul(qty))
		if l.OriginalPrice.Valid {
			t.DiscountTotal = t.DiscountTotal.Add(l.OriginalPrice.Decimal.Sub(l.UnitPrice).Mul(qty))
		}
	}
	t.Tax = t.Subtotal.Mul(taxRate)
	t.Total = t.Subtotal.Add(t.Tax)
	return t
}

// Tip is either a percentage of the subtotal or a fixed custom amount.
// Percent wins when set.
type Tip struct {
	Percent *decimal.Decimal
	Custom  decimal.Decimal
}

func PercentTip(p decimal.Decimal) Tip { return Tip{Percent: &p} }

func CustomTip(v decimal.Decimal) Tip { return Tip{Custom: v} }

type PaymentSummary struct {
	Subtotal   decimal.Decimal `json:"subtotal"`
	Tax        decimal.Decimal `json:"tax"`
	TipAmount  decimal.Decimal `json:"tipAmount"`
	GrandTotal decimal.Decimal `json:"grandTotal"`
}

func (p PaymentSummary) Display() PaymentSummary {
	return PaymentSummary{
		Subtotal:   p.Subtotal.Round(displayPlaces),
		Tax:        p.Tax.Round(displayPlaces),
		TipAmount:  p.TipAmount.Round(displayPlaces),
		GrandTotal: p.GrandTotal.Round(displayPlaces),
	}
}

func ComputePayment(subtotal, taxRate decimal.Decimal, tip Tip) (PaymentSummary, error) {
	var amount decimal.Decimal
	if tip.Percent != nil {
		if tip.Percent.IsNegative() || tip.Percent.GreaterThan(decimal.NewFromInt(1)) {
			return PaymentSummary{}, fmt.Errorf("%w: tip percent %s", ErrInvalidInput, tip.Percent)
		}
		amount = subtotal.Mul(*tip.Percent)
	} else {
		if tip.Custom.IsNegative() {
			return PaymentSummary{}, fmt.Errorf("%w: tip %s", ErrInvalidInput, tip.Custom)
		}
		amount = tip.Custom
	}
	tax := subtotal.Mul(taxRate)
	return PaymentSummary{
		Subtotal:   subtotal,
		Tax:        tax,
		TipAmount:  amount,
		GrandTotal: subtotal.Add(tax).Add(amount),
	}, nil
}
