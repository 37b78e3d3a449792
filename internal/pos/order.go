package pos

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"tablepos/internal/domain"
)

type CustomerInfo struct {
	Name      string
	PartySize int
	TableID   string
}

// PlaceOrder commits cart into a new Order. Catalog prices are copied onto the
// lines so later menu edits never reprice a placed order.
func PlaceOrder(id string, info CustomerInfo, cart domain.Cart, catalog Catalog, taxRate decimal.Decimal, now time.Time) (domain.Order, error) {
	name := strings.TrimSpace(info.Name)
	if id == "" || name == "" || info.PartySize < 1 {
		return domain.Order{}, fmt.Errorf("%w: customer name and party size are required", ErrInvalidInput)
	}
	if taxRate.IsNegative() {
		return domain.Order{}, fmt.Errorf("%w: tax rate %s", ErrInvalidInput, taxRate)
	}
	if len(cart.Lines) == 0 {
		return domain.Order{}, ErrEmptyCart
	}

	lines := make([]domain.OrderLine, 0, len(cart.Lines))
	for _, l := range cart.Lines {
		it, ok := catalog.Item(l.ItemID)
		if !ok {
			return domain.Order{}, fmt.Errorf("%w: %s", ErrItemNotFound, l.ItemID)
		}
		if !it.Active {
			return domain.Order{}, fmt.Errorf("%w: %s", ErrItemUnavailable, it.Name)
		}
		if l.Quantity < 1 {
			return domain.Order{}, fmt.Errorf("%w: quantity %d for %s", ErrInvalidInput, l.Quantity, l.ItemID)
		}
		lines = append(lines, domain.OrderLine{
			ItemID:        it.ID,
			Name:          it.Name,
			UnitPrice:     it.UnitPrice,
			OriginalPrice: it.OriginalPrice,
			Quantity:      l.Quantity,
		})
	}

	t := linesTotals(lines, taxRate)
	return domain.Order{
		ID:            id,
		CustomerName:  name,
		PartySize:     info.PartySize,
		Lines:         lines,
		Subtotal:      t.Subtotal,
		DiscountTotal: t.DiscountTotal,
		TaxRate:       taxRate,
		Tax:           t.Tax,
		Total:         t.Total,
		Status:        domain.StatusPreparing,
		TableID:       info.TableID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// OrderTotals recomputes the totals of a placed order from its captured lines.
func OrderTotals(o domain.Order) Totals {
	return linesTotals(o.Lines, o.TaxRate)
}
