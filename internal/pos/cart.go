package pos

import (
	"fmt"

	"tablepos/internal/domain"
)

func lineIndex(cart *domain.Cart, itemID string) int {
	for i, l := range cart.Lines {
		if l.ItemID == itemID {
			return i
		}
	}
	return -1
}

// AddItem bumps the existing line for itemID by one, or appends a new line.
func AddItem(catalog Catalog, cart *domain.Cart, itemID string) error {
	it, ok := catalog.Item(itemID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrItemNotFound, itemID)
	}
	if !it.Active {
		return fmt.Errorf("%w: %s", ErrItemUnavailable, itemID)
	}
	if i := lineIndex(cart, itemID); i >= 0 {
		cart.Lines[i].Quantity++
		return nil
	}
	cart.Lines = append(cart.Lines, domain.CartLine{ItemID: itemID, Quantity: 1})
	return nil
}

// UpdateQuantity applies delta to the line; lines that drop to zero or below are removed.
func UpdateQuantity(cart *domain.Cart, itemID string, delta int) {
	i := lineIndex(cart, itemID)
	if i < 0 {
		return
	}
	q := cart.Lines[i].Quantity + delta
	if q <= 0 {
		RemoveItem(cart, itemID)
		return
	}
	cart.Lines[i].Quantity = q
}

func RemoveItem(cart *domain.Cart, itemID string) {
	i := lineIndex(cart, itemID)
	if i < 0 {
		return
	}
	if len(cart.Lines) == 1 {
		cart.Lines = nil
		return
	}
	lines := make([]domain.CartLine, 0, len(cart.Lines)-1)
	lines = append(lines, cart.Lines[:i]...)
	cart.Lines = append(lines, cart.Lines[i+1:]...)
}

func QuantityOf(cart domain.Cart, itemID string) int {
	if i := lineIndex(&cart, itemID); i >= 0 {
		return cart.Lines[i].Quantity
	}
	return 0
}
