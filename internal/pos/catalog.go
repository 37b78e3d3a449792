package pos

import (
	"fmt"
	"strings"

	"tablepos/internal/domain"
)

// Catalog is the read-only item lookup the engine prices against.
type Catalog interface {
	Item(id string) (domain.MenuItem, bool)
}

// MapCatalog is a Catalog snapshot keyed by item id.
type MapCatalog map[string]domain.MenuItem

func NewCatalog(items []domain.MenuItem) MapCatalog {
	c := make(MapCatalog, len(items))
	for _, it := range items {
		c[it.ID] = it
	}
	return c
}

func (c MapCatalog) Item(id string) (domain.MenuItem, bool) {
	it, ok := c[id]
	return it, ok
}

// ValidateItem checks a menu entry before it is written to the catalog.
func ValidateItem(it domain.MenuItem) error {
	switch {
	case strings.TrimSpace(it.Name) == "":
		return fmt.Errorf("%w: name required", ErrInvalidInput)
	case strings.TrimSpace(it.Category) == "":
		return fmt.Errorf("%w: category required", ErrInvalidInput)
	case it.UnitPrice.IsNegative():
		return fmt.Errorf("%w: unit price %s", ErrInvalidInput, it.UnitPrice)
	case it.OriginalPrice.Valid && !it.OriginalPrice.Decimal.GreaterThan(it.UnitPrice):
		return fmt.Errorf("%w: original price must exceed unit price", ErrInvalidInput)
	case it.DiscountPercent < 0 || it.DiscountPercent > 100:
		return fmt.Errorf("%w: discount %d%%", ErrInvalidInput, it.DiscountPercent)
	case it.AvailableCount < 0:
		return fmt.Errorf("%w: available count %d", ErrInvalidInput, it.AvailableCount)
	}
	return nil
}
