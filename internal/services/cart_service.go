package services

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"tablepos/internal/domain"
	"tablepos/internal/pos"
	"tablepos/internal/repos"
)

type CartService struct {
	Store   *repos.Store
	TaxRate decimal.Decimal
	Clock   Clock

	mu sync.Mutex
}

func NewCartService(store *repos.Store, taxRate decimal.Decimal, clock Clock) *CartService {
	return &CartService{Store: store, TaxRate: taxRate, Clock: clock}
}

type CartLineView struct {
	ItemID    string
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
	LineTotal decimal.Decimal
}

// CartView is the cart as the ordering screen shows it; totals are rounded
// for display.
type CartView struct {
	Lines     []CartLineView
	ItemCount int
	Totals    pos.Totals
}

func (s *CartService) View(ctx context.Context, sessionID string) (CartView, error) {
	cat, err := s.Store.Menu.Catalog(ctx)
	if err != nil {
		return CartView{}, err
	}
	cart, err := s.Store.Carts.Load(ctx, sessionID)
	if err != nil {
		return CartView{}, err
	}
	return s.view(cat, cart)
}

func (s *CartService) view(cat pos.Catalog, cart domain.Cart) (CartView, error) {
	totals, err := pos.ComputeTotals(cat, cart, s.TaxRate)
	if err != nil {
		return CartView{}, err
	}
	v := CartView{Lines: make([]CartLineView, 0, len(cart.Lines)), Totals: totals.Display()}
	for _, l := range cart.Lines {
		it, _ := cat.Item(l.ItemID)
		v.Lines = append(v.Lines, CartLineView{
			ItemID:    l.ItemID,
			Name:      it.Name,
			UnitPrice: it.UnitPrice,
			Quantity:  l.Quantity,
			LineTotal: it.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))).Round(2),
		})
		v.ItemCount += l.Quantity
	}
	return v, nil
}

// mutate loads the session cart, applies fn and saves the result in one
// transaction.
func (s *CartService) mutate(ctx context.Context, sessionID string, fn func(pos.Catalog, *domain.Cart) error) (CartView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out CartView
	err := s.Store.InTx(ctx, func(tx *repos.Store) error {
		cat, err := tx.Menu.Catalog(ctx)
		if err != nil {
			return err
		}
		cart, err := tx.Carts.Load(ctx, sessionID)
		if err != nil {
			return err
		}
		if err := fn(cat, &cart); err != nil {
			return err
		}
		if err := tx.Carts.Save(ctx, sessionID, cart, s.Clock.now()); err != nil {
			return err
		}
		out, err = s.view(cat, cart)
		return err
	})
	return out, err
}

func (s *CartService) Add(ctx context.Context, sessionID, itemID string) (CartView, error) {
	return s.mutate(ctx, sessionID, func(cat pos.Catalog, cart *domain.Cart) error {
		return pos.AddItem(cat, cart, itemID)
	})
}

func (s *CartService) UpdateQuantity(ctx context.Context, sessionID, itemID string, delta int) (CartView, error) {
	return s.mutate(ctx, sessionID, func(_ pos.Catalog, cart *domain.Cart) error {
		pos.UpdateQuantity(cart, itemID, delta)
		return nil
	})
}

func (s *CartService) Remove(ctx context.Context, sessionID, itemID string) (CartView, error) {
	return s.mutate(ctx, sessionID, func(_ pos.Catalog, cart *domain.Cart) error {
		pos.RemoveItem(cart, itemID)
		return nil
	})
}

func (s *CartService) Clear(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Store.Carts.Clear(ctx, sessionID)
}
