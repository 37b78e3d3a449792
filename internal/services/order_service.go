package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"tablepos/internal/domain"
	applog "tablepos/internal/log"
	"tablepos/internal/pos"
	"tablepos/internal/repos"
)

type OrderService struct {
	Store   *repos.Store
	Seq     pos.Sequence
	TaxRate decimal.Decimal
	Clock   Clock

	mu sync.Mutex
}

func NewOrderService(store *repos.Store, seq pos.Sequence, taxRate decimal.Decimal, clock Clock) *OrderService {
	return &OrderService{Store: store, Seq: seq, TaxRate: taxRate, Clock: clock}
}

// Place turns the session's cart into an order. When info.TableID is set the
// table must already be seated; the order is linked to it in the same
// transaction and the cart is emptied.
func (s *OrderService) Place(ctx context.Context, sessionID string, info pos.CustomerInfo) (_ domain.Order, err error) {
	ctx, span := startSpan(ctx, "OrderService.Place")
	defer func() { endSpan(span, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	var placed domain.Order
	err = s.Store.InTx(ctx, func(tx *repos.Store) error {
		cart, err := tx.Carts.Load(ctx, sessionID)
		if err != nil {
			return err
		}
		if len(cart.Lines) == 0 {
			return pos.ErrEmptyCart
		}
		cat, err := tx.Menu.Catalog(ctx)
		if err != nil {
			return err
		}

		var table domain.Table
		if info.TableID != "" {
			if table, err = tx.Tables.Get(ctx, info.TableID); err != nil {
				return err
			}
			if table.Status != domain.TableOccupied {
				return fmt.Errorf("%w: seat table %d before ordering", pos.ErrNotOccupied, table.Number)
			}
		}

		id, err := pos.NextOrderID(ctx, s.Seq)
		if err != nil {
			return err
		}
		o, err := pos.PlaceOrder(id, info, cart, cat, s.TaxRate, s.Clock.now())
		if err != nil {
			return err
		}
		if err := tx.Orders.Insert(ctx, o); err != nil {
			return err
		}
		if info.TableID != "" {
			if err := pos.LinkOrder(&table, o.ID); err != nil {
				return err
			}
			if err := tx.Tables.Save(ctx, &table); err != nil {
				return err
			}
		}
		if err := tx.Carts.Clear(ctx, sessionID); err != nil {
			return err
		}
		placed = o
		return nil
	})
	if err != nil {
		return domain.Order{}, err
	}

	applog.Audit(nil, "order_placed", map[string]any{
		"order_id": placed.ID,
		"items":    placed.ItemCount(),
		"total":    placed.Total.StringFixed(2),
		"table_id": placed.TableID,
	})
	return placed, nil
}

func (s *OrderService) Get(ctx context.Context, id string) (domain.Order, error) {
	return s.Store.Orders.Get(ctx, id)
}

// Tabs of the orders screen.
const (
	TabActive    = "active"
	TabCompleted = "completed"
	TabCancelled = "cancelled"
	TabAll       = "all"
)

type OrderQuery struct {
	Tab string
	Q   string
}

// OrderView is an order with the table number resolved for display.
type OrderView struct {
	domain.Order
	TableNumber int
}

// List returns the orders of one tab, newest first, narrowed by a
// case-insensitive match of q against order id, table number and status.
func (s *OrderService) List(ctx context.Context, q OrderQuery) ([]OrderView, error) {
	var f repos.OrderFilter
	switch strings.ToLower(q.Tab) {
	case "", TabAll:
	case TabActive:
		f.Statuses = []domain.OrderStatus{domain.StatusPreparing, domain.StatusReady, domain.StatusServed}
	case TabCompleted:
		f.Statuses = []domain.OrderStatus{domain.StatusCompleted}
	case TabCancelled:
		f.Statuses = []domain.OrderStatus{domain.StatusCancelled}
	default:
		return nil, fmt.Errorf("%w: tab %q", pos.ErrInvalidInput, q.Tab)
	}

	orders, err := s.Store.Orders.List(ctx, f)
	if err != nil {
		return nil, err
	}
	tables, err := s.Store.Tables.List(ctx)
	if err != nil {
		return nil, err
	}
	numbers := make(map[string]int, len(tables))
	for _, t := range tables {
		numbers[t.ID] = t.Number
	}

	needle := strings.ToLower(strings.TrimSpace(q.Q))
	out := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		v := OrderView{Order: o, TableNumber: numbers[o.TableID]}
		if needle != "" && !v.matches(needle) {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

func (v OrderView) matches(needle string) bool {
	if strings.Contains(strings.ToLower(v.ID), needle) || strings.Contains(strings.ToLower(string(v.Status)), needle) {
		return true
	}
	return v.TableNumber > 0 && strings.Contains(strconv.Itoa(v.TableNumber), needle)
}

// Advance moves the order one step along Preparing, Ready, Served, Completed.
// A terminal order is returned unchanged.
func (s *OrderService) Advance(ctx context.Context, id string) (_ domain.Order, err error) {
	ctx, span := startSpan(ctx, "OrderService.Advance")
	defer func() { endSpan(span, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		o     domain.Order
		moved bool
		from  domain.OrderStatus
	)
	err = s.Store.InTx(ctx, func(tx *repos.Store) error {
		var err error
		if o, err = tx.Orders.Get(ctx, id); err != nil {
			return err
		}
		from = o.Status
		if moved = pos.Advance(&o, s.Clock.now()); !moved {
			return nil
		}
		return tx.Orders.UpdateStatus(ctx, &o)
	})
	if err != nil {
		return domain.Order{}, err
	}
	if moved {
		applog.Audit(nil, "order_status_changed", map[string]any{"order_id": id, "from": from, "to": o.Status})
	}
	return o, nil
}

// Cancel voids a non-terminal order. A table still pointing at it keeps its
// guests but drops the link.
func (s *OrderService) Cancel(ctx context.Context, id string) (_ domain.Order, err error) {
	ctx, span := startSpan(ctx, "OrderService.Cancel")
	defer func() { endSpan(span, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	var o domain.Order
	err = s.Store.InTx(ctx, func(tx *repos.Store) error {
		var err error
		if o, err = tx.Orders.Get(ctx, id); err != nil {
			return err
		}
		if err := pos.Cancel(&o, s.Clock.now()); err != nil {
			return err
		}
		if err := tx.Orders.UpdateStatus(ctx, &o); err != nil {
			return err
		}
		if o.TableID == "" {
			return nil
		}
		t, err := tx.Tables.Get(ctx, o.TableID)
		if errors.Is(err, pos.ErrTableNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if t.CurrentOrderID != o.ID {
			return nil
		}
		t.CurrentOrderID = ""
		return tx.Tables.Save(ctx, &t)
	})
	if err != nil {
		return domain.Order{}, err
	}
	applog.Audit(nil, "order_cancelled", map[string]any{"order_id": id})
	return o, nil
}
