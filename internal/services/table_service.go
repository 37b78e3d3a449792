package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"tablepos/internal/domain"
	applog "tablepos/internal/log"
	"tablepos/internal/pos"
	"tablepos/internal/repos"
)

// DefaultSeats is used when a new table is added without a seat count.
const DefaultSeats = 4

type TableService struct {
	Store *repos.Store
	Clock Clock

	mu sync.Mutex
}

func NewTableService(store *repos.Store, clock Clock) *TableService {
	return &TableService{Store: store, Clock: clock}
}

func (s *TableService) List(ctx context.Context) ([]domain.Table, error) {
	return s.Store.Tables.List(ctx)
}

func (s *TableService) Get(ctx context.Context, id string) (domain.Table, error) {
	return s.Store.Tables.Get(ctx, id)
}

func (s *TableService) NextNumber(ctx context.Context) (int, error) {
	tables, err := s.Store.Tables.List(ctx)
	if err != nil {
		return 0, err
	}
	return pos.NextTableNumber(tables), nil
}

// NewTable is the add-table form. Nil fields take the defaults: one past the
// highest number, DefaultSeats seats.
type NewTable struct {
	Number *int
	Seats  *int
}

func (s *TableService) Add(ctx context.Context, in NewTable) (_ domain.Table, err error) {
	ctx, span := startSpan(ctx, "TableService.Add")
	defer func() { endSpan(span, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	var t domain.Table
	err = s.Store.InTx(ctx, func(tx *repos.Store) error {
		tables, err := tx.Tables.List(ctx)
		if err != nil {
			return err
		}
		number, seats := pos.NextTableNumber(tables), DefaultSeats
		if in.Number != nil {
			number = *in.Number
		}
		if in.Seats != nil {
			seats = *in.Seats
		}
		if t, err = pos.NewTable(tables, uuid.NewString(), number, seats); err != nil {
			return err
		}
		return tx.Tables.Insert(ctx, t)
	})
	if err != nil {
		return domain.Table{}, err
	}
	applog.Audit(nil, "table_added", map[string]any{"table_id": t.ID, "number": t.Number, "seats": t.Seats})
	return t, nil
}

// update applies fn to table id and saves it under the read version.
func (s *TableService) update(ctx context.Context, id string, fn func(*domain.Table) error) (domain.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var t domain.Table
	err := s.Store.InTx(ctx, func(tx *repos.Store) error {
		var err error
		if t, err = tx.Tables.Get(ctx, id); err != nil {
			return err
		}
		if err := fn(&t); err != nil {
			return err
		}
		return tx.Tables.Save(ctx, &t)
	})
	if err != nil {
		return domain.Table{}, err
	}
	return t, nil
}

func (s *TableService) Seat(ctx context.Context, id string, partySize int, server string) (domain.Table, error) {
	t, err := s.update(ctx, id, func(t *domain.Table) error {
		return pos.SeatGuests(t, partySize, server, s.Clock.now())
	})
	if err != nil {
		return domain.Table{}, err
	}
	applog.Audit(nil, "table_seated", map[string]any{"table_id": id, "number": t.Number, "guests": partySize, "server": t.Server})
	return t, nil
}

// LinkOrder attaches an already placed order to a seated table.
func (s *TableService) LinkOrder(ctx context.Context, id, orderID string) (domain.Table, error) {
	if _, err := s.Store.Orders.Get(ctx, orderID); err != nil {
		return domain.Table{}, err
	}
	t, err := s.update(ctx, id, func(t *domain.Table) error {
		return pos.LinkOrder(t, orderID)
	})
	if err != nil {
		return domain.Table{}, err
	}
	applog.Audit(nil, "table_order_linked", map[string]any{"table_id": id, "order_id": orderID})
	return t, nil
}

func (s *TableService) Clear(ctx context.Context, id string) (domain.Table, error) {
	t, err := s.update(ctx, id, pos.ClearTable)
	if err != nil {
		return domain.Table{}, err
	}
	applog.Audit(nil, "table_cleared", map[string]any{"table_id": id, "number": t.Number})
	return t, nil
}

func (s *TableService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var number int
	err := s.Store.InTx(ctx, func(tx *repos.Store) error {
		t, err := tx.Tables.Get(ctx, id)
		if err != nil {
			return err
		}
		if err := pos.CheckDeletable(t); err != nil {
			return err
		}
		number = t.Number
		return tx.Tables.Delete(ctx, t)
	})
	if err != nil {
		return err
	}
	applog.Audit(nil, "table_deleted", map[string]any{"table_id": id, "number": number})
	return nil
}

// CurrentOrder returns the order linked to table id.
func (s *TableService) CurrentOrder(ctx context.Context, id string) (domain.Order, error) {
	t, err := s.Store.Tables.Get(ctx, id)
	if err != nil {
		return domain.Order{}, err
	}
	if t.CurrentOrderID == "" {
		return domain.Order{}, fmt.Errorf("%w: table %d has no open order", pos.ErrOrderNotFound, t.Number)
	}
	return s.Store.Orders.Get(ctx, t.CurrentOrderID)
}
