package services

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"tablepos/internal/domain"
	applog "tablepos/internal/log"
	"tablepos/internal/pos"
	"tablepos/internal/repos"
)

// MenuService maintains the catalog the pricing engine reads.
type MenuService struct {
	Store *repos.Store
	Clock Clock

	mu sync.Mutex
}

func NewMenuService(store *repos.Store, clock Clock) *MenuService {
	return &MenuService{Store: store, Clock: clock}
}

func (s *MenuService) List(ctx context.Context, f repos.MenuFilter) ([]domain.MenuItem, error) {
	return s.Store.Menu.List(ctx, f)
}

func (s *MenuService) Categories(ctx context.Context) ([]string, error) {
	return s.Store.Menu.Categories(ctx)
}

func (s *MenuService) Get(ctx context.Context, id string) (domain.MenuItem, error) {
	return s.Store.Menu.Get(ctx, id)
}

func (s *MenuService) Create(ctx context.Context, it domain.MenuItem) (_ domain.MenuItem, err error) {
	ctx, span := startSpan(ctx, "MenuService.Create")
	defer func() { endSpan(span, err) }()

	it.Name = strings.TrimSpace(it.Name)
	it.Category = strings.TrimSpace(it.Category)
	if err := pos.ValidateItem(it); err != nil {
		return domain.MenuItem{}, err
	}
	if it.ID == "" {
		it.ID = uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.Store.Menu.Create(ctx, it, s.Clock.now()); err != nil {
		return domain.MenuItem{}, err
	}
	applog.Audit(nil, "menu_item_created", map[string]any{"item_id": it.ID, "name": it.Name, "price": it.UnitPrice.StringFixed(2)})
	return it, nil
}

// Update replaces every editable field of item id.
func (s *MenuService) Update(ctx context.Context, id string, it domain.MenuItem) (_ domain.MenuItem, err error) {
	ctx, span := startSpan(ctx, "MenuService.Update")
	defer func() { endSpan(span, err) }()

	it.ID = id
	it.Name = strings.TrimSpace(it.Name)
	it.Category = strings.TrimSpace(it.Category)
	if err := pos.ValidateItem(it); err != nil {
		return domain.MenuItem{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.Store.Menu.Update(ctx, it, s.Clock.now()); err != nil {
		return domain.MenuItem{}, err
	}
	applog.Audit(nil, "menu_item_updated", map[string]any{"item_id": id, "price": it.UnitPrice.StringFixed(2), "active": it.Active})
	return it, nil
}

// SetAvailability flips the on/off switch. Carts holding a switched-off item
// keep the line, but the order cannot be placed until it is removed.
func (s *MenuService) SetAvailability(ctx context.Context, id string, active bool) (domain.MenuItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.Store.Menu.SetActive(ctx, id, active, s.Clock.now()); err != nil {
		return domain.MenuItem{}, err
	}
	applog.Audit(nil, "menu_item_availability", map[string]any{"item_id": id, "active": active})
	return s.Store.Menu.Get(ctx, id)
}

func (s *MenuService) Delete(ctx context.Context, id string) (err error) {
	ctx, span := startSpan(ctx, "MenuService.Delete")
	defer func() { endSpan(span, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()
	err = s.Store.InTx(ctx, func(tx *repos.Store) error {
		return tx.Menu.Delete(ctx, id)
	})
	if err == nil {
		applog.Audit(nil, "menu_item_deleted", map[string]any{"item_id": id})
	}
	return err
}
