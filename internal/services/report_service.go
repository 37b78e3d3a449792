package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"tablepos/internal/domain"
	"tablepos/internal/pos"
	"tablepos/internal/repos"
)

type ReportService struct {
	Store *repos.Store
	Clock Clock
}

func NewReportService(store *repos.Store, clock Clock) *ReportService {
	return &ReportService{Store: store, Clock: clock}
}

// Report ranges, counted back from the start of the current day.
const (
	RangeToday = "today"
	RangeWeek  = "week"
	RangeMonth = "month"
	RangeAll   = "all"
)

type ItemSales struct {
	ItemID   string
	Name     string
	Category string
	Quantity int
	Revenue  decimal.Decimal
}

type MethodSales struct {
	Method domain.PaymentMethod
	Count  int
	Amount decimal.Decimal
}

type SalesReport struct {
	Range        string
	Since        time.Time
	TotalSales   decimal.Decimal
	OrderCount   int
	AverageOrder decimal.Decimal
	Customers    int
	Tips         decimal.Decimal
	StatusCounts map[domain.OrderStatus]int
	HourlySales  [24]decimal.Decimal
	TopItems     []ItemSales
	Payments     []MethodSales
}

const topItemsLimit = 5

func (s *ReportService) since(rng string) (time.Time, error) {
	now := s.Clock.now()
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch strings.ToLower(rng) {
	case "", RangeToday:
		return day, nil
	case RangeWeek:
		return day.AddDate(0, 0, -6), nil
	case RangeMonth:
		return day.AddDate(0, -1, 0), nil
	case RangeAll:
		return time.Time{}, nil
	}
	return time.Time{}, fmt.Errorf("%w: range %q", pos.ErrInvalidInput, rng)
}

// Sales summarizes orders placed in rng. Cancelled orders count toward
// StatusCounts only.
func (s *ReportService) Sales(ctx context.Context, rng string) (_ SalesReport, err error) {
	ctx, span := startSpan(ctx, "ReportService.Sales")
	defer func() { endSpan(span, err) }()

	since, err := s.since(rng)
	if err != nil {
		return SalesReport{}, err
	}
	if rng == "" {
		rng = RangeToday
	}
	orders, err := s.Store.Orders.List(ctx, repos.OrderFilter{})
	if err != nil {
		return SalesReport{}, err
	}
	payments, err := s.Store.Payments.List(ctx)
	if err != nil {
		return SalesReport{}, err
	}
	menu, err := s.Store.Menu.Catalog(ctx)
	if err != nil {
		return SalesReport{}, err
	}

	r := SalesReport{Range: strings.ToLower(rng), Since: since, StatusCounts: map[domain.OrderStatus]int{}}
	items := map[string]*ItemSales{}
	counted := map[string]bool{}
	for _, o := range orders {
		if o.CreatedAt.Before(since) {
			continue
		}
		r.StatusCounts[o.Status]++
		if o.Status == domain.StatusCancelled {
			continue
		}
		counted[o.ID] = true
		r.OrderCount++
		r.TotalSales = r.TotalSales.Add(o.Total)
		r.Customers += o.PartySize
		h := o.CreatedAt.In(since.Location()).Hour()
		r.HourlySales[h] = r.HourlySales[h].Add(o.Total)

		for _, l := range o.Lines {
			it, ok := items[l.ItemID]
			if !ok {
				it = &ItemSales{ItemID: l.ItemID, Name: l.Name}
				if m, found := menu.Item(l.ItemID); found {
					it.Category = m.Category
				}
				items[l.ItemID] = it
			}
			it.Quantity += l.Quantity
			it.Revenue = it.Revenue.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
		}
	}
	if r.OrderCount > 0 {
		r.AverageOrder = r.TotalSales.Div(decimal.NewFromInt(int64(r.OrderCount)))
	}

	for _, it := range items {
		r.TopItems = append(r.TopItems, *it)
	}
	sort.Slice(r.TopItems, func(i, j int) bool {
		a, b := r.TopItems[i], r.TopItems[j]
		if a.Quantity != b.Quantity {
			return a.Quantity > b.Quantity
		}
		return a.Name < b.Name
	})
	if len(r.TopItems) > topItemsLimit {
		r.TopItems = r.TopItems[:topItemsLimit]
	}

	byMethod := map[domain.PaymentMethod]*MethodSales{}
	for _, p := range payments {
		if !counted[p.OrderID] {
			continue
		}
		m, ok := byMethod[p.Method]
		if !ok {
			m = &MethodSales{Method: p.Method}
			byMethod[p.Method] = m
		}
		m.Count++
		m.Amount = m.Amount.Add(p.GrandTotal)
		r.Tips = r.Tips.Add(p.TipAmount)
	}
	for _, method := range []domain.PaymentMethod{domain.PayCreditCard, domain.PayCash, domain.PayMobile, domain.PayGiftCard} {
		if m, ok := byMethod[method]; ok {
			r.Payments = append(r.Payments, *m)
		}
	}
	return r, nil
}

// Dashboard is the landing screen snapshot.
type Dashboard struct {
	TodaySales     decimal.Decimal
	TodayOrders    int
	ActiveOrders   int
	Customers      int
	OccupiedTables int
	TotalTables    int
	RecentOrders   []OrderView
	PopularItems   []ItemSales
}

const recentOrdersLimit = 5

func (s *ReportService) Dashboard(ctx context.Context) (Dashboard, error) {
	today, err := s.Sales(ctx, RangeToday)
	if err != nil {
		return Dashboard{}, err
	}
	tables, err := s.Store.Tables.List(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	recent, err := s.Store.Orders.List(ctx, repos.OrderFilter{Limit: recentOrdersLimit})
	if err != nil {
		return Dashboard{}, err
	}

	d := Dashboard{
		TodaySales:   today.TotalSales,
		TodayOrders:  today.OrderCount,
		Customers:    today.Customers,
		TotalTables:  len(tables),
		PopularItems: today.TopItems,
	}
	active, err := s.Store.Orders.List(ctx, repos.OrderFilter{
		Statuses: []domain.OrderStatus{domain.StatusPreparing, domain.StatusReady, domain.StatusServed},
	})
	if err != nil {
		return Dashboard{}, err
	}
	d.ActiveOrders = len(active)
	numbers := make(map[string]int, len(tables))
	for _, t := range tables {
		numbers[t.ID] = t.Number
		if t.Status == domain.TableOccupied {
			d.OccupiedTables++
		}
	}
	for _, o := range recent {
		d.RecentOrders = append(d.RecentOrders, OrderView{Order: o, TableNumber: numbers[o.TableID]})
	}
	return d, nil
}
