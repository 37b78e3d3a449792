package handlers

import (
	"time"

	"github.com/shopspring/decimal"

	"tablepos/internal/domain"
	"tablepos/internal/pos"
	"tablepos/internal/services"
)

// Money leaves the API as a two-place string; full precision stays inside.
func money(d decimal.Decimal) string { return d.StringFixed(2) }

func optionalMoney(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return money(d.Decimal)
}

type menuItemJSON struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Category        string `json:"category"`
	Description     string `json:"description"`
	UnitPrice       string `json:"unitPrice"`
	OriginalPrice   string `json:"originalPrice,omitempty"`
	DiscountPercent int    `json:"discountPercent"`
	AvailableCount  int    `json:"availableCount"`
	Active          bool   `json:"active"`
}

func menuItemView(it domain.MenuItem) menuItemJSON {
	return menuItemJSON{
		ID:              it.ID,
		Name:            it.Name,
		Category:        it.Category,
		Description:     it.Description,
		UnitPrice:       money(it.UnitPrice),
		OriginalPrice:   optionalMoney(it.OriginalPrice),
		DiscountPercent: it.DiscountPercent,
		AvailableCount:  it.AvailableCount,
		Active:          it.Active,
	}
}

type totalsJSON struct {
	Subtotal      string `json:"subtotal"`
	DiscountTotal string `json:"discountTotal"`
	Tax           string `json:"tax"`
	Total         string `json:"total"`
}

func totalsView(t pos.Totals) totalsJSON {
	return totalsJSON{
		Subtotal:      money(t.Subtotal),
		DiscountTotal: money(t.DiscountTotal),
		Tax:           money(t.Tax),
		Total:         money(t.Total),
	}
}

type cartLineJSON struct {
	ItemID    string `json:"itemId"`
	Name      string `json:"name"`
	UnitPrice string `json:"unitPrice"`
	Quantity  int    `json:"quantity"`
	LineTotal string `json:"lineTotal"`
}

type cartJSON struct {
	Lines     []cartLineJSON `json:"lines"`
	ItemCount int            `json:"itemCount"`
	totalsJSON
}

func cartView(v services.CartView) cartJSON {
	out := cartJSON{Lines: make([]cartLineJSON, 0, len(v.Lines)), ItemCount: v.ItemCount, totalsJSON: totalsView(v.Totals)}
	for _, l := range v.Lines {
		out.Lines = append(out.Lines, cartLineJSON{
			ItemID:    l.ItemID,
			Name:      l.Name,
			UnitPrice: money(l.UnitPrice),
			Quantity:  l.Quantity,
			LineTotal: money(l.LineTotal),
		})
	}
	return out
}

type orderLineJSON struct {
	ItemID        string `json:"itemId"`
	Name          string `json:"name"`
	UnitPrice     string `json:"unitPrice"`
	OriginalPrice string `json:"originalPrice,omitempty"`
	Quantity      int    `json:"quantity"`
	LineTotal     string `json:"lineTotal"`
}

type orderJSON struct {
	ID           string          `json:"id"`
	CustomerName string          `json:"customerName"`
	PartySize    int             `json:"partySize"`
	Status       string          `json:"status"`
	TableID      string          `json:"tableId,omitempty"`
	TableNumber  int             `json:"tableNumber,omitempty"`
	Lines        []orderLineJSON `json:"lines"`
	ItemCount    int             `json:"itemCount"`
	totalsJSON
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func orderView(o domain.Order, tableNumber int) orderJSON {
	out := orderJSON{
		ID:           o.ID,
		CustomerName: o.CustomerName,
		PartySize:    o.PartySize,
		Status:       string(o.Status),
		TableID:      o.TableID,
		TableNumber:  tableNumber,
		Lines:        make([]orderLineJSON, 0, len(o.Lines)),
		ItemCount:    o.ItemCount(),
		totalsJSON:   totalsView(pos.OrderTotals(o)),
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
	for _, l := range o.Lines {
		out.Lines = append(out.Lines, orderLineJSON{
			ItemID:        l.ItemID,
			Name:          l.Name,
			UnitPrice:     money(l.UnitPrice),
			OriginalPrice: optionalMoney(l.OriginalPrice),
			Quantity:      l.Quantity,
			LineTotal:     money(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))),
		})
	}
	return out
}

func orderListView(vs []services.OrderView) []orderJSON {
	out := make([]orderJSON, 0, len(vs))
	for _, v := range vs {
		out = append(out, orderView(v.Order, v.TableNumber))
	}
	return out
}

type tableJSON struct {
	ID             string     `json:"id"`
	Number         int        `json:"number"`
	Seats          int        `json:"seats"`
	Status         string     `json:"status"`
	CurrentOrderID string     `json:"currentOrderId,omitempty"`
	Server         string     `json:"server,omitempty"`
	OccupiedSince  *time.Time `json:"occupiedSince,omitempty"`
}

func tableView(t domain.Table) tableJSON {
	return tableJSON{
		ID:             t.ID,
		Number:         t.Number,
		Seats:          t.Seats,
		Status:         string(t.Status),
		CurrentOrderID: t.CurrentOrderID,
		Server:         t.Server,
		OccupiedSince:  t.OccupiedSince,
	}
}

type summaryJSON struct {
	OrderID    string `json:"orderId"`
	Subtotal   string `json:"subtotal"`
	Tax        string `json:"tax"`
	TipAmount  string `json:"tipAmount"`
	GrandTotal string `json:"grandTotal"`
}

func summaryView(orderID string, p pos.PaymentSummary) summaryJSON {
	return summaryJSON{
		OrderID:    orderID,
		Subtotal:   money(p.Subtotal),
		Tax:        money(p.Tax),
		TipAmount:  money(p.TipAmount),
		GrandTotal: money(p.GrandTotal),
	}
}

type paymentJSON struct {
	ID     string `json:"id"`
	Method string `json:"method"`
	summaryJSON
	PaidAt time.Time `json:"paidAt"`
}

func paymentView(p domain.Payment) paymentJSON {
	return paymentJSON{
		ID:     p.ID,
		Method: string(p.Method),
		summaryJSON: summaryView(p.OrderID, pos.PaymentSummary{
			Subtotal: p.Subtotal, Tax: p.Tax, TipAmount: p.TipAmount, GrandTotal: p.GrandTotal,
		}),
		PaidAt: p.PaidAt,
	}
}

type itemSalesJSON struct {
	ItemID   string `json:"itemId"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Quantity int    `json:"quantity"`
	Revenue  string `json:"revenue"`
}

func itemSalesView(items []services.ItemSales) []itemSalesJSON {
	out := make([]itemSalesJSON, 0, len(items))
	for _, it := range items {
		out = append(out, itemSalesJSON{ItemID: it.ItemID, Name: it.Name, Category: it.Category, Quantity: it.Quantity, Revenue: money(it.Revenue)})
	}
	return out
}

type methodSalesJSON struct {
	Method string `json:"method"`
	Count  int    `json:"count"`
	Amount string `json:"amount"`
}

type salesReportJSON struct {
	Range        string            `json:"range"`
	Since        *time.Time        `json:"since,omitempty"`
	TotalSales   string            `json:"totalSales"`
	OrderCount   int               `json:"orderCount"`
	AverageOrder string            `json:"averageOrder"`
	Customers    int               `json:"customers"`
	Tips         string            `json:"tips"`
	StatusCounts map[string]int    `json:"statusCounts"`
	HourlySales  []string          `json:"hourlySales"`
	TopItems     []itemSalesJSON   `json:"topItems"`
	Payments     []methodSalesJSON `json:"payments"`
}

func salesReportView(r services.SalesReport) salesReportJSON {
	out := salesReportJSON{
		Range:        r.Range,
		TotalSales:   money(r.TotalSales),
		OrderCount:   r.OrderCount,
		AverageOrder: money(r.AverageOrder),
		Customers:    r.Customers,
		Tips:         money(r.Tips),
		StatusCounts: make(map[string]int, len(r.StatusCounts)),
		HourlySales:  make([]string, len(r.HourlySales)),
		TopItems:     itemSalesView(r.TopItems),
		Payments:     make([]methodSalesJSON, 0, len(r.Payments)),
	}
	if !r.Since.IsZero() {
		since := r.Since
		out.Since = &since
	}
	for st, n := range r.StatusCounts {
		out.StatusCounts[string(st)] = n
	}
	for h, v := range r.HourlySales {
		out.HourlySales[h] = money(v)
	}
	for _, m := range r.Payments {
		out.Payments = append(out.Payments, methodSalesJSON{Method: string(m.Method), Count: m.Count, Amount: money(m.Amount)})
	}
	return out
}

type dashboardJSON struct {
	TodaySales     string          `json:"todaySales"`
	TodayOrders    int             `json:"todayOrders"`
	ActiveOrders   int             `json:"activeOrders"`
	Customers      int             `json:"customers"`
	OccupiedTables int             `json:"occupiedTables"`
	TotalTables    int             `json:"totalTables"`
	RecentOrders   []orderJSON     `json:"recentOrders"`
	PopularItems   []itemSalesJSON `json:"popularItems"`
}

func dashboardView(d services.Dashboard) dashboardJSON {
	return dashboardJSON{
		TodaySales:     money(d.TodaySales),
		TodayOrders:    d.TodayOrders,
		ActiveOrders:   d.ActiveOrders,
		Customers:      d.Customers,
		OccupiedTables: d.OccupiedTables,
		TotalTables:    d.TotalTables,
		RecentOrders:   orderListView(d.RecentOrders),
		PopularItems:   itemSalesView(d.PopularItems),
	}
}
