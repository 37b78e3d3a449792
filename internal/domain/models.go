package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type MenuItem struct {
	ID              string              `db:"id" json:"id"`
	Name            string              `db:"name" json:"name"`
	Category        string              `db:"category" json:"category"`
	Description     string              `db:"description" json:"description"`
	UnitPrice       decimal.Decimal     `db:"unit_price" json:"unitPrice"`
	OriginalPrice   decimal.NullDecimal `db:"original_price" json:"originalPrice"`
	DiscountPercent int                 `db:"discount_percent" json:"discountPercent"`
	AvailableCount  int                 `db:"available_count" json:"availableCount"`
	Active          bool                `db:"active" json:"active"`
}

// Discounted reports whether the item carries a struck-through original price.
func (m MenuItem) Discounted() bool { return m.OriginalPrice.Valid }

type CartLine struct {
	ItemID   string `db:"item_id" json:"itemId"`
	Quantity int    `db:"qty" json:"quantity"`
}

// Cart is ordered by insertion; display order follows Lines.
type Cart struct {
	Lines []CartLine `json:"lines"`
}

type OrderStatus string

const (
	StatusPreparing OrderStatus = "Preparing"
	StatusReady     OrderStatus = "Ready"
	StatusServed    OrderStatus = "Served"
	StatusCompleted OrderStatus = "Completed"
	StatusCancelled OrderStatus = "Cancelled"
)

type OrderLine struct {
	ItemID        string              `json:"itemId"`
	Name          string              `json:"name"`
	UnitPrice     decimal.Decimal     `json:"unitPrice"`
	OriginalPrice decimal.NullDecimal `json:"originalPrice"`
	Quantity      int                 `json:"quantity"`
}

type Order struct {
	ID            string          `json:"id"`
	CustomerName  string          `json:"customerName"`
	PartySize     int             `json:"partySize"`
	Lines         []OrderLine     `json:"lines"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	DiscountTotal decimal.Decimal `json:"discountTotal"`
	TaxRate       decimal.Decimal `json:"taxRate"`
	Tax           decimal.Decimal `json:"tax"`
	Total         decimal.Decimal `json:"total"`
	Status        OrderStatus     `json:"status"`
	TableID       string          `json:"tableId,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
	Version       int             `json:"-"`
}

// ItemCount is the number of units across all lines.
func (o Order) ItemCount() int {
	n := 0
	for _, l := range o.Lines {
		n += l.Quantity
	}
	return n
}

type TableStatus string

const (
	TableAvailable TableStatus = "Available"
	TableOccupied  TableStatus = "Occupied"
)

type Table struct {
	ID             string      `json:"id"`
	Number         int         `json:"number"`
	Seats          int         `json:"seats"`
	Status         TableStatus `json:"status"`
	CurrentOrderID string      `json:"currentOrderId,omitempty"`
	Server         string      `json:"server,omitempty"`
	OccupiedSince  *time.Time  `json:"occupiedSince,omitempty"`
	Version        int         `json:"-"`
}

type PaymentMethod string

const (
	PayCreditCard PaymentMethod = "credit-card"
	PayCash       PaymentMethod = "cash"
	PayMobile     PaymentMethod = "mobile"
	PayGiftCard   PaymentMethod = "gift-card"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PayCreditCard, PayCash, PayMobile, PayGiftCard:
		return true
	}
	return false
}

type Payment struct {
	ID         string          `json:"id"`
	OrderID    string          `json:"orderId"`
	Method     PaymentMethod   `json:"method"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	Tax        decimal.Decimal `json:"tax"`
	TipAmount  decimal.Decimal `json:"tipAmount"`
	GrandTotal decimal.Decimal `json:"grandTotal"`
	PaidAt     time.Time       `json:"paidAt"`
}
