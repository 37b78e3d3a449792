package validate

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"tablepos/internal/domain"
)

const (
	maxPartySize = 50
	maxDelta     = 50
)

var (
	reQ       = regexp.MustCompile(`^[A-Za-z0-9 _'\-]{1,50}$`)
	reID      = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
	reOrderID = regexp.MustCompile(`^ORD-[0-9]{3,}$`)
	rePerson  = regexp.MustCompile(`^[\p{L}][\p{L} .'\-]*$`)

	maxPrice = decimal.NewFromInt(10000)
	hundred  = decimal.NewFromInt(100)
)

// Q validates a search query: trims, enforces allowed characters and max length
func Q(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	if len(s) > 50 {
		s = s[:50]
	}
	return s, reQ.MatchString(s)
}

// ID validates a simple resource identifier (menu item, table, payment ids).
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

func OrderID(s string) (string, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	return s, reOrderID.MatchString(s)
}

// CustomerName allows an empty name; the caller substitutes the walk-in default.
func CustomerName(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", true
	}
	if len(s) > 40 {
		return "", false
	}
	return s, rePerson.MatchString(s)
}

// ServerName validates the name of the staff member taking a table.
func ServerName(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 20 {
		return "", false
	}
	return s, rePerson.MatchString(s)
}

func PartySize(n int) bool { return n >= 1 && n <= maxPartySize }

// Delta bounds a quantity step from the cart's +/- buttons.
func Delta(n int) bool { return n != 0 && n >= -maxDelta && n <= maxDelta }

// Price accepts non-negative amounts with at most two decimals.
func Price(d decimal.Decimal) bool {
	return !d.IsNegative() && d.LessThanOrEqual(maxPrice) && d.Equal(d.Round(2))
}

// TipPercent turns a whole-number percentage (15, 18, 20, ...) into a rate.
func TipPercent(p decimal.Decimal) (decimal.Decimal, bool) {
	if p.IsNegative() || p.GreaterThan(hundred) {
		return decimal.Zero, false
	}
	return p.Div(hundred), true
}

func PaymentMethod(s string) (domain.PaymentMethod, bool) {
	m := domain.PaymentMethod(strings.ToLower(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", false
	}
	return m, true
}
