package pos

import (
	"fmt"
	"strings"
	"time"

	"tablepos/internal/domain"
)

// SeatGuests marks t occupied by a party served by server. Capacity is checked
// before occupancy, and t is left untouched on any error.
func SeatGuests(t *domain.Table, partySize int, server string, now time.Time) error {
	server = strings.TrimSpace(server)
	if partySize < 1 || server == "" {
		return fmt.Errorf("%w: guests and server are required", ErrInvalidInput)
	}
	if partySize > t.Seats {
		return fmt.Errorf("%w: %d guests at table %d (%d seats)", ErrCapacityExceeded, partySize, t.Number, t.Seats)
	}
	if t.Status == domain.TableOccupied {
		return fmt.Errorf("%w: table %d", ErrAlreadyOccupied, t.Number)
	}
	since := now
	t.Status = domain.TableOccupied
	t.Server = server
	t.OccupiedSince = &since
	t.CurrentOrderID = ""
	return nil
}

func LinkOrder(t *domain.Table, orderID string) error {
	if orderID == "" {
		return fmt.Errorf("%w: order id required", ErrInvalidInput)
	}
	if t.Status != domain.TableOccupied {
		return fmt.Errorf("%w: table %d", ErrNotOccupied, t.Number)
	}
	t.CurrentOrderID = orderID
	return nil
}

func ClearTable(t *domain.Table) error {
	if t.Status != domain.TableOccupied {
		return fmt.Errorf("%w: table %d", ErrNotOccupied, t.Number)
	}
	t.Status = domain.TableAvailable
	t.Server = ""
	t.CurrentOrderID = ""
	t.OccupiedSince = nil
	return nil
}

// CheckDeletable refuses occupied tables; they must be cleared first.
func CheckDeletable(t domain.Table) error {
	if t.Status == domain.TableOccupied {
		return fmt.Errorf("%w: table %d must be cleared first", ErrTableOccupied, t.Number)
	}
	return nil
}

func DeleteTable(tables []domain.Table, id string) ([]domain.Table, error) {
	for i, t := range tables {
		if t.ID != id {
			continue
		}
		if err := CheckDeletable(t); err != nil {
			return tables, err
		}
		out := make([]domain.Table, 0, len(tables)-1)
		out = append(out, tables[:i]...)
		return append(out, tables[i+1:]...), nil
	}
	return tables, fmt.Errorf("%w: %s", ErrTableNotFound, id)
}

// NewTable validates number and seats against the existing floor plan.
func NewTable(tables []domain.Table, id string, number, seats int) (domain.Table, error) {
	if number <= 0 || seats <= 0 {
		return domain.Table{}, fmt.Errorf("%w: number %d seats %d", ErrInvalidInput, number, seats)
	}
	for _, t := range tables {
		if t.Number == number {
			return domain.Table{}, fmt.Errorf("%w: %d", ErrDuplicateTableNumber, number)
		}
	}
	return domain.Table{ID: id, Number: number, Seats: seats, Status: domain.TableAvailable}, nil
}

func AddTable(tables []domain.Table, id string, number, seats int) ([]domain.Table, error) {
	t, err := NewTable(tables, id, number, seats)
	if err != nil {
		return tables, err
	}
	out := make([]domain.Table, 0, len(tables)+1)
	out = append(out, tables...)
	return append(out, t), nil
}

// NextTableNumber suggests one past the highest number in use.
func NextTableNumber(tables []domain.Table) int {
	highest := 0
	for _, t := range tables {
		if t.Number > highest {
			highest = t.Number
		}
	}
	return highest + 1
}

// Consistent reports whether t satisfies the occupancy invariant.
func Consistent(t domain.Table) bool {
	if t.Status == domain.TableOccupied {
		return t.Server != ""
	}
	return t.Server == "" && t.CurrentOrderID == "" && t.OccupiedSince == nil
}
