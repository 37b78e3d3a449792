package pos

import (
	"fmt"
	"time"

	"tablepos/internal/domain"
)

var forward = map[domain.OrderStatus]domain.OrderStatus{
	domain.StatusPreparing: domain.StatusReady,
	domain.StatusReady:     domain.StatusServed,
	domain.StatusServed:    domain.StatusCompleted,
}

// NextStatus returns the status after s, or false when s is terminal.
func NextStatus(s domain.OrderStatus) (domain.OrderStatus, bool) {
	next, ok := forward[s]
	return next, ok
}

func Terminal(s domain.OrderStatus) bool {
	return s == domain.StatusCompleted || s == domain.StatusCancelled
}

// Active orders are still moving through the kitchen or the floor.
func Active(s domain.OrderStatus) bool {
	_, ok := forward[s]
	return ok
}

func ValidStatus(s domain.OrderStatus) bool {
	return Active(s) || Terminal(s)
}

// Advance moves o one step forward. At a terminal state it leaves o untouched
// and reports false.
func Advance(o *domain.Order, now time.Time) bool {
	next, ok := NextStatus(o.Status)
	if !ok {
		return false
	}
	o.Status = next
	o.UpdatedAt = now
	return true
}

func Cancel(o *domain.Order, now time.Time) error {
	if Terminal(o.Status) {
		return fmt.Errorf("%w: %s is %s", ErrInvalidTransition, o.ID, o.Status)
	}
	o.Status = domain.StatusCancelled
	o.UpdatedAt = now
	return nil
}
