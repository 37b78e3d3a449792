package pos

import "errors"

var (
	ErrItemNotFound         = errors.New("item not found")
	ErrItemUnavailable      = errors.New("item unavailable")
	ErrInvalidInput         = errors.New("invalid input")
	ErrEmptyCart            = errors.New("cart empty")
	ErrDuplicateTableNumber = errors.New("duplicate table number")
	ErrCapacityExceeded     = errors.New("party exceeds table capacity")
	ErrAlreadyOccupied      = errors.New("table already occupied")
	ErrNotOccupied          = errors.New("table not occupied")
	ErrTableOccupied        = errors.New("table occupied")
	ErrTableNotFound        = errors.New("table not found")
	ErrOrderNotFound        = errors.New("order not found")
	ErrInvalidTransition    = errors.New("invalid order state")
	ErrAlreadyPaid          = errors.New("order already paid")
	ErrConflict             = errors.New("concurrent modification")
)
