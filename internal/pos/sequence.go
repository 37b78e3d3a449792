package pos

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
)

const orderIDPrefix = "ORD-"

// Sequence hands out order numbers. Implementations must never return the
// same number twice.
type Sequence interface {
	Next(ctx context.Context) (int64, error)
}

// Counter is the in-process Sequence for a single terminal.
type Counter struct {
	n atomic.Int64
}

// NewCounter continues after last, typically the highest number already stored.
func NewCounter(last int64) *Counter {
	c := &Counter{}
	c.n.Store(last)
	return c
}

func (c *Counter) Next(context.Context) (int64, error) {
	return c.n.Add(1), nil
}

func FormatOrderID(n int64) string {
	return fmt.Sprintf("%s%03d", orderIDPrefix, n)
}

// ParseOrderID is the inverse of FormatOrderID.
func ParseOrderID(id string) (int64, bool) {
	raw, ok := strings.CutPrefix(id, orderIDPrefix)
	if !ok || raw == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func NextOrderID(ctx context.Context, seq Sequence) (string, error) {
	n, err := seq.Next(ctx)
	if err != nil {
		return "", fmt.Errorf("order sequence: %w", err)
	}
	return FormatOrderID(n), nil
}
