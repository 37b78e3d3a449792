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

// PaymentService settles orders. No money moves; it records what was taken.
type PaymentService struct {
	Store *repos.Store
	Clock Clock

	mu sync.Mutex
}

func NewPaymentService(store *repos.Store, clock Clock) *PaymentService {
	return &PaymentService{Store: store, Clock: clock}
}

func payable(o domain.Order) error {
	if o.Status == domain.StatusCancelled {
		return fmt.Errorf("%w: %s is cancelled", pos.ErrInvalidTransition, o.ID)
	}
	return nil
}

// Quote prices the bill for orderID with the chosen tip, at the order's own
// tax rate.
func (s *PaymentService) Quote(ctx context.Context, orderID string, tip pos.Tip) (pos.PaymentSummary, error) {
	o, err := s.Store.Orders.Get(ctx, orderID)
	if err != nil {
		return pos.PaymentSummary{}, err
	}
	if err := payable(o); err != nil {
		return pos.PaymentSummary{}, err
	}
	return pos.ComputePayment(o.Subtotal, o.TaxRate, tip)
}

type PayRequest struct {
	OrderID string
	Method  domain.PaymentMethod
	Tip     pos.Tip
}

// Pay records the single payment an order may receive.
func (s *PaymentService) Pay(ctx context.Context, req PayRequest) (_ domain.Payment, err error) {
	ctx, span := startSpan(ctx, "PaymentService.Pay")
	defer func() { endSpan(span, err) }()

	if !req.Method.Valid() {
		return domain.Payment{}, fmt.Errorf("%w: payment method %q", pos.ErrInvalidInput, req.Method)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var p domain.Payment
	err = s.Store.InTx(ctx, func(tx *repos.Store) error {
		o, err := tx.Orders.Get(ctx, req.OrderID)
		if err != nil {
			return err
		}
		if err := payable(o); err != nil {
			return err
		}
		if _, paid, err := tx.Payments.ByOrder(ctx, o.ID); err != nil {
			return err
		} else if paid {
			return fmt.Errorf("%w: %s", pos.ErrAlreadyPaid, o.ID)
		}

		sum, err := pos.ComputePayment(o.Subtotal, o.TaxRate, req.Tip)
		if err != nil {
			return err
		}
		p = domain.Payment{
			ID:         uuid.NewString(),
			OrderID:    o.ID,
			Method:     req.Method,
			Subtotal:   sum.Subtotal,
			Tax:        sum.Tax,
			TipAmount:  sum.TipAmount,
			GrandTotal: sum.GrandTotal,
			PaidAt:     s.Clock.now(),
		}
		return tx.Payments.Insert(ctx, p)
	})
	if err != nil {
		return domain.Payment{}, err
	}

	applog.Audit(nil, "payment_recorded", map[string]any{
		"order_id": p.OrderID,
		"method":   p.Method,
		"total":    p.GrandTotal.StringFixed(2),
		"tip":      p.TipAmount.StringFixed(2),
	})
	return p, nil
}

// ForOrder returns the payment taken for orderID, if any.
func (s *PaymentService) ForOrder(ctx context.Context, orderID string) (domain.Payment, bool, error) {
	return s.Store.Payments.ByOrder(ctx, orderID)
}
