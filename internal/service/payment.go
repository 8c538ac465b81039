package service

import (
	"context"
	"strings"
	"time"

	"erp-subscription-backend/internal/domain"
	"erp-subscription-backend/internal/logger"
)

// declineSuffix marks the card number that always fails, so the retry path
// can be exercised without a gateway.
const declineSuffix = "0002"

// simulatedPaymentService is a scripted stand-in for a payment gateway: a
// fixed processing delay, then approval for everything except the designated
// decline card. No money moves anywhere.
type simulatedPaymentService struct {
	delay time.Duration
}

func NewSimulatedPaymentService(delay time.Duration) PaymentService {
	return &simulatedPaymentService{delay: delay}
}

func (s *simulatedPaymentService) Charge(ctx context.Context, amountCents int32, card *domain.CardDetails) error {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	if card != nil {
		number := strings.ReplaceAll(strings.TrimSpace(card.Number), " ", "")
		if strings.HasSuffix(number, declineSuffix) {
			logger.Info("Simulated payment declined", "amount_cents", amountCents)
			return ErrPaymentDeclined
		}
	}

	logger.Info("Simulated payment approved", "amount_cents", amountCents)
	return nil
}
