// Package payments reconciles gateway callbacks against the ledger. The
// signature check is the trust boundary: nothing here mutates state before
// the callback verifies.
package payments

import (
	"context"

	"github.com/anandbhagyawant/messconnect-backend/internal/ledger"
	"github.com/anandbhagyawant/messconnect-backend/internal/records"
	"github.com/anandbhagyawant/messconnect-backend/pkg/enums"
	pkgerrors "github.com/anandbhagyawant/messconnect-backend/pkg/errors"
	"github.com/anandbhagyawant/messconnect-backend/pkg/gateway"
	"github.com/anandbhagyawant/messconnect-backend/pkg/logger"
	"github.com/shopspring/decimal"
)

type Service struct {
	gateway *gateway.Client
	ledger  *ledger.Service
	logg    *logger.Logger
}

func NewService(gw *gateway.Client, ledgerSvc *ledger.Service, logg *logger.Logger) *Service {
	return &Service{gateway: gw, ledger: ledgerSvc, logg: logg}
}

// CreateOrderInput is the checkout bootstrap request. EntityID is the due
// key for subscription payments or a caller-chosen reference for guests.
type CreateOrderInput struct {
	Amount   decimal.Decimal
	Name     string
	Phone    string
	EntityID string
}

// OrderView is what the checkout client needs to open the gateway widget.
type OrderView struct {
	OrderID  string `json:"orderId"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	KeyID    string `json:"keyId"`
}

// CreateOrder registers a payment intent with the gateway. No local state is
// written; the ledger only moves on a verified callback.
func (s *Service) CreateOrder(ctx context.Context, in CreateOrderInput) (OrderView, error) {
	if !in.Amount.IsPositive() {
		return OrderView{}, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}
	if in.EntityID == "" {
		return OrderView{}, pkgerrors.New(pkgerrors.CodeValidation, "entity id is required")
	}

	order, err := s.gateway.CreateOrder(ctx, in.Amount.Shift(2).IntPart(), in.EntityID)
	if err != nil {
		return OrderView{}, pkgerrors.Wrap(pkgerrors.CodeGateway, err, "create gateway order")
	}

	s.logg.Info(s.logg.WithField(ctx, "order_id", order.ID), "gateway order created")
	return OrderView{
		OrderID:  order.ID,
		Amount:   order.Amount,
		Currency: order.Currency,
		KeyID:    s.gateway.KeyID(),
	}, nil
}

// GuestDetails identifies a payer without an account.
type GuestDetails struct {
	Name   string
	Phone  string
	Amount decimal.Decimal
}

// VerifyInput is the signed callback relayed after checkout.
type VerifyInput struct {
	OrderID    string
	PaymentID  string
	Signature  string
	EntityType enums.PaymentEntityType
	EntityID   string
	Guest      *GuestDetails
}

// VerifyResult carries whichever record the verified callback settled.
type VerifyResult struct {
	Due          *records.MonthlyDueRecord   `json:"due,omitempty"`
	GuestPayment *records.GuestPaymentRecord `json:"guestPayment,omitempty"`
}

// Verify recomputes the callback signature and, only on a match, applies the
// payment to the ledger. A mismatch mutates nothing and reports a generic
// verification failure. Replays are not deduplicated: a due replay is a
// no-op, a guest replay records again.
func (s *Service) Verify(ctx context.Context, in VerifyInput) (VerifyResult, error) {
	if in.OrderID == "" || in.PaymentID == "" || in.Signature == "" {
		return VerifyResult{}, pkgerrors.New(pkgerrors.CodeValidation, "orderId, paymentId and signature are required")
	}
	if !in.EntityType.IsValid() {
		return VerifyResult{}, pkgerrors.New(pkgerrors.CodeValidation, "unknown payment entity type")
	}

	if !s.gateway.VerifySignature(in.OrderID, in.PaymentID, in.Signature) {
		s.logg.Warn(s.logg.WithField(ctx, "order_id", in.OrderID), "callback signature mismatch")
		return VerifyResult{}, pkgerrors.New(pkgerrors.CodeSignatureInvalid, "callback signature mismatch")
	}

	switch in.EntityType {
	case enums.PaymentEntityDue:
		if in.EntityID == "" {
			return VerifyResult{}, pkgerrors.New(pkgerrors.CodeValidation, "entity id is required for due payments")
		}
		due, err := s.ledger.MarkDuePaid(ctx, in.EntityID, in.PaymentID)
		if err != nil {
			return VerifyResult{}, err
		}
		return VerifyResult{Due: &due}, nil

	case enums.PaymentEntityGuest:
		if in.Guest == nil {
			return VerifyResult{}, pkgerrors.New(pkgerrors.CodeValidation, "guest details are required for guest payments")
		}
		payment, err := s.ledger.RecordGuestPayment(ctx, ledger.GuestPaymentInput{
			Name:      in.Guest.Name,
			Phone:     in.Guest.Phone,
			Amount:    in.Guest.Amount,
			PaymentID: in.PaymentID,
			OrderID:   in.OrderID,
		})
		if err != nil {
			return VerifyResult{}, err
		}
		return VerifyResult{GuestPayment: &payment}, nil
	}

	return VerifyResult{}, pkgerrors.New(pkgerrors.CodeValidation, "unknown payment entity type")
}
