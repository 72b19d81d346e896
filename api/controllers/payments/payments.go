package payments

import (
	"net/http"

	"github.com/anandbhagyawant/messconnect-backend/api/responses"
	"github.com/anandbhagyawant/messconnect-backend/api/validators"
	paymentsvc "github.com/anandbhagyawant/messconnect-backend/internal/payments"
	"github.com/anandbhagyawant/messconnect-backend/pkg/enums"
	pkgerrors "github.com/anandbhagyawant/messconnect-backend/pkg/errors"
	"github.com/anandbhagyawant/messconnect-backend/pkg/logger"
	"github.com/shopspring/decimal"
)

type createOrderRequest struct {
	Amount   decimal.Decimal `json:"amount"`
	Name     string          `json:"name" validate:"required"`
	Phone    string          `json:"phone"`
	EntityID string          `json:"entityId" validate:"required"`
}

type guestDetails struct {
	Name   string          `json:"name" validate:"required"`
	Phone  string          `json:"phone"`
	Amount decimal.Decimal `json:"amount"`
}

type verifyRequest struct {
	OrderID      string        `json:"orderId" validate:"required"`
	PaymentID    string        `json:"paymentId" validate:"required"`
	Signature    string        `json:"signature" validate:"required"`
	EntityID     string        `json:"entityId"`
	EntityType   string        `json:"entityType" validate:"required"`
	GuestDetails *guestDetails `json:"guestDetails" validate:"omitempty"`
}

func CreateOrder(svc *paymentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req createOrderRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		order, err := svc.CreateOrder(ctx, paymentsvc.CreateOrderInput{
			Amount:   req.Amount,
			Name:     validators.TrimmedString(req.Name),
			Phone:    validators.TrimmedString(req.Phone),
			EntityID: req.EntityID,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

func Verify(svc *paymentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req verifyRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		entityType, err := enums.ParsePaymentEntityType(req.EntityType)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid entity type"))
			return
		}

		in := paymentsvc.VerifyInput{
			OrderID:    req.OrderID,
			PaymentID:  req.PaymentID,
			Signature:  req.Signature,
			EntityType: entityType,
			EntityID:   req.EntityID,
		}
		if req.GuestDetails != nil {
			in.Guest = &paymentsvc.GuestDetails{
				Name:   validators.TrimmedString(req.GuestDetails.Name),
				Phone:  validators.TrimmedString(req.GuestDetails.Phone),
				Amount: req.GuestDetails.Amount,
			}
		}

		result, err := svc.Verify(ctx, in)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
