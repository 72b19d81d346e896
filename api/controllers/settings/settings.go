package settings

import (
	"net/http"

	"github.com/anandbhagyawant/messconnect-backend/api/responses"
	"github.com/anandbhagyawant/messconnect-backend/api/validators"
	"github.com/anandbhagyawant/messconnect-backend/internal/records"
	settingsvc "github.com/anandbhagyawant/messconnect-backend/internal/settings"
	"github.com/anandbhagyawant/messconnect-backend/pkg/logger"
	"github.com/shopspring/decimal"
)

type updateRequest struct {
	MonthlyFee decimal.Decimal `json:"monthlyFee"`
	Rules      string          `json:"rules" validate:"max=5000"`
}

func Get(svc *settingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg, err := svc.Get(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cfg)
	}
}

func Update(svc *settingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req updateRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		cfg, err := svc.Update(ctx, records.SettingsRecord{
			MonthlyFee: req.MonthlyFee,
			Rules:      validators.TrimmedString(req.Rules),
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, cfg)
	}
}
