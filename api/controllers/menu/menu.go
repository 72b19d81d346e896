package menu

import (
	"net/http"

	"github.com/anandbhagyawant/messconnect-backend/api/responses"
	"github.com/anandbhagyawant/messconnect-backend/api/validators"
	"github.com/anandbhagyawant/messconnect-backend/internal/portal"
	"github.com/anandbhagyawant/messconnect-backend/internal/records"
	"github.com/anandbhagyawant/messconnect-backend/pkg/logger"
)

type updateRequest struct {
	Days []records.MenuDay `json:"days" validate:"required,max=7,dive"`
}

func Get(svc *portal.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		weekly, err := svc.Menu(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, weekly)
	}
}

func Update(svc *portal.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req updateRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		weekly, err := svc.UpdateMenu(ctx, req.Days)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, weekly)
	}
}
