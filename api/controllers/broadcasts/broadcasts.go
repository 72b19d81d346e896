package broadcasts

import (
	"net/http"

	"github.com/anandbhagyawant/messconnect-backend/api/responses"
	"github.com/anandbhagyawant/messconnect-backend/api/validators"
	"github.com/anandbhagyawant/messconnect-backend/internal/portal"
	"github.com/anandbhagyawant/messconnect-backend/pkg/logger"
)

type createRequest struct {
	Title   string `json:"title" validate:"required,max=200"`
	Message string `json:"message" validate:"required,max=2000"`
}

func Create(svc *portal.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req createRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		broadcast, err := svc.CreateBroadcast(ctx, validators.TrimmedString(req.Title), validators.TrimmedString(req.Message))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, broadcast)
	}
}

func List(svc *portal.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		broadcasts, err := svc.ListBroadcasts(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, broadcasts)
	}
}
