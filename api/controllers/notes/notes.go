package notes

import (
	"net/http"

	"github.com/anandbhagyawant/messconnect-backend/api/middleware"
	"github.com/anandbhagyawant/messconnect-backend/api/responses"
	"github.com/anandbhagyawant/messconnect-backend/api/validators"
	"github.com/anandbhagyawant/messconnect-backend/internal/portal"
	pkgerrors "github.com/anandbhagyawant/messconnect-backend/pkg/errors"
	"github.com/anandbhagyawant/messconnect-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type createRequest struct {
	Text string `json:"text" validate:"required,max=500"`
}

func Create(svc *portal.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req createRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		note, err := svc.CreateNote(ctx, middleware.UserIDFromContext(ctx), validators.TrimmedString(req.Text))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, note)
	}
}

func List(svc *portal.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		notes, err := svc.ListNotes(ctx, middleware.UserIDFromContext(ctx))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, notes)
	}
}

func Toggle(svc *portal.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		noteID := validators.TrimmedString(chi.URLParam(r, "noteID"))
		if noteID == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "note id is required"))
			return
		}

		note, err := svc.ToggleNote(ctx, middleware.UserIDFromContext(ctx), noteID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, note)
	}
}

func Delete(svc *portal.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		noteID := validators.TrimmedString(chi.URLParam(r, "noteID"))
		if noteID == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "note id is required"))
			return
		}

		if err := svc.DeleteNote(ctx, middleware.UserIDFromContext(ctx), noteID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"deleted": true})
	}
}
