// Package feedback exposes complaints and suggestions. Students file and see
// their own; managers see everything and reply.
package feedback

import (
	"net/http"

	"github.com/anandbhagyawant/messconnect-backend/api/middleware"
	"github.com/anandbhagyawant/messconnect-backend/api/responses"
	"github.com/anandbhagyawant/messconnect-backend/api/validators"
	"github.com/anandbhagyawant/messconnect-backend/internal/directory"
	"github.com/anandbhagyawant/messconnect-backend/internal/portal"
	"github.com/anandbhagyawant/messconnect-backend/pkg/enums"
	pkgerrors "github.com/anandbhagyawant/messconnect-backend/pkg/errors"
	"github.com/anandbhagyawant/messconnect-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type createRequest struct {
	Text string `json:"text" validate:"required,max=2000"`
}

type replyRequest struct {
	Reply string `json:"reply" validate:"required,max=2000"`
}

func CreateComplaint(dir *directory.Service, svc *portal.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req createRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		student, err := dir.GetUser(ctx, middleware.UserIDFromContext(ctx))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		complaint, err := svc.CreateComplaint(ctx, student, validators.TrimmedString(req.Text))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, complaint)
	}
}

// ListComplaints scopes the listing by role: managers see all complaints,
// students only their own.
func ListComplaints(svc *portal.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		studentID := ""
		if middleware.RoleFromContext(ctx) == enums.UserRoleStudent.String() {
			studentID = middleware.UserIDFromContext(ctx)
		}

		complaints, err := svc.ListComplaints(ctx, studentID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, complaints)
	}
}

func ReplyToComplaint(svc *portal.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id := validators.TrimmedString(chi.URLParam(r, "complaintID"))
		if id == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "complaint id is required"))
			return
		}

		var req replyRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		complaint, err := svc.ReplyToComplaint(ctx, id, validators.TrimmedString(req.Reply))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, complaint)
	}
}

func CreateSuggestion(dir *directory.Service, svc *portal.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req createRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		student, err := dir.GetUser(ctx, middleware.UserIDFromContext(ctx))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		suggestion, err := svc.CreateSuggestion(ctx, student, validators.TrimmedString(req.Text))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, suggestion)
	}
}

func ListSuggestions(svc *portal.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		studentID := ""
		if middleware.RoleFromContext(ctx) == enums.UserRoleStudent.String() {
			studentID = middleware.UserIDFromContext(ctx)
		}

		suggestions, err := svc.ListSuggestions(ctx, studentID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, suggestions)
	}
}

func ReplyToSuggestion(svc *portal.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id := validators.TrimmedString(chi.URLParam(r, "suggestionID"))
		if id == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "suggestion id is required"))
			return
		}

		var req replyRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		suggestion, err := svc.ReplyToSuggestion(ctx, id, validators.TrimmedString(req.Reply))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, suggestion)
	}
}
