package students

import (
	"context"
	"net/http"

	"github.com/anandbhagyawant/messconnect-backend/api/responses"
	"github.com/anandbhagyawant/messconnect-backend/api/validators"
	"github.com/anandbhagyawant/messconnect-backend/internal/directory"
	"github.com/anandbhagyawant/messconnect-backend/internal/records"
	pkgerrors "github.com/anandbhagyawant/messconnect-backend/pkg/errors"
	"github.com/anandbhagyawant/messconnect-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
)

func List(svc *directory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		students, err := svc.ListStudents(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, students)
	}
}

func Approve(svc *directory.Service, logg *logger.Logger) http.HandlerFunc {
	return transitionHandler(svc.Approve, logg)
}

func Reject(svc *directory.Service, logg *logger.Logger) http.HandlerFunc {
	return transitionHandler(svc.Reject, logg)
}

func transitionHandler(transition func(context.Context, string) (records.PublicUser, error), logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		studentID := validators.TrimmedString(chi.URLParam(r, "studentID"))
		if studentID == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "student id is required"))
			return
		}

		student, err := transition(ctx, studentID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, student)
	}
}
