package dues

import (
	"net/http"

	"github.com/anandbhagyawant/messconnect-backend/api/middleware"
	"github.com/anandbhagyawant/messconnect-backend/api/responses"
	"github.com/anandbhagyawant/messconnect-backend/api/validators"
	"github.com/anandbhagyawant/messconnect-backend/internal/directory"
	"github.com/anandbhagyawant/messconnect-backend/internal/ledger"
	pkgerrors "github.com/anandbhagyawant/messconnect-backend/pkg/errors"
	"github.com/anandbhagyawant/messconnect-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
)

// MyDues returns the authenticated student's dues, seeding the current
// month's bill on the way.
func MyDues(dir *directory.Service, ledgerSvc *ledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		student, err := dir.GetUser(ctx, middleware.UserIDFromContext(ctx))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		list, err := ledgerSvc.StudentDues(ctx, student)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// Financials is the manager's combined view of dues and guest payments.
func Financials(ledgerSvc *ledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := ledgerSvc.Financials(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// MarkPaid is the manager override settlement for cash payments.
func MarkPaid(ledgerSvc *ledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		dueID := validators.TrimmedString(chi.URLParam(r, "dueID"))
		if dueID == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "due id is required"))
			return
		}

		due, err := ledgerSvc.MarkDuePaid(ctx, dueID, "")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, due)
	}
}
