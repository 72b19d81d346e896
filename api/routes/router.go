package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/anandbhagyawant/messconnect-backend/api/controllers"
	authcontrollers "github.com/anandbhagyawant/messconnect-backend/api/controllers/auth"
	broadcastcontrollers "github.com/anandbhagyawant/messconnect-backend/api/controllers/broadcasts"
	duecontrollers "github.com/anandbhagyawant/messconnect-backend/api/controllers/dues"
	feedbackcontrollers "github.com/anandbhagyawant/messconnect-backend/api/controllers/feedback"
	menucontrollers "github.com/anandbhagyawant/messconnect-backend/api/controllers/menu"
	notecontrollers "github.com/anandbhagyawant/messconnect-backend/api/controllers/notes"
	paymentcontrollers "github.com/anandbhagyawant/messconnect-backend/api/controllers/payments"
	settingcontrollers "github.com/anandbhagyawant/messconnect-backend/api/controllers/settings"
	studentcontrollers "github.com/anandbhagyawant/messconnect-backend/api/controllers/students"
	"github.com/anandbhagyawant/messconnect-backend/api/middleware"
	authsvc "github.com/anandbhagyawant/messconnect-backend/internal/auth"
	"github.com/anandbhagyawant/messconnect-backend/internal/directory"
	"github.com/anandbhagyawant/messconnect-backend/internal/ledger"
	paymentsvc "github.com/anandbhagyawant/messconnect-backend/internal/payments"
	"github.com/anandbhagyawant/messconnect-backend/internal/portal"
	settingsvc "github.com/anandbhagyawant/messconnect-backend/internal/settings"
	"github.com/anandbhagyawant/messconnect-backend/pkg/config"
	"github.com/anandbhagyawant/messconnect-backend/pkg/enums"
	"github.com/anandbhagyawant/messconnect-backend/pkg/logger"
	"github.com/anandbhagyawant/messconnect-backend/pkg/metrics"
	redispkg "github.com/anandbhagyawant/messconnect-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	probes map[string]controllers.ReadinessProbe,
	limiter redispkg.Counter,
	httpMetrics *metrics.HTTPMetrics,
	metricsHandler http.Handler,
	authService *authsvc.Service,
	directoryService *directory.Service,
	settingsService *settingsvc.Service,
	ledgerService *ledger.Service,
	paymentsService *paymentsvc.Service,
	portalService *portal.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
		middleware.Metrics(httpMetrics),
	)

	r.Get("/health/live", controllers.HealthLive(cfg))
	r.Get("/health/ready", controllers.HealthReady(cfg, logg, probes))
	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	student := enums.UserRoleStudent.String()
	manager := enums.UserRoleManager.String()
	admin := enums.UserRoleAdmin.String()

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(
				"register", limiter,
				cfg.AuthRateLimit.RegisterWindow,
				cfg.AuthRateLimit.RegisterIPLimit,
				cfg.AuthRateLimit.RegisterEmailLimit,
				logg,
			)).Post("/register", authcontrollers.Register(authService, logg))

			r.With(middleware.AuthRateLimit(
				"login", limiter,
				cfg.AuthRateLimit.LoginWindow,
				cfg.AuthRateLimit.LoginIPLimit,
				cfg.AuthRateLimit.LoginEmailLimit,
				logg,
			)).Post("/login", authcontrollers.Login(authService, logg))
		})

		// payment endpoints are open: guests pay without an account, and
		// the verify callback is gated by its signature, not a session
		r.Post("/payments/create-order", paymentcontrollers.CreateOrder(paymentsService, logg))
		r.Post("/payments/verify", paymentcontrollers.Verify(paymentsService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))

			r.Get("/menu", menucontrollers.Get(portalService, logg))
			r.Get("/broadcasts", broadcastcontrollers.List(portalService, logg))
			r.Get("/settings", settingcontrollers.Get(settingsService, logg))
			r.Get("/complaints", feedbackcontrollers.ListComplaints(portalService, logg))
			r.Get("/suggestions", feedbackcontrollers.ListSuggestions(portalService, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(logg, student))

				r.Get("/my-dues", duecontrollers.MyDues(directoryService, ledgerService, logg))
				r.Post("/complaints", feedbackcontrollers.CreateComplaint(directoryService, portalService, logg))
				r.Post("/suggestions", feedbackcontrollers.CreateSuggestion(directoryService, portalService, logg))
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(logg, manager, admin))

				r.Get("/financials", duecontrollers.Financials(ledgerService, logg))
				r.Post("/dues/{dueID}/mark-paid", duecontrollers.MarkPaid(ledgerService, logg))

				r.Get("/students", studentcontrollers.List(directoryService, logg))
				r.Post("/students/{studentID}/approve", studentcontrollers.Approve(directoryService, logg))
				r.Post("/students/{studentID}/reject", studentcontrollers.Reject(directoryService, logg))

				r.Put("/settings", settingcontrollers.Update(settingsService, logg))
				r.Put("/menu", menucontrollers.Update(portalService, logg))

				r.Post("/broadcasts", broadcastcontrollers.Create(portalService, logg))
				r.Post("/complaints/{complaintID}/reply", feedbackcontrollers.ReplyToComplaint(portalService, logg))
				r.Post("/suggestions/{suggestionID}/reply", feedbackcontrollers.ReplyToSuggestion(portalService, logg))

				r.Route("/notes", func(r chi.Router) {
					r.Get("/", notecontrollers.List(portalService, logg))
					r.Post("/", notecontrollers.Create(portalService, logg))
					r.Post("/{noteID}/toggle", notecontrollers.Toggle(portalService, logg))
					r.Delete("/{noteID}", notecontrollers.Delete(portalService, logg))
				})
			})
		})
	})

	return r
}
