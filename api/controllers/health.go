package controllers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/anandbhagyawant/messconnect-backend/api/responses"
	"github.com/anandbhagyawant/messconnect-backend/pkg/config"
	pkgerrors "github.com/anandbhagyawant/messconnect-backend/pkg/errors"
	"github.com/anandbhagyawant/messconnect-backend/pkg/logger"
	"go.uber.org/multierr"
)

// ReadinessProbe is anything the ready check can ping.
type ReadinessProbe interface {
	Ping(context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-MessConnect-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings every probe and reports all failures at once.
func HealthReady(cfg *config.Config, logg *logger.Logger, probes map[string]ReadinessProbe) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-MessConnect-Env", cfg.App.Env)

		var errs error
		for name, probe := range probes {
			if probe == nil {
				continue
			}
			if err := probe.Ping(r.Context()); err != nil {
				errs = multierr.Append(errs, fmt.Errorf("%s: %w", name, err))
			}
		}
		if errs != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, errs, "readiness probe failed"))
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
