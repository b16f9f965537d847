package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/grocerly-app/storefront-backend/api/responses"
	"github.com/grocerly-app/storefront-backend/pkg/config"
	"github.com/grocerly-app/storefront-backend/pkg/db"
	pkgerrors "github.com/grocerly-app/storefront-backend/pkg/errors"
	"github.com/grocerly-app/storefront-backend/pkg/logger"
	pkgredis "github.com/grocerly-app/storefront-backend/pkg/redis"
)

const readinessTimeout = 3 * time.Second

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Grocerly-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings every hard dependency. A nil pinger is treated as not
// wired and skipped.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP pkgredis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Grocerly-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		checks := map[string]string{}
		healthy := true

		if dbP != nil {
			checks["postgres"] = "ok"
			if err := dbP.Ping(ctx); err != nil {
				checks["postgres"] = err.Error()
				healthy = false
			}
		}
		if redisP != nil {
			checks["redis"] = "ok"
			if err := redisP.Ping(ctx); err != nil {
				checks["redis"] = err.Error()
				healthy = false
			}
		}

		if !healthy {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeDependency, "dependencies unavailable").WithDetails(checks))
			return
		}
		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
