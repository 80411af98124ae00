package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/osegura/ventapos-backend/api/responses"
	"github.com/osegura/ventapos-backend/pkg/db"
	pkgerrors "github.com/osegura/ventapos-backend/pkg/errors"
	"github.com/osegura/ventapos-backend/pkg/logger"
	"github.com/osegura/ventapos-backend/pkg/redis"
)

func HealthLive() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, "service live", map[string]string{"status": "live"})
	}
}

// HealthReady reports readiness based on the datasource and counter store.
// A nil dependency is skipped.
func HealthReady(database db.Pinger, cache *redis.Client, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		checks := map[string]string{}
		failed := false
		check := func(name string, ping func(context.Context) error) {
			if err := ping(ctx); err != nil {
				checks[name] = "down"
				failed = true
				return
			}
			checks[name] = "up"
		}
		if database != nil {
			check("database", database.Ping)
		}
		if cache != nil {
			check("redis", cache.Ping)
		}

		if failed {
			err := pkgerrors.New(pkgerrors.CodeDependency, "dependency unavailable").
				WithDetails(checks)
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, "service ready", checks)
	}
}
