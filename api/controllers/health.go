package controllers

import (
	"context"
	"net/http"

	"github.com/electronicmusicbook/temb-backend/api/responses"
	pkgerrors "github.com/electronicmusicbook/temb-backend/pkg/errors"
	"github.com/electronicmusicbook/temb-backend/pkg/logger"
)

type pinger interface {
	Ping(ctx context.Context) error
}

// Healthz is the liveness probe.
func Healthz() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteRaw(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// Readyz verifies the backing stores answer. Redis is optional; a nil
// pinger is skipped.
func Readyz(database pinger, cache pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if database != nil {
			if err := database.Ping(ctx); err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unreachable"))
				return
			}
		}
		if cache != nil {
			if err := cache.Ping(ctx); err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis unreachable"))
				return
			}
		}

		responses.WriteRaw(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}
