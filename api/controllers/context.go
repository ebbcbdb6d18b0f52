package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/harvesthub-dev/harvesthub-backend/api/middleware"
	pkgerrors "github.com/harvesthub-dev/harvesthub-backend/pkg/errors"
)

// callerID extracts the authenticated user's id from the request context.
func callerID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid caller identity")
	}
	return id, nil
}
