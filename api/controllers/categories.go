package controllers

import (
	"net/http"

	"github.com/harvesthub-dev/harvesthub-backend/api/responses"
	"github.com/harvesthub-dev/harvesthub-backend/api/validators"
	catalogsvc "github.com/harvesthub-dev/harvesthub-backend/internal/catalog"
	"github.com/harvesthub-dev/harvesthub-backend/pkg/logger"
)

// CategoryList returns every category for browsing.
func CategoryList(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories, err := svc.ListCategories(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, categories)
	}
}

// CategoryCreate registers a new category.
func CategoryCreate(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Name        string `json:"name" validate:"required"`
			Description string `json:"description"`
		}
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		category, err := svc.CreateCategory(r.Context(), catalogsvc.CreateCategoryInput{
			Name:        payload.Name,
			Description: payload.Description,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, category)
	}
}
