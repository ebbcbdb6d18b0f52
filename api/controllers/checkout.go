package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/harvesthub-dev/harvesthub-backend/api/responses"
	"github.com/harvesthub-dev/harvesthub-backend/api/validators"
	checkoutsvc "github.com/harvesthub-dev/harvesthub-backend/internal/checkout"
	"github.com/harvesthub-dev/harvesthub-backend/pkg/logger"
)

// CheckoutConfirm places one order per vendor for the selected cart items.
func CheckoutConfirm(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		buyerID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload struct {
			VariationIDs    []uuid.UUID `json:"variation_ids" validate:"required,min=1"`
			ShippingAddress string      `json:"shipping_address" validate:"required"`
			PaymentMethod   string      `json:"payment_method" validate:"required"`
			DeliveryMethod  *string     `json:"delivery_method"`
		}
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entries, err := svc.ConfirmCheckout(r.Context(), buyerID, checkoutsvc.CheckoutInput{
			VariationIDs:    payload.VariationIDs,
			ShippingAddress: payload.ShippingAddress,
			PaymentMethod:   payload.PaymentMethod,
			DeliveryMethod:  payload.DeliveryMethod,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{"orders": entries})
	}
}

// CheckoutSummary prices the selected cart items without placing orders.
func CheckoutSummary(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		buyerID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload struct {
			VariationIDs []uuid.UUID `json:"variation_ids" validate:"required,min=1"`
		}
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		summary, err := svc.OrderSummary(r.Context(), buyerID, payload.VariationIDs)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}
