package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/rcastell/dealerhub-backend/api/responses"
	"github.com/rcastell/dealerhub-backend/api/validators"
	pricingsvc "github.com/rcastell/dealerhub-backend/internal/pricing"
	"github.com/rcastell/dealerhub-backend/pkg/enums"
	pkgerrors "github.com/rcastell/dealerhub-backend/pkg/errors"
	"github.com/rcastell/dealerhub-backend/pkg/logger"
)

type resolvePriceRequest struct {
	ProductID  string `json:"product_id" validate:"required,uuid"`
	CustomerID string `json:"customer_id" validate:"required,uuid"`
	Channel    string `json:"channel" validate:"required"`
	Quantity   int    `json:"quantity" validate:"required,min=1"`
	At         string `json:"at,omitempty"`
}

// ResolvePrice returns the effective unit price for a product, customer and
// channel at the requested instant.
func ResolvePrice(svc pricingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pricing service unavailable"))
			return
		}

		var payload resolvePriceRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := uuid.Parse(payload.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}
		customerID, err := uuid.Parse(payload.CustomerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid customer id"))
			return
		}
		channel, err := enums.ParseChannel(payload.Channel)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid channel"))
			return
		}

		var at time.Time
		if payload.At != "" {
			parsed, parseErr := time.Parse(time.RFC3339, payload.At)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "at must be RFC3339"))
				return
			}
			at = parsed
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithProductID(ctx, productID.String())
			ctx = logg.WithCustomerID(ctx, customerID.String())
		}

		quote, err := svc.Resolve(ctx, pricingsvc.ResolveRequest{
			ProductID:  productID,
			CustomerID: customerID,
			Channel:    channel,
			Quantity:   payload.Quantity,
			At:         at,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, quote)
	}
}

// CostPlus derives channel list prices from cost and margin parameters. Pure
// calculation, nothing is persisted.
func CostPlus(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload pricingsvc.CostPlusParams
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, pricingsvc.CostPlus(payload))
	}
}
