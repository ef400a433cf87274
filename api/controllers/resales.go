package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rcastell/dealerhub-backend/api/responses"
	"github.com/rcastell/dealerhub-backend/api/validators"
	resalesvc "github.com/rcastell/dealerhub-backend/internal/resales"
	pkgerrors "github.com/rcastell/dealerhub-backend/pkg/errors"
	"github.com/rcastell/dealerhub-backend/pkg/logger"
)

type createResaleLineRequest struct {
	ProductID    string   `json:"product_id" validate:"required,uuid"`
	Qty          int      `json:"qty"`
	UnitPriceNet *float64 `json:"unit_price_net,omitempty" validate:"omitempty,gt=0"`
}

type createResaleRequest struct {
	ResellerID   string                    `json:"reseller_id" validate:"required,uuid"`
	CustomerName string                    `json:"customer_name" validate:"required"`
	VATRate      *float64                  `json:"vat_rate,omitempty" validate:"omitempty,gte=0,lt=1"`
	Lines        []createResaleLineRequest `json:"lines" validate:"required,min=1,dive"`
}

func (req createResaleRequest) toInput() (resalesvc.CreateSaleInput, error) {
	resellerID, err := uuid.Parse(req.ResellerID)
	if err != nil {
		return resalesvc.CreateSaleInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid reseller id")
	}
	lines := make([]resalesvc.CreateSaleLineInput, 0, len(req.Lines))
	for _, line := range req.Lines {
		productID, parseErr := uuid.Parse(line.ProductID)
		if parseErr != nil {
			return resalesvc.CreateSaleInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid line product id")
		}
		lines = append(lines, resalesvc.CreateSaleLineInput{
			ProductID:    productID,
			Qty:          line.Qty,
			UnitPriceNet: line.UnitPriceNet,
		})
	}
	return resalesvc.CreateSaleInput{
		ResellerID:   resellerID,
		CustomerName: req.CustomerName,
		VATRate:      req.VATRate,
		Lines:        lines,
	}, nil
}

// CreateResale records a reseller's sale with snapshotted costs and prices.
func CreateResale(svc resalesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "resales service unavailable"))
			return
		}

		var payload createResaleRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.CreateSale(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

func ResaleDetail(svc resalesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := parseOrderID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.GetOrder(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

func ResaleList(svc resalesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", 20, 1, 100)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		offset, err := validators.ParseQueryInt(r, "offset", 0, 0, 1_000_000)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters := resalesvc.ListFilters{Limit: limit, Offset: offset}
		if raw := r.URL.Query().Get("reseller_id"); raw != "" {
			resellerID, parseErr := uuid.Parse(raw)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid reseller id"))
				return
			}
			filters.ResellerID = resellerID
		}

		orders, err := svc.ListOrders(r.Context(), filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, orders)
	}
}

func ConfirmResale(svc resalesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := parseOrderID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Confirm(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

func CancelResale(svc resalesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := parseOrderID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Cancel(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

func parseOrderID(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "orderId")
	orderID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order id")
	}
	return orderID, nil
}
