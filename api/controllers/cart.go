package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/vivimart/storefront-backend/api/middleware"
	"github.com/vivimart/storefront-backend/api/responses"
	"github.com/vivimart/storefront-backend/api/validators"
	"github.com/vivimart/storefront-backend/internal/cart"
	"github.com/vivimart/storefront-backend/pkg/enums"
	pkgerrors "github.com/vivimart/storefront-backend/pkg/errors"
	"github.com/vivimart/storefront-backend/pkg/logger"
)

type cartItemPayload struct {
	ProductID      int64           `json:"productId" validate:"required"`
	ProductName    string          `json:"productName" validate:"required"`
	ImageURL       string          `json:"imageUrl"`
	Quantity       int             `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unitPrice"`
	Weight         decimal.Decimal `json:"weight"`
	DeliveryOption string          `json:"deliveryOption" validate:"required"`
}

type cartView struct {
	Items    []cart.Line     `json:"items"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

func cartResponse(lines []cart.Line) cartView {
	return cartView{Items: lines, Subtotal: cart.Subtotal(lines)}
}

// CartGet returns the customer's cart, optionally filtered to one
// delivery option.
func CartGet(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}
		phone := middleware.PhoneFromContext(ctx)

		var (
			lines []cart.Line
			err   error
		)
		if raw := strings.TrimSpace(r.URL.Query().Get("delivery_option")); raw != "" {
			opt, parseErr := enums.ParseDeliveryOption(raw)
			if parseErr != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "unrecognized delivery option"))
				return
			}
			lines, err = svc.GetByDeliveryOption(ctx, phone, opt)
		} else {
			lines, err = svc.GetAll(ctx, phone)
		}
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, cartResponse(lines))
	}
}

// CartUpsertItem adds a product line or replaces the existing one.
func CartUpsertItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}
		phone := middleware.PhoneFromContext(ctx)

		var payload cartItemPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		opt, err := enums.ParseDeliveryOption(payload.DeliveryOption)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unrecognized delivery option"))
			return
		}

		lines, err := svc.AddOrUpdate(ctx, phone, cart.Line{
			ProductID:      payload.ProductID,
			ProductName:    validators.SanitizeString(payload.ProductName, 255),
			ImageURL:       validators.SanitizeString(payload.ImageURL, 1024),
			Quantity:       payload.Quantity,
			UnitPrice:      payload.UnitPrice,
			Weight:         payload.Weight,
			DeliveryOption: opt,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, cartResponse(lines))
	}
}

// CartRemoveItem deletes one product line from the cart.
func CartRemoveItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}
		phone := middleware.PhoneFromContext(ctx)

		productID, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
		if err != nil || productID <= 0 {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "product id must be a positive integer"))
			return
		}

		lines, err := svc.Remove(ctx, phone, productID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, cartResponse(lines))
	}
}

// CartClear empties the cart, or just one delivery option's lines when
// delivery_option is supplied.
func CartClear(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}
		phone := middleware.PhoneFromContext(ctx)

		if raw := strings.TrimSpace(r.URL.Query().Get("delivery_option")); raw != "" {
			opt, parseErr := enums.ParseDeliveryOption(raw)
			if parseErr != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "unrecognized delivery option"))
				return
			}
			if err := svc.ClearByDeliveryOption(ctx, phone, opt); err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
		} else if err := svc.ClearAll(ctx, phone); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "cleared"})
	}
}
