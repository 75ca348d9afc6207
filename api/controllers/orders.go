package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/vivimart/storefront-backend/api/middleware"
	"github.com/vivimart/storefront-backend/api/responses"
	"github.com/vivimart/storefront-backend/api/validators"
	"github.com/vivimart/storefront-backend/internal/orders"
	"github.com/vivimart/storefront-backend/pkg/db/models"
	"github.com/vivimart/storefront-backend/pkg/enums"
	pkgerrors "github.com/vivimart/storefront-backend/pkg/errors"
	"github.com/vivimart/storefront-backend/pkg/logger"
)

type placeOrderPayload struct {
	RecipientName  string  `json:"recipientName" validate:"required"`
	Address        string  `json:"address" validate:"required"`
	DeliveryNotes  *string `json:"deliveryNotes"`
	DeliveryOption string  `json:"deliveryOption" validate:"required"`
	PaymentMethod  string  `json:"paymentMethod" validate:"required"`
}

type confirmPaymentPayload struct {
	PaymentID string `json:"paymentId" validate:"required"`
	Signature string `json:"signature" validate:"required"`
}

type orderView struct {
	Order models.Order          `json:"order"`
	Items []orders.EnrichedItem `json:"items"`
}

// OrderPlace converts one delivery option's cart lines into an order.
func OrderPlace(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}
		phone := middleware.PhoneFromContext(ctx)

		var payload placeOrderPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		opt, err := enums.ParseDeliveryOption(payload.DeliveryOption)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unrecognized delivery option"))
			return
		}
		method, err := enums.ParsePaymentMethod(payload.PaymentMethod)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unrecognized payment method"))
			return
		}

		receipt, err := svc.Place(ctx, phone, orders.PlaceInput{
			RecipientName:  validators.SanitizeString(payload.RecipientName, 120),
			Address:        validators.SanitizeString(payload.Address, 1024),
			DeliveryNotes:  payload.DeliveryNotes,
			DeliveryOption: opt,
			PaymentMethod:  method,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, receipt)
	}
}

// OrderConfirmPayment verifies the gateway callback and marks the order paid.
func OrderConfirmPayment(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}
		phone := middleware.PhoneFromContext(ctx)

		orderID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order id"))
			return
		}

		var payload confirmPaymentPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		order, err := svc.ConfirmPayment(ctx, phone, orders.ConfirmPaymentInput{
			OrderID:   orderID,
			PaymentID: validators.SanitizeString(payload.PaymentID, 255),
			Signature: validators.SanitizeString(payload.Signature, 255),
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// OrdersList returns the customer's orders, newest first, with each item
// paired against the live catalog row when it still exists.
func OrdersList(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}
		phone := middleware.PhoneFromContext(ctx)

		list, err := svc.ListByCustomer(ctx, phone)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		views := make([]orderView, 0, len(list))
		for _, order := range list {
			enriched, err := svc.EnrichItems(ctx, order.Items)
			if err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
			views = append(views, orderView{Order: order, Items: enriched})
		}
		responses.WriteSuccess(w, views)
	}
}
