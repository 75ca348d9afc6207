package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/vivimart/storefront-backend/api/middleware"
	"github.com/vivimart/storefront-backend/api/responses"
	"github.com/vivimart/storefront-backend/api/validators"
	"github.com/vivimart/storefront-backend/internal/addresses"
	pkgerrors "github.com/vivimart/storefront-backend/pkg/errors"
	"github.com/vivimart/storefront-backend/pkg/logger"
)

type addressPayload struct {
	House         string `json:"house" validate:"required"`
	Area          string `json:"area" validate:"required"`
	Landmark      string `json:"landmark"`
	RecipientName string `json:"recipient_name" validate:"required"`
	Phone         string `json:"phone" validate:"required"`
	Type          string `json:"type"`
}

func (p addressPayload) toEntry() addresses.Entry {
	return addresses.Entry{
		House:         validators.SanitizeString(p.House, 255),
		Area:          validators.SanitizeString(p.Area, 255),
		Landmark:      validators.SanitizeString(p.Landmark, 255),
		RecipientName: validators.SanitizeString(p.RecipientName, 120),
		Phone:         validators.SanitizeString(p.Phone, 20),
		Type:          validators.SanitizeString(p.Type, 40),
	}
}

func addressIndex(r *http.Request) (int, error) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || index < 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "address index must be a non-negative integer")
	}
	return index, nil
}

// AddressesList returns the customer's saved addresses in insertion order.
func AddressesList(svc addresses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "address service unavailable"))
			return
		}

		entries, err := svc.List(ctx, middleware.PhoneFromContext(ctx))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, entries)
	}
}

// AddressAdd appends a new saved address.
func AddressAdd(svc addresses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "address service unavailable"))
			return
		}

		var payload addressPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		entries, err := svc.Add(ctx, middleware.PhoneFromContext(ctx), payload.toEntry())
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, entries)
	}
}

// AddressUpdate replaces the saved address at the given position.
func AddressUpdate(svc addresses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "address service unavailable"))
			return
		}

		index, err := addressIndex(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload addressPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		entries, err := svc.Update(ctx, middleware.PhoneFromContext(ctx), index, payload.toEntry())
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, entries)
	}
}

// AddressDelete removes the saved address at the given position.
func AddressDelete(svc addresses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "address service unavailable"))
			return
		}

		index, err := addressIndex(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		entries, err := svc.Delete(ctx, middleware.PhoneFromContext(ctx), index)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, entries)
	}
}
