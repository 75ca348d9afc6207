package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/vivimart/storefront-backend/api/middleware"
	"github.com/vivimart/storefront-backend/api/responses"
	"github.com/vivimart/storefront-backend/api/validators"
	"github.com/vivimart/storefront-backend/internal/locations"
	pkgerrors "github.com/vivimart/storefront-backend/pkg/errors"
	"github.com/vivimart/storefront-backend/pkg/logger"
)

type locationContextPayload struct {
	Pincode    string `json:"pincode" validate:"required"`
	City       string `json:"city" validate:"required"`
	LocationID int64  `json:"location_id" validate:"required"`
	StoreID    int64  `json:"store_id" validate:"required"`
}

// LocationByPincode checks whether a pincode is serviceable.
func LocationByPincode(svc locations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "location service unavailable"))
			return
		}

		pincode := strings.TrimSpace(chi.URLParam(r, "pincode"))
		location, err := svc.LookupByPostalCode(ctx, pincode)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, location)
	}
}

// LocationsAutocomplete proxies address suggestions for the query string.
func LocationsAutocomplete(svc locations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "location service unavailable"))
			return
		}

		query := validators.SanitizeString(r.URL.Query().Get("q"), 255)
		suggestions, err := svc.Autocomplete(ctx, query)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, suggestions)
	}
}

// LocationsReverseGeocode resolves coordinates to a postal address.
func LocationsReverseGeocode(svc locations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "location service unavailable"))
			return
		}

		lat, latErr := strconv.ParseFloat(strings.TrimSpace(r.URL.Query().Get("lat")), 64)
		lng, lngErr := strconv.ParseFloat(strings.TrimSpace(r.URL.Query().Get("lng")), 64)
		if latErr != nil || lngErr != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "lat and lng must be numeric"))
			return
		}

		resolved, err := svc.ResolveCoordinates(ctx, lat, lng)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, resolved)
	}
}

// LocationContextSet stores the customer's active delivery context.
func LocationContextSet(svc locations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "location service unavailable"))
			return
		}

		var payload locationContextPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		loc := locations.LocationContext{
			Pincode:    validators.SanitizeString(payload.Pincode, 10),
			City:       validators.SanitizeString(payload.City, 120),
			LocationID: payload.LocationID,
			StoreID:    payload.StoreID,
		}
		if err := svc.SetContext(ctx, middleware.PhoneFromContext(ctx), loc); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, loc)
	}
}

// LocationContextGet returns the customer's active delivery context.
func LocationContextGet(svc locations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "location service unavailable"))
			return
		}

		loc, err := svc.GetContext(ctx, middleware.PhoneFromContext(ctx))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, loc)
	}
}
