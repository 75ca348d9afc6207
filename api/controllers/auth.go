package controllers

import (
	"net/http"

	"github.com/vivimart/storefront-backend/api/middleware"
	"github.com/vivimart/storefront-backend/api/responses"
	"github.com/vivimart/storefront-backend/api/validators"
	"github.com/vivimart/storefront-backend/internal/auth"
	pkgerrors "github.com/vivimart/storefront-backend/pkg/errors"
	"github.com/vivimart/storefront-backend/pkg/logger"
)

type otpRequestPayload struct {
	Phone string `json:"phone" validate:"required"`
}

type otpVerifyPayload struct {
	Phone string `json:"phone" validate:"required"`
	Code  string `json:"code" validate:"required"`
}

// AuthOTPRequest issues a one-time code to the supplied phone number.
func AuthOTPRequest(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var payload otpRequestPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		phone := validators.SanitizeString(payload.Phone, 20)
		if err := svc.RequestCode(ctx, phone, middleware.ClientIP(r)); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusAccepted, map[string]string{"status": "sent"})
	}
}

// AuthOTPVerify exchanges a valid code for an access token.
func AuthOTPVerify(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var payload otpVerifyPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		session, err := svc.VerifyCode(ctx, validators.SanitizeString(payload.Phone, 20), validators.SanitizeString(payload.Code, 10))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, session)
	}
}
