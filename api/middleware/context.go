package middleware

import "context"

type contextKey string

const ctxPhone contextKey = "phone"

// PhoneFromContext returns the authenticated customer's phone number, or
// empty when the request is anonymous.
func PhoneFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxPhone).(string); ok {
		return v
	}
	return ""
}

// WithPhone injects the customer phone number into the context.
func WithPhone(ctx context.Context, phone string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxPhone, phone)
}
