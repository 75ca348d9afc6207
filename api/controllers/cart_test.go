package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/vivimart/storefront-backend/api/middleware"
	"github.com/vivimart/storefront-backend/internal/cart"
	"github.com/vivimart/storefront-backend/pkg/enums"
	pkgerrors "github.com/vivimart/storefront-backend/pkg/errors"
	"github.com/vivimart/storefront-backend/pkg/types"
)

type stubCartService struct {
	lines   []cart.Line
	err     error
	removed int64
}

func (s *stubCartService) AddOrUpdate(ctx context.Context, phone string, line cart.Line) ([]cart.Line, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.lines = append(s.lines, line)
	return s.lines, nil
}

func (s *stubCartService) SetQuantity(ctx context.Context, phone string, productID int64, quantity int) ([]cart.Line, error) {
	return s.lines, s.err
}

func (s *stubCartService) Remove(ctx context.Context, phone string, productID int64) ([]cart.Line, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.removed = productID
	return s.lines, nil
}

func (s *stubCartService) GetAll(ctx context.Context, phone string) ([]cart.Line, error) {
	return s.lines, s.err
}

func (s *stubCartService) GetByDeliveryOption(ctx context.Context, phone string, opt enums.DeliveryOption) ([]cart.Line, error) {
	if s.err != nil {
		return nil, s.err
	}
	filtered := make([]cart.Line, 0, len(s.lines))
	for _, line := range s.lines {
		if line.DeliveryOption == opt {
			filtered = append(filtered, line)
		}
	}
	return filtered, nil
}

func (s *stubCartService) ClearByDeliveryOption(ctx context.Context, phone string, opt enums.DeliveryOption) error {
	return s.err
}

func (s *stubCartService) ClearAll(ctx context.Context, phone string) error { return s.err }

func authedRequest(method, target string, body string) *http.Request {
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, target, nil)
	} else {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	return r.WithContext(middleware.WithPhone(r.Context(), "9876543210"))
}

func TestCartGetComputesSubtotal(t *testing.T) {
	t.Parallel()

	svc := &stubCartService{lines: []cart.Line{
		{ProductID: 1, ProductName: "Rice", Quantity: 2, UnitPrice: decimal.RequireFromString("345.00"), DeliveryOption: enums.DeliveryStandard},
		{ProductID: 2, ProductName: "Dal", Quantity: 1, UnitPrice: decimal.RequireFromString("120.00"), DeliveryOption: enums.DeliveryStandard},
	}}

	w := httptest.NewRecorder()
	CartGet(svc, nil)(w, authedRequest(http.MethodGet, "/cart", ""))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 but got %d", w.Code)
	}
	var envelope types.SuccessEnvelope
	if err := json.NewDecoder(w.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	view := envelope.Data.(map[string]any)
	if view["subtotal"] != "810" {
		t.Fatalf("unexpected subtotal %v", view["subtotal"])
	}
	if len(view["items"].([]any)) != 2 {
		t.Fatalf("expected 2 items, got %v", view["items"])
	}
}

func TestCartGetRejectsUnknownDeliveryOption(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	CartGet(&stubCartService{}, nil)(w, authedRequest(http.MethodGet, "/cart?delivery_option=Teleport", ""))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 but got %d", w.Code)
	}
}

func TestCartUpsertItemParsesPayload(t *testing.T) {
	t.Parallel()

	svc := &stubCartService{}
	body := `{"productId":7,"productName":"Milk","quantity":3,"unitPrice":"60.00","deliveryOption":"Fast Delivery"}`
	w := httptest.NewRecorder()
	CartUpsertItem(svc, nil)(w, authedRequest(http.MethodPut, "/cart/items", body))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 but got %d: %s", w.Code, w.Body.String())
	}
	if len(svc.lines) != 1 {
		t.Fatalf("expected one line recorded, got %d", len(svc.lines))
	}
	line := svc.lines[0]
	if line.ProductID != 7 || line.Quantity != 3 || line.DeliveryOption != enums.DeliveryFast {
		t.Fatalf("unexpected line %+v", line)
	}
}

func TestCartUpsertItemRejectsUnknownFields(t *testing.T) {
	t.Parallel()

	body := `{"productId":7,"productName":"Milk","quantity":3,"deliveryOption":"Fast Delivery","bogus":true}`
	w := httptest.NewRecorder()
	CartUpsertItem(&stubCartService{}, nil)(w, authedRequest(http.MethodPut, "/cart/items", body))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 but got %d", w.Code)
	}
}

func TestCartRemoveItemParsesURLParam(t *testing.T) {
	t.Parallel()

	svc := &stubCartService{}
	r := authedRequest(http.MethodDelete, "/cart/items/42", "")
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("productID", "42")
	r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, routeCtx))

	w := httptest.NewRecorder()
	CartRemoveItem(svc, nil)(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 but got %d", w.Code)
	}
	if svc.removed != 42 {
		t.Fatalf("expected product 42 removed, got %d", svc.removed)
	}
}

func TestCartGetSurfacesServiceErrors(t *testing.T) {
	t.Parallel()

	svc := &stubCartService{err: pkgerrors.New(pkgerrors.CodeDependency, "redis down")}
	w := httptest.NewRecorder()
	CartGet(svc, nil)(w, authedRequest(http.MethodGet, "/cart", ""))

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 but got %d", w.Code)
	}
}
