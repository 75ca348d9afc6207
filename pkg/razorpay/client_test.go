package razorpay

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/vivimart/storefront-backend/pkg/config"
)

func testClient(t *testing.T, rt roundTripFunc) *Client {
	t.Helper()
	client, err := NewClient(
		config.RazorpayConfig{KeyID: "rzp_test_key", KeySecret: "rzp_test_secret"},
		WithBaseURL("http://gateway.test/v1"),
		WithHTTPClient(&http.Client{Transport: rt}),
	)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func TestCreateOrderConvertsRupeesToPaise(t *testing.T) {
	var capturedAuth string
	var capturedBody map[string]any

	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		capturedAuth = req.Header.Get("Authorization")
		bodyBytes, err := io.ReadAll(req.Body)
		if err != nil {
			t.Fatalf("read request body: %v", err)
		}
		if err := json.Unmarshal(bodyBytes, &capturedBody); err != nil {
			t.Fatalf("unmarshal request body: %v", err)
		}
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(`{"id":"order_abc123","amount":69000,"currency":"INR","receipt":"rcpt-1","status":"created"}`)),
			Header:     http.Header{},
		}, nil
	})

	client := testClient(t, rt)
	order, err := client.CreateOrder(context.Background(), decimal.RequireFromString("690.00"), "rcpt-1")
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	if capturedAuth == "" || !strings.HasPrefix(capturedAuth, "Basic ") {
		t.Fatalf("expected basic auth header, got %q", capturedAuth)
	}
	if capturedBody["amount"] != float64(69000) {
		t.Fatalf("expected 69000 paise, got %v", capturedBody["amount"])
	}
	if capturedBody["currency"] != "INR" {
		t.Fatalf("unexpected currency %v", capturedBody["currency"])
	}
	if order.ID != "order_abc123" {
		t.Fatalf("unexpected order id %q", order.ID)
	}
}

func TestCreateOrderRejectsNonPositiveAmount(t *testing.T) {
	client := testClient(t, func(req *http.Request) (*http.Response, error) {
		t.Fatal("no request expected")
		return nil, nil
	})

	if _, err := client.CreateOrder(context.Background(), decimal.Zero, "rcpt-1"); err == nil {
		t.Fatal("expected validation error for zero amount")
	}
}

func TestCreateOrderSurfacesGatewayFailure(t *testing.T) {
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusBadRequest,
			Body:       io.NopCloser(strings.NewReader(`{"error":{"description":"amount too small"}}`)),
			Header:     http.Header{},
		}, nil
	})

	client := testClient(t, rt)
	if _, err := client.CreateOrder(context.Background(), decimal.RequireFromString("1.00"), "rcpt-1"); err == nil {
		t.Fatal("expected gateway error")
	}
}

func TestVerifyPaymentSignature(t *testing.T) {
	client := testClient(t, func(req *http.Request) (*http.Response, error) {
		t.Fatal("no request expected")
		return nil, nil
	})

	mac := hmac.New(sha256.New, []byte("rzp_test_secret"))
	mac.Write([]byte("order_abc123|pay_xyz789"))
	valid := hex.EncodeToString(mac.Sum(nil))

	if !client.VerifyPaymentSignature("order_abc123", "pay_xyz789", valid) {
		t.Fatal("expected valid signature to verify")
	}
	if client.VerifyPaymentSignature("order_abc123", "pay_xyz789", "deadbeef") {
		t.Fatal("expected tampered signature to fail")
	}
	if client.VerifyPaymentSignature("", "pay_xyz789", valid) {
		t.Fatal("expected empty order id to fail")
	}
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}
