package square

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"io"
	"strings"
	"testing"

	"github.com/avilesdev/storefront-backend/pkg/logger"
)

func TestNormalizeEnv(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "defaults to sandbox", input: "", want: sandboxEnv},
		{name: "sandbox passthrough", input: "sandbox", want: sandboxEnv},
		{name: "production normalized", input: " Production ", want: productionEnv},
		{name: "unknown rejected", input: "staging", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := normalizeEnv(tc.input)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("normalizeEnv(%q) expected error", tc.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("normalizeEnv(%q) unexpected error: %v", tc.input, err)
			}
			if got != tc.want {
				t.Fatalf("normalizeEnv(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestPaymentLinkParamsToSquareRequest(t *testing.T) {
	t.Parallel()

	params := PaymentLinkParams{
		SessionID:   "sess-123",
		AmountCents: 23000,
		Currency:    "usd",
	}
	req := params.toSquareRequest("loc-1", "https://shop.example.com/", "idem-1")

	if req.QuickPay == nil {
		t.Fatal("expected quick pay payload")
	}
	if req.QuickPay.Name != "Order sess-123" {
		t.Fatalf("unexpected quick pay name %q", req.QuickPay.Name)
	}
	if req.QuickPay.LocationID != "loc-1" {
		t.Fatalf("unexpected location id %q", req.QuickPay.LocationID)
	}
	if req.QuickPay.PriceMoney == nil || req.QuickPay.PriceMoney.Amount == nil || *req.QuickPay.PriceMoney.Amount != 23000 {
		t.Fatal("unexpected price money amount")
	}
	if req.CheckoutOptions == nil || req.CheckoutOptions.RedirectURL == nil {
		t.Fatal("expected redirect url from base")
	}
	if got := *req.CheckoutOptions.RedirectURL; got != "https://shop.example.com/orders/session/sess-123" {
		t.Fatalf("unexpected redirect url %q", got)
	}
}

func TestPaymentLinkParamsExplicitRedirectWins(t *testing.T) {
	t.Parallel()

	params := PaymentLinkParams{
		SessionID:   "sess-9",
		AmountCents: 500,
		RedirectURL: "https://custom.example.com/done",
	}
	req := params.toSquareRequest("loc-1", "https://shop.example.com", "idem-1")
	if req.CheckoutOptions == nil || req.CheckoutOptions.RedirectURL == nil {
		t.Fatal("expected redirect url")
	}
	if got := *req.CheckoutOptions.RedirectURL; got != "https://custom.example.com/done" {
		t.Fatalf("unexpected redirect url %q", got)
	}
}

func TestVerifyWebhookSignature(t *testing.T) {
	t.Parallel()

	secret := "whsec_test"
	c := &Client{webhookSecret: secret, logger: testLogger(t)}

	url := "https://api.example.com/api/webhooks/square"
	body := []byte(`{"type":"payment.updated"}`)

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(url))
	mac.Write(body)
	valid := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	if !c.VerifyWebhookSignature(url, body, valid) {
		t.Fatal("expected valid signature to verify")
	}
	if c.VerifyWebhookSignature(url, body, "bogus") {
		t.Fatal("expected bogus signature to fail")
	}
	if c.VerifyWebhookSignature(url, []byte(`{}`), valid) {
		t.Fatal("expected tampered body to fail")
	}

	empty := &Client{logger: testLogger(t)}
	if empty.VerifyWebhookSignature(url, body, valid) {
		t.Fatal("expected verification to fail without a secret")
	}
}

func TestNewIdempotencyKey(t *testing.T) {
	t.Parallel()

	c := &Client{}
	key := c.NewIdempotencyKey("payment_link.create")
	if !strings.HasPrefix(key, "payment_link.create-") {
		t.Fatalf("unexpected key %q", key)
	}
	if key == c.NewIdempotencyKey("payment_link.create") {
		t.Fatal("expected unique keys")
	}

	if !strings.HasPrefix(c.NewIdempotencyKey("  "), "sf-") {
		t.Fatal("expected fallback prefix")
	}
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}
