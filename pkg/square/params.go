package square

import (
	"strings"

	sq "github.com/square/square-go-sdk"
	sqcheckout "github.com/square/square-go-sdk/checkout"
)

// PaymentLinkParams carries everything needed to open a hosted checkout
// page for a pending order session.
type PaymentLinkParams struct {
	SessionID      string
	Description    string
	AmountCents    int64
	Currency       string
	RedirectURL    string
	IdempotencyKey string
}

func (p PaymentLinkParams) toSquareRequest(locationID, redirectBase, idempotencyKey string) *sqcheckout.CreatePaymentLinkRequest {
	name := strings.TrimSpace(p.Description)
	if name == "" {
		name = "Order " + p.SessionID
	}

	req := &sqcheckout.CreatePaymentLinkRequest{
		IdempotencyKey: stringPtr(idempotencyKey),
		QuickPay: &sq.QuickPay{
			Name:       name,
			PriceMoney: moneyPtr(p.AmountCents, p.Currency),
			LocationID: locationID,
		},
		PaymentNote: stringPtr("session:" + p.SessionID),
	}

	if redirect := p.resolveRedirect(redirectBase); redirect != "" {
		req.CheckoutOptions = &sq.CheckoutOptions{
			RedirectURL: stringPtr(redirect),
		}
	}
	return req
}

func (p PaymentLinkParams) resolveRedirect(redirectBase string) string {
	if url := strings.TrimSpace(p.RedirectURL); url != "" {
		return url
	}
	base := strings.TrimRight(strings.TrimSpace(redirectBase), "/")
	if base == "" {
		return ""
	}
	return base + "/orders/session/" + p.SessionID
}

func moneyPtr(amountCents int64, currency string) *sq.Money {
	cur := sq.Currency(strings.ToUpper(strings.TrimSpace(currency)))
	if cur == "" {
		cur = sq.CurrencyUsd
	}
	return &sq.Money{
		Amount:   &amountCents,
		Currency: &cur,
	}
}

func stringPtr(s string) *string {
	return &s
}
