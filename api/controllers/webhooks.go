package controllers

import (
	"io"
	"net/http"

	"github.com/avilesdev/storefront-backend/api/responses"
	webhooksquare "github.com/avilesdev/storefront-backend/internal/webhooks/square"
	pkgerrors "github.com/avilesdev/storefront-backend/pkg/errors"
	"github.com/avilesdev/storefront-backend/pkg/logger"
)

const squareSignatureHeader = "X-Square-Hmacsha256-Signature"

type webhookVerifier interface {
	VerifyWebhookSignature(notificationURL string, body []byte, signature string) bool
}

// SquareWebhook verifies and applies Square payment notifications.
// notificationURL must match the URL registered with Square, since the
// signature covers it.
func SquareWebhook(verifier webhookVerifier, svc *webhooksquare.Service, notificationURL string, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		body, err := io.ReadAll(r.Body)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read webhook body"))
			return
		}

		if !verifier.VerifyWebhookSignature(notificationURL, body, r.Header.Get(squareSignatureHeader)) {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid webhook signature"))
			return
		}

		event, err := webhooksquare.ParseEvent(body)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if event == nil {
			// event type we don't act on; acknowledge so Square stops retrying
			responses.WriteSuccess(w, map[string]string{"status": "ignored"})
			return
		}

		if err := svc.HandleEvent(ctx, event); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "processed"})
	}
}
