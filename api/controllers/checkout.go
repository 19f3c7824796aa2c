package controllers

import (
	"net/http"
	"strings"

	"github.com/avilesdev/storefront-backend/api/responses"
	"github.com/avilesdev/storefront-backend/api/validators"
	"github.com/avilesdev/storefront-backend/internal/checkout"
	"github.com/avilesdev/storefront-backend/pkg/enums"
	pkgerrors "github.com/avilesdev/storefront-backend/pkg/errors"
	"github.com/avilesdev/storefront-backend/pkg/logger"
	"github.com/avilesdev/storefront-backend/pkg/types"
)

type shippingAddressPayload struct {
	FullName    string `json:"full_name"`
	Address     string `json:"address"`
	City        string `json:"city"`
	PostalCode  string `json:"postal_code"`
	Country     string `json:"country"`
	PhoneNumber string `json:"phone_number"`
}

func (p shippingAddressPayload) toAddress() types.ShippingAddress {
	return types.ShippingAddress{
		FullName:    p.FullName,
		Address:     p.Address,
		City:        p.City,
		PostalCode:  p.PostalCode,
		Country:     p.Country,
		PhoneNumber: p.PhoneNumber,
	}
}

type cardPayload struct {
	Number string `json:"number"`
	Expiry string `json:"expiry"`
	CVV    string `json:"cvv"`
}

// checkoutPayload deliberately carries no field-level validate tags: the
// checkout service reports broken fields in a fixed order.
type checkoutPayload struct {
	ShippingAddress shippingAddressPayload `json:"shipping_address"`
	SaveAddress     bool                   `json:"save_address,omitempty"`
	PaymentMethod   string                 `json:"payment_method"`
	CouponCode      string                 `json:"coupon_code,omitempty"`
	Card            *cardPayload           `json:"card,omitempty"`
	SavedCardID     *string                `json:"saved_card_id,omitempty"`
}

func (p checkoutPayload) toInput() (checkout.Input, error) {
	method, err := enums.ParsePaymentMethod(p.PaymentMethod)
	if err != nil {
		return checkout.Input{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unsupported payment method")
	}

	input := checkout.Input{
		ShippingAddress: p.ShippingAddress.toAddress(),
		SaveAddress:     p.SaveAddress,
		PaymentMethod:   method,
		CouponCode:      p.CouponCode,
	}
	if p.Card != nil {
		input.Card = &checkout.CardDetails{
			Number: p.Card.Number,
			Expiry: p.Card.Expiry,
			CVV:    p.Card.CVV,
		}
	}
	if p.SavedCardID != nil && strings.TrimSpace(*p.SavedCardID) != "" {
		savedCardID, err := parseUUID(*p.SavedCardID, "saved card id")
		if err != nil {
			return checkout.Input{}, err
		}
		input.SavedCardID = &savedCardID
	}
	return input, nil
}

// CheckoutCreateSession opens a hosted payment session for card checkouts.
func CheckoutCreateSession(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID, err := authedUser(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload checkoutPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := svc.CreateSession(ctx, userID, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// CheckoutPlaceCodOrder places a cash-on-delivery order.
func CheckoutPlaceCodOrder(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID, err := authedUser(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload checkoutPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		order, err := svc.PlaceCodOrder(ctx, userID, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

type draftPayload struct {
	ShippingAddress *shippingAddressPayload `json:"shipping_address,omitempty"`
	PaymentMethod   string                  `json:"payment_method,omitempty"`
	CouponCode      string                  `json:"coupon_code,omitempty"`
}

// CheckoutDraftPut stores the partially filled checkout form.
func CheckoutDraftPut(drafts *checkout.DraftService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID, err := authedUser(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload draftPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		draft := checkout.Draft{
			PaymentMethod: payload.PaymentMethod,
			CouponCode:    payload.CouponCode,
		}
		if payload.ShippingAddress != nil {
			address := payload.ShippingAddress.toAddress()
			draft.ShippingAddress = &address
		}

		if err := drafts.Save(ctx, userID, draft); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "saved"})
	}
}

// CheckoutDraftGet returns the stored draft, or an empty object when none.
func CheckoutDraftGet(drafts *checkout.DraftService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID, err := authedUser(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		draft, err := drafts.Get(ctx, userID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if draft == nil {
			responses.WriteSuccess(w, map[string]any{})
			return
		}
		responses.WriteSuccess(w, draft)
	}
}

// CheckoutDraftDelete drops the stored draft.
func CheckoutDraftDelete(drafts *checkout.DraftService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID, err := authedUser(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := drafts.Clear(ctx, userID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "cleared"})
	}
}
