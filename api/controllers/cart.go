package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/avilesdev/storefront-backend/api/responses"
	"github.com/avilesdev/storefront-backend/api/validators"
	"github.com/avilesdev/storefront-backend/internal/cart"
	"github.com/avilesdev/storefront-backend/pkg/logger"
)

type cartLinePayload struct {
	ProductID string  `json:"product_id" validate:"required,uuid"`
	Quantity  int     `json:"quantity" validate:"required,min=1"`
	Size      *string `json:"size,omitempty"`
	VariantID *string `json:"variant_id,omitempty" validate:"omitempty,uuid"`
}

type bulkAddPayload struct {
	Items []cartLinePayload `json:"items" validate:"required,min=1,dive"`
}

type updateQuantityPayload struct {
	Quantity *int `json:"quantity" validate:"required,min=0"`
}

func (p cartLinePayload) toInput() (cart.AddItemInput, error) {
	productID, err := parseUUID(p.ProductID, "product id")
	if err != nil {
		return cart.AddItemInput{}, err
	}
	input := cart.AddItemInput{
		ProductID: productID,
		Quantity:  p.Quantity,
		Size:      p.Size,
	}
	if p.VariantID != nil && strings.TrimSpace(*p.VariantID) != "" {
		variantID, err := parseUUID(*p.VariantID, "variant id")
		if err != nil {
			return cart.AddItemInput{}, err
		}
		input.VariantID = &variantID
	}
	return input, nil
}

// CartGet returns the cart aggregate, applying the optional coupon query.
func CartGet(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID, err := authedUser(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		view, err := svc.Fetch(ctx, userID, r.URL.Query().Get("coupon"))
		if err != nil && view == nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		// a rejected coupon still returns the undiscounted cart with the
		// failure noted on the view
		responses.WriteSuccess(w, view)
	}
}

// CartAdd merges one selection into the cart.
func CartAdd(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID, err := authedUser(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload cartLinePayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		view, err := svc.Add(ctx, userID, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, view)
	}
}

// CartBulkAdd adds several selections in order; the first failure aborts all.
func CartBulkAdd(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID, err := authedUser(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload bulkAddPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		inputs := make([]cart.AddItemInput, 0, len(payload.Items))
		for _, item := range payload.Items {
			input, err := item.toInput()
			if err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
			inputs = append(inputs, input)
		}

		view, err := svc.AddMany(ctx, userID, inputs)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, view)
	}
}

// CartUpdateItem sets a line's quantity; zero removes the line.
func CartUpdateItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID, err := authedUser(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		itemID, err := parseUUID(chi.URLParam(r, "itemId"), "item id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload updateQuantityPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		view, err := svc.UpdateQuantity(ctx, userID, itemID, *payload.Quantity)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// CartRemoveItem deletes one line.
func CartRemoveItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID, err := authedUser(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		itemID, err := parseUUID(chi.URLParam(r, "itemId"), "item id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		view, err := svc.Remove(ctx, userID, itemID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// CartClear drops every line in the cart.
func CartClear(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID, err := authedUser(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.Clear(ctx, userID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, &cart.CartView{Items: []cart.LineView{}})
	}
}
