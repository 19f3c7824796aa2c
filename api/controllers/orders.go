package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/avilesdev/storefront-backend/api/responses"
	"github.com/avilesdev/storefront-backend/internal/orders"
	"github.com/avilesdev/storefront-backend/pkg/logger"
)

// OrdersList returns the user's orders, newest first.
func OrdersList(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID, err := authedUser(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		rows, err := svc.List(ctx, userID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// OrderBySession returns the order created for one checkout session.
func OrderBySession(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID, err := authedUser(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		order, err := svc.GetBySession(ctx, userID, chi.URLParam(r, "sessionId"))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}
