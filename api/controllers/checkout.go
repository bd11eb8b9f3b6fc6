package controllers

import (
	"net/http"
	"strings"

	"github.com/vitalixplus/storefront/api/middleware"
	"github.com/vitalixplus/storefront/api/responses"
	"github.com/vitalixplus/storefront/api/validators"
	"github.com/vitalixplus/storefront/internal/checkout"
	pkgerrors "github.com/vitalixplus/storefront/pkg/errors"
	"github.com/vitalixplus/storefront/pkg/logger"
)

type checkoutRequest struct {
	Address string `json:"address" validate:"max=255"`
	Phone   string `json:"phone" validate:"max=32"`
}

func CheckoutQuote(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		quote, err := svc.Quote(r.Context(), middleware.ClientIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, quote)
	}
}

// CheckoutSubmit places the order for the caller's cart. A blank address or phone
// falls back to the one on the caller's profile.
func CheckoutSubmit(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := middleware.SessionFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "login required"))
			return
		}

		var body checkoutRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := checkout.SubmitInput{
			ClientID: middleware.ClientIDFromContext(r.Context()),
			UserID:   sess.UserID,
			Address:  firstNonBlank(body.Address, sess.Address),
			Phone:    firstNonBlank(body.Phone, sess.Phone),
		}
		confirmation, err := svc.Submit(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, confirmation)
	}
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
