package controllers

import (
	"net/http"

	"github.com/vitalixplus/storefront/api/middleware"
	"github.com/vitalixplus/storefront/api/responses"
	"github.com/vitalixplus/storefront/api/validators"
	"github.com/vitalixplus/storefront/internal/orders"
	"github.com/vitalixplus/storefront/pkg/enums"
	pkgerrors "github.com/vitalixplus/storefront/pkg/errors"
	"github.com/vitalixplus/storefront/pkg/logger"
)

type transitionRequest struct {
	Status string `json:"status" validate:"required"`
}

type assignDriverRequest struct {
	DriverID int64 `json:"driver_id" validate:"gt=0"`
}

// AssistantBoard lists the active orders with the driver load map.
// Query: status (TODOS for all), q.
func AssistantBoard(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		board, err := svc.AssistantBoard(r.Context(), orders.BoardFilter{
			Status: validators.SanitizeString(q.Get("status"), 20),
			Search: validators.SanitizeString(q.Get("q"), 120),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, board)
	}
}

func AssistantTransition(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := validators.ParseIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body transitionRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status, err := enums.ParseOrderStatus(body.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status").
				WithDetails(map[string]string{"status": "is invalid"}))
			return
		}
		order, err := svc.Transition(r.Context(), orderID, status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

func AssistantAssignDriver(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := validators.ParseIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body assignDriverRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.AssignDriver(r.Context(), orderID, body.DriverID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// DriverOrders resolves the caller's driver record and returns its board.
func DriverOrders(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, _ := middleware.SessionFromContext(r.Context())
		driver, err := svc.DriverFor(r.Context(), sess.DisplayName)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		board, err := svc.DriverBoard(r.Context(), driver.ID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, board)
	}
}

func DriverMarkDelivered(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := validators.ParseIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		sess, _ := middleware.SessionFromContext(r.Context())
		driver, err := svc.DriverFor(r.Context(), sess.DisplayName)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.MarkDelivered(r.Context(), driver.ID, orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}
