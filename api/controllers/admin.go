package controllers

import (
	"context"
	"net/http"

	"github.com/vitalixplus/storefront/api/responses"
	"github.com/vitalixplus/storefront/api/validators"
	"github.com/vitalixplus/storefront/internal/admin"
	"github.com/vitalixplus/storefront/pkg/backend"
	"github.com/vitalixplus/storefront/pkg/logger"
)

// AdminHandlers is the CRUD surface of one admin resource. Every resource is
// mounted as GET /, GET /{id}, POST /, PUT /{id} and POST /{id}/toggle.
type AdminHandlers struct {
	List   http.HandlerFunc
	Get    http.HandlerFunc
	Create http.HandlerFunc
	Update http.HandlerFunc
	Toggle http.HandlerFunc
}

type adminOps[T any, In any] struct {
	list   func(ctx context.Context, status admin.StatusFilter, search string) ([]T, error)
	get    func(ctx context.Context, id int64) (T, error)
	create func(ctx context.Context, input In) (T, error)
	update func(ctx context.Context, id int64, input In) (T, error)
	toggle func(ctx context.Context, id int64) error
}

func AdminUsers(svc admin.Service, logg *logger.Logger) AdminHandlers {
	return adminHandlers(adminOps[backend.User, admin.UserInput]{
		list:   svc.ListUsers,
		get:    svc.GetUser,
		create: svc.CreateUser,
		update: svc.UpdateUser,
		toggle: svc.ToggleUser,
	}, logg)
}

// AdminBranches ignores the status filter; branches list by search only.
func AdminBranches(svc admin.Service, logg *logger.Logger) AdminHandlers {
	return adminHandlers(adminOps[backend.Branch, admin.BranchInput]{
		list: func(ctx context.Context, _ admin.StatusFilter, search string) ([]backend.Branch, error) {
			return svc.ListBranches(ctx, search)
		},
		get:    svc.GetBranch,
		create: svc.CreateBranch,
		update: svc.UpdateBranch,
		toggle: svc.ToggleBranch,
	}, logg)
}

func AdminDrivers(svc admin.Service, logg *logger.Logger) AdminHandlers {
	return adminHandlers(adminOps[backend.Driver, admin.DriverInput]{
		list:   svc.ListDrivers,
		get:    svc.GetDriver,
		create: svc.CreateDriver,
		update: svc.UpdateDriver,
		toggle: svc.ToggleDriver,
	}, logg)
}

func AdminAssistants(svc admin.Service, logg *logger.Logger) AdminHandlers {
	return adminHandlers(adminOps[backend.Assistant, admin.AssistantInput]{
		list:   svc.ListAssistants,
		get:    svc.GetAssistant,
		create: svc.CreateAssistant,
		update: svc.UpdateAssistant,
		toggle: svc.ToggleAssistant,
	}, logg)
}

func adminHandlers[T any, In any](ops adminOps[T, In], logg *logger.Logger) AdminHandlers {
	return AdminHandlers{
		List: func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			status, err := admin.ParseStatusFilter(q.Get("status"))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			items, err := ops.list(r.Context(), status, validators.SanitizeString(q.Get("q"), 120))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			responses.WriteSuccess(w, items)
		},
		Get: func(w http.ResponseWriter, r *http.Request) {
			id, err := validators.ParseIDParam(r, "id")
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			item, err := ops.get(r.Context(), id)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			responses.WriteSuccess(w, item)
		},
		Create: func(w http.ResponseWriter, r *http.Request) {
			var body In
			if err := validators.DecodeJSONBody(r, &body); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			item, err := ops.create(r.Context(), body)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			responses.WriteSuccessStatus(w, http.StatusCreated, item)
		},
		Update: func(w http.ResponseWriter, r *http.Request) {
			id, err := validators.ParseIDParam(r, "id")
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			var body In
			if err := validators.DecodeJSONBody(r, &body); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			item, err := ops.update(r.Context(), id, body)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			responses.WriteSuccess(w, item)
		},
		Toggle: func(w http.ResponseWriter, r *http.Request) {
			id, err := validators.ParseIDParam(r, "id")
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			if err := ops.toggle(r.Context(), id); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			responses.WriteNoContent(w)
		},
	}
}
