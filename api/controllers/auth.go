package controllers

import (
	"net/http"

	"github.com/vitalixplus/storefront/api/middleware"
	"github.com/vitalixplus/storefront/api/responses"
	"github.com/vitalixplus/storefront/api/validators"
	"github.com/vitalixplus/storefront/internal/session"
	pkgerrors "github.com/vitalixplus/storefront/pkg/errors"
	"github.com/vitalixplus/storefront/pkg/logger"
)

// SessionHeader mirrors the session id for clients that read headers only.
const SessionHeader = "X-Session-Id"

// AuthLogin exchanges credentials for a session.
func AuthLogin(svc session.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body session.LoginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sess, err := svc.Login(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.Header().Set(SessionHeader, sess.ID)
		responses.WriteSuccess(w, sess)
	}
}

// AuthRegister creates the backend user and logs it in.
func AuthRegister(svc session.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body session.RegisterRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sess, err := svc.Register(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.Header().Set(SessionHeader, sess.ID)
		responses.WriteSuccessStatus(w, http.StatusCreated, sess)
	}
}

// AuthLogout revokes the presented session. Logging out twice is not an error.
func AuthLogout(svc session.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Logout(r.Context(), middleware.BearerToken(r)); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}

// MeGet returns the caller's session mirror.
func MeGet(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := middleware.SessionFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "login required"))
			return
		}
		responses.WriteSuccess(w, sess)
	}
}

// MeUpdate edits the caller's profile on the backend and refreshes the session.
func MeUpdate(svc session.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := middleware.SessionFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "login required"))
			return
		}

		var body session.ProfileUpdate
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := svc.UpdateProfile(r.Context(), sess.ID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}
