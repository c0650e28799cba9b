package auth

import (
	"errors"
	"net/http"

	"github.com/louisbranch/libraryadmin/internal/services/admin/routepath"
	"github.com/louisbranch/libraryadmin/internal/services/admin/session"
	"github.com/louisbranch/libraryadmin/internal/services/admin/templates"
	"go.uber.org/zap"
)

// LoginRenderer re-renders the sign-in page after a failed attempt.
type LoginRenderer interface {
	RenderLogin(w http.ResponseWriter, r *http.Request, form templates.LoginForm, status int)
}

// LoginHandler handles the sign-in form. On success the token is stored
// through binder and the operator is sent to the dashboard.
func LoginHandler(authn Authenticator, binder session.Binder, pages LoginRenderer, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
		username := r.PostFormValue("username")
		form := templates.LoginForm{Username: username}

		if authn == nil || binder == nil {
			form.ErrorKey = "admin.login.disabled"
			pages.RenderLogin(w, r, form, http.StatusServiceUnavailable)
			return
		}
		token, err := authn.Authenticate(r.Context(), username, r.PostFormValue("password"))
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			logger.Info("sign-in rejected", zap.String("username", username))
			form.ErrorKey = "admin.login.invalid"
			pages.RenderLogin(w, r, form, http.StatusUnauthorized)
			return
		case errors.Is(err, ErrDisabled):
			form.ErrorKey = "admin.login.disabled"
			pages.RenderLogin(w, r, form, http.StatusServiceUnavailable)
			return
		case err != nil:
			logger.Error("authenticate", zap.Error(err))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		if err := binder.Bind(w, r).SetToken(r.Context(), token); err != nil {
			logger.Error("store session token", zap.Error(err))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		logger.Info("operator signed in", zap.String("username", username))
		http.Redirect(w, r, routepath.Dashboard, http.StatusSeeOther)
	})
}

// LogoutHandler clears the token and sends the client to the login page.
func LogoutHandler(binder session.Binder, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if binder != nil {
			if err := binder.Bind(w, r).ClearToken(r.Context()); err != nil {
				logger.Error("clear session token", zap.Error(err))
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}
		}
		http.Redirect(w, r, routepath.Login, http.StatusSeeOther)
	})
}
