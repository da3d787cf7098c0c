package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	httpmiddleware "github.com/gestaozabele/campanha/internal/http/middleware"
	"github.com/gestaozabele/campanha/internal/schema"
	"github.com/gestaozabele/campanha/internal/service"
)

// Login autentica e grava o cookie de sessão.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &payload) {
		return
	}
	if strings.TrimSpace(payload.Username) == "" || payload.Password == "" {
		WriteError(w, http.StatusBadRequest, "Usuario y contraseña son obligatorios", "username")
		return
	}

	result, err := h.auth.Login(r.Context(), payload.Username, payload.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		writeServiceError(w, r, err)
		return
	}

	h.setSessionCookie(w, result.Token)
	WriteJSON(w, http.StatusOK, result.User)
}

// Register cria conta. Administradores logados podem criar outros administradores.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var in schema.UserInput
	if !decodeJSON(w, r, &in) {
		return
	}

	result, err := h.auth.Register(r.Context(), in, httpmiddleware.GetUser(r.Context()))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRegistrationClosed):
			http.Error(w, "Unauthorized", http.StatusForbidden)
		case errors.Is(err, service.ErrUsernameTaken):
			WriteError(w, http.StatusBadRequest, "El usuario ya existe", "username")
		default:
			writeServiceError(w, r, err)
		}
		return
	}

	if result.Token != "" {
		h.setSessionCookie(w, result.Token)
	}
	WriteJSON(w, http.StatusCreated, result.User)
}

// Logout encerra a sessão atual.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(httpmiddleware.SessionCookie); err == nil && c.Value != "" {
		if err := h.auth.Logout(r.Context(), c.Value); err != nil {
			writeServiceError(w, r, err)
			return
		}
	}
	h.clearSessionCookie(w)
	w.WriteHeader(http.StatusOK)
}

// CurrentUser devolve o usuário da sessão ou 401.
func (h *Handler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	user := httpmiddleware.GetUser(r.Context())
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	WriteJSON(w, http.StatusOK, user)
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, token string) {
	ttl := h.cfg.SessionTTL
	http.SetCookie(w, &http.Cookie{
		Name:     httpmiddleware.SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  h.now().Add(ttl),
		MaxAge:   int(ttl / time.Second),
		HttpOnly: true,
		Secure:   h.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     httpmiddleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
