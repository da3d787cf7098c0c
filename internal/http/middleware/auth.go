package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/gestaozabele/campanha/internal/schema"
	"github.com/gestaozabele/campanha/internal/service"
)

type contextKey string

const ContextKeyUser contextKey = "user"

// SessionCookie é o nome do cookie que carrega o token de sessão.
const SessionCookie = "sid"

// UserResolver resolve o token de sessão para o usuário dono.
type UserResolver interface {
	CurrentUser(ctx context.Context, token string) (schema.User, error)
}

// Session carrega o usuário da sessão no contexto quando houver cookie válido.
// Requisições sem sessão seguem anônimas.
func Session(resolver UserResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookie)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			user, err := resolver.CurrentUser(r.Context(), cookie.Value)
			if err != nil {
				if !errors.Is(err, service.ErrNoSession) {
					log.Error().Err(err).Msg("session lookup failed")
					writeInternalError(w)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// WithUser injeta o usuário autenticado no contexto.
func WithUser(ctx context.Context, user schema.User) context.Context {
	return context.WithValue(ctx, ContextKeyUser, &user)
}

// GetUser recupera o usuário autenticado; nil quando anônimo.
func GetUser(ctx context.Context) *schema.User {
	val, _ := ctx.Value(ContextKeyUser).(*schema.User)
	return val
}

// RequireAdmin exige sessão cujo usuário tenha isAdmin.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := GetUser(r.Context())
		if user == nil || !user.IsAdmin {
			http.Error(w, "Unauthorized", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeInternalError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": "Internal server error"})
}
