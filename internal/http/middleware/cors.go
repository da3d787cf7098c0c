package middleware

import (
	"net/http"
	"net/url"
	"strings"
)

const (
	corsHeaders = "Content-Type, X-Requested-With"
	corsMethods = "GET,POST,PATCH,DELETE,OPTIONS"
	corsMaxAge  = "600"
)

// originPolicy decide quais origens recebem os cabeçalhos CORS com credenciais.
// Entradas "*.lista1.com.py" aceitam qualquer subdomínio, mas não o domínio raiz.
type originPolicy struct {
	exact   map[string]bool
	domains []string
}

func newOriginPolicy(entries []string) originPolicy {
	p := originPolicy{exact: make(map[string]bool, len(entries))}
	for _, e := range entries {
		e = strings.TrimSpace(e)
		switch {
		case e == "":
		case strings.HasPrefix(e, "*."):
			p.domains = append(p.domains, strings.ToLower(e[1:]))
		default:
			p.exact[strings.TrimRight(e, "/")] = true
		}
	}
	return p
}

func (p originPolicy) allows(origin string) bool {
	if origin == "" {
		return false
	}
	if p.exact[origin] {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return false
	}
	host := strings.ToLower(u.Hostname())
	for _, d := range p.domains {
		if len(host) > len(d) && strings.HasSuffix(host, d) {
			return true
		}
	}
	return false
}

// CORS libera o painel e os sites configurados em ALLOW_ORIGINS a chamar a
// API com o cookie de sessão. Preflights terminam aqui com 204.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	policy := newOriginPolicy(allowedOrigins)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			h := w.Header()
			h.Add("Vary", "Origin")
			if policy.allows(origin) {
				h.Set("Access-Control-Allow-Origin", origin)
				h.Set("Access-Control-Allow-Credentials", "true")
				h.Set("Access-Control-Allow-Headers", corsHeaders)
				h.Set("Access-Control-Allow-Methods", corsMethods)
				h.Set("Access-Control-Max-Age", corsMaxAge)
			}

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
