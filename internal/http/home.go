package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gestaozabele/campanha/internal/repo"
	"github.com/gestaozabele/campanha/internal/schema"
)

// GetHomeContent devolve o conteúdo salvo ou os textos padrão.
func (h *Handler) GetHomeContent(w http.ResponseWriter, r *http.Request) {
	content, err := h.currentHome(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, content)
}

// UpdateHomeContent aplica os campos enviados sobre o conteúdo atual e grava.
func (h *Handler) UpdateHomeContent(w http.ResponseWriter, r *http.Request) {
	content, err := h.currentHome(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if !decodeJSON(w, r, &content) {
		return
	}
	if err := content.Validate(); err != nil {
		writeServiceError(w, r, err)
		return
	}

	saved, err := h.store.UpsertHomeContent(r.Context(), content)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, saved)
}

func (h *Handler) currentHome(ctx context.Context) (schema.HomeContent, error) {
	content, err := h.store.GetHomeContent(ctx)
	if errors.Is(err, repo.ErrNotFound) {
		content = schema.DefaultHomeContent()
		if schema.IsTheme(h.cfg.DefaultTheme) {
			content.Theme = h.cfg.DefaultTheme
		}
		return content, nil
	}
	return content, err
}
