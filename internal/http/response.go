package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/gestaozabele/campanha/internal/repo"
	"github.com/gestaozabele/campanha/internal/schema"
)

// MessageBody é o corpo de erro devolvido ao cliente.
type MessageBody struct {
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// WriteJSON escreve o valor sem envelope.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteError escreve {message, field}.
func WriteError(w http.ResponseWriter, status int, message, field string) {
	WriteJSON(w, status, MessageBody{Message: message, Field: field})
}

// writeServiceError traduz erros de validação e persistência para HTTP.
// Qualquer outro erro vira 500 genérico e é registrado no log.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if verr, ok := schema.AsValidation(err); ok {
		WriteError(w, http.StatusBadRequest, verr.Message, verr.Field)
		return
	}
	if errors.Is(err, repo.ErrNotFound) {
		WriteError(w, http.StatusNotFound, "No encontrado", "")
		return
	}
	log.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("request failed")
	WriteError(w, http.StatusInternalServerError, "Internal server error", "")
}

const maxJSONBody = 1 << 20

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		WriteError(w, http.StatusBadRequest, "JSON inválido", "")
		return false
	}
	return true
}
