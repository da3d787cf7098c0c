package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/gestaozabele/campanha/internal/storage"
	"github.com/gestaozabele/campanha/internal/util"
)

// Upload recebe a imagem do campo multipart "file" e devolve a URL pública.
// O Content-Type gravado vem da extensão, nunca do cliente.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxUploadBytes+(1<<20))
	if err := r.ParseMultipartForm(h.cfg.MaxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteError(w, http.StatusRequestEntityTooLarge, "Archivo demasiado grande", "file")
			return
		}
		WriteError(w, http.StatusBadRequest, "No file uploaded", "file")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "No file uploaded", "file")
		return
	}
	defer file.Close()

	key, contentType, ok := util.ImageObjectName(header.Filename)
	if !ok {
		WriteError(w, http.StatusBadRequest, "Tipo de archivo no permitido", "file")
		return
	}

	body, err := io.ReadAll(io.LimitReader(file, h.cfg.MaxUploadBytes+1))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if len(body) == 0 {
		WriteError(w, http.StatusBadRequest, "No file uploaded", "file")
		return
	}
	if int64(len(body)) > h.cfg.MaxUploadBytes {
		WriteError(w, http.StatusRequestEntityTooLarge, "Archivo demasiado grande", "file")
		return
	}

	result, err := h.storage.Upload(r.Context(), storage.UploadInput{
		Key:          key,
		Body:         body,
		ContentType:  contentType,
		CacheControl: "public, max-age=31536000, immutable",
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	log.Info().Str("url", result.URL).Int("bytes", len(body)).Msg("upload concluído")
	WriteJSON(w, http.StatusOK, map[string]string{"url": result.URL})
}
