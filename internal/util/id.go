package util

import (
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// imageTypes são as extensões aceitas no upload do painel e o Content-Type
// gravado para cada uma. SVG fica de fora porque pode carregar script.
var imageTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".avif": "image/avif",
}

// NewID gera um UUID v4.
func NewID() string {
	return uuid.NewString()
}

// ImageObjectName gera um nome único para a imagem enviada, mantendo a
// extensão normalizada. ok é false quando a extensão não é de imagem aceita.
func ImageObjectName(original string) (name, contentType string, ok bool) {
	ext := strings.ToLower(filepath.Ext(filepath.Base(original)))
	contentType, ok = imageTypes[ext]
	if !ok {
		return "", "", false
	}
	return NewID() + ext, contentType, true
}

// IsImageName indica se o nome termina numa extensão de imagem aceita.
func IsImageName(name string) bool {
	_, ok := imageTypes[strings.ToLower(filepath.Ext(name))]
	return ok
}
