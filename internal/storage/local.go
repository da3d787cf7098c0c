package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocalUploader grava os arquivos num diretório servido em /uploads.
type LocalUploader struct {
	dir     string
	baseURL string
}

// NewLocalUploader cria o diretório, se necessário, e devolve o uploader.
func NewLocalUploader(dir, baseURL string) (*LocalUploader, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("storage: diretório de uploads ausente")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: falha ao criar diretório %s: %w", dir, err)
	}
	return &LocalUploader{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Dir devolve o diretório raiz dos arquivos.
func (u *LocalUploader) Dir() string {
	return u.dir
}

// Upload grava o corpo em dir/key. A chave não pode conter diretórios.
func (u *LocalUploader) Upload(ctx context.Context, input UploadInput) (*UploadResult, error) {
	key := strings.TrimSpace(input.Key)
	if key == "" || key != filepath.Base(key) || strings.HasPrefix(key, ".") {
		return nil, fmt.Errorf("storage: chave inválida %q", input.Key)
	}
	if len(input.Body) == 0 {
		return nil, errors.New("storage: corpo vazio")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	name := filepath.Join(u.dir, key)
	if err := os.WriteFile(name, input.Body, 0o644); err != nil {
		return nil, fmt.Errorf("storage: falha ao salvar %s: %w", name, err)
	}
	return &UploadResult{URL: u.baseURL + "/" + key}, nil
}
