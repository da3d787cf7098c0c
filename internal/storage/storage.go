package storage

import (
	"context"
	"fmt"

	"github.com/gestaozabele/campanha/internal/config"
)

// UploadInput representa uma operação de upload simples.
type UploadInput struct {
	Key          string
	Body         []byte
	ContentType  string
	CacheControl string
}

// UploadResult descreve o artefato persistido.
type UploadResult struct {
	URL  string
	ETag string
}

// Uploader define comportamento básico para armazenar blobs.
type Uploader interface {
	Upload(ctx context.Context, input UploadInput) (*UploadResult, error)
}

// New escolhe o backend conforme STORAGE_PROVIDER.
func New(cfg config.StorageConfig) (Uploader, error) {
	switch cfg.Provider {
	case "", "local":
		return NewLocalUploader(cfg.UploadDir, "/uploads")
	case "s3", "r2":
		return NewS3Uploader(S3Config{
			Endpoint:  cfg.S3Endpoint,
			Region:    cfg.S3Region,
			Bucket:    cfg.S3Bucket,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			PublicURL: cfg.S3PublicURL,
		})
	default:
		return nil, fmt.Errorf("storage: provider desconhecido %q", cfg.Provider)
	}
}
