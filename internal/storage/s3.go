package storage

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// S3Config descreve um bucket compatível com S3 (R2, MinIO, AWS).
type S3Config struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	// PublicURL é a base servida ao público (CDN ou domínio do R2). Vazia, usa o endpoint.
	PublicURL  string
	HTTPClient *http.Client
}

// S3Uploader envia fotos e banners do painel com PUT assinado.
type S3Uploader struct {
	endpoint  string
	bucket    string
	publicURL string
	signer    sigV4
	client    *http.Client
	now       func() time.Time
}

func NewS3Uploader(cfg S3Config) (*S3Uploader, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &S3Uploader{
		endpoint:  strings.TrimRight(strings.TrimSpace(cfg.Endpoint), "/"),
		bucket:    strings.TrimSpace(cfg.Bucket),
		publicURL: strings.TrimRight(strings.TrimSpace(cfg.PublicURL), "/"),
		signer: sigV4{
			accessKey: strings.TrimSpace(cfg.AccessKey),
			secretKey: strings.TrimSpace(cfg.SecretKey),
			region:    strings.TrimSpace(cfg.Region),
			service:   "s3",
		},
		client: client,
		now:    time.Now,
	}, nil
}

func (u *S3Uploader) Upload(ctx context.Context, input UploadInput) (*UploadResult, error) {
	key := strings.TrimLeft(strings.TrimSpace(input.Key), "/")
	if key == "" {
		return nil, errors.New("storage: chave do objeto obrigatória")
	}
	if len(input.Body) == 0 {
		return nil, errors.New("storage: corpo vazio")
	}

	escaped := (&url.URL{Path: key}).EscapedPath()
	target := u.endpoint + "/" + u.bucket + "/" + escaped

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, target, bytes.NewReader(input.Body))
	if err != nil {
		return nil, err
	}
	contentType := strings.TrimSpace(input.ContentType)
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	req.Header.Set("Content-Type", contentType)
	if cc := strings.TrimSpace(input.CacheControl); cc != "" {
		req.Header.Set("Cache-Control", cc)
	}

	sum := sha256.Sum256(input.Body)
	u.signer.sign(req, hex.EncodeToString(sum[:]), u.now())

	resp, err := u.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("storage: put %s: %w", key, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("storage: upload falhou (%d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	link := target
	if u.publicURL != "" {
		link = u.publicURL + "/" + escaped
	}
	return &UploadResult{URL: link, ETag: strings.Trim(resp.Header.Get("ETag"), `"`)}, nil
}

func (cfg S3Config) validate() error {
	required := []struct{ name, value string }{
		{"endpoint", cfg.Endpoint},
		{"região", cfg.Region},
		{"bucket", cfg.Bucket},
		{"access key", cfg.AccessKey},
		{"secret key", cfg.SecretKey},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("storage: %s do S3 ausente", f.name)
		}
	}
	if !strings.HasPrefix(cfg.Endpoint, "http://") && !strings.HasPrefix(cfg.Endpoint, "https://") {
		return errors.New("storage: endpoint deve incluir protocolo http/https")
	}
	return nil
}
