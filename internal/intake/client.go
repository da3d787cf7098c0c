package intake

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gestaozabele/campanha/internal/schema"
)

// APIError é uma falha do servidor que não é de validação.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: status %d", e.Status)
	}
	return fmt.Sprintf("api: status %d: %s", e.Status, e.Message)
}

// Client fala com a API pública da campanha.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient cria o cliente para a URL base do servidor.
func NewClient(baseURL string) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		return nil, errors.New("intake: URL base deve incluir http/https")
	}
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    base,
	}, nil
}

// CreateSupporter envia a inscrição. Erros 400 voltam como *schema.ValidationError.
func (c *Client) CreateSupporter(ctx context.Context, in schema.SupporterInput) (schema.Supporter, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/api/supporters", in)
	if err != nil {
		return schema.Supporter{}, err
	}
	var out schema.Supporter
	if err := c.do(req, http.StatusCreated, &out); err != nil {
		return schema.Supporter{}, err
	}
	return out, nil
}

// SupporterCount lê o total atual de inscritos.
func (c *Client) SupporterCount(ctx context.Context) (int64, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/supporters/count", nil)
	if err != nil {
		return 0, err
	}
	var out struct {
		Count int64 `json:"count"`
	}
	if err := c.do(req, http.StatusOK, &out); err != nil {
		return 0, err
	}
	return out.Count, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func (c *Client) do(req *http.Request, want int, v any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		var body struct {
			Message string `json:"message"`
			Field   string `json:"field"`
		}
		if json.Unmarshal(raw, &body) != nil {
			body.Message = strings.TrimSpace(string(raw))
		}
		if resp.StatusCode == http.StatusBadRequest && body.Message != "" {
			return &schema.ValidationError{Message: body.Message, Field: body.Field}
		}
		return &APIError{Status: resp.StatusCode, Message: body.Message}
	}

	if v == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(v)
}
