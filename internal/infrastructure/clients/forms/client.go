package forms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/careclear/prescreen-dashboard/backend/internal/domain/entities"
	"github.com/careclear/prescreen-dashboard/backend/pkg/config"
	apperrors "github.com/careclear/prescreen-dashboard/backend/pkg/errors"
)

// Client forwards consultation enquiries to the external forms backend.
type Client struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a forms-backend client.
func NewClient(cfg *config.FormsConfig) (*Client, error) {
	if cfg == nil || cfg.Endpoint == "" {
		return nil, apperrors.NewValidationError("forms endpoint is required")
	}
	return &Client{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// Submit posts one enquiry. Any non-2xx response is an error; the
// caller decides whether to surface or queue it.
func (c *Client) Submit(ctx context.Context, request *entities.ConsultRequest) error {
	if request == nil {
		return apperrors.NewValidationError("consult request is required")
	}

	body, err := json.Marshal(request)
	if err != nil {
		return apperrors.NewInternalError("failed to encode consult request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return apperrors.NewInternalError("failed to build forms request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return apperrors.NewExternalError("forms backend request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apperrors.NewExternalError(
			fmt.Sprintf("forms backend returned status %d", resp.StatusCode), nil)
	}
	return nil
}
