package airtable

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/careclear/prescreen-dashboard/backend/internal/infrastructure/observability"
	"github.com/careclear/prescreen-dashboard/backend/pkg/config"
	apperrors "github.com/careclear/prescreen-dashboard/backend/pkg/errors"
	"github.com/careclear/prescreen-dashboard/backend/pkg/retry"
)

// Client is the record-store API surface the dashboard consumes. The
// store is spreadsheet-shaped: tables of records whose fields arrive as
// loosely-typed maps.
type Client interface {
	ListRecords(ctx context.Context, req ListRequest) ([]Record, error)
	GetRecord(ctx context.Context, table, recordID string) (*Record, error)
	UpdateRecord(ctx context.Context, table, recordID string, fields map[string]interface{}) error
}

// Record is one row exactly as the store returns it.
type Record struct {
	ID          string                 `json:"id"`
	CreatedTime time.Time              `json:"createdTime"`
	Fields      map[string]interface{} `json:"fields"`
}

// ListRequest describes one table read. FilterByFormula is passed
// through to the store verbatim; MaxRecords of 0 means fetch every
// page.
type ListRequest struct {
	Table           string
	FilterByFormula string
	PageSize        int
	MaxRecords      int
}

type listResponse struct {
	Records []Record `json:"records"`
	Offset  string   `json:"offset,omitempty"`
}

// HTTPClient talks to an Airtable-compatible REST API.
type HTTPClient struct {
	baseURL    string
	baseID     string
	apiKey     string
	httpClient *http.Client
	retryCfg   retry.Config
	metrics    *observability.Metrics
}

// NewClient creates a record-store client for one base. metrics may be
// nil, in which case request durations are not recorded.
func NewClient(cfg *config.AirtableConfig, metrics *observability.Metrics) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		baseID:  cfg.BaseID,
		apiKey:  cfg.APIKey,
		metrics: metrics,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		// The store rate-limits per base; short backoff rides out the
		// usual 429 window without holding the request open for long.
		retryCfg: retry.Config{
			MaxAttempts:     4,
			InitialDelay:    500 * time.Millisecond,
			MaxDelay:        5 * time.Second,
			BackoffFactor:   2.0,
			MaxTotalTimeout: 30 * time.Second,
		},
	}
}

// ListRecords fetches a table, following the store's offset cursor
// until the last page or MaxRecords.
func (c *HTTPClient) ListRecords(ctx context.Context, req ListRequest) ([]Record, error) {
	if req.Table == "" {
		return nil, apperrors.NewValidationError("table name is required")
	}

	pageSize := req.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 100
	}

	var records []Record
	offset := ""
	for {
		endpoint, err := c.listURL(req, pageSize, offset)
		if err != nil {
			return nil, err
		}

		var page listResponse
		if err := c.doJSON(ctx, "list_records", http.MethodGet, endpoint, nil, &page); err != nil {
			return nil, err
		}

		records = append(records, page.Records...)
		if req.MaxRecords > 0 && len(records) >= req.MaxRecords {
			return records[:req.MaxRecords], nil
		}
		if page.Offset == "" {
			return records, nil
		}
		offset = page.Offset
	}
}

// GetRecord fetches a single record by the store's record id.
func (c *HTTPClient) GetRecord(ctx context.Context, table, recordID string) (*Record, error) {
	if table == "" || strings.TrimSpace(recordID) == "" {
		return nil, apperrors.NewValidationError("table and record id are required")
	}

	endpoint := fmt.Sprintf("%s/%s/%s/%s",
		c.baseURL, url.PathEscape(c.baseID), url.PathEscape(table), url.PathEscape(recordID))

	record := &Record{}
	if err := c.doJSON(ctx, "get_record", http.MethodGet, endpoint, nil, record); err != nil {
		return nil, err
	}
	return record, nil
}

// UpdateRecord applies a partial field update; fields not named keep
// their current values.
func (c *HTTPClient) UpdateRecord(ctx context.Context, table, recordID string, fields map[string]interface{}) error {
	if table == "" || strings.TrimSpace(recordID) == "" {
		return apperrors.NewValidationError("table and record id are required")
	}
	if len(fields) == 0 {
		return apperrors.NewValidationError("update carries no fields")
	}

	endpoint := fmt.Sprintf("%s/%s/%s/%s",
		c.baseURL, url.PathEscape(c.baseID), url.PathEscape(table), url.PathEscape(recordID))

	body, err := json.Marshal(map[string]interface{}{"fields": fields})
	if err != nil {
		return apperrors.NewInternalError("failed to encode record update", err)
	}

	return c.doJSON(ctx, "update_record", http.MethodPatch, endpoint, body, &Record{})
}

func (c *HTTPClient) listURL(req ListRequest, pageSize int, offset string) (string, error) {
	parsed, err := url.Parse(fmt.Sprintf("%s/%s/%s",
		c.baseURL, url.PathEscape(c.baseID), url.PathEscape(req.Table)))
	if err != nil {
		return "", apperrors.NewInternalError("failed to build record store url", err)
	}

	query := parsed.Query()
	query.Set("pageSize", strconv.Itoa(pageSize))
	if req.FilterByFormula != "" {
		query.Set("filterByFormula", req.FilterByFormula)
	}
	if offset != "" {
		query.Set("offset", offset)
	}
	parsed.RawQuery = query.Encode()
	return parsed.String(), nil
}

// doJSON issues one request, retrying 429s and 5xx responses with
// exponential backoff. 4xx responses other than 429 fail immediately.
func (c *HTTPClient) doJSON(ctx context.Context, operation, method, endpoint string, body []byte, out interface{}) error {
	if c.metrics != nil {
		start := time.Now()
		defer func() {
			observability.RecordUpstreamMetric(ctx, c.metrics, operation, time.Since(start))
		}()
	}

	return retry.Do(ctx, c.retryCfg, func() error {
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}

		httpReq, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
		if err != nil {
			return retry.Permanent(apperrors.NewInternalError("failed to build request", err))
		}
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
		if body != nil {
			httpReq.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(httpReq)
		if err != nil {
			return apperrors.NewExternalError("record store request failed", err)
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			return apperrors.NewRateLimitedError("record store rate limit hit", nil)
		case resp.StatusCode == http.StatusNotFound:
			return retry.Permanent(apperrors.NewNotFoundError("record not found"))
		case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
			return retry.Permanent(apperrors.NewUnauthorizedError("record store rejected credentials"))
		case resp.StatusCode >= 500:
			return apperrors.NewExternalError(
				fmt.Sprintf("record store returned status %d", resp.StatusCode), nil)
		case resp.StatusCode < 200 || resp.StatusCode >= 300:
			return retry.Permanent(apperrors.NewExternalError(
				fmt.Sprintf("record store returned status %d", resp.StatusCode), nil))
		}

		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return retry.Permanent(apperrors.NewExternalError("failed to decode record store response", err))
		}
		return nil
	})
}
