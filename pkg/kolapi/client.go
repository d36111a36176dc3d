package kolapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	kol "github.com/goliatone/go-kol-admin/components/kol"
)

// Config configures the HTTP KOL API client.
type Config struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// HTTPClient talks to the remote KOL service via its REST endpoints.
type HTTPClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPClient builds a client capable of hitting a live KOL API.
func NewHTTPClient(cfg Config) (*HTTPClient, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("kolapi: base url is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		client:  httpClient,
	}, nil
}

var _ kol.Client = (*HTTPClient)(nil)

type pageResponse struct {
	Total int      `json:"total"`
	Page  int      `json:"page"`
	Size  int      `json:"size"`
	Pages int      `json:"pages"`
	Items []Record `json:"items"`
}

// List fetches one page via GET /kols with pagination and filter params.
func (c *HTTPClient) List(ctx context.Context, req kol.ListRequest) (kol.ListResult, error) {
	params := url.Values{}
	for key, values := range req.Params {
		for _, v := range values {
			params.Add(key, v)
		}
	}
	params.Set("page", strconv.Itoa(req.Page))
	params.Set("size", strconv.Itoa(req.Size))

	var resp pageResponse
	if err := c.do(ctx, http.MethodGet, "/kols?"+params.Encode(), nil, &resp); err != nil {
		return kol.ListResult{}, err
	}
	items := make([]kol.KOL, 0, len(resp.Items))
	for _, rec := range resp.Items {
		items = append(items, rec.ToKOL())
	}
	return kol.ListResult{
		Total: resp.Total,
		Page:  resp.Page,
		Size:  resp.Size,
		Pages: resp.Pages,
		Items: items,
	}, nil
}

// Create posts a new record via POST /kols. The server assigns the numeric id.
func (c *HTTPClient) Create(ctx context.Context, k kol.KOL) (kol.KOL, error) {
	payload := FromKOL(k)
	payload.ID = 0
	var resp Record
	if err := c.do(ctx, http.MethodPost, "/kols", payload, &resp); err != nil {
		return kol.KOL{}, err
	}
	return resp.ToKOL(), nil
}

// Update replaces the record via PUT /kols/{kolID}.
func (c *HTTPClient) Update(ctx context.Context, kolID string, k kol.KOL) (kol.KOL, error) {
	if kolID == "" {
		return kol.KOL{}, fmt.Errorf("kolapi: kol id is required")
	}
	var resp Record
	if err := c.do(ctx, http.MethodPut, "/kols/"+url.PathEscape(kolID), FromKOL(k), &resp); err != nil {
		return kol.KOL{}, err
	}
	return resp.ToKOL(), nil
}

// Delete removes the record via DELETE /kols/{id}.
func (c *HTTPClient) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("kolapi: record id is required")
	}
	return c.do(ctx, http.MethodDelete, "/kols/"+url.PathEscape(id), nil, nil)
}

func (c *HTTPClient) do(ctx context.Context, method, path string, payload any, target any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("kolapi: encode payload: %w", err)
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("kolapi: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("kolapi: http request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}
	if target == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("kolapi: decode response: %w", err)
	}
	return nil
}

// APIError is a non-2xx response from the KOL API. Fields carries the
// per-field messages of a 422 validation list so the form can highlight the
// offending inputs.
type APIError struct {
	Status int
	Detail string
	Fields kol.FieldErrors
}

func (e *APIError) Error() string {
	return fmt.Sprintf("kolapi: remote error %d: %s", e.Status, e.Detail)
}

func decodeAPIError(resp *http.Response) error {
	data, _ := io.ReadAll(resp.Body)
	apiErr := &APIError{Status: resp.StatusCode}
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(data, &envelope); err == nil && len(envelope.Detail) > 0 {
		apiErr.Detail, apiErr.Fields = decodeDetail(envelope.Detail)
	}
	if apiErr.Detail == "" {
		apiErr.Detail = strings.TrimSpace(string(data))
	}
	if apiErr.Detail == "" {
		apiErr.Detail = http.StatusText(resp.StatusCode)
	}
	return apiErr
}

// decodeDetail accepts both envelope shapes the API emits: a plain string and
// the 422 list of {loc, msg} items.
func decodeDetail(raw json.RawMessage) (string, kol.FieldErrors) {
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return text, nil
	}
	var items []struct {
		Loc []any  `json:"loc"`
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(raw, &items); err != nil || len(items) == 0 {
		return "", nil
	}
	fields := kol.FieldErrors{}
	msgs := make([]string, 0, len(items))
	for _, item := range items {
		if field := fieldFromLoc(item.Loc); field != "" {
			fields[field] = item.Msg
		}
		if item.Msg != "" {
			msgs = append(msgs, item.Msg)
		}
	}
	if len(fields) == 0 {
		fields = nil
	}
	return strings.Join(msgs, "; "), fields
}

// fieldFromLoc picks the field name out of a loc path like ["body", "email"].
func fieldFromLoc(loc []any) string {
	for i := len(loc) - 1; i >= 0; i-- {
		if s, ok := loc[i].(string); ok && s != "body" && s != "query" && s != "path" {
			return s
		}
	}
	return ""
}

// IsValidation reports whether err is a field-level 422 rejection.
func IsValidation(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnprocessableEntity
}

// IsDuplicateEmail applies the API's duplicate-email heuristic: constraint
// violations surface as a 500 whose detail mentions the email column.
func IsDuplicateEmail(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusInternalServerError {
		return false
	}
	detail := strings.ToLower(apiErr.Detail)
	return strings.Contains(detail, "email") &&
		(strings.Contains(detail, "duplicate") || strings.Contains(detail, "unique"))
}
