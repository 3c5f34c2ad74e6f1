// Package rowstore is the HTTP client for the external tabular row store
// that holds the tenant registry and each tenant's lead table.
package rowstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Record is one row: a stable id plus a field map.
type Record struct {
	ID     string         `json:"id"`
	Fields map[string]any `json:"fields"`
}

// ListOptions narrows a List call server-side.
type ListOptions struct {
	// Filter is a formula in the store's filter dialect.
	Filter string
}

// StatusError is a non-2xx answer from the store. Callers use the code to
// tell retryable trouble (5xx, 429) from hard failures.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("rowstore: status %d: %s", e.Code, e.Body)
}

// Retryable reports whether the upstream relay should retry this failure.
func (e *StatusError) Retryable() bool {
	return e.Code >= 500 || e.Code == http.StatusTooManyRequests
}

// Client talks to one row-store deployment. All calls carry a 30-second wall
// clock; exceeding it is a transient error subject to caller retry.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

type listResponse struct {
	Records []Record `json:"records"`
	Offset  string   `json:"offset"`
}

// List fetches every row of a table, following pagination offsets.
func (c *Client) List(ctx context.Context, baseID, table string, opts ListOptions) ([]Record, error) {
	var all []Record
	offset := ""

	for {
		q := url.Values{}
		if opts.Filter != "" {
			q.Set("filterByFormula", opts.Filter)
		}
		if offset != "" {
			q.Set("offset", offset)
		}
		endpoint := fmt.Sprintf("%s/%s/%s", c.baseURL, baseID, url.PathEscape(table))
		if enc := q.Encode(); enc != "" {
			endpoint += "?" + enc
		}

		var page listResponse
		if err := c.do(ctx, http.MethodGet, endpoint, nil, &page); err != nil {
			return nil, err
		}
		all = append(all, page.Records...)
		if page.Offset == "" {
			return all, nil
		}
		offset = page.Offset
	}
}

// Update patches the given fields of one row.
func (c *Client) Update(ctx context.Context, baseID, table, recordID string, fields map[string]any) error {
	endpoint := fmt.Sprintf("%s/%s/%s/%s", c.baseURL, baseID, url.PathEscape(table), recordID)
	body := map[string]any{"fields": fields}
	return c.do(ctx, http.MethodPatch, endpoint, body, nil)
}

func (c *Client) do(ctx context.Context, method, endpoint string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Code: resp.StatusCode, Body: truncate(string(raw), 200)}
	}
	if out != nil {
		return json.Unmarshal(raw, out)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// StringField reads a field as a string, tolerating absent or differently
// typed values.
func (r Record) StringField(name string) string {
	if v, ok := r.Fields[name]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// StringSliceField reads a multi-value field.
func (r Record) StringSliceField(name string) []string {
	v, ok := r.Fields[name]
	if !ok {
		return nil
	}
	switch vv := v.(type) {
	case []string:
		return vv
	case []any:
		out := make([]string, 0, len(vv))
		for _, item := range vv {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		if vv == "" {
			return nil
		}
		parts := strings.Split(vv, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	return nil
}
