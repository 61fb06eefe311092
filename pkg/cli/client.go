package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client is a thin HTTP client for the gateway API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a Client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 60 * time.Second},
	}
}

// QueryResult mirrors the API's query response payload.
type QueryResult struct {
	Columns  []string        `json:"columns"`
	Rows     [][]interface{} `json:"rows"`
	RowCount int             `json:"row_count"`
	Note     string          `json:"note,omitempty"`
}

// apiError mirrors the API's error payload.
type apiError struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// Query submits SQL to the gateway.
func (c *Client) Query(sql string) (*QueryResult, error) {
	var result QueryResult
	err := c.do(http.MethodPost, "/v1/query", map[string]string{"sql": sql}, &result)
	return &result, err
}

// Status fetches the security status document.
func (c *Client) Status() (json.RawMessage, error) {
	var raw json.RawMessage
	err := c.do(http.MethodGet, "/v1/status", nil, &raw)
	return raw, err
}

// AuditSummary fetches aggregate audit counts.
func (c *Client) AuditSummary() (json.RawMessage, error) {
	var raw json.RawMessage
	err := c.do(http.MethodGet, "/v1/audit/summary", nil, &raw)
	return raw, err
}

// Schema lists the registered tables.
func (c *Client) Schema() (json.RawMessage, error) {
	var raw json.RawMessage
	err := c.do(http.MethodGet, "/v1/schema", nil, &raw)
	return raw, err
}

// TableInfo fetches one table's registry entry and columns.
func (c *Client) TableInfo(table string) (json.RawMessage, error) {
	var raw json.RawMessage
	err := c.do(http.MethodGet, "/v1/schema/"+url.PathEscape(table), nil, &raw)
	return raw, err
}

// SearchConcepts searches the concept dictionary.
func (c *Client) SearchConcepts(term, domain string, limit int) (json.RawMessage, error) {
	q := url.Values{}
	q.Set("search", term)
	if domain != "" {
		q.Set("domain", domain)
	}
	if limit > 0 {
		q.Set("limit", fmt.Sprint(limit))
	}
	var raw json.RawMessage
	err := c.do(http.MethodGet, "/v1/concepts?"+q.Encode(), nil, &raw)
	return raw, err
}

// LookupConcept fetches a single concept by ID.
func (c *Client) LookupConcept(id int64) (json.RawMessage, error) {
	var raw json.RawMessage
	err := c.do(http.MethodGet, fmt.Sprintf("/v1/concepts/%d", id), nil, &raw)
	return raw, err
}

func (c *Client) do(method, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close() //nolint:errcheck

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			if apiErr.Kind != "" {
				return fmt.Errorf("%s (%s)", apiErr.Error, apiErr.Kind)
			}
			return fmt.Errorf("%s", apiErr.Error)
		}
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return json.Unmarshal(data, out)
}
