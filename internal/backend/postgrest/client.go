// Package postgrest reads tables from a hosted PostgREST endpoint such as the
// one Supabase exposes under /rest/v1.
package postgrest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/dhima/guild-log-viewer/internal/backend"
	"github.com/klauspost/compress/gzip"
	"github.com/valyala/fastjson"
)

const restPath = "/rest/v1/"

// Client implements backend.Backend over HTTP.
type Client struct {
	baseURL string
	key     string
	http    *http.Client
	parsers fastjson.ParserPool
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient swaps the transport, e.g. for httptest servers.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New builds a client for the project at baseURL authenticated with key.
// The default http.Client carries no timeout; callers bound requests via ctx.
func New(baseURL, key string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		key:     key,
		http:    &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Select issues GET /rest/v1/{table}?select=*[&column=eq.value].
func (c *Client) Select(ctx context.Context, q backend.Query) ([][]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(q), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("apikey", c.key)
	req.Header.Set("Authorization", "Bearer "+c.key)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "gzip")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", q.Table, err)
	}
	defer resp.Body.Close()

	body, err := readBody(resp)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", q.Table, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.apiError(resp.StatusCode, body)
	}
	return c.splitRows(body)
}

func (c *Client) endpoint(q backend.Query) string {
	params := []string{"select=*"}
	if q.Filter != nil {
		params = append(params, queryEscape(q.Filter.Column)+"="+queryEscape("eq."+q.Filter.Value))
	}
	return c.baseURL + restPath + url.PathEscape(q.Table) + "?" + strings.Join(params, "&")
}

// queryEscape encodes spaces as %20; PostgREST filter values are not form data.
func queryEscape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

func readBody(resp *http.Response) ([]byte, error) {
	if !strings.EqualFold(resp.Header.Get("Content-Encoding"), "gzip") {
		return io.ReadAll(resp.Body)
	}
	zr, err := gzip.NewReader(resp.Body)
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return io.ReadAll(zr)
}

func (c *Client) splitRows(body []byte) ([][]byte, error) {
	p := c.parsers.Get()
	defer c.parsers.Put(p)

	v, err := p.ParseBytes(body)
	if err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	arr, err := v.Array()
	if err != nil {
		return nil, fmt.Errorf("expected a JSON array of rows: %w", err)
	}

	rows := make([][]byte, 0, len(arr))
	for _, row := range arr {
		rows = append(rows, row.MarshalTo(nil))
	}
	return rows, nil
}

// apiError decodes PostgREST's {"code","message","details","hint"} error body.
func (c *Client) apiError(status int, body []byte) error {
	apiErr := &backend.APIError{Status: status}

	p := c.parsers.Get()
	defer c.parsers.Put(p)

	v, err := p.ParseBytes(body)
	if err != nil || v.Type() != fastjson.TypeObject {
		apiErr.Message = strings.TrimSpace(string(body))
		return apiErr
	}
	apiErr.Code = string(v.GetStringBytes("code"))
	apiErr.Message = string(v.GetStringBytes("message"))
	apiErr.Details = string(v.GetStringBytes("details"))
	if hint := v.GetStringBytes("hint"); len(hint) > 0 {
		apiErr.Details = strings.TrimSpace(apiErr.Details + " " + string(hint))
	}
	return apiErr
}
