// Package api is the HTTP client for the dataset service: statistics, raw records and the
// generated PDF report of one uploaded dataset.
package api

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

	"github.com/chemviz/chemviz/src/logging"
	"github.com/chemviz/chemviz/src/types"
)

// DefaultTimeout bounds a single request when the config does not set one.
const DefaultTimeout = 30 * time.Second

// maxErrorBody caps how much of a failed response is kept in StatusError.
const maxErrorBody = 512

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Op   string
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: HTTP %d", e.Op, e.Code)
	}
	return fmt.Sprintf("%s: HTTP %d: %s", e.Op, e.Code, e.Body)
}

// Client talks to one dataset service. The zero value is not usable; use New.
type Client struct {
	base   *url.URL
	token  string
	client *http.Client
}

// New builds a client for baseURL (scheme and host, optionally a path prefix). A non-empty
// token is sent as "Authorization: Token <token>".
func New(baseURL, token string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q needs scheme and host", baseURL)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{base: u, token: token, client: &http.Client{Timeout: timeout}}, nil
}

func (c *Client) endpoint(id, leaf string) string {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + "/api/datasets/" + url.PathEscape(id) + "/" + leaf + "/"
	return u.String()
}

func (c *Client) get(ctx context.Context, op, id, leaf string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(id, leaf), nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Token "+c.token)
	}
	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	logging.Debugf("[api] %s dataset=%s status=%d in %s", op, id, resp.StatusCode, time.Since(start))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{Op: op, Code: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}
	return resp, nil
}

// Stats fetches the server-side statistics block.
func (c *Client) Stats(ctx context.Context, id string) (types.DatasetStats, error) {
	var st types.DatasetStats
	resp, err := c.get(ctx, "stats", id, "stats")
	if err != nil {
		return st, err
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		return types.DatasetStats{}, fmt.Errorf("stats: decode: %w", err)
	}
	return st, nil
}

// Records fetches the raw readings. The service answers either with a bare list or with
// a paginated {"results": [...]} envelope; both are accepted.
func (c *Client) Records(ctx context.Context, id string) ([]types.SensorReading, error) {
	resp, err := c.get(ctx, "records", id, "data")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("records: read: %w", err)
	}
	return decodeRecords(raw)
}

func decodeRecords(raw []byte) ([]types.SensorReading, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var env struct {
			Results []types.SensorReading `json:"results"`
		}
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return nil, fmt.Errorf("records: decode: %w", err)
		}
		if env.Results == nil {
			return []types.SensorReading{}, nil
		}
		return env.Results, nil
	}
	out := []types.SensorReading{}
	if err := json.Unmarshal(trimmed, &out); err != nil {
		return nil, fmt.Errorf("records: decode: %w", err)
	}
	return out, nil
}

// Report downloads the generated PDF with its Content-Disposition header.
func (c *Client) Report(ctx context.Context, id string) (types.Report, error) {
	resp, err := c.get(ctx, "report", id, "pdf")
	if err != nil {
		return types.Report{}, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return types.Report{}, fmt.Errorf("report: read: %w", err)
	}
	return types.Report{
		Data:               data,
		ContentDisposition: resp.Header.Get("Content-Disposition"),
		ContentType:        resp.Header.Get("Content-Type"),
	}, nil
}
