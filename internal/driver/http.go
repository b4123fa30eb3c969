package driver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPDriver issues HTTP requests built from the step's rendered req.
// req is expected to be a map[string]any with optional "method", "url",
// "headers", "query", and "body" keys overriding the driver's args.
type HTTPDriver struct {
	client  *http.Client
	method  string
	url     string
	headers map[string]string
}

// NewHTTPDriver is a driver.Constructor for type "http".
func NewHTTPDriver(args map[string]any) (Driver, error) {
	d := &HTTPDriver{method: "GET"}

	timeout := 10 * time.Second
	if v, ok := args["timeout_ms"]; ok {
		if ms, ok := toInt(v); ok {
			timeout = time.Duration(ms) * time.Millisecond
		}
	}
	d.client = &http.Client{Timeout: timeout}

	if v, ok := args["method"].(string); ok && v != "" {
		d.method = v
	}
	if v, ok := args["url"].(string); ok {
		d.url = v
	}
	if h, ok := args["headers"].(map[string]any); ok {
		d.headers = make(map[string]string, len(h))
		for k, v := range h {
			d.headers[k] = fmt.Sprint(v)
		}
	}
	return d, nil
}

// Name returns a stable display name for the invocation.
func (d *HTTPDriver) Name(req any) string {
	m, _ := req.(map[string]any)
	url := d.url
	if v, ok := m["url"].(string); ok && v != "" {
		url = v
	}
	return "http " + d.method + " " + url
}

// Do performs the HTTP round trip and returns {status, headers, body}.
func (d *HTTPDriver) Do(ctx context.Context, req any) (any, error) {
	m, _ := req.(map[string]any)

	method := d.method
	if v, ok := m["method"].(string); ok && v != "" {
		method = v
	}
	url := d.url
	if v, ok := m["url"].(string); ok && v != "" {
		url = v
	}

	var bodyReader io.Reader
	if body, ok := m["body"]; ok && body != nil {
		switch b := body.(type) {
		case string:
			bodyReader = bytes.NewBufferString(b)
		default:
			encoded, err := json.Marshal(b)
			if err != nil {
				return nil, fmt.Errorf("encode body: %w", err)
			}
			bodyReader = bytes.NewReader(encoded)
		}
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	for k, v := range d.headers {
		httpReq.Header.Set(k, v)
	}
	if h, ok := m["headers"].(map[string]any); ok {
		for k, v := range h {
			httpReq.Header.Set(k, fmt.Sprint(v))
		}
	}
	if q, ok := m["query"].(map[string]any); ok {
		values := httpReq.URL.Query()
		for k, v := range q {
			values.Set(k, fmt.Sprint(v))
		}
		httpReq.URL.RawQuery = values.Encode()
	}

	resp, err := d.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	headers := make(map[string]any, len(resp.Header))
	for k, v := range resp.Header {
		if len(v) > 0 {
			headers[k] = v[0]
		}
	}

	return map[string]any{
		"status":  resp.StatusCode,
		"headers": headers,
		"body":    string(respBody),
	}, nil
}

func toInt(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		return int64(n), true
	default:
		return 0, false
	}
}
