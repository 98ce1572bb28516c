package tinder

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"go.uber.org/zap"
)

const (
	contentType     = "application/json"
	contentEncoding = "gzip"
)

// StatusError is returned when the API answers with a non-success status.
type StatusError struct {
	StatusCode int
	Status     string
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("bad status from %s: %s", e.URL, e.Status)
}

// envelope is the common response wrapper of the API.
type envelope struct {
	Data json.RawMessage `json:"data"`
}

// getData makes a GET request and decodes the data envelope into target.
func (c *Client) getData(ctx context.Context, path string, q url.Values, target any) error {
	endpoint := c.APIURL + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}

	req = c.setHeaders(req)
	if q != nil {
		req.URL.RawQuery = q.Encode()
	}

	resp, err := c.request(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &StatusError{StatusCode: resp.StatusCode, Status: resp.Status, URL: endpoint}
	}

	var reader io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gzipReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			return err
		}
		defer gzipReader.Close()
		reader = gzipReader
	}

	var env envelope
	if err := json.NewDecoder(reader).Decode(&env); err != nil {
		return fmt.Errorf("decoding response from %s: %w", endpoint, err)
	}

	if len(env.Data) == 0 || string(env.Data) == "null" {
		return fmt.Errorf("response from %s has no data", endpoint)
	}

	if err := json.Unmarshal(env.Data, target); err != nil {
		return fmt.Errorf("decoding data from %s: %w", endpoint, err)
	}

	return nil
}

func (c *Client) request(req *http.Request) (*http.Response, error) {
	c.logger.Debug("make request", zap.String("url", req.URL.String()))
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}

	return resp, nil
}

func (c *Client) setHeaders(req *http.Request) *http.Request {
	req.Header.Set("Accept", contentType)
	req.Header.Set("Accept-Encoding", contentEncoding)
	req.Header.Set("X-Auth-Token", c.token)
	req.Header.Set("App-Session-Id", c.sessionID)

	return req
}
