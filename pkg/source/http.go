package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// HTTPJSON returns a fetch function that GETs url and decodes the JSON
// response body into T. A nil client falls back to http.DefaultClient.
// Non-2xx responses are errors.
func HTTPJSON[T any](client *http.Client, url string) func(ctx context.Context) (T, error) {
	if client == nil {
		client = http.DefaultClient
	}
	return func(ctx context.Context) (T, error) {
		var out T

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return out, fmt.Errorf("building request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := client.Do(req)
		if err != nil {
			return out, err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return out, fmt.Errorf("fetching %s: unexpected status %s", url, resp.Status)
		}

		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return out, fmt.Errorf("decoding %s: %w", url, err)
		}
		return out, nil
	}
}
