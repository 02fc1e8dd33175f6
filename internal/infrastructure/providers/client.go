// Package providers implements the fault-isolating source adapters. Every
// fetch degrades to an empty result on transport errors, non-2xx responses,
// decode failures, or timeouts; callers never see an error.
package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const (
	listingTimeout = 10 * time.Second
	detailTimeout  = 5 * time.Second
	enrichLimit    = 5
	userAgent      = "DailyDigest/1.0"
)

// getJSON issues a GET request and decodes the JSON response body into v.
func getJSON(ctx context.Context, client *http.Client, rawURL string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if closeErr := resp.Body.Close(); closeErr != nil {
			return fmt.Errorf("unexpected status %s, close body: %v", resp.Status, closeErr)
		}
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		_ = resp.Body.Close()
		return fmt.Errorf("decode response: %w", err)
	}

	if err := resp.Body.Close(); err != nil {
		return fmt.Errorf("close response body: %w", err)
	}

	return nil
}
