// Package pdfrender is a thin client for a Gotenberg-style HTML-to-PDF
// rendering service. The service fetches the page itself; we hand it a URL
// and get back a paginated PDF as opaque bytes.
package pdfrender

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

const convertPath = "/forms/chromium/convert/url"

type Client struct {
	baseURL string
	http    *http.Client

	maxRetries  int
	retryDelay  time.Duration
	retryStatus []int
}

func New(baseURL string) *Client {
	return &Client{
		baseURL:     baseURL,
		http:        &http.Client{Timeout: 60 * time.Second},
		maxRetries:  3,
		retryDelay:  2 * time.Second,
		retryStatus: []int{500, 502, 503, 504},
	}
}

// Render asks the rendering service to paginate the page at pageURL.
// Transient upstream failures are retried with a fixed delay.
func (c *Client) Render(ctx context.Context, pageURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(c.retryDelay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		pdf, status, err := c.render(ctx, pageURL)
		if err != nil {
			lastErr = err
			continue
		}
		if c.shouldRetry(status) {
			lastErr = fmt.Errorf("received status code: %d", status)
			continue
		}
		if status != http.StatusOK {
			return nil, fmt.Errorf("renderer returned status %d", status)
		}
		return pdf, nil
	}
	return nil, fmt.Errorf("failed to render PDF after %d retries: %v", c.maxRetries, lastErr)
}

func (c *Client) render(ctx context.Context, pageURL string) ([]byte, int, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if err := writer.WriteField("url", pageURL); err != nil {
		return nil, 0, err
	}
	if err := writer.Close(); err != nil {
		return nil, 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+convertPath, &body)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	pdf, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, err
	}
	return pdf, resp.StatusCode, nil
}

func (c *Client) shouldRetry(statusCode int) bool {
	for _, code := range c.retryStatus {
		if statusCode == code {
			return true
		}
	}
	return false
}
