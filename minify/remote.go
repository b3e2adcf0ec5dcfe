package minify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"
)

// TransportError reports a non-success answer of the minification service.
type TransportError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("minification service %s responded with %s", e.URL, e.Status)
}

// Remote posts stylesheet text as form field "input" and returns the
// response body. Failures are returned as is, there are no retries.
type Remote struct {
	URL    string
	Token  string
	Client *http.Client

	log *zap.Logger
}

func (m *Remote) Minify(ctx context.Context, text string) (string, error) {
	log := m.log
	if log == nil {
		log = zap.NewNop()
	}
	client := m.Client
	if client == nil {
		client = http.DefaultClient
	}

	form := url.Values{"input": {text}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.URL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("unable to prepare minification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if m.Token != "" {
		req.Header.Set("Authorization", "Bearer "+m.Token)
	}

	log.Debug("Posting stylesheet for minification", zap.String("url", m.URL), zap.Int("bytes", len(text)))
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("minification request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &TransportError{URL: m.URL, StatusCode: resp.StatusCode, Status: resp.Status}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("unable to read minification response: %w", err)
	}
	return string(body), nil
}
