package formatter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// RemoteFormatter posts {"code"} to a formatting service and expects
// {"formatted"} back.
type RemoteFormatter struct {
	url    string
	client *http.Client
}

func NewRemoteFormatter(url string, timeout time.Duration) *RemoteFormatter {
	return &RemoteFormatter{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

type remoteRequest struct {
	Code string `json:"code"`
}

type remoteResponse struct {
	Formatted string `json:"formatted"`
}

func (f *RemoteFormatter) Format(ctx context.Context, code string) (string, error) {
	payload, err := json.Marshal(remoteRequest{Code: code})
	if err != nil {
		return "", fmt.Errorf("marshal remote format request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build remote format request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("remote formatter unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("remote formatter returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out remoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode remote format response: %w", err)
	}
	if strings.TrimSpace(out.Formatted) == "" {
		return "", fmt.Errorf("remote formatter returned no code")
	}
	return out.Formatted, nil
}
