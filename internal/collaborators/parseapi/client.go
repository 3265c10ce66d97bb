// Package parseapi is the HTTP client for the external resume-parsing
// service.
package parseapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	commonhttp "candidate-intake/internal/common/http"
	"candidate-intake/internal/common/logger"
	"candidate-intake/internal/models"
)

// Client calls the parser's /v1/parse endpoint.
type Client struct {
	baseURL string
	apiKey  string
	http    *commonhttp.Client
	log     logger.Logger
}

// New creates a client. A zero timeout falls back to 60 seconds; parsing is
// slow by nature.
func New(baseURL, apiKey string, timeout time.Duration, log logger.Logger) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    commonhttp.NewClient(timeout),
		log:     log,
	}
}

type parseResponse struct {
	Success    bool                 `json:"success"`
	Error      string               `json:"error,omitempty"`
	ParsedData *models.ParsedResume `json:"parsedData,omitempty"`
}

// ParseResume sends the raw file and returns the extracted structure.
func (c *Client) ParseResume(ctx context.Context, fileName string, data []byte) (*models.ParsedResume, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return nil, fmt.Errorf("build parse request: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, fmt.Errorf("build parse request: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("build parse request: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/v1/parse", &body)
	if err != nil {
		return nil, fmt.Errorf("build parse request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	start := time.Now()
	resp, err := c.http.DoWithContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("parse request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("parser returned status %d: %s", resp.StatusCode, string(payload))
	}

	var parsed parseResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode parse response: %w", err)
	}
	if !parsed.Success || parsed.ParsedData == nil {
		return nil, fmt.Errorf("parser rejected file: %s", parsed.Error)
	}

	c.log.Debug("resume parsed", map[string]interface{}{
		"file":     fileName,
		"duration": time.Since(start).String(),
	})
	return parsed.ParsedData, nil
}
