package imagegen

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"k8s.io/klog/v2"

	"github.com/Janakrish1/Plan2Ship/config"
)

// ErrNotConfigured is returned when no image endpoint is set.
var ErrNotConfigured = errors.New("image generation endpoint and API key must be configured")

// Generator produces a PNG image for a text prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) ([]byte, error)
}

// Client talks to an OpenAI-compatible image generations endpoint.
type Client struct {
	endpoint string
	apiKey   string
	httpc    *http.Client
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		endpoint: cfg.Image.Endpoint,
		apiKey:   cfg.Image.APIKey,
		httpc: &http.Client{
			Timeout: 5 * time.Minute,
		},
	}
}

type generateRequest struct {
	Prompt         string `json:"prompt"`
	N              int    `json:"n"`
	Size           string `json:"size"`
	Quality        string `json:"quality"`
	Style          string `json:"style"`
	ResponseFormat string `json:"response_format"`
}

type generateResponse struct {
	Data []struct {
		B64JSON string `json:"b64_json"`
		URL     string `json:"url"`
	} `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Generate sends one image request and returns the decoded PNG bytes.
func (c *Client) Generate(ctx context.Context, prompt string) ([]byte, error) {
	if c.endpoint == "" || c.apiKey == "" {
		return nil, ErrNotConfigured
	}

	reqBody := generateRequest{
		Prompt:         prompt,
		N:              1,
		Size:           "1024x1024",
		Quality:        "standard",
		Style:          "natural",
		ResponseFormat: "b64_json",
	}
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	klog.V(6).Infof("image request: promptLen=%d", len(prompt))
	req, err := http.NewRequestWithContext(ctx, "POST", c.endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", c.apiKey)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var genResp generateResponse
	if err := json.Unmarshal(body, &genResp); err != nil {
		return nil, fmt.Errorf("image generation failed: %s", http.StatusText(resp.StatusCode))
	}
	if genResp.Error != nil {
		return nil, fmt.Errorf("image generation failed: %s", genResp.Error.Message)
	}
	if len(genResp.Data) == 0 {
		return nil, errors.New("no image data in response")
	}

	first := genResp.Data[0]
	if first.B64JSON != "" {
		return base64.StdEncoding.DecodeString(first.B64JSON)
	}
	if first.URL != "" {
		return c.fetchURL(ctx, first.URL)
	}
	return nil, errors.New("response contained no image")
}

func (c *Client) fetchURL(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch generated image URL: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch generated image URL: %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}
