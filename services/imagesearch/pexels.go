package imagesearch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"net/url"
	"time"
)

// DefaultBaseURL is the Pexels REST API root.
const DefaultBaseURL = "https://api.pexels.com/v1"

// PexelsClient searches stock photos for slide illustrations.
type PexelsClient struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client

	pick func(n int) int
}

type searchResponse struct {
	Photos []struct {
		Src struct {
			Landscape string `json:"landscape"`
			Large     string `json:"large"`
			Original  string `json:"original"`
		} `json:"src"`
	} `json:"photos"`
}

// NewPexelsClient returns a client. An empty key yields a client whose
// searches always come back empty.
func NewPexelsClient(apiKey string) *PexelsClient {
	return &PexelsClient{
		APIKey:     apiKey,
		BaseURL:    DefaultBaseURL,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
		pick:       rand.IntN,
	}
}

// Configured reports whether an API key is set.
func (c *PexelsClient) Configured() bool {
	return c != nil && c.APIKey != ""
}

// RandomImage returns the URL of a random landscape photo matching query, or
// "" when the client is unconfigured or nothing matched.
func (c *PexelsClient) RandomImage(ctx context.Context, query string) (string, error) {
	if !c.Configured() || query == "" {
		return "", nil
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("per_page", "15")
	params.Set("orientation", "landscape")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", c.APIKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("pexels request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("pexels returned status %d: %s", resp.StatusCode, string(msg))
	}

	var result searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode pexels response: %w", err)
	}
	if len(result.Photos) == 0 {
		return "", nil
	}

	src := result.Photos[c.pick(len(result.Photos))].Src
	switch {
	case src.Landscape != "":
		return src.Landscape, nil
	case src.Large != "":
		return src.Large, nil
	default:
		return src.Original, nil
	}
}
