package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://api.themoviedb.org/3"

	imageBaseURL    = "https://image.tmdb.org/t/p/w500"
	backdropBaseURL = "https://image.tmdb.org/t/p/original"

	// TMDB allows ~50 requests per second; stay well under it
	rateLimit = 20
	rateBurst = 40

	// Retry configuration
	maxRetries   = 3
	initialDelay = 1 * time.Second
	maxDelay     = 16 * time.Second
)

// Client handles TMDB API requests with rate limiting and retry logic
type Client struct {
	baseURL     string
	apiKey      string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
}

// NewClient creates a new TMDB API client
func NewClient(baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL:     baseURL,
		apiKey:      apiKey,
		rateLimiter: rate.NewLimiter(rate.Limit(rateLimit), rateBurst),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// SearchMovies queries the provider search endpoint.
func (c *Client) SearchMovies(ctx context.Context, query string, page int) (map[string]interface{}, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("page", fmt.Sprintf("%d", page))

	var response map[string]interface{}
	if err := c.doRequest(ctx, "/search/movie", params, &response); err != nil {
		return nil, fmt.Errorf("failed to search movies: %w", err)
	}
	return response, nil
}

// GetMovieDetails fetches full movie details with credits appended.
func (c *Client) GetMovieDetails(ctx context.Context, tmdbID int) (map[string]interface{}, error) {
	params := url.Values{}
	params.Set("append_to_response", "credits")

	var response map[string]interface{}
	if err := c.doRequest(ctx, fmt.Sprintf("/movie/%d", tmdbID), params, &response); err != nil {
		return nil, fmt.Errorf("failed to fetch movie %d: %w", tmdbID, err)
	}
	return response, nil
}

// GetPopularMovies fetches one page of the provider's popular list.
func (c *Client) GetPopularMovies(ctx context.Context, page int) (map[string]interface{}, error) {
	params := url.Values{}
	params.Set("page", fmt.Sprintf("%d", page))

	var response map[string]interface{}
	if err := c.doRequest(ctx, "/movie/popular", params, &response); err != nil {
		return nil, fmt.Errorf("failed to fetch popular movies: %w", err)
	}
	return response, nil
}

// GetWatchProviders fetches streaming availability for a region.
func (c *Client) GetWatchProviders(ctx context.Context, tmdbID int, region string) (*WatchProviders, error) {
	var response watchProvidersResponse
	if err := c.doRequest(ctx, fmt.Sprintf("/movie/%d/watch/providers", tmdbID), nil, &response); err != nil {
		return nil, fmt.Errorf("failed to fetch watch providers for %d: %w", tmdbID, err)
	}

	regional, ok := response.Results[region]
	if !ok {
		return &WatchProviders{}, nil
	}
	return &regional, nil
}

// FullPosterURL resolves a provider poster path to an absolute URL.
func (c *Client) FullPosterURL(path string) string {
	if path == "" {
		return ""
	}
	return imageBaseURL + path
}

// FullBackdropURL resolves a provider backdrop path to an absolute URL.
func (c *Client) FullBackdropURL(path string) string {
	if path == "" {
		return ""
	}
	return backdropBaseURL + path
}

// doRequest performs an HTTP request with rate limiting and retry logic
func (c *Client) doRequest(ctx context.Context, endpoint string, params url.Values, result interface{}) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)
	fullURL := c.baseURL + endpoint + "?" + params.Encode()

	var lastErr error
	delay := initialDelay

	for attempt := 0; attempt <= maxRetries; attempt++ {
		// Rate limit
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter error: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("User-Agent", "Roamly/1.0")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			if attempt < maxRetries {
				log.Printf("[TMDB] Request failed (attempt %d/%d): %v, retrying in %v...",
					attempt+1, maxRetries, err, delay)
				time.Sleep(delay)
				delay = minDuration(delay*2, maxDelay)
				continue
			}
			return fmt.Errorf("request failed after %d attempts: %w", maxRetries, err)
		}

		if resp.StatusCode != http.StatusOK {
			bodyBytes, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			bodyStr := string(bodyBytes)

			// Retry on rate limit or server errors
			if shouldRetry(resp.StatusCode) && attempt < maxRetries {
				lastErr = fmt.Errorf("HTTP %d: %s", resp.StatusCode, bodyStr)
				log.Printf("[TMDB] HTTP %d (attempt %d/%d), retrying in %v...",
					resp.StatusCode, attempt+1, maxRetries, delay)
				time.Sleep(delay)
				delay = minDuration(delay*2, maxDelay)
				continue
			}

			return fmt.Errorf("HTTP %d: %s", resp.StatusCode, bodyStr)
		}

		err = json.NewDecoder(resp.Body).Decode(result)
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}

		return nil
	}

	return fmt.Errorf("request failed after %d attempts: %w", maxRetries, lastErr)
}

// shouldRetry determines if an HTTP status code warrants a retry
func shouldRetry(statusCode int) bool {
	return statusCode == http.StatusTooManyRequests || // 429
		statusCode >= 500 // 500-504
}

// minDuration returns the smaller of two durations
func minDuration(a, b time.Duration) time.Duration {
	if a < b {
		return a
	}
	return b
}
