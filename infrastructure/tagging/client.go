// Package tagging calls the external tag generation service.
package tagging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"docspace/application/ports"
	pkgerrors "docspace/pkg/errors"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

const generatePath = "/generate-tags"

// BreakerConfig controls when the client stops calling a failing service.
type BreakerConfig struct {
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold float64
	MinRequests      uint32
}

// DefaultBreakerConfig trips after 5 requests with at least 80% failures.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxRequests:      1,
		Interval:         30 * time.Second,
		Timeout:          60 * time.Second,
		FailureThreshold: 0.8,
		MinRequests:      5,
	}
}

// Client implements ports.TagGenerator over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker
	logger  *zap.Logger
}

type generateRequest struct {
	Content  string `json:"content"`
	FileName string `json:"filename,omitempty"`
}

type generateResponse struct {
	Tags []string `json:"tags"`
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string, timeout time.Duration, breaker BreakerConfig, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "tag-service",
		MaxRequests: breaker.MaxRequests,
		Interval:    breaker.Interval,
		Timeout:     breaker.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < breaker.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= breaker.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
		// A cancelled caller says nothing about the service's health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	})
	return c
}

// GenerateTags posts content to the service and returns its raw tags.
func (c *Client) GenerateTags(ctx context.Context, content, fileName string) ([]string, error) {
	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.generate(ctx, content, fileName)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, pkgerrors.NewUnavailableError("tag service").WithCause(err)
		}
		return nil, err
	}
	return result.([]string), nil
}

func (c *Client) generate(ctx context.Context, content, fileName string) ([]string, error) {
	body, err := json.Marshal(generateRequest{Content: content, FileName: fileName})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+generatePath, bytes.NewReader(body))
	if err != nil {
		return nil, pkgerrors.NewExternalError("tag service", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, pkgerrors.NewExternalError("tag service", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, pkgerrors.NewExternalError("tag service", fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, pkgerrors.NewExternalError("tag service", fmt.Errorf("decode response: %w", err))
	}
	c.logger.Debug("Tag service responded", zap.Int("tags", len(out.Tags)))
	return out.Tags, nil
}

// State exposes the breaker state for readiness reporting.
func (c *Client) State() gobreaker.State {
	return c.breaker.State()
}

var _ ports.TagGenerator = (*Client)(nil)
