package repositories

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"agroweather/pkg/logger"
)

type BackoffConfig struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

func DefaultBackoff(maxRetries int) BackoffConfig {
	return BackoffConfig{
		MaxRetries:      maxRetries,
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     5 * time.Second,
	}
}

// StatusError is a non-2xx answer from the provider.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP error (status %d): %s", e.Code, e.Status)
}

func (e *StatusError) Is(target error) bool {
	switch target {
	case ErrUpstream:
		return true
	case ErrEndpointUnavailable:
		return e.Code == http.StatusUnauthorized || e.Code == http.StatusForbidden || e.Code == http.StatusNotFound
	}
	return false
}

var (
	errRetryable   = errors.New("retryable upstream response")
	errCircuitOpen = errors.New("circuit breaker open")
)

type response struct {
	code   int
	status string
	body   []byte
}

// ResilientClient retries transient failures with exponential backoff behind
// a circuit breaker. Only transport errors, 429 and 5xx are retried and count
// against the breaker.
type ResilientClient struct {
	client  HTTPClient
	backoff BackoffConfig
	circuit *gobreaker.CircuitBreaker
	l       *logger.Logger
}

func NewResilientClient(name string, client HTTPClient, backoff BackoffConfig, l *logger.Logger) *ResilientClient {
	if client == nil {
		client = http.DefaultClient
	}
	if backoff.InitialInterval <= 0 {
		backoff.InitialInterval = 500 * time.Millisecond
	}
	if backoff.MaxRetries < 0 {
		backoff.MaxRetries = 0
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
		OnStateChange: func(name string, from, to gobreaker.State) {
			l.Warning("circuit breaker state changed", map[string]any{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			})
		},
	})

	return &ResilientClient{
		client:  client,
		backoff: backoff,
		circuit: cb,
		l:       l,
	}
}

// Get fetches url and returns the body of a 2xx answer. Any other answer is a
// *StatusError; every failure matches ErrUpstream except context errors.
func (c *ResilientClient) Get(ctx context.Context, url string) ([]byte, error) {
	var attempt int

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		result, err := c.circuit.Execute(func() (interface{}, error) {
			return c.do(ctx, url)
		})

		if err == nil {
			resp := result.(*response)
			if resp.code < 200 || resp.code >= 300 {
				return nil, &StatusError{Code: resp.code, Status: resp.status}
			}
			return resp.body, nil
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}

		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %w: %v", ErrUpstream, errCircuitOpen, err)
		}

		if attempt >= c.backoff.MaxRetries {
			var statusErr *StatusError
			if errors.As(err, &statusErr) {
				return nil, statusErr
			}
			return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
		}

		delay := c.backoff.InitialInterval * time.Duration(math.Pow(2, float64(attempt)))
		if c.backoff.MaxInterval > 0 && delay > c.backoff.MaxInterval {
			delay = c.backoff.MaxInterval
		}

		c.l.Warning("retrying weather provider request", map[string]any{
			"attempt": attempt + 1,
			"delay":   delay.String(),
			"reason":  err.Error(),
		})

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}

		attempt++
	}
}

func (c *ResilientClient) do(ctx context.Context, url string) (*response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return nil, fmt.Errorf("%w: %w", errRetryable, &StatusError{Code: resp.StatusCode, Status: resp.Status})
	}

	return &response{code: resp.StatusCode, status: resp.Status, body: body}, nil
}
