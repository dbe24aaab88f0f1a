// Package practicum implements the homework status API client.
// The client performs a single timestamped GET per call and leaves
// retry decisions to the caller.
package practicum

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/alem-hub/homework-bot/internal/domain/homework"
)

// DefaultEndpoint is the production homework statuses endpoint.
const DefaultEndpoint = "https://practicum.yandex.ru/api/user_api/homework_statuses/"

// ══════════════════════════════════════════════════════════════════════════════
// CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// ClientConfig contains configuration for the status API client.
type ClientConfig struct {
	// Endpoint is the full URL of the homework statuses resource
	Endpoint string

	// Token is the OAuth token sent in the Authorization header
	Token string

	// Timeout bounds a single request
	Timeout time.Duration

	// Logger for structured logging
	Logger *slog.Logger

	// Debug enables debug logging
	Debug bool

	// Now returns the current time; used when no window start is given
	Now func() time.Time
}

// DefaultClientConfig returns sensible defaults.
func DefaultClientConfig(token string) ClientConfig {
	return ClientConfig{
		Endpoint: DefaultEndpoint,
		Token:    token,
		Timeout:  30 * time.Second,
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// ERRORS
// ══════════════════════════════════════════════════════════════════════════════

// ErrFetch is the base error for errors.Is() checking.
var ErrFetch = errors.New("ошибка запроса к API статусов домашних работ")

// FetchError wraps any transport, HTTP status or body parse failure.
type FetchError struct {
	// StatusCode is the HTTP status, zero if no response was received
	StatusCode int
	Err        error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: код ответа %d: %v", ErrFetch, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", ErrFetch, e.Err)
}

// Unwrap returns the underlying cause.
func (e *FetchError) Unwrap() error { return e.Err }

// Is implements errors.Is() matching.
func (e *FetchError) Is(target error) bool { return target == ErrFetch }

// ══════════════════════════════════════════════════════════════════════════════
// CLIENT
// ══════════════════════════════════════════════════════════════════════════════

// Client is the homework status API client.
type Client struct {
	config     ClientConfig
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new status API client.
func NewClient(config ClientConfig) *Client {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.Endpoint == "" {
		config.Endpoint = DefaultEndpoint
	}
	if config.Now == nil {
		config.Now = time.Now
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		logger: config.Logger,
	}
}

// Fetch returns the statuses changed since windowStart (unix seconds).
// A zero windowStart means "now".
func (c *Client) Fetch(ctx context.Context, windowStart int64) (homework.RawResponse, error) {
	if windowStart == 0 {
		windowStart = c.config.Now().Unix()
	}

	reqURL, err := c.buildURL(windowStart)
	if err != nil {
		return nil, &FetchError{Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &FetchError{Err: fmt.Errorf("не удалось создать запрос: %w", err)}
	}

	req.Header.Set("Authorization", "OAuth "+c.config.Token)
	req.Header.Set("Accept", "application/json")

	if c.config.Debug {
		c.logger.Debug("homework api request", "from_date", windowStart)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{Err: fmt.Errorf("запрос не выполнен: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{StatusCode: resp.StatusCode, Err: fmt.Errorf("не удалось прочитать ответ: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{
			StatusCode: resp.StatusCode,
			Err:        errors.New("пришел некорректный ответ от сервера"),
		}
	}

	if !json.Valid(body) {
		return nil, &FetchError{StatusCode: resp.StatusCode, Err: errors.New("ответ сервера не является корректным JSON")}
	}

	return homework.RawResponse(body), nil
}

func (c *Client) buildURL(windowStart int64) (string, error) {
	u, err := url.Parse(c.config.Endpoint)
	if err != nil {
		return "", fmt.Errorf("некорректный адрес API: %w", err)
	}

	params := u.Query()
	params.Set("from_date", strconv.FormatInt(windowStart, 10))
	u.RawQuery = params.Encode()

	return u.String(), nil
}
