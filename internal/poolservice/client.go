// Package poolservice talks to the external pool backend that owns users,
// pools and guesses.
package poolservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"bolao/internal/configuration"
	"bolao/internal/models"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

var (
	ErrUnexpectedStatus = errors.New("unexpected status")
	ErrMalformedBody    = errors.New("malformed response body")
)

// PoolResponse is the backend's answer to a creation request. Its body is only
// interpreted when Decode is called.
type PoolResponse interface {
	Decode() (models.PoolCreationResult, error)
}

type Client struct {
	http *resty.Client
}

func NewClient(config models.BackendConfiguration) *Client {
	httpClient := resty.New().
		SetTransport(otelhttp.NewTransport(http.DefaultTransport)).
		SetBaseURL(config.BaseURL).
		SetTimeout(config.Timeout()).
		SetHeader("Accept", "application/json")

	return &Client{http: httpClient}
}

func (c *Client) CountUsers(ctx context.Context) (int64, error) {
	return c.count(ctx, configuration.BackendUsersCountPath, "users")
}

func (c *Client) CountPools(ctx context.Context) (int64, error) {
	return c.count(ctx, configuration.BackendPoolsCountPath, "pools")
}

func (c *Client) CountGuesses(ctx context.Context) (int64, error) {
	return c.count(ctx, configuration.BackendGuessesCountPath, "guesses")
}

// count reads a body shaped like {"<field>": <non-negative integer>}.
func (c *Client) count(ctx context.Context, path string, field string) (int64, error) {
	resp, err := c.http.R().SetContext(ctx).Get(path)
	if err != nil {
		return 0, fmt.Errorf("GET %s: %w", path, err)
	}
	if !isSuccess(resp.StatusCode()) {
		return 0, fmt.Errorf("GET %s: %w %d", path, ErrUnexpectedStatus, resp.StatusCode())
	}

	var body map[string]json.RawMessage
	if err = json.Unmarshal(resp.Body(), &body); err != nil {
		return 0, fmt.Errorf("GET %s: %w: %w", path, ErrMalformedBody, err)
	}

	raw, ok := body[field]
	if !ok {
		return 0, fmt.Errorf("GET %s: %w: missing %q", path, ErrMalformedBody, field)
	}

	var value int64
	if err = json.Unmarshal(raw, &value); err != nil {
		return 0, fmt.Errorf("GET %s: %w: %w", path, ErrMalformedBody, err)
	}
	if value < 0 {
		return 0, fmt.Errorf("GET %s: %w: negative %q", path, ErrMalformedBody, field)
	}

	return value, nil
}

// CreatePool sends the creation request. It only fails on transport errors;
// the status and body are checked by PoolResponse.Decode.
func (c *Client) CreatePool(ctx context.Context, request models.PoolCreationRequest) (PoolResponse, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(request).
		Post(configuration.BackendPoolsPath)
	if err != nil {
		return nil, fmt.Errorf("POST %s: %w", configuration.BackendPoolsPath, err)
	}

	return &createdPool{status: resp.StatusCode(), body: resp.Body()}, nil
}

type createdPool struct {
	status int
	body   []byte
}

func (p *createdPool) Decode() (models.PoolCreationResult, error) {
	if !isSuccess(p.status) {
		return models.PoolCreationResult{}, fmt.Errorf("%w %d", ErrUnexpectedStatus, p.status)
	}

	var result models.PoolCreationResult
	if err := json.Unmarshal(p.body, &result); err != nil {
		return models.PoolCreationResult{}, fmt.Errorf("%w: %w", ErrMalformedBody, err)
	}
	if result.Code == "" {
		return models.PoolCreationResult{}, fmt.Errorf("%w: missing code", ErrMalformedBody)
	}

	return result, nil
}

func isSuccess(status int) bool {
	return status >= 200 && status <= 299
}
