package graphql

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/kilianp07/seaplane/infra/auth"
	"github.com/kilianp07/seaplane/infra/logger"
)

const maxErrorBody = 512

// Client talks to the delivery backend over GraphQL.
type Client struct {
	endpoint   string
	headers    map[string]string
	http       *http.Client
	log        logger.Logger
	maxRetries int
	backoff    time.Duration
}

// New returns a Client for cfg. cfg is expected to have defaults applied.
func New(cfg Config, log logger.Logger) *Client {
	if log == nil {
		log = logger.New("graphql")
	}
	hc := &http.Client{Timeout: cfg.Timeout()}
	if cfg.Auth.Enabled() {
		hc.Transport = auth.NewClientCred(cfg.Auth).Transport(nil)
	}
	return &Client{
		endpoint:   cfg.Endpoint,
		headers:    cfg.Headers,
		http:       hc,
		log:        log,
		maxRetries: cfg.MaxRetries,
		backoff:    time.Duration(cfg.BackoffMS) * time.Millisecond,
	}
}

type request struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type response struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// query runs a read-only operation, retrying transport failures and 5xx
// answers with exponential backoff.
func (c *Client) query(ctx context.Context, q string, vars map[string]any, out any) error {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = c.backoff
	exp.MaxElapsedTime = 0
	b := backoff.WithContext(backoff.WithMaxRetries(exp, uint64(max(c.maxRetries, 0))), ctx)
	attempt := 0
	return backoff.Retry(func() error {
		attempt++
		err := c.do(ctx, q, vars, out)
		if err == nil {
			return nil
		}
		if !retryable(err) || ctx.Err() != nil {
			return backoff.Permanent(err)
		}
		c.log.Warnf("graphql attempt %d failed: %v", attempt, err)
		return err
	}, b)
}

// mutate runs a write operation exactly once.
func (c *Client) mutate(ctx context.Context, q string, vars map[string]any, out any) error {
	return c.do(ctx, q, vars, out)
}

func (c *Client) do(ctx context.Context, q string, vars map[string]any, out any) error {
	body, err := json.Marshal(request{Query: q, Variables: vars})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{Code: resp.StatusCode, Body: string(bytes.TrimSpace(msg))}
	}
	var r response
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return fmt.Errorf("decode graphql response: %w", err)
	}
	if len(r.Errors) > 0 {
		re := &ResponseError{}
		for _, e := range r.Errors {
			re.Messages = append(re.Messages, e.Message)
		}
		return re
	}
	if out == nil || len(r.Data) == 0 || string(r.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(r.Data, out); err != nil {
		return fmt.Errorf("decode graphql data: %w", err)
	}
	return nil
}

func retryable(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return se.retryable()
	}
	if errors.Is(err, ErrGraphQL) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var syn *json.SyntaxError
	var typ *json.UnmarshalTypeError
	return !errors.As(err, &syn) && !errors.As(err, &typ)
}
