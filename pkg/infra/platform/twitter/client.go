// Package twitter talks to the X (Twitter) API v2 on behalf of a signed-in
// user. Every call is rate limited, retried on 429/5xx and guarded by a
// circuit breaker.
package twitter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/NeuralTrust/FollowerManager/pkg/config"
	"github.com/NeuralTrust/FollowerManager/pkg/domain/platform"
	"github.com/NeuralTrust/FollowerManager/pkg/infra/httpx"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	userFields  = "description,profile_image_url,public_metrics,verified,protected"
	maxPageSize = 1000
	maxPages    = 10000
	userAgent   = "follower-manager"

	breakerTimeout     = 30 * time.Second
	breakerMaxFailures = 5
)

// ErrPaginationLoop is returned when the API hands back a next_token it
// already gave, or more pages than any account can have.
var ErrPaginationLoop = errors.New("pagination did not terminate")

type blockRequest struct {
	TargetUserID string `json:"target_user_id"`
}

// retryableError marks failures that count against the circuit breaker.
type retryableError struct {
	status int
	err    error
}

func (e *retryableError) Error() string { return e.err.Error() }
func (e *retryableError) Unwrap() error { return e.err }

type Option func(*client)

func WithHTTPClient(c httpx.Client) Option {
	return func(cl *client) {
		if c != nil {
			cl.http = c
		}
	}
}

func WithLimiter(l *rate.Limiter) Option {
	return func(cl *client) {
		cl.limiter = l
	}
}

type client struct {
	logger      *logrus.Logger
	baseURL     string
	http        httpx.Client
	limiter     *rate.Limiter
	breaker     httpx.CircuitBreaker
	maxAttempts int
	baseBackoff time.Duration
	pageSize    int
}

func NewClient(cfg config.TwitterConfig, logger *logrus.Logger, opts ...Option) platform.Client {
	c := &client{
		logger:      logger,
		baseURL:     cfg.APIBaseURL,
		http:        httpx.NewFastHTTPClient(httpx.WithTimeout(cfg.Timeout), httpx.WithUserAgent(userAgent)),
		limiter:     rate.NewLimiter(rate.Limit(cfg.RPS), cfg.Burst),
		maxAttempts: cfg.MaxAttempts,
		baseBackoff: cfg.BaseBackoff,
		pageSize:    cfg.PageSize,
	}
	if c.maxAttempts < 1 {
		c.maxAttempts = 1
	}
	if c.pageSize <= 0 || c.pageSize > maxPageSize {
		c.pageSize = maxPageSize
	}
	c.breaker = httpx.NewCircuitBreaker(httpx.BreakerConfig{
		Name:      "twitter",
		OpenFor:   breakerTimeout,
		TripAfter: breakerMaxFailures,
		OnChange: func(name, from, to string) {
			logger.WithFields(logrus.Fields{"breaker": name, "from": from, "to": to}).Warn("circuit breaker state changed")
		},
	})
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *client) Me(ctx context.Context, accessToken string) (*platform.Account, error) {
	q := url.Values{}
	q.Set("user.fields", userFields)
	body, err := c.call(ctx, http.MethodGet, "/users/me", q, nil, accessToken)
	if err != nil {
		return nil, err
	}
	return parseAccount(body)
}

func (c *client) Followers(ctx context.Context, accessToken, accountID string) ([]platform.Account, error) {
	return c.listUsers(ctx, accessToken, "/users/"+url.PathEscape(accountID)+"/followers")
}

func (c *client) Following(ctx context.Context, accessToken, accountID string) ([]platform.Account, error) {
	return c.listUsers(ctx, accessToken, "/users/"+url.PathEscape(accountID)+"/following")
}

// RemoveFollower soft-blocks: block then immediately unblock, which drops
// the follow edge without leaving the account blocked.
func (c *client) RemoveFollower(ctx context.Context, accessToken, accountID, followerID string) error {
	blockPath := "/users/" + url.PathEscape(accountID) + "/blocking"
	payload, err := json.Marshal(blockRequest{TargetUserID: followerID})
	if err != nil {
		return fmt.Errorf("failed to encode block request: %w", err)
	}
	if _, err := c.call(ctx, http.MethodPost, blockPath, nil, payload, accessToken); err != nil {
		return fmt.Errorf("failed to block follower %s: %w", followerID, err)
	}
	if _, err := c.call(ctx, http.MethodDelete, blockPath+"/"+url.PathEscape(followerID), nil, nil, accessToken); err != nil {
		return fmt.Errorf("failed to unblock follower %s: %w", followerID, err)
	}
	return nil
}

func (c *client) listUsers(ctx context.Context, accessToken, path string) ([]platform.Account, error) {
	var (
		out       []platform.Account
		nextToken string
		seen      = map[string]struct{}{}
	)
	for pages := 1; ; pages++ {
		q := url.Values{}
		q.Set("max_results", strconv.Itoa(c.pageSize))
		q.Set("user.fields", userFields)
		if nextToken != "" {
			q.Set("pagination_token", nextToken)
		}
		body, err := c.call(ctx, http.MethodGet, path, q, nil, accessToken)
		if err != nil {
			return nil, err
		}
		page, token, err := parseAccountPage(body)
		if err != nil {
			return nil, err
		}
		out = append(out, page...)
		if token == "" {
			return out, nil
		}
		if _, dup := seen[token]; dup {
			return nil, fmt.Errorf("%w: token %q repeated on %s", ErrPaginationLoop, token, path)
		}
		if pages >= maxPages {
			return nil, fmt.Errorf("%w: more than %d pages on %s", ErrPaginationLoop, maxPages, path)
		}
		seen[token] = struct{}{}
		nextToken = token
	}
}

// call runs one API request through the limiter and breaker and returns
// the body of a 2xx response.
func (c *client) call(
	ctx context.Context,
	method, path string,
	query url.Values,
	payload []byte,
	accessToken string,
) ([]byte, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var (
		body      []byte
		clientErr error
	)
	err := c.breaker.Execute(func() error {
		resp, err := c.doWithRetry(ctx, method, endpoint, payload, accessToken)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return &retryableError{err: fmt.Errorf("failed to read response: %w", err)}
		}
		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			return &retryableError{status: resp.StatusCode, err: platform.ErrRateLimited}
		case resp.StatusCode >= 500:
			return &retryableError{status: resp.StatusCode, err: apiError(resp.StatusCode, data)}
		case resp.StatusCode == http.StatusUnauthorized:
			clientErr = platform.ErrUnauthorized
		case resp.StatusCode >= 400:
			clientErr = apiError(resp.StatusCode, data)
		default:
			body = data
		}
		return nil
	})
	if err != nil {
		c.logger.WithError(err).WithFields(logrus.Fields{
			"method": method,
			"path":   path,
		}).Warn("twitter request failed")
		return nil, err
	}
	if clientErr != nil {
		return nil, clientErr
	}
	return body, nil
}

func (c *client) doWithRetry(
	ctx context.Context,
	method, endpoint string,
	payload []byte,
	accessToken string,
) (*http.Response, error) {
	backoff := c.baseBackoff
	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		req, err := newRequest(ctx, method, endpoint, payload, accessToken)
		if err != nil {
			return nil, err
		}
		resp, err := c.http.Do(req)
		if err != nil {
			lastErr = err
			if werr := sleep(ctx, backoff); werr != nil {
				return nil, werr
			}
			backoff *= 2
			continue
		}
		retryable := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		if !retryable || attempt == c.maxAttempts {
			return resp, nil
		}
		wait := retryAfter(resp.Header.Get("Retry-After"), backoff)
		_ = resp.Body.Close()
		c.logger.WithFields(logrus.Fields{
			"status":  resp.StatusCode,
			"attempt": attempt,
			"wait":    wait.String(),
		}).Debug("retrying twitter request")
		if err := sleep(ctx, wait); err != nil {
			return nil, err
		}
		backoff *= 2
	}
	return nil, &retryableError{err: fmt.Errorf("request failed after %d attempts: %w", c.maxAttempts, lastErr)}
}

func newRequest(ctx context.Context, method, endpoint string, payload []byte, accessToken string) (*http.Request, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// retryAfter honours a Retry-After header given in seconds or as an HTTP
// date, then applies +/-20% jitter.
func retryAfter(header string, fallback time.Duration) time.Duration {
	wait := fallback
	if header != "" {
		if secs, err := strconv.Atoi(header); err == nil {
			wait = time.Duration(secs) * time.Second
		} else if t, err := http.ParseTime(header); err == nil {
			if d := time.Until(t); d > 0 {
				wait = d
			}
		}
	}
	jitter := time.Duration(float64(wait) * 0.2)
	if jitter > 0 {
		wait = wait - jitter + time.Duration(rand.Int63n(int64(2*jitter)))
	}
	return wait
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// IsRetryable reports whether err came from a 429/5xx or transport failure.
func IsRetryable(err error) bool {
	var re *retryableError
	return errors.As(err, &re)
}
