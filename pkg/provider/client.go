package provider

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/sony/gobreaker/v2"
)

const (
	requestTimeout = 5 * time.Second
	maxRetries     = 2
	retryDelay     = 1 * time.Second

	// A NO_NUMBERS answer is cached briefly so a burst of purchase
	// attempts does not hammer the provider for a service it just
	// declared empty.
	noNumbersTTL = 30 * time.Second
)

// Client is a stateless adapter over the activation provider's
// plain-text HTTP API (action=getNumber|getStatus|setStatus).
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[string]
	empty   *gocache.Cache
}

// NewClient builds a provider client. baseURL points at the provider's
// handler endpoint (e.g. https://api.grizzlysms.com/stubs/handler_api.php).
func NewClient(baseURL, apiKey string) *Client {
	settings := gobreaker.Settings{
		Name:        "sms-provider",
		MaxRequests: 3,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: requestTimeout},
		breaker: gobreaker.NewCircuitBreaker[string](settings),
		empty:   gocache.New(noNumbersTTL, time.Minute),
	}
}

// AcquireNumber rents a number for a service in a country and parses
// the ACCESS_NUMBER:id:number token.
func (c *Client) AcquireNumber(ctx context.Context, service, country string) (*Acquisition, error) {
	if _, found := c.empty.Get(service + ":" + country); found {
		return nil, ErrNoNumbers
	}

	body, err := c.call(ctx, url.Values{
		"action":  {"getNumber"},
		"service": {service},
		"country": {country},
	})
	if err != nil {
		return nil, err
	}

	switch {
	case body == "BAD_KEY":
		return nil, ErrBadKey
	case body == "NO_NUMBERS":
		c.empty.SetDefault(service+":"+country, struct{}{})
		return nil, ErrNoNumbers
	case strings.HasPrefix(body, "ACCESS_NUMBER:"):
		parts := strings.SplitN(body, ":", 3)
		if len(parts) != 3 || parts[1] == "" || parts[2] == "" {
			return nil, fmt.Errorf("%w: %q", ErrUnexpectedResponse, body)
		}
		return &Acquisition{ActivationId: parts[1], PhoneNumber: parts[2]}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnexpectedResponse, body)
}

// PollStatus asks the provider for the current state of an activation.
func (c *Client) PollStatus(ctx context.Context, activationId string) (*Status, error) {
	body, err := c.call(ctx, url.Values{
		"action": {"getStatus"},
		"id":     {activationId},
	})
	if err != nil {
		return nil, err
	}

	switch {
	case body == "STATUS_WAIT_CODE":
		return &Status{Kind: StatusWaiting}, nil
	case body == "STATUS_WAIT_RESEND":
		return &Status{Kind: StatusResendRequested}, nil
	case body == "STATUS_CANCEL":
		return &Status{Kind: StatusCancelled}, nil
	case strings.HasPrefix(body, "STATUS_WAIT_RETRY:"):
		return &Status{Kind: StatusRetryRequested, LastCode: strings.TrimPrefix(body, "STATUS_WAIT_RETRY:")}, nil
	case strings.HasPrefix(body, "STATUS_OK:"):
		code := strings.TrimPrefix(body, "STATUS_OK:")
		if code == "" {
			return nil, fmt.Errorf("%w: %q", ErrUnexpectedResponse, body)
		}
		return &Status{Kind: StatusCodeReceived, Code: code}, nil
	case body == "NO_ACTIVATION":
		return nil, ErrNotFound
	case body == "BAD_KEY":
		return nil, ErrBadKey
	}
	return nil, fmt.Errorf("%w: %q", ErrUnexpectedResponse, body)
}

// Cancel reports the number unused (setStatus=8) and expects
// ACCESS_CANCEL back.
func (c *Client) Cancel(ctx context.Context, activationId string) error {
	body, err := c.call(ctx, url.Values{
		"action": {"setStatus"},
		"status": {"8"},
		"id":     {activationId},
	})
	if err != nil {
		return err
	}

	switch body {
	case "ACCESS_CANCEL":
		return nil
	case "EARLY_CANCEL_DENIED":
		return ErrEarlyCancelDenied
	case "NO_ACTIVATION":
		return ErrNotFound
	case "BAD_KEY":
		return ErrBadKey
	}
	return fmt.Errorf("%w: %q", ErrUnexpectedResponse, body)
}

// call performs one logical provider request: breaker-wrapped, with a
// bounded retry on network-class failures only. HTTP and vocabulary
// errors are never retried.
func (c *Client) call(ctx context.Context, params url.Values) (string, error) {
	params.Set("api_key", c.apiKey)
	endpoint := c.baseURL + "?" + params.Encode()

	body, err := c.breaker.Execute(func() (string, error) {
		var lastErr error
		for attempt := 0; attempt <= maxRetries; attempt++ {
			if attempt > 0 {
				select {
				case <-time.After(retryDelay):
				case <-ctx.Done():
					return "", ctx.Err()
				}
			}

			body, err := c.doRequest(ctx, endpoint)
			if err == nil {
				return body, nil
			}
			lastErr = err
			if !isNetworkError(err) {
				return "", err
			}
		}
		return "", lastErr
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return "", fmt.Errorf("%w: circuit open", ErrUnavailable)
		}
		if isNetworkError(err) {
			return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return "", err
	}
	return strings.TrimSpace(body), nil
}

func (c *Client) doRequest(ctx context.Context, endpoint string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "text/plain")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: http %d", ErrUnavailable, resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func isNetworkError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrUnavailable) {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	return errors.Is(err, io.ErrUnexpectedEOF)
}
