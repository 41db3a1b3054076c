// Package stream implements a reconnecting consumer for the server's
// event endpoint. It keeps a long-lived connection open, dispatches
// update events to a handler, and retries with exponential backoff when
// the connection drops.
package stream

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/verdantlabs/verdant/internal/content"
	"github.com/verdantlabs/verdant/pkg/errors"
	"github.com/verdantlabs/verdant/pkg/logging"
	"github.com/verdantlabs/verdant/pkg/retry"
)

// Status is the consumer's connection state.
type Status string

// Consumer connection states. Failed is terminal: the consumer gives up
// after exhausting its reconnect budget.
const (
	StatusDisconnected Status = "disconnected"
	StatusConnecting   Status = "connecting"
	StatusConnected    Status = "connected"
	StatusFailed       Status = "failed"
)

// UpdateHandler receives every content change delivered on the stream.
type UpdateHandler func(content.Change)

// StatusListener observes connection state transitions.
type StatusListener func(Status)

// envelope mirrors the wire frames emitted by the event endpoint.
type envelope struct {
	Type      string          `json:"type"`
	Data      *content.Change `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// Consumer maintains the event stream connection.
type Consumer struct {
	url      string
	client   *http.Client
	policy   retry.Policy
	logger   *zerolog.Logger
	onUpdate UpdateHandler
	onStatus StatusListener

	mu     sync.RWMutex
	status Status
}

// Option configures a Consumer.
type Option func(*Consumer)

// WithPolicy overrides the reconnect backoff policy.
func WithPolicy(p retry.Policy) Option {
	return func(c *Consumer) { c.policy = p }
}

// WithHTTPClient overrides the HTTP client used to open the stream.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Consumer) { c.client = client }
}

// WithLogger overrides the consumer's logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(c *Consumer) { c.logger = logger }
}

// WithStatusListener registers a connection state observer.
func WithStatusListener(fn StatusListener) Option {
	return func(c *Consumer) { c.onStatus = fn }
}

// New creates a consumer for the given event endpoint URL. onUpdate is
// called for every update frame, in stream order, from the consumer's
// goroutine.
func New(url string, onUpdate UpdateHandler, opts ...Option) *Consumer {
	c := &Consumer{
		url:    url,
		client: &http.Client{},
		policy: retry.NewPolicy(),
		logger: logging.Default(),
		status: StatusDisconnected,
	}
	c.onUpdate = onUpdate
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Status returns the current connection state.
func (c *Consumer) Status() Status {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.status
}

func (c *Consumer) setStatus(s Status) {
	c.mu.Lock()
	changed := c.status != s
	c.status = s
	c.mu.Unlock()
	if changed && c.onStatus != nil {
		c.onStatus(s)
	}
}

// Run connects and consumes events until ctx is cancelled or the
// reconnect budget is exhausted. It returns nil on cancellation and
// ErrStreamFailed when the consumer gives up. Every reconnect, whether
// after a failed open or a dropped connection, waits out the backoff
// policy first; only consecutive failed opens escalate the delay and
// spend the attempt budget.
func (c *Consumer) Run(ctx context.Context) error {
	attempt := 0

	for {
		if ctx.Err() != nil {
			c.setStatus(StatusDisconnected)
			return nil
		}

		attempt++
		if c.policy.Exhausted(attempt) {
			c.setStatus(StatusFailed)
			c.logger.Error().
				Int("attempts", attempt-1).
				Str("url", c.url).
				Msg("Event stream reconnect budget exhausted, giving up")
			return errors.ErrStreamFailed
		}

		c.setStatus(StatusConnecting)
		resp, err := c.open(ctx)
		if err != nil {
			delay := c.policy.NextDelay(attempt)
			c.logger.Warn().
				Err(err).
				Int("attempt", attempt).
				Dur("retry_in", delay).
				Msg("Event stream connection failed")
			c.setStatus(StatusDisconnected)
			if !c.wait(ctx, delay) {
				return nil
			}
			continue
		}

		// Reset backoff on successful connection.
		attempt = 0
		c.setStatus(StatusConnected)
		c.logger.Info().Str("url", c.url).Msg("Event stream connected")

		err = c.consume(ctx, resp)
		_ = resp.Body.Close()
		if ctx.Err() != nil {
			c.setStatus(StatusDisconnected)
			return nil
		}
		c.setStatus(StatusDisconnected)

		// A dropped connection reconnects on the same schedule as a
		// failed open, starting back at the policy floor. Without this
		// wait a server that accepts and immediately closes the stream
		// would be hammered in a tight loop.
		delay := c.policy.NextDelay(1)
		c.logger.Warn().
			Err(err).
			Dur("retry_in", delay).
			Msg("Event stream disconnected, will reconnect")
		if !c.wait(ctx, delay) {
			return nil
		}
	}
}

// wait blocks for d or until ctx is cancelled. It reports whether the
// full delay elapsed.
func (c *Consumer) wait(ctx context.Context, d time.Duration) bool {
	select {
	case <-time.After(d):
		return true
	case <-ctx.Done():
		return false
	}
}

// open performs the streaming GET and validates the handshake.
func (c *Consumer) open(ctx context.Context) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("building stream request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("stream endpoint returned %d", resp.StatusCode)
	}
	return resp, nil
}

// consume reads frames until the connection breaks. A malformed frame
// is logged and skipped; it never kills the connection.
func (c *Consumer) consume(ctx context.Context, resp *http.Response) error {
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if payload == "" {
			continue
		}

		var env envelope
		if err := json.Unmarshal([]byte(payload), &env); err != nil {
			c.logger.Warn().Err(err).Str("frame", payload).Msg("Dropping malformed event frame")
			continue
		}
		c.dispatch(env)
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	return errors.ErrStreamClosed
}

func (c *Consumer) dispatch(env envelope) {
	switch env.Type {
	case "connected":
		c.logger.Debug().Msg("Event stream handshake received")
	case "ping":
		// Heartbeat, nothing to do.
	case "update":
		if env.Data == nil {
			c.logger.Warn().Msg("Update frame without payload, dropping")
			return
		}
		if c.onUpdate != nil {
			c.onUpdate(*env.Data)
		}
	default:
		c.logger.Debug().Str("type", env.Type).Msg("Ignoring unknown event frame type")
	}
}
