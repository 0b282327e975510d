// Package calendarclient implements ots.CalendarServer against calendar
// servers speaking the OpenTimestamps REST protocol: POST a digest to
// submit, GET a pending URI to poll for completion.
package calendarclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/djkazic/ots-go/pkg/util"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const contentType = "application/vnd.opentimestamps.v1"

// Client submits and polls calendar servers over HTTPS.
type Client struct {
	client  *http.Client
	maxBody int64
	logger  *zap.Logger

	limitersMu sync.Mutex
	limiters   map[string]*rate.Limiter
}

// New returns a Client with the given request timeout and response-body
// cap. A zero maxBody disables the cap. A nil logger disables logging.
func New(timeout time.Duration, maxBody int, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		client:   &http.Client{Timeout: timeout},
		maxBody:  int64(maxBody),
		logger:   logger,
		limiters: make(map[string]*rate.Limiter),
	}
}

// limiterFor returns the outbound rate limiter for a given server,
// creating one on first use. Each calendar server gets its own token
// bucket so a slow or rate-limiting server doesn't throttle requests to
// the others.
func (c *Client) limiterFor(server string) *rate.Limiter {
	c.limitersMu.Lock()
	defer c.limitersMu.Unlock()

	if lim, ok := c.limiters[server]; ok {
		return lim
	}
	lim := rate.NewLimiter(5, 10)
	c.limiters[server] = lim
	return lim
}

// ServerError wraps a non-2xx response from a calendar server.
type ServerError struct {
	Server     string
	StatusCode int
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("calendarclient: %s returned status %d", e.Server, e.StatusCode)
}

// Submit implements ots.CalendarServer: POST digest to server/digest and
// return the serialized Timestamp body.
func (c *Client) Submit(ctx context.Context, server string, digest []byte) ([]byte, error) {
	url := strings.TrimRight(server, "/") + "/digest"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(digest))
	if err != nil {
		return nil, fmt.Errorf("calendarclient: building submit request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", contentType)
	if err := c.limiterFor(server).Wait(ctx); err != nil {
		return nil, fmt.Errorf("calendarclient: rate limit wait for %s: %w", server, err)
	}
	return c.do(req, server)
}

// Poll implements ots.CalendarServer: GET uri/timestamp/<hex(msg)>. A 404
// means the attestation is still pending, reported as (nil, nil) per the
// CalendarServer contract.
func (c *Client) Poll(ctx context.Context, uri string, msg []byte) ([]byte, error) {
	url := strings.TrimRight(uri, "/") + "/timestamp/" + util.BytesToHex(msg)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("calendarclient: building poll request: %w", err)
	}
	req.Header.Set("Accept", contentType)
	if err := c.limiterFor(uri).Wait(ctx); err != nil {
		return nil, fmt.Errorf("calendarclient: rate limit wait for %s: %w", uri, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn("calendar poll failed", zap.String("uri", uri), zap.Error(err))
		return nil, fmt.Errorf("calendarclient: polling %s: %w", uri, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		io.Copy(io.Discard, resp.Body)
		return nil, nil
	}

	body, err := c.readBody(resp)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &ServerError{Server: uri, StatusCode: resp.StatusCode}
	}
	if len(body) == 0 {
		return nil, nil
	}
	return body, nil
}

func (c *Client) do(req *http.Request, server string) ([]byte, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn("calendar request failed", zap.String("server", server), zap.Error(err))
		return nil, fmt.Errorf("calendarclient: requesting %s: %w", server, err)
	}
	defer resp.Body.Close()

	body, err := c.readBody(resp)
	if err != nil {
		c.logger.Warn("calendar response read failed", zap.String("server", server), zap.Error(err))
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("calendar server returned error status",
			zap.String("server", server), zap.Int("status", resp.StatusCode))
		return nil, &ServerError{Server: server, StatusCode: resp.StatusCode}
	}
	return body, nil
}

func (c *Client) readBody(resp *http.Response) ([]byte, error) {
	r := io.Reader(resp.Body)
	if c.maxBody > 0 {
		r = io.LimitReader(resp.Body, c.maxBody+1)
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("calendarclient: reading response body: %w", err)
	}
	if c.maxBody > 0 && int64(len(body)) > c.maxBody {
		return nil, fmt.Errorf("calendarclient: response body exceeds %d bytes", c.maxBody)
	}
	return body, nil
}
