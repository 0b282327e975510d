// Package blockexplorer implements ots.BlockLookup against the REST APIs
// exposed by blockstream.info- and mempool.space-style block explorers.
package blockexplorer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	ots "github.com/djkazic/ots-go"
	"github.com/djkazic/ots-go/pkg/util"
	"go.uber.org/zap"
)

// Client queries one or more block explorers over HTTPS, falling through
// to the next configured base URL when one fails.
type Client struct {
	bases  []string
	client *http.Client
	logger *zap.Logger
}

// New returns a Client that tries each base URL in order, stopping at the
// first one that answers successfully. A nil logger disables logging.
func New(bases []string, timeout time.Duration, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		bases:  bases,
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// ExplorerError wraps a non-2xx response from an explorer. Base holds the
// full request URL that failed, not only the configured base URL.
type ExplorerError struct {
	Base       string
	StatusCode int
	Body       string
}

func (e *ExplorerError) Error() string {
	return fmt.Sprintf("blockexplorer: %s returned %d: %s", e.Base, e.StatusCode, e.Body)
}

type blockSummary struct {
	ID         string `json:"id"`
	Height     int64  `json:"height"`
	Timestamp  int64  `json:"timestamp"`
	MerkleRoot string `json:"merkle_root"`
}

// BlockByHeight implements ots.BlockLookup, trying each configured base URL
// in turn until one returns a usable result.
func (c *Client) BlockByHeight(ctx context.Context, height uint64) (ots.BlockInfo, error) {
	if len(c.bases) == 0 {
		return ots.BlockInfo{}, fmt.Errorf("blockexplorer: no explorer base URLs configured")
	}

	var lastErr error
	for _, base := range c.bases {
		info, err := c.fetch(ctx, base, height)
		if err == nil {
			return info, nil
		}
		c.logger.Warn("block explorer lookup failed, trying next base",
			zap.String("base", base), zap.Uint64("height", height), zap.Error(err))
		lastErr = err
	}
	return ots.BlockInfo{}, lastErr
}

func (c *Client) fetch(ctx context.Context, base string, height uint64) (ots.BlockInfo, error) {
	hash, err := c.getText(ctx, fmt.Sprintf("%s/block-height/%d", strings.TrimRight(base, "/"), height))
	if err != nil {
		return ots.BlockInfo{}, err
	}

	body, err := c.getBody(ctx, fmt.Sprintf("%s/block/%s", strings.TrimRight(base, "/"), hash))
	if err != nil {
		return ots.BlockInfo{}, err
	}

	var summary blockSummary
	if err := json.Unmarshal(body, &summary); err != nil {
		return ots.BlockInfo{}, fmt.Errorf("blockexplorer: %s: decoding block summary: %w", base, err)
	}

	if _, err := util.HexToBytes(summary.MerkleRoot); err != nil {
		return ots.BlockInfo{}, fmt.Errorf("blockexplorer: %s: invalid merkle root hex: %w", base, err)
	}

	return ots.BlockInfo{
		Height:     uint64(summary.Height),
		BlockHash:  summary.ID,
		MerkleRoot: summary.MerkleRoot,
		Timestamp:  uint64(summary.Timestamp),
	}, nil
}

func (c *Client) getText(ctx context.Context, url string) (string, error) {
	body, err := c.getBody(ctx, url)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(body)), nil
}

func (c *Client) getBody(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("blockexplorer: building request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("blockexplorer: requesting %s: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("blockexplorer: reading response from %s: %w", url, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &ExplorerError{Base: url, StatusCode: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}
