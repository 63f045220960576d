/**
 * @description
 * Thin typed client against a Fuel node's block-height endpoint. The
 * indexer calls LatestBlockHeight once per Start() to bound catch-up.
 *
 * @dependencies
 * - github.com/go-resty/resty/v2: HTTP client with base URL + retry
 */

package chain

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// Provider reads chain tip information from a Fuel node.
type Provider struct {
	http *resty.Client
}

// NewProvider builds a Provider pointed at a Fuel node's base URL.
func NewProvider(baseURL string) *Provider {
	http := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10 * time.Second).
		SetRetryCount(3).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(5 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if err != nil {
				return true
			}
			return r.StatusCode() >= 500
		}).
		SetHeader("Content-Type", "application/json")

	return &Provider{http: http}
}

type chainInfoResponse struct {
	BlockHeight int64 `json:"block_height"`
}

// LatestBlockHeight returns the current chain tip.
func (p *Provider) LatestBlockHeight(ctx context.Context) (int64, error) {
	var out chainInfoResponse

	resp, err := p.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/chain")
	if err != nil {
		return 0, fmt.Errorf("chain: fetch latest block height: %w", err)
	}
	if resp.IsError() {
		return 0, fmt.Errorf("chain: fetch latest block height: status %d", resp.StatusCode())
	}

	return out.BlockHeight, nil
}
