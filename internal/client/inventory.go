package client

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"skinpricer/internal/config"
	"skinpricer/internal/domain"
	"skinpricer/internal/proxy"

	log "github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
	"resty.dev/v3"
)

// InventoryClient fetches and parses a user's inventory page from the listing site.
type InventoryClient interface {
	FetchInventory(ctx context.Context, steamID string) (string, error)
	GetInventory(ctx context.Context, steamID string) ([]domain.RawItem, error)
}

type inventoryClient struct {
	rl            ratelimit.Limiter
	config        config.InventoryConfig
	baseURL       string
	httpClient    *resty.Client
	parser        *inventoryParser
	proxySupplier proxy.ProxySupplier
	cooldown      *quotaCooldown
}

func NewInventoryClient(cfg config.InventoryConfig, proxySupplier proxy.ProxySupplier) InventoryClient {
	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.MaxRetries).
		SetRetryWaitTime(1*time.Second).
		SetRetryMaxWaitTime(5*time.Second).
		SetHeader("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36").
		SetHeader("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8").
		SetHeader("Accept-Language", "en-US,en;q=0.5").
		SetTLSClientConfig(&tls.Config{
			MinVersion: tls.VersionTLS12,
		})

	if proxySupplier != nil {
		if proxyURL := proxySupplier.Get(); proxyURL != "" {
			client.SetProxy(proxyURL)
			log.Infof("🔗 Using initial proxy: %s", proxyURL)
		}
	}

	return &inventoryClient{
		rl:            ratelimit.New(cfg.MaxRequestsPerSecond),
		config:        cfg,
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		httpClient:    client,
		parser:        newInventoryParser(cfg.ItemSelector),
		proxySupplier: proxySupplier,
		cooldown:      newQuotaCooldown(cfg.QuotaCooldown),
	}
}

// GetInventory fetches the inventory page and extracts its item elements.
// Every failure, including a page without items, wraps domain.ErrSourceUnavailable.
func (c *inventoryClient) GetInventory(ctx context.Context, steamID string) ([]domain.RawItem, error) {
	html, err := c.FetchInventory(ctx, steamID)
	if err != nil {
		return nil, err
	}

	items, err := c.parser.ParseInventory(html)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSourceUnavailable, err)
	}

	log.Debugf("Fetched inventory %s with %d elements", steamID, len(items))
	return items, nil
}

func (c *inventoryClient) FetchInventory(ctx context.Context, steamID string) (string, error) {
	pageURL := fmt.Sprintf("%s/inventory/%s", c.baseURL, url.PathEscape(steamID))

	html, err := c.fetchHTML(ctx, pageURL)
	if err != nil {
		return "", fmt.Errorf("%w: failed to fetch inventory %s: %w", domain.ErrSourceUnavailable, steamID, err)
	}
	return html, nil
}

func (c *inventoryClient) fetchHTML(ctx context.Context, pageURL string) (string, error) {
	if left := c.cooldown.wait(); left > 0 {
		return "", fmt.Errorf("quota cooldown active for another %v", left.Round(time.Second))
	}

	c.rl.Take()

	resp, err := c.httpClient.R().
		SetContext(ctx).
		Get(pageURL)
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("request cancelled: %w", ctx.Err())
		}
		return "", fmt.Errorf("failed to fetch URL: %w", err)
	}

	if !quotaExceeded(resp) {
		if resp.IsError() {
			return "", fmt.Errorf("HTTP error: %s", resp.Status())
		}
		return resp.String(), nil
	}

	log.Warnf("🚫 Rate limit exceeded for URL: %s", pageURL)

	if c.proxySupplier != nil {
		if newProxy := c.proxySupplier.Get(); newProxy != "" {
			log.Infof("🔄 Switching to new proxy: %s", newProxy)
			c.httpClient.SetProxy(newProxy)

			retryResp, retryErr := c.httpClient.R().
				SetContext(ctx).
				Get(pageURL)
			if retryErr == nil && !retryResp.IsError() && !quotaExceeded(retryResp) {
				log.Infof("✅ Retry successful with new proxy")
				return retryResp.String(), nil
			}
		}
	}

	c.cooldown.start()
	return "", fmt.Errorf("quota exceeded, requests paused for %v", c.config.QuotaCooldown)
}

func quotaExceeded(resp *resty.Response) bool {
	return resp.StatusCode() == http.StatusTooManyRequests || strings.Contains(resp.String(), "Quota Exceeded")
}
