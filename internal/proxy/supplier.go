package proxy

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"resty.dev/v3"
)

const (
	maxParallelChecks = 16
	checkTimeout      = 5 * time.Second
)

// ProxySupplier hands out working proxies in round-robin order.
type ProxySupplier interface {
	Get() string
	Len() int
}

type proxySupplier struct {
	proxies []string
	current int
	mutex   sync.Mutex
}

// NewProxySupplier keeps only the proxies that can reach testURL, preserving their configured order.
func NewProxySupplier(ctx context.Context, proxies []string, testURL string) ProxySupplier {
	if len(proxies) == 0 {
		return &proxySupplier{}
	}

	log.Infof("🔄 Testing %d proxies...", len(proxies))

	working := make([]bool, len(proxies))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelChecks)
	for i, proxyURL := range proxies {
		i, proxyURL := i, proxyURL
		g.Go(func() error {
			working[i] = isProxyValid(gctx, proxyURL, testURL)
			return nil
		})
	}
	_ = g.Wait()

	valid := make([]string, 0, len(proxies))
	for i, ok := range working {
		if ok {
			valid = append(valid, proxies[i])
		}
	}

	log.Infof("✅ ProxySupplier initialized with %d working proxies out of %d tested", len(valid), len(proxies))
	return &proxySupplier{proxies: valid}
}

// Get returns the next proxy URL, or "" when none are available.
func (p *proxySupplier) Get() string {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if len(p.proxies) == 0 {
		return ""
	}

	proxy := p.proxies[p.current]
	p.current = (p.current + 1) % len(p.proxies)
	return proxy
}

func (p *proxySupplier) Len() int {
	return len(p.proxies)
}

func isProxyValid(ctx context.Context, proxyURL, testURL string) bool {
	client := resty.New().
		SetTimeout(checkTimeout).
		SetRetryCount(0).
		SetProxy(proxyURL)

	resp, err := client.R().
		SetContext(ctx).
		Get(testURL)
	if err != nil {
		log.Infof("❌ Proxy %s is not working: %v", proxyURL, err)
		return false
	}
	if resp.IsError() {
		log.Infof("❌ Proxy %s is not working, status: %s", proxyURL, resp.Status())
		return false
	}

	log.Debugf("✅ Proxy %s is working", proxyURL)
	return true
}
