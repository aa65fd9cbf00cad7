package client

import (
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// quotaCooldown blocks upstream requests for a fixed period after the site reports
// that the request quota is spent.
type quotaCooldown struct {
	mu     sync.Mutex
	period time.Duration
	until  time.Time
	now    func() time.Time
}

func newQuotaCooldown(period time.Duration) *quotaCooldown {
	return &quotaCooldown{period: period, now: time.Now}
}

// wait returns how long requests stay blocked. Zero means requests may proceed.
func (q *quotaCooldown) wait() time.Duration {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.until.IsZero() {
		return 0
	}
	if left := q.until.Sub(q.now()); left > 0 {
		return left
	}

	q.until = time.Time{}
	log.Infof("✅ Quota cooldown over, resuming inventory requests")
	return 0
}

// start blocks requests for the configured period, counted from now.
func (q *quotaCooldown) start() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.until = q.now().Add(q.period)
	log.Warnf("🚫 Inventory quota spent, pausing requests until %s", q.until.Format("15:04:05"))
}
