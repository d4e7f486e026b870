package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCollectorRecords(t *testing.T) {
	c := NewCollector()

	c.RecordHTTPRequest("/api/sol-price", "GET", 200, 15*time.Millisecond)
	c.RecordHTTPRequest("/api/sol-price", "GET", 200, 20*time.Millisecond)
	c.RecordUpstream("kraken", "ticker", 30*time.Millisecond, nil)
	c.RecordUpstream("kraken", "ticker", 30*time.Millisecond, errors.New("boom"))
	c.RecordCacheLookup("pumpfun", true)
	c.RecordCacheLookup("pumpfun", false)
	c.RecordCacheLookup("pumpfun", false)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.httpRequests.WithLabelValues("/api/sol-price", "GET", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.upstreamErrors.WithLabelValues("kraken", "ticker")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.cacheLookups.WithLabelValues("pumpfun", "hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.cacheLookups.WithLabelValues("pumpfun", "miss")))

	c.Reset()
	assert.Equal(t, 0.0, testutil.ToFloat64(c.cacheLookups.WithLabelValues("pumpfun", "miss")))
}

func TestNilCollectorIsSafe(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() {
		c.RecordHTTPRequest("/", "GET", 200, time.Millisecond)
		c.RecordUpstream("helius", "getAsset", time.Millisecond, nil)
		c.RecordCacheLookup("x", true)
		c.Reset()
	})
	assert.Nil(t, c.Registry())
}

func TestCollectorsAreIndependent(t *testing.T) {
	// Отдельные реестры не конфликтуют при повторной регистрации
	a := NewCollector()
	b := NewCollector()
	a.RecordCacheLookup("c", true)
	assert.Equal(t, 0.0, testutil.ToFloat64(b.cacheLookups.WithLabelValues("c", "hit")))
}
