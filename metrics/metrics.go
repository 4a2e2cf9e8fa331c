package metrics

import (
	"expvar"
	"os"
	"sync"
	"time"

	"github.com/paulbellamy/ratecounter"
)

const (
	metricsMapKey    = "callbacks.metrics."
	metricsPrefixEnv = "METRICS_PREFIX"
	metricsPerSec    = "_per_sec"
	metricsPerMin    = "_per_min"
	metricsCount     = "_count"
)

var once sync.Once
var prefixName string

func initPrefix() {
	prefixName = metricsMapKey
	prefix := os.Getenv(metricsPrefixEnv)
	if prefix != "" {
		prefixName = prefix + "." + prefixName
	}
}

func prefixed(name string) string {
	once.Do(initPrefix)
	return prefixName + name
}

type simpleMetric struct {
	rate       *ratecounter.RateCounter
	counter    *expvar.Int
	perSecRate *expvar.Int
	name       string
}

func newSimpleMetric(name string) *simpleMetric {
	s := &simpleMetric{
		name:       name,
		rate:       ratecounter.NewRateCounter(time.Minute),
		counter:    expvar.NewInt(prefixed(name + metricsCount)),
		perSecRate: expvar.NewInt(prefixed(name + metricsPerSec)),
	}

	expvar.Publish(prefixed(name+metricsPerMin), s.rate)

	go func() {
		ticker := time.NewTicker(time.Second * 5).C
		for range ticker {
			s.perSecRate.Set(s.rate.Rate() / 60)
		}
	}()

	return s
}

func (s *simpleMetric) Incr() {
	s.rate.Incr(1)
	s.counter.Add(1)
}

func (s *simpleMetric) Value() int64 {
	return s.counter.Value()
}
