package metrics

import (
	"expvar"
	"time"

	"github.com/paulbellamy/ratecounter"
)

const (
	alertsRaisedKey        = "handler_alerts_raised"
	handlersOpenKey        = "handlers_open"
	handlerElapsedAvgUsKey = "handler_elapsed_avg_us"
)

var (
	alertsRaised      = newSimpleMetric(alertsRaisedKey)
	handlersOpen      = expvar.NewInt(prefixed(handlersOpenKey))
	handlerElapsedAvg = ratecounter.NewAvgRateCounter(60 * time.Second)
	handlerElapsedUs  = expvar.NewFloat(prefixed(handlerElapsedAvgUsKey))
)

func IncrAlertsRaised() {
	alertsRaised.Incr()
}

func AlertsRaised() int64 {
	return alertsRaised.Value()
}

// IncrHandlersOpen and DecrHandlersOpen track handlers holding acquired resources.
func IncrHandlersOpen() {
	handlersOpen.Add(1)
}

func DecrHandlersOpen() {
	handlersOpen.Add(-1)
}

func HandlersOpen() int64 {
	return handlersOpen.Value()
}

// ObserveHandlerElapsed runs cb and records how long it took.
func ObserveHandlerElapsed(cb func()) {
	startTime := time.Now()
	cb()

	handlerElapsedAvg.Incr(int64(time.Since(startTime) / time.Microsecond))
	handlerElapsedUs.Set(handlerElapsedAvg.Rate())
}
