package metrics

const (
	dispatchedKey    = "loop_values_dispatched"
	sentinelKey      = "loop_sentinels_seen"
	rejectedKey      = "loop_input_rejected"
	loopsFinishedKey = "loop_runs_finished"
	loopsFailedKey   = "loop_runs_failed"
)

var (
	valuesDispatched = newSimpleMetric(dispatchedKey)
	sentinelsSeen    = newSimpleMetric(sentinelKey)
	inputRejected    = newSimpleMetric(rejectedKey)
	loopsFinished    = newSimpleMetric(loopsFinishedKey)
	loopsFailed      = newSimpleMetric(loopsFailedKey)
)

func IncrValuesDispatched() {
	valuesDispatched.Incr()
}

func IncrSentinelsSeen() {
	sentinelsSeen.Incr()
}

func IncrInputRejected() {
	inputRejected.Incr()
}

func IncrLoopsFinished() {
	loopsFinished.Incr()
}

func IncrLoopsFailed() {
	loopsFailed.Incr()
}

func ValuesDispatched() int64 {
	return valuesDispatched.Value()
}

func InputRejected() int64 {
	return inputRejected.Value()
}
