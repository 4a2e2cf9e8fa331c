package handlers

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/BeameryHQ/async-callbacks/logging"
	"github.com/BeameryHQ/async-callbacks/metrics"
	"github.com/satori/go.uuid"
	"github.com/sirupsen/logrus"
)

type thresholdConfig struct {
	console  *Console
	alertLog string
	logger   *logrus.Entry
}

type ThresholdOption func(config *thresholdConfig)

func WithConsole(c *Console) ThresholdOption {
	return func(config *thresholdConfig) {
		config.console = c
	}
}

// WithAlertLog appends every alert to the file at path for the handler's lifetime.
func WithAlertLog(path string) ThresholdOption {
	return func(config *thresholdConfig) {
		config.alertLog = path
	}
}

func WithHandlerLogger(logger *logrus.Entry) ThresholdOption {
	return func(config *thresholdConfig) {
		config.logger = logger
	}
}

// ThresholdHandler raises an alert for every value above its threshold.
// It owns the resources it acquires in NewThresholdHandler until Close.
type ThresholdHandler struct {
	id        string
	threshold int
	console   *Console
	logger    *logrus.Entry
	alertLog  *os.File

	mu     sync.Mutex
	alerts int
	closed bool
}

func NewThresholdHandler(threshold int, opts ...ThresholdOption) (*ThresholdHandler, error) {
	config := &thresholdConfig{}
	for _, o := range opts {
		o(config)
	}
	if config.console == nil {
		config.console = Stdout()
	}

	id := uuid.NewV4().String()
	logger := config.logger
	if logger == nil {
		logger = logging.ForComponent("threshold-handler")
	}
	logger = logger.WithFields(logrus.Fields{
		"handlerId": id,
		"threshold": threshold,
	})

	h := &ThresholdHandler{
		id:        id,
		threshold: threshold,
		console:   config.console,
		logger:    logger,
	}

	if config.alertLog != "" {
		f, err := os.OpenFile(config.alertLog, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("opening alert log %s : %w", config.alertLog, err)
		}
		h.alertLog = f
	}

	metrics.IncrHandlersOpen()
	h.logger.Debug("handler acquired")
	return h, nil
}

func (h *ThresholdHandler) Handle(value int) {
	if value <= h.threshold {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		h.logger.Warnf("value %d handled after close, ignoring", value)
		return
	}

	h.alerts++
	metrics.IncrAlertsRaised()
	h.console.RaiseAlert()

	if h.alertLog != nil {
		_, err := fmt.Fprintf(h.alertLog, "%s handler=%s threshold=%d value=%d\n",
			time.Now().UTC().Format(time.RFC3339), h.id, h.threshold, value)
		if err != nil {
			h.logger.Errorf("writing alert log failed : %v", err)
		}
	}
}

func (h *ThresholdHandler) Threshold() int {
	return h.threshold
}

func (h *ThresholdHandler) ID() string {
	return h.id
}

// Alerts is the number of alerts raised so far.
func (h *ThresholdHandler) Alerts() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.alerts
}

// Close releases the handler's resources. Calling it again is a no-op.
func (h *ThresholdHandler) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}
	h.closed = true
	metrics.DecrHandlersOpen()

	var err error
	if h.alertLog != nil {
		err = h.alertLog.Close()
	}
	h.logger.Debugf("handler released after %d alerts", h.alerts)
	return err
}

// WithThresholdHandler builds a handler, passes it to fn and releases it on
// every way out of fn, panics included.
func WithThresholdHandler(threshold int, fn func(h *ThresholdHandler) error, opts ...ThresholdOption) (err error) {
	h, err := NewThresholdHandler(threshold, opts...)
	if err != nil {
		return err
	}
	defer func() {
		if cErr := h.Close(); cErr != nil && err == nil {
			err = cErr
		}
	}()

	return fn(h)
}
