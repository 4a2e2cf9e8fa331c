package stream

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/BeameryHQ/async-callbacks/logging"
	"github.com/BeameryHQ/async-callbacks/metrics"
	"github.com/cenkalti/backoff"
	"github.com/sirupsen/logrus"
)

const (
	DefaultPrompt        = "Enter the next integer (0 for exit): "
	defaultInputAttempts = 3
)

type consoleConfig struct {
	prompt   string
	attempts int
}

type ConsoleOption func(config *consoleConfig)

func WithPrompt(prompt string) ConsoleOption {
	return func(config *consoleConfig) {
		config.prompt = prompt
	}
}

// WithInputAttempts bounds how many malformed tokens are tolerated per value.
func WithInputAttempts(attempts int) ConsoleOption {
	return func(config *consoleConfig) {
		if attempts > 0 {
			config.attempts = attempts
		}
	}
}

// ConsoleSource reads whitespace separated integers, prompting before each one.
type ConsoleSource struct {
	config  *consoleConfig
	scanner *bufio.Scanner
	out     io.Writer
	logger  *logrus.Entry
}

func NewConsoleSource(in io.Reader, out io.Writer, opts ...ConsoleOption) *ConsoleSource {
	config := &consoleConfig{
		prompt:   DefaultPrompt,
		attempts: defaultInputAttempts,
	}
	for _, o := range opts {
		o(config)
	}

	scanner := bufio.NewScanner(in)
	scanner.Split(bufio.ScanWords)

	return &ConsoleSource{
		config:  config,
		scanner: scanner,
		out:     out,
		logger:  logging.ForComponent("console"),
	}
}

func (c *ConsoleSource) Next(ctx context.Context) (int, error) {
	var (
		value   int
		readErr error
	)

	op := func() error {
		n, err := c.readOne()
		if err != nil {
			if IsInputError(err) {
				return err
			}
			// EOF and scanner failures aren't worth another prompt
			readErr = err
			return nil
		}
		value = n
		return nil
	}

	notify := func(err error, _ time.Duration) {
		metrics.IncrInputRejected()
		c.logger.Warnf("rejected input, asking again : %v", err)
	}

	b := backoff.WithContext(
		backoff.WithMaxRetries(&backoff.ZeroBackOff{}, uint64(c.config.attempts-1)),
		ctx,
	)
	if err := backoff.RetryNotify(op, b, notify); err != nil {
		if IsInputError(err) {
			metrics.IncrInputRejected()
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return 0, ctxErr
		}
		return 0, err
	}
	if readErr != nil {
		return 0, readErr
	}

	return value, nil
}

func (c *ConsoleSource) readOne() (int, error) {
	if c.out != nil && c.config.prompt != "" {
		fmt.Fprint(c.out, c.config.prompt)
	}

	if !c.scanner.Scan() {
		if err := c.scanner.Err(); err != nil {
			return 0, fmt.Errorf("reading console input : %w", err)
		}
		return 0, ErrSourceClosed
	}

	return parseValue(c.scanner.Text())
}
