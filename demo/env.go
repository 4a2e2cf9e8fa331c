package demo

import (
	"math/rand"
	"time"

	"github.com/BeameryHQ/async-callbacks/handlers"
	"github.com/BeameryHQ/async-callbacks/logging"
	"github.com/BeameryHQ/async-callbacks/stream"
	"github.com/sirupsen/logrus"
)

// Env is what every demo runs against.
type Env struct {
	Source    stream.Source
	Console   *handlers.Console
	Rand      *rand.Rand
	// used as is, zero included, config.FromEnv supplies the default
	Threshold int
	// optional, see handlers.WithAlertLog
	AlertLog  string
	Logger    *logrus.Entry
}

func (e *Env) logger() *logrus.Entry {
	if e.Logger == nil {
		e.Logger = logging.ForComponent("demo")
	}
	return e.Logger
}

// NewRand returns the random source handed to the demos. A zero seed means
// seeding from the clock.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UTC().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}
