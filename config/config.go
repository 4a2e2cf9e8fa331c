package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	SourceConsole = "console"
	SourceEtcd    = "etcd"

	defaultEtcdServer    = "localhost:2379"
	defaultPath          = "/callbacks/values"
	defaultThreshold     = 50
	defaultInputAttempts = 3
)

// Configuration of the demo runner. Every field can be set from the environment.
type Configuration struct {
	Source         string `validate:"required" yaml:"Source"`
	EtcdServer     string `yaml:"EtcdServer"`
	Path           string `yaml:"Path"`
	AlertThreshold int    `yaml:"AlertThreshold"`
	// optional, alerts are also appended to this file when set
	AlertLog       string `yaml:"AlertLog"`
	Seed           int64  `yaml:"Seed"`
	DebugPort      string `yaml:"DebugPort"`
	InputAttempts  int    `yaml:"InputAttempts"`
	Replay         bool   `yaml:"Replay"`
}

// FromEnv reads the configuration with getenv, usually os.Getenv.
func FromEnv(getenv func(string) string) (*Configuration, error) {
	if getenv == nil {
		getenv = os.Getenv
	}

	c := &Configuration{
		Source:     strings.ToLower(strings.TrimSpace(getenv("CALLBACKS_SOURCE"))),
		EtcdServer: getenv("ETCD_SERVER"),
		Path:       getenv("CALLBACKS_PATH"),
		AlertLog:   getenv("ALERT_LOG"),
		DebugPort:  getenv("DEBUG_PORT"),
	}

	var err error
	if c.AlertThreshold, err = intFromEnv(getenv, "ALERT_THRESHOLD", defaultThreshold); err != nil {
		return nil, err
	}
	if c.InputAttempts, err = intFromEnv(getenv, "INPUT_ATTEMPTS", 0); err != nil {
		return nil, err
	}

	if seed := getenv("CALLBACKS_SEED"); seed != "" {
		c.Seed, err = strconv.ParseInt(seed, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("CALLBACKS_SEED : %w", err)
		}
	}

	if replay := getenv("CALLBACKS_REPLAY"); replay != "" {
		c.Replay, err = strconv.ParseBool(replay)
		if err != nil {
			return nil, fmt.Errorf("CALLBACKS_REPLAY : %w", err)
		}
	}

	ApplyDefaults(c)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func ApplyDefaults(config *Configuration) {
	if config.Source == "" {
		config.Source = SourceConsole
	}

	if config.EtcdServer == "" {
		config.EtcdServer = defaultEtcdServer
	}

	if config.Path == "" {
		config.Path = defaultPath
	}

	if config.InputAttempts == 0 {
		config.InputAttempts = defaultInputAttempts
	}
}

func (c *Configuration) Validate() error {
	switch c.Source {
	case SourceConsole, SourceEtcd:
	default:
		return fmt.Errorf("unknown source %q, expected %s or %s", c.Source, SourceConsole, SourceEtcd)
	}

	if c.InputAttempts < 0 {
		return fmt.Errorf("INPUT_ATTEMPTS must be positive : %d", c.InputAttempts)
	}

	if c.Source == SourceEtcd && !strings.HasPrefix(c.Path, "/") {
		return fmt.Errorf("etcd path must be absolute : %s", c.Path)
	}

	return nil
}

func intFromEnv(getenv func(string) string, key string, def int) (int, error) {
	raw := strings.TrimSpace(getenv(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s : %w", key, err)
	}
	return v, nil
}
