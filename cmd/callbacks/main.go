package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/BeameryHQ/async-callbacks/config"
	"github.com/BeameryHQ/async-callbacks/demo"
	"github.com/BeameryHQ/async-callbacks/handlers"
	"github.com/BeameryHQ/async-callbacks/logging"
	"github.com/BeameryHQ/async-callbacks/stream"
	"github.com/davecgh/go-spew/spew"
	"go.etcd.io/etcd/clientv3"
)

func main() {
	logger := logging.ForComponent("main")

	cfg, err := config.FromEnv(os.Getenv)
	if err != nil {
		logger.Fatalf("loading configuration : %v", err)
	}
	logger.Debugf("configuration :\n%s", spew.Sdump(cfg))

	if cfg.DebugPort != "" {
		// expvar registers /debug/vars on the default mux
		go func() {
			if err := http.ListenAndServe(fmt.Sprintf(":%s", cfg.DebugPort), nil); err != nil {
				logger.Errorf("starting the debug server : %v", err)
			}
		}()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case s := <-sigs:
			logger.Warnf("got %s, stopping", s)
			cancel()
		case <-ctx.Done():
		}
	}()

	source, closeSource, err := newSource(cfg)
	if err != nil {
		logger.Fatalf("creating the value source : %v", err)
	}
	defer closeSource()

	env := &demo.Env{
		Source:    source,
		Console:   handlers.Stdout(),
		Rand:      demo.NewRand(cfg.Seed),
		Threshold: cfg.AlertThreshold,
		AlertLog:  cfg.AlertLog,
		Logger:    logging.ForComponent("demo"),
	}

	if err := demo.RunAll(ctx, env, demo.All()); err != nil {
		logger.Errorf("demos failed : %v", err)
		closeSource()
		os.Exit(1)
	}
}

func newSource(cfg *config.Configuration) (stream.Source, func(), error) {
	if cfg.Source == config.SourceConsole {
		src := stream.NewConsoleSource(
			os.Stdin,
			os.Stdout,
			stream.WithInputAttempts(cfg.InputAttempts),
		)
		return src, func() {}, nil
	}

	cli, err := clientv3.New(clientv3.Config{
		Endpoints:   []string{cfg.EtcdServer},
		DialTimeout: 5 * time.Second,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("etcd client creation failed : %w", err)
	}

	var opts []stream.EtcdSourceOption
	if cfg.Replay {
		opts = append(opts, stream.WithReplay())
	}
	src := stream.NewEtcdSource(cli, cfg.Path, opts...)

	return src, func() {
		src.Close()
		cli.Close()
	}, nil
}
