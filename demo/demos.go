package demo

import (
	"context"
	"errors"
	"fmt"

	"github.com/BeameryHQ/async-callbacks/handlers"
	"github.com/BeameryHQ/async-callbacks/stream"
	"github.com/sirupsen/logrus"
)

type Demo struct {
	Name string
	Run  func(ctx context.Context, env *Env) error
}

// All lists the demos in the order they build on each other.
func All() []Demo {
	return []Demo{
		{Name: "hardcoded handler", Run: HardcodedHandler},
		{Name: "handler set at runtime", Run: HandlerSetInRuntime},
		{Name: "functor", Run: Functor},
		{Name: "handler passed as an argument", Run: HandlerPassedAsArgument},
		{Name: "handler is a closure", Run: HandlerIsLambda},
		{Name: "closures", Run: Lambda},
		{Name: "predicate", Run: Predicate},
		{Name: "closure as predicate", Run: LambdaAsPredicate},
	}
}

// RunAll runs demos in order. A source that runs dry only ends the current demo.
func RunAll(ctx context.Context, env *Env, demos []Demo) error {
	for _, d := range demos {
		logger := env.logger().WithFields(logrus.Fields{"demo": d.Name})
		logger.Info("running demo")
		env.Console.Printf("# %s\n", d.Name)

		err := d.Run(ctx, env)
		if err == nil {
			continue
		}
		if errors.Is(err, stream.ErrSourceClosed) {
			logger.Warnf("demo ended early : %v", err)
			continue
		}
		return fmt.Errorf("demo %s : %w", d.Name, err)
	}
	return nil
}

// HardcodedHandler keeps the alert logic inside the loop.
func HardcodedHandler(ctx context.Context, env *Env) error {
	for {
		n, err := env.Source.Next(ctx)
		if err != nil {
			return err
		}
		if n > env.Threshold {
			env.Console.RaiseAlert()
		}
		if n == stream.DefaultSentinel {
			return nil
		}
	}
}

func selectHandler(env *Env) (stream.Handler, error) {
	s, err := handlers.NewSelector(map[string]stream.Handler{
		"alert": env.Console.AlertAbove(env.Threshold),
		"print": stream.HandlerFunc(env.Console.Print),
	})
	if err != nil {
		return nil, err
	}

	name, h, err := s.Select(env.Rand)
	if err != nil {
		return nil, err
	}
	env.logger().Infof("selected the %s handler", name)
	return h, nil
}

// HandlerSetInRuntime picks the handler at startup and calls it from the loop.
func HandlerSetInRuntime(ctx context.Context, env *Env) error {
	h, err := selectHandler(env)
	if err != nil {
		return err
	}

	for {
		n, err := env.Source.Next(ctx)
		if err != nil {
			return err
		}
		h.Handle(n)
		if n == stream.DefaultSentinel {
			return nil
		}
	}
}

// Functor uses a handler that carries its threshold and owns resources for
// the duration of the loop.
func Functor(ctx context.Context, env *Env) error {
	opts := []handlers.ThresholdOption{
		handlers.WithConsole(env.Console),
		handlers.WithHandlerLogger(env.logger()),
	}
	if env.AlertLog != "" {
		opts = append(opts, handlers.WithAlertLog(env.AlertLog))
	}

	return handlers.WithThresholdHandler(env.Threshold, func(h *handlers.ThresholdHandler) error {
		return stream.RunEventLoop(ctx, env.Source, h, stream.WithLogger(env.logger()))
	}, opts...)
}

// HandlerPassedAsArgument hands the selected handler over to the event loop.
func HandlerPassedAsArgument(ctx context.Context, env *Env) error {
	h, err := selectHandler(env)
	if err != nil {
		return err
	}
	return stream.RunEventLoop(ctx, env.Source, h, stream.WithLogger(env.logger()))
}

// HandlerIsLambda builds the handler where it is used.
func HandlerIsLambda(ctx context.Context, env *Env) error {
	return stream.RunEventLoop(ctx, env.Source, stream.HandlerFunc(func(n int) {
		env.Console.Printf("New value: %d\n", n)
	}), stream.WithLogger(env.logger()))
}
