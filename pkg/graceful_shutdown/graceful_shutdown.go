package graceful_shutdown

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
)

const defaultShutdownTimeout = 30 * time.Second

type closeFunc func(ctx context.Context) error

type GracefulShutdown struct {
	mu         sync.Mutex
	ctx        context.Context
	errGroup   *errgroup.Group
	closeFuncs []closeFunc
	timeout    time.Duration
}

type Option func(*GracefulShutdown)

// WithTimeout bounds how long the registered close funcs may run.
func WithTimeout(d time.Duration) Option {
	return func(g *GracefulShutdown) {
		if d > 0 {
			g.timeout = d
		}
	}
}

func NewGracefulShutdown(parentCtx context.Context, options ...Option) *GracefulShutdown {
	g, ctx := errgroup.WithContext(parentCtx)
	gfl := &GracefulShutdown{
		ctx:      ctx,
		errGroup: g,
		timeout:  defaultShutdownTimeout,
	}

	for _, opt := range options {
		opt(gfl)
	}

	gfl.Go(gfl.listenerOS)
	gfl.Go(gfl.killer)

	return gfl
}

// Context is done once any goroutine fails, a signal arrives or the parent
// is canceled. Long running workers should stop on it.
func (g *GracefulShutdown) Context() context.Context {
	return g.ctx
}

func (g *GracefulShutdown) Go(foo func() error) {
	g.errGroup.Go(func() (err error) {
		defer func() {
			if errPanic := recover(); errPanic != nil {
				err = fmt.Errorf("panic in graceful shutdown: %v", errPanic)
				slog.Error("panic in graceful shutdown", "error", err)
			}
		}()

		return foo()
	})
}

func (g *GracefulShutdown) Wait() error {
	err := g.errGroup.Wait()
	if err != nil {
		slog.Error("error in graceful shutdown", "error", err)
	}
	return err
}

func (g *GracefulShutdown) MustClose(f closeFunc) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.closeFuncs = append(g.closeFuncs, f)
}

func (g *GracefulShutdown) listenerOS() error {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	defer signal.Stop(ch)

	select {
	case <-g.ctx.Done():
		return nil
	case signalFromOS := <-ch:
		slog.Info("received signal from OS", "signal", signalFromOS)
		return errors.New("received signal from OS: " + signalFromOS.String())
	}
}

func (g *GracefulShutdown) killer() error {
	<-g.ctx.Done()

	ctx, cancelTimeout := context.WithTimeout(context.Background(), g.timeout)
	defer cancelTimeout()

	return g.close(ctx)
}

func (g *GracefulShutdown) close(ctx context.Context) error {
	g.mu.Lock()
	funcs := append([]closeFunc(nil), g.closeFuncs...)
	g.mu.Unlock()

	closeErrMessages := make([]string, 0, len(funcs))
	complete := make(chan struct{})

	go func() {
		defer close(complete)
		for _, closeFunc := range funcs {
			if err := closeFunc(ctx); err != nil {
				closeErrMessages = append(closeErrMessages, fmt.Sprintf("error closing: %v", err))
			}
		}
	}()

	select {
	case <-complete:
	case <-ctx.Done():
		return fmt.Errorf("timeout closing")
	}

	if len(closeErrMessages) > 0 {
		return fmt.Errorf("errors closing: %v", strings.Join(closeErrMessages, ", "))
	}

	return nil
}
