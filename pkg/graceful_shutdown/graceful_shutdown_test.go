package graceful_shutdown_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Stefan-Allen/fileconverter/pkg/graceful_shutdown"
)

func TestGracefulShutdown_FailureRunsCloseFuncs(t *testing.T) {
	gfl := graceful_shutdown.NewGracefulShutdown(context.Background(), graceful_shutdown.WithTimeout(time.Second))

	closed := make(chan struct{})
	gfl.MustClose(func(ctx context.Context) error {
		if ctx.Err() != nil {
			t.Errorf("close ctx already done: %v", ctx.Err())
		}
		close(closed)
		return nil
	})

	workerStopped := make(chan struct{})
	gfl.Go(func() error {
		<-gfl.Context().Done()
		close(workerStopped)
		return nil
	})

	gfl.Go(func() error { return errors.New("boom") })

	err := gfl.Wait()
	if err == nil || err.Error() != "boom" {
		t.Fatalf("expected boom, got %v", err)
	}

	select {
	case <-closed:
	default:
		t.Fatalf("close func did not run")
	}
	select {
	case <-workerStopped:
	default:
		t.Fatalf("worker did not observe shutdown")
	}
}

func TestGracefulShutdown_CloseErrorsReported(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	gfl := graceful_shutdown.NewGracefulShutdown(ctx)

	gfl.MustClose(func(context.Context) error { return errors.New("disk gone") })
	cancel()

	err := gfl.Wait()
	if err == nil || !strings.Contains(err.Error(), "disk gone") {
		t.Fatalf("expected close error, got %v", err)
	}
}

func TestGracefulShutdown_PanicRecovered(t *testing.T) {
	gfl := graceful_shutdown.NewGracefulShutdown(context.Background())

	gfl.Go(func() error { panic("oops") })

	err := gfl.Wait()
	if err == nil || !strings.Contains(err.Error(), "oops") {
		t.Fatalf("expected recovered panic, got %v", err)
	}
}
