package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"scribe/internal/logging"
)

// watchSignals routes SIGINT to Interrupt so Ctrl-C cancels the current
// read or turn instead of ending the process. SIGTERM and SIGQUIT cancel
// the session through quit. The returned function stops watching.
func (a *App) watchSignals(ctx context.Context, quit context.CancelFunc) func() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for {
			select {
			case sig := <-sigChan:
				logging.Debug("received signal", "signal", sig)
				if sig == os.Interrupt {
					a.Interrupt()
					continue
				}
				logging.Debug("shutting down session")
				quit()
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return func() {
		signal.Stop(sigChan)
		cancel()
		<-done
	}
}
