package main

import (
	"context"
	"fmt"
	"os"
	"sync"

	"simlaunch/internal/logging"
)

// watchSignals returns a context cancelled by the first value on signalCh,
// with the signal as its cause. Later signals are logged once and dropped so
// a start rollback or shutdown in progress can finish. release ends the watch
// and cancels the context.
func watchSignals(parent context.Context, logger *logging.Logger, signalCh <-chan os.Signal) (context.Context, func()) {
	ctx, cancel := context.WithCancelCause(parent)
	if signalCh == nil {
		return ctx, func() { cancel(nil) }
	}

	done := make(chan struct{})
	go func() {
		received := false
		loggedRepeat := false
		for {
			select {
			case <-done:
				return
			case sig, ok := <-signalCh:
				if !ok {
					return
				}
				name := "signal"
				if sig != nil {
					name = sig.String()
				}
				fields := map[string]string{"signal": name}
				if !received {
					received = true
					cancel(fmt.Errorf("received %s", name))
					logger.Info("shutdown signal received", fields)
					continue
				}
				if !loggedRepeat {
					loggedRepeat = true
					logger.Info("shutdown already in progress; ignoring signal", fields)
				}
			}
		}
	}()

	var once sync.Once
	return ctx, func() {
		once.Do(func() {
			close(done)
			cancel(nil)
		})
	}
}
