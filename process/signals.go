package process

import (
	"log/slog"
	"os"
	"syscall"
)

var forwardedSignals = []os.Signal{syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP} //nolint:gochecknoglobals

func relay(proc *os.Process, sigs <-chan os.Signal, done <-chan struct{}) {
	for {
		select {
		case sig := <-sigs:
			slog.Warn("Received " + sig.String() + ", forwarding to child")

			if err := proc.Signal(sig); err != nil {
				slog.Debug("forwarding signal failed", "signal", sig.String(), "error", err)
			}
		case <-done:
			return
		}
	}
}
