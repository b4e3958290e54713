package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/yaklabco/mdtree/internal/logging"
	"github.com/yaklabco/mdtree/pkg/metrics"
)

const shutdownTimeout = 5 * time.Second

// newRecorder returns a Prometheus recorder and its registry when addr is
// set, and a no-op recorder otherwise.
func newRecorder(addr string) (metrics.Recorder, *prom.Registry) {
	if addr == "" {
		return metrics.NoopRecorder{}, nil
	}
	reg := metrics.NewRegistry()
	return metrics.NewPrometheusRecorder(reg), reg
}

// serveMetrics serves reg on addr until ctx is done.
func serveMetrics(ctx context.Context, addr string, reg *prom.Registry, logger *log.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.HTTPHandler(reg))

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}

	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx) //nolint:contextcheck // parent is already done
	}()

	logger.Info("serving metrics", logging.FieldAddr, listener.Addr().String())
	if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("metrics server: %w", err)
	}
	return nil
}
