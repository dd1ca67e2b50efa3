package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/quarrydb/native-connector-go/app/server/config"
)

const shutdownTimeout = 5 * time.Second

type serviceMetrics struct {
	httpServer *http.Server
	logger     *zap.Logger
}

func (s *serviceMetrics) Start() error {
	s.logger.Info("starting HTTP server", zap.String("address", s.httpServer.Addr))

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http metrics server listen and serve: %w", err)
	}

	return nil
}

func (s *serviceMetrics) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("shutdown http metrics server", zap.Error(err))
	}
}

func newServiceMetrics(
	logger *zap.Logger,
	cfg *config.EndpointConfig,
	registry *prometheus.Registry,
) service {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))

	httpServer := &http.Server{
		Addr:    cfg.String(),
		Handler: mux,
	}

	return &serviceMetrics{
		httpServer: httpServer,
		logger:     logger,
	}
}
