package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/pprof"

	"go.uber.org/zap"

	"github.com/quarrydb/native-connector-go/app/server/config"
)

type servicePprof struct {
	httpServer *http.Server
	logger     *zap.Logger
}

func (s *servicePprof) Start() error {
	s.logger.Info("starting HTTP server", zap.String("address", s.httpServer.Addr))

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("pprof server listen and serve: %w", err)
	}

	return nil
}

func (s *servicePprof) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := s.httpServer.Shutdown(ctx)
	if err != nil && !errors.Is(err, ctx.Err()) {
		s.logger.Error("shutdown http server", zap.Error(err))
	}
}

func newServicePprof(logger *zap.Logger, cfg *config.EndpointConfig) service {
	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	httpServer := &http.Server{
		Addr:    cfg.String(),
		Handler: mux,
	}

	return &servicePprof{
		httpServer: httpServer,
		logger:     logger,
	}
}
