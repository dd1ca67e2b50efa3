package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/quarrydb/native-connector-go/app/server/config"
	"github.com/quarrydb/native-connector-go/app/server/datasource/native"
	"github.com/quarrydb/native-connector-go/app/server/datasource/rdbms"
	"github.com/quarrydb/native-connector-go/app/server/httpapi"
	"github.com/quarrydb/native-connector-go/app/server/metastore"
	"github.com/quarrydb/native-connector-go/common"
)

type service interface {
	Start() error
	Stop()
}

// Launcher runs the connector services and stops them together.
type Launcher struct {
	services map[string]service
	logger   *zap.Logger
}

func (l *Launcher) Start() <-chan error {
	errChan := make(chan error, len(l.services))

	for key := range l.services {
		go func(key string) {
			l.logger.Info("starting service", zap.String("service", key))

			// blocking call
			errChan <- l.services[key].Start()
		}(key)
	}

	return errChan
}

func (l *Launcher) Stop() {
	for key, s := range l.services {
		l.logger.Info("stopping service", zap.String("service", key))
		s.Stop()
	}
}

const (
	apiServiceKey   = "api"
	pprofServiceKey = "pprof"
	metricsKey      = "metrics"

	metastoreInitTimeout = time.Minute
)

func NewLauncher(logger *zap.Logger, cfg *config.ServerConfig) (*Launcher, error) {
	l := &Launcher{
		services: make(map[string]service, 3),
		logger:   logger,
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	db, err := newMetastoreDB(cfg.Metastore)
	if err != nil {
		return nil, fmt.Errorf("new metastore database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), metastoreInitTimeout)
	defer cancel()

	metastoreLogger := logger.With(zap.String("component", "metastore"))

	shards := metastore.NewShardManager(metastoreLogger, db)

	metadata, err := metastore.NewMetadata(ctx, metastoreLogger, db, cfg.Metastore.ConnectorID, shards)
	if err != nil {
		return nil, fmt.Errorf("new metadata manager: %w", err)
	}

	queryLoggerFactory := common.NewQueryLoggerFactory(cfg.Logger)

	sources := &dataSourceCollection{
		native: native.NewDataSource(logger, metadata),
		rdbms:  rdbms.NewDataSourceFactory(cfg.Datasources, queryLoggerFactory),
	}

	l.services[apiServiceKey] = httpapi.NewService(
		logger.With(zap.String("service", apiServiceKey)),
		cfg.APIEndpoint.String(),
		metadata,
		sources,
		registry,
	)

	if cfg.MetricsEndpoint != nil {
		l.services[metricsKey] = newServiceMetrics(
			logger.With(zap.String("service", metricsKey)),
			cfg.MetricsEndpoint, registry)
	}

	if cfg.PprofEndpoint != nil {
		l.services[pprofServiceKey] = newServicePprof(
			logger.With(zap.String("service", pprofServiceKey)),
			cfg.PprofEndpoint)
	}

	return l, nil
}

func startLauncherAndWaitForSignalOrError(logger *zap.Logger, l *Launcher) {
	errChan := l.Start()

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		logger.Error("service fatal error", zap.Error(err))
	case sig := <-signalChan:
		logger.Info("interrupting signal", zap.Any("value", sig))
	}

	l.Stop()
}
