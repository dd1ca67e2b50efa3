package common

import (
	"fmt"
	"io"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"

	"github.com/quarrydb/native-connector-go/app/api"
)

// AnnotateLoggerWithDataSourceInstance returns a logger carrying the
// coordinates of the data source instance the events relate to.
// Credentials are never logged.
func AnnotateLoggerWithDataSourceInstance(l *zap.Logger, dsi *api.DataSourceInstance) *zap.Logger {
	fields := []zapcore.Field{
		zap.String("data_source_kind", string(dsi.Kind)),
	}

	if dsi.Database != "" {
		fields = append(fields, zap.String("database", dsi.Database))
	}

	if dsi.Endpoint.Host != "" {
		fields = append(
			fields,
			zap.String("host", dsi.Endpoint.Host),
			zap.Uint32("port", dsi.Endpoint.Port),
		)
	}

	if dsi.Schema != "" {
		fields = append(fields, zap.String("schema", dsi.Schema))
	}

	return l.With(fields...)
}

func AnnotateLoggerWithTableName(l *zap.Logger, name api.SchemaTableName) *zap.Logger {
	return l.With(
		zap.String("schema_name", name.SchemaName),
		zap.String("table_name", name.TableName),
	)
}

func LogCloserError(logger *zap.Logger, closer io.Closer, msg string) {
	if err := closer.Close(); err != nil {
		logger.Error(msg, zap.Error(err))
	}
}

type LoggerConfig interface {
	GetLogLevel() string
	GetEnableSQLQueryLogging() bool
}

func NewLoggerFromConfig(cfg LoggerConfig) (*zap.Logger, error) {
	if cfg == nil {
		return NewDefaultLogger(), nil
	}

	level, err := zapcore.ParseLevel(cfg.GetLogLevel())
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}

	loggerCfg := newDefaultLoggerConfig()
	loggerCfg.Level.SetLevel(level)

	zapLogger, err := loggerCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("new logger: %w", err)
	}

	return zapLogger, nil
}

func NewDefaultLogger() *zap.Logger {
	f := func() (*zap.Logger, error) {
		loggerCfg := newDefaultLoggerConfig()

		zapLogger, err := loggerCfg.Build()
		if err != nil {
			return nil, fmt.Errorf("new logger: %w", err)
		}

		return zapLogger, nil
	}

	return zap.Must(f())
}

func newDefaultLoggerConfig() zap.Config {
	loggerCfg := zap.NewProductionConfig()
	loggerCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	loggerCfg.Encoding = "console"
	loggerCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	loggerCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	loggerCfg.DisableStacktrace = true
	loggerCfg.Sampling = nil

	return loggerCfg
}

func NewTestLogger(t *testing.T) *zap.Logger { return zaptest.NewLogger(t) }

// QueryLogger dumps query text sent to external data sources
// when SQL query logging is enabled.
type QueryLogger struct {
	*zap.Logger
	enabled bool
}

func (ql *QueryLogger) Dump(query string, args ...any) {
	if !ql.enabled {
		return
	}

	logFields := []zap.Field{zap.String("query", query)}
	if len(args) > 0 {
		logFields = append(logFields, zap.Any("args", args))
	}

	ql.Info("execute SQL query", logFields...)
}

type QueryLoggerFactory struct {
	enabled bool
}

func NewQueryLoggerFactory(cfg LoggerConfig) QueryLoggerFactory {
	enabled := cfg != nil && cfg.GetEnableSQLQueryLogging()

	return QueryLoggerFactory{enabled: enabled}
}

func (f *QueryLoggerFactory) Make(logger *zap.Logger) QueryLogger {
	return QueryLogger{Logger: logger, enabled: f.enabled}
}
