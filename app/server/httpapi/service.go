// Package httpapi exposes the catalog and data source operations over a
// JSON HTTP API consumed by the engine coordinator.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/quarrydb/native-connector-go/app/api"
	"github.com/quarrydb/native-connector-go/app/server/datasource"
	"github.com/quarrydb/native-connector-go/common"
)

const shutdownTimeout = 5 * time.Second

// Metastore is the slice of the catalog surface the HTTP API exposes.
type Metastore interface {
	ListSchemaNames(ctx context.Context) ([]string, error)
	ListTables(ctx context.Context, schemaName string) ([]api.SchemaTableName, error)
	GetTableHandle(ctx context.Context, name api.SchemaTableName) (*api.TableHandle, error)
	GetTableMetadata(ctx context.Context, handle *api.TableHandle) (*api.TableMetadata, error)
	ListTableColumns(ctx context.Context, prefix api.SchemaTablePrefix) (map[api.SchemaTableName][]api.ColumnMetadata, error)
	CreateTable(ctx context.Context, meta *api.TableMetadata) (*api.TableHandle, error)
	DropTable(ctx context.Context, handle *api.TableHandle) error
	BeginCreateTable(meta *api.TableMetadata) (*api.OutputTableHandle, error)
	CommitCreateTable(ctx context.Context, handle *api.OutputTableHandle, fragments []string) (*api.TableHandle, error)
}

type Service struct {
	echo     *echo.Echo
	addr     string
	metadata Metastore
	sources  datasource.Factory
	logger   *zap.Logger
}

func NewService(
	logger *zap.Logger,
	addr string,
	metadata Metastore,
	sources datasource.Factory,
	registry *prometheus.Registry,
) *Service {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	s := &Service{
		echo:     e,
		addr:     addr,
		metadata: metadata,
		sources:  sources,
		logger:   logger,
	}

	e.Use(requestMetricsMiddleware(registry))

	e.GET("/healthz", s.health)

	v1 := e.Group("/v1")
	v1.GET("/schemas", s.listSchemas)
	v1.GET("/schemas/:schema/tables", s.listTables)
	v1.GET("/tables", s.listTableColumns)
	v1.POST("/tables", s.createTable)
	v1.GET("/tables/:schema/:table", s.getTable)
	v1.DELETE("/tables/:schema/:table", s.dropTable)
	v1.POST("/tables/begin-create", s.beginCreateTable)
	v1.POST("/tables/commit-create", s.commitCreateTable)
	v1.POST("/describe-table", s.describeTable)
	v1.POST("/list-splits", s.listSplits)
	v1.POST("/read-query", s.readQuery)

	return s
}

func (s *Service) Start() error {
	s.logger.Info("starting HTTP server", zap.String("address", s.addr))

	if err := s.echo.Start(s.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("api server listen and serve: %w", err)
	}

	return nil
}

func (s *Service) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.echo.Shutdown(ctx); err != nil && !errors.Is(err, ctx.Err()) {
		s.logger.Error("shutdown http server", zap.Error(err))
	}
}

func (s *Service) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

type errorResponse struct {
	Message string `json:"message"`
}

// writeError maps domain errors onto HTTP status codes.
func writeError(c echo.Context, err error) error {
	var status int

	switch {
	case errors.Is(err, common.ErrTableDoesNotExist),
		errors.Is(err, common.ErrColumnDoesNotExist):
		status = http.StatusNotFound
	case errors.Is(err, common.ErrTableAlreadyExists),
		errors.Is(err, common.ErrShardAlreadyCommitted):
		status = http.StatusConflict
	case errors.Is(err, common.ErrInvalidRequest),
		errors.Is(err, common.ErrInvalidFragment),
		errors.Is(err, common.ErrEmptyTableName),
		errors.Is(err, common.ErrTableHasNoColumns),
		errors.Is(err, common.ErrDataTypeNotSupported),
		errors.Is(err, common.ErrPredicateNotSupported):
		status = http.StatusBadRequest
	case errors.Is(err, common.ErrMethodNotSupported),
		errors.Is(err, common.ErrDataSourceNotSupported):
		status = http.StatusNotImplemented
	default:
		status = http.StatusInternalServerError
	}

	return c.JSON(status, errorResponse{Message: err.Error()})
}
