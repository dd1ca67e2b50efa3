package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/quarrydb/native-connector-go/app/api"
	"github.com/quarrydb/native-connector-go/app/server/datasource"
	"github.com/quarrydb/native-connector-go/common"
)

type stubMetastore struct {
	tables map[api.SchemaTableName]*api.TableMetadata
}

func (s *stubMetastore) ListSchemaNames(context.Context) ([]string, error) {
	return []string{"analytics", "staging"}, nil
}

func (s *stubMetastore) ListTables(_ context.Context, schemaName string) ([]api.SchemaTableName, error) {
	var names []api.SchemaTableName

	for name := range s.tables {
		if schemaName == "" || name.SchemaName == schemaName {
			names = append(names, name)
		}
	}

	return names, nil
}

func (s *stubMetastore) GetTableHandle(_ context.Context, name api.SchemaTableName) (*api.TableHandle, error) {
	if _, ok := s.tables[name]; !ok {
		return nil, fmt.Errorf("%s: %w", name, common.ErrTableDoesNotExist)
	}

	return &api.TableHandle{SchemaName: name.SchemaName, TableName: name.TableName, TableID: 1}, nil
}

func (s *stubMetastore) GetTableMetadata(_ context.Context, handle *api.TableHandle) (*api.TableMetadata, error) {
	return s.tables[handle.SchemaTableName()], nil
}

func (s *stubMetastore) ListTableColumns(
	context.Context,
	api.SchemaTablePrefix,
) (map[api.SchemaTableName][]api.ColumnMetadata, error) {
	out := make(map[api.SchemaTableName][]api.ColumnMetadata, len(s.tables))
	for name, meta := range s.tables {
		out[name] = meta.Columns
	}

	return out, nil
}

func (s *stubMetastore) CreateTable(_ context.Context, meta *api.TableMetadata) (*api.TableHandle, error) {
	if _, ok := s.tables[meta.Table]; ok {
		return nil, fmt.Errorf("%s: %w", meta.Table, common.ErrTableAlreadyExists)
	}

	s.tables[meta.Table] = meta

	return &api.TableHandle{SchemaName: meta.Table.SchemaName, TableName: meta.Table.TableName, TableID: 2}, nil
}

func (s *stubMetastore) DropTable(_ context.Context, handle *api.TableHandle) error {
	delete(s.tables, handle.SchemaTableName())

	return nil
}

func (s *stubMetastore) BeginCreateTable(meta *api.TableMetadata) (*api.OutputTableHandle, error) {
	return &api.OutputTableHandle{
		SchemaName: meta.Table.SchemaName,
		TableName:  meta.Table.TableName,
	}, nil
}

func (s *stubMetastore) CommitCreateTable(
	_ context.Context,
	handle *api.OutputTableHandle,
	fragments []string,
) (*api.TableHandle, error) {
	for _, fragment := range fragments {
		if _, _, err := api.ParseFragment(fragment); err != nil {
			return nil, fmt.Errorf("%w: %w", common.ErrInvalidFragment, err)
		}
	}

	return &api.TableHandle{SchemaName: handle.SchemaName, TableName: handle.TableName, TableID: 3}, nil
}

type stubDataSource struct{}

func (stubDataSource) DescribeTable(
	context.Context,
	*zap.Logger,
	*api.DescribeTableRequest,
) (*api.DescribeTableResponse, error) {
	return &api.DescribeTableResponse{
		Columns: []api.ColumnMetadata{{Name: "id", Type: api.TypeInt64, OrdinalPosition: 0}},
	}, nil
}

func (stubDataSource) ListSplits(
	ctx context.Context,
	_ *zap.Logger,
	request *api.ListSplitsRequest,
	resultChan chan<- *datasource.ListSplitResult,
) error {
	for i := 0; i < 2; i++ {
		select {
		case resultChan <- &datasource.ListSplitResult{Slct: request.Select}:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return nil
}

func (stubDataSource) MakeReadQuery(
	context.Context,
	*zap.Logger,
	*api.Split,
) (*datasource.ReadQuery, error) {
	return &datasource.ReadQuery{QueryText: "SELECT 1"}, nil
}

type stubFactory struct{}

func (stubFactory) Make(_ *zap.Logger, kind api.DataSourceKind) (datasource.DataSource, error) {
	if kind != api.KindPostgreSQL {
		return nil, fmt.Errorf("kind '%s': %w", kind, common.ErrDataSourceNotSupported)
	}

	return stubDataSource{}, nil
}

func newTestService(t *testing.T) *Service {
	t.Helper()

	metastore := &stubMetastore{
		tables: map[api.SchemaTableName]*api.TableMetadata{
			{SchemaName: "analytics", TableName: "orders"}: {
				Table: api.SchemaTableName{SchemaName: "analytics", TableName: "orders"},
				Columns: []api.ColumnMetadata{
					{Name: "id", Type: api.TypeInt64, OrdinalPosition: 0},
				},
			},
		},
	}

	return NewService(common.NewTestLogger(t), "localhost:0", metastore, stubFactory{}, prometheus.NewRegistry())
}

func doRequest(s *Service, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echoHeaderContentType, "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}

	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)

	return rec
}

const echoHeaderContentType = "Content-Type"

func TestListSchemas(t *testing.T) {
	s := newTestService(t)

	rec := doRequest(s, http.MethodGet, "/v1/schemas", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp listSchemasResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"analytics", "staging"}, resp.Schemas)
}

func TestGetTable(t *testing.T) {
	s := newTestService(t)

	rec := doRequest(s, http.MethodGet, "/v1/tables/analytics/orders", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp getTableResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "orders", resp.Handle.TableName)
	require.Len(t, resp.Metadata.Columns, 1)
}

func TestGetTableNotFound(t *testing.T) {
	s := newTestService(t)

	rec := doRequest(s, http.MethodGet, "/v1/tables/analytics/missing", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateTable(t *testing.T) {
	s := newTestService(t)

	body := `{"table": {"schemaName": "analytics", "tableName": "events"},
		"columns": [{"name": "id", "type": "bigint", "ordinalPosition": 0}]}`

	rec := doRequest(s, http.MethodPost, "/v1/tables", body)
	require.Equal(t, http.StatusCreated, rec.Code)

	// Duplicate registration conflicts.
	rec = doRequest(s, http.MethodPost, "/v1/tables", body)
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestDropTable(t *testing.T) {
	s := newTestService(t)

	rec := doRequest(s, http.MethodDelete, "/v1/tables/analytics/orders", "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(s, http.MethodGet, "/v1/tables/analytics/orders", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCommitCreateTable(t *testing.T) {
	s := newTestService(t)

	body := `{"handle": {"schemaName": "analytics", "tableName": "events"},
		"fragments": ["node-1:123e4567-e89b-12d3-a456-426614174000"]}`

	rec := doRequest(s, http.MethodPost, "/v1/tables/commit-create", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var handle api.TableHandle
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &handle))
	assert.Equal(t, int64(3), handle.TableID)
}

func TestCommitCreateTableBadFragment(t *testing.T) {
	s := newTestService(t)

	body := `{"handle": {"schemaName": "analytics", "tableName": "events"},
		"fragments": ["garbage"]}`

	rec := doRequest(s, http.MethodPost, "/v1/tables/commit-create", body)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListSplits(t *testing.T) {
	s := newTestService(t)

	body := `{"select": {"dataSource": {"kind": "postgresql"}, "from": "orders", "columns": ["id"]}}`

	rec := doRequest(s, http.MethodPost, "/v1/list-splits", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp api.ListSplitsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Splits, 2)
}

func TestDescribeTableUnsupportedKind(t *testing.T) {
	s := newTestService(t)

	body := `{"dataSource": {"kind": "oracle"}, "table": "orders"}`

	rec := doRequest(s, http.MethodPost, "/v1/describe-table", body)
	require.Equal(t, http.StatusNotImplemented, rec.Code)
}

func TestReadQuery(t *testing.T) {
	s := newTestService(t)

	body := `{"select": {"dataSource": {"kind": "postgresql"}, "from": "orders", "columns": ["id"]}}`

	rec := doRequest(s, http.MethodPost, "/v1/read-query", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var query datasource.ReadQuery
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &query))
	assert.Equal(t, "SELECT 1", query.QueryText)
}
