package metastore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/quarrydb/native-connector-go/app/api"
	"github.com/quarrydb/native-connector-go/common"
)

// Metadata is the catalog metadata manager for engine-managed tables.
// All consistency-critical operations run in a single transaction against
// the catalog database; unique constraints turn races between concurrent
// creators into domain errors instead of corrupt catalogs.
type Metadata struct {
	db     *sql.DB
	dao    *dao
	shards *ShardManager
	logger *zap.Logger
}

func NewMetadata(
	ctx context.Context,
	logger *zap.Logger,
	db *sql.DB,
	connectorID string,
	shards *ShardManager,
) (*Metadata, error) {
	if connectorID == "" {
		return nil, fmt.Errorf("%w: empty connector id", common.ErrInvalidRequest)
	}

	if err := Migrate(ctx, logger, db); err != nil {
		return nil, err
	}

	return &Metadata{
		db:     db,
		dao:    &dao{connectorID: connectorID},
		shards: shards,
		logger: logger,
	}, nil
}

func (m *Metadata) ShardManager() *ShardManager { return m.shards }

func (m *Metadata) ListSchemaNames(ctx context.Context) ([]string, error) {
	return m.dao.listSchemaNames(ctx, m.db)
}

func (m *Metadata) ListTables(ctx context.Context, schemaName string) ([]api.SchemaTableName, error) {
	return m.dao.listTables(ctx, m.db, schemaName)
}

// GetTableHandle resolves a table name to a handle. For sampled tables the
// handle carries the hidden sample-weight column.
func (m *Metadata) GetTableHandle(ctx context.Context, name api.SchemaTableName) (*api.TableHandle, error) {
	table, err := m.dao.getTableInformation(ctx, m.db, name)
	if err != nil {
		return nil, err
	}

	if table == nil {
		return nil, fmt.Errorf("%s: %w", name, common.ErrTableDoesNotExist)
	}

	handle := &api.TableHandle{
		SchemaName: table.SchemaName,
		TableName:  table.TableName,
		TableID:    table.TableID,
	}

	columnID, ok, err := m.dao.getColumnID(ctx, m.db, table.TableID, api.SampleWeightColumnName)
	if err != nil {
		return nil, err
	}

	if ok {
		handle.SampleWeightColumn = &api.ColumnHandle{
			ColumnName: api.SampleWeightColumnName,
			ColumnID:   columnID,
		}
	}

	return handle, nil
}

// GetTableMetadata returns the user-visible table definition. The sample
// weight column is never exposed.
func (m *Metadata) GetTableMetadata(ctx context.Context, handle *api.TableHandle) (*api.TableMetadata, error) {
	columns, err := m.dao.listTableColumns(ctx, m.db, handle.TableID)
	if err != nil {
		return nil, err
	}

	meta := &api.TableMetadata{
		Table:   handle.SchemaTableName(),
		Sampled: handle.SampleWeightColumn != nil,
	}

	for i := range columns {
		if columns[i].ColumnName == api.SampleWeightColumnName {
			continue
		}

		meta.Columns = append(meta.Columns, columns[i].metadata())
	}

	if len(meta.Columns) == 0 {
		return nil, fmt.Errorf("%s: %w", meta.Table, common.ErrTableHasNoColumns)
	}

	return meta, nil
}

// GetColumnHandles returns handles for the visible columns of a table,
// keyed by column name.
func (m *Metadata) GetColumnHandles(ctx context.Context, handle *api.TableHandle) (map[string]api.ColumnHandle, error) {
	columns, err := m.dao.listTableColumns(ctx, m.db, handle.TableID)
	if err != nil {
		return nil, err
	}

	handles := make(map[string]api.ColumnHandle, len(columns))

	for i := range columns {
		if columns[i].ColumnName == api.SampleWeightColumnName {
			continue
		}

		handles[columns[i].ColumnName] = api.ColumnHandle{
			ColumnName: columns[i].ColumnName,
			ColumnID:   columns[i].ColumnID,
		}
	}

	return handles, nil
}

func (m *Metadata) GetColumnHandle(ctx context.Context, handle *api.TableHandle, columnName string) (*api.ColumnHandle, error) {
	columnID, ok, err := m.dao.getColumnID(ctx, m.db, handle.TableID, columnName)
	if err != nil {
		return nil, err
	}

	if !ok {
		return nil, fmt.Errorf("%s.%s: %w", handle.SchemaTableName(), columnName, common.ErrColumnDoesNotExist)
	}

	return &api.ColumnHandle{ColumnName: columnName, ColumnID: columnID}, nil
}

func (m *Metadata) GetSampleWeightColumnHandle(handle *api.TableHandle) *api.ColumnHandle {
	return handle.SampleWeightColumn
}

func (m *Metadata) CanCreateSampledTables() bool { return true }

func (m *Metadata) GetColumnMetadata(
	ctx context.Context,
	handle *api.TableHandle,
	column api.ColumnHandle,
) (*api.ColumnMetadata, error) {
	row, err := m.dao.getColumnMetadata(ctx, m.db, handle.TableID, column.ColumnID)
	if err != nil {
		return nil, err
	}

	if row == nil {
		return nil, fmt.Errorf("column id %d: %w", column.ColumnID, common.ErrColumnDoesNotExist)
	}

	meta := row.metadata()

	return &meta, nil
}

// ListTableColumns returns the visible columns of every table matching the
// prefix, grouped by table.
func (m *Metadata) ListTableColumns(
	ctx context.Context,
	prefix api.SchemaTablePrefix,
) (map[api.SchemaTableName][]api.ColumnMetadata, error) {
	rows, err := m.dao.listTableColumnsByPrefix(ctx, m.db, prefix)
	if err != nil {
		return nil, err
	}

	columns := make(map[api.SchemaTableName][]api.ColumnMetadata)

	for i := range rows {
		if rows[i].ColumnName == api.SampleWeightColumnName {
			continue
		}

		columns[rows[i].Table] = append(columns[rows[i].Table], rows[i].metadata())
	}

	return columns, nil
}

// CreateTable registers a table and its columns in one transaction.
// Column ids are assigned from the ordinal position (ordinal + 1); sampled
// tables get one extra hidden bigint sample-weight column.
func (m *Metadata) CreateTable(ctx context.Context, meta *api.TableMetadata) (*api.TableHandle, error) {
	if err := validateTableMetadata(meta); err != nil {
		return nil, err
	}

	var tableID int64

	err := inTransaction(ctx, m.db, func(tx *sql.Tx) error {
		var err error

		tableID, err = m.dao.insertTable(ctx, tx, meta.Table)
		if err != nil {
			if common.IsConstraintViolation(err) {
				return fmt.Errorf("%s: %w", meta.Table, common.ErrTableAlreadyExists)
			}

			return err
		}

		ordinalPosition := 0

		for _, column := range meta.Columns {
			columnID := int64(ordinalPosition + 1)

			err := m.dao.insertColumn(ctx, tx, tableID, columnID, column.Name, ordinalPosition, column.Type)
			if err != nil {
				return err
			}

			ordinalPosition++
		}

		if meta.Sampled {
			columnID := int64(ordinalPosition + 1)

			err := m.dao.insertColumn(ctx, tx, tableID, columnID, api.SampleWeightColumnName, ordinalPosition, api.TypeInt64)
			if err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	handle := &api.TableHandle{
		SchemaName: meta.Table.SchemaName,
		TableName:  meta.Table.TableName,
		TableID:    tableID,
	}

	if meta.Sampled {
		handle.SampleWeightColumn = &api.ColumnHandle{
			ColumnName: api.SampleWeightColumnName,
			ColumnID:   int64(len(meta.Columns) + 1),
		}
	}

	m.logger.Info("created table",
		zap.String("table", meta.Table.String()),
		zap.Int64("table_id", tableID),
		zap.Bool("sampled", meta.Sampled),
	)

	return handle, nil
}

// DropTable removes the table, its columns and its shard bookkeeping in
// one transaction.
func (m *Metadata) DropTable(ctx context.Context, handle *api.TableHandle) error {
	err := inTransaction(ctx, m.db, func(tx *sql.Tx) error {
		if err := m.shards.dropShards(ctx, tx, handle.TableID); err != nil {
			return err
		}

		return m.dao.deleteTable(ctx, tx, handle.TableID)
	})
	if err != nil {
		return err
	}

	m.logger.Info("dropped table",
		zap.String("table", handle.SchemaTableName().String()),
		zap.Int64("table_id", handle.TableID),
	)

	return nil
}

// BeginCreateTable stages a table creation. Nothing is written to the
// catalog until CommitCreateTable: workers write shards against the
// returned handle and report fragments back to the coordinator.
func (m *Metadata) BeginCreateTable(meta *api.TableMetadata) (*api.OutputTableHandle, error) {
	if err := validateTableMetadata(meta); err != nil {
		return nil, err
	}

	handle := &api.OutputTableHandle{
		SchemaName: meta.Table.SchemaName,
		TableName:  meta.Table.TableName,
	}

	var maxColumnID int64

	for _, column := range meta.Columns {
		columnID := int64(column.OrdinalPosition + 1)
		if columnID > maxColumnID {
			maxColumnID = columnID
		}

		handle.ColumnHandles = append(handle.ColumnHandles, api.ColumnHandle{
			ColumnName: column.Name,
			ColumnID:   columnID,
		})
		handle.ColumnTypes = append(handle.ColumnTypes, column.Type)
	}

	if meta.Sampled {
		handle.SampleWeightColumn = &api.ColumnHandle{
			ColumnName: api.SampleWeightColumnName,
			ColumnID:   maxColumnID + 1,
		}
		handle.ColumnHandles = append(handle.ColumnHandles, *handle.SampleWeightColumn)
		handle.ColumnTypes = append(handle.ColumnTypes, api.TypeInt64)
	}

	return handle, nil
}

// CommitCreateTable finishes a staged table creation: it registers the
// table and columns transactionally, then commits the shard-to-node map
// parsed from the worker fragments.
func (m *Metadata) CommitCreateTable(
	ctx context.Context,
	handle *api.OutputTableHandle,
	fragments []string,
) (*api.TableHandle, error) {
	shards := make(map[uuid.UUID]string, len(fragments))

	for _, fragment := range fragments {
		nodeID, shardUUID, err := api.ParseFragment(fragment)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", common.ErrInvalidFragment, err)
		}

		shards[shardUUID] = nodeID
	}

	err := inTransaction(ctx, m.db, func(tx *sql.Tx) error {
		tableID, err := m.dao.insertTable(ctx, tx, handle.SchemaTableName())
		if err != nil {
			if common.IsConstraintViolation(err) {
				return fmt.Errorf("%s: %w", handle.SchemaTableName(), common.ErrTableAlreadyExists)
			}

			return err
		}

		for i, column := range handle.ColumnHandles {
			err := m.dao.insertColumn(ctx, tx, tableID, int64(i+1), column.ColumnName, i, handle.ColumnTypes[i])
			if err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	tableHandle, err := m.GetTableHandle(ctx, handle.SchemaTableName())
	if err != nil {
		return nil, err
	}

	if len(shards) > 0 {
		if err := m.shards.CommitTable(ctx, tableHandle.TableID, shards); err != nil {
			return nil, err
		}
	}

	m.logger.Info("committed table creation",
		zap.String("table", handle.SchemaTableName().String()),
		zap.Int64("table_id", tableHandle.TableID),
		zap.Int("shard_count", len(shards)),
	)

	return tableHandle, nil
}

// BeginInsert is not supported by the native connector yet.
func (m *Metadata) BeginInsert(*api.TableMetadata) (*api.OutputTableHandle, error) {
	return nil, fmt.Errorf("begin insert: %w", common.ErrMethodNotSupported)
}

func validateTableMetadata(meta *api.TableMetadata) error {
	if meta == nil {
		return fmt.Errorf("%w: nil table metadata", common.ErrInvalidRequest)
	}

	if meta.Table.SchemaName == "" || meta.Table.TableName == "" {
		return fmt.Errorf("%w: %w", common.ErrInvalidRequest, common.ErrEmptyTableName)
	}

	if len(meta.Columns) == 0 {
		return fmt.Errorf("%s: %w", meta.Table, common.ErrTableHasNoColumns)
	}

	for _, column := range meta.Columns {
		if column.Name == "" {
			return fmt.Errorf("%w: empty column name", common.ErrInvalidRequest)
		}

		if column.Name == api.SampleWeightColumnName {
			return fmt.Errorf("%w: column name '%s' is reserved", common.ErrInvalidRequest, column.Name)
		}

		if !column.Type.Valid() {
			return fmt.Errorf("column '%s' type '%s': %w", column.Name, column.Type, common.ErrDataTypeNotSupported)
		}
	}

	return nil
}

func inTransaction(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback after '%v': %w", err, rbErr)
		}

		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}
