package metastore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/quarrydb/native-connector-go/app/api"
)

// psq is the catalog statement builder with dollar placeholders.
var psq = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// querier is satisfied by both *sql.DB and *sql.Tx so DAO methods can run
// inside or outside an explicit transaction.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type dao struct {
	connectorID string
}

func (d *dao) listSchemaNames(ctx context.Context, q querier) ([]string, error) {
	query, args, err := psq.
		Select("DISTINCT schema_name").
		From("tables").
		Where(sq.Eq{"connector_id": d.connectorID}).
		OrderBy("schema_name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query schema names: %w", err)
	}
	defer rows.Close()

	var names []string

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan schema name: %w", err)
		}

		names = append(names, name)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate schema names: %w", err)
	}

	return names, nil
}

func (d *dao) getTableInformation(ctx context.Context, q querier, name api.SchemaTableName) (*tableRow, error) {
	query, args, err := psq.
		Select("table_id", "schema_name", "table_name").
		From("tables").
		Where(sq.Eq{
			"connector_id": d.connectorID,
			"schema_name":  name.SchemaName,
			"table_name":   name.TableName,
		}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var row tableRow

	err = q.QueryRowContext(ctx, query, args...).Scan(&row.TableID, &row.SchemaName, &row.TableName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("query table information: %w", err)
	}

	return &row, nil
}

func (d *dao) getTableName(ctx context.Context, q querier, tableID int64) (api.SchemaTableName, error) {
	query, args, err := psq.
		Select("schema_name", "table_name").
		From("tables").
		Where(sq.Eq{"table_id": tableID}).
		ToSql()
	if err != nil {
		return api.SchemaTableName{}, fmt.Errorf("build query: %w", err)
	}

	var name api.SchemaTableName

	err = q.QueryRowContext(ctx, query, args...).Scan(&name.SchemaName, &name.TableName)
	if err != nil {
		return api.SchemaTableName{}, fmt.Errorf("query table name: %w", err)
	}

	return name, nil
}

func (d *dao) listTables(ctx context.Context, q querier, schemaName string) ([]api.SchemaTableName, error) {
	builder := psq.
		Select("schema_name", "table_name").
		From("tables").
		Where(sq.Eq{"connector_id": d.connectorID}).
		OrderBy("schema_name", "table_name")

	if schemaName != "" {
		builder = builder.Where(sq.Eq{"schema_name": schemaName})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query tables: %w", err)
	}
	defer rows.Close()

	var names []api.SchemaTableName

	for rows.Next() {
		var name api.SchemaTableName
		if err := rows.Scan(&name.SchemaName, &name.TableName); err != nil {
			return nil, fmt.Errorf("scan table name: %w", err)
		}

		names = append(names, name)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tables: %w", err)
	}

	return names, nil
}

func (d *dao) getColumnID(ctx context.Context, q querier, tableID int64, columnName string) (int64, bool, error) {
	query, args, err := psq.
		Select("column_id").
		From("columns").
		Where(sq.Eq{"table_id": tableID, "column_name": columnName}).
		ToSql()
	if err != nil {
		return 0, false, fmt.Errorf("build query: %w", err)
	}

	var columnID int64

	err = q.QueryRowContext(ctx, query, args...).Scan(&columnID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}

	if err != nil {
		return 0, false, fmt.Errorf("query column id: %w", err)
	}

	return columnID, true, nil
}

func (d *dao) listTableColumns(ctx context.Context, q querier, tableID int64) ([]columnRow, error) {
	query, args, err := psq.
		Select("column_id", "column_name", "ordinal_position", "data_type").
		From("columns").
		Where(sq.Eq{"table_id": tableID}).
		OrderBy("ordinal_position").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query table columns: %w", err)
	}
	defer rows.Close()

	var columns []columnRow

	for rows.Next() {
		var c columnRow
		if err := rows.Scan(&c.ColumnID, &c.ColumnName, &c.OrdinalPosition, &c.DataType); err != nil {
			return nil, fmt.Errorf("scan column: %w", err)
		}

		columns = append(columns, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate columns: %w", err)
	}

	return columns, nil
}

func (d *dao) getColumnMetadata(ctx context.Context, q querier, tableID, columnID int64) (*columnRow, error) {
	query, args, err := psq.
		Select("column_id", "column_name", "ordinal_position", "data_type").
		From("columns").
		Where(sq.Eq{"table_id": tableID, "column_id": columnID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var c columnRow

	err = q.QueryRowContext(ctx, query, args...).Scan(&c.ColumnID, &c.ColumnName, &c.OrdinalPosition, &c.DataType)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("query column metadata: %w", err)
	}

	return &c, nil
}

func (d *dao) listTableColumnsByPrefix(ctx context.Context, q querier, prefix api.SchemaTablePrefix) ([]tableColumnRow, error) {
	builder := psq.
		Select(
			"t.schema_name", "t.table_name",
			"c.column_id", "c.column_name", "c.ordinal_position", "c.data_type",
		).
		From("columns c").
		Join("tables t ON t.table_id = c.table_id").
		Where(sq.Eq{"t.connector_id": d.connectorID}).
		OrderBy("t.schema_name", "t.table_name", "c.ordinal_position")

	if prefix.SchemaName != "" {
		builder = builder.Where(sq.Eq{"t.schema_name": prefix.SchemaName})
	}

	if prefix.TableName != "" {
		builder = builder.Where(sq.Eq{"t.table_name": prefix.TableName})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query table columns: %w", err)
	}
	defer rows.Close()

	var columns []tableColumnRow

	for rows.Next() {
		var c tableColumnRow

		err := rows.Scan(
			&c.Table.SchemaName, &c.Table.TableName,
			&c.ColumnID, &c.ColumnName, &c.OrdinalPosition, &c.DataType,
		)
		if err != nil {
			return nil, fmt.Errorf("scan table column: %w", err)
		}

		columns = append(columns, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate table columns: %w", err)
	}

	return columns, nil
}

func (d *dao) insertTable(ctx context.Context, q querier, name api.SchemaTableName) (int64, error) {
	query, args, err := psq.
		Insert("tables").
		Columns("connector_id", "schema_name", "table_name").
		Values(d.connectorID, name.SchemaName, name.TableName).
		Suffix("RETURNING table_id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}

	var tableID int64

	if err := q.QueryRowContext(ctx, query, args...).Scan(&tableID); err != nil {
		return 0, fmt.Errorf("insert table: %w", err)
	}

	return tableID, nil
}

func (d *dao) insertColumn(
	ctx context.Context,
	q querier,
	tableID, columnID int64,
	columnName string,
	ordinalPosition int,
	dataType api.Type,
) error {
	query, args, err := psq.
		Insert("columns").
		Columns("table_id", "column_id", "column_name", "ordinal_position", "data_type").
		Values(tableID, columnID, columnName, ordinalPosition, string(dataType)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert column: %w", err)
	}

	return nil
}

func (d *dao) deleteTable(ctx context.Context, q querier, tableID int64) error {
	for _, rel := range []string{"columns", "tables"} {
		query, args, err := psq.
			Delete(rel).
			Where(sq.Eq{"table_id": tableID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("build query: %w", err)
		}

		if _, err := q.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("delete from %s: %w", rel, err)
		}
	}

	return nil
}
