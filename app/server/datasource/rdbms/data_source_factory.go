package rdbms

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/quarrydb/native-connector-go/app/api"
	"github.com/quarrydb/native-connector-go/app/server/config"
	"github.com/quarrydb/native-connector-go/app/server/datasource"
	"github.com/quarrydb/native-connector-go/app/server/datasource/rdbms/clickhouse"
	"github.com/quarrydb/native-connector-go/app/server/datasource/rdbms/mysql"
	"github.com/quarrydb/native-connector-go/app/server/datasource/rdbms/postgresql"
	"github.com/quarrydb/native-connector-go/app/server/datasource/rdbms/sqlite"
	rdbms_utils "github.com/quarrydb/native-connector-go/app/server/datasource/rdbms/utils"
	"github.com/quarrydb/native-connector-go/app/server/utils/retry"
	"github.com/quarrydb/native-connector-go/common"
)

var _ datasource.Factory = (*dataSourceFactory)(nil)

type dataSourceFactory struct {
	postgresql Preset
	mysql      Preset
	clickhouse Preset
	sqlite     Preset
}

func (dsf *dataSourceFactory) Make(
	logger *zap.Logger,
	kind api.DataSourceKind,
) (datasource.DataSource, error) {
	switch kind {
	case api.KindPostgreSQL:
		return NewDataSource(logger, &dsf.postgresql), nil
	case api.KindMySQL:
		return NewDataSource(logger, &dsf.mysql), nil
	case api.KindClickHouse:
		return NewDataSource(logger, &dsf.clickhouse), nil
	case api.KindSQLite:
		return NewDataSource(logger, &dsf.sqlite), nil
	default:
		return nil, fmt.Errorf("pick handler for data source kind '%s': %w", kind, common.ErrDataSourceNotSupported)
	}
}

func NewDataSourceFactory(
	cfg *config.DatasourcesConfig,
	qlf common.QueryLoggerFactory,
) datasource.Factory {
	connManagerBase := rdbms_utils.ConnectionManagerBase{
		QueryLoggerFactory: qlf,
	}

	postgresqlTypeMapper := postgresql.NewTypeMapper()
	mysqlTypeMapper := mysql.NewTypeMapper()
	clickhouseTypeMapper := clickhouse.NewTypeMapper()
	sqliteTypeMapper := sqlite.NewTypeMapper()

	return &dataSourceFactory{
		postgresql: Preset{
			SQLFormatter:      postgresql.NewSQLFormatter(cfg.PostgreSQL.Pushdown),
			ConnectionManager: postgresql.NewConnectionManager(cfg.PostgreSQL, connManagerBase),
			TypeMapper:        postgresqlTypeMapper,
			SchemaProvider:    rdbms_utils.NewDefaultSchemaProvider(postgresqlTypeMapper, postgresql.TableMetadataQuery),
			SplitProvider:     rdbms_utils.NewDefaultSplitProvider(),
			RetrierSet: &retry.RetrierSet{
				MakeConnection: retry.NewRetrierFromConfig(cfg.PostgreSQL.ExponentialBackoff, retry.ErrorCheckerMakeConnectionCommon),
				Query:          retry.NewRetrierFromConfig(cfg.PostgreSQL.ExponentialBackoff, retry.ErrorCheckerNoop),
			},
		},
		mysql: Preset{
			SQLFormatter:      mysql.NewSQLFormatter(cfg.MySQL.Pushdown),
			ConnectionManager: mysql.NewConnectionManager(cfg.MySQL, connManagerBase),
			TypeMapper:        mysqlTypeMapper,
			SchemaProvider:    rdbms_utils.NewDefaultSchemaProvider(mysqlTypeMapper, mysql.TableMetadataQuery),
			SplitProvider:     rdbms_utils.NewDefaultSplitProvider(),
			RetrierSet: &retry.RetrierSet{
				MakeConnection: retry.NewRetrierFromConfig(cfg.MySQL.ExponentialBackoff, retry.ErrorCheckerMakeConnectionCommon),
				Query:          retry.NewRetrierFromConfig(cfg.MySQL.ExponentialBackoff, retry.ErrorCheckerNoop),
			},
		},
		clickhouse: Preset{
			SQLFormatter:      clickhouse.NewSQLFormatter(cfg.ClickHouse.Pushdown),
			ConnectionManager: clickhouse.NewConnectionManager(cfg.ClickHouse, connManagerBase),
			TypeMapper:        clickhouseTypeMapper,
			SchemaProvider:    rdbms_utils.NewDefaultSchemaProvider(clickhouseTypeMapper, clickhouse.TableMetadataQuery),
			SplitProvider:     rdbms_utils.NewDefaultSplitProvider(),
			RetrierSet: &retry.RetrierSet{
				MakeConnection: retry.NewRetrierFromConfig(cfg.ClickHouse.ExponentialBackoff, retry.ErrorCheckerMakeConnectionCommon),
				Query:          retry.NewRetrierFromConfig(cfg.ClickHouse.ExponentialBackoff, retry.ErrorCheckerNoop),
			},
		},
		sqlite: Preset{
			SQLFormatter:      sqlite.NewSQLFormatter(),
			ConnectionManager: sqlite.NewConnectionManager(cfg.SQLite, connManagerBase),
			TypeMapper:        sqliteTypeMapper,
			SchemaProvider:    rdbms_utils.NewDefaultSchemaProvider(sqliteTypeMapper, sqlite.TableMetadataQuery),
			SplitProvider:     rdbms_utils.NewDefaultSplitProvider(),
			RetrierSet:        retry.NewRetrierSetNoop(),
		},
	}
}
