package clickhouse

import (
	"github.com/quarrydb/native-connector-go/app/api"
	rdbms_utils "github.com/quarrydb/native-connector-go/app/server/datasource/rdbms/utils"
)

func TableMetadataQuery(request *api.DescribeTableRequest) (string, *rdbms_utils.QueryArgs) {
	query := "SELECT name, type FROM system.columns WHERE table = ? AND database = ? ORDER BY position"

	var args rdbms_utils.QueryArgs

	args.AddUntyped(request.Table)
	args.AddUntyped(request.DataSource.Database)

	return query, &args
}
