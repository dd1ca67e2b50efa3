package mysql

import (
	"github.com/quarrydb/native-connector-go/app/api"
	rdbms_utils "github.com/quarrydb/native-connector-go/app/server/datasource/rdbms/utils"
)

func TableMetadataQuery(request *api.DescribeTableRequest) (string, *rdbms_utils.QueryArgs) {
	// In MySQL schema and database are basically the same thing, so the
	// database name is what goes into `table_schema`.
	query := "SELECT column_name, data_type FROM information_schema.columns " +
		"WHERE table_name = ? AND table_schema = ? ORDER BY ordinal_position"

	var args rdbms_utils.QueryArgs

	args.AddUntyped(request.Table)
	args.AddUntyped(request.DataSource.Database)

	return query, &args
}
