package postgresql

import (
	"github.com/quarrydb/native-connector-go/app/api"
	rdbms_utils "github.com/quarrydb/native-connector-go/app/server/datasource/rdbms/utils"
)

func TableMetadataQuery(request *api.DescribeTableRequest) (string, *rdbms_utils.QueryArgs) {
	query := "SELECT column_name, data_type FROM information_schema.columns " +
		"WHERE table_name = $1 AND table_schema = $2 ORDER BY ordinal_position"

	var args rdbms_utils.QueryArgs

	args.AddUntyped(request.Table)
	args.AddUntyped(SchemaFromInstance(&request.DataSource))

	return query, &args
}
