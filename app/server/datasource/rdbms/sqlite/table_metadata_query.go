package sqlite

import (
	"github.com/quarrydb/native-connector-go/app/api"
	rdbms_utils "github.com/quarrydb/native-connector-go/app/server/datasource/rdbms/utils"
)

func TableMetadataQuery(request *api.DescribeTableRequest) (string, *rdbms_utils.QueryArgs) {
	query := "SELECT name, type FROM pragma_table_info(?) ORDER BY cid"

	var args rdbms_utils.QueryArgs

	args.AddUntyped(request.Table)

	return query, &args
}
