package server

import (
	"go.uber.org/zap"

	"github.com/quarrydb/native-connector-go/app/api"
	"github.com/quarrydb/native-connector-go/app/server/datasource"
)

var _ datasource.Factory = (*dataSourceCollection)(nil)

// dataSourceCollection routes requests between the engine's own storage
// and the external RDBMS backends.
type dataSourceCollection struct {
	native datasource.DataSource
	rdbms  datasource.Factory
}

func (dsc *dataSourceCollection) Make(
	logger *zap.Logger,
	kind api.DataSourceKind,
) (datasource.DataSource, error) {
	if kind == api.KindNative {
		return dsc.native, nil
	}

	return dsc.rdbms.Make(logger, kind)
}
