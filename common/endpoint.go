package common

import (
	"fmt"

	"github.com/quarrydb/native-connector-go/app/api"
)

func EndpointToString(ep api.Endpoint) string {
	return fmt.Sprintf("%s:%d", ep.Host, ep.Port)
}
