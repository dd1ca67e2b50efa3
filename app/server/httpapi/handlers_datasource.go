package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/quarrydb/native-connector-go/app/api"
	"github.com/quarrydb/native-connector-go/app/server/datasource"
	"github.com/quarrydb/native-connector-go/common"
)

func (s *Service) describeTable(c echo.Context) error {
	var request api.DescribeTableRequest

	if err := c.Bind(&request); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Message: err.Error()})
	}

	logger := common.AnnotateLoggerWithDataSourceInstance(s.logger, &request.DataSource)

	ds, err := s.sources.Make(logger, request.DataSource.Kind)
	if err != nil {
		return writeError(c, err)
	}

	response, err := ds.DescribeTable(c.Request().Context(), logger, &request)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, response)
}

func (s *Service) listSplits(c echo.Context) error {
	ctx := c.Request().Context()

	var request api.ListSplitsRequest

	if err := c.Bind(&request); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Message: err.Error()})
	}

	if request.Select == nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Message: "missing select"})
	}

	logger := common.AnnotateLoggerWithDataSourceInstance(s.logger, &request.Select.DataSource)

	ds, err := s.sources.Make(logger, request.Select.DataSource.Kind)
	if err != nil {
		return writeError(c, err)
	}

	resultChan := make(chan *datasource.ListSplitResult, 32)
	errChan := make(chan error, 1)

	go func() {
		defer close(resultChan)

		errChan <- ds.ListSplits(ctx, logger, &request, resultChan)
	}()

	response := &api.ListSplitsResponse{}

	for result := range resultChan {
		response.Splits = append(response.Splits, &api.Split{
			Select:      result.Slct,
			Description: result.Description,
		})
	}

	if err := <-errChan; err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, response)
}

func (s *Service) readQuery(c echo.Context) error {
	var split api.Split

	if err := c.Bind(&split); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Message: err.Error()})
	}

	if split.Select == nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Message: "missing select"})
	}

	logger := common.AnnotateLoggerWithDataSourceInstance(s.logger, &split.Select.DataSource)

	ds, err := s.sources.Make(logger, split.Select.DataSource.Kind)
	if err != nil {
		return writeError(c, err)
	}

	query, err := ds.MakeReadQuery(c.Request().Context(), logger, &split)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, query)
}
