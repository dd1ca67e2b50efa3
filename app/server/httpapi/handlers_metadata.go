package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/quarrydb/native-connector-go/app/api"
)

type listSchemasResponse struct {
	Schemas []string `json:"schemas"`
}

func (s *Service) listSchemas(c echo.Context) error {
	schemas, err := s.metadata.ListSchemaNames(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, listSchemasResponse{Schemas: schemas})
}

type listTablesResponse struct {
	Tables []api.SchemaTableName `json:"tables"`
}

func (s *Service) listTables(c echo.Context) error {
	tables, err := s.metadata.ListTables(c.Request().Context(), c.Param("schema"))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, listTablesResponse{Tables: tables})
}

type getTableResponse struct {
	Handle   *api.TableHandle   `json:"handle"`
	Metadata *api.TableMetadata `json:"metadata"`
}

func (s *Service) getTable(c echo.Context) error {
	ctx := c.Request().Context()

	name, err := api.NewSchemaTableName(c.Param("schema"), c.Param("table"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Message: err.Error()})
	}

	handle, err := s.metadata.GetTableHandle(ctx, name)
	if err != nil {
		return writeError(c, err)
	}

	meta, err := s.metadata.GetTableMetadata(ctx, handle)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, getTableResponse{Handle: handle, Metadata: meta})
}

type listTableColumnsResponse struct {
	Tables []api.TableMetadata `json:"tables"`
}

func (s *Service) listTableColumns(c echo.Context) error {
	prefix := api.SchemaTablePrefix{
		SchemaName: c.QueryParam("schema"),
		TableName:  c.QueryParam("table"),
	}

	columns, err := s.metadata.ListTableColumns(c.Request().Context(), prefix)
	if err != nil {
		return writeError(c, err)
	}

	resp := listTableColumnsResponse{Tables: make([]api.TableMetadata, 0, len(columns))}
	for name, cols := range columns {
		resp.Tables = append(resp.Tables, api.TableMetadata{Table: name, Columns: cols})
	}

	return c.JSON(http.StatusOK, resp)
}

func (s *Service) createTable(c echo.Context) error {
	var meta api.TableMetadata

	if err := c.Bind(&meta); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Message: err.Error()})
	}

	handle, err := s.metadata.CreateTable(c.Request().Context(), &meta)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, handle)
}

func (s *Service) dropTable(c echo.Context) error {
	ctx := c.Request().Context()

	name, err := api.NewSchemaTableName(c.Param("schema"), c.Param("table"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Message: err.Error()})
	}

	handle, err := s.metadata.GetTableHandle(ctx, name)
	if err != nil {
		return writeError(c, err)
	}

	if err := s.metadata.DropTable(ctx, handle); err != nil {
		return writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (s *Service) beginCreateTable(c echo.Context) error {
	var meta api.TableMetadata

	if err := c.Bind(&meta); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Message: err.Error()})
	}

	handle, err := s.metadata.BeginCreateTable(&meta)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, handle)
}

type commitCreateTableRequest struct {
	Handle    *api.OutputTableHandle `json:"handle"`
	Fragments []string               `json:"fragments"`
}

func (s *Service) commitCreateTable(c echo.Context) error {
	var request commitCreateTableRequest

	if err := c.Bind(&request); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Message: err.Error()})
	}

	if request.Handle == nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Message: "missing output table handle"})
	}

	handle, err := s.metadata.CommitCreateTable(c.Request().Context(), request.Handle, request.Fragments)
	if err != nil {
		return writeError(c, err)
	}

	s.logger.Info("table creation committed",
		zap.String("table", handle.SchemaTableName().String()),
		zap.Int("fragment_count", len(request.Fragments)),
	)

	return c.JSON(http.StatusOK, handle)
}
