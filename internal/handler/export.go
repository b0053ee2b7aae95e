package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/evzav/lab-resource-loans/internal/export"
	"github.com/evzav/lab-resource-loans/internal/repository"
)

// ExportHandler streams a zip archive of CSV sheets covering every
// registry and loan table.
type ExportHandler struct {
	Loans *repository.LoanRepo
}

func NewExportHandler(loans *repository.LoanRepo) *ExportHandler {
	if loans == nil {
		panic("nil repository passed to NewExportHandler")
	}
	return &ExportHandler{Loans: loans}
}

// Get handles GET /v1/export.
func (h *ExportHandler) Get(c echo.Context) error {
	sheets, err := export.Collect(c.Request().Context(), h.Loans.DB())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "export failed"})
	}

	var buf bytes.Buffer
	if err := export.WriteArchive(&buf, sheets); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "export failed"})
	}

	name := fmt.Sprintf("lab-loans-%s.zip", time.Now().UTC().Format("20060102-150405"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, name))
	return c.Blob(http.StatusOK, "application/zip", buf.Bytes())
}
