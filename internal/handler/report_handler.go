package handler

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/locvowork/sheettable/internal/logger"
	"github.com/locvowork/sheettable/internal/report"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Exporter writes a named report as an xlsx workbook.
type Exporter interface {
	Export(ctx context.Context, name string, params map[string]string, w io.Writer) (*report.Result, error)
	Catalog() *report.Catalog
}

type ReportHandler struct {
	svc Exporter
}

func NewReportHandler(svc Exporter) *ReportHandler {
	return &ReportHandler{svc: svc}
}

type reportInfo struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Source      string   `json:"source"`
	Params      []string `json:"params,omitempty"`
}

// ListHandler handles GET /reports
func (h *ReportHandler) ListHandler(c echo.Context) error {
	reports := h.svc.Catalog().Reports()
	out := make([]reportInfo, 0, len(reports))
	for _, r := range reports {
		out = append(out, reportInfo{Name: r.Name, Description: r.Description, Source: r.Source, Params: r.Params})
	}
	return ResponseSuccess(c, http.StatusOK, fmt.Sprintf("%d reports", len(out)), out)
}

// ExportHandler handles GET /reports/:name/export. Query parameters become
// report parameters.
func (h *ReportHandler) ExportHandler(c echo.Context) error {
	ctx := c.Request().Context()
	name := c.Param("name")

	params := make(map[string]string)
	for k, v := range c.QueryParams() {
		if len(v) > 0 {
			params[k] = v[0]
		}
	}

	// Buffered so a failed export can still be answered as JSON.
	buf := new(bytes.Buffer)
	res, err := h.svc.Export(ctx, name, params, buf)
	if err != nil {
		logger.ErrorLog(ctx, "export %s failed: %v", name, err)
		code, msg := exportFailure(err)
		return ResponseError(c, code, msg, err)
	}

	r, err := h.svc.Catalog().Get(name)
	if err != nil {
		return ResponseError(c, http.StatusNotFound, "Report not found", err)
	}

	header := c.Response().Header()
	header.Set(echo.HeaderContentType, xlsxContentType)
	header.Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, r.Attachment()))
	header.Set(echo.HeaderContentLength, strconv.Itoa(buf.Len()))
	header.Set("X-Report-Rows", strconv.Itoa(res.Rows))
	header.Set("X-Report-Sheets", strconv.Itoa(len(res.Sheets)))
	c.Response().WriteHeader(http.StatusOK)

	_, err = buf.WriteTo(c.Response())
	return err
}
