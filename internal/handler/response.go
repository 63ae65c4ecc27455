package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/locvowork/sheettable/internal/logger"
	"github.com/locvowork/sheettable/internal/report"
)

// GenericResponse is the JSON envelope of every non-file answer.
type GenericResponse struct {
	Success   bool
	Message   string
	Data      interface{} `json:",omitempty"`
	Error     string      `json:",omitempty"`
	RequestID string      `json:",omitempty"`
}

func ResponseSuccess(c echo.Context, code int, msg string, data interface{}) error {
	return c.JSON(code, GenericResponse{
		Success:   true,
		Message:   msg,
		Data:      data,
		RequestID: logger.RequestID(c.Request().Context()),
	})
}

func ResponseError(c echo.Context, code int, msg string, err error) error {
	resp := GenericResponse{
		Success:   false,
		Message:   msg,
		RequestID: logger.RequestID(c.Request().Context()),
	}
	if err != nil {
		resp.Error = err.Error()
	}
	return c.JSON(code, resp)
}

// exportFailure maps an export error to its status code and message.
func exportFailure(err error) (int, string) {
	switch {
	case errors.Is(err, report.ErrReportNotFound):
		return http.StatusNotFound, "Report not found"
	case errors.Is(err, report.ErrMissingParam):
		return http.StatusBadRequest, "Missing report parameter"
	default:
		return http.StatusInternalServerError, "Failed to generate Excel file"
	}
}
