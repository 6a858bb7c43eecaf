package echoapi

import (
	"bytes"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/chamadaweb/chamada/core"
	"github.com/chamadaweb/chamada/core/report"
)

const (
	reportFilename     = "relatorio-frequencia.csv"
	msgReportFailed    = "Erro ao gerar relatório"
	mimeTextCSV        = "text/csv"
	contentDisposition = `attachment; filename="` + reportFilename + `"`
)

type reportApi struct {
	svc    *report.Service
	logger core.Logger
}

func registerReportAPI(g *echo.Group, svc *report.Service, logger core.Logger) {
	api := reportApi{svc: svc, logger: logger}

	g.GET("/dashboard/stats", api.stats)
	g.POST("/reports/generate", api.generate)
	g.GET("/backup/export", api.backup)
}

func (api *reportApi) stats(ctx echo.Context) error {
	stats, err := api.svc.Stats(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "computing stats")
	}
	return ctx.JSON(http.StatusOK, stats)
}

// generate answers with the CSV report, or with its own 500 body when the report cannot be built.
func (api *reportApi) generate(ctx echo.Context) error {
	var buff bytes.Buffer
	if err := api.svc.GenerateCSV(ctx.Request().Context(), &buff); err != nil {
		api.logger.Error(msgReportFailed, errors.Wrap(err, "generating report"))
		return ctx.JSON(http.StatusInternalServerError, ErrorResponse{Error: msgReportFailed, Details: err.Error()})
	}

	ctx.Response().Header().Set(echo.HeaderContentDisposition, contentDisposition)
	return ctx.Blob(http.StatusOK, mimeTextCSV, buff.Bytes())
}

func (api *reportApi) backup(ctx echo.Context) error {
	backup, err := api.svc.Backup(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "exporting backup")
	}
	return ctx.JSON(http.StatusOK, BackupResponse{Backup: backup})
}
