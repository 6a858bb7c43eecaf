package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/chamadaweb/chamada/core/attendance"
)

var msgAttendanceSaved = "Chamada salva com sucesso"

type attendanceApi struct {
	svc        *attendance.Service
	validate   *validator.Validate
	translator ut.Translator
}

func registerAttendanceAPI(g *echo.Group, svc *attendance.Service, validate *validator.Validate, translator ut.Translator) {
	api := attendanceApi{
		svc:        svc,
		validate:   validate,
		translator: translator,
	}

	ag := g.Group("/attendance")
	ag.POST("", api.submit)
	ag.GET("", api.history)
	ag.GET("/:id", api.retrieve)
}

func (api *attendanceApi) submit(ctx echo.Context) error {
	var data attendance.Submission
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Submission")
	}
	if err := data.Validate(api.validate, api.translator); err != nil {
		return err
	}

	receipt, err := api.svc.Submit(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, SubmitAttendanceResponse{Message: msgAttendanceSaved, Receipt: receipt})
}

func (api *attendanceApi) history(ctx echo.Context) error {
	sessions, err := api.svc.History(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, AttendanceHistoryResponse{Attendance: sessions})
}

func (api *attendanceApi) retrieve(ctx echo.Context) error {
	detail, err := api.svc.Get(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, detail)
}
