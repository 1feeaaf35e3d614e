package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/alumniconnect/alumniconnect/core/report"
)

type reportApi struct {
	svc      *report.Service
	validate *validator.Validate
}

func registerReportAPI(g *echo.Group, sessionMW echo.MiddlewareFunc, opts *Options) {
	api := reportApi{
		svc:      opts.ReportSvc,
		validate: opts.Validate,
	}

	rg := g.Group("/reports", sessionMW)
	rg.POST("", api.create)

	ag := rg.Group("/admin", adminMiddleware())
	ag.GET("", api.queryOpen)
	ag.PUT("/status", api.setStatus)
}

func (api *reportApi) create(ctx echo.Context) error {
	var data report.NewReport
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewReport")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	ctxUsr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	rpt, err := api.svc.File(ctx.Request().Context(), data, ctxUsr.ID)
	if err != nil {
		return errors.Wrap(err, "filing report")
	}
	return ctx.JSON(http.StatusCreated, rpt)
}

func (api *reportApi) queryOpen(ctx echo.Context) error {
	reports, err := api.svc.QueryOpen(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying open reports")
	}
	if reports == nil {
		reports = []report.Report{}
	}
	return ctx.JSON(http.StatusOK, reports)
}

func (api *reportApi) setStatus(ctx echo.Context) error {
	var data report.StatusUpdate
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to StatusUpdate")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	rpt, err := api.svc.SetStatus(ctx.Request().Context(), data)
	if err != nil {
		if errors.Cause(err) == report.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "updating report status")
	}
	return ctx.JSON(http.StatusOK, rpt)
}
