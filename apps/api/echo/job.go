package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/alumniconnect/alumniconnect/core"
	"github.com/alumniconnect/alumniconnect/core/job"
)

type jobApi struct {
	svc      *job.Service
	validate *validator.Validate
}

func registerJobAPI(g *echo.Group, sessionMW echo.MiddlewareFunc, opts *Options) {
	api := jobApi{
		svc:      opts.JobSvc,
		validate: opts.Validate,
	}

	jg := g.Group("/jobs")

	// the public board only ever shows approved postings
	jg.GET("", api.query)

	jg.POST("", api.create, sessionMW, alumniMiddleware())
	jg.GET("/mine", api.queryMine, sessionMW, alumniMiddleware())
	jg.DELETE("/:id", api.destroy, sessionMW)

	ag := jg.Group("/admin", sessionMW, adminMiddleware())
	ag.GET("/pending", api.queryPending)
	ag.PUT("/status", api.setStatus)
}

func (api *jobApi) create(ctx echo.Context) error {
	var data job.NewJob
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewJob")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	ctxUsr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	jb, err := api.svc.Post(ctx.Request().Context(), data, ctxUsr.ID)
	if err != nil {
		return errors.Wrap(err, "posting job")
	}
	return ctx.JSON(http.StatusCreated, jb)
}

func (api *jobApi) query(ctx echo.Context) error {
	filter := new(job.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []job.Job{})
	}
	filter.Clean()
	ordering := new(Ordering)
	ordering.Bind(ctx)

	jobs, err := api.svc.QueryApproved(ctx.Request().Context(), filter, ordering.Orderings)
	if err != nil {
		return errors.Wrap(err, "querying jobs")
	}
	if jobs == nil {
		jobs = []job.Job{}
	}

	paging := new(Pagination)
	paging.Bind(ctx)
	if paging.Enabled() {
		return ctx.JSON(http.StatusOK, core.Paginate(jobs, paging.Page, paging.PageSize))
	}
	return ctx.JSON(http.StatusOK, jobs)
}

func (api *jobApi) queryMine(ctx echo.Context) error {
	ctxUsr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	jobs, err := api.svc.Query(ctx.Request().Context(), &job.QueryFilter{PostedBy: ctxUsr.ID}, nil)
	if err != nil {
		return errors.Wrap(err, "querying own jobs")
	}
	if jobs == nil {
		jobs = []job.Job{}
	}
	return ctx.JSON(http.StatusOK, jobs)
}

func (api *jobApi) queryPending(ctx echo.Context) error {
	jobs, err := api.svc.QueryPending(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying pending jobs")
	}
	if jobs == nil {
		jobs = []job.Job{}
	}
	return ctx.JSON(http.StatusOK, jobs)
}

func (api *jobApi) setStatus(ctx echo.Context) error {
	var data job.StatusUpdate
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to StatusUpdate")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	jb, err := api.svc.SetStatus(ctx.Request().Context(), data)
	if err != nil {
		if errors.Cause(err) == job.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "updating job status")
	}
	return ctx.JSON(http.StatusOK, jb)
}

func (api *jobApi) destroy(ctx echo.Context) error {
	ctxUsr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	reqCtx := ctx.Request().Context()
	jb, err := api.svc.GetByID(reqCtx, ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == job.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding job by ID")
	}

	// owners delete their own postings; admins delete any
	if jb.PostedBy != ctxUsr.ID && !ctxUsr.IsAdmin() {
		return errHttpForbidden
	}

	if err := api.svc.Delete(reqCtx, jb.ID); err != nil {
		return errors.Wrap(err, "deleting job")
	}
	return ctx.NoContent(http.StatusNoContent)
}
