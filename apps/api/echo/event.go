package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/alumniconnect/alumniconnect/core"
	"github.com/alumniconnect/alumniconnect/core/event"
)

type eventApi struct {
	svc      *event.Service
	validate *validator.Validate
}

func registerEventAPI(g *echo.Group, sessionMW echo.MiddlewareFunc, opts *Options) {
	api := eventApi{
		svc:      opts.EventSvc,
		validate: opts.Validate,
	}

	eg := g.Group("/events")

	eg.GET("", api.query)

	eg.POST("", api.create, sessionMW)
	eg.POST("/:id/rsvp", api.rsvp, sessionMW)
	eg.DELETE("/:id/rsvp", api.cancelRSVP, sessionMW)
	eg.DELETE("/:id", api.destroy, sessionMW)

	ag := eg.Group("/admin", sessionMW, adminMiddleware())
	ag.GET("/pending", api.queryPending)
	ag.PUT("/status", api.setStatus)
}

func (api *eventApi) create(ctx echo.Context) error {
	var data event.NewEvent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewEvent")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	ctxUsr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	evt, err := api.svc.Create(ctx.Request().Context(), data, ctxUsr.ID)
	if err != nil {
		return errors.Wrap(err, "creating event")
	}
	return ctx.JSON(http.StatusCreated, evt)
}

func (api *eventApi) query(ctx echo.Context) error {
	filter := new(event.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []event.Event{})
	}
	filter.Clean()
	ordering := new(Ordering)
	ordering.Bind(ctx)

	events, err := api.svc.QueryApproved(ctx.Request().Context(), filter, ordering.Orderings)
	if err != nil {
		return errors.Wrap(err, "querying events")
	}
	if events == nil {
		events = []event.Event{}
	}

	paging := new(Pagination)
	paging.Bind(ctx)
	if paging.Enabled() {
		return ctx.JSON(http.StatusOK, core.Paginate(events, paging.Page, paging.PageSize))
	}
	return ctx.JSON(http.StatusOK, events)
}

func (api *eventApi) queryPending(ctx echo.Context) error {
	events, err := api.svc.QueryPending(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying pending events")
	}
	if events == nil {
		events = []event.Event{}
	}
	return ctx.JSON(http.StatusOK, events)
}

func (api *eventApi) setStatus(ctx echo.Context) error {
	var data event.StatusUpdate
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to StatusUpdate")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	evt, err := api.svc.SetStatus(ctx.Request().Context(), data)
	if err != nil {
		if errors.Cause(err) == event.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "updating event status")
	}
	return ctx.JSON(http.StatusOK, evt)
}

func (api *eventApi) rsvp(ctx echo.Context) error {
	ctxUsr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	evt, err := api.svc.RSVP(ctx.Request().Context(), ctx.Param("id"), ctxUsr.ID)
	if err != nil {
		if errors.Cause(err) == event.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "joining event")
	}
	return ctx.JSON(http.StatusOK, evt)
}

func (api *eventApi) cancelRSVP(ctx echo.Context) error {
	ctxUsr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	evt, err := api.svc.CancelRSVP(ctx.Request().Context(), ctx.Param("id"), ctxUsr.ID)
	if err != nil {
		if errors.Cause(err) == event.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "leaving event")
	}
	return ctx.JSON(http.StatusOK, evt)
}

func (api *eventApi) destroy(ctx echo.Context) error {
	ctxUsr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	reqCtx := ctx.Request().Context()
	evt, err := api.svc.GetByID(reqCtx, ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == event.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding event by ID")
	}

	if evt.CreatorID != ctxUsr.ID && !ctxUsr.IsAdmin() {
		return errHttpForbidden
	}

	if err := api.svc.Delete(reqCtx, evt.ID); err != nil {
		return errors.Wrap(err, "deleting event")
	}
	return ctx.NoContent(http.StatusNoContent)
}
