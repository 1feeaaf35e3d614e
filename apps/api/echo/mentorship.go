package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/alumniconnect/alumniconnect/core"
	"github.com/alumniconnect/alumniconnect/core/mentorship"
)

type mentorshipApi struct {
	svc      *mentorship.Service
	validate *validator.Validate
}

func registerMentorshipAPI(g *echo.Group, sessionMW echo.MiddlewareFunc, opts *Options) {
	api := mentorshipApi{
		svc:      opts.MentorshipSvc,
		validate: opts.Validate,
	}

	mg := g.Group("/mentorship", sessionMW)

	mg.POST("", api.create, studentMiddleware())
	mg.GET("/mine", api.queryMine, studentMiddleware())
	mg.GET("/requests", api.queryRequests, alumniMiddleware())
	mg.PUT("/:id/respond", api.respond, alumniMiddleware())
}

func (api *mentorshipApi) create(ctx echo.Context) error {
	var data mentorship.NewRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	ctxUsr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	req, err := api.svc.Request(ctx.Request().Context(), data, ctxUsr.ID)
	if err != nil {
		switch errors.Cause(err) {
		case mentorship.ErrNotAnAlumni:
			return core.NewValidationError(nil, core.FieldError{Field: "alumni_id", Error: err.Error()})
		}
		return errors.Wrap(err, "filing mentorship request")
	}
	return ctx.JSON(http.StatusCreated, req)
}

func (api *mentorshipApi) queryMine(ctx echo.Context) error {
	ctxUsr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	reqs, err := api.svc.QueryForStudent(ctx.Request().Context(), ctxUsr.ID)
	if err != nil {
		return errors.Wrap(err, "querying mentorship requests")
	}
	if reqs == nil {
		reqs = []mentorship.Request{}
	}
	return ctx.JSON(http.StatusOK, reqs)
}

func (api *mentorshipApi) queryRequests(ctx echo.Context) error {
	ctxUsr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	reqs, err := api.svc.QueryForAlumni(ctx.Request().Context(), ctxUsr.ID)
	if err != nil {
		return errors.Wrap(err, "querying mentorship requests")
	}
	if reqs == nil {
		reqs = []mentorship.Request{}
	}
	return ctx.JSON(http.StatusOK, reqs)
}

func (api *mentorshipApi) respond(ctx echo.Context) error {
	var data mentorship.Response
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Response")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	ctxUsr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	req, err := api.svc.Respond(ctx.Request().Context(), ctx.Param("id"), ctxUsr.ID, data)
	if err != nil {
		switch errors.Cause(err) {
		case mentorship.ErrNotFound:
			return errHttpNotFound
		case mentorship.ErrAlreadyClosed:
			return core.NewValidationError(errors.New("request has already been responded to"))
		}
		return errors.Wrap(err, "responding to mentorship request")
	}
	return ctx.JSON(http.StatusOK, req)
}
