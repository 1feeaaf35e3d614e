package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/alumniconnect/alumniconnect/core"
	"github.com/alumniconnect/alumniconnect/core/feed"
)

type feedApi struct {
	svc      *feed.Service
	validate *validator.Validate
}

func registerFeedAPI(g *echo.Group, sessionMW echo.MiddlewareFunc, opts *Options) {
	api := feedApi{
		svc:      opts.FeedSvc,
		validate: opts.Validate,
	}

	fg := g.Group("/feed", sessionMW)
	fg.GET("", api.query)
	fg.POST("", api.create)
	fg.DELETE("/:id", api.destroy)
}

func (api *feedApi) create(ctx echo.Context) error {
	var data feed.NewPost
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewPost")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	ctxUsr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	post, err := api.svc.Publish(ctx.Request().Context(), data, ctxUsr.ID)
	if err != nil {
		return errors.Wrap(err, "publishing post")
	}
	return ctx.JSON(http.StatusCreated, post)
}

func (api *feedApi) query(ctx echo.Context) error {
	filter := new(feed.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []feed.Post{})
	}
	filter.Clean()
	ordering := new(Ordering)
	ordering.Bind(ctx)

	posts, err := api.svc.Query(ctx.Request().Context(), filter, ordering.Orderings)
	if err != nil {
		return errors.Wrap(err, "querying posts")
	}
	if posts == nil {
		posts = []feed.Post{}
	}

	paging := new(Pagination)
	paging.Bind(ctx)
	if paging.Enabled() {
		return ctx.JSON(http.StatusOK, core.Paginate(posts, paging.Page, paging.PageSize))
	}
	return ctx.JSON(http.StatusOK, posts)
}

func (api *feedApi) destroy(ctx echo.Context) error {
	ctxUsr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	reqCtx := ctx.Request().Context()
	post, err := api.svc.GetByID(reqCtx, ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == feed.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding post by ID")
	}

	// authors delete their own posts; admins moderate any
	if post.AuthorID != ctxUsr.ID && !ctxUsr.IsAdmin() {
		return errHttpForbidden
	}

	if err := api.svc.Delete(reqCtx, post.ID); err != nil {
		return errors.Wrap(err, "deleting post")
	}
	return ctx.NoContent(http.StatusNoContent)
}
