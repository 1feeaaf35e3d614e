package echoapi

import (
	"net/http"
	"net/mail"
	"sort"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/alumniconnect/alumniconnect/core"
	"github.com/alumniconnect/alumniconnect/core/session"
	"github.com/alumniconnect/alumniconnect/core/user"
)

type userApi struct {
	conf       *core.Config
	svc        user.ServiceInterface
	sessionSvc *session.Service
	mailSvc    core.EmailService
	validate   *validator.Validate
	translator ut.Translator
}

func registerUserAPI(g *echo.Group, sessionMW echo.MiddlewareFunc, opts *Options) {
	api := userApi{
		conf:       opts.Conf,
		svc:        opts.UserSvc,
		sessionSvc: opts.SessionSvc,
		mailSvc:    opts.MailSvc,
		validate:   opts.Validate,
		translator: opts.Translator,
	}

	// un-authed endpoints
	// TODO: rate limit `/password-reset` & the login endpoints
	g.POST("/student/register", api.registerStudent)
	g.POST("/alumni/register", api.registerAlumni)
	g.POST("/student/login", api.loginStudent)
	g.POST("/alumni/login", api.loginAlumni)
	g.POST("/admin/login", api.loginAdmin)
	g.POST("/password-reset", api.resetPassword)
	g.POST("/password-reset-confirm", api.confirmPasswordReset)
	g.POST("/contact", api.contact)

	// identity probes; each requires its own portal role so a session
	// can never satisfy more than one of them
	g.GET("/student/me", api.me, sessionMW, studentMiddleware())
	g.GET("/alumni/me", api.me, sessionMW, alumniMiddleware())
	g.GET("/admin/me", api.me, sessionMW, adminMiddleware())

	g.POST("/student/logout", api.logout, sessionMW)
	g.POST("/alumni/logout", api.logout, sessionMW)
	g.POST("/admin/logout", api.logout, sessionMW)

	// admin user management
	ug := g.Group("/users", sessionMW, adminMiddleware())
	ug.GET("", api.query)
	ug.PUT("/:id", api.update)
	ug.DELETE("/:id", api.destroy)
	ug.DELETE("", api.destroyMultiple)
}

// Handlers

func (api *userApi) registerStudent(ctx echo.Context) error {
	var data user.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}
	if err := data.Validate(api.validate, api.svc); err != nil {
		return err
	}

	usr, err := api.svc.RegisterStudent(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "registering student")
	}
	return ctx.JSON(http.StatusCreated, usr)
}

func (api *userApi) registerAlumni(ctx echo.Context) error {
	var data user.NewAlumni
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAlumni")
	}
	if err := data.Validate(api.validate, api.svc); err != nil {
		return err
	}

	usr, err := api.svc.RegisterAlumni(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "registering alumni")
	}
	return ctx.JSON(http.StatusCreated, usr)
}

// login authenticates, requires the portal role and opens a session.
func (api *userApi) login(ctx echo.Context, roleCheck func(*user.User) bool) (user.User, error) {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return user.User{}, errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return user.User{}, err
	}

	reqCtx := ctx.Request().Context()
	usr, err := authenticate(reqCtx, data.Email, data.Password, api.svc)
	if err != nil {
		return user.User{}, err
	}
	if !roleCheck(&usr) {
		// wrong portal; treated as bad credentials so portals cannot
		// be used to enumerate each other's accounts
		return user.User{}, errAuthenticationFailed
	}

	sess, err := api.sessionSvc.Open(reqCtx, usr)
	if err != nil {
		return user.User{}, errors.Wrap(err, "opening session")
	}
	setSessionCookie(ctx, api.conf, sess.Token, sess.ExpiresAt)
	return usr, nil
}

func (api *userApi) loginStudent(ctx echo.Context) error {
	usr, err := api.login(ctx, (*user.User).IsStudent)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, usr)
}

func (api *userApi) loginAlumni(ctx echo.Context) error {
	usr, err := api.login(ctx, (*user.User).IsAlumni)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, usr)
}

func (api *userApi) loginAdmin(ctx echo.Context) error {
	usr, err := api.login(ctx, (*user.User).IsAdmin)
	if err != nil {
		return err
	}

	token, err := GenerateAdminToken(api.conf, usr)
	if err != nil {
		return errors.Wrap(err, "generating admin token")
	}
	return ctx.JSON(http.StatusOK, AdminLoginResponse{User: usr, Token: token})
}

func (api *userApi) me(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, usr)
}

func (api *userApi) logout(ctx echo.Context) error {
	if token, ok := ctx.Get(contextTokenKey).(string); ok {
		if err := api.sessionSvc.Close(ctx.Request().Context(), token); err != nil {
			return errors.Wrap(err, "closing session")
		}
	}
	clearSessionCookie(ctx, api.conf)
	return ctx.NoContent(http.StatusNoContent)
}

func (api *userApi) resetPassword(ctx echo.Context) error {
	var data PasswordResetRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to PasswordResetRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	if err := api.svc.RequestPasswordReset(ctx.Request().Context(), data.Email); !(err == nil || errors.Cause(err) == user.ErrNotFound) {
		// do not return errors to attackers
		ctx.Logger().Errorf("%+v", errors.Wrap(err, "requesting password reset"))
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{
		Success: "If the email address supplied is associated with an active account on this system, " +
			"an email will arrive in your inbox shortly with instructions to reset your password.",
	})
}

func (api *userApi) confirmPasswordReset(ctx echo.Context) error {
	var data user.ResetUserPassword
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ResetUserPassword")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	if err := api.svc.ResetPassword(ctx.Request().Context(), data); err != nil {
		return errors.Wrap(err, "resetting password")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "Password has been reset with the new password."})
}

func (api *userApi) contact(ctx echo.Context) error {
	var data ContactRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ContactRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	api.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Address: api.conf.ContactEmail}},
		Subject:      "Contact Form: " + data.Subject,
		TemplateName: "contact",
		TemplateData: data,
	})
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "Thank you for reaching out. We will get back to you shortly."})
}

func (api *userApi) query(ctx echo.Context) error {
	filter := new(user.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []user.User{})
	}
	filter.Clean()
	ordering := new(Ordering)
	ordering.Bind(ctx)

	users, err := api.svc.Query(ctx.Request().Context(), filter, ordering.Orderings)
	if err != nil {
		return errors.Wrap(err, "querying users")
	}
	if users == nil {
		users = []user.User{}
	}

	paging := new(Pagination)
	paging.Bind(ctx)
	if paging.Enabled() {
		return ctx.JSON(http.StatusOK, core.Paginate(users, paging.Page, paging.PageSize))
	}
	return ctx.JSON(http.StatusOK, users)
}

func (api *userApi) update(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	usr, err := api.svc.GetByID(reqCtx, ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding user by ID")
	}

	var data user.UpdateUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateUser")
	}
	if err := data.Validate(usr, api.validate, api.svc); err != nil {
		return err
	}

	// ctxUser cannot grant a role > their own max role
	ctxUsr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	if user.MaxRolePriority(data.Roles) > user.MaxRolePriority(ctxUsr.Roles) {
		return core.NewValidationError(nil, core.FieldError{Field: "roles", Error: "not enough rights to set these roles"})
	}

	usr, err = api.svc.Update(reqCtx, usr.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating user")
	}
	return ctx.JSON(http.StatusOK, usr)
}

func (api *userApi) destroy(ctx echo.Context) error {
	// ctxUser cannot delete themselves
	ctxUsr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	if ctx.Param("id") == ctxUsr.ID {
		return errHttpForbidden
	}

	if _, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id")); err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding user by ID")
	}
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting user")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *userApi) destroyMultiple(ctx echo.Context) error {
	var query DestroyMultipleRequest
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to DestroyMultipleRequest")
	}
	if query.IDs == nil {
		return ctx.NoContent(http.StatusNoContent)
	}

	// ctxUser cannot delete themselves
	ctxUsr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	sort.Strings(query.IDs)
	if i := sort.SearchStrings(query.IDs, ctxUsr.ID); i < len(query.IDs) {
		if match := query.IDs[i]; ctxUsr.ID == match {
			return errHttpForbidden
		}
	}

	if err := api.svc.Delete(ctx.Request().Context(), query.IDs...); err != nil {
		return errors.Wrap(err, "deleting users")
	}
	return ctx.NoContent(http.StatusNoContent)
}

type (
	LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	AdminLoginResponse struct {
		User  user.User  `json:"user"`
		Token AdminToken `json:"token"`
	}

	PasswordResetRequest struct {
		Email string `json:"email" validate:"required,email"`
	}

	ContactRequest struct {
		Name    string `json:"name" validate:"required"`
		Email   string `json:"email" validate:"required,email"`
		Subject string `json:"subject" validate:"required"`
		Message string `json:"message" validate:"required,max=5000"`
	}

	SuccessResponse struct {
		Success string `json:"success"`
	}

	DestroyMultipleRequest struct {
		IDs []string `query:"id"`
	}
)

func (lr *LoginRequest) Validate(validate *validator.Validate) error {
	lr.Email = core.CleanString(lr.Email, true /* lower */)
	return validate.Struct(lr)
}

func (pr *PasswordResetRequest) Validate(validate *validator.Validate) error {
	pr.Email = core.CleanString(pr.Email, true /* lower */)
	return validate.Struct(pr)
}

func (cr *ContactRequest) Validate(validate *validator.Validate) error {
	cr.Name = core.CleanString(cr.Name)
	cr.Email = core.CleanString(cr.Email, true /* lower */)
	cr.Subject = core.CleanString(cr.Subject)
	cr.Message = core.CleanString(cr.Message)
	return validate.Struct(cr)
}
