package actions

import (
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
	"github.com/goliatone/go-router/flash"
	"github.com/google/uuid"
)

// RegisterAccountActionRoutes mounts the token-bearing account endpoints.
func RegisterAccountActionRoutes[T any](app router.Router[T], opts ...AccountActionsControllerOption) {

	controller := NewAccountActionsController(opts...)

	app.
		Get(fmt.Sprintf("%s/:token", controller.Routes.Confirm), controller.ConfirmExecute).
		SetName("account-confirm.get")

	app.
		Get(fmt.Sprintf("%s/:token", controller.Routes.ResetPassword), controller.ResetPasswordForm).
		SetName("account-pwd-reset.get")
	app.
		Post(fmt.Sprintf("%s/:token", controller.Routes.ResetPassword), controller.ResetPasswordExecute).
		SetName("account-pwd-reset.post")

	app.
		Get(fmt.Sprintf("%s/:token", controller.Routes.ChangeEmail), controller.ChangeEmailExecute).
		SetName("account-change-email.get")
}

type AccountActionsControllerRoutes struct {
	Confirm       string
	ResetPassword string
	ChangeEmail   string
}

type AccountActionsControllerViews struct {
	ResetPassword string
}

type AccountActionsController struct {
	Debug        bool
	Logger       Logger
	Repo         RepositoryManager
	Tokens       TokenDecoder
	Config       Config
	Routes       *AccountActionsControllerRoutes
	Views        *AccountActionsControllerViews
	CurrentUser  UserResolver
	ErrorHandler router.ErrorHandler
}

type AccountActionsControllerOption func(*AccountActionsController) *AccountActionsController

func NewAccountActionsController(opts ...AccountActionsControllerOption) *AccountActionsController {
	c := &AccountActionsController{
		Logger:       defLogger{},
		ErrorHandler: defaultErrHandler,
		Routes: &AccountActionsControllerRoutes{
			Confirm:       "/auth/confirm",
			ResetPassword: "/auth/reset-password",
			ChangeEmail:   "/auth/change-email",
		},
		Views: &AccountActionsControllerViews{
			ResetPassword: "reset_password",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Repo == nil {
		panic("Missing RepositoryManager in account actions controller...")
	}

	if c.Tokens == nil {
		panic("Missing TokenDecoder in account actions controller...")
	}

	if c.Config == nil {
		panic("Missing Config in account actions controller...")
	}

	if c.CurrentUser == nil {
		c.CurrentUser = func(ctx router.Context) (*User, error) {
			user, _ := RouterUser(ctx, "")
			return user, nil
		}
	}

	return c
}

func (a *AccountActionsController) ConfirmExecute(ctx router.Context) error {
	user, err := a.CurrentUser(ctx)
	if err != nil || user == nil {
		return flash.WithError(ctx, router.ViewContext{
			"system_message": "Please log in to confirm your account",
		}).Redirect("/login", fiber.StatusSeeOther)
	}

	if user.Confirmed {
		return RedirectBack(ctx, a.Config.GetHostURL(), a.Config.GetRedirectFallback())
	}

	input := ValidateActionMessage{
		UserID:    user.ID,
		Token:     ctx.Param("token", ""),
		Operation: OperationConfirm,
	}

	validateAction := NewValidateActionHandler(a.Repo, a.Tokens)

	if err := validateAction.Execute(ctx.Context(), input); err != nil {
		a.Logger.Error("confirm account error: ", "error", err)
		return flash.WithError(ctx, router.ViewContext{
			"error_message":  err.Error(),
			"system_message": "Invalid or expired token",
		}).Redirect(a.Config.GetRedirectFallback(), fiber.StatusSeeOther)
	}

	return flash.WithSuccess(ctx, router.ViewContext{
		"system_message": "Account confirmed",
	}).Redirect(a.Config.GetRedirectFallback(), fiber.StatusSeeOther)
}

func (a *AccountActionsController) ResetPasswordForm(ctx router.Context) error {
	return ctx.Render(a.Views.ResetPassword, router.ViewContext{
		"errors": nil,
		"token":  ctx.Param("token", ""),
	})
}

// ResetPasswordPayload holds values for password reset
type ResetPasswordPayload struct {
	UserID          string `form:"user_id" json:"user_id"`
	Password        string `form:"password" json:"password"`
	ConfirmPassword string `form:"confirm_password" json:"confirm_password"`
}

// Validate will validate the payload
func (r ResetPasswordPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.UserID,
			validation.Required,
		),
		validation.Field(
			&r.Password,
			validation.Required,
			validation.Length(10, 100),
		),
		validation.Field(
			&r.ConfirmPassword,
			validation.Required,
			validation.Length(10, 100),
			validation.By(ValidateStringEquals(r.Password)),
		),
	)
}

func (a *AccountActionsController) ResetPasswordExecute(ctx router.Context) error {

	token := ctx.Param("token", "")

	errs := map[string]string{}
	payload := new(ResetPasswordPayload)

	if err := ctx.Bind(payload); err != nil {
		errs["form"] = "Failed to parse form"
		a.Logger.Error("reset password parse payload: ", "error", err)
		return flash.WithError(ctx, router.ViewContext{
			"error_message":  err.Error(),
			"system_message": "Error parsing body",
		}).Status(fiber.StatusBadRequest).Render(a.Views.ResetPassword, router.ViewContext{
			"errors": errs,
			"token":  token,
		})
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Error("reset password validate payload: ", "error", err)
		errs = FormatValidationErrorToMap(err)
		return flash.WithError(ctx, router.ViewContext{
			"error_message":  err.Error(),
			"system_message": "Error validating payload",
		}).Render(a.Views.ResetPassword, router.ViewContext{
			"validation": errs,
			"token":      token,
		})
	}

	userID, err := uuid.Parse(payload.UserID)
	if err != nil {
		errs["user_id"] = "invalid identifier"
		return flash.WithError(ctx, router.ViewContext{
			"system_message": "Invalid or expired token",
		}).Render(a.Views.ResetPassword, router.ViewContext{
			"errors": errs,
			"token":  token,
		})
	}

	var res *ValidateActionResponse

	input := ValidateActionMessage{
		UserID:      userID,
		Token:       token,
		Operation:   OperationResetPassword,
		NewPassword: payload.Password,
		OnResponse: func(resp *ValidateActionResponse) {
			res = resp
		},
	}

	validateAction := NewValidateActionHandler(a.Repo, a.Tokens)

	if err := validateAction.Execute(ctx.Context(), input); err != nil {
		a.Logger.Error("reset password error: ", "error", err)
		errs["validation"] = err.Error()
		return ctx.Render(a.Views.ResetPassword, router.ViewContext{
			"errors": errs,
			"token":  token,
		})
	}

	if a.Debug {
		fmt.Println("======= PASSWORD RESET ======")
		fmt.Println(print.MaybePrettyJSON(res))
		fmt.Println("=============================")
	}

	return flash.WithSuccess(ctx, router.ViewContext{
		"system_message": "Password updated, please log in",
	}).Redirect("/login", fiber.StatusSeeOther)
}

func (a *AccountActionsController) ChangeEmailExecute(ctx router.Context) error {
	user, err := a.CurrentUser(ctx)
	if err != nil || user == nil {
		return flash.WithError(ctx, router.ViewContext{
			"system_message": "Please log in to change your email",
		}).Redirect("/login", fiber.StatusSeeOther)
	}

	input := ValidateActionMessage{
		UserID:    user.ID,
		Token:     ctx.Param("token", ""),
		Operation: OperationChangeEmail,
	}

	validateAction := NewValidateActionHandler(a.Repo, a.Tokens)

	if err := validateAction.Execute(ctx.Context(), input); err != nil {
		a.Logger.Error("change email error: ", "error", err)
		return flash.WithError(ctx, router.ViewContext{
			"error_message":  err.Error(),
			"system_message": "Invalid or expired token",
		}).Redirect(a.Config.GetRedirectFallback(), fiber.StatusSeeOther)
	}

	return flash.WithSuccess(ctx, router.ViewContext{
		"system_message": "Email address updated",
	}).Redirect(a.Config.GetRedirectFallback(), fiber.StatusSeeOther)
}

// ValidateStringEquals will check that both values match
func ValidateStringEquals(str string) validation.RuleFunc {
	return func(value any) error {
		s, _ := value.(string)
		if s != str {
			return errors.New("values must match")
		}
		return nil
	}
}

// FormatValidationErrorToMap flattens ozzo field errors into a simple map
// keyed by field name, for template rendering.
func FormatValidationErrorToMap(err error) map[string]string {
	out := map[string]string{}
	if err == nil {
		return out
	}

	var verrs validation.Errors
	if errors.As(err, &verrs) {
		for field, ferr := range verrs {
			out[field] = ferr.Error()
		}
		return out
	}

	out["validation"] = err.Error()
	return out
}

func defaultErrHandler(c router.Context, err error) error {
	return c.Render("errors/500", router.ViewContext{
		"message": err.Error(),
	})
}
