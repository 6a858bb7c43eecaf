package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/chamadaweb/chamada/core/user"
)

var (
	msgLoggedIn      = "Login realizado com sucesso"
	msgRegistered    = "Cadastro realizado com sucesso! Aguarde aprovação do administrador."
	msgPasswordReset = "Nova senha temporária gerada com sucesso. Use a senha temporária para fazer login."
)

type authApi struct {
	svc        *user.Service
	validate   *validator.Validate
	translator ut.Translator
}

func registerAuthAPI(g *echo.Group, svc *user.Service, validate *validator.Validate, translator ut.Translator) {
	api := authApi{
		svc:        svc,
		validate:   validate,
		translator: translator,
	}

	ag := g.Group("/auth")
	ag.POST("/login", api.login)
	ag.POST("/register", api.register)
	ag.POST("/reset", api.resetPassword)
}

func (api *authApi) login(ctx echo.Context) error {
	var data user.LoginCredentials
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginCredentials")
	}
	if err := data.Validate(api.validate, api.translator); err != nil {
		return err
	}

	usr, err := api.svc.Login(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "logging in")
	}
	return ctx.JSON(http.StatusOK, UserResponse{User: usr, Message: msgLoggedIn})
}

func (api *authApi) register(ctx echo.Context) error {
	var data user.NewUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewUser")
	}
	if err := data.Validate(api.validate, api.translator); err != nil {
		return err
	}

	usr, err := api.svc.Register(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "registering user")
	}
	return ctx.JSON(http.StatusOK, UserResponse{User: usr, Message: msgRegistered})
}

func (api *authApi) resetPassword(ctx echo.Context) error {
	var data user.PasswordResetRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to PasswordResetRequest")
	}
	if err := data.Validate(api.validate, api.translator); err != nil {
		return err
	}

	tmpPwd, err := api.svc.ResetPassword(ctx.Request().Context(), data.Email)
	if err != nil {
		return errors.Wrap(err, "resetting password")
	}
	return ctx.JSON(http.StatusOK, PasswordResetResponse{
		Message:      msgPasswordReset,
		TempPassword: tmpPwd,
		Email:        data.Email,
	})
}
