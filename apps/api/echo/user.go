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
	msgUserApproved = "Usuário aprovado com sucesso"
	msgUserRejected = "Usuário rejeitado e removido do sistema"
	msgUserCreated  = "Usuário criado com sucesso"
	msgUserUpdated  = "Usuário atualizado com sucesso"
	msgUserDeleted  = "Usuário excluído com sucesso"
)

type userApi struct {
	svc        *user.Service
	validate   *validator.Validate
	translator ut.Translator
}

func registerUserAPI(g *echo.Group, svc *user.Service, validate *validator.Validate, translator ut.Translator) {
	api := userApi{
		svc:        svc,
		validate:   validate,
		translator: translator,
	}

	ug := g.Group("/users")
	ug.GET("", api.queryApproved)
	ug.POST("", api.create)
	ug.GET("/pending", api.queryPending)
	ug.POST("/approve/:id", api.approve)
	ug.POST("/reject/:id", api.reject)
	ug.PUT("/:id", api.update)
	ug.DELETE("/:id", api.destroy)
}

func (api *userApi) query(ctx echo.Context, status string) error {
	users, err := api.svc.Query(ctx.Request().Context(), user.QueryFilter{Status: status})
	if err != nil {
		return errors.Wrap(err, "querying users")
	}
	return ctx.JSON(http.StatusOK, UsersResponse{Users: users})
}

func (api *userApi) queryApproved(ctx echo.Context) error {
	return api.query(ctx, user.StatusApproved)
}

func (api *userApi) queryPending(ctx echo.Context) error {
	return api.query(ctx, user.StatusPending)
}

func (api *userApi) approve(ctx echo.Context) error {
	if err := api.svc.Approve(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "approving user")
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: msgUserApproved})
}

func (api *userApi) reject(ctx echo.Context) error {
	if err := api.svc.Reject(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "rejecting user")
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: msgUserRejected})
}

func (api *userApi) create(ctx echo.Context) error {
	var data user.NewUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewUser")
	}
	if err := data.Validate(api.validate, api.translator); err != nil {
		return err
	}

	usr, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating user")
	}
	return ctx.JSON(http.StatusOK, UserResponse{User: usr, Message: msgUserCreated})
}

func (api *userApi) update(ctx echo.Context) error {
	var data user.UpdateUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateUser")
	}
	if err := data.Validate(api.validate, api.translator); err != nil {
		return err
	}

	if err := api.svc.Update(ctx.Request().Context(), ctx.Param("id"), data); err != nil {
		return errors.Wrap(err, "updating user")
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: msgUserUpdated})
}

func (api *userApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting user")
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: msgUserDeleted})
}
