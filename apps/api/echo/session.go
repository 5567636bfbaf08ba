package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/meshwar/roster/core"
	"github.com/meshwar/roster/core/auth"
)

type authApi struct {
	gate *auth.Gate
}

func registerAuthAPI(g *echo.Group, jwt echo.MiddlewareFunc, gate *auth.Gate, _ *core.Config) {
	api := authApi{gate: gate}

	ag := g.Group("/auth")
	ag.POST("/login", api.login)
	ag.POST("/logout", api.logout, jwt)
}

func (api *authApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	role, err := api.gate.Login(data.Username, data.Password)
	if err != nil {
		if err == auth.ErrInvalidCredentials {
			return errInvalidCredentials
		}
		return errors.Wrap(err, "logging in")
	}

	token, err := GenerateToken(GetSessionClaims(data.Username, role))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token, Role: role})
}

func (api *authApi) logout(ctx echo.Context) error {
	api.gate.Logout()
	return ctx.NoContent(http.StatusNoContent)
}

type (
	LoginRequest struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token string `json:"token"`
		Role  string `json:"role"`
	}
)

func (lr *LoginRequest) Validate() error {
	lr.Username = core.CleanString(lr.Username)
	return core.Validate.Struct(lr)
}
