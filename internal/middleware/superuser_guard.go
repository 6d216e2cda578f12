package middleware

import (
	"net/http"

	"vibestack/internal/domain/model"

	"github.com/labstack/echo/v4"
)

//contextに入っているユーザーがsuperuserかどうかを確認します。

func SuperuserGuard() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rawUser := c.Get(CtxUserKey)
			user, ok := rawUser.(*model.User)
			if !ok || user == nil {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			//一般ユーザーは拒否、superuserだけ許可
			if !user.IsSuperuser {
				return c.JSON(http.StatusForbidden, errorJSON("not enough permissions"))
			}

			return next(c)
		}
	}
}
