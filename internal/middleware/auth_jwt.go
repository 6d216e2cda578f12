package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"vibestack/internal/repository"
	"vibestack/internal/token"

	"github.com/labstack/echo/v4"
)

const (
	CtxUserIDKey = "user_id" // int64
	CtxUserKey   = "user"    // *model.User
	CtxClaimsKey = "claims"  // *token.Claims
)

type errorResponse struct {
	Error string `json:"error"`
}

func errorJSON(msg string) errorResponse {
	return errorResponse{Error: msg}
}

// bearerAuth用のJWT検証ミドルウェア。
// トークン検証後にDBのユーザーを再解決する。停止・削除済みは401。
// どのチェックに落ちたかは応答に出さない（内部区別はログ用）。
func AuthJWT(verifier *token.Verifier, users repository.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			//Authorizationヘッダを取得
			authz := c.Request().Header.Get("Authorization")
			if authz == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			//Bearer形式か確認してtokenを抜く
			parts := strings.SplitN(authz, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}
			rawToken := strings.TrimSpace(parts[1])
			if rawToken == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			//accessトークンとして検証する
			claims, err := verifier.Verify(rawToken, token.TypeAccess, time.Now())
			if err != nil {
				c.Logger().Debugf("access token rejected: %v", err)
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			//subを取り出す
			userID, err := strconv.ParseInt(claims.Subject, 10, 64)
			if err != nil || userID <= 0 {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			//DBから最新のuserを取得する。発行後に停止されたトークンは通さない。
			user, err := users.FindByID(c.Request().Context(), userID)
			if err != nil {
				if errors.Is(err, repository.ErrUserNotFound) {
					return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
				}
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}
			if !user.IsActive {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			//contextへ保存
			c.Set(CtxUserIDKey, userID)
			c.Set(CtxUserKey, user)
			c.Set(CtxClaimsKey, claims)

			return next(c)
		}
	}
}
