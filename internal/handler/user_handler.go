package handler

import (
	"errors"
	"net/http"
	"strconv"

	"vibestack/internal/middleware"
	"vibestack/internal/repository"
	"vibestack/internal/token"
	"vibestack/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /users 配下のAPI
type UserHandler struct {
	uc       *usecase.UserUsecase
	verifier *token.Verifier
	users    repository.UserRepository
}

// DI
func NewUserHandler(uc *usecase.UserUsecase, verifier *token.Verifier, users repository.UserRepository) *UserHandler {
	return &UserHandler{uc: uc, verifier: verifier, users: users}
}

// ユーザールートを登録。全てbearer必須、管理系はsuperuser限定。
func (h *UserHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/users", middleware.AuthJWT(h.verifier, h.users))

	g.GET("/me", h.Me)
	g.PATCH("/me", h.UpdateMe)
	g.POST("/me/password", h.ChangePassword)

	admin := g.Group("", middleware.SuperuserGuard())
	admin.GET("", h.List)
	admin.GET("/:id", h.Get)
	admin.DELETE("/:id", h.Delete)
	admin.POST("/:id/force-logout", h.ForceLogout)
}

func writeUserError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, usecase.ErrIdentityNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "user not found"})
	case errors.Is(err, usecase.ErrIdentityInactive):
		return c.JSON(http.StatusForbidden, ErrorResponse{Error: "forbidden"})
	case errors.Is(err, usecase.ErrValidation):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation error"})
	case errors.Is(err, usecase.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	case errors.Is(err, usecase.ErrEmailAlreadyExists),
		errors.Is(err, usecase.ErrUsernameTaken):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: "conflict"})
	default:
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}

// AuthJWTが入れたuser_idを取り出す
func currentUserID(c echo.Context) (int64, bool) {
	raw := c.Get(middleware.CtxUserIDKey)
	id, ok := raw.(int64)
	if !ok || id <= 0 {
		return 0, false
	}
	return id, true
}

// MeはGET /users/me のハンドラ。
func (h *UserHandler) Me(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.Me(c.Request().Context(), userID)
	if err != nil {
		return writeUserError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

// UpdateMeはPATCH /users/me のハンドラ。
func (h *UserHandler) UpdateMe(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req usecase.UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation error"})
	}

	out, err := h.uc.UpdateMe(c.Request().Context(), userID, req)
	if err != nil {
		return writeUserError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

// ChangePasswordはPOST /users/me/password のハンドラ。
func (h *UserHandler) ChangePassword(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req usecase.ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation error"})
	}

	if err := h.uc.ChangePassword(c.Request().Context(), userID, req); err != nil {
		return writeUserError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: "password changed"})
}

// ListはGET /users のハンドラ（superuser限定）。
func (h *UserHandler) List(c echo.Context) error {
	skip := 0
	if v := c.QueryParam("skip"); v != "" {
		s, err := strconv.Atoi(v)
		if err != nil || s < 0 {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid skip"})
		}
		skip = s
	}

	limit := 100
	if v := c.QueryParam("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil || l <= 0 {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
		}
		limit = l
	}

	out, err := h.uc.List(c.Request().Context(), skip, limit)
	if err != nil {
		return writeUserError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

// GetはGET /users/:id のハンドラ（superuser限定）。
func (h *UserHandler) Get(c echo.Context) error {
	id, err := parseUserID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, uerr := h.uc.Get(c.Request().Context(), id)
	if uerr != nil {
		return writeUserError(c, uerr)
	}

	return c.JSON(http.StatusOK, out)
}

// DeleteはDELETE /users/:id のハンドラ（superuser限定・論理削除）。
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := parseUserID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if uerr := h.uc.Deactivate(c.Request().Context(), id); uerr != nil {
		return writeUserError(c, uerr)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: "user deleted"})
}

// ForceLogoutはPOST /users/:id/force-logout のハンドラ（superuser限定）。
func (h *UserHandler) ForceLogout(c echo.Context) error {
	id, err := parseUserID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if uerr := h.uc.ForceLogout(c.Request().Context(), id); uerr != nil {
		return writeUserError(c, uerr)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: "sessions revoked"})
}

func parseUserID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.ErrBadRequest
	}
	return id, nil
}
