package handler

import (
	"errors"
	"net/http"

	"vibestack/internal/token"
	"vibestack/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type SuccessResponse struct {
	Message string `json:"message"`
}

// usecase/tokenのエラーをHTTPへ。具体的な失敗理由は外に出さない。
func writeAuthError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, usecase.ErrValidation):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation error"})

	case errors.Is(err, usecase.ErrEmailAlreadyExists),
		errors.Is(err, usecase.ErrUsernameTaken):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: "conflict"})

	case errors.Is(err, usecase.ErrIdentityInactive):
		return c.JSON(http.StatusForbidden, ErrorResponse{Error: "forbidden"})

	case errors.Is(err, usecase.ErrInvalidCredentials),
		errors.Is(err, usecase.ErrIdentityNotFound),
		errors.Is(err, usecase.ErrRefreshTokenInvalid),
		errors.Is(err, usecase.ErrRefreshTokenReplayed),
		errors.Is(err, token.ErrInvalidSignature),
		errors.Is(err, token.ErrMalformedToken),
		errors.Is(err, token.ErrWrongTokenType),
		errors.Is(err, token.ErrTokenExpired):
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})

	default:
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}

// /auth 配下のAPI
type AuthHandler struct {
	uc *usecase.AuthUsecase
}

// DI
func NewAuthHandler(uc *usecase.AuthUsecase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// 認証ルートを登録
func (h *AuthHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/auth/register", h.Register)
	e.POST("/auth/login", h.Login)
	e.POST("/auth/refresh", h.Refresh)
	e.POST("/auth/logout", h.Logout)
}

// RegisterはPOST /auth/registerのハンドラ
func (h *AuthHandler) Register(c echo.Context) error {
	var req usecase.AuthRegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation error"})
	}

	out, err := h.uc.Register(c.Request().Context(), req)
	if err != nil {
		return writeAuthError(c, err)
	}

	return c.JSON(http.StatusCreated, out)
}

// LoginはPOST /auth/login のハンドラ。
func (h *AuthHandler) Login(c echo.Context) error {
	var req usecase.AuthLoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation error"})
	}

	// User-Agentを取得（refreshtokenに紐付ける）
	userAgent := c.Request().Header.Get("User-Agent")

	out, err := h.uc.Login(c.Request().Context(), req, userAgent)
	if err != nil {
		return writeAuthError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// RefreshはPOST /auth/refresh のハンドラ。
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation error"})
	}

	userAgent := c.Request().Header.Get("User-Agent")

	out, err := h.uc.Refresh(c.Request().Context(), req.RefreshToken, userAgent)
	if err != nil {
		return writeAuthError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

// LogoutはPOST /auth/logout のハンドラ。提示されたrefreshを失効させる。
func (h *AuthHandler) Logout(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation error"})
	}

	if err := h.uc.Logout(c.Request().Context(), req.RefreshToken); err != nil {
		return writeAuthError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: "logout success"})
}
