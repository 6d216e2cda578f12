package server

import (
	"strings"

	"vibestack/internal/config"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// ルート登録できるハンドラの約束
type Handler interface {
	RegisterRoutes(e *echo.Echo)
}

// New はechoインスタンスを組み立てる。
// リクエストログ・リカバリ・CORSは全ルート共通。
func New(cfg config.Config, handlers ...Handler) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomw.Recover())
	e.Use(echomw.Logger())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: splitOrigins(cfg.AllowedOrigins),
	}))

	for _, h := range handlers {
		h.RegisterRoutes(e)
	}

	return e
}

// Start はサーバーを起動する。
func Start(e *echo.Echo, addr string) error {
	return e.Start(addr)
}

func splitOrigins(s string) []string {
	parts := strings.Split(s, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			origins = append(origins, p)
		}
	}
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return origins
}
