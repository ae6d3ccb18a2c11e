package serverhttp

import (
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"name-linker/internal/config"
	linkHnd "name-linker/internal/linkage/handler"
	"name-linker/internal/middleware"
	"name-linker/server/http/handlers"
)

func NewRouter(cfg config.Config, logger zerolog.Logger) *chi.Mux {
	r := chi.NewRouter()

	// порядок важен: recover -> requestID -> logging -> cors
	r.Use(middleware.Recover(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS(cfg.AllowOrigins))

	// health-check
	r.Get("/health", handlers.Health)
	r.Head("/health", handlers.Health)

	// основной эндпоинт; лимит тела только на загрузку таблиц
	r.With(middleware.LimitBytes(int64(cfg.MaxUploadMB) << 20)).
		Post("/link", linkHnd.Link(cfg, logger))

	return r
}
