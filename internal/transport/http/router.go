package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Stefan-Allen/fileconverter/internal/transport/http/handlers"
)

func NewRouter(
	httpHandlers *handlers.HTTPHandlers,
) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", httpHandlers.Healthz)
	r.Get("/catalog", httpHandlers.Catalog)

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", httpHandlers.CreateSession)

		r.Route("/{sessionID}", func(r chi.Router) {
			r.Get("/", httpHandlers.GetSession)
			r.Delete("/", httpHandlers.DeleteSession)

			r.Put("/file", httpHandlers.UploadFile)
			r.Get("/file", httpHandlers.GetFile)

			r.Put("/size", httpHandlers.SelectSize)
			r.Patch("/size/custom", httpHandlers.EditCustomSize)
			r.Put("/format", httpHandlers.SelectFormat)

			r.Post("/convert", httpHandlers.Convert)
		})
	})

	return r
}
