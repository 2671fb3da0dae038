package web

import (
	"log/slog"
	"net/http"
	"time"

	"yatube/pkg/logger"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// RegisterRoutes mounts the HTML pages on r.
func RegisterRoutes(r chi.Router, h *Handlers) {
	r.Get("/", h.Index)
	r.Get("/group/{slug}/", h.GroupPosts)
	r.Get("/profile/{username}/", h.Profile)
	r.Get("/posts/{id}/", h.PostDetail)

	r.Get("/create/", h.CreatePostForm)
	r.Post("/create/", h.CreatePost)
	r.Get("/posts/{id}/edit/", h.EditPostForm)
	r.Post("/posts/{id}/edit/", h.EditPost)

	r.Route("/auth", func(r chi.Router) {
		r.Get("/signup/", h.SignUpForm)
		r.Post("/signup/", h.SignUp)
		r.Get("/login/", h.LoginForm)
		r.Post("/login/", h.Login)
		r.Post("/logout/", h.Logout)
	})

	r.Get("/healthz", h.Healthz)
	r.NotFound(h.NotFound)
}

// RequestLogger puts a request scoped logger into the context and logs every
// finished request.
func RequestLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			reqLog := log.With("request_id", middleware.GetReqID(r.Context()))
			next.ServeHTTP(ww, r.WithContext(logger.WithLogger(r.Context(), reqLog)))

			reqLog.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
			)
		})
	}
}
