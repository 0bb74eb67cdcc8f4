package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"tempmailgen/internal/apperr"
)

// endpoint is a handler returning either a value to encode as JSON or an
// error.
type endpoint func(r *http.Request) (any, error)

func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(h.requestID)
	r.Use(h.requestLogger)
	r.Use(h.recoverer)

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	})
	r.Use(c.Handler)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		apperr.Write(w, apperr.New("endpoint not found", http.StatusNotFound))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		apperr.Write(w, apperr.New("method not allowed", http.StatusMethodNotAllowed))
	})

	r.Get("/", h.index)
	r.Get("/health", h.wrap(h.health))
	r.Get("/gerar_conta", h.wrap(h.generateAccount))
	r.Get("/verificar_emails/", h.wrap(h.checkInbox))
	r.Get("/verificar_emails/{token}", h.wrap(h.checkInbox))

	if h.metrics != nil {
		r.Handle("/metrics", h.metrics)
	}

	if h.admin != nil {
		r.Route("/admin", func(r chi.Router) {
			r.Post("/login", h.wrap(h.admin.Login))
			r.With(h.admin.AuthMiddleware).Get("/stats", h.wrap(h.admin.Stats))
		})
	}

	return r
}

// wrap adapts an endpoint to http.HandlerFunc. Errors that are not an
// *apperr.Error are logged and answered with a generic 500.
func (h *Handler) wrap(e endpoint) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp, err := e(r)
		if err != nil {
			h.writeError(w, r, err)
			return
		}

		if err := apperr.WriteJSON(w, http.StatusOK, resp); err != nil {
			h.log.Error("failed to encode response", zap.Error(err), zap.String("request_id", RequestID(r.Context())))
		}
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	aerr := apperr.From(err)
	fields := []zap.Field{
		zap.Int("status", aerr.StatusCode()),
		zap.Error(err),
		zap.String("request_id", RequestID(r.Context())),
	}

	if aerr.StatusCode() >= http.StatusInternalServerError {
		h.log.Error("request failed", fields...)
	} else {
		h.log.Warn("request rejected", fields...)
	}

	if err := apperr.Write(w, aerr); err != nil {
		h.log.Error("failed to encode error response", zap.Error(err))
	}
}
