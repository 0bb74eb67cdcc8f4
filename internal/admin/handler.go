package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"tempmailgen/internal/apperr"
	"tempmailgen/internal/logging"
	"tempmailgen/internal/redisstore"
)

const (
	defaultStatsDays = 7
	maxStatsDays     = 90
)

// StatsReader is the read side of the usage counters.
type StatsReader interface {
	Summary(ctx context.Context, days int) (*redisstore.Summary, error)
}

type Handler struct {
	sessions *Sessions
	stats    StatsReader
	validate *validator.Validate
	log      *zap.Logger
}

// NewHandler builds the operator endpoints. stats may be nil when usage
// counters are disabled.
func NewHandler(password, jwtSecret string, stats StatsReader, log *zap.Logger) (*Handler, error) {
	sessions, err := NewSessions(password, jwtSecret)
	if err != nil {
		return nil, err
	}

	return &Handler{
		sessions: sessions,
		stats:    stats,
		validate: validator.New(),
		log:      logging.Component(log, "admin"),
	}, nil
}

type ctxKey struct{}

// ClaimsFrom returns the operator session attached by AuthMiddleware.
func ClaimsFrom(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(ctxKey{}).(*Claims)
	return c, ok
}

// AuthMiddleware admits requests carrying a session token with the stats
// scope and attaches its claims to the request context.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			apperr.Write(w, apperr.New("missing authorization header", http.StatusUnauthorized))
			return
		}

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			apperr.Write(w, apperr.New("invalid authorization header format", http.StatusUnauthorized))
			return
		}

		claims, err := h.sessions.Verify(token, ScopeStats)
		if err != nil {
			h.log.Warn("rejected operator token", zap.String("ip", r.RemoteAddr))
			apperr.Write(w, apperr.New("invalid token", http.StatusUnauthorized))
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, claims)))
	})
}

type loginRequest struct {
	Password string `json:"password" validate:"required"`
}

func (h *Handler) Login(r *http.Request) (any, error) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, apperr.BadRequest("invalid request body")
	}

	if err := h.validate.Struct(req); err != nil {
		return nil, apperr.BadRequest("password is required")
	}

	if err := h.sessions.CheckPassword(req.Password); err != nil {
		h.log.Warn("failed operator login", zap.String("ip", r.RemoteAddr))
		return nil, apperr.New("invalid password", http.StatusUnauthorized)
	}

	session, err := h.sessions.Issue()
	if err != nil {
		return nil, apperr.Internal(err)
	}

	h.log.Info("operator session issued", zap.Time("expires_at", session.ExpiresAt))
	return session, nil
}

// Stats returns the usage counters of the last ?days=N days.
func (h *Handler) Stats(r *http.Request) (any, error) {
	if h.stats == nil {
		return nil, apperr.New("usage stats are not enabled", http.StatusServiceUnavailable)
	}

	days := defaultStatsDays
	if d := r.URL.Query().Get("days"); d != "" {
		n, err := strconv.Atoi(d)
		if err != nil {
			return nil, apperr.BadRequest("days must be a number")
		}
		days = min(max(n, 1), maxStatsDays)
	}

	summary, err := h.stats.Summary(r.Context(), days)
	if err != nil {
		return nil, apperr.Wrap(err, "failed to read usage stats", http.StatusInternalServerError)
	}

	if claims, ok := ClaimsFrom(r.Context()); ok {
		h.log.Info("usage stats read", zap.String("subject", claims.Subject), zap.Int("days", days))
	}

	return summary, nil
}
