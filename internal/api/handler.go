package api

import (
	"context"
	_ "embed"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"tempmailgen/internal/admin"
	"tempmailgen/internal/apperr"
	"tempmailgen/internal/domain"
	"tempmailgen/internal/identity"
	"tempmailgen/internal/logging"
	"tempmailgen/internal/mailbox"
	"tempmailgen/internal/redisstore"
)

const (
	ServiceName = "TempMail Generator"
	Version     = "2.0"

	msgCreateFailed = "could not create the temporary email, please try again in a few moments"
	msgCheckFailed  = "failed to check emails, please try again"
	msgNoToken      = "token not provided"

	tokenLogPrefix = 10
)

//go:embed web/index.html
var indexHTML []byte

// StatsRecorder receives usage events. Implementations must be safe for
// concurrent use.
type StatsRecorder interface {
	Incr(ctx context.Context, event string, n int64) error
}

// Options wires the public handlers. Mailbox is required; Identity defaults to
// a generator on the runtime random source.
type Options struct {
	Identity *identity.Generator
	Mailbox  mailbox.Client
	// Stats is optional.
	Stats StatsRecorder
	// Admin mounts the operator endpoints when set.
	Admin *admin.Handler
	// Metrics is served on /metrics when set.
	Metrics http.Handler
	Logger  *zap.Logger
}

// Handler serves the account generator endpoints.
type Handler struct {
	identity *identity.Generator
	mailbox  mailbox.Client
	stats    StatsRecorder
	admin    *admin.Handler
	metrics  http.Handler
	log      *zap.Logger
}

func New(opts Options) *Handler {
	h := &Handler{
		identity: opts.Identity,
		mailbox:  opts.Mailbox,
		stats:    opts.Stats,
		admin:    opts.Admin,
		metrics:  opts.Metrics,
		log:      logging.Component(opts.Logger, "api"),
	}

	if h.identity == nil {
		h.identity = identity.New(nil)
	}

	return h
}

func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(indexHTML)
}

type healthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}

func (h *Handler) health(r *http.Request) (any, error) {
	return healthResponse{
		Status:  "healthy",
		Service: ServiceName,
		Version: Version,
	}, nil
}

func (h *Handler) generateAccount(r *http.Request) (any, error) {
	ctx := r.Context()
	h.log.Info("generating new account")

	cred := h.identity.Credential()

	inbox, err := h.mailbox.CreateInbox(ctx)
	if err != nil {
		h.record(ctx, redisstore.EventAccountsFailed, 1)
		return nil, apperr.Wrap(err, msgCreateFailed, http.StatusInternalServerError)
	}

	h.record(ctx, redisstore.EventAccountsCreated, 1)
	h.log.Info("account generated", zap.String("email", inbox.Address))

	return domain.Account{
		Username: cred.Username,
		Password: cred.Password,
		Email:    inbox.Address,
		Token:    inbox.Token,
	}, nil
}

type readFailure struct {
	Error string `json:"error"`
}

func (h *Handler) checkInbox(r *http.Request) (any, error) {
	ctx := r.Context()

	token := chi.URLParam(r, "token")
	if t, err := url.PathUnescape(token); err == nil {
		token = t
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return nil, apperr.BadRequest(msgNoToken)
	}

	h.log.Info("checking emails", zap.String("token", tokenPrefix(token)))

	contents, err := h.mailbox.FetchMessages(ctx, token)
	h.record(ctx, redisstore.EventInboxChecks, 1)
	if err != nil {
		// Provider read failures are answered with 200 and an error body.
		var aerr *apperr.Error
		if errors.As(err, &aerr) {
			h.log.Warn("inbox read failed",
				zap.String("token", tokenPrefix(token)),
				zap.Int("status", aerr.StatusCode()),
				zap.Error(err),
			)
			return readFailure{Error: aerr.Message()}, nil
		}
		return nil, apperr.Wrap(err, msgCheckFailed, http.StatusInternalServerError)
	}

	contents.Normalize()

	if n := len(contents.Emails); n > 0 {
		h.record(ctx, redisstore.EventMessagesSeen, int64(n))
	}

	return contents, nil
}

func (h *Handler) record(ctx context.Context, event string, n int64) {
	if h.stats == nil {
		return
	}

	if err := h.stats.Incr(ctx, event, n); err != nil {
		h.log.Warn("failed to record usage", zap.String("event", event), zap.Error(err))
	}
}

func tokenPrefix(token string) string {
	if len(token) <= tokenLogPrefix {
		return token + "..."
	}
	return token[:tokenLogPrefix] + "..."
}
