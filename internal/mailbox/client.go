package mailbox

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"tempmailgen/internal/domain"
	"tempmailgen/internal/logging"
)

const (
	DefaultTimeout = 10 * time.Second

	opCreateInbox   = "create_inbox"
	opFetchMessages = "fetch_messages"

	pathCreateInbox = "/v2/inbox/create"
	pathInbox       = "/v2/inbox"

	userAgent    = "tempmailgen"
	maxBodyBytes = 10 << 20
	maxLogBytes  = 512
)

// Client is the mail provider as seen by the request handlers.
type Client interface {
	CreateInbox(ctx context.Context) (*domain.Inbox, error)
	FetchMessages(ctx context.Context, token string) (*domain.Contents, error)
}

type Options struct {
	BaseURL string
	// APIKey is sent as a bearer credential on every call.
	APIKey string
	// Timeout bounds each call. Defaults to DefaultTimeout.
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *zap.Logger
	Metrics    *Metrics
}

// HTTPClient talks to the tempmail.lol v2 API. Calls are one-shot: a failure
// is returned as is, without retry.
type HTTPClient struct {
	baseURL       string
	authorization string
	timeout       time.Duration
	http          *http.Client
	log           *zap.Logger
	metrics       *Metrics
}

func New(opts Options) *HTTPClient {
	c := &HTTPClient{
		baseURL:       strings.TrimRight(opts.BaseURL, "/"),
		authorization: bearer(opts.APIKey),
		timeout:       opts.Timeout,
		http:          opts.HTTPClient,
		log:           logging.Component(opts.Logger, "mailbox"),
		metrics:       opts.Metrics,
	}

	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}

	if c.http == nil {
		c.http = &http.Client{}
	}

	return c
}

func bearer(key string) string {
	key = strings.TrimSpace(key)
	if strings.HasPrefix(key, "Bearer ") {
		return key
	}
	return "Bearer " + key
}

// CreateInbox asks the provider for a new inbox. Only a 201 response carrying
// both an address and a token counts as success.
func (c *HTTPClient) CreateInbox(ctx context.Context) (*domain.Inbox, error) {
	start := time.Now()
	inbox, err := c.createInbox(ctx)
	c.metrics.observe(opCreateInbox, err, time.Since(start))
	return inbox, err
}

func (c *HTTPClient) createInbox(ctx context.Context) (*domain.Inbox, error) {
	status, body, err := c.do(ctx, http.MethodPost, pathCreateInbox, nil)
	if err != nil {
		c.log.Error("connection error while creating inbox", zap.Error(err))
		return nil, err
	}

	if status != http.StatusCreated {
		c.log.Error("failed to create inbox",
			zap.Int("status", status),
			zap.String("response", excerpt(body)),
		)
		return nil, rejectedError("failed to create inbox", status)
	}

	var inbox domain.Inbox
	if err := json.Unmarshal(body, &inbox); err != nil {
		c.log.Error("failed to decode created inbox", zap.Error(err), zap.String("response", excerpt(body)))
		return nil, malformedError(err)
	}

	if inbox.Address == "" || inbox.Token == "" {
		c.log.Error("created inbox is missing address or token", zap.String("response", excerpt(body)))
		return nil, malformedError(errors.New("missing address or token"))
	}

	c.log.Info("inbox created", zap.String("address", inbox.Address))
	return &inbox, nil
}

// FetchMessages reads the inbox identified by token. Any 2xx response is a
// success; nothing is returned on failure.
func (c *HTTPClient) FetchMessages(ctx context.Context, token string) (*domain.Contents, error) {
	start := time.Now()
	contents, err := c.fetchMessages(ctx, token)
	c.metrics.observe(opFetchMessages, err, time.Since(start))
	return contents, err
}

func (c *HTTPClient) fetchMessages(ctx context.Context, token string) (*domain.Contents, error) {
	status, body, err := c.do(ctx, http.MethodGet, pathInbox, url.Values{"token": {token}})
	if err != nil {
		c.log.Error("connection error while fetching emails", zap.Error(err))
		return nil, err
	}

	if status < 200 || status > 299 {
		c.log.Error("failed to fetch emails",
			zap.Int("status", status),
			zap.String("response", excerpt(body)),
		)
		return nil, rejectedError("failed to fetch emails", status)
	}

	var contents domain.Contents
	if err := json.Unmarshal(body, &contents); err != nil {
		c.log.Error("failed to decode inbox contents", zap.Error(err), zap.String("response", excerpt(body)))
		return nil, malformedError(err)
	}

	if contents.Emails == nil {
		contents.Emails = []domain.Message{}
	}

	c.log.Info("emails fetched", zap.Int("count", len(contents.Emails)))
	return &contents, nil
}

func (c *HTTPClient) do(ctx context.Context, method, path string, query url.Values) (int, []byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return 0, nil, transportError(err)
	}

	req.Header.Set("Authorization", c.authorization)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, transportError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return 0, nil, transportError(err)
	}

	return resp.StatusCode, body, nil
}

func excerpt(body []byte) string {
	if len(body) > maxLogBytes {
		return string(body[:maxLogBytes]) + "..."
	}
	return string(body)
}
