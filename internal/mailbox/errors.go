package mailbox

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"tempmailgen/internal/apperr"
)

// Failure classes of a provider call. Errors returned by the client wrap
// exactly one of them and can be tested with errors.Is.
var (
	ErrTimeout     = errors.New("mail provider timed out")
	ErrUnreachable = errors.New("mail provider unreachable")
	ErrRejected    = errors.New("mail provider rejected the request")
	ErrMalformed   = errors.New("malformed mail provider response")
)

const (
	msgTimeout     = "timed out contacting the mail server"
	msgUnreachable = "could not connect to the mail server"
	msgMalformed   = "invalid response from the mail server"
)

func transportError(err error) error {
	var ne net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()) {
		return apperr.Wrap(fmt.Errorf("%w: %w", ErrTimeout, err), msgTimeout, http.StatusGatewayTimeout)
	}
	return apperr.Wrap(fmt.Errorf("%w: %w", ErrUnreachable, err), msgUnreachable, http.StatusBadGateway)
}

// rejectedError keeps the provider status when it is an error status so the
// caller can pass it through.
func rejectedError(msg string, status int) error {
	code := status
	if code < http.StatusBadRequest {
		code = http.StatusBadGateway
	}
	return apperr.Wrap(
		fmt.Errorf("%w: status %d", ErrRejected, status),
		fmt.Sprintf("%s (status: %d)", msg, status),
		code,
	)
}

func malformedError(err error) error {
	return apperr.Wrap(fmt.Errorf("%w: %w", ErrMalformed, err), msgMalformed, http.StatusBadGateway)
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, ErrUnreachable):
		return "unreachable"
	case errors.Is(err, ErrRejected):
		return "rejected"
	case errors.Is(err, ErrMalformed):
		return "malformed"
	default:
		return "error"
	}
}
