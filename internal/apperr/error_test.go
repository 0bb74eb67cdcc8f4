package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := Wrap(cause, "could not connect", http.StatusBadGateway)

	assert.Equal(t, "could not connect", err.Message())
	assert.Equal(t, http.StatusBadGateway, err.StatusCode())
	assert.Equal(t, "could not connect: dial tcp: connection refused", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestErrorWithoutStatus(t *testing.T) {
	err := &Error{msg: "boom"}
	assert.Equal(t, http.StatusInternalServerError, err.StatusCode())
	assert.Equal(t, "boom", err.Error())
}

func TestFrom(t *testing.T) {
	bad := BadRequest("token not provided")
	wrapped := fmt.Errorf("handler: %w", bad)

	assert.Same(t, bad, From(wrapped))

	generic := From(errors.New("nil pointer"))
	assert.Equal(t, MsgInternal, generic.Message())
	assert.Equal(t, http.StatusInternalServerError, generic.StatusCode())
}
