package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatus_PerKind(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"validation", Validation("score out of range"), http.StatusBadRequest},
		{"conflict", Conflict("only one review allowed"), http.StatusConflict},
		{"not_found", NotFound("title not found"), http.StatusNotFound},
		{"unauthenticated", Unauthenticated("invalid confirmation code"), http.StatusUnauthorized},
		{"forbidden", Forbidden("moderator role required"), http.StatusForbidden},
		{"internal", Internal("query failed", errors.New("disk full")), http.StatusInternalServerError},
		{"untyped", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, HTTPStatus(tc.err))
		})
	}
}

func TestHTTPStatus_WrappedError(t *testing.T) {
	// Kind must survive fmt.Errorf wrapping up the call stack.
	err := fmt.Errorf("create review: %w", Conflict("only one review allowed"))

	assert.Equal(t, http.StatusConflict, HTTPStatus(err))
	assert.True(t, IsKind(err, KindConflict))
}

func TestMessage_HidesInternalDetail(t *testing.T) {
	internal := Internal("query failed", errors.New("pq: connection reset"))
	assert.Equal(t, "internal server error", Message(internal))

	public := NotFound("genre not found")
	assert.Equal(t, "genre not found", Message(public))
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := Internal("mailer unavailable", cause)

	require.ErrorIs(t, err, cause)
}
