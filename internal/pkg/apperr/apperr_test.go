package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CodeNotFound, CodeOf(NotFound("missing")))
	assert.Equal(t, CodeForbidden, CodeOf(Forbidden("no")))

	// Wrapped coded errors keep their code.
	wrapped := fmt.Errorf("context: %w", StateConflict("busy"))
	assert.Equal(t, CodeStateConflict, CodeOf(wrapped))

	// Unknown errors collapse to INTERNAL.
	assert.Equal(t, CodeInternal, CodeOf(errors.New("boom")))
}

func TestMessageOfNeverLeaksInternal(t *testing.T) {
	assert.Equal(t, "missing", MessageOf(NotFound("missing")))
	assert.Equal(t, "internal error", MessageOf(Internal(errors.New("dsn password=hunter2"))))
	assert.Equal(t, "internal error", MessageOf(errors.New("raw driver error")))
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusUnauthorized, HTTPStatus(CodeAuthInvalid))
	assert.Equal(t, http.StatusUnauthorized, HTTPStatus(CodeAuthUserInactive))
	assert.Equal(t, http.StatusForbidden, HTTPStatus(CodeForbidden))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(CodeNotFound))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(CodeValidation))
	assert.Equal(t, http.StatusConflict, HTTPStatus(CodeStateConflict))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(CodeInternal))
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("cause")
	err := Wrap(CodeAuthInvalid, "bad token", cause)
	assert.ErrorIs(t, err, cause)
	assert.True(t, Is(err, CodeAuthInvalid))
	assert.False(t, Is(err, CodeForbidden))
}
