package errors

import (
	"fmt"
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError(t *testing.T) {
	t.Run("matches sentinel by code", func(t *testing.T) {
		err := MalformedRecordf("row %d: bad level", 3)

		assert.True(t, Is(err, ErrMalformedRecord))
		assert.False(t, Is(err, ErrValidation))
	})

	t.Run("matches through fmt wrapping", func(t *testing.T) {
		err := fmt.Errorf("load dataset: %w", MalformedRecord("bad"))

		assert.True(t, Is(err, ErrMalformedRecord))
	})

	t.Run("message includes cause", func(t *testing.T) {
		_, cause := strconv.Atoi("high")
		err := Wrap(cause, CodeMalformedRecord, "row 2: invalid RECOMMENDATION_LEVEL")

		assert.Contains(t, err.Error(), "row 2: invalid RECOMMENDATION_LEVEL")
		assert.Contains(t, err.Error(), "high")
		assert.ErrorIs(t, err, cause)
	})

	t.Run("with details keeps code", func(t *testing.T) {
		err := ErrValidation.WithDetails(map[string]string{"ingredients": "is required"})

		assert.Equal(t, CodeValidation, err.Code)
		assert.NotNil(t, err.Details)
		assert.Nil(t, ErrValidation.Details)
	})
}

func TestCodeHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, CodeValidation.HTTPStatus())
	assert.Equal(t, http.StatusNotFound, CodeNotFound.HTTPStatus())
	assert.Equal(t, http.StatusTooManyRequests, CodeRateLimited.HTTPStatus())
	assert.Equal(t, http.StatusServiceUnavailable, Unavailable("dataset not loaded").HTTPStatus())
	assert.Equal(t, http.StatusInternalServerError, CodeMalformedRecord.HTTPStatus())
	assert.Equal(t, http.StatusInternalServerError, CodeInternal.HTTPStatus())
}
