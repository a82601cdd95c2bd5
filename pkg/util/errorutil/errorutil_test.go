package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainError(t *testing.T) {
	t.Run("passes domain errors through wrapping", func(t *testing.T) {
		err := fmt.Errorf("create movement: %w", NewValidationError("bad dates", nil))
		de := ToDomainError(err)
		require.NotNil(t, de)
		assert.Equal(t, "VALIDATION_FAILED", de.Code)
		assert.Equal(t, http.StatusBadRequest, de.HTTPStatus)
		assert.True(t, IsValidation(err))
	})

	t.Run("maps not found", func(t *testing.T) {
		de := ToDomainError(fmt.Errorf("delete staff: %w", ErrNotFound))
		assert.Equal(t, http.StatusNotFound, de.HTTPStatus)
	})

	t.Run("unknown errors become internal", func(t *testing.T) {
		de := ToDomainError(errors.New("boom"))
		assert.Equal(t, "INTERNAL_ERROR", de.Code)
		assert.False(t, IsValidation(errors.New("boom")))
	})

	t.Run("nil stays nil", func(t *testing.T) {
		assert.Nil(t, ToDomainError(nil))
		assert.NoError(t, MapError(nil))
	})
}
