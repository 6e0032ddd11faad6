package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodes(t *testing.T) {
	t.Run("wrapped error keeps its code through fmt wrapping", func(t *testing.T) {
		base := New(CodeConflict, "document already bound")
		err := fmt.Errorf("bind: %w", base)

		assert.True(t, HasCode(err, CodeConflict))
		assert.Equal(t, "document already bound", MessageOf(err))
	})

	t.Run("uncoded errors are internal", func(t *testing.T) {
		assert.Equal(t, CodeInternal, CodeOf(errors.New("boom")))
		assert.Empty(t, MessageOf(errors.New("boom")))
	})

	t.Run("Wrap of nil is nil", func(t *testing.T) {
		assert.NoError(t, Wrap(nil, CodeInternal, "unused"))
	})

	t.Run("Wrap exposes the cause", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := Wrap(cause, CodeUnavailable, "citizen store unavailable")

		assert.ErrorIs(t, err, cause)
		assert.ErrorIs(t, err, New(CodeUnavailable, "any message"))
		assert.NotErrorIs(t, err, New(CodeInternal, "any message"))
	})
}
