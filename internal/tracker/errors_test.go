package tracker

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindValidation, KindOf(Validation("bad input")))
	assert.Equal(t, KindForbidden, KindOf(Forbidden("no")))
	assert.Equal(t, KindNotFound, KindOf(NotFound("missing")))
	assert.Equal(t, KindConflict, KindOf(Conflict("already done")))
	assert.Equal(t, KindInternal, KindOf(Internal("boom", errors.New("db down"))))
	assert.Equal(t, KindInternal, KindOf(errors.New("plain error")))
}

func TestKindSurvivesWrapping(t *testing.T) {
	wrapped := fmt.Errorf("submitting report: %w", NotFound("task 9 not found"))
	assert.Equal(t, KindNotFound, KindOf(wrapped))
}

func TestInternalKeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Internal("error updating task", cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "error updating task")
	assert.Contains(t, err.Error(), "connection reset")
}
