package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "vehicle not found", NotFoundError{Resource: "vehicle"}.Error())
	assert.Equal(t, "end_date: is before start_date", ValidationError{Field: "end_date", Msg: "is before start_date"}.Error())
	assert.Equal(t, "bad filter", ValidationError{Msg: "bad filter"}.Error())
	assert.Equal(t, "export conflict: busy", ConflictError{Resource: "export", Msg: "busy"}.Error())
}

func TestErrorKindsSurviveWrapping(t *testing.T) {
	cause := errors.New("duplicate entry")
	conflict := fmt.Errorf("create: %w", ConflictError{Resource: "vehicle", Msg: "taken", Err: cause})

	assert.True(t, IsConflict(conflict))
	assert.ErrorIs(t, conflict, cause)
	assert.False(t, IsNotFound(conflict))
	assert.True(t, IsNotFound(fmt.Errorf("get: %w", NotFoundError{Resource: "vehicle"})))
	assert.True(t, IsValidation(ValidationError{Msg: "x"}))
	assert.False(t, IsValidation(ErrNotConnected))
}
