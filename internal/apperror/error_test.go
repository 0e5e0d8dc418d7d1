package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIs_MatchesByCode(t *testing.T) {
	err := fmt.Errorf("upsert: %w", Constraint("student_id", "unknown student"))

	assert.True(t, errors.Is(err, ErrConstraintViolation))
	assert.False(t, errors.Is(err, ErrStorageUnavailable))
}

func TestUnavailable_KeepsCause(t *testing.T) {
	cause := errors.New("disk I/O error")
	err := Unavailable(cause)

	assert.True(t, errors.Is(err, ErrStorageUnavailable))
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, http.StatusServiceUnavailable, err.HTTPStatus)
	assert.Contains(t, err.Error(), "disk I/O error")
}

func TestWrap_Nil(t *testing.T) {
	assert.Nil(t, Wrap(nil, CodeInternalError, "x", http.StatusInternalServerError))
}

func TestAs(t *testing.T) {
	c := Constraint("date", "malformed date")
	got := As(fmt.Errorf("ctx: %w", c))
	assert.Equal(t, "date", got.Field)
	assert.Equal(t, http.StatusBadRequest, got.HTTPStatus)

	plain := As(errors.New("boom"))
	assert.Equal(t, CodeInternalError, plain.Code)
	assert.Equal(t, http.StatusInternalServerError, plain.HTTPStatus)
}

func TestError_IncludesField(t *testing.T) {
	assert.Equal(t, "malformed date (date)", Constraint("date", "malformed date").Error())
}
