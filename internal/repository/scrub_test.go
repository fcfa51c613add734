package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStore_Scrub(t *testing.T) {
	s := &Store{opts: Options{Password: "hunter2"}}
	cause := errors.New("access denied for admin:hunter2@tcp(db:3306) using hunter2")

	err := fmt.Errorf("%w: %w", ErrStoreUnavailable, s.scrub(cause))

	assert.NotContains(t, err.Error(), "hunter2")
	assert.Contains(t, err.Error(), "access denied")
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.ErrorIs(t, err, cause)
	assert.NoError(t, s.scrub(nil))
}
