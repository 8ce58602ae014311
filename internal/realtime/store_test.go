package realtime

import (
	stderrors "errors"
	"testing"

	"github.com/dnachavez/ecowaste-sub001/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestWithRetry_SucceedsEventually(t *testing.T) {
	calls := 0
	err := WithRetry(3, func() error {
		calls++
		if calls < 3 {
			return stderrors.New("connection reset")
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestWithRetry_SurfacesTransportAfterBudget(t *testing.T) {
	calls := 0
	err := WithRetry(3, func() error {
		calls++
		return stderrors.New("connection reset")
	})
	assert.ErrorIs(t, err, errors.ErrTransport)
	assert.Equal(t, 3, calls)
}

func TestWithRetry_EngineErrorsPassThrough(t *testing.T) {
	calls := 0
	err := WithRetry(3, func() error {
		calls++
		return errors.Conflict("lost a race")
	})
	assert.ErrorIs(t, err, errors.ErrConflict)
	assert.Equal(t, 1, calls, "engine errors must not be retried")
}
