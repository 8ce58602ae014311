package realtime

import (
	"errors"
	"time"

	apperrors "github.com/dnachavez/ecowaste-sub001/pkg/errors"
	"github.com/dnachavez/ecowaste-sub001/pkg/logger"
)

// Bus is the process-wide fan-out hub. Engine components publish snapshots
// here; the socket bridge and any in-process consumer subscribe.
var Bus = NewHub()

const retryDelay = 50 * time.Millisecond

// WithRetry runs a store write, retrying transient failures a bounded number
// of times before surfacing TransportError. Engine errors (validation,
// conflict, not-found) pass through untouched; retrying those would repeat
// a decision, not a transmission.
func WithRetry(attempts int, op func() error) error {
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for i := 0; i < attempts; i++ {
		err = op()
		if err == nil {
			return nil
		}
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return err
		}
		if i < attempts-1 {
			logger.Warn().Err(err).Int("attempt", i+1).Msg("store write failed, retrying")
			time.Sleep(retryDelay)
		}
	}
	logger.Error().Err(err).Int("attempts", attempts).Msg("store write exhausted retries")
	return apperrors.Transport("write failed: " + err.Error())
}
