package retry

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/quarrydb/native-connector-go/app/server/config"
	"github.com/quarrydb/native-connector-go/common"
)

func TestRetry(t *testing.T) {
	cfg := &config.ExponentialBackoffConfig{
		InitialInterval:     "1ms",
		MaxInterval:         "5ms",
		RandomizationFactor: 0,
		Multiplier:          2,
		MaxElapsedTime:      "10ms",
	}

	t.Run("retriable", func(t *testing.T) {
		retrier := NewRetrierFromConfig(cfg, func(_ error) bool {
			// all errors are retriable
			return true
		})

		logger := common.NewTestLogger(t)
		retriableErr := errors.New("some retriable error")

		err := retrier.Run(context.Background(), logger, func() error {
			return retriableErr
		})

		require.True(t, errors.Is(err, retriableErr))
	})

	t.Run("non-retriable", func(t *testing.T) {
		retrier := NewRetrierFromConfig(cfg, ErrorCheckerNoop)

		logger := common.NewTestLogger(t)
		permanentErr := errors.New("some permanent error")

		var attempts int

		err := retrier.Run(context.Background(), logger, func() error {
			attempts++

			return permanentErr
		})

		require.True(t, errors.Is(err, permanentErr))
		require.Equal(t, 1, attempts)
	})

	t.Run("success after retries", func(t *testing.T) {
		retrier := NewRetrierFromConfig(cfg, func(_ error) bool { return true })

		logger := common.NewTestLogger(t)

		var attempts int

		err := retrier.Run(context.Background(), logger, func() error {
			attempts++
			if attempts < 3 {
				return errors.New("not yet")
			}

			return nil
		})

		require.NoError(t, err)
		require.Equal(t, 3, attempts)
	})
}

func TestErrorCheckerMakeConnectionCommon(t *testing.T) {
	require.False(t, ErrorCheckerMakeConnectionCommon(errors.New("arbitrary error")))
	require.True(t, ErrorCheckerMakeConnectionCommon(
		&net.DNSError{Err: "server misbehaving", IsTemporary: true},
	))

	// Driver-level connection failures are retriable, constraint
	// violations are not.
	require.True(t, ErrorCheckerMakeConnectionCommon(
		fmt.Errorf("connect: %w", &pgconn.ConnectError{Config: &pgconn.Config{}}),
	))
	require.False(t, ErrorCheckerMakeConnectionCommon(
		&pgconn.PgError{Code: pgerrcode.UniqueViolation},
	))
}
