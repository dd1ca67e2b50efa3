package retry

import (
	"context"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/quarrydb/native-connector-go/app/server/config"
	"github.com/quarrydb/native-connector-go/common"
)

type Operation func() error

type Retrier interface {
	Run(ctx context.Context, logger *zap.Logger, op Operation) error
}

type backoffFactory func() *backoff.ExponentialBackOff

type retrierDefault struct {
	retriableErrorChecker ErrorChecker
	backoffFactory        backoffFactory
}

func (r *retrierDefault) Run(ctx context.Context, logger *zap.Logger, op Operation) error {
	var attempts int

	return backoff.Retry(backoff.Operation(func() error {
		attempts++

		err := op()
		if err != nil {
			if r.retriableErrorChecker(err) {
				logger.Warn("retriable error occurred", zap.Error(err), zap.Int("attempts", attempts))

				return err
			}

			return backoff.Permanent(err)
		}

		return nil
	}), backoff.WithContext(r.backoffFactory(), ctx))
}

func NewRetrierFromConfig(cfg *config.ExponentialBackoffConfig, retriableErrorChecker ErrorChecker) Retrier {
	return &retrierDefault{
		retriableErrorChecker: retriableErrorChecker,
		backoffFactory: func() *backoff.ExponentialBackOff {
			b := backoff.NewExponentialBackOff()
			b.MaxElapsedTime = common.MustDurationFromString(cfg.MaxElapsedTime)
			b.InitialInterval = common.MustDurationFromString(cfg.InitialInterval)
			b.MaxInterval = common.MustDurationFromString(cfg.MaxInterval)
			b.RandomizationFactor = cfg.RandomizationFactor
			b.Multiplier = cfg.Multiplier
			b.Reset()

			return b
		},
	}
}

func NewRetrierNoop() Retrier {
	return &retrierDefault{
		retriableErrorChecker: ErrorCheckerNoop,
		backoffFactory: func() *backoff.ExponentialBackOff {
			return backoff.NewExponentialBackOff()
		},
	}
}

// RetrierSet groups the retriers applied on the different phases of
// the interaction with an external data source.
type RetrierSet struct {
	MakeConnection Retrier
	Query          Retrier
}

func NewRetrierSetNoop() *RetrierSet {
	return &RetrierSet{
		MakeConnection: NewRetrierNoop(),
		Query:          NewRetrierNoop(),
	}
}
