package groq

import (
	"time"

	"github.com/Tanveersultana125/co-teacher-backend/utils/logger"
	"github.com/sony/gobreaker/v2"
)

func newBreaker(model string, failures uint32, openTimeout time.Duration, log *logger.Logger) *gobreaker.CircuitBreaker[*ChatResponse] {
	return gobreaker.NewCircuitBreaker[*ChatResponse](gobreaker.Settings{
		Name:        "groq:" + model,
		MaxRequests: 1,
		Timeout:     openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		IsSuccessful: func(err error) bool {
			return !countsAsFailure(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	})
}
