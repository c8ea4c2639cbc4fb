package config

import (
	"time"

	logrus "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

// NewCircuitBreaker creates a circuit breaker with standard settings for an
// external gateway. The name parameter uniquely identifies the instance.
func NewCircuitBreaker(name string) *gobreaker.CircuitBreaker {
	var timeout time.Duration

	// The payment gateway is on the request path of application submission,
	// so it recovers faster than the advisory mail gateway.
	switch name {
	case "MPesa":
		timeout = time.Second * 15
	default:
		timeout = time.Second * 30
	}

	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    time.Second * 10,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			// Open circuit after 3 consecutive failures
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logrus.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("circuit breaker state change")
		},
	})
}
