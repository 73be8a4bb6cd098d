package httpx

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
)

type CircuitBreaker interface {
	Execute(fn func() error) error
	State() string
}

// StateChangeFunc is called on every breaker transition.
type StateChangeFunc func(name, from, to string)

type BreakerConfig struct {
	Name string
	// OpenFor is how long the breaker stays open before probing.
	OpenFor time.Duration
	// TripAfter consecutive failures open the breaker.
	TripAfter uint32
	OnChange  StateChangeFunc
}

type breaker struct {
	cb *gobreaker.CircuitBreaker
}

// NewCircuitBreaker builds a breaker that lets a single probe through while
// half open. Context cancellation from the caller never counts as a
// failure.
func NewCircuitBreaker(cfg BreakerConfig) CircuitBreaker {
	tripAfter := cfg.TripAfter
	if tripAfter == 0 {
		tripAfter = 1
	}
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: 1,
		Timeout:     cfg.OpenFor,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= tripAfter
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	}
	if cfg.OnChange != nil {
		settings.OnStateChange = func(name string, from, to gobreaker.State) {
			cfg.OnChange(name, from.String(), to.String())
		}
	}
	return &breaker{cb: gobreaker.NewCircuitBreaker(settings)}
}

func (b *breaker) Execute(fn func() error) error {
	_, err := b.cb.Execute(func() (_ interface{}, err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic recovered: %v", r)
			}
		}()
		return nil, fn()
	})
	if err != nil {
		return fmt.Errorf("breaker (%s): %w", b.cb.Name(), err)
	}
	return nil
}

func (b *breaker) State() string {
	return b.cb.State().String()
}

// IsOpen reports whether err came from the breaker refusing the call.
func IsOpen(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
