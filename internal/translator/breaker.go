package translator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
)

// BreakerSettings configures the circuit breaker around a backend.
type BreakerSettings struct {
	// MaxFailures is the number of consecutive failures that opens the circuit.
	// Zero disables the breaker.
	MaxFailures uint32
	// Cooldown is how long the circuit stays open before a probe call.
	Cooldown time.Duration
}

// Breaker wraps a TranslationService so that a backend which keeps failing is
// short-circuited instead of being hammered on every request. Each call is
// still a single attempt.
type Breaker struct {
	svc TranslationService
	cb  *gobreaker.CircuitBreaker
}

// WithBreaker returns svc unchanged when settings.MaxFailures is zero.
func WithBreaker(svc TranslationService, settings BreakerSettings) TranslationService {
	if settings.MaxFailures == 0 {
		return svc
	}
	return NewBreaker(svc, settings)
}

func NewBreaker(svc TranslationService, settings BreakerSettings) *Breaker {
	maxFailures := settings.MaxFailures
	if maxFailures == 0 {
		maxFailures = 5
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        svc.Name(),
		MaxRequests: 1,
		Timeout:     settings.Cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("translation backend circuit changed state", "service", name, "from", from.String(), "to", to.String())
		},
	})

	return &Breaker{svc: svc, cb: cb}
}

func (b *Breaker) Name() string {
	return b.svc.Name()
}

// State reports the current circuit state.
func (b *Breaker) State() gobreaker.State {
	return b.cb.State()
}

func (b *Breaker) Translate(ctx context.Context, req TranslateRequest) (*ServiceResult, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		res, err := b.svc.Translate(ctx, req)
		if err == nil && res != nil && res.Error != "" {
			err = fmt.Errorf("%s", res.Error)
		}
		return res, err
	})

	res, _ := out.(*ServiceResult)
	if err != nil {
		if res == nil {
			res = &ServiceResult{ServiceName: b.Name()}
		}
		if res.Error == "" {
			res.Error = err.Error()
		}
		return res, fmt.Errorf("%s: %w", b.Name(), err)
	}
	return res, nil
}

func (b *Breaker) IsAvailable(ctx context.Context) error {
	if b.cb.State() == gobreaker.StateOpen {
		return fmt.Errorf("%s: %w", b.Name(), gobreaker.ErrOpenState)
	}
	return b.svc.IsAvailable(ctx)
}

func (b *Breaker) SupportedLanguages(ctx context.Context) ([]string, error) {
	return b.svc.SupportedLanguages(ctx)
}

// MaxChars reports the limit of the wrapped service.
func (b *Breaker) MaxChars() int {
	return MaxCharsOf(b.svc)
}
