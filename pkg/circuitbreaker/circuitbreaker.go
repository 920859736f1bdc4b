package circuitbreaker

import (
	"errors"
	"sync"
	"time"
)

// ErrOpen is returned without calling the wrapped function while the breaker is open.
var ErrOpen = errors.New("circuit breaker is open")

type State string

const (
	StateClosed   State = "closed"
	StateOpen     State = "open"
	StateHalfOpen State = "half-open"
)

type Settings struct {
	Name string
	// MaxFailures consecutive failures open the breaker.
	MaxFailures int
	// Timeout is how long the breaker stays open before allowing a trial call.
	Timeout time.Duration
}

type CircuitBreaker struct {
	name        string
	maxFailures int
	timeout     time.Duration
	failures    int
	openedAt    time.Time
	state       State
	// generation changes on every state change; results of calls started in
	// an older generation are ignored.
	generation uint64
	probing    bool
	now        func() time.Time
	mu         sync.Mutex
}

func NewCircuitBreaker(settings Settings) *CircuitBreaker {
	if settings.MaxFailures <= 0 {
		settings.MaxFailures = 5
	}
	if settings.Timeout <= 0 {
		settings.Timeout = 30 * time.Second
	}
	return &CircuitBreaker{
		name:        settings.Name,
		maxFailures: settings.MaxFailures,
		timeout:     settings.Timeout,
		state:       StateClosed,
		now:         time.Now,
	}
}

func (cb *CircuitBreaker) Name() string { return cb.name }

// State reports the current state, moving open to half-open once the timeout elapsed.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.currentState()
}

func (cb *CircuitBreaker) currentState() State {
	if cb.state == StateOpen && cb.now().Sub(cb.openedAt) >= cb.timeout {
		cb.setState(StateHalfOpen)
	}
	return cb.state
}

func (cb *CircuitBreaker) setState(state State) {
	cb.state = state
	cb.generation++
	cb.probing = false
	cb.failures = 0
	if state == StateOpen {
		cb.openedAt = cb.now()
	}
}

// Execute runs fn unless the breaker is open. While half-open only one call
// is let through; the others get ErrOpen until it finishes.
func (cb *CircuitBreaker) Execute(fn func() error) error {
	generation, err := cb.before()
	if err != nil {
		return err
	}

	err = fn()
	cb.after(generation, err)
	return err
}

func (cb *CircuitBreaker) before() (uint64, error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.currentState() {
	case StateOpen:
		return 0, ErrOpen
	case StateHalfOpen:
		if cb.probing {
			return 0, ErrOpen
		}
		cb.probing = true
	}
	return cb.generation, nil
}

func (cb *CircuitBreaker) after(generation uint64, err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if generation != cb.generation {
		return
	}

	if err != nil {
		if cb.state == StateHalfOpen {
			cb.setState(StateOpen)
			return
		}
		cb.failures++
		if cb.failures >= cb.maxFailures {
			cb.setState(StateOpen)
		}
		return
	}

	if cb.state == StateHalfOpen {
		cb.setState(StateClosed)
		return
	}
	cb.failures = 0
}
