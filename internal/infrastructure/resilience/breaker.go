package resilience

import (
	"errors"
	"sync"
	"time"
)

var (
	ErrCircuitOpen     = errors.New("circuit breaker is open")
	ErrTooManyRequests = errors.New("too many requests in half-open state")
)

// State represents the circuit breaker state.
type State int

const (
	StateClosed State = iota
	StateHalfOpen
	StateOpen
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateHalfOpen:
		return "half-open"
	case StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// Settings configures breaker behavior.
type Settings struct {
	// FailureThreshold is the number of consecutive failures that trips
	// the circuit in closed state.
	FailureThreshold uint32
	// Cooldown is how long the circuit stays open before allowing probes.
	Cooldown time.Duration
	// HalfOpenMax is the number of probe requests allowed in half-open
	// state; that many consecutive successes close the circuit again.
	HalfOpenMax uint32
	// OnStateChange is called whenever the state changes.
	OnStateChange func(host string, from, to State)
}

// DefaultSettings tolerates the flakiness of third-party search sites:
// transient 5xx bursts are expected, sustained failure is not.
func DefaultSettings() Settings {
	return Settings{
		FailureThreshold: 6,
		Cooldown:         45 * time.Second,
		HalfOpenMax:      2,
	}
}

// Breaker implements the circuit breaker pattern for one host.
type Breaker struct {
	host     string
	settings Settings

	mu           sync.Mutex
	state        State
	consecFails  uint32
	consecOKs    uint32
	halfOpenBusy uint32
	openedAt     time.Time
}

// NewBreaker creates a breaker for one host.
func NewBreaker(host string, settings Settings) *Breaker {
	if settings.FailureThreshold == 0 {
		settings.FailureThreshold = 6
	}
	if settings.Cooldown == 0 {
		settings.Cooldown = 45 * time.Second
	}
	if settings.HalfOpenMax == 0 {
		settings.HalfOpenMax = 1
	}
	return &Breaker{host: host, settings: settings}
}

// Host returns the host this breaker guards.
func (b *Breaker) Host() string { return b.host }

// State returns the current state, applying cooldown transitions.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.currentState(time.Now())
}

// Allow reports whether a request may proceed. A granted request must be
// concluded with Success or Failure.
func (b *Breaker) Allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.currentState(time.Now()) {
	case StateOpen:
		return ErrCircuitOpen
	case StateHalfOpen:
		if b.halfOpenBusy >= b.settings.HalfOpenMax {
			return ErrTooManyRequests
		}
		b.halfOpenBusy++
	}
	return nil
}

// Success records a successful request.
func (b *Breaker) Success() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.consecFails = 0
	switch b.currentState(time.Now()) {
	case StateHalfOpen:
		if b.halfOpenBusy > 0 {
			b.halfOpenBusy--
		}
		b.consecOKs++
		if b.consecOKs >= b.settings.HalfOpenMax {
			b.setState(StateClosed)
		}
	default:
		b.consecOKs++
	}
}

// Failure records a failed request.
func (b *Breaker) Failure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.consecOKs = 0
	switch b.currentState(time.Now()) {
	case StateHalfOpen:
		if b.halfOpenBusy > 0 {
			b.halfOpenBusy--
		}
		b.setState(StateOpen)
	case StateClosed:
		b.consecFails++
		if b.consecFails >= b.settings.FailureThreshold {
			b.setState(StateOpen)
		}
	}
}

func (b *Breaker) currentState(now time.Time) State {
	if b.state == StateOpen && now.Sub(b.openedAt) >= b.settings.Cooldown {
		b.setState(StateHalfOpen)
	}
	return b.state
}

func (b *Breaker) setState(state State) {
	if b.state == state {
		return
	}
	prev := b.state
	b.state = state
	b.consecFails = 0
	b.consecOKs = 0
	b.halfOpenBusy = 0
	if state == StateOpen {
		b.openedAt = time.Now()
	}
	if b.settings.OnStateChange != nil {
		b.settings.OnStateChange(b.host, prev, state)
	}
}

// Group manages one breaker per host.
type Group struct {
	settings Settings

	mu       sync.Mutex
	breakers map[string]*Breaker
}

// NewGroup creates a breaker group with shared settings.
func NewGroup(settings Settings) *Group {
	return &Group{
		settings: settings,
		breakers: make(map[string]*Breaker),
	}
}

// For returns the breaker for a host, creating it on first use.
func (g *Group) For(host string) *Breaker {
	g.mu.Lock()
	defer g.mu.Unlock()

	if b, ok := g.breakers[host]; ok {
		return b
	}
	b := NewBreaker(host, g.settings)
	g.breakers[host] = b
	return b
}
