package websocket

import "sync/atomic"

const DefaultMaxConnections = 100

type LimiterOption func(*ConnectionLimiter)

func WithMaxConnections(n int) LimiterOption {
	return func(l *ConnectionLimiter) {
		if n > 0 {
			l.slots = make(chan struct{}, n)
		}
	}
}

// ConnectionLimiter caps the number of concurrently open websocket sessions.
type ConnectionLimiter struct {
	slots  chan struct{}
	active atomic.Int64
}

func NewConnectionLimiter(opts ...LimiterOption) *ConnectionLimiter {
	l := &ConnectionLimiter{slots: make(chan struct{}, DefaultMaxConnections)}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// TryAcquire takes a slot without blocking.
func (l *ConnectionLimiter) TryAcquire() bool {
	select {
	case l.slots <- struct{}{}:
		l.active.Add(1)
		return true
	default:
		return false
	}
}

func (l *ConnectionLimiter) Release() {
	select {
	case <-l.slots:
		l.active.Add(-1)
	default:
	}
}

func (l *ConnectionLimiter) Active() int {
	return int(l.active.Load())
}

func (l *ConnectionLimiter) Capacity() int {
	return cap(l.slots)
}
