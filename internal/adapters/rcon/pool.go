package rcon

import (
	"context"

	"github.com/gorcon/rcon"
)

// maxPoolSize bounds concurrent RCON connections (spec.md §4.6).
const maxPoolSize = 15

// connection is the subset of *rcon.Conn the pool needs, so tests can swap
// in a fake transport without opening a real TCP socket.
type connection interface {
	Execute(command string) (string, error)
	Close() error
}

type dialer func() (connection, error)

func dialGorcon(address, password string) dialer {
	return func() (connection, error) {
		return rcon.Dial(address, password)
	}
}

// pool is a bounded semaphore-gated pool of RCON connections: at most `size`
// connections are ever open at once, idle ones are reused, and acquire
// blocks (or respects ctx) once the pool is saturated.
type pool struct {
	dial dialer
	sem  chan struct{}
	idle chan connection
}

func newPool(dial dialer, size int) *pool {
	return &pool{
		dial: dial,
		sem:  make(chan struct{}, size),
		idle: make(chan connection, size),
	}
}

func (p *pool) acquire(ctx context.Context) (connection, error) {
	select {
	case conn := <-p.idle:
		return conn, nil
	default:
	}

	select {
	case conn := <-p.idle:
		return conn, nil
	case p.sem <- struct{}{}:
		conn, err := p.dial()
		if err != nil {
			<-p.sem
			return nil, err
		}
		return conn, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (p *pool) release(conn connection) {
	select {
	case p.idle <- conn:
	default:
		conn.Close()
		<-p.sem
	}
}

func (p *pool) discard(conn connection) {
	conn.Close()
	select {
	case <-p.sem:
	default:
	}
}
