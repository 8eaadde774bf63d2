package rcon

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	closed int32
}

func (f *fakeConn) Execute(command string) (string, error) { return "ok", nil }
func (f *fakeConn) Close() error                            { atomic.StoreInt32(&f.closed, 1); return nil }

func TestPoolReusesReleasedConnections(t *testing.T) {
	dialed := int32(0)
	dial := func() (connection, error) {
		atomic.AddInt32(&dialed, 1)
		return &fakeConn{}, nil
	}
	p := newPool(dial, 2)

	conn, err := p.acquire(context.Background())
	require.NoError(t, err)
	p.release(conn)

	conn2, err := p.acquire(context.Background())
	require.NoError(t, err)
	p.release(conn2)

	assert.EqualValues(t, 1, atomic.LoadInt32(&dialed), "second acquire should reuse the idle connection")
}

func TestPoolBoundsConcurrentConnections(t *testing.T) {
	dial := func() (connection, error) { return &fakeConn{}, nil }
	p := newPool(dial, 1)

	first, err := p.acquire(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = p.acquire(ctx)
	require.Error(t, err, "pool of size 1 must block a second acquire until release")

	p.release(first)
}

func TestPoolDiscardFreesSemaphoreSlot(t *testing.T) {
	dial := func() (connection, error) { return &fakeConn{}, nil }
	p := newPool(dial, 1)

	conn, err := p.acquire(context.Background())
	require.NoError(t, err)
	p.discard(conn)

	conn2, err := p.acquire(context.Background())
	require.NoError(t, err)
	p.release(conn2)
}
