package rcon

import (
	"context"
	"testing"
	"time"

	"github.com/andrescamacho/factoriobot/internal/domain/shared"
	"github.com/andrescamacho/factoriobot/internal/domain/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestScenarioFActionCompletion: injecting an ok completion for action_id=7
// lets the awaiting caller complete within the poll interval.
func TestScenarioFActionCompletion(t *testing.T) {
	mirror := world.New()
	clock := shared.NewMockClock(time.Time{})
	mirror.CreateAction(7)
	mirror.CompleteAction(7, true, "")

	awaiter := newActionAwaiter(mirror, clock)
	err := awaiter.await(context.Background(), 7)
	require.NoError(t, err)

	_, ok := mirror.Action(7)
	assert.False(t, ok, "completed action should be drained")
}

func TestActionAwaitSurfacesFailureMessage(t *testing.T) {
	mirror := world.New()
	clock := shared.NewMockClock(time.Time{})
	mirror.CreateAction(9)
	mirror.CompleteAction(9, false, "no path found")

	err := newActionAwaiter(mirror, clock).await(context.Background(), 9)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no path found")
}

func TestActionAwaitTimesOutWithoutBlockingRealTime(t *testing.T) {
	mirror := world.New()
	clock := shared.NewMockClock(time.Time{})
	mirror.CreateAction(1)

	start := time.Now()
	err := newActionAwaiter(mirror, clock).await(context.Background(), 1)
	elapsed := time.Since(start)

	require.Error(t, err)
	var timeoutErr *shared.TimeoutError
	assert.ErrorAs(t, err, &timeoutErr)
	assert.Less(t, elapsed, 2*time.Second, "MockClock.Sleep must not actually block")
}

func TestAwaitPathRequestReturnsStoredBody(t *testing.T) {
	mirror := world.New()
	clock := shared.NewMockClock(time.Time{})
	mirror.CompletePathRequest(3, `[{"x":1,"y":1}]`)

	body, err := newActionAwaiter(mirror, clock).awaitPathRequest(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, `[{"x":1,"y":1}]`, body)
}
