package rcon

import (
	"context"
	"errors"
	"testing"

	"github.com/andrescamacho/factoriobot/internal/domain/spatial"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestScenarioDPathRetryRotation: a provider that fails four times then
// succeeds is invoked 5 times total, each call's goal rotated 90° clockwise
// from the previous.
func TestScenarioDPathRetryRotation(t *testing.T) {
	var goals []spatial.Position
	attempt := 0
	provider := func(ctx context.Context, goal spatial.Position) ([]spatial.Position, error) {
		goals = append(goals, goal)
		attempt++
		if attempt <= 4 {
			return nil, errors.New("blocked")
		}
		return []spatial.Position{goal}, nil
	}

	start := spatial.Position{X: 0, Y: 0}
	goal := spatial.Position{X: 10, Y: 0}
	path, err := retryPathWithRotation(context.Background(), start, goal, 10, provider)

	require.NoError(t, err)
	require.NotEmpty(t, path)
	assert.Equal(t, 5, attempt)
	require.Len(t, goals, 5)
	assert.Equal(t, goal, goals[0])

	direction := normalize(spatial.Position{X: goal.X - start.X, Y: goal.Y - start.Y})
	for i := 1; i < 5; i++ {
		direction = rotateClockwise90(direction)
		expected := spatial.Position{X: goal.X + direction.X*10, Y: goal.Y + direction.Y*10}
		assert.InDelta(t, expected.X, goals[i].X, 1e-9)
		assert.InDelta(t, expected.Y, goals[i].Y, 1e-9)
	}
}

func TestPathRetryExhaustsAndReturnsLastError(t *testing.T) {
	provider := func(ctx context.Context, goal spatial.Position) ([]spatial.Position, error) {
		return nil, errors.New("always blocked")
	}
	_, err := retryPathWithRotation(context.Background(), spatial.Position{}, spatial.Position{X: 1}, 10, provider)
	require.Error(t, err)
	assert.Equal(t, "always blocked", err.Error())
}

func TestRotateClockwise90IsPeriodFour(t *testing.T) {
	v := spatial.Position{X: 1, Y: 0}
	r := v
	for i := 0; i < 4; i++ {
		r = rotateClockwise90(r)
	}
	assert.InDelta(t, v.X, r.X, 1e-9)
	assert.InDelta(t, v.Y, r.Y, 1e-9)
}
