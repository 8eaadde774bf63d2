package rcon

import (
	"context"
	"testing"

	"github.com/andrescamacho/factoriobot/internal/domain/shared"
	"github.com/andrescamacho/factoriobot/internal/domain/spatial"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestScenarioERadiusCeiling: a radius above 3000 fails fast with
// RadiusLimitReachedError and never touches the (nil, unusable) transport.
func TestScenarioERadiusCeiling(t *testing.T) {
	r := &Rcon{}
	_, err := r.FindEntitiesFiltered(context.Background(), RadiusFilter(spatial.Position{}, 3001), "", "")

	require.Error(t, err)
	var radiusErr *shared.RadiusLimitReachedError
	require.ErrorAs(t, err, &radiusErr)
	assert.Equal(t, 3000.0, radiusErr.Limit)
}

func TestRadiusAtCeilingIsAllowed(t *testing.T) {
	assert.NoError(t, checkRadius(3000))
}

func TestRadiusJustOverCeilingFails(t *testing.T) {
	err := checkRadius(3000.1)
	require.Error(t, err)
}

func TestRectFilterNeverChecksRadius(t *testing.T) {
	r := spatial.NewRect(spatial.Position{X: -10000, Y: -10000}, spatial.Position{X: 10000, Y: 10000})
	assert.NoError(t, RectFilter(r).checkRadius())
}
