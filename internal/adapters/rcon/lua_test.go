package rcon

import (
	"testing"

	"github.com/andrescamacho/factoriobot/internal/domain/spatial"
	"github.com/stretchr/testify/assert"
)

func TestStrToLuaQuotes(t *testing.T) {
	assert.Equal(t, "'iron-plate'", strToLua("iron-plate"))
}

func TestPositionToLua(t *testing.T) {
	assert.Equal(t, "{1.5, -2.5}", positionToLua(spatial.Position{X: 1.5, Y: -2.5}))
}

func TestRectToLua(t *testing.T) {
	r := spatial.NewRect(spatial.Position{X: 0, Y: 0}, spatial.Position{X: 10, Y: 10})
	assert.Equal(t, "{ {0,0}, {10,10} }", rectToLua(r))
}

func TestVecToLua(t *testing.T) {
	assert.Equal(t, "{ 1, 2, 3 }", vecToLua([]string{"1", "2", "3"}))
}

func TestHashmapToLuaSortsKeys(t *testing.T) {
	assert.Equal(t, "{a=1,b=2}", hashmapToLua(map[string]string{"b": "2", "a": "1"}))
}

func TestAnyToLuaRoundTripsNestedStructures(t *testing.T) {
	assert.Equal(t, "nil", anyToLua(nil))
	assert.Equal(t, "true", anyToLua(true))
	assert.Equal(t, "'x'", anyToLua("x"))
	assert.Equal(t, "{ 1, 2 }", anyToLua([]any{float64(1), float64(2)}))
	assert.Equal(t, "{ { 1 } }", anyToLua([]any{[]any{float64(1)}}))
}
