package rcon

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/andrescamacho/factoriobot/internal/domain/spatial"
)

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// strToLua quotes a string as a Lua literal. Callers must not pass strings
// containing a single quote (spec.md §6.3: no internal escaping).
func strToLua(s string) string {
	return "'" + s + "'"
}

func boolToLua(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func intToLua(n int) string {
	return strconv.Itoa(n)
}

func uintToLua(n uint32) string {
	return strconv.FormatUint(uint64(n), 10)
}

// positionToLua renders a position as the `{x, y}` literal.
func positionToLua(p spatial.Position) string {
	return fmt.Sprintf("{%s, %s}", formatFloat(p.X), formatFloat(p.Y))
}

// rectToLua renders a rectangle as `{ {lx,ly}, {rx,ry} }`.
func rectToLua(r spatial.Rect) string {
	return fmt.Sprintf("{ {%s,%s}, {%s,%s} }",
		formatFloat(r.LeftTop.X), formatFloat(r.LeftTop.Y),
		formatFloat(r.RightBottom.X), formatFloat(r.RightBottom.Y))
}

// vecToLua renders a list of already-serialized Lua literals as `{ e1, e2 }`.
func vecToLua(items []string) string {
	return "{ " + strings.Join(items, ", ") + " }"
}

// hashmapToLua renders a string-keyed map of already-serialized Lua literals
// as `{k1=v1,k2=v2}`. Key order is sorted for deterministic output.
func hashmapToLua(m map[string]string) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sortStrings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%s", k, m[k]))
	}
	return "{" + strings.Join(parts, ",") + "}"
}

func sortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}
