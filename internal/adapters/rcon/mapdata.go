package rcon

import (
	"context"
	"encoding/json"

	"github.com/andrescamacho/factoriobot/internal/domain/shared"
)

// StoreMapData persists an arbitrary JSON value under key in the game's
// global storage table.
func (r *Rcon) StoreMapData(ctx context.Context, key string, value json.RawMessage) error {
	_, err := r.remoteCall(ctx, "store_map_data", strToLua(key), jsonToLua(value))
	return err
}

// RetrieveMapData reads back a value stored with StoreMapData, returning
// (nil, nil) if the key was never set.
func (r *Rcon) RetrieveMapData(ctx context.Context, key string) (json.RawMessage, error) {
	lines, err := r.remoteCall(ctx, "retrieve_map_data", strToLua(key))
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, nil
	}
	body := lines[len(lines)-1]
	if body == "nil" || body == "" {
		return nil, nil
	}
	return json.RawMessage(body), nil
}

// ParseMapExchangeString asks the game to decode a map-exchange string into
// its seed/generation-settings JSON representation.
func (r *Rcon) ParseMapExchangeString(ctx context.Context, exchangeString string) (json.RawMessage, error) {
	lines, err := r.remoteCall(ctx, "parse_map_exchange_string", strToLua(exchangeString))
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, shared.NewUnexpectedEmptyResponseError()
	}
	return json.RawMessage(lines[len(lines)-1]), nil
}

// jsonToLua recursively renders a decoded JSON value as the equivalent Lua
// literal (spec.md §6.3): null -> nil, arrays -> `{ e1, e2 }`, objects ->
// `{k1=v1,k2=v2}`.
func jsonToLua(raw json.RawMessage) string {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return strToLua(string(raw))
	}
	return anyToLua(v)
}

func anyToLua(v any) string {
	switch val := v.(type) {
	case nil:
		return "nil"
	case bool:
		return boolToLua(val)
	case float64:
		return formatFloat(val)
	case string:
		return strToLua(val)
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			parts = append(parts, anyToLua(item))
		}
		return vecToLua(parts)
	case map[string]any:
		parts := make(map[string]string, len(val))
		for k, item := range val {
			parts[k] = anyToLua(item)
		}
		return hashmapToLua(parts)
	default:
		return "nil"
	}
}
