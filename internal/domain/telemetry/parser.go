// Package telemetry implements the line-level dispatcher for the game's
// stdout telemetry records, spec.md §4.5/§6.1: `§TICK ACTION REST`.
package telemetry

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/andrescamacho/factoriobot/internal/domain/spatial"
	"github.com/andrescamacho/factoriobot/internal/domain/world"
	"github.com/andrescamacho/factoriobot/internal/infrastructure/logging"
)

// sectionSign is the literal two-byte UTF-8 prefix (0xc2 0xa7) every
// telemetry record begins with. Lines not beginning with it are
// informational log output and must be ignored.
const sectionSign = "§"

// Notifier receives a callback for every successfully processed record, for
// callers that want to react to telemetry beyond WorldMirror mutation
// (e.g. the task executor waking up on STATIC_DATA_END).
type Notifier interface {
	OnRecord(tick uint64, action string, rest string)
}

// Parser dispatches telemetry lines into WorldMirror mutations. One Parser
// is attached per game process; it holds a shared-mutable handle to the
// mirror under the mirror's own fine-grained locks.
type Parser struct {
	mirror   *world.Mirror
	log      *logging.Logger
	notifier Notifier

	staticDataEnd bool
}

// New builds a Parser writing into mirror. notifier may be nil.
func New(mirror *world.Mirror, log *logging.Logger, notifier Notifier) *Parser {
	return &Parser{mirror: mirror, log: log, notifier: notifier}
}

// StaticDataEndObserved reports whether a STATIC_DATA_END record has been
// seen, the DiscoveryComplete startup-gate marker (spec.md §4.7).
func (p *Parser) StaticDataEndObserved() bool {
	return p.staticDataEnd
}

// ParseLine processes a single stdout line. Lines not beginning with the
// section-sign prefix are informational log output and are ignored.
// Per-record errors are logged and the record is dropped; ParseLine never
// returns an error to the caller (spec.md §7: "errors raised inside
// telemetry-record processing are logged and the record is dropped").
func (p *Parser) ParseLine(line string) {
	if !strings.HasPrefix(line, sectionSign) {
		return
	}
	body := strings.TrimPrefix(line, sectionSign)

	spaceIdx := strings.IndexByte(body, ' ')
	if spaceIdx < 0 {
		p.logError("malformed record: %q", line)
		return
	}
	tickStr := body[:spaceIdx]
	tick, err := strconv.ParseUint(tickStr, 10, 64)
	if err != nil {
		p.logError("malformed tick %q: %v", tickStr, err)
		return
	}

	rest := body[spaceIdx+1:]
	actionEnd := strings.IndexByte(rest, ' ')
	var action, payload string
	if actionEnd < 0 {
		action, payload = rest, ""
	} else {
		action, payload = rest[:actionEnd], rest[actionEnd+1:]
	}

	if err := p.dispatch(tick, action, payload); err != nil {
		p.logError("action %q: %v", action, err)
		return
	}

	if p.notifier != nil {
		p.notifier.OnRecord(tick, action, payload)
	}
}

func (p *Parser) logError(format string, args ...any) {
	if p.log == nil {
		return
	}
	p.log.With(nil).Errorf(format, args...)
}

func (p *Parser) dispatch(tick uint64, action, rest string) error {
	switch action {
	case "entities":
		return p.parseEntities(rest)
	case "tiles":
		return p.parseTiles(rest)
	case "graphics":
		return p.parseGraphics(rest)
	case "entity_prototypes":
		return p.parseEntityPrototypes(rest)
	case "item_prototypes":
		return p.parseItemPrototypes(rest)
	case "recipes":
		return p.parseRecipes(rest)
	case "action_completed":
		return p.parseActionCompleted(rest)
	case "on_script_path_request_finished":
		return p.parsePathRequestFinished(rest)
	case "on_player_left_game":
		return p.parsePlayerLeftGame(rest)
	case "on_research_finished":
		return nil
	case "force":
		return p.parseForce(rest)
	case "on_some_entity_created":
		return p.parseEntityEvent(rest, p.mirror.OnEntityCreated)
	case "on_some_entity_updated":
		return p.parseEntityEvent(rest, p.mirror.OnEntityUpdated)
	case "on_some_entity_deleted":
		return p.parseEntityDeleted(rest)
	case "on_player_main_inventory_changed":
		return p.parsePlayerMainInventoryChanged(rest)
	case "on_player_changed_position":
		return p.parsePlayerChangedPosition(rest)
	case "on_player_changed_distance":
		return p.parsePlayerChangedDistance(rest)
	case "STATIC_DATA_END":
		p.staticDataEnd = true
		return nil
	case "tick", "mined_item":
		return nil
	default:
		p.logError("unknown telemetry action %q", action)
		return nil
	}
}

func (p *Parser) parseEntities(rest string) error {
	colon := strings.IndexByte(rest, ':')
	if colon < 0 {
		return fmt.Errorf("entities record missing rect separator")
	}
	body := rest[colon+1:]
	if strings.TrimSpace(body) == "{}" {
		body = "[]"
	}
	var dtos []entityDTO
	if err := json.Unmarshal([]byte(body), &dtos); err != nil {
		return fmt.Errorf("parsing entities json: %w", err)
	}
	entities := make([]world.FactorioEntity, 0, len(dtos))
	for _, d := range dtos {
		entities = append(entities, d.toEntity())
	}
	p.mirror.UpdateChunkEntities(entities)
	return nil
}

func (p *Parser) parseTiles(rest string) error {
	colon := strings.IndexByte(rest, ':')
	if colon < 0 {
		return fmt.Errorf("tiles record missing rect separator")
	}
	header := rest[:colon]
	body := rest[colon+1:]

	rect, err := parseRectHeader(header)
	if err != nil {
		return err
	}
	origin := spatial.PosFromPosition(rect.LeftTop)

	r := csv.NewReader(strings.NewReader(body))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return fmt.Errorf("parsing tiles csv: %w", err)
	}

	tiles := make([]world.FactorioTile, 0, len(records))
	for idx, rec := range records {
		if len(rec) < 2 {
			continue
		}
		name := strings.TrimSpace(rec[0])
		collidable := strings.TrimSpace(rec[1]) == "true"
		pos := spatial.Pos{X: origin.X + idx%32, Y: origin.Y + idx/32}
		tiles = append(tiles, world.FactorioTile{
			Name:             name,
			Position:         pos,
			PlayerCollidable: collidable,
			Color:            tileColorFor(name),
		})
	}
	p.mirror.UpdateChunkTiles(tiles)
	return nil
}

func tileColorFor(name string) *world.TileColor {
	switch name {
	case "water":
		return &world.TileColor{R: 28, G: 77, B: 143, A: 255}
	case "deepwater":
		return &world.TileColor{R: 20, G: 50, B: 100, A: 255}
	default:
		return nil
	}
}

func parseRectHeader(header string) (spatial.Rect, error) {
	parts := strings.Split(header, ";")
	if len(parts) != 2 {
		return spatial.Rect{}, fmt.Errorf("invalid rect header %q", header)
	}
	lt, err := parseCoordPair(parts[0])
	if err != nil {
		return spatial.Rect{}, err
	}
	rb, err := parseCoordPair(parts[1])
	if err != nil {
		return spatial.Rect{}, err
	}
	return spatial.NewRect(lt, rb), nil
}

func parseCoordPair(s string) (spatial.Position, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return spatial.Position{}, fmt.Errorf("invalid coordinate %q", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return spatial.Position{}, err
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return spatial.Position{}, err
	}
	return spatial.Position{X: x, Y: y}, nil
}

func (p *Parser) parseGraphics(rest string) error {
	parts := strings.Split(rest, "|")
	graphics := make(map[string]string, len(parts))
	for i, part := range parts {
		graphics[strconv.Itoa(i)] = part
	}
	p.mirror.UpdateGraphics(graphics)
	return nil
}

func splitDollar(rest string) []string {
	if rest == "" {
		return nil
	}
	return strings.Split(rest, "$")
}

func (p *Parser) parseEntityPrototypes(rest string) error {
	var protos []*world.FactorioEntityPrototype
	for _, chunk := range splitDollar(rest) {
		var dto entityPrototypeDTO
		if err := json.Unmarshal([]byte(chunk), &dto); err != nil {
			return fmt.Errorf("parsing entity prototype json: %w", err)
		}
		protos = append(protos, dto.toPrototype())
	}
	p.mirror.UpdateEntityPrototypes(protos)
	return nil
}

func (p *Parser) parseItemPrototypes(rest string) error {
	var protos []*world.FactorioItemPrototype
	for _, chunk := range splitDollar(rest) {
		var dto itemPrototypeDTO
		if err := json.Unmarshal([]byte(chunk), &dto); err != nil {
			return fmt.Errorf("parsing item prototype json: %w", err)
		}
		protos = append(protos, dto.toPrototype())
	}
	p.mirror.UpdateItemPrototypes(protos)
	return nil
}

func (p *Parser) parseRecipes(rest string) error {
	var recipes []*world.FactorioRecipe
	for _, chunk := range splitDollar(rest) {
		var dto recipeDTO
		if err := json.Unmarshal([]byte(chunk), &dto); err != nil {
			return fmt.Errorf("parsing recipe json: %w", err)
		}
		recipes = append(recipes, dto.toRecipe())
	}
	p.mirror.UpdateRecipes(recipes)
	return nil
}

func (p *Parser) parseActionCompleted(rest string) error {
	spaceIdx := strings.IndexByte(rest, ' ')
	if spaceIdx < 0 {
		return fmt.Errorf("malformed action_completed record %q", rest)
	}
	status := rest[:spaceIdx]
	tail := rest[spaceIdx+1:]

	var idStr, message string
	if msgIdx := strings.IndexByte(tail, ' '); msgIdx >= 0 {
		idStr, message = tail[:msgIdx], tail[msgIdx+1:]
	} else {
		idStr = tail
	}

	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		return fmt.Errorf("malformed action id %q: %w", idStr, err)
	}

	switch status {
	case "ok":
		p.mirror.CompleteAction(uint32(id), true, "")
	case "fail":
		p.mirror.CompleteAction(uint32(id), false, message)
	default:
		return fmt.Errorf("unexpected action_completed status %q", status)
	}
	return nil
}

func (p *Parser) parsePathRequestFinished(rest string) error {
	hashIdx := strings.IndexByte(rest, '#')
	if hashIdx < 0 {
		return fmt.Errorf("malformed path request record %q", rest)
	}
	idStr := rest[:hashIdx]
	body := rest[hashIdx+1:]
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		return fmt.Errorf("malformed path request id %q: %w", idStr, err)
	}
	p.mirror.CompletePathRequest(uint32(id), body)
	return nil
}

func (p *Parser) parsePlayerLeftGame(rest string) error {
	id, err := strconv.ParseUint(strings.TrimSpace(rest), 10, 32)
	if err != nil {
		return fmt.Errorf("malformed player id %q: %w", rest, err)
	}
	p.mirror.RemovePlayer(uint32(id))
	return nil
}

func (p *Parser) parseForce(rest string) error {
	var dto forceDTO
	if err := json.Unmarshal([]byte(rest), &dto); err != nil {
		return fmt.Errorf("parsing force json: %w", err)
	}
	p.mirror.UpdateForce(dto.toForce())
	return nil
}

func (p *Parser) parseEntityEvent(rest string, apply func(world.FactorioEntity)) error {
	var dto entityDTO
	if err := json.Unmarshal([]byte(rest), &dto); err != nil {
		return fmt.Errorf("parsing entity event json: %w", err)
	}
	apply(dto.toEntity())
	return nil
}

func (p *Parser) parseEntityDeleted(rest string) error {
	var dto entityDTO
	if err := json.Unmarshal([]byte(rest), &dto); err != nil {
		return fmt.Errorf("parsing entity event json: %w", err)
	}
	p.mirror.OnEntityDeleted(dto.Position.toPosition())
	return nil
}

func (p *Parser) parsePlayerMainInventoryChanged(rest string) error {
	var dto playerInventoryDTO
	if err := json.Unmarshal([]byte(rest), &dto); err != nil {
		return fmt.Errorf("parsing player inventory json: %w", err)
	}
	inv := make(world.Inventory, len(dto.MainInventory))
	for k, v := range dto.MainInventory {
		inv[k] = v
	}
	p.mirror.PlayerChangedMainInventory(dto.PlayerID, inv)
	return nil
}

func (p *Parser) parsePlayerChangedPosition(rest string) error {
	var dto playerPositionDTO
	if err := json.Unmarshal([]byte(rest), &dto); err != nil {
		return fmt.Errorf("parsing player position json: %w", err)
	}
	p.mirror.PlayerChangedPosition(dto.PlayerID, dto.Position.toPosition())
	return nil
}

func (p *Parser) parsePlayerChangedDistance(rest string) error {
	var dto playerDistanceDTO
	if err := json.Unmarshal([]byte(rest), &dto); err != nil {
		return fmt.Errorf("parsing player distance json: %w", err)
	}
	p.mirror.PlayerChangedDistance(dto.PlayerID, dto.ReachDistance, dto.BuildDistance,
		dto.DropItemDistance, dto.ItemPickupDistance, dto.LootPickupDistance, dto.ResourceReachDistance)
	return nil
}
