package telemetry

import (
	"testing"

	"github.com/andrescamacho/factoriobot/internal/domain/world"
	"github.com/andrescamacho/factoriobot/internal/infrastructure/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestParser() (*Parser, *world.Mirror) {
	mirror := world.New()
	return New(mirror, logging.NewNop(), nil), mirror
}

func TestIgnoresLinesWithoutSectionSign(t *testing.T) {
	p, _ := newTestParser()
	p.ParseLine("this is not telemetry")
	assert.False(t, p.StaticDataEndObserved())
}

func TestStaticDataEndMarksObserved(t *testing.T) {
	p, _ := newTestParser()
	p.ParseLine(sectionSign + "12 STATIC_DATA_END")
	assert.True(t, p.StaticDataEndObserved())
}

func TestTickAndMinedItemAreIgnored(t *testing.T) {
	p, _ := newTestParser()
	p.ParseLine(sectionSign + "1 tick")
	p.ParseLine(sectionSign + "1 mined_item iron-ore 1")
}

func TestPlayerChangedPositionUpdatesMirror(t *testing.T) {
	p, mirror := newTestParser()
	p.ParseLine(sectionSign + `5 on_player_changed_position {"player_id":1,"position":{"x":2.5,"y":3.5}}`)

	player, ok := mirror.Player(1)
	require.True(t, ok)
	assert.Equal(t, 2.5, player.Position.X)
	assert.Equal(t, 3.5, player.Position.Y)
}

func TestPlayerLeftGameRemovesPlayer(t *testing.T) {
	p, mirror := newTestParser()
	p.ParseLine(sectionSign + `1 on_player_changed_position {"player_id":7,"position":{"x":0,"y":0}}`)
	_, ok := mirror.Player(7)
	require.True(t, ok)

	p.ParseLine(sectionSign + "2 on_player_left_game 7")
	_, ok = mirror.Player(7)
	assert.False(t, ok)
}

func TestActionCompletedOkUpdatesPendingAction(t *testing.T) {
	p, mirror := newTestParser()
	mirror.CreateAction(42)
	p.ParseLine(sectionSign + "9 action_completed ok 42")

	action, ok := mirror.Action(42)
	require.True(t, ok)
	assert.Equal(t, world.ActionOk, action.Outcome)
}

func TestActionCompletedFailCarriesMessage(t *testing.T) {
	p, mirror := newTestParser()
	mirror.CreateAction(7)
	p.ParseLine(sectionSign + "9 action_completed fail 7 no path found")

	action, ok := mirror.Action(7)
	require.True(t, ok)
	assert.Equal(t, world.ActionFail, action.Outcome)
	assert.Equal(t, "no path found", action.Message)
}

func TestPathRequestFinishedStoresBody(t *testing.T) {
	p, mirror := newTestParser()
	p.ParseLine(sectionSign + `9 on_script_path_request_finished 3#[{"x":1,"y":1}]`)

	body, ok := mirror.DrainPathRequest(3)
	require.True(t, ok)
	assert.Equal(t, `[{"x":1,"y":1}]`, body)
}

func TestMalformedEntityRecordIsDroppedNotPanicked(t *testing.T) {
	p, _ := newTestParser()
	assert.NotPanics(t, func() {
		p.ParseLine(sectionSign + "1 entities 0,0;10,10:not-json")
	})
}

func TestUnknownActionIsLoggedAndIgnored(t *testing.T) {
	p, _ := newTestParser()
	assert.NotPanics(t, func() {
		p.ParseLine(sectionSign + "1 some_future_action whatever")
	})
}

type recordingNotifier struct {
	actions []string
}

func (r *recordingNotifier) OnRecord(tick uint64, action, rest string) {
	r.actions = append(r.actions, action)
}

func TestNotifierObservesSuccessfulRecords(t *testing.T) {
	mirror := world.New()
	notifier := &recordingNotifier{}
	p := New(mirror, logging.NewNop(), notifier)

	p.ParseLine(sectionSign + "1 tick")
	p.ParseLine(sectionSign + "2 STATIC_DATA_END")

	require.Len(t, notifier.actions, 2)
	assert.Equal(t, "tick", notifier.actions[0])
	assert.Equal(t, "STATIC_DATA_END", notifier.actions[1])
}
