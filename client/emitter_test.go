package client

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"card-game-client/game"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encoded(t *testing.T, a game.Action) map[string]any {
	t.Helper()
	data, err := json.Marshal(a)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func TestEmitterStampsPlayerUID(t *testing.T) {
	sender := &recordingSender{}
	e := NewEmitter(sender, alice, 0)

	require.NoError(t, e.StartGame(4))
	e.SetPlayerUID(bob)
	require.NoError(t, e.EndTurn())

	sent := sender.actions()
	require.Len(t, sent, 2)
	assert.Equal(t, map[string]any{"type": "start_game", "playerUid": alice, "deckId": float64(4)}, encoded(t, sent[0]))
	assert.Equal(t, map[string]any{"type": "end_turn", "playerUid": bob}, encoded(t, sent[1]))
}

func TestEmitterCommandShapes(t *testing.T) {
	tests := []struct {
		name string
		send func(*Emitter) error
		want map[string]any
	}{
		{"get cards", (*Emitter).GetCards, map[string]any{"type": "get_cards"}},
		{"list games", (*Emitter).ListGames, map[string]any{"type": "list_games"}},
		{"ai game", func(e *Emitter) error { return e.StartAIGame(1, 2) },
			map[string]any{"type": "start_ai_game", "deckId": float64(1), "aiDeckId": float64(2)}},
		{"join specific", func(e *Emitter) error { return e.JoinSpecificGame("g9", 3) },
			map[string]any{"type": "join_specific_game", "gameId": "g9", "deckId": float64(3)}},
		{"reconnect", func(e *Emitter) error { return e.ReconnectGame("g9") },
			map[string]any{"type": "reconnect_game", "gameId": "g9"}},
		{"draw vault", func(e *Emitter) error { return e.DrawCard(game.DrawSourceVault) },
			map[string]any{"type": "draw_card", "source": "vault"}},
		{"play card", func(e *Emitter) error { return e.PlayCard(7) },
			map[string]any{"type": "play_card", "cardId": float64(7)}},
		{"instant with target", func(e *Emitter) error { return e.PlayInstant(200, 12) },
			map[string]any{"type": "play_instant", "cardId": float64(200), "instanceId": float64(12)}},
		{"tap", func(e *Emitter) error { return e.TapCard(12) },
			map[string]any{"type": "tap_card", "instanceId": float64(12)}},
		{"leave", (*Emitter).LeaveGame, map[string]any{"type": "leave_game"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender := &recordingSender{}
			e := NewEmitter(sender, alice, 0)
			require.NoError(t, tt.send(e))

			sent := sender.actions()
			require.Len(t, sent, 1)
			got := encoded(t, sent[0])
			delete(got, "playerUid")
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEmitterDeclareAttacks(t *testing.T) {
	sender := &recordingSender{}
	e := NewEmitter(sender, alice, 0)

	require.NoError(t, e.DeclareAttacks([]game.PendingAttack{
		{AttackerInstanceID: 3, TargetType: game.TargetPlayer, TargetPlayerUID: bob},
		{AttackerInstanceID: 4, TargetType: game.TargetCreature, TargetInstanceID: 9},
	}))

	data, err := json.Marshal(sender.actions()[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), `"attacks":[{"attackerInstanceId":3,"targetType":"player"`)
	assert.Contains(t, string(data), `"targetPlayerUid":"bob"`)
	assert.Contains(t, string(data), `"targetInstanceId":9`)
}

func TestEmitterEmptyBlockersEncodeAsArray(t *testing.T) {
	sender := &recordingSender{}
	e := NewEmitter(sender, alice, 0)

	require.NoError(t, e.DeclareBlockers(nil))

	data, err := json.Marshal(sender.actions()[0])
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"declare_blockers","playerUid":"alice","blockers":[]}`, string(data))
}

func TestEmitterChat(t *testing.T) {
	sender := &recordingSender{}
	e := NewEmitter(sender, alice, 5)

	require.NoError(t, e.Chat("   "))
	assert.Empty(t, sender.actions(), "blank messages are dropped")

	require.NoError(t, e.Chat("  hello world  "))
	require.NoError(t, e.Chat("héllo"))

	sent := sender.actions()
	require.Len(t, sent, 2)
	assert.Equal(t, "hello", sent[0].Message)
	assert.Equal(t, "héllo", sent[1].Message)
}

func TestEmitterDefaultChatLength(t *testing.T) {
	sender := &recordingSender{}
	e := NewEmitter(sender, alice, 0)

	require.NoError(t, e.Chat(strings.Repeat("x", DefaultChatMaxLength+20)))
	assert.Len(t, sender.actions()[0].Message, DefaultChatMaxLength)
}

func TestEmitterPropagatesSendError(t *testing.T) {
	sender := &recordingSender{err: ErrSendBufferFull}
	e := NewEmitter(sender, alice, 0)

	err := e.KeepHand()
	assert.True(t, errors.Is(err, ErrSendBufferFull))
}
