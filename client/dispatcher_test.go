package client

import (
	"testing"

	"card-game-client/game"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleMessageAppliesBatchThenRefreshesOnce(t *testing.T) {
	f := newDispatchFixture(t)

	err := f.dispatcher.HandleMessage([]byte(`[
		{"type":"DeckList","data":{"decks":[{"id":1,"name":"Forest","leaderName":"Elder","leaderId":90}]}},
		{"type":"GameList","data":{"games":[{"gameId":"g7","players":["bob"],"playerCount":1,"started":false}]}},
		{"type":"SomethingNew","data":{}}
	]`))
	require.NoError(t, err)

	assert.Equal(t, 1, f.view.refreshes)
	require.Len(t, f.dispatcher.Decks(), 1)
	assert.Equal(t, "Forest", f.dispatcher.Decks()[0].Name)
	require.Len(t, f.dispatcher.Games(), 1)
	assert.Equal(t, "g7", f.view.games[0].GameID)
}

func TestHandleMessageDropsUndecodableFrame(t *testing.T) {
	f := newDispatchFixture(t)

	assert.Error(t, f.dispatcher.HandleMessage([]byte(`{"type":"CardList"`)))
	assert.Zero(t, f.view.refreshes)
	assert.Empty(t, f.sender.actions())
}

func TestMatchStartSavesSession(t *testing.T) {
	f := newDispatchFixture(t)
	f.startMatch(t)

	session, ok, err := f.sessions.Load()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, Session{MatchID: "g1", PlayerUID: alice}, session)
	assert.Equal(t, "Your turn", f.view.lastStatus())
}

func TestDesyncRequestsOneSnapshot(t *testing.T) {
	f := newDispatchFixture(t)
	f.startMatch(t)

	f.dispatcher.Handle(game.CardTappedEvent{Player: alice, InstanceID: 404, Tapped: true})
	f.dispatcher.Handle(game.CreatureDiedEvent{Player: bob, InstanceID: 405, CardID: cardBear})

	assert.True(t, f.dispatcher.AwaitingResync())
	require.Equal(t, []game.ActionType{game.ActionReconnectGame}, f.sender.types())
	assert.Equal(t, "g1", f.sender.actions()[0].GameID)

	f.dispatcher.Handle(game.GameReconnectedEvent{
		GameID:      "g1",
		PlayerUID:   alice,
		OpponentUID: bob,
		CurrentTurn: alice,
		Started:     true,
		MyHand:      []int{cardDrake},
		MyLife:      18,
		MyField: []*game.FieldCard{
			{InstanceID: 11, CardID: cardBear, CurrentHealth: 2, CanAttack: true, Status: map[string]int{}},
		},
		OpponentLife: 20,
	})

	assert.False(t, f.dispatcher.AwaitingResync())
	assert.Equal(t, game.PhaseStarted, f.mirror.Phase())
	assert.Equal(t, []int{cardDrake}, f.mirror.Hand())
	assert.Equal(t, 18, f.mirror.Life(game.Local))

	// A fresh desync after the snapshot asks again.
	f.dispatcher.Handle(game.CardTappedEvent{Player: alice, InstanceID: 404, Tapped: true})
	assert.Len(t, f.sender.actions(), 2)
}

func TestDesyncContinuesWithRestOfBatch(t *testing.T) {
	f := newDispatchFixture(t)
	f.startMatch(t)

	err := f.dispatcher.HandleMessage([]byte(`[
		{"type":"CardTapped","data":{"player":"alice","instanceId":404,"tapped":true}},
		{"type":"Damage","data":{"target":"bob","amount":3,"source":0}}
	]`))
	require.NoError(t, err)

	assert.True(t, f.dispatcher.AwaitingResync())
	assert.Equal(t, 17, f.mirror.Life(game.Opponent))
	assert.Equal(t, 1, f.view.refreshes)
}

func TestSessionInvalidatingErrorReturnsToLobby(t *testing.T) {
	f := newDispatchFixture(t)
	f.startMatch(t)

	f.dispatcher.Handle(game.ErrorEvent{Message: "Game not found"})

	assert.Equal(t, game.PhaseLobby, f.mirror.Phase())
	assert.Empty(t, f.mirror.MatchID())
	_, ok, _ := f.sessions.Load()
	assert.False(t, ok)
	assert.Contains(t, f.view.lastStatus(), "no longer available")
}

func TestOtherErrorsOnlyShowStatus(t *testing.T) {
	f := newDispatchFixture(t)
	f.startMatch(t)

	f.dispatcher.Handle(game.ErrorEvent{Message: "Not enough mana"})

	assert.Equal(t, game.PhaseStarted, f.mirror.Phase())
	_, ok, _ := f.sessions.Load()
	assert.True(t, ok)
	assert.Equal(t, "Not enough mana", f.view.lastStatus())
}

func TestBlockersNeededBeginsBlockingForLocalDefender(t *testing.T) {
	f := newDispatchFixture(t)
	f.startMatch(t)
	f.play(alice, cardBear, 11)
	f.dispatcher.Handle(game.TurnChangedEvent{ActivePlayer: bob})
	f.play(bob, cardDrake, 21)

	needed := game.BlockersNeededEvent{
		Defender: alice,
		Attacks: []game.AttackDeclaration{
			{AttackerInstanceID: 21, TargetType: game.TargetPlayer, TargetPlayerUID: alice},
		},
		AvailableBlockers: []game.BlockerCandidate{{InstanceID: 11, CardID: cardBear}},
	}
	f.dispatcher.Handle(needed)

	assert.Equal(t, game.BlockAwaitingBlocker, f.block.State())
	assert.Equal(t, "Declare blockers", f.view.lastStatus())

	// The opponent defending does not open a local negotiation.
	g := newDispatchFixture(t)
	g.startMatch(t)
	needed.Defender = bob
	g.dispatcher.Handle(needed)
	assert.Equal(t, game.BlockInactive, g.block.State())
}

func TestBlockersDeclaredResetsNegotiations(t *testing.T) {
	f := newDispatchFixture(t)
	f.startMatch(t)
	f.dispatcher.Handle(game.BlockersNeededEvent{
		Defender:          alice,
		Attacks:           []game.AttackDeclaration{{AttackerInstanceID: 21, TargetType: game.TargetPlayer, TargetPlayerUID: alice}},
		AvailableBlockers: []game.BlockerCandidate{},
	})
	require.NoError(t, f.block.Skip())
	require.Equal(t, game.BlockResolved, f.block.State())

	f.dispatcher.Handle(game.BlockersDeclaredEvent{Defender: alice, Blockers: []game.PendingBlock{}})
	assert.Equal(t, game.BlockInactive, f.block.State())
}

func TestLocalAttacksDeclaredAndTurnChangeResetAttack(t *testing.T) {
	f := newDispatchFixture(t)
	f.startMatch(t)
	f.play(alice, cardBear, 11)
	f.dispatcher.Handle(game.TurnChangedEvent{ActivePlayer: alice})

	require.NoError(t, f.attack.Enter())
	require.NoError(t, f.attack.SelectAttacker(11))
	require.Equal(t, game.AttackSelectingTarget, f.attack.State())

	f.dispatcher.Handle(game.TurnChangedEvent{ActivePlayer: bob})
	assert.Equal(t, game.AttackIdle, f.attack.State())
	assert.Zero(t, f.attack.Provisional())

	f.dispatcher.Handle(game.TurnChangedEvent{ActivePlayer: alice})
	require.NoError(t, f.attack.Enter())
	require.NoError(t, f.attack.SelectAttacker(11))
	require.NoError(t, f.attack.TargetPlayer())
	require.NoError(t, f.attack.Confirm())
	assert.Contains(t, f.sender.types(), game.ActionDeclareAttacks)

	f.dispatcher.Handle(game.AttacksDeclaredEvent{
		Player:  alice,
		Attacks: []game.AttackDeclaration{{AttackerInstanceID: 11, TargetType: game.TargetPlayer, TargetPlayerUID: bob}},
	})
	assert.Equal(t, game.AttackIdle, f.attack.State())
	assert.Empty(t, f.attack.Pending())
	assert.True(t, f.view.logged("You declared 1 attacks"))
}

func TestGameOverClearsSession(t *testing.T) {
	f := newDispatchFixture(t)
	f.startMatch(t)

	f.dispatcher.Handle(game.GameOverEvent{Winner: alice})

	_, ok, _ := f.sessions.Load()
	assert.False(t, ok)
	assert.Equal(t, game.PhaseOver, f.mirror.Phase())
	assert.Equal(t, "Game over. You win!", f.view.lastStatus())
}

func TestChatAndNoticesReachTheView(t *testing.T) {
	f := newDispatchFixture(t)
	f.startMatch(t)

	f.dispatcher.Handle(game.ChatMessageEvent{Player: bob, Message: "gl hf"})
	f.dispatcher.Handle(game.NoticeEvent{Kind: game.EventMustDraw})

	assert.Equal(t, []string{"Opponent: gl hf"}, f.view.chats)
	assert.Equal(t, string(game.EventMustDraw), f.view.lastStatus())
}

func TestMalformedEventSkippedAndResyncRequested(t *testing.T) {
	f := newDispatchFixture(t)
	f.startMatch(t)

	err := f.dispatcher.HandleMessage([]byte(`[
		{"type":"CardDrawn","data":{"player":"alice","cardId":1,"source":"main","mainDeckSize":19}},
		{"type":"Damage","data":{"target":7,"amount":2}},
		{"type":"Damage","data":{"target":"bob","amount":3,"source":0}}
	]`))
	require.NoError(t, err)

	assert.Equal(t, 4, f.mirror.HandSize(game.Local))
	assert.Equal(t, 19, f.mirror.DeckSize(game.Local))
	assert.Equal(t, 17, f.mirror.Life(game.Opponent))
	assert.True(t, f.dispatcher.AwaitingResync())
	assert.Equal(t, []game.ActionType{game.ActionReconnectGame}, f.sender.types())
	assert.Equal(t, 1, f.view.refreshes)
}
