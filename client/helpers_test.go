package client

import (
	"strings"
	"sync"
	"testing"

	"card-game-client/game"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const (
	alice = "alice"
	bob   = "bob"
)

const (
	cardBear   = 1
	cardDrake  = 2
	cardShock  = 3
	cardPlains = 101
)

func testCards() map[int]game.Card {
	return map[int]game.Card{
		cardBear:   {ID: cardBear, Name: "Grizzly Bear", Attack: 2, Defense: 2, CardType: game.CardTypeCreature},
		cardDrake:  {ID: cardDrake, Name: "Sky Drake", Attack: 2, Defense: 3, CardType: game.CardTypeCreature, Abilities: []game.Ability{game.AbilityFlying}},
		cardShock:  {ID: cardShock, Name: "Shock", CardType: game.CardTypeInstant, Cost: game.ManaCost{Red: 1}},
		cardPlains: {ID: cardPlains, Name: "White Plains", CardType: game.CardTypeLand},
	}
}

// recordingSender captures every outbound action.
type recordingSender struct {
	mu   sync.Mutex
	sent []game.Action
	err  error
}

func (s *recordingSender) Send(msg any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, msg.(game.Action))
	return nil
}

func (s *recordingSender) actions() []game.Action {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]game.Action(nil), s.sent...)
}

func (s *recordingSender) types() []game.ActionType {
	var types []game.ActionType
	for _, a := range s.actions() {
		types = append(types, a.Type)
	}
	return types
}

// recordingView keeps everything shown to the user.
type recordingView struct {
	refreshes int
	statuses  []string
	logs      []string
	chats     []string
	decks     []game.DeckSummary
	games     []game.GameSummary
}

func (v *recordingView) Refresh(Board)                  { v.refreshes++ }
func (v *recordingView) Status(msg string)              { v.statuses = append(v.statuses, msg) }
func (v *recordingView) Log(msg string)                 { v.logs = append(v.logs, msg) }
func (v *recordingView) Chat(player, message string)    { v.chats = append(v.chats, player+": "+message) }
func (v *recordingView) Decks(decks []game.DeckSummary) { v.decks = decks }
func (v *recordingView) Games(games []game.GameSummary) { v.games = games }

func (v *recordingView) lastStatus() string {
	if len(v.statuses) == 0 {
		return ""
	}
	return v.statuses[len(v.statuses)-1]
}

func (v *recordingView) logged(substr string) bool {
	for _, l := range v.logs {
		if strings.Contains(l, substr) {
			return true
		}
	}
	return false
}

type dispatchFixture struct {
	mirror     *game.Mirror
	attack     *game.AttackNegotiator
	block      *game.BlockNegotiator
	sender     *recordingSender
	sessions   *MemorySessionStore
	view       *recordingView
	dispatcher *Dispatcher
}

func newDispatchFixture(t *testing.T) *dispatchFixture {
	t.Helper()
	logger := zaptest.NewLogger(t)
	f := &dispatchFixture{
		sender:   &recordingSender{},
		sessions: NewMemorySessionStore(),
		view:     &recordingView{},
	}
	f.mirror = game.NewMirror(alice, logger)
	emitter := NewEmitter(f.sender, alice, 0)
	f.attack = game.NewAttackNegotiator(f.mirror, emitter, logger)
	f.block = game.NewBlockNegotiator(f.mirror, emitter, logger)
	f.dispatcher = NewDispatcher(f.mirror, f.attack, f.block, emitter, f.sessions, f.view, logger)
	return f
}

// startMatch drives the fixture into a started match on alice's turn.
func (f *dispatchFixture) startMatch(t *testing.T) {
	t.Helper()
	players := map[string]game.PlayerInfo{
		alice: {Hand: game.HandInfo{Cards: []int{cardBear, cardDrake, cardPlains}, Count: 3}, DeckSize: 20, VaultSize: 10},
		bob:   {Hand: game.HandInfo{Count: 3}, DeckSize: 20, VaultSize: 10},
	}
	for _, ev := range []game.Event{
		game.CardListEvent{Cards: testCards()},
		game.MulliganPhaseEvent{GameID: "g1", Players: players},
		game.GameStartedEvent{GameID: "g1", Players: players, CurrentTurn: alice},
		game.TurnChangedEvent{ActivePlayer: alice},
	} {
		f.dispatcher.Handle(ev)
	}
	require.Equal(t, game.PhaseStarted, f.mirror.Phase())
	require.False(t, f.dispatcher.AwaitingResync())
}

func (f *dispatchFixture) play(player string, cardID, instanceID int) {
	f.dispatcher.Handle(game.PermanentPlayedEvent{
		Kind:       game.EventCreaturePlayed,
		Player:     player,
		CardID:     cardID,
		InstanceID: instanceID,
	})
}
