// dispatcher.go - Routes inbound events to the mirror, the negotiators and the view
package client

import (
	"fmt"

	"card-game-client/game"

	"go.uber.org/zap"
)

// Dispatcher applies inbound messages in arrival order. It is the only
// writer of the mirror and the only place negotiations are reset.
type Dispatcher struct {
	mirror   *game.Mirror
	attack   *game.AttackNegotiator
	block    *game.BlockNegotiator
	emitter  *Emitter
	sessions SessionStore
	view     View
	logger   *zap.Logger

	// awaitingResync is set after a snapshot was requested and cleared by
	// the next GameReconnected.
	awaitingResync bool
	decks          []game.DeckSummary
	games          []game.GameSummary
}

func NewDispatcher(mirror *game.Mirror, attack *game.AttackNegotiator, block *game.BlockNegotiator,
	emitter *Emitter, sessions SessionStore, view View, logger *zap.Logger) *Dispatcher {
	if view == nil {
		view = nopView{}
	}
	if sessions == nil {
		sessions = NewMemorySessionStore()
	}
	return &Dispatcher{
		mirror:   mirror,
		attack:   attack,
		block:    block,
		emitter:  emitter,
		sessions: sessions,
		view:     view,
		logger:   logger,
	}
}

// Decks returns the last deck list received.
func (d *Dispatcher) Decks() []game.DeckSummary { return d.decks }

// Games returns the last game list received.
func (d *Dispatcher) Games() []game.GameSummary { return d.games }

// AwaitingResync reports whether a snapshot request is outstanding.
func (d *Dispatcher) AwaitingResync() bool { return d.awaitingResync }

// HandleMessage decodes one inbound frame and applies every event in it
// before refreshing the view once. A frame that is not an event array is
// dropped; a single bad event inside a batch is skipped.
func (d *Dispatcher) HandleMessage(raw []byte) error {
	events, err := game.DecodeMessage(raw)
	if err != nil {
		d.logger.Warn("dropping undecodable message", zap.Error(err), zap.Int("bytes", len(raw)))
		return err
	}

	for _, ev := range events {
		d.Handle(ev)
	}
	d.view.Refresh(d.board())
	return nil
}

// Handle applies one event. Desync faults and malformed payloads are logged
// and trigger a snapshot request; processing of the rest of the batch
// continues.
func (d *Dispatcher) Handle(ev game.Event) {
	if err := d.mirror.Apply(ev); err != nil {
		d.logger.Warn("event could not be applied",
			zap.String("type", string(ev.Type())),
			zap.Error(err),
		)
		if game.IsDesync(err) {
			d.requestResync()
		}
		return
	}

	switch e := ev.(type) {
	case game.CardListEvent:
		d.logger.Debug("card list received", zap.Int("cards", d.mirror.Catalog().Len()))

	case game.DeckListEvent:
		d.decks = e.Decks
		d.view.Decks(e.Decks)

	case game.GameListEvent:
		d.games = e.Games
		d.view.Games(e.Games)

	case game.GameCreatedEvent:
		d.saveSession()
		d.view.Status("Game created. Waiting for opponent...")

	case game.AIGameCreatedEvent:
		d.saveSession()
		d.view.Status("AI game created")

	case game.MulliganPhaseEvent:
		d.resetNegotiations()
		d.saveSession()
		d.view.Status("Keep your hand or mulligan")

	case game.PlayerKeptHandEvent:
		d.view.Log(d.playerName(e.Player) + " kept their hand")

	case game.PlayerMulliganedEvent:
		d.view.Log(d.playerName(e.Player) + " took a mulligan")

	case game.GameStartedEvent:
		d.resetNegotiations()
		d.saveSession()
		d.view.Status("Game started!")

	case game.TurnChangedEvent:
		d.resetNegotiations()
		if e.ActivePlayer == d.mirror.LocalID() {
			d.view.Status("Your turn")
		} else {
			d.view.Status("Opponent's turn")
		}

	case game.CardDrawnEvent:
		if e.Player == d.mirror.LocalID() {
			d.view.Log("You drew " + d.mirror.Catalog().Name(e.CardID))
		}

	case game.PermanentPlayedEvent:
		d.view.Log(fmt.Sprintf("%s played %s", d.playerName(e.Player), d.mirror.Catalog().Name(e.CardID)))

	case game.CardPlayedEvent:
		d.view.Log(fmt.Sprintf("%s cast %s", d.playerName(e.Player), d.mirror.Catalog().Name(e.CardID)))

	case game.InstantPlayedEvent:
		d.view.Log(fmt.Sprintf("%s cast %s", d.playerName(e.Player), d.mirror.Catalog().Name(e.CardID)))

	case game.CardBurnedEvent:
		d.view.Log(fmt.Sprintf("%s burned %s", d.playerName(e.Player), d.mirror.Catalog().Name(e.CardID)))

	case game.DamageEvent:
		d.view.Log(fmt.Sprintf("%s took %d damage", d.playerName(e.Target), e.Amount))

	case game.AttacksDeclaredEvent:
		if e.Player == d.mirror.LocalID() {
			d.attack.Reset()
		}
		d.view.Log(fmt.Sprintf("%s declared %d attacks", d.playerName(e.Player), len(e.Attacks)))

	case game.ResponseWindowEvent:
		if e.PriorityPlayer == d.mirror.LocalID() {
			d.view.Status("Response window: play an instant or pass")
		}

	case game.PriorityChangedEvent:
		if e.PriorityPlayer == d.mirror.LocalID() {
			d.view.Status("You have priority")
		}

	case game.BlockersNeededEvent:
		if e.Defender == d.mirror.LocalID() {
			d.block.Begin(e)
			d.view.Status("Declare blockers")
		}

	case game.BlockersDeclaredEvent:
		d.resetNegotiations()
		d.view.Log(fmt.Sprintf("%s declared %d blockers", d.playerName(e.Defender), len(e.Blockers)))

	case game.CombatDamageEvent:
		d.logger.Debug("combat damage",
			zap.Int("attacker", e.AttackerInstanceID),
			zap.String("targetType", string(e.TargetType)),
			zap.Int("damage", e.Damage),
		)

	case game.CombatEndedEvent:
		d.resetNegotiations()

	case game.CreatureDiedEvent:
		d.view.Log(d.mirror.Catalog().Name(e.CardID) + " died")

	case game.GameOverEvent:
		d.endMatch()
		if e.Winner == d.mirror.LocalID() {
			d.view.Status("Game over. You win!")
		} else {
			d.view.Status("Game over. You lose.")
		}

	case game.OpponentLeftEvent:
		d.endMatch()
		d.view.Status("Opponent left the game. You win!")

	case game.GameReconnectedEvent:
		d.resetNegotiations()
		d.awaitingResync = false
		if uid := d.mirror.LocalID(); uid != "" && uid != d.emitter.PlayerUID() {
			d.emitter.SetPlayerUID(uid)
		}
		d.saveSession()
		d.view.Status("Reconnected to game")

	case game.PlayerReconnectedEvent:
		d.view.Log(d.playerName(e.Player) + " reconnected")

	case game.ChatMessageEvent:
		d.view.Chat(d.playerName(e.Player), e.Message)

	case game.ErrorEvent:
		d.handleError(e)

	case game.NoticeEvent:
		msg := e.Message
		if msg == "" {
			msg = string(e.Kind)
		}
		d.view.Status(msg)

	case game.MalformedEvent:
		// The server changed something the mirror could not see
		d.logger.Warn("skipping malformed event", zap.String("type", string(e.Tag)), zap.Error(e.Err))
		d.requestResync()

	case game.UnknownEvent:
		d.logger.Debug("skipping unknown event", zap.String("type", string(e.Tag)))
	}
}

// handleError surfaces a server error. Errors that prove the stored session
// is dead send the client back to the lobby.
func (d *Dispatcher) handleError(e game.ErrorEvent) {
	kind := e.Classify()
	d.logger.Info("server error", zap.String("message", e.Message), zap.String("kind", string(kind)))

	if !kind.InvalidatesSession() {
		d.view.Status(e.Message)
		return
	}

	if err := d.sessions.Clear(); err != nil {
		d.logger.Warn("clearing session failed", zap.Error(err))
	}
	d.awaitingResync = false
	d.resetNegotiations()
	d.mirror.Reset()
	d.view.Status("Previous game no longer available: " + e.Message)
}

// requestResync asks the server for a full snapshot, once per outstanding
// request.
func (d *Dispatcher) requestResync() {
	if d.awaitingResync {
		return
	}
	matchID := d.mirror.MatchID()
	if matchID == "" {
		d.logger.Warn("desync outside a match, nothing to resync")
		return
	}

	d.awaitingResync = true
	d.resetNegotiations()
	if err := d.emitter.ReconnectGame(matchID); err != nil {
		d.awaitingResync = false
		d.logger.Error("requesting snapshot failed", zap.Error(err))
		return
	}
	d.logger.Info("requested snapshot", zap.String("gameId", matchID))
}

func (d *Dispatcher) endMatch() {
	d.resetNegotiations()
	if err := d.sessions.Clear(); err != nil {
		d.logger.Warn("clearing session failed", zap.Error(err))
	}
}

func (d *Dispatcher) resetNegotiations() {
	d.attack.Reset()
	d.block.Reset()
}

func (d *Dispatcher) saveSession() {
	matchID, uid := d.mirror.MatchID(), d.mirror.LocalID()
	if matchID == "" || uid == "" {
		return
	}
	if err := d.sessions.Save(Session{MatchID: matchID, PlayerUID: uid}); err != nil {
		d.logger.Warn("saving session failed", zap.Error(err))
	}
}

func (d *Dispatcher) playerName(uid string) string {
	if uid == d.mirror.LocalID() {
		return "You"
	}
	return "Opponent"
}

func (d *Dispatcher) board() Board {
	return Board{Mirror: d.mirror, Attack: d.attack, Block: d.block}
}
