// emitter.go - Outbound commands, one protocol message per confirmed intent
package client

import (
	"strings"
	"unicode/utf8"

	"card-game-client/game"
)

// DefaultChatMaxLength matches the server's chat trim.
const DefaultChatMaxLength = 500

// Emitter turns intents into protocol messages stamped with the local
// identity. It performs no game validation.
type Emitter struct {
	out           Sender
	playerUID     string
	chatMaxLength int
}

var (
	_ game.AttackDeclarer = (*Emitter)(nil)
	_ game.BlockDeclarer  = (*Emitter)(nil)
)

func NewEmitter(out Sender, playerUID string, chatMaxLength int) *Emitter {
	if chatMaxLength <= 0 {
		chatMaxLength = DefaultChatMaxLength
	}
	return &Emitter{out: out, playerUID: playerUID, chatMaxLength: chatMaxLength}
}

func (e *Emitter) PlayerUID() string { return e.playerUID }

// SetPlayerUID changes the identity stamped on later messages.
func (e *Emitter) SetPlayerUID(uid string) { e.playerUID = uid }

func (e *Emitter) send(a game.Action) error {
	a.PlayerUID = e.playerUID
	return e.out.Send(a)
}

func (e *Emitter) GetCards() error {
	return e.send(game.Action{Type: game.ActionGetCards})
}

func (e *Emitter) GetDecks() error {
	return e.send(game.Action{Type: game.ActionGetDecks})
}

func (e *Emitter) ListGames() error {
	return e.send(game.Action{Type: game.ActionListGames})
}

func (e *Emitter) StartGame(deckID int) error {
	return e.send(game.Action{Type: game.ActionStartGame, DeckID: deckID})
}

func (e *Emitter) StartAIGame(deckID, aiDeckID int) error {
	return e.send(game.Action{Type: game.ActionStartAIGame, DeckID: deckID, AIDeckID: aiDeckID})
}

func (e *Emitter) JoinGame(deckID int) error {
	return e.send(game.Action{Type: game.ActionJoinGame, DeckID: deckID})
}

func (e *Emitter) JoinSpecificGame(gameID string, deckID int) error {
	return e.send(game.Action{Type: game.ActionJoinSpecificGame, GameID: gameID, DeckID: deckID})
}

func (e *Emitter) ReconnectGame(gameID string) error {
	return e.send(game.Action{Type: game.ActionReconnectGame, GameID: gameID})
}

func (e *Emitter) KeepHand() error {
	return e.send(game.Action{Type: game.ActionKeepHand})
}

func (e *Emitter) Mulligan() error {
	return e.send(game.Action{Type: game.ActionMulligan})
}

// DrawCard draws from the main deck or the vault.
func (e *Emitter) DrawCard(source string) error {
	return e.send(game.Action{Type: game.ActionDrawCard, Source: source})
}

func (e *Emitter) PlayCard(cardID int) error {
	return e.send(game.Action{Type: game.ActionPlayCard, CardID: cardID})
}

func (e *Emitter) PlayLeader() error {
	return e.send(game.Action{Type: game.ActionPlayLeader})
}

// PlayInstant casts an instant, optionally at a target creature.
func (e *Emitter) PlayInstant(cardID, targetInstanceID int) error {
	return e.send(game.Action{Type: game.ActionPlayInstant, CardID: cardID, InstanceID: targetInstanceID})
}

func (e *Emitter) BurnCard(cardID int) error {
	return e.send(game.Action{Type: game.ActionBurnCard, CardID: cardID})
}

func (e *Emitter) TapCard(instanceID int) error {
	return e.send(game.Action{Type: game.ActionTapCard, InstanceID: instanceID})
}

// DeclareAttacks sends the confirmed attack batch.
func (e *Emitter) DeclareAttacks(attacks []game.PendingAttack) error {
	if attacks == nil {
		attacks = []game.PendingAttack{}
	}
	return e.send(game.Action{Type: game.ActionDeclareAttacks, Attacks: &attacks})
}

// DeclareBlockers sends the block batch. An empty batch is sent as [] so
// the server reads it as "no blocks".
func (e *Emitter) DeclareBlockers(blocks []game.PendingBlock) error {
	if blocks == nil {
		blocks = []game.PendingBlock{}
	}
	return e.send(game.Action{Type: game.ActionDeclareBlockers, Blockers: &blocks})
}

func (e *Emitter) PassPriority() error {
	return e.send(game.Action{Type: game.ActionPassPriority})
}

func (e *Emitter) EndTurn() error {
	return e.send(game.Action{Type: game.ActionEndTurn})
}

// Chat sends a trimmed message. Blank messages are dropped.
func (e *Emitter) Chat(message string) error {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil
	}
	if utf8.RuneCountInString(message) > e.chatMaxLength {
		message = string([]rune(message)[:e.chatMaxLength])
	}
	return e.send(game.Action{Type: game.ActionChat, Message: message})
}

func (e *Emitter) LeaveGame() error {
	return e.send(game.Action{Type: game.ActionLeaveGame})
}
