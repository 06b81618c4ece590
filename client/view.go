package client

import "card-game-client/game"

// Board is what a renderer reads on refresh. Renderers only call accessors.
type Board struct {
	Mirror *game.Mirror
	Attack *game.AttackNegotiator
	Block  *game.BlockNegotiator
}

// View is the rendering collaborator. All calls come from the event loop
// goroutine.
type View interface {
	// Refresh is called once after every handled message or input.
	Refresh(b Board)
	// Status shows a transient one-line message.
	Status(msg string)
	// Log appends a line to the game log.
	Log(msg string)
	Chat(player, message string)
	Decks(decks []game.DeckSummary)
	Games(games []game.GameSummary)
}

// nopView discards everything.
type nopView struct{}

func (nopView) Refresh(Board)            {}
func (nopView) Status(string)            {}
func (nopView) Log(string)               {}
func (nopView) Chat(string, string)      {}
func (nopView) Decks([]game.DeckSummary) {}
func (nopView) Games([]game.GameSummary) {}
