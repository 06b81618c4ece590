package game

import (
	"strconv"
	"strings"
)

// DeckSummary is one entry of a DeckList broadcast.
type DeckSummary struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	LeaderName string `json:"leaderName"`
	LeaderID   int    `json:"leaderId"`
}

// GameSummary is one open or running match from a GameList broadcast.
type GameSummary struct {
	GameID      string   `json:"gameId"`
	Players     []string `json:"players"`
	PlayerCount int      `json:"playerCount"`
	Started     bool     `json:"started"`
}

// MaxPlayers is the number of participants in a match.
const MaxPlayers = 2

// Joinable reports whether the match is still waiting for a second player.
func (g GameSummary) Joinable() bool {
	return !g.Started && g.PlayerCount < MaxPlayers
}

// StatusText describes the match for lobby listings.
func (g GameSummary) StatusText() string {
	if g.Started {
		return "In Progress"
	}
	return "Waiting (" + strconv.Itoa(g.PlayerCount) + "/2)"
}

// PlayerList joins the participant ids for display.
func (g GameSummary) PlayerList() string {
	if len(g.Players) == 0 {
		return "Empty"
	}
	return strings.Join(g.Players, ", ")
}

// FindDeck returns the deck with the given id.
func FindDeck(decks []DeckSummary, id int) (DeckSummary, bool) {
	for _, d := range decks {
		if d.ID == id {
			return d, true
		}
	}
	return DeckSummary{}, false
}
