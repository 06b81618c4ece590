package client

import (
	"fmt"
	"io"
	"strings"

	"card-game-client/game"
)

// TextView renders the board and messages as plain text.
type TextView struct {
	w io.Writer
}

func NewTextView(w io.Writer) *TextView {
	return &TextView{w: w}
}

func (v *TextView) Status(msg string) {
	if msg == "" {
		return
	}
	fmt.Fprintf(v.w, "* %s\n", msg)
}

func (v *TextView) Log(msg string) {
	fmt.Fprintf(v.w, "  %s\n", msg)
}

func (v *TextView) Chat(player, message string) {
	fmt.Fprintf(v.w, "<%s> %s\n", player, message)
}

func (v *TextView) Decks(decks []game.DeckSummary) {
	fmt.Fprintln(v.w, "\nDecks:")
	for _, d := range decks {
		fmt.Fprintf(v.w, "  %d) %s (leader: %s)\n", d.ID, d.Name, d.LeaderName)
	}
}

func (v *TextView) Games(games []game.GameSummary) {
	if len(games) == 0 {
		fmt.Fprintln(v.w, "No open games")
		return
	}
	fmt.Fprintln(v.w, "\nGames:")
	for _, g := range games {
		mark := " "
		if g.Joinable() {
			mark = "+"
		}
		fmt.Fprintf(v.w, "%s %s  %s  [%s]\n", mark, g.GameID, g.StatusText(), g.PlayerList())
	}
}

// Refresh prints the whole board once a match is loaded.
func (v *TextView) Refresh(b Board) {
	m := b.Mirror
	if m == nil || !m.InMatch() {
		return
	}
	catalog := m.Catalog()

	if m.Phase() == game.PhaseWaiting {
		fmt.Fprintf(v.w, "Waiting for opponent in game %s...\n", m.MatchID())
		return
	}

	fmt.Fprintln(v.w)
	fmt.Fprintln(v.w, "╔══════════════════════════════════════════════════════╗")

	// Opponent info
	fmt.Fprintf(v.w, "║  OPPONENT (HP: %d)  Hand: %d  Deck: %d  Vault: %d  Discard: %d\n",
		m.Life(game.Opponent), m.HandSize(game.Opponent), m.DeckSize(game.Opponent),
		m.VaultSize(game.Opponent), m.DiscardSize(game.Opponent))
	fmt.Fprintf(v.w, "║  Lands:  %s\n", formatCards(m.Lands(game.Opponent), catalog, nil))
	fmt.Fprintf(v.w, "║  Field:  %s\n", formatCards(m.Field(game.Opponent), catalog, opponentMarks(b)))

	fmt.Fprintln(v.w, "║──────────────────────────────────────────────────────")

	fmt.Fprintf(v.w, "║  Field:  %s\n", formatCards(m.Field(game.Local), catalog, localMarks(b)))
	fmt.Fprintf(v.w, "║  Lands:  %s\n", formatCards(m.Lands(game.Local), catalog, nil))
	fmt.Fprintf(v.w, "║  YOU (HP: %d)  Hand: %d  Deck: %d  Vault: %d  Discard: %d  Mana: %s (untapped: %s)\n",
		m.Life(game.Local), len(m.Hand()), m.DeckSize(game.Local),
		m.VaultSize(game.Local), m.DiscardSize(game.Local), m.ManaPool(), m.PotentialMana())
	fmt.Fprintln(v.w, "╚══════════════════════════════════════════════════════╝")

	fmt.Fprintln(v.w, turnLine(m))

	// Show hand
	hand := m.Hand()
	if len(hand) > 0 {
		fmt.Fprintf(v.w, "Hand: ")
		for _, cardID := range hand {
			fmt.Fprintf(v.w, "[%d] %s  ", cardID, formatHandCard(cardID, catalog))
		}
		fmt.Fprintln(v.w)
	}
	if leader := m.Leader(game.Local); leader != 0 {
		fmt.Fprintf(v.w, "Leader: %s\n", catalog.Name(leader))
	}

	if line := combatLine(b); line != "" {
		fmt.Fprintln(v.w, line)
	}
}

func turnLine(m *game.Mirror) string {
	switch m.Phase() {
	case game.PhaseMulligan:
		if m.MulliganDecided() {
			return "Mulligan | waiting for opponent"
		}
		return "Mulligan | keep or mulligan?"
	case game.PhaseOver:
		if m.Winner() == m.LocalID() {
			return "Game over | you win"
		}
		return "Game over | you lose"
	}

	line := "Opponent's turn"
	if m.IsLocalTurn() {
		line = "Your turn"
		if m.DrawPhase() {
			line += " | draw a card"
		}
	}
	if m.HasPriority() {
		line += " | you have priority"
	}
	return line
}

func combatLine(b Board) string {
	if b.Block != nil && b.Block.Active() {
		if b.Block.State() == game.BlockAwaitingAttacker {
			return fmt.Sprintf("Blocking: #%d selected, choose an attacker", b.Block.Provisional())
		}
		ids := make([]string, 0, len(b.Block.Candidates()))
		for _, cand := range b.Block.Candidates() {
			ids = append(ids, fmt.Sprintf("#%d", cand.InstanceID))
		}
		if len(ids) == 0 {
			return fmt.Sprintf("Blocking: %d blockers assigned, no creature can block", len(b.Block.Pending()))
		}
		return fmt.Sprintf("Blocking: %d blockers assigned, can block: %s", len(b.Block.Pending()), strings.Join(ids, " "))
	}
	if b.Attack != nil && b.Attack.Active() {
		if b.Attack.State() == game.AttackSelectingTarget {
			return fmt.Sprintf("Combat: #%d selected, choose a target", b.Attack.Provisional())
		}
		return fmt.Sprintf("Combat: %d attacks pending", len(b.Attack.Pending()))
	}
	return ""
}

func localMarks(b Board) func(id int) string {
	return func(id int) string {
		var marks []string
		if b.Attack != nil {
			if b.Attack.IsAttacking(id) {
				marks = append(marks, "ATK")
			} else if b.Attack.Provisional() == id {
				marks = append(marks, "SEL")
			}
		}
		if b.Block != nil {
			if b.Block.IsBlocking(id) {
				marks = append(marks, "BLK")
			} else if b.Block.Provisional() == id {
				marks = append(marks, "SEL")
			}
		}
		return strings.Join(marks, " ")
	}
}

func opponentMarks(b Board) func(id int) string {
	return func(id int) string {
		var marks []string
		if b.Attack != nil && b.Attack.IsTargeted(id) {
			marks = append(marks, "TGT")
		}
		if b.Block != nil && b.Block.Active() {
			for _, a := range b.Block.Attacks() {
				if a.AttackerInstanceID == id {
					marks = append(marks, "ATK")
				}
			}
		}
		return strings.Join(marks, " ")
	}
}

func formatCards(cards []*game.FieldCard, catalog *game.Catalog, marks func(int) string) string {
	if len(cards) == 0 {
		return "[ ]"
	}
	parts := make([]string, 0, len(cards))
	for _, fc := range cards {
		parts = append(parts, formatFieldCard(fc, catalog, marks))
	}
	return strings.Join(parts, " ")
}

func formatFieldCard(fc *game.FieldCard, catalog *game.Catalog, marks func(int) string) string {
	card, ok := catalog.Lookup(fc.CardID)
	name := catalog.Name(fc.CardID)

	var b strings.Builder
	fmt.Fprintf(&b, "[#%d %s", fc.InstanceID, name)
	if ok && card.CardType != game.CardTypeLand {
		stats := fc.EffectiveStats(card)
		fmt.Fprintf(&b, " %d/%d", stats.Attack, stats.Health)
	}
	if fc.IsTapped() {
		b.WriteString(" T")
	}
	if fc.IsSummoned() {
		b.WriteString(" S")
	}
	if marks != nil {
		if m := marks(fc.InstanceID); m != "" {
			b.WriteString(" " + m)
		}
	}
	b.WriteString("]")
	return b.String()
}

func formatHandCard(cardID int, catalog *game.Catalog) string {
	card, ok := catalog.Lookup(cardID)
	if !ok {
		return catalog.Name(cardID)
	}
	if card.CardType == game.CardTypeCreature {
		return fmt.Sprintf("%s (%s) %d/%d", card.Name, card.Cost, card.Attack, card.Defense)
	}
	return fmt.Sprintf("%s (%s)", card.Name, card.Cost)
}
