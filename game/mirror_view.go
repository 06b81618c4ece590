package game

// BoardReader is the read-only view the negotiators consult for legality.
type BoardReader interface {
	LocalID() string
	OpponentID() string
	IsLocalTurn() bool
	Field(side Side) []*FieldCard
	FindCreature(side Side, instanceID int) (*FieldCard, bool)
	Catalog() *Catalog
}

var _ BoardReader = (*Mirror)(nil)

func (m *Mirror) LocalID() string    { return m.state.Local.UID }
func (m *Mirror) OpponentID() string { return m.state.Opponent.UID }
func (m *Mirror) MatchID() string    { return m.state.MatchID }
func (m *Mirror) Phase() Phase       { return m.state.Phase }
func (m *Mirror) ActiveTurn() string { return m.state.ActiveTurn }
func (m *Mirror) Winner() string     { return m.state.Winner }

// InMatch reports whether a match (waiting, running or finished) is loaded.
func (m *Mirror) InMatch() bool {
	return m.state.Phase != PhaseLobby
}

func (m *Mirror) IsLocalTurn() bool {
	return m.state.Phase == PhaseStarted && m.state.ActiveTurn != "" && m.state.ActiveTurn == m.state.Local.UID
}

func (m *Mirror) MulliganDecided() bool { return m.state.MulliganDecided }

// DrawPhase reports whether the local player still owes a draw this turn.
func (m *Mirror) DrawPhase() bool { return m.state.DrawPhase }

func (m *Mirror) PriorityPlayer() string { return m.state.PriorityPlayer }

// HasPriority reports whether the local player may act in a response window.
func (m *Mirror) HasPriority() bool {
	return m.state.PriorityPlayer != "" && m.state.PriorityPlayer == m.state.Local.UID
}

// Hand returns a copy of the local hand.
func (m *Mirror) Hand() []int {
	return append([]int{}, m.state.Local.Hand...)
}

func (m *Mirror) HandSize(side Side) int {
	return m.state.player(side).HandSize
}

// Field returns copies of a side's creatures in play order.
func (m *Mirror) Field(side Side) []*FieldCard {
	return cloneCards(m.state.player(side).Field)
}

// Lands returns copies of a side's lands in play order.
func (m *Mirror) Lands(side Side) []*FieldCard {
	return cloneCards(m.state.player(side).Lands)
}

func (m *Mirror) Life(side Side) int        { return m.state.player(side).Life }
func (m *Mirror) DeckSize(side Side) int    { return m.state.player(side).DeckSize }
func (m *Mirror) VaultSize(side Side) int   { return m.state.player(side).VaultSize }
func (m *Mirror) DiscardSize(side Side) int { return m.state.player(side).DiscardSize }

// Leader returns the unplayed leader card id, or 0 once it is on the field.
func (m *Mirror) Leader(side Side) int { return m.state.player(side).Leader }

// ManaPool returns the local player's floating mana.
func (m *Mirror) ManaPool() ManaCost { return m.state.ManaPool }

// Attacks returns the declarations of the combat in progress.
func (m *Mirror) Attacks() []AttackDeclaration {
	return append([]AttackDeclaration{}, m.state.Attacks...)
}

// Catalog returns the card catalog, or nil before CardList arrives.
func (m *Mirror) Catalog() *Catalog { return m.catalog }

// FindCreature returns a copy of a creature on a side's field.
func (m *Mirror) FindCreature(side Side, instanceID int) (*FieldCard, bool) {
	fc := findInstance(m.state.player(side).Field, instanceID)
	if fc == nil {
		return nil, false
	}
	return fc.Clone(), true
}

// EffectiveStats returns the display stats of a creature on a side's field.
func (m *Mirror) EffectiveStats(side Side, instanceID int) (Stats, bool) {
	fc := findInstance(m.state.player(side).Field, instanceID)
	if fc == nil {
		return Stats{}, false
	}
	card, _ := m.catalog.Lookup(fc.CardID)
	return fc.EffectiveStats(card), true
}

// PotentialMana is the floating pool plus what the untapped local lands
// would add if tapped.
func (m *Mirror) PotentialMana() ManaCost {
	total := m.state.ManaPool
	for _, fc := range m.state.Local.Lands {
		if fc.IsTapped() {
			continue
		}
		if card, ok := m.catalog.Lookup(fc.CardID); ok {
			total = total.Add(card.ProvidedMana())
		}
	}
	return total
}

// CheckAffordable rejects a hand card the untapped lands and floating pool
// cannot pay for. Unknown cards pass; the server decides.
func (m *Mirror) CheckAffordable(cardID int) error {
	card, ok := m.catalog.Lookup(cardID)
	if !ok {
		return nil
	}
	if available := m.PotentialMana(); !available.CanAfford(card.Cost) {
		return rejectf(RejectNotEnoughMana, "%s costs %s, %s available", card.Name, card.Cost, available)
	}
	return nil
}
