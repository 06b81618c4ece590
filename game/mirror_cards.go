// mirror_cards.go - Card playing, tapping, burning as seen by the client
package game

// applyPermanentPlayed handles CreaturePlayed, LeaderPlayed and LandPlayed
func (m *Mirror) applyPermanentPlayed(e PermanentPlayedEvent) error {
	side, err := m.sideOf(e.Kind, e.Player)
	if err != nil {
		return err
	}
	player := m.state.player(side)

	fieldCard := m.newFieldCard(e)
	if m.hasInstance(fieldCard.InstanceID) {
		return &DesyncError{Event: e.Kind, InstanceID: fieldCard.InstanceID, Err: ErrDuplicateInstance}
	}

	// Find card in hand before touching anything
	cardIdx := -1
	if side == Local && e.Kind != EventLeaderPlayed {
		cardIdx = indexOf(player.Hand, e.CardID)
		if cardIdx == -1 {
			return &DesyncError{Event: e.Kind, CardID: e.CardID, Err: ErrCardNotInHand}
		}
	}

	switch {
	case e.Kind == EventLeaderPlayed:
		player.Leader = 0
	case side == Local:
		player.Hand = removeAt(player.Hand, cardIdx)
		player.HandSize = len(player.Hand)
	default:
		player.HandSize = max(player.HandSize-1, 0)
	}

	if e.Kind == EventLandPlayed {
		player.Lands = append(player.Lands, fieldCard)
	} else {
		player.Field = append(player.Field, fieldCard)
	}

	if side == Local && e.ManaPool != nil {
		m.state.ManaPool = *e.ManaPool
	}
	return nil
}

// newFieldCard copies the server's instance, or builds one from the catalog
// when the event omitted it.
func (m *Mirror) newFieldCard(e PermanentPlayedEvent) *FieldCard {
	if e.FieldCard != nil {
		fc := e.FieldCard.Clone()
		if fc.InstanceID == 0 {
			fc.InstanceID = e.InstanceID
		}
		if fc.CardID == 0 {
			fc.CardID = e.CardID
		}
		return fc
	}

	fc := &FieldCard{
		InstanceID: e.InstanceID,
		CardID:     e.CardID,
		Status:     map[string]int{StatusTapped: 0, StatusSummoned: 0},
	}
	if card, ok := m.catalog.Lookup(e.CardID); ok {
		fc.CurrentHealth = card.Defense
	}
	if e.Kind != EventLandPlayed {
		fc.SetSummoned(true)
	}
	return fc
}

// applySpellPlayed handles cards that go from hand straight to discard:
// CardPlayed, InstantPlayed and CardBurned
func (m *Mirror) applySpellPlayed(kind EventType, playerID string, cardID int, pool *ManaCost) error {
	side, err := m.sideOf(kind, playerID)
	if err != nil {
		return err
	}
	player := m.state.player(side)

	if side == Local {
		cardIdx := indexOf(player.Hand, cardID)
		if cardIdx == -1 {
			return &DesyncError{Event: kind, CardID: cardID, Err: ErrCardNotInHand}
		}
		player.Hand = removeAt(player.Hand, cardIdx)
		player.HandSize = len(player.Hand)
		if pool != nil {
			m.state.ManaPool = *pool
		}
	} else {
		player.HandSize = max(player.HandSize-1, 0)
	}

	player.DiscardSize++
	return nil
}

// applyTapped handles CardTapped and CardUntapped for creatures and lands
func (m *Mirror) applyTapped(kind EventType, playerID string, instanceID int, tapped bool) error {
	side, err := m.sideOf(kind, playerID)
	if err != nil {
		return err
	}
	player := m.state.player(side)

	targetCard := findInstance(player.Field, instanceID)
	if targetCard == nil {
		targetCard = findInstance(player.Lands, instanceID)
	}
	if targetCard == nil {
		return &DesyncError{Event: kind, InstanceID: instanceID, PlayerID: playerID, Err: ErrUnknownInstance}
	}

	targetCard.SetTapped(tapped)
	return nil
}

// hasInstance reports whether any collection on either side holds the id.
func (m *Mirror) hasInstance(instanceID int) bool {
	for _, p := range []*PlayerState{&m.state.Local, &m.state.Opponent} {
		if findInstance(p.Field, instanceID) != nil || findInstance(p.Lands, instanceID) != nil {
			return true
		}
	}
	return false
}

func findInstance(cards []*FieldCard, instanceID int) *FieldCard {
	for _, fc := range cards {
		if fc.InstanceID == instanceID {
			return fc
		}
	}
	return nil
}

func indexOf(ids []int, id int) int {
	for i, c := range ids {
		if c == id {
			return i
		}
	}
	return -1
}

// removeAt removes one element without aliasing the original backing array.
func removeAt[T any](s []T, i int) []T {
	out := make([]T, 0, len(s)-1)
	out = append(out, s[:i]...)
	return append(out, s[i+1:]...)
}
