package game

import "go.uber.org/zap"

// applySnapshot replaces the whole match state with a GameReconnected
// payload. It is the only non-incremental mutation.
func (m *Mirror) applySnapshot(e GameReconnectedEvent) {
	localID := e.PlayerUID
	if localID == "" {
		localID = m.state.Local.UID
	}

	s := newMatchState(localID)
	s.MatchID = e.GameID
	s.ActiveTurn = e.CurrentTurn
	s.DrawPhase = e.DrawPhase
	s.MulliganDecided = e.MulliganDecided
	s.PriorityPlayer = e.PriorityPlayer
	s.Attacks = append([]AttackDeclaration{}, e.PendingAttacks...)

	switch {
	case e.MulliganPhase:
		s.Phase = PhaseMulligan
	case e.Started:
		s.Phase = PhaseStarted
	default:
		s.Phase = PhaseWaiting
	}

	s.Local.Hand = append([]int{}, e.MyHand...)
	s.Local.HandSize = len(e.MyHand)
	s.Local.Field = snapshotCards(e.MyField)
	s.Local.Lands = snapshotCards(e.MyLands)
	s.Local.Life = e.MyLife
	s.Local.DeckSize = e.MyDeckSize
	s.Local.VaultSize = e.MyVaultSize
	s.Local.DiscardSize = e.MyDiscardSize
	s.Local.Leader = e.MyLeader
	if e.MyManaPool != nil {
		s.ManaPool = *e.MyManaPool
	}

	// The snapshot does not reveal the opponent's hand or pile sizes
	s.Opponent.UID = e.OpponentUID
	s.Opponent.Field = snapshotCards(e.OpponentField)
	s.Opponent.Lands = snapshotCards(e.OpponentLands)
	s.Opponent.Life = e.OpponentLife
	s.Opponent.Leader = e.OpponentLeader

	m.state = s
	m.logger.Info("match state rehydrated",
		zap.String("gameId", s.MatchID),
		zap.String("phase", string(s.Phase)),
		zap.Int("hand", len(s.Local.Hand)),
	)
}

func snapshotCards(cards []*FieldCard) []*FieldCard {
	out := make([]*FieldCard, 0, len(cards))
	for _, fc := range cards {
		if fc != nil {
			out = append(out, fc.Clone())
		}
	}
	return out
}
