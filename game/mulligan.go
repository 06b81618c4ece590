// mulligan.go - Mulligan phase and game start as seen by the client
package game

// applyMulliganPhase seats both players and deals the opening hands
func (m *Mirror) applyMulliganPhase(e MulliganPhaseEvent) error {
	if err := m.seatPlayers(EventMulliganPhase, e.GameID, e.Players); err != nil {
		return err
	}
	m.state.Phase = PhaseMulligan
	m.state.MulliganDecided = false
	return nil
}

// applyKeptHand records a keep decision
func (m *Mirror) applyKeptHand(e PlayerKeptHandEvent) error {
	side, err := m.sideOf(EventPlayerKeptHand, e.Player)
	if err != nil {
		return err
	}
	if side == Local {
		m.state.MulliganDecided = true
	}
	return nil
}

// applyMulliganed replaces a hand after a mulligan
func (m *Mirror) applyMulliganed(e PlayerMulliganedEvent) error {
	side, err := m.sideOf(EventPlayerMulliganed, e.Player)
	if err != nil {
		return err
	}

	player := m.state.player(side)
	if side == Local {
		player.Hand = append([]int{}, e.NewHand.Cards...)
		player.HandSize = len(player.Hand)
		m.state.MulliganDecided = true
	} else {
		player.HandSize = e.NewHand.Count
	}
	player.DeckSize = e.DeckSize
	player.VaultSize = e.VaultSize
	return nil
}

// applyGameStarted ends the mulligan phase. Hands are re-read from the event
// since both decisions are final by now.
func (m *Mirror) applyGameStarted(e GameStartedEvent) error {
	if e.CurrentTurn != "" {
		if _, ok := e.Players[e.CurrentTurn]; !ok {
			return &DesyncError{Event: EventGameStarted, PlayerID: e.CurrentTurn, Err: ErrUnknownPlayer}
		}
	}
	if err := m.seatPlayers(EventGameStarted, e.GameID, e.Players); err != nil {
		return err
	}
	m.state.Phase = PhaseStarted
	m.state.ActiveTurn = e.CurrentTurn
	return nil
}

// seatPlayers identifies the opponent and loads both players' piles. Exactly
// two participants, one of them local, are required.
func (m *Mirror) seatPlayers(kind EventType, gameID string, players map[string]PlayerInfo) error {
	localID := m.state.Local.UID
	if len(players) != MaxPlayers {
		return &DesyncError{Event: kind, Err: ErrBadParticipants}
	}
	localInfo, ok := players[localID]
	if !ok {
		return &DesyncError{Event: kind, PlayerID: localID, Err: ErrBadParticipants}
	}

	var opponentID string
	for uid := range players {
		if uid != localID {
			opponentID = uid
		}
	}
	opponentInfo := players[opponentID]

	if gameID != "" && gameID != m.state.MatchID {
		m.startMatch(gameID)
	}
	m.state.Opponent.UID = opponentID

	local := &m.state.Local
	local.Hand = append([]int{}, localInfo.Hand.Cards...)
	local.HandSize = len(local.Hand)
	loadPiles(local, localInfo)

	opponent := &m.state.Opponent
	opponent.HandSize = opponentInfo.Hand.Count
	loadPiles(opponent, opponentInfo)
	return nil
}

func loadPiles(p *PlayerState, info PlayerInfo) {
	p.Leader = info.Leader
	p.DeckSize = info.DeckSize
	p.VaultSize = info.VaultSize
	p.DiscardSize = info.DiscardSize
}
