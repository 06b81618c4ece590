package game

import (
	"go.uber.org/zap"
)

// Mirror owns the client's view of the match. It is mutated only through
// Apply, one server event at a time, and is not safe for concurrent use.
type Mirror struct {
	state   MatchState
	catalog *Catalog
	logger  *zap.Logger
}

// NewMirror creates a mirror in the lobby for the given local player.
func NewMirror(localID string, logger *zap.Logger) *Mirror {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Mirror{
		state:  newMatchState(localID),
		logger: logger,
	}
}

// Apply folds one server event into the mirror. A *DesyncError is returned
// when the event contradicts the current view; the mirror is left unchanged
// by the failing event in that case.
func (m *Mirror) Apply(ev Event) error {
	switch e := ev.(type) {
	case CardListEvent:
		m.applyCardList(e)
	case GameCreatedEvent:
		m.applyGameCreated(e)
	case AIGameCreatedEvent:
		m.applyAIGameCreated(e)
	case MulliganPhaseEvent:
		return m.applyMulliganPhase(e)
	case PlayerKeptHandEvent:
		return m.applyKeptHand(e)
	case PlayerMulliganedEvent:
		return m.applyMulliganed(e)
	case GameStartedEvent:
		return m.applyGameStarted(e)
	case TurnChangedEvent:
		return m.applyTurnChanged(e)
	case DrawPhaseEvent:
		return m.applyDrawPhase(e)
	case CardDrawnEvent:
		return m.applyCardDrawn(e)
	case PermanentPlayedEvent:
		return m.applyPermanentPlayed(e)
	case CardPlayedEvent:
		return m.applySpellPlayed(EventCardPlayed, e.Player, e.CardID, e.ManaPool)
	case InstantPlayedEvent:
		return m.applySpellPlayed(EventInstantPlayed, e.Player, e.CardID, e.ManaPool)
	case CardBurnedEvent:
		return m.applySpellPlayed(EventCardBurned, e.Player, e.CardID, nil)
	case CardTappedEvent:
		return m.applyTapped(EventCardTapped, e.Player, e.InstanceID, e.Tapped)
	case CardUntappedEvent:
		return m.applyTapped(EventCardUntapped, e.Player, e.InstanceID, false)
	case ManaAddedEvent:
		return m.applyManaAdded(e)
	case DamageEvent:
		return m.applyDamage(e)
	case AttacksDeclaredEvent:
		return m.applyAttacksDeclared(e)
	case ResponseWindowEvent:
		m.applyResponseWindow(e)
	case PriorityChangedEvent:
		m.state.PriorityPlayer = e.PriorityPlayer
	case CombatDamageEvent:
		return m.applyCombatDamage(e)
	case CombatEndedEvent:
		m.state.Attacks = nil
		m.state.PriorityPlayer = ""
	case BlockersDeclaredEvent:
		m.applyBlockersDeclared(e)
	case CreatureDiedEvent:
		return m.applyCreatureDied(e)
	case GameOverEvent:
		m.state.Phase = PhaseOver
		m.state.Winner = e.Winner
	case OpponentLeftEvent:
		m.state.Phase = PhaseOver
		m.state.Winner = m.state.Local.UID
	case GameReconnectedEvent:
		m.applySnapshot(e)
	}
	// Lobby listings, chat, errors, notices and unknown tags carry no
	// match state.
	return nil
}

// Reset drops the match and returns to the lobby. The catalog survives.
func (m *Mirror) Reset() {
	m.state = newMatchState(m.state.Local.UID)
}

// SetLocalID changes the local identity. It also resets the match.
func (m *Mirror) SetLocalID(id string) {
	m.state = newMatchState(id)
}

func (m *Mirror) applyCardList(e CardListEvent) {
	if m.catalog != nil && m.catalog.Len() > 0 {
		m.logger.Debug("ignoring repeated card list", zap.Int("cards", len(e.Cards)))
		return
	}
	m.catalog = NewCatalog(e.Cards)
	m.logger.Info("card catalog loaded", zap.Int("cards", m.catalog.Len()))
}

func (m *Mirror) applyGameCreated(e GameCreatedEvent) {
	m.startMatch(e.GameID)
	m.state.Phase = PhaseWaiting
}

func (m *Mirror) applyAIGameCreated(e AIGameCreatedEvent) {
	m.startMatch(e.GameID)
	m.state.Phase = PhaseWaiting
	m.state.Opponent.UID = e.AIUID
}

// startMatch clears the board when a different match begins.
func (m *Mirror) startMatch(gameID string) {
	if gameID == m.state.MatchID && m.state.Phase != PhaseLobby {
		return
	}
	opponent := m.state.Opponent.UID
	m.Reset()
	m.state.MatchID = gameID
	if gameID == "" {
		m.state.Opponent.UID = opponent
	}
}

// sideOf maps a player id onto a seat. While the opponent is still unknown
// every non-local id is taken to be the opponent.
func (m *Mirror) sideOf(event EventType, playerID string) (Side, error) {
	switch {
	case playerID != "" && playerID == m.state.Local.UID:
		return Local, nil
	case playerID != "" && playerID == m.state.Opponent.UID:
		return Opponent, nil
	case playerID != "" && m.state.Opponent.UID == "":
		return Opponent, nil
	}
	return Local, &DesyncError{Event: event, PlayerID: playerID, Err: ErrUnknownPlayer}
}

func (m *Mirror) applyTurnChanged(e TurnChangedEvent) error {
	side, err := m.sideOf(EventTurnChanged, e.ActivePlayer)
	if err != nil {
		return err
	}

	m.state.ActiveTurn = e.ActivePlayer
	m.state.DrawPhase = false
	m.state.PriorityPlayer = ""
	m.state.Attacks = nil

	// Untap all cards, clear summoning sickness, and clear mana pool at start of turn
	p := m.state.player(side)
	for _, fc := range p.Field {
		fc.SetTapped(false)
		fc.SetSummoned(false)
		fc.CanAttack = true
	}
	for _, fc := range p.Lands {
		fc.SetTapped(false)
	}
	if side == Local {
		m.state.ManaPool.Clear()
	}
	return nil
}

func (m *Mirror) applyDrawPhase(e DrawPhaseEvent) error {
	side, err := m.sideOf(EventDrawPhase, e.Player)
	if err != nil {
		return err
	}
	p := m.state.player(side)
	p.DeckSize = e.MainDeckSize
	p.VaultSize = e.VaultSize
	m.state.DrawPhase = side == Local
	return nil
}

func (m *Mirror) applyCardDrawn(e CardDrawnEvent) error {
	side, err := m.sideOf(EventCardDrawn, e.Player)
	if err != nil {
		return err
	}

	p := m.state.player(side)
	if side == Local {
		p.Hand = append(p.Hand, e.CardID)
		p.HandSize = len(p.Hand)
	} else {
		p.HandSize++
	}

	// Prefer the absolute pile sizes; fall back to decrementing the source pile
	switch {
	case e.MainDeckSize != nil || e.VaultSize != nil:
		if e.MainDeckSize != nil {
			p.DeckSize = *e.MainDeckSize
		}
		if e.VaultSize != nil {
			p.VaultSize = *e.VaultSize
		}
	case e.Source == DrawSourceVault:
		p.VaultSize = max(p.VaultSize-1, 0)
	default:
		p.DeckSize = max(p.DeckSize-1, 0)
	}

	if side == Local {
		m.state.DrawPhase = false
	}
	return nil
}

func (m *Mirror) applyManaAdded(e ManaAddedEvent) error {
	side, err := m.sideOf(EventManaAdded, e.Player)
	if err != nil {
		return err
	}
	if side == Local {
		m.state.ManaPool = e.ManaPool
	}
	return nil
}

func (m *Mirror) applyDamage(e DamageEvent) error {
	side, err := m.sideOf(EventDamage, e.Target)
	if err != nil {
		return err
	}
	m.state.player(side).Life -= e.Amount
	return nil
}
