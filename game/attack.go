// attack.go - Attack negotiation: choosing attackers and targets before declare_attacks
package game

import "go.uber.org/zap"

// TargetType is what an attack is aimed at.
type TargetType string

const (
	TargetCreature TargetType = "creature"
	TargetPlayer   TargetType = "player"
)

// PendingAttack binds one attacker to one target. It is the wire element of
// declare_attacks.
type PendingAttack struct {
	AttackerInstanceID int        `json:"attackerInstanceId"`
	TargetType         TargetType `json:"targetType"`
	TargetInstanceID   int        `json:"targetInstanceId"`
	TargetPlayerUID    string     `json:"targetPlayerUid"`
}

// AttackState is the state of the attack negotiation.
type AttackState int

const (
	AttackIdle AttackState = iota
	AttackSelectingAttacker
	AttackSelectingTarget
)

func (s AttackState) String() string {
	switch s {
	case AttackSelectingAttacker:
		return "selecting attacker"
	case AttackSelectingTarget:
		return "selecting target"
	}
	return "idle"
}

// AttackDeclarer sends a confirmed attack batch.
type AttackDeclarer interface {
	DeclareAttacks(attacks []PendingAttack) error
}

// AttackNegotiator collects attacker/target pairs during the local turn and
// emits them as one batch. It reads the board but never mutates it.
type AttackNegotiator struct {
	board       BoardReader
	out         AttackDeclarer
	logger      *zap.Logger
	state       AttackState
	provisional int
	pending     []PendingAttack
}

func NewAttackNegotiator(board BoardReader, out AttackDeclarer, logger *zap.Logger) *AttackNegotiator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttackNegotiator{board: board, out: out, logger: logger}
}

func (n *AttackNegotiator) State() AttackState { return n.state }

// Active reports whether combat mode is on.
func (n *AttackNegotiator) Active() bool { return n.state != AttackIdle }

// Provisional returns the attacker waiting for a target, or 0.
func (n *AttackNegotiator) Provisional() int { return n.provisional }

// Pending returns a copy of the recorded attacks.
func (n *AttackNegotiator) Pending() []PendingAttack {
	return append([]PendingAttack{}, n.pending...)
}

// IsAttacking reports whether the creature already has a pending attack.
func (n *AttackNegotiator) IsAttacking(instanceID int) bool {
	return n.pendingIndex(instanceID) >= 0
}

// IsTargeted reports whether any pending attack aims at the creature.
func (n *AttackNegotiator) IsTargeted(instanceID int) bool {
	for _, pa := range n.pending {
		if pa.TargetType == TargetCreature && pa.TargetInstanceID == instanceID {
			return true
		}
	}
	return false
}

// Enter turns combat mode on. Only allowed on the local turn.
func (n *AttackNegotiator) Enter() error {
	if !n.board.IsLocalTurn() {
		return reject(RejectNotYourTurn)
	}
	if n.state == AttackIdle {
		n.state = AttackSelectingAttacker
	}
	return nil
}

// Exit turns combat mode off and discards everything unconfirmed.
func (n *AttackNegotiator) Exit() {
	n.Reset()
}

// Toggle flips combat mode and reports whether it is now on.
func (n *AttackNegotiator) Toggle() (bool, error) {
	if n.state != AttackIdle {
		n.Exit()
		return false, nil
	}
	if err := n.Enter(); err != nil {
		return false, err
	}
	return true, nil
}

// SelectAttacker picks one of the local creatures. Selecting a creature that
// already attacks, or the provisional attacker again, toggles it off.
func (n *AttackNegotiator) SelectAttacker(instanceID int) error {
	if n.state == AttackIdle {
		return reject(RejectNotInCombat)
	}
	if !n.board.IsLocalTurn() {
		return reject(RejectNotYourTurn)
	}

	fc, ok := n.board.FindCreature(Local, instanceID)
	if !ok {
		return rejectf(RejectUnknownCreature, "instance %d", instanceID)
	}
	if fc.IsSummoned() || fc.IsTapped() {
		return reject(RejectCannotAttack)
	}

	if idx := n.pendingIndex(instanceID); idx >= 0 {
		n.pending = removeAt(n.pending, idx)
		n.provisional = 0
		n.state = AttackSelectingAttacker
		return nil
	}
	if n.provisional == instanceID {
		n.provisional = 0
		n.state = AttackSelectingAttacker
		return nil
	}

	n.provisional = instanceID
	n.state = AttackSelectingTarget
	return nil
}

// TargetCreature aims the provisional attacker at an opponent creature.
func (n *AttackNegotiator) TargetCreature(instanceID int) error {
	attacker, err := n.provisionalCard()
	if err != nil {
		return err
	}
	if _, ok := n.board.FindCreature(Opponent, instanceID); !ok {
		return rejectf(RejectUnknownCreature, "instance %d", instanceID)
	}
	if attacker.AttackTargets() == AttackTargetsPlayer {
		return rejectf(RejectInvalidTarget, "%s can only attack players", attacker.Name)
	}

	// Check for Taunt creatures
	taunts := n.untappedTaunts()
	if len(taunts) > 0 && !taunts[instanceID] {
		return reject(RejectTaunt)
	}

	n.record(PendingAttack{
		AttackerInstanceID: n.provisional,
		TargetType:         TargetCreature,
		TargetInstanceID:   instanceID,
	})
	return nil
}

// TargetPlayer aims the provisional attacker at the opponent's life total.
func (n *AttackNegotiator) TargetPlayer() error {
	attacker, err := n.provisionalCard()
	if err != nil {
		return err
	}
	if attacker.AttackTargets() == AttackTargetsCreatures {
		return rejectf(RejectInvalidTarget, "%s can only attack creatures", attacker.Name)
	}
	if len(n.untappedTaunts()) > 0 {
		return reject(RejectTaunt)
	}

	n.record(PendingAttack{
		AttackerInstanceID: n.provisional,
		TargetType:         TargetPlayer,
		TargetPlayerUID:    n.board.OpponentID(),
	})
	return nil
}

// Confirm sends the whole batch and leaves combat mode. An empty batch is
// rejected without touching the network.
func (n *AttackNegotiator) Confirm() error {
	if n.state == AttackIdle {
		return reject(RejectNotInCombat)
	}
	if len(n.pending) == 0 {
		return reject(RejectNoAttacks)
	}
	if !n.board.IsLocalTurn() {
		return reject(RejectNotYourTurn)
	}

	batch := n.Pending()
	if err := n.out.DeclareAttacks(batch); err != nil {
		return err
	}
	n.logger.Debug("attacks declared", zap.Int("attacks", len(batch)))
	n.Reset()
	return nil
}

// Cancel discards all pending attacks and the provisional selection.
func (n *AttackNegotiator) Cancel() {
	n.Reset()
}

// Reset returns to Idle. Called by the dispatcher when the server moves on.
func (n *AttackNegotiator) Reset() {
	n.state = AttackIdle
	n.provisional = 0
	n.pending = nil
}

func (n *AttackNegotiator) record(pa PendingAttack) {
	n.pending = append(n.pending, pa)
	n.provisional = 0
	n.state = AttackSelectingAttacker
}

// provisionalCard returns the catalog entry of the attacker awaiting a target.
func (n *AttackNegotiator) provisionalCard() (Card, error) {
	if n.state != AttackSelectingTarget || n.provisional == 0 {
		return Card{}, reject(RejectNoAttackerSelected)
	}
	fc, ok := n.board.FindCreature(Local, n.provisional)
	if !ok {
		err := rejectf(RejectUnknownCreature, "instance %d", n.provisional)
		n.provisional = 0
		n.state = AttackSelectingAttacker
		return Card{}, err
	}
	card, _ := n.board.Catalog().Lookup(fc.CardID)
	return card, nil
}

// untappedTaunts returns the untapped Taunt creatures on the opponent's field
func (n *AttackNegotiator) untappedTaunts() map[int]bool {
	taunts := map[int]bool{}
	for _, fc := range n.board.Field(Opponent) {
		if fc.IsTapped() {
			continue
		}
		card, _ := n.board.Catalog().Lookup(fc.CardID)
		if card.HasAbility(AbilityTaunt) {
			taunts[fc.InstanceID] = true
		}
	}
	return taunts
}

func (n *AttackNegotiator) pendingIndex(instanceID int) int {
	for i, pa := range n.pending {
		if pa.AttackerInstanceID == instanceID {
			return i
		}
	}
	return -1
}
