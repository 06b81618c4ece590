// block.go - Block negotiation: pairing local blockers with incoming attackers
package game

import "go.uber.org/zap"

// PendingBlock binds one local blocker to one incoming attacker. It is the
// wire element of declare_blockers.
type PendingBlock struct {
	BlockerInstanceID  int `json:"blockerInstanceId"`
	AttackerInstanceID int `json:"attackerInstanceId"`
}

// BlockState is the state of the block negotiation.
type BlockState int

const (
	BlockInactive BlockState = iota
	BlockAwaitingBlocker
	BlockAwaitingAttacker
	BlockResolved
)

func (s BlockState) String() string {
	switch s {
	case BlockAwaitingBlocker:
		return "awaiting blocker"
	case BlockAwaitingAttacker:
		return "awaiting attacker"
	case BlockResolved:
		return "resolved"
	}
	return "inactive"
}

// BlockDeclarer sends a block batch. An empty batch means no blocks.
type BlockDeclarer interface {
	DeclareBlockers(blocks []PendingBlock) error
}

// BlockNegotiator runs while the server waits for the local player to
// answer an attack wave. Pairing is one-to-one: a blocker blocks at most one
// attacker and an attacker takes at most one blocker.
type BlockNegotiator struct {
	board       BoardReader
	out         BlockDeclarer
	logger      *zap.Logger
	state       BlockState
	attacks     []AttackDeclaration
	candidates  []BlockerCandidate
	provisional int
	pending     []PendingBlock
}

func NewBlockNegotiator(board BoardReader, out BlockDeclarer, logger *zap.Logger) *BlockNegotiator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BlockNegotiator{board: board, out: out, logger: logger}
}

func (n *BlockNegotiator) State() BlockState { return n.state }

// Active reports whether a block decision is still owed.
func (n *BlockNegotiator) Active() bool {
	return n.state == BlockAwaitingBlocker || n.state == BlockAwaitingAttacker
}

func (n *BlockNegotiator) Provisional() int { return n.provisional }

func (n *BlockNegotiator) Pending() []PendingBlock {
	return append([]PendingBlock{}, n.pending...)
}

// Attacks returns the incoming attacks being answered.
func (n *BlockNegotiator) Attacks() []AttackDeclaration {
	return append([]AttackDeclaration{}, n.attacks...)
}

// Candidates returns the local creatures the server allows to block.
func (n *BlockNegotiator) Candidates() []BlockerCandidate {
	return append([]BlockerCandidate{}, n.candidates...)
}

// IsBlocking reports whether the creature already has a pending block.
func (n *BlockNegotiator) IsBlocking(blockerID int) bool {
	return n.blockIndex(blockerID) >= 0
}

// BlockerFor returns the pending blocker of an attacker, or 0.
func (n *BlockNegotiator) BlockerFor(attackerID int) int {
	for _, pb := range n.pending {
		if pb.AttackerInstanceID == attackerID {
			return pb.BlockerInstanceID
		}
	}
	return 0
}

// Begin starts a negotiation for a BlockersNeeded announcement.
func (n *BlockNegotiator) Begin(e BlockersNeededEvent) {
	n.attacks = append([]AttackDeclaration{}, e.Attacks...)
	n.candidates = append([]BlockerCandidate{}, e.AvailableBlockers...)
	n.pending = nil
	n.provisional = 0
	n.state = BlockAwaitingBlocker
	n.logger.Debug("blockers needed",
		zap.Int("attacks", len(n.attacks)),
		zap.Int("candidates", len(n.candidates)),
	)
}

// SelectBlocker picks a local creature. Selecting one that already blocks,
// or the provisional blocker again, toggles it off.
func (n *BlockNegotiator) SelectBlocker(blockerID int) error {
	if !n.Active() {
		return reject(RejectNotBlocking)
	}
	if _, ok := n.candidate(blockerID); !ok {
		return reject(RejectCannotBlock)
	}

	if idx := n.blockIndex(blockerID); idx >= 0 {
		n.pending = removeAt(n.pending, idx)
		n.provisional = 0
		n.state = BlockAwaitingBlocker
		return nil
	}
	if n.provisional == blockerID {
		n.provisional = 0
		n.state = BlockAwaitingBlocker
		return nil
	}

	n.provisional = blockerID
	n.state = BlockAwaitingAttacker
	return nil
}

// SelectAttacker pairs the provisional blocker with an incoming attacker.
func (n *BlockNegotiator) SelectAttacker(attackerID int) error {
	if !n.Active() {
		return reject(RejectNotBlocking)
	}
	if n.state != BlockAwaitingAttacker || n.provisional == 0 {
		return reject(RejectNoBlockerSelected)
	}
	if _, ok := n.attack(attackerID); !ok {
		return rejectf(RejectUnknownAttacker, "instance %d", attackerID)
	}
	if !n.CanBlock(n.provisional, attackerID) {
		return reject(RejectEvasion)
	}
	if n.BlockerFor(attackerID) != 0 {
		return reject(RejectAttackerAlreadyBlocked)
	}

	n.pending = append(n.pending, PendingBlock{
		BlockerInstanceID:  n.provisional,
		AttackerInstanceID: attackerID,
	})
	n.provisional = 0
	n.state = BlockAwaitingBlocker
	return nil
}

// CanBlock applies the evasion rule: an evasive attacker can only be blocked
// by a creature with the evasive or counter-evasive ability.
func (n *BlockNegotiator) CanBlock(blockerID, attackerID int) bool {
	blocker, ok := n.candidate(blockerID)
	if !ok {
		return false
	}
	attack, ok := n.attack(attackerID)
	if !ok {
		return false
	}

	if !hasAbility(n.attackerAbilities(attack), EvasiveAbility) {
		return true
	}
	abilities := n.blockerAbilities(blocker)
	return hasAbility(abilities, EvasiveAbility) || hasAbility(abilities, CounterEvasiveAbility)
}

// Confirm sends the pending batch, which may be empty, and resolves.
func (n *BlockNegotiator) Confirm() error {
	if !n.Active() {
		return reject(RejectNotBlocking)
	}
	batch := n.Pending()
	if err := n.out.DeclareBlockers(batch); err != nil {
		return err
	}
	n.logger.Debug("blockers declared", zap.Int("blocks", len(batch)))
	n.provisional = 0
	n.state = BlockResolved
	return nil
}

// Skip declares no blocks regardless of what is pending.
func (n *BlockNegotiator) Skip() error {
	if !n.Active() {
		return reject(RejectNotBlocking)
	}
	if err := n.out.DeclareBlockers([]PendingBlock{}); err != nil {
		return err
	}
	n.pending = nil
	n.provisional = 0
	n.state = BlockResolved
	return nil
}

// Cancel drops pending blocks and the provisional blocker. The server is
// still waiting, so the negotiation stays open.
func (n *BlockNegotiator) Cancel() {
	if !n.Active() {
		return
	}
	n.pending = nil
	n.provisional = 0
	n.state = BlockAwaitingBlocker
}

// Reset returns to Inactive. Called by the dispatcher when the server moves on.
func (n *BlockNegotiator) Reset() {
	n.state = BlockInactive
	n.attacks = nil
	n.candidates = nil
	n.pending = nil
	n.provisional = 0
}

func (n *BlockNegotiator) candidate(blockerID int) (BlockerCandidate, bool) {
	for _, c := range n.candidates {
		if c.InstanceID == blockerID {
			return c, true
		}
	}
	return BlockerCandidate{}, false
}

func (n *BlockNegotiator) attack(attackerID int) (AttackDeclaration, bool) {
	for _, a := range n.attacks {
		if a.AttackerInstanceID == attackerID {
			return a, true
		}
	}
	return AttackDeclaration{}, false
}

// blockerAbilities falls back to the catalog when the announcement omitted
// the candidate's abilities.
func (n *BlockNegotiator) blockerAbilities(c BlockerCandidate) []Ability {
	if c.Abilities != nil || n.board == nil {
		return c.Abilities
	}
	cardID := c.CardID
	if cardID == 0 {
		if fc, ok := n.board.FindCreature(Local, c.InstanceID); ok {
			cardID = fc.CardID
		}
	}
	card, _ := n.board.Catalog().Lookup(cardID)
	return card.Abilities
}

func (n *BlockNegotiator) attackerAbilities(a AttackDeclaration) []Ability {
	if a.AttackerAbilities != nil || n.board == nil {
		return a.AttackerAbilities
	}
	fc, ok := n.board.FindCreature(Opponent, a.AttackerInstanceID)
	if !ok {
		return nil
	}
	card, _ := n.board.Catalog().Lookup(fc.CardID)
	return card.Abilities
}

func (n *BlockNegotiator) blockIndex(blockerID int) int {
	for i, pb := range n.pending {
		if pb.BlockerInstanceID == blockerID {
			return i
		}
	}
	return -1
}
