package game

// StartingLife is every player's life total before the first event arrives.
const StartingLife = 30

// Field card status keys used by the server.
const (
	StatusTapped   = "Tapped"
	StatusSummoned = "Summoned"
)

// FieldCard is one permanent on a field or in a lands pool.
type FieldCard struct {
	InstanceID     int            `json:"instanceId"`
	CardID         int            `json:"cardId"`
	CurrentHealth  int            `json:"currentHealth"`
	DamageModifier int            `json:"damageModifier"`
	HealthModifier int            `json:"healthModifier"`
	CanAttack      bool           `json:"canAttack"`
	Status         map[string]int `json:"status"`
}

func (fc *FieldCard) IsTapped() bool {
	return fc.Status[StatusTapped] > 0
}

func (fc *FieldCard) SetTapped(tapped bool) {
	fc.setStatus(StatusTapped, tapped)
}

// IsSummoned reports summoning sickness.
func (fc *FieldCard) IsSummoned() bool {
	return fc.Status[StatusSummoned] > 0
}

func (fc *FieldCard) SetSummoned(summoned bool) {
	fc.setStatus(StatusSummoned, summoned)
}

func (fc *FieldCard) setStatus(key string, on bool) {
	if fc.Status == nil {
		fc.Status = map[string]int{}
	}
	if on {
		fc.Status[key] = 1
	} else {
		fc.Status[key] = 0
	}
}

// Clone returns a deep copy.
func (fc *FieldCard) Clone() *FieldCard {
	c := *fc
	c.Status = make(map[string]int, len(fc.Status))
	for k, v := range fc.Status {
		c.Status[k] = v
	}
	return &c
}

// Stats are the derived numbers shown for a creature.
type Stats struct {
	Attack    int
	Health    int
	MaxHealth int
}

// EffectiveStats combines the catalog base stats with the instance modifiers.
// Health is the absolute currentHealth, never recomputed.
func (fc *FieldCard) EffectiveStats(card Card) Stats {
	return Stats{
		Attack:    card.Attack + fc.DamageModifier,
		Health:    fc.CurrentHealth,
		MaxHealth: card.Defense + fc.HealthModifier,
	}
}

// Side selects one of the two players from the local point of view.
type Side int

const (
	Local Side = iota
	Opponent
)

func (s Side) String() string {
	if s == Local {
		return "local"
	}
	return "opponent"
}

// Phase is where the match is in its lifecycle.
type Phase string

const (
	PhaseLobby    Phase = "lobby"
	PhaseWaiting  Phase = "waiting"
	PhaseMulligan Phase = "mulligan"
	PhaseStarted  Phase = "started"
	PhaseOver     Phase = "over"
)

// PlayerState is one side of the board.
type PlayerState struct {
	UID string
	// Hand holds card ids and is only known for the local player.
	Hand        []int
	HandSize    int
	Field       []*FieldCard
	Lands       []*FieldCard
	Life        int
	DeckSize    int
	VaultSize   int
	DiscardSize int
	Leader      int
}

func newPlayerState(uid string) PlayerState {
	return PlayerState{
		UID:   uid,
		Hand:  []int{},
		Field: []*FieldCard{},
		Lands: []*FieldCard{},
		Life:  StartingLife,
	}
}

func (p PlayerState) clone() PlayerState {
	c := p
	c.Hand = append([]int{}, p.Hand...)
	c.Field = cloneCards(p.Field)
	c.Lands = cloneCards(p.Lands)
	return c
}

func cloneCards(cards []*FieldCard) []*FieldCard {
	out := make([]*FieldCard, 0, len(cards))
	for _, fc := range cards {
		out = append(out, fc.Clone())
	}
	return out
}

// MatchState is everything the client knows about the current match.
type MatchState struct {
	MatchID         string
	Phase           Phase
	MulliganDecided bool
	ActiveTurn      string
	DrawPhase       bool
	PriorityPlayer  string
	Winner          string
	Local           PlayerState
	Opponent        PlayerState
	// ManaPool is the local player's pool; the opponent's is never revealed.
	ManaPool ManaCost
	// Attacks holds the declared attacks of the combat in progress.
	Attacks []AttackDeclaration
}

func newMatchState(localID string) MatchState {
	return MatchState{
		Phase:    PhaseLobby,
		Local:    newPlayerState(localID),
		Opponent: newPlayerState(""),
	}
}

// Clone returns a deep copy safe to hand to a renderer.
func (s MatchState) Clone() MatchState {
	c := s
	c.Local = s.Local.clone()
	c.Opponent = s.Opponent.clone()
	c.Attacks = append([]AttackDeclaration{}, s.Attacks...)
	return c
}

func (s *MatchState) player(side Side) *PlayerState {
	if side == Local {
		return &s.Local
	}
	return &s.Opponent
}
