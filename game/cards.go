package game

import (
	"fmt"
	"strings"
)

// CardType is the broad category printed on a card.
type CardType string

const (
	CardTypeCreature CardType = "Creature"
	CardTypeLand     CardType = "Land"
	CardTypeSpell    CardType = "Spell"
	CardTypeInstant  CardType = "Instant"
)

// Ability is an ability tag carried by a card definition.
type Ability string

const (
	AbilityFlying       Ability = "Flying"
	AbilityReach        Ability = "Reach"
	AbilityVigilance    Ability = "Vigilance"
	AbilityTaunt        Ability = "Taunt"
	AbilityFirstStrike  Ability = "FirstStrike"
	AbilityDoubleStrike Ability = "DoubleStrike"
	AbilityTrample      Ability = "Trample"
)

// Evasion tags used by block legality: an attacker with EvasiveAbility can
// only be blocked by a creature with EvasiveAbility or CounterEvasiveAbility.
const (
	EvasiveAbility        = AbilityFlying
	CounterEvasiveAbility = AbilityReach
)

// Attack target restrictions from Card.ValidAttackTargets.
const (
	AttackTargetsAny       = "Any"
	AttackTargetsPlayer    = "Player"
	AttackTargetsCreatures = "Creatures"
)

type ManaCost struct {
	White     int `json:"White,omitempty"`
	Blue      int `json:"Blue,omitempty"`
	Black     int `json:"Black,omitempty"`
	Red       int `json:"Red,omitempty"`
	Green     int `json:"Green,omitempty"`
	Colorless int `json:"Colorless,omitempty"`
}

// Total returns the total mana (colored + colorless)
func (m ManaCost) Total() int {
	return m.White + m.Blue + m.Black + m.Red + m.Green + m.Colorless
}

// CanAfford reports whether the pool covers cost. Each colored bucket must
// cover its own part; colorless is paid from whatever is left over.
func (m ManaCost) CanAfford(cost ManaCost) bool {
	have := [...]int{m.White, m.Blue, m.Black, m.Red, m.Green}
	need := [...]int{cost.White, cost.Blue, cost.Black, cost.Red, cost.Green}
	spare := m.Colorless
	for i := range have {
		if have[i] < need[i] {
			return false
		}
		spare += have[i] - need[i]
	}
	return spare >= cost.Colorless
}

// Add returns the bucket-wise sum of two pools.
func (m ManaCost) Add(other ManaCost) ManaCost {
	return ManaCost{
		White:     m.White + other.White,
		Blue:      m.Blue + other.Blue,
		Black:     m.Black + other.Black,
		Red:       m.Red + other.Red,
		Green:     m.Green + other.Green,
		Colorless: m.Colorless + other.Colorless,
	}
}

// Clear resets all mana to zero
func (m *ManaCost) Clear() {
	*m = ManaCost{}
}

// String formats the pool the way cards print costs, e.g. "2W 1U 3".
func (m ManaCost) String() string {
	parts := []string{}
	if m.White > 0 {
		parts = append(parts, fmt.Sprintf("%dW", m.White))
	}
	if m.Blue > 0 {
		parts = append(parts, fmt.Sprintf("%dU", m.Blue))
	}
	if m.Black > 0 {
		parts = append(parts, fmt.Sprintf("%dB", m.Black))
	}
	if m.Red > 0 {
		parts = append(parts, fmt.Sprintf("%dR", m.Red))
	}
	if m.Green > 0 {
		parts = append(parts, fmt.Sprintf("%dG", m.Green))
	}
	if m.Colorless > 0 {
		parts = append(parts, fmt.Sprintf("%d", m.Colorless))
	}
	if len(parts) == 0 {
		return "0"
	}
	return strings.Join(parts, " ")
}

type Card struct {
	ID                 int       `json:"ID"`
	Name               string    `json:"Name"`
	Cost               ManaCost  `json:"Cost"`
	Provides           ManaCost  `json:"Provides"`
	Attack             int       `json:"Attack"`
	Defense            int       `json:"Defense"`
	CardType           CardType  `json:"CardType"`
	CardText           string    `json:"CardText"`
	Abilities          []Ability `json:"Abilities"`
	ValidAttackTargets string    `json:"ValidAttackTargets"`
}

// HasAbility checks if the card has a specific ability
func (c Card) HasAbility(ability Ability) bool {
	return hasAbility(c.Abilities, ability)
}

// AttackTargets returns the card's attack restriction, defaulting to Any.
func (c Card) AttackTargets() string {
	if c.ValidAttackTargets == "" {
		return AttackTargetsAny
	}
	return c.ValidAttackTargets
}

// ProvidedMana returns the mana this card provides (for lands).
func (c Card) ProvidedMana() ManaCost {
	if c.Provides.Total() > 0 {
		return c.Provides
	}
	// Basic lands derive their color from the name
	if c.CardType == CardTypeLand {
		switch {
		case strings.Contains(c.Name, "White"):
			return ManaCost{White: 1}
		case strings.Contains(c.Name, "Blue"):
			return ManaCost{Blue: 1}
		case strings.Contains(c.Name, "Black"):
			return ManaCost{Black: 1}
		case strings.Contains(c.Name, "Red"):
			return ManaCost{Red: 1}
		case strings.Contains(c.Name, "Green"):
			return ManaCost{Green: 1}
		}
	}
	return ManaCost{}
}

func hasAbility(abilities []Ability, ability Ability) bool {
	for _, a := range abilities {
		if a == ability {
			return true
		}
	}
	return false
}

// Catalog is the read-only card database broadcast by the server.
type Catalog struct {
	cards map[int]Card
}

// NewCatalog copies cards into an immutable catalog.
func NewCatalog(cards map[int]Card) *Catalog {
	c := &Catalog{cards: make(map[int]Card, len(cards))}
	for id, card := range cards {
		c.cards[id] = card
	}
	return c
}

// Lookup returns the definition for a card id.
func (c *Catalog) Lookup(id int) (Card, bool) {
	if c == nil {
		return Card{}, false
	}
	card, ok := c.cards[id]
	return card, ok
}

// Name returns the card name, or a placeholder when the id is unknown.
func (c *Catalog) Name(id int) string {
	if card, ok := c.Lookup(id); ok {
		return card.Name
	}
	return fmt.Sprintf("Card #%d", id)
}

func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.cards)
}
