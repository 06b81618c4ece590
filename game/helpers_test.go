package game

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const (
	alice = "alice"
	bob   = "bob"
)

// Card ids used across the package tests.
const (
	cardBear       = 1
	cardDrake      = 2
	cardArcher     = 3
	cardWall       = 4
	cardSkirmisher = 5
	cardPikeman    = 6
	cardPlains     = 101
	cardShock      = 200
)

func testCards() map[int]Card {
	return map[int]Card{
		cardBear:       {ID: cardBear, Name: "Grizzly Bear", Attack: 2, Defense: 2, CardType: CardTypeCreature, Cost: ManaCost{Green: 1, Colorless: 1}},
		cardDrake:      {ID: cardDrake, Name: "Sky Drake", Attack: 2, Defense: 3, CardType: CardTypeCreature, Abilities: []Ability{AbilityFlying}},
		cardArcher:     {ID: cardArcher, Name: "Tree Archer", Attack: 1, Defense: 3, CardType: CardTypeCreature, Abilities: []Ability{AbilityReach}},
		cardWall:       {ID: cardWall, Name: "Stone Wall", Attack: 0, Defense: 5, CardType: CardTypeCreature, Abilities: []Ability{AbilityTaunt}},
		cardSkirmisher: {ID: cardSkirmisher, Name: "Skirmisher", Attack: 1, Defense: 1, CardType: CardTypeCreature, ValidAttackTargets: AttackTargetsPlayer},
		cardPikeman:    {ID: cardPikeman, Name: "Pikeman", Attack: 2, Defense: 1, CardType: CardTypeCreature, ValidAttackTargets: AttackTargetsCreatures},
		cardPlains:     {ID: cardPlains, Name: "White Plains", CardType: CardTypeLand},
		cardShock:      {ID: cardShock, Name: "Shock", CardType: CardTypeSpell, Cost: ManaCost{Red: 1}},
	}
}

// newStartedMirror returns a mirror for alice in a started match against bob
// on alice's turn.
func newStartedMirror(t *testing.T) *Mirror {
	t.Helper()
	m := NewMirror(alice, zaptest.NewLogger(t))
	require.NoError(t, m.Apply(CardListEvent{Cards: testCards()}))
	require.NoError(t, m.Apply(MulliganPhaseEvent{
		GameID: "g1",
		Players: map[string]PlayerInfo{
			alice: {Hand: HandInfo{Cards: []int{cardBear, cardPlains, cardShock}, Count: 3}, DeckSize: 20, VaultSize: 10},
			bob:   {Hand: HandInfo{Count: 3}, DeckSize: 20, VaultSize: 10},
		},
	}))
	require.NoError(t, m.Apply(GameStartedEvent{
		GameID: "g1",
		Players: map[string]PlayerInfo{
			alice: {Hand: HandInfo{Cards: []int{cardBear, cardPlains, cardShock}, Count: 3}, DeckSize: 20, VaultSize: 10},
			bob:   {Hand: HandInfo{Count: 3}, DeckSize: 20, VaultSize: 10},
		},
		CurrentTurn: alice,
	}))
	require.NoError(t, m.Apply(TurnChangedEvent{ActivePlayer: alice}))
	return m
}

// place puts a creature straight onto a field, bypassing events.
func place(m *Mirror, side Side, instanceID, cardID int, tapped, sick bool) *FieldCard {
	card, _ := m.catalog.Lookup(cardID)
	fc := &FieldCard{
		InstanceID:    instanceID,
		CardID:        cardID,
		CurrentHealth: card.Defense,
		CanAttack:     !sick,
		Status:        map[string]int{},
	}
	fc.SetTapped(tapped)
	fc.SetSummoned(sick)
	p := m.state.player(side)
	p.Field = append(p.Field, fc)
	return fc
}

type recordingDeclarer struct {
	attacks [][]PendingAttack
	blocks  [][]PendingBlock
	err     error
}

func (r *recordingDeclarer) DeclareAttacks(attacks []PendingAttack) error {
	if r.err != nil {
		return r.err
	}
	r.attacks = append(r.attacks, attacks)
	return nil
}

func (r *recordingDeclarer) DeclareBlockers(blocks []PendingBlock) error {
	if r.err != nil {
		return r.err
	}
	r.blocks = append(r.blocks, blocks)
	return nil
}
