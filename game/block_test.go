package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// newBlockFixture starts a negotiation where bob attacks with a bear (30)
// and a drake (31) and alice may block with a bear (10) or an archer (11).
func newBlockFixture(t *testing.T) (*BlockNegotiator, *recordingDeclarer) {
	t.Helper()
	m := newStartedMirror(t)
	place(m, Local, 10, cardBear, false, false)
	place(m, Local, 11, cardArcher, false, false)
	place(m, Opponent, 30, cardBear, true, false)
	place(m, Opponent, 31, cardDrake, true, false)

	out := &recordingDeclarer{}
	n := NewBlockNegotiator(m, out, zaptest.NewLogger(t))
	n.Begin(BlockersNeededEvent{
		Defender: alice,
		Attacks: []AttackDeclaration{
			{AttackerInstanceID: 30, TargetType: TargetPlayer, TargetPlayerUID: alice, AttackerAbilities: []Ability{}},
			{AttackerInstanceID: 31, TargetType: TargetPlayer, TargetPlayerUID: alice, AttackerAbilities: []Ability{AbilityFlying}},
		},
		AvailableBlockers: []BlockerCandidate{
			{InstanceID: 10, CardID: cardBear, Abilities: []Ability{}},
			{InstanceID: 11, CardID: cardArcher, Abilities: []Ability{AbilityReach}},
		},
	})
	return n, out
}

func TestBlock_Begin(t *testing.T) {
	n, _ := newBlockFixture(t)

	assert.Equal(t, BlockAwaitingBlocker, n.State())
	assert.True(t, n.Active())
	assert.Len(t, n.Attacks(), 2)
	assert.Len(t, n.Candidates(), 2)
}

func TestBlock_PairAndConfirm(t *testing.T) {
	n, out := newBlockFixture(t)

	require.NoError(t, n.SelectBlocker(10))
	assert.Equal(t, BlockAwaitingAttacker, n.State())
	require.NoError(t, n.SelectAttacker(30))
	assert.Equal(t, BlockAwaitingBlocker, n.State())
	assert.Equal(t, 10, n.BlockerFor(30))

	require.NoError(t, n.Confirm())

	require.Len(t, out.blocks, 1)
	assert.Equal(t, []PendingBlock{{BlockerInstanceID: 10, AttackerInstanceID: 30}}, out.blocks[0])
	assert.Equal(t, BlockResolved, n.State())
	assert.False(t, n.Active())
}

func TestBlock_EvasionRejected(t *testing.T) {
	n, _ := newBlockFixture(t)
	require.NoError(t, n.SelectBlocker(10))

	err := n.SelectAttacker(31)

	assert.True(t, IsRejection(err, RejectEvasion))
	assert.Equal(t, "This creature cannot block a Flying creature! Need Flying or Reach.", err.Error())
	assert.Empty(t, n.Pending())
	assert.Equal(t, BlockAwaitingAttacker, n.State())
}

func TestBlock_CounterEvasionAllowed(t *testing.T) {
	n, _ := newBlockFixture(t)
	require.NoError(t, n.SelectBlocker(11))

	require.NoError(t, n.SelectAttacker(31))

	assert.Equal(t, []PendingBlock{{BlockerInstanceID: 11, AttackerInstanceID: 31}}, n.Pending())
}

func TestBlock_CanBlock(t *testing.T) {
	n, _ := newBlockFixture(t)

	assert.True(t, n.CanBlock(10, 30))
	assert.False(t, n.CanBlock(10, 31))
	assert.True(t, n.CanBlock(11, 31))
	assert.False(t, n.CanBlock(99, 30))
	assert.False(t, n.CanBlock(10, 99))
}

func TestBlock_AbilitiesFallBackToCatalog(t *testing.T) {
	m := newStartedMirror(t)
	place(m, Local, 10, cardBear, false, false)
	place(m, Opponent, 31, cardDrake, true, false)
	n := NewBlockNegotiator(m, &recordingDeclarer{}, zaptest.NewLogger(t))
	n.Begin(BlockersNeededEvent{
		Defender:          alice,
		Attacks:           []AttackDeclaration{{AttackerInstanceID: 31, TargetType: TargetPlayer}},
		AvailableBlockers: []BlockerCandidate{{InstanceID: 10}},
	})

	assert.False(t, n.CanBlock(10, 31))
}

func TestBlock_IneligibleBlocker(t *testing.T) {
	n, _ := newBlockFixture(t)

	err := n.SelectBlocker(12)

	assert.True(t, IsRejection(err, RejectCannotBlock))
	assert.Equal(t, BlockAwaitingBlocker, n.State())
}

func TestBlock_AttackerWithoutProvisionalBlocker(t *testing.T) {
	n, _ := newBlockFixture(t)

	assert.True(t, IsRejection(n.SelectAttacker(30), RejectNoBlockerSelected))

	require.NoError(t, n.SelectBlocker(10))
	assert.True(t, IsRejection(n.SelectAttacker(77), RejectUnknownAttacker))
}

func TestBlock_ToggleOff(t *testing.T) {
	n, _ := newBlockFixture(t)

	require.NoError(t, n.SelectBlocker(10))
	require.NoError(t, n.SelectBlocker(10))
	assert.Equal(t, BlockAwaitingBlocker, n.State())
	assert.Equal(t, 0, n.Provisional())

	require.NoError(t, n.SelectBlocker(10))
	require.NoError(t, n.SelectAttacker(30))
	require.NoError(t, n.SelectBlocker(10))

	assert.Empty(t, n.Pending())
	assert.False(t, n.IsBlocking(10))
}

func TestBlock_OneBlockerPerAttacker(t *testing.T) {
	n, _ := newBlockFixture(t)
	require.NoError(t, n.SelectBlocker(10))
	require.NoError(t, n.SelectAttacker(30))

	require.NoError(t, n.SelectBlocker(11))
	err := n.SelectAttacker(30)

	assert.True(t, IsRejection(err, RejectAttackerAlreadyBlocked))
	assert.Len(t, n.Pending(), 1)
}

func TestBlock_ConfirmEmptyMeansNoBlocks(t *testing.T) {
	n, out := newBlockFixture(t)

	require.NoError(t, n.Confirm())

	require.Len(t, out.blocks, 1)
	assert.NotNil(t, out.blocks[0])
	assert.Empty(t, out.blocks[0])
}

func TestBlock_SkipIgnoresPending(t *testing.T) {
	n, out := newBlockFixture(t)
	require.NoError(t, n.SelectBlocker(10))
	require.NoError(t, n.SelectAttacker(30))

	require.NoError(t, n.Skip())

	require.Len(t, out.blocks, 1)
	assert.Empty(t, out.blocks[0])
	assert.Equal(t, BlockResolved, n.State())
}

func TestBlock_CancelKeepsNegotiationOpen(t *testing.T) {
	n, out := newBlockFixture(t)
	require.NoError(t, n.SelectBlocker(10))
	require.NoError(t, n.SelectAttacker(30))
	require.NoError(t, n.SelectBlocker(11))

	n.Cancel()

	assert.Equal(t, BlockAwaitingBlocker, n.State())
	assert.Empty(t, n.Pending())
	assert.Equal(t, 0, n.Provisional())
	assert.Empty(t, out.blocks)
}

func TestBlock_InactiveRejectsEverything(t *testing.T) {
	n, out := newBlockFixture(t)
	n.Reset()

	assert.True(t, IsRejection(n.SelectBlocker(10), RejectNotBlocking))
	assert.True(t, IsRejection(n.SelectAttacker(30), RejectNotBlocking))
	assert.True(t, IsRejection(n.Confirm(), RejectNotBlocking))
	assert.True(t, IsRejection(n.Skip(), RejectNotBlocking))
	assert.Empty(t, out.blocks)
	assert.Equal(t, BlockInactive, n.State())
}
