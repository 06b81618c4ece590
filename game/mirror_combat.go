// mirror_combat.go - Combat events: declarations, damage, deaths
package game

// applyAttacksDeclared records the combat and marks the attackers as spent
func (m *Mirror) applyAttacksDeclared(e AttacksDeclaredEvent) error {
	side, err := m.sideOf(EventAttacksDeclared, e.Player)
	if err != nil {
		return err
	}
	player := m.state.player(side)

	attackers := make([]*FieldCard, 0, len(e.Attacks))
	for _, atk := range e.Attacks {
		attacker := findInstance(player.Field, atk.AttackerInstanceID)
		if attacker == nil {
			return &DesyncError{Event: EventAttacksDeclared, InstanceID: atk.AttackerInstanceID, Err: ErrUnknownInstance}
		}
		attackers = append(attackers, attacker)
	}

	for _, attacker := range attackers {
		attacker.CanAttack = false
	}
	m.state.Attacks = append([]AttackDeclaration{}, e.Attacks...)
	return nil
}

func (m *Mirror) applyResponseWindow(e ResponseWindowEvent) {
	m.state.PriorityPlayer = e.PriorityPlayer
	if len(e.Attacks) > 0 {
		m.state.Attacks = append([]AttackDeclaration{}, e.Attacks...)
	}
}

// applyBlockersDeclared pairs the announced blockers with the recorded attacks
func (m *Mirror) applyBlockersDeclared(e BlockersDeclaredEvent) {
	for _, b := range e.Blockers {
		for i := range m.state.Attacks {
			if m.state.Attacks[i].AttackerInstanceID == b.AttackerInstanceID {
				m.state.Attacks[i].BlockerInstanceID = b.BlockerInstanceID
			}
		}
	}
}

// applyCombatDamage lowers currentHealth only. Removal waits for CreatureDied.
func (m *Mirror) applyCombatDamage(e CombatDamageEvent) error {
	if e.TargetType != TargetCreature {
		// Player damage arrives as a separate Damage event
		return nil
	}

	target := findInstance(m.state.Local.Field, e.TargetInstanceID)
	if target == nil {
		target = findInstance(m.state.Opponent.Field, e.TargetInstanceID)
	}
	if target == nil {
		return &DesyncError{Event: EventCombatDamage, InstanceID: e.TargetInstanceID, Err: ErrUnknownInstance}
	}

	target.CurrentHealth -= e.Damage
	return nil
}

// applyCreatureDied moves the creature from the field to the discard pile
func (m *Mirror) applyCreatureDied(e CreatureDiedEvent) error {
	side, err := m.sideOf(EventCreatureDied, e.Player)
	if err != nil {
		return err
	}
	player := m.state.player(side)

	idx := -1
	for i, fc := range player.Field {
		if fc.InstanceID == e.InstanceID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return &DesyncError{Event: EventCreatureDied, InstanceID: e.InstanceID, PlayerID: e.Player, Err: ErrUnknownInstance}
	}

	player.Field = removeAt(player.Field, idx)
	player.DiscardSize++
	return nil
}
