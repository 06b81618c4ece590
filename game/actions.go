package game

// ActionType is the tag of an outbound command.
type ActionType string

const (
	ActionGetCards         ActionType = "get_cards"
	ActionGetDecks         ActionType = "get_decks"
	ActionListGames        ActionType = "list_games"
	ActionStartGame        ActionType = "start_game"
	ActionStartAIGame      ActionType = "start_ai_game"
	ActionJoinGame         ActionType = "join_game"
	ActionJoinSpecificGame ActionType = "join_specific_game"
	ActionReconnectGame    ActionType = "reconnect_game"
	ActionKeepHand         ActionType = "keep_hand"
	ActionMulligan         ActionType = "mulligan"
	ActionDrawCard         ActionType = "draw_card"
	ActionPlayCard         ActionType = "play_card"
	ActionPlayLeader       ActionType = "play_leader"
	ActionPlayInstant      ActionType = "play_instant"
	ActionBurnCard         ActionType = "burn_card"
	ActionTapCard          ActionType = "tap_card"
	ActionDeclareAttacks   ActionType = "declare_attacks"
	ActionDeclareBlockers  ActionType = "declare_blockers"
	ActionPassPriority     ActionType = "pass_priority"
	ActionEndTurn          ActionType = "end_turn"
	ActionChat             ActionType = "chat"
	ActionLeaveGame        ActionType = "leave_game"
)

// Draw sources accepted by draw_card.
const (
	DrawSourceMain  = "main"
	DrawSourceVault = "vault"
)

// Action is one outbound protocol message. Only the fields relevant to
// Type are populated.
type Action struct {
	Type       ActionType       `json:"type"`
	PlayerUID  string           `json:"playerUid,omitempty"`
	DeckID     int              `json:"deckId,omitempty"`
	AIDeckID   int              `json:"aiDeckId,omitempty"`
	GameID     string           `json:"gameId,omitempty"`
	CardID     int              `json:"cardId,omitempty"`
	InstanceID int              `json:"instanceId,omitempty"`
	Source     string           `json:"source,omitempty"`
	Message    string           `json:"message,omitempty"`
	Attacks    *[]PendingAttack `json:"attacks,omitempty"`
	Blockers   *[]PendingBlock  `json:"blockers,omitempty"`
}
