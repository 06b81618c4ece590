// events.go - inbound event tagged union and message decoding
package game

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// EventType is the tag of an inbound event.
type EventType string

const (
	EventCardList          EventType = "CardList"
	EventDeckList          EventType = "DeckList"
	EventGameList          EventType = "GameList"
	EventGameCreated       EventType = "GameCreated"
	EventAIGameCreated     EventType = "AIGameCreated"
	EventMulliganPhase     EventType = "MulliganPhase"
	EventPlayerKeptHand    EventType = "PlayerKeptHand"
	EventPlayerMulliganed  EventType = "PlayerMulliganed"
	EventGameStarted       EventType = "GameStarted"
	EventDrawPhase         EventType = "DrawPhase"
	EventTurnChanged       EventType = "TurnChanged"
	EventCardDrawn         EventType = "CardDrawn"
	EventCreaturePlayed    EventType = "CreaturePlayed"
	EventLeaderPlayed      EventType = "LeaderPlayed"
	EventLandPlayed        EventType = "LandPlayed"
	EventCardPlayed        EventType = "CardPlayed"
	EventInstantPlayed     EventType = "InstantPlayed"
	EventCardTapped        EventType = "CardTapped"
	EventCardUntapped      EventType = "CardUntapped"
	EventManaAdded         EventType = "ManaAdded"
	EventCardBurned        EventType = "CardBurned"
	EventDamage            EventType = "Damage"
	EventAttacksDeclared   EventType = "AttacksDeclared"
	EventResponseWindow    EventType = "ResponseWindow"
	EventPriorityChanged   EventType = "PriorityChanged"
	EventPlayerPassed      EventType = "PlayerPassed"
	EventCombatResolving   EventType = "CombatResolving"
	EventCombatDamage      EventType = "CombatDamage"
	EventCombatEnded       EventType = "CombatEnded"
	EventCreatureDied      EventType = "CreatureDied"
	EventGameOver          EventType = "GameOver"
	EventOpponentLeft      EventType = "OpponentLeft"
	EventGameReconnected   EventType = "GameReconnected"
	EventPlayerReconnected EventType = "PlayerReconnected"
	EventChatMessage       EventType = "ChatMessage"
	EventBlockersNeeded    EventType = "BlockersNeeded"
	EventBlockersDeclared  EventType = "BlockersDeclared"
	EventError             EventType = "Error"

	// Rejection notices the server sends instead of Error.
	EventNotYourPriority     EventType = "NotYourPriority"
	EventMustDraw            EventType = "MustDraw"
	EventMulliganPhaseActive EventType = "MulliganPhaseActive"
	EventGameNotStarted      EventType = "GameNotStarted"
	EventUnknownAction       EventType = "UnknownAction"
)

// Event is one decoded inbound event. The concrete type identifies the tag.
type Event interface {
	Type() EventType
}

// Envelope is the wire shape of an event.
type Envelope struct {
	Type EventType       `json:"type"`
	Data json.RawMessage `json:"data"`
}

// HandInfo decodes a hand that is either a list of card ids or a bare count.
type HandInfo struct {
	Cards []int
	Count int
}

func (h *HandInfo) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*h = HandInfo{}
		return nil
	}
	if len(data) > 0 && data[0] == '[' {
		var cards []int
		if err := json.Unmarshal(data, &cards); err != nil {
			return err
		}
		*h = HandInfo{Cards: cards, Count: len(cards)}
		return nil
	}
	var count int
	if err := json.Unmarshal(data, &count); err != nil {
		return fmt.Errorf("hand is neither a list nor a count: %w", err)
	}
	*h = HandInfo{Count: count}
	return nil
}

// PlayerInfo is the per-player block of MulliganPhase and GameStarted.
type PlayerInfo struct {
	Hand        HandInfo `json:"hand"`
	Leader      int      `json:"leader"`
	DeckSize    int      `json:"deckSize"`
	VaultSize   int      `json:"vaultSize"`
	DiscardSize int      `json:"discardSize"`
}

// AttackDeclaration is an attack as the server reports it.
type AttackDeclaration struct {
	AttackerInstanceID int        `json:"attackerInstanceId"`
	TargetType         TargetType `json:"targetType"`
	TargetInstanceID   int        `json:"targetInstanceId"`
	TargetPlayerUID    string     `json:"targetPlayerUid"`
	BlockerInstanceID  int        `json:"blockerInstanceId,omitempty"`
	AttackerAbilities  []Ability  `json:"attackerAbilities,omitempty"`
}

// BlockerCandidate is one of the local creatures allowed to block.
type BlockerCandidate struct {
	InstanceID int       `json:"instanceId"`
	CardID     int       `json:"cardId"`
	Abilities  []Ability `json:"abilities"`
}

type CardListEvent struct {
	Cards map[int]Card `json:"cards"`
}

type DeckListEvent struct {
	Decks []DeckSummary `json:"decks"`
}

type GameListEvent struct {
	Games []GameSummary `json:"games"`
}

type GameCreatedEvent struct {
	GameID    string `json:"gameId"`
	PlayerUID string `json:"playerUid"`
	Message   string `json:"message"`
}

type AIGameCreatedEvent struct {
	GameID    string `json:"gameId"`
	PlayerUID string `json:"playerUid"`
	AIUID     string `json:"aiUid"`
}

type MulliganPhaseEvent struct {
	GameID  string                `json:"gameId"`
	Players map[string]PlayerInfo `json:"players"`
}

type PlayerKeptHandEvent struct {
	Player string `json:"player"`
}

type PlayerMulliganedEvent struct {
	Player    string   `json:"player"`
	NewHand   HandInfo `json:"newHand"`
	DeckSize  int      `json:"deckSize"`
	VaultSize int      `json:"vaultSize"`
}

type GameStartedEvent struct {
	GameID      string                `json:"gameId"`
	Players     map[string]PlayerInfo `json:"players"`
	CurrentTurn string                `json:"currentTurn"`
}

type DrawPhaseEvent struct {
	Player       string `json:"player"`
	MainDeckSize int    `json:"mainDeckSize"`
	VaultSize    int    `json:"vaultSize"`
}

type TurnChangedEvent struct {
	ActivePlayer string `json:"activePlayer"`
}

type CardDrawnEvent struct {
	Player       string `json:"player"`
	CardID       int    `json:"cardId"`
	Source       string `json:"source"`
	MainDeckSize *int   `json:"mainDeckSize"`
	VaultSize    *int   `json:"vaultSize"`
}

// PermanentPlayedEvent covers CreaturePlayed, LeaderPlayed and LandPlayed,
// which share a payload.
type PermanentPlayedEvent struct {
	Kind       EventType  `json:"-"`
	Player     string     `json:"player"`
	CardID     int        `json:"cardId"`
	InstanceID int        `json:"instanceId"`
	FieldCard  *FieldCard `json:"fieldCard"`
	ManaPool   *ManaCost  `json:"manaPool"`
}

type CardPlayedEvent struct {
	Player   string    `json:"player"`
	CardID   int       `json:"cardId"`
	ManaPool *ManaCost `json:"manaPool"`
}

type InstantPlayedEvent struct {
	Player           string    `json:"player"`
	CardID           int       `json:"cardId"`
	TargetInstanceID int       `json:"targetInstanceId"`
	ManaPool         *ManaCost `json:"manaPool"`
}

type CardTappedEvent struct {
	Player     string `json:"player"`
	InstanceID int    `json:"instanceId"`
	Tapped     bool   `json:"tapped"`
}

type CardUntappedEvent struct {
	Player     string `json:"player"`
	InstanceID int    `json:"instanceId"`
	Reason     string `json:"reason"`
}

type ManaAddedEvent struct {
	Player   string   `json:"player"`
	Added    ManaCost `json:"added"`
	ManaPool ManaCost `json:"manaPool"`
}

type CardBurnedEvent struct {
	Player string `json:"player"`
	CardID int    `json:"cardId"`
}

type DamageEvent struct {
	Target string `json:"target"`
	Amount int    `json:"amount"`
	Source int    `json:"source"`
}

type AttacksDeclaredEvent struct {
	Player  string              `json:"player"`
	Attacks []AttackDeclaration `json:"attacks"`
}

type ResponseWindowEvent struct {
	Attacker       string              `json:"attacker"`
	Defender       string              `json:"defender"`
	PriorityPlayer string              `json:"priorityPlayer"`
	Attacks        []AttackDeclaration `json:"attacks"`
}

type PriorityChangedEvent struct {
	PriorityPlayer string `json:"priorityPlayer"`
}

type PlayerPassedEvent struct {
	Player string `json:"player"`
}

type CombatResolvingEvent struct{}

type CombatEndedEvent struct{}

type CombatDamageEvent struct {
	AttackerInstanceID int        `json:"attackerInstanceId"`
	TargetType         TargetType `json:"targetType"`
	TargetInstanceID   int        `json:"targetInstanceId"`
	Damage             int        `json:"damage"`
	FirstStrike        bool       `json:"firstStrike"`
	DoubleStrike       bool       `json:"doubleStrike"`
}

type CreatureDiedEvent struct {
	Player     string `json:"player"`
	InstanceID int    `json:"instanceId"`
	CardID     int    `json:"cardId"`
}

type GameOverEvent struct {
	Winner string `json:"winner"`
}

type OpponentLeftEvent struct {
	Player string `json:"player"`
}

// GameReconnectedEvent is the full snapshot used for rehydration.
type GameReconnectedEvent struct {
	GameID          string              `json:"gameId"`
	PlayerUID       string              `json:"playerUid"`
	OpponentUID     string              `json:"opponentUid"`
	CurrentTurn     string              `json:"currentTurn"`
	Started         bool                `json:"started"`
	DrawPhase       bool                `json:"drawPhase"`
	MulliganPhase   bool                `json:"mulliganPhase"`
	MulliganDecided bool                `json:"mulliganDecided"`
	MyHand          []int               `json:"myHand"`
	MyLife          int                 `json:"myLife"`
	MyField         []*FieldCard        `json:"myField"`
	MyLands         []*FieldCard        `json:"myLands"`
	MyManaPool      *ManaCost           `json:"myManaPool"`
	MyDeckSize      int                 `json:"myDeckSize"`
	MyVaultSize     int                 `json:"myVaultSize"`
	MyDiscardSize   int                 `json:"myDiscardSize"`
	MyLeader        int                 `json:"myLeader"`
	OpponentLife    int                 `json:"opponentLife"`
	OpponentField   []*FieldCard        `json:"opponentField"`
	OpponentLands   []*FieldCard        `json:"opponentLands"`
	OpponentLeader  int                 `json:"opponentLeader"`
	PriorityPlayer  string              `json:"priorityPlayer"`
	PendingAttacks  []AttackDeclaration `json:"pendingAttacks"`
}

type PlayerReconnectedEvent struct {
	Player string `json:"player"`
}

type ChatMessageEvent struct {
	Player  string `json:"player"`
	Message string `json:"message"`
}

type BlockersNeededEvent struct {
	Defender          string              `json:"defender"`
	Attacks           []AttackDeclaration `json:"attacks"`
	AvailableBlockers []BlockerCandidate  `json:"availableBlockers"`
}

type BlockersDeclaredEvent struct {
	Defender string         `json:"defender"`
	Blockers []PendingBlock `json:"blockers"`
}

// ErrorEvent is a server-reported error. Code is optional; older servers
// only send Message.
type ErrorEvent struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	Winner  string `json:"winner,omitempty"`
}

// NoticeEvent is a server rejection that carries no state change.
type NoticeEvent struct {
	Kind    EventType `json:"-"`
	Message string    `json:"message"`
}

// UnknownEvent is any tag this client does not understand.
type UnknownEvent struct {
	Tag  EventType
	Data json.RawMessage
}

// MalformedEvent is a known tag whose payload did not decode. Whatever it
// changed on the server is missing from the mirror.
type MalformedEvent struct {
	Tag  EventType
	Data json.RawMessage
	Err  error
}

func (CardListEvent) Type() EventType          { return EventCardList }
func (DeckListEvent) Type() EventType          { return EventDeckList }
func (GameListEvent) Type() EventType          { return EventGameList }
func (GameCreatedEvent) Type() EventType       { return EventGameCreated }
func (AIGameCreatedEvent) Type() EventType     { return EventAIGameCreated }
func (MulliganPhaseEvent) Type() EventType     { return EventMulliganPhase }
func (PlayerKeptHandEvent) Type() EventType    { return EventPlayerKeptHand }
func (PlayerMulliganedEvent) Type() EventType  { return EventPlayerMulliganed }
func (GameStartedEvent) Type() EventType       { return EventGameStarted }
func (DrawPhaseEvent) Type() EventType         { return EventDrawPhase }
func (TurnChangedEvent) Type() EventType       { return EventTurnChanged }
func (CardDrawnEvent) Type() EventType         { return EventCardDrawn }
func (e PermanentPlayedEvent) Type() EventType { return e.Kind }
func (CardPlayedEvent) Type() EventType        { return EventCardPlayed }
func (InstantPlayedEvent) Type() EventType     { return EventInstantPlayed }
func (CardTappedEvent) Type() EventType        { return EventCardTapped }
func (CardUntappedEvent) Type() EventType      { return EventCardUntapped }
func (ManaAddedEvent) Type() EventType         { return EventManaAdded }
func (CardBurnedEvent) Type() EventType        { return EventCardBurned }
func (DamageEvent) Type() EventType            { return EventDamage }
func (AttacksDeclaredEvent) Type() EventType   { return EventAttacksDeclared }
func (ResponseWindowEvent) Type() EventType    { return EventResponseWindow }
func (PriorityChangedEvent) Type() EventType   { return EventPriorityChanged }
func (PlayerPassedEvent) Type() EventType      { return EventPlayerPassed }
func (CombatResolvingEvent) Type() EventType   { return EventCombatResolving }
func (CombatDamageEvent) Type() EventType      { return EventCombatDamage }
func (CombatEndedEvent) Type() EventType       { return EventCombatEnded }
func (CreatureDiedEvent) Type() EventType      { return EventCreatureDied }
func (GameOverEvent) Type() EventType          { return EventGameOver }
func (OpponentLeftEvent) Type() EventType      { return EventOpponentLeft }
func (GameReconnectedEvent) Type() EventType   { return EventGameReconnected }
func (PlayerReconnectedEvent) Type() EventType { return EventPlayerReconnected }
func (ChatMessageEvent) Type() EventType       { return EventChatMessage }
func (BlockersNeededEvent) Type() EventType    { return EventBlockersNeeded }
func (BlockersDeclaredEvent) Type() EventType  { return EventBlockersDeclared }
func (ErrorEvent) Type() EventType             { return EventError }
func (e NoticeEvent) Type() EventType          { return e.Kind }
func (e UnknownEvent) Type() EventType         { return e.Tag }
func (e MalformedEvent) Type() EventType       { return e.Tag }

// DecodeMessage decodes one inbound message: an ordered array of events.
// Unknown tags decode to UnknownEvent and payloads that do not decode become
// MalformedEvent, so one bad entry never costs the rest of the batch. Only a
// frame that is not an event array is an error.
func DecodeMessage(raw []byte) ([]Event, error) {
	var envelopes []Envelope
	if err := json.Unmarshal(raw, &envelopes); err != nil {
		return nil, fmt.Errorf("decode message: %w", err)
	}

	events := make([]Event, 0, len(envelopes))
	for i, env := range envelopes {
		ev, err := DecodeEvent(env)
		if err != nil {
			ev = MalformedEvent{Tag: env.Type, Data: env.Data, Err: fmt.Errorf("event %d: %w", i, err)}
		}
		events = append(events, ev)
	}
	return events, nil
}

// DecodeEvent decodes a single envelope into its concrete event type.
func DecodeEvent(env Envelope) (Event, error) {
	switch env.Type {
	case EventCardList:
		return decodeAs[CardListEvent](env.Data)
	case EventDeckList:
		return decodeAs[DeckListEvent](env.Data)
	case EventGameList:
		return decodeAs[GameListEvent](env.Data)
	case EventGameCreated:
		return decodeAs[GameCreatedEvent](env.Data)
	case EventAIGameCreated:
		return decodeAs[AIGameCreatedEvent](env.Data)
	case EventMulliganPhase:
		return decodeAs[MulliganPhaseEvent](env.Data)
	case EventPlayerKeptHand:
		return decodeAs[PlayerKeptHandEvent](env.Data)
	case EventPlayerMulliganed:
		return decodeAs[PlayerMulliganedEvent](env.Data)
	case EventGameStarted:
		return decodeAs[GameStartedEvent](env.Data)
	case EventDrawPhase:
		return decodeAs[DrawPhaseEvent](env.Data)
	case EventTurnChanged:
		return decodeAs[TurnChangedEvent](env.Data)
	case EventCardDrawn:
		return decodeAs[CardDrawnEvent](env.Data)
	case EventCreaturePlayed, EventLeaderPlayed, EventLandPlayed:
		ev, err := decodeAs[PermanentPlayedEvent](env.Data)
		ev.Kind = env.Type
		return ev, err
	case EventCardPlayed:
		return decodeAs[CardPlayedEvent](env.Data)
	case EventInstantPlayed:
		return decodeAs[InstantPlayedEvent](env.Data)
	case EventCardTapped:
		return decodeAs[CardTappedEvent](env.Data)
	case EventCardUntapped:
		return decodeAs[CardUntappedEvent](env.Data)
	case EventManaAdded:
		return decodeAs[ManaAddedEvent](env.Data)
	case EventCardBurned:
		return decodeAs[CardBurnedEvent](env.Data)
	case EventDamage:
		return decodeAs[DamageEvent](env.Data)
	case EventAttacksDeclared:
		return decodeAs[AttacksDeclaredEvent](env.Data)
	case EventResponseWindow:
		return decodeAs[ResponseWindowEvent](env.Data)
	case EventPriorityChanged:
		return decodeAs[PriorityChangedEvent](env.Data)
	case EventPlayerPassed:
		return decodeAs[PlayerPassedEvent](env.Data)
	case EventCombatResolving:
		return CombatResolvingEvent{}, nil
	case EventCombatDamage:
		return decodeAs[CombatDamageEvent](env.Data)
	case EventCombatEnded:
		return CombatEndedEvent{}, nil
	case EventCreatureDied:
		return decodeAs[CreatureDiedEvent](env.Data)
	case EventGameOver:
		return decodeAs[GameOverEvent](env.Data)
	case EventOpponentLeft:
		return decodeAs[OpponentLeftEvent](env.Data)
	case EventGameReconnected:
		return decodeAs[GameReconnectedEvent](env.Data)
	case EventPlayerReconnected:
		return decodeAs[PlayerReconnectedEvent](env.Data)
	case EventChatMessage:
		return decodeAs[ChatMessageEvent](env.Data)
	case EventBlockersNeeded:
		return decodeAs[BlockersNeededEvent](env.Data)
	case EventBlockersDeclared:
		return decodeAs[BlockersDeclaredEvent](env.Data)
	case EventError:
		return decodeAs[ErrorEvent](env.Data)
	case EventNotYourPriority, EventMustDraw, EventMulliganPhaseActive, EventGameNotStarted, EventUnknownAction:
		ev, err := decodeAs[NoticeEvent](env.Data)
		ev.Kind = env.Type
		return ev, err
	default:
		return UnknownEvent{Tag: env.Type, Data: env.Data}, nil
	}
}

func decodeAs[T any](data json.RawMessage) (T, error) {
	var v T
	if len(data) == 0 || bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return v, nil
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return v, err
	}
	return v, nil
}
