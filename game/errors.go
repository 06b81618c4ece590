package game

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownInstance means an event named an instance id that is not in
	// the expected collection.
	ErrUnknownInstance = errors.New("unknown instance")
	// ErrDuplicateInstance means an event introduced an instance id that is
	// already on the board.
	ErrDuplicateInstance = errors.New("duplicate instance")
	// ErrUnknownPlayer means an event named a player that is in neither seat.
	ErrUnknownPlayer = errors.New("unknown player")
	// ErrCardNotInHand means a play event named a card missing from the local hand.
	ErrCardNotInHand = errors.New("card not in hand")
	// ErrBadParticipants means a match announcement did not carry exactly two players.
	ErrBadParticipants = errors.New("match must have exactly two participants")
)

// DesyncError reports that an event could not be applied because the
// mirror's view disagrees with the server. The remedy is a snapshot resync.
type DesyncError struct {
	Event      EventType
	InstanceID int
	PlayerID   string
	CardID     int
	Err        error
}

func (e *DesyncError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "desync on %s: %v", e.Event, e.Err)
	if e.InstanceID != 0 {
		fmt.Fprintf(&b, " (instance %d)", e.InstanceID)
	}
	if e.CardID != 0 {
		fmt.Fprintf(&b, " (card %d)", e.CardID)
	}
	if e.PlayerID != "" {
		fmt.Fprintf(&b, " (player %s)", e.PlayerID)
	}
	return b.String()
}

func (e *DesyncError) Unwrap() error { return e.Err }

// IsDesync reports whether err is a desynchronization fault.
func IsDesync(err error) bool {
	var d *DesyncError
	return errors.As(err, &d)
}

// RejectReason enumerates the local legality rejections.
type RejectReason int

const (
	RejectNotYourTurn RejectReason = iota + 1
	RejectNotInCombat
	RejectCannotAttack
	RejectUnknownCreature
	RejectNoAttackerSelected
	RejectInvalidTarget
	RejectTaunt
	RejectNoAttacks
	RejectNotBlocking
	RejectCannotBlock
	RejectNoBlockerSelected
	RejectUnknownAttacker
	RejectEvasion
	RejectAttackerAlreadyBlocked
	RejectNotEnoughMana
)

var rejectMessages = map[RejectReason]string{
	RejectNotYourTurn:            "Not your turn!",
	RejectNotInCombat:            "Not in combat mode",
	RejectCannotAttack:           "This creature cannot attack!",
	RejectUnknownCreature:        "That creature is not on the field",
	RejectNoAttackerSelected:     "Select an attacker first",
	RejectInvalidTarget:          "This creature cannot attack that target",
	RejectTaunt:                  "Must attack a creature with Taunt",
	RejectNoAttacks:              "No attacks selected!",
	RejectNotBlocking:            "Not blocking right now",
	RejectCannotBlock:            "This creature cannot block!",
	RejectNoBlockerSelected:      "Select a blocker first",
	RejectUnknownAttacker:        "That creature is not attacking",
	RejectEvasion:                "This creature cannot block a Flying creature! Need Flying or Reach.",
	RejectAttackerAlreadyBlocked: "That attacker is already blocked",
	RejectNotEnoughMana:          "Not enough mana!",
}

func (r RejectReason) String() string {
	if msg, ok := rejectMessages[r]; ok {
		return msg
	}
	return fmt.Sprintf("rejected (%d)", int(r))
}

// RejectionError is a local legality rejection. No message is sent to the
// server when one is returned.
type RejectionError struct {
	Reason RejectReason
	Detail string
}

func reject(reason RejectReason) *RejectionError {
	return &RejectionError{Reason: reason}
}

func rejectf(reason RejectReason, format string, args ...any) *RejectionError {
	return &RejectionError{Reason: reason, Detail: fmt.Sprintf(format, args...)}
}

// Error returns the user-facing message.
func (e *RejectionError) Error() string {
	if e.Detail != "" {
		return e.Reason.String() + " (" + e.Detail + ")"
	}
	return e.Reason.String()
}

// IsRejection reports whether err is a local legality rejection with the
// given reason. A zero reason matches any rejection.
func IsRejection(err error, reason RejectReason) bool {
	var r *RejectionError
	if !errors.As(err, &r) {
		return false
	}
	return reason == 0 || r.Reason == reason
}

// ServerErrorKind is the closed set of server error categories.
type ServerErrorKind string

const (
	ServerErrorOther        ServerErrorKind = "OTHER"
	ServerErrorGameNotFound ServerErrorKind = "GAME_NOT_FOUND"
	ServerErrorNotInGame    ServerErrorKind = "NOT_IN_GAME"
	ServerErrorGameOver     ServerErrorKind = "GAME_OVER"
	ServerErrorNoGame       ServerErrorKind = "NO_GAME"
)

// Known server message texts, matched only when no code is present.
var serverErrorTexts = map[string]ServerErrorKind{
	"Game not found":           ServerErrorGameNotFound,
	"You are not in this game": ServerErrorNotInGame,
	"Game is already over":     ServerErrorGameOver,
	"Not in a game":            ServerErrorNoGame,
}

// Classify maps the error onto a ServerErrorKind. A structured code wins;
// message matching is a compatibility shim for servers that send text only.
func (e ErrorEvent) Classify() ServerErrorKind {
	if e.Code != "" {
		switch kind := ServerErrorKind(strings.ToUpper(e.Code)); kind {
		case ServerErrorGameNotFound, ServerErrorNotInGame, ServerErrorGameOver, ServerErrorNoGame:
			return kind
		}
		return ServerErrorOther
	}
	if kind, ok := serverErrorTexts[e.Message]; ok {
		return kind
	}
	return ServerErrorOther
}

// InvalidatesSession reports whether the stored (match, player) pair can no
// longer be used and the client should return to the lobby.
func (k ServerErrorKind) InvalidatesSession() bool {
	switch k {
	case ServerErrorGameNotFound, ServerErrorNotInGame, ServerErrorGameOver:
		return true
	}
	return false
}
