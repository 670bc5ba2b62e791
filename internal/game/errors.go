package game

import (
	"errors"
	"fmt"
)

// GameError represents misuse of the game machine or a rejected input.
//
// Game errors include:
//   - Invalid state: an operation was called outside AwaitingInput
//   - Unknown or duplicate player names
//   - Targeting a dead player where a live one is required
//   - Input responses of the wrong kind for the pending action
//   - Role configuration gaps (unordered or unknown roles)
//
// None of these are recovered internally. Advance keeps the previous state
// when it returns one.
type GameError struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// State is the action state the machine was in.
	State ActionState

	// Player names the affected player, if any.
	Player string

	// Details contains additional context.
	Details map[string]string

	// Err is the underlying cause, if any.
	Err error
}

// ErrorCode categorizes game errors.
type ErrorCode string

const (
	// ErrCodeInvalidState indicates an operation was called in the wrong state.
	ErrCodeInvalidState ErrorCode = "INVALID_STATE_FOR_OPERATION"

	// ErrCodeUnknownPlayer indicates a name that is not in the circle.
	ErrCodeUnknownPlayer ErrorCode = "UNKNOWN_PLAYER"

	// ErrCodeDuplicatePlayer indicates two players share a name.
	ErrCodeDuplicatePlayer ErrorCode = "DUPLICATE_PLAYER"

	// ErrCodePlayerDead indicates an action needs a live target.
	ErrCodePlayerDead ErrorCode = "PLAYER_DEAD"

	// ErrCodePlayerAlreadyDead indicates a kill on a dead player.
	ErrCodePlayerAlreadyDead ErrorCode = "PLAYER_ALREADY_DEAD"

	// ErrCodeIncompatibleInput indicates a response of the wrong kind.
	ErrCodeIncompatibleInput ErrorCode = "INCOMPATIBLE_INPUT_TYPE"

	// ErrCodeUnknownRole indicates a role reference that does not resolve.
	ErrCodeUnknownRole ErrorCode = "UNKNOWN_ROLE"

	// ErrCodeUnorderedRole indicates an acting role missing from the role order.
	ErrCodeUnorderedRole ErrorCode = "UNORDERED_ROLE"

	// ErrCodeUnsupportedOutcome indicates a collapsed tag set with no consequence.
	ErrCodeUnsupportedOutcome ErrorCode = "UNSUPPORTED_OUTCOME"

	// ErrCodeStalled indicates consecutive phases without any action.
	ErrCodeStalled ErrorCode = "STALLED"

	// ErrCodeInvalidInput indicates an input the pending action rejects.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
)

// Error implements the error interface.
func (e *GameError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Player != "" {
		msg = fmt.Sprintf("%s (player=%s)", msg, e.Player)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *GameError) Unwrap() error {
	return e.Err
}

// HasCode reports whether err is, or wraps, a GameError with code.
func HasCode(err error, code ErrorCode) bool {
	var ge *GameError
	if errors.As(err, &ge) {
		return ge.Code == code
	}
	return false
}

// InvalidInput builds the error actions return when they reject a response.
func InvalidInput(player, format string, args ...any) *GameError {
	return &GameError{
		Code:    ErrCodeInvalidInput,
		Message: fmt.Sprintf(format, args...),
		State:   AwaitingInput,
		Player:  player,
	}
}

func invalidState(op string, actual ActionState) *GameError {
	return &GameError{
		Code:    ErrCodeInvalidState,
		Message: fmt.Sprintf("cannot %s while %s", op, actual),
		State:   actual,
		Details: map[string]string{
			"expected": AwaitingInput.String(),
			"actual":   actual.String(),
		},
	}
}

func unknownPlayer(name string) *GameError {
	return &GameError{
		Code:    ErrCodeUnknownPlayer,
		Message: fmt.Sprintf("no player named %q", name),
		Player:  name,
	}
}
