package game

import "fmt"

// Code identifies the class of an engine failure.
type Code string

const (
	CodeUnsupportedPlayerCount Code = "UNSUPPORTED_PLAYER_COUNT"
	CodeUnknownSpecies         Code = "UNKNOWN_SPECIES"
	CodeNotPlayersTurn         Code = "NOT_PLAYERS_TURN"
	CodeSectorExhausted        Code = "SECTOR_EXHAUSTED"
	CodeCoordinateOccupied     Code = "COORDINATE_OCCUPIED"
	CodeInfluenceExhausted     Code = "INFLUENCE_EXHAUSTED"
	CodeMalformedEvent         Code = "MALFORMED_EVENT"
	CodeUnsupportedAction      Code = "UNSUPPORTED_ACTION"
)

// Error is returned by every engine function that rejects a transition.
// The Game passed in is never modified when an Error is returned.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any *Error carrying the same code, so callers can write
// errors.Is(err, game.ErrNotPlayersTurn).
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

func newError(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

var (
	ErrUnsupportedPlayerCount = &Error{Code: CodeUnsupportedPlayerCount, Message: "unsupported player count"}
	ErrUnknownSpecies         = &Error{Code: CodeUnknownSpecies, Message: "unknown species"}
	ErrNotPlayersTurn         = &Error{Code: CodeNotPlayersTurn, Message: "not players turn"}
	ErrSectorExhausted        = &Error{Code: CodeSectorExhausted, Message: "sector exhausted"}
	ErrCoordinateOccupied     = &Error{Code: CodeCoordinateOccupied, Message: "coordinate occupied"}
	ErrInfluenceExhausted     = &Error{Code: CodeInfluenceExhausted, Message: "no influence left"}
	ErrMalformedEvent         = &Error{Code: CodeMalformedEvent, Message: "malformed event"}
	ErrUnsupportedAction      = &Error{Code: CodeUnsupportedAction, Message: "unsupported action"}
)
