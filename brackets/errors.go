package brackets

import "errors"

// Engine errors. All of them are recoverable at the caller: the operation that
// produced one has left the state untouched.
var (
	ErrInvalidScore          = errors.New("scores must be non-negative integers")
	ErrPenaltyWinnerRequired = errors.New("penalty winner required for a level knockout match")
	ErrInvalidPenaltyWinner  = errors.New("penalty winner must be one of the two teams")
	ErrUnknownMatch          = errors.New("match not found")
	ErrStageClosed           = errors.New("stage is closed")
	ErrMatchNotReady         = errors.New("match teams are not yet determined")
	ErrGroupStageIncomplete  = errors.New("group stage incomplete")
	ErrRoundIncomplete       = errors.New("knockout round incomplete")
	ErrIncompletePlayoff     = errors.New("playoff bracket incomplete")
	ErrMalformedState        = errors.New("malformed tournament state")
	ErrUnknownGroup          = errors.New("group not found")
	ErrInvalidStage          = errors.New("stage cannot be advanced from")
)
