package errors

import "errors"

var (
	ErrBadDiagram       = errors.New("diagram could not be parsed")
	ErrBadCoordinates   = errors.New("coordinates are outside the board")
	ErrBadColor         = errors.New("color must be b or w")
	ErrOccupiedPoint    = errors.New("candidate point is occupied")
	ErrNotSelfAtari     = errors.New("candidate move is not a self-atari")
	ErrAnalysisNotFound = errors.New("analysis not found")
	ErrInternal         = errors.New("internal error")
)
