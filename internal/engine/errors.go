package engine

import "errors"

// Rejections. A rejected action leaves the state unchanged.
var (
	ErrUnknownProducer      = errors.New("unknown producer")
	ErrInsufficientResource = errors.New("insufficient resource")
	ErrInvalidQuantity      = errors.New("invalid quantity")
	ErrUnknownAction        = errors.New("unknown action")
)
