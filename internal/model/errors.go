package model

import (
	"errors"
	"fmt"
)

// ErrEmptySeries is returned by callers that need at least one bar.
var ErrEmptySeries = errors.New("empty price series")

// MissingFieldError reports a required OHLCV column absent from the input.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field: %s", e.Field)
}
