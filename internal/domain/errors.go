package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidConfig wraps every configuration validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// GateError is returned when a scan completed but the threshold gate failed.
type GateError struct {
	Result GateResult
}

func (e *GateError) Error() string {
	return fmt.Sprintf("threshold gate failed: %s", strings.Join(e.Result.Reasons, "; "))
}
