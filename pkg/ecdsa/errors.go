package ecdsa

import (
	"fmt"

	"github.com/pkg/errors"
)

// Common errors returned by the signature scheme.
var (
	ErrInvalidDomain    = errors.New("invalid domain parameters")
	ErrUnknownDomain    = errors.New("unknown domain")
	ErrInvalidInput     = errors.New("invalid input")
	ErrRetriesExhausted = errors.New("signing retries exhausted")
)

// RetryError reports that every nonce drawn during a Sign call was
// rejected. With sound domain parameters this is practically impossible,
// so it indicates a broken domain or a broken randomness source.
type RetryError struct {
	Attempts int
	Last     Rejection
}

func (e *RetryError) Error() string {
	return fmt.Sprintf("%s: %d attempts, last rejection: %s", ErrRetriesExhausted, e.Attempts, e.Last)
}

func (e *RetryError) Unwrap() error {
	return ErrRetriesExhausted
}
