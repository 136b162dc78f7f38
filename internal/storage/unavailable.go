package storage

import (
	"context"
	"fmt"
)

// Unavailable is a store whose backend could not be reached. Every operation
// fails with the original cause, so a session loaded over it runs in memory only.
type Unavailable struct {
	cause error
}

var _ Storage = (*Unavailable)(nil)

// NewUnavailable creates a store that reports cause on every operation
func NewUnavailable(cause error) *Unavailable {
	return &Unavailable{cause: cause}
}

func (u *Unavailable) err() error {
	return fmt.Errorf("storage unavailable: %w", u.cause)
}

func (u *Unavailable) Get(context.Context, Key) ([]byte, error) {
	return nil, u.err()
}

func (u *Unavailable) Set(context.Context, Key, []byte) error {
	return u.err()
}

func (u *Unavailable) SetMany(context.Context, map[Key][]byte) error {
	return u.err()
}

func (u *Unavailable) Delete(context.Context, ...Key) error {
	return u.err()
}

// Close is a no-op; there is no connection to release
func (u *Unavailable) Close() error {
	return nil
}
