package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is the reported kind for every "does not exist" condition.
var ErrNotFound = errors.New("not found")

// ErrScopeNotFound and ErrRecordNotFound distinguish a missing line or
// line+campaña partition from a missing record inside an existing partition.
// Both satisfy errors.Is(err, ErrNotFound); callers that only care about the
// reported kind see a single condition.
var (
	ErrScopeNotFound  = fmt.Errorf("scope %w", ErrNotFound)
	ErrRecordNotFound = fmt.Errorf("record %w", ErrNotFound)
)
