package domain

import (
	"errors"
	"fmt"
)

var (
	ErrConfigMissing    = errors.New("required credential not configured")
	ErrUnknownField     = errors.New("unknown field name")
	ErrNotFound         = errors.New("not found")
	ErrCacheMiss        = errors.New("cache miss")
	ErrAssistantTimeout = errors.New("assistant response timeout")
	ErrStoreUnavailable = errors.New("record store unavailable")
)

// ProviderError is returned by provider adapters on a non-2xx response.
type ProviderError struct {
	Provider string
	Status   int
	Body     string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s returned status %d: %s", e.Provider, e.Status, e.Body)
}

// KindOf maps an adapter error to the envelope error kind.
func KindOf(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrConfigMissing):
		return ErrorConfigMissing
	case errors.Is(err, ErrNotFound):
		return ErrorNotFound
	default:
		return ErrorProvider
	}
}
