package repository

import (
	"context"
	"errors"
	"fmt"

	"golang-stock-sentiment/internal/analyzer/dto"
	"golang-stock-sentiment/internal/entity"
)

// SourceClient retrieves raw records mentioning ticker from one configured source.
// Failures are returned as *FetchError.
type SourceClient interface {
	Fetch(ctx context.Context, source entity.Source, ticker string) ([]dto.RawRecord, error)
}

// Authenticator is implemented by clients that need a credential before fetching.
type Authenticator interface {
	Authenticate(ctx context.Context) error
}

var (
	ErrAuth              = errors.New("authentication failed")
	ErrNetwork           = errors.New("network failure")
	ErrStatus            = errors.New("unexpected response status")
	ErrMalformedEnvelope = errors.New("malformed response envelope")
	ErrTimeout           = errors.New("source timed out")
)

// FetchError is a per-source retrieval failure. Kind is one of the Err* sentinels above.
type FetchError struct {
	Source string
	Kind   error
	Err    error
}

func (e *FetchError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("fetch %s: %v", e.Source, e.Kind)
	}
	return fmt.Sprintf("fetch %s: %v: %v", e.Source, e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Is matches the failure kind so callers can use errors.Is(err, ErrAuth).
func (e *FetchError) Is(target error) bool {
	return e.Kind == target
}

// NewFetchError builds a FetchError, classifying context expiry as a timeout.
func NewFetchError(source string, kind error, err error) *FetchError {
	if errors.Is(err, context.DeadlineExceeded) {
		kind = ErrTimeout
	}
	return &FetchError{Source: source, Kind: kind, Err: err}
}
