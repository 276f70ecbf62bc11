package models

import (
	"errors"
	"fmt"
)

// Sentinel errors for the aggregation error taxonomy. Typed errors below wrap
// these so callers branch with errors.Is.
var (
	// ErrNotFound: instrument absent from a date/source dataset. Expected,
	// drives fallback logic.
	ErrNotFound = errors.New("instrument not found")

	// ErrRateLimited: provider advisory detected. Treated as no data this
	// cycle; cached results built from it get the degraded TTL.
	ErrRateLimited = errors.New("provider rate limited")

	// ErrInsufficientData: a composite operation has zero usable inputs after
	// all fallbacks. Fatal for that operation only.
	ErrInsufficientData = errors.New("insufficient data")
)

// ConfigError reports a missing provider credential. Fails fast before any
// network call and is never retried.
type ConfigError struct {
	Provider string
	Key      string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: missing credential %s", e.Provider, e.Key)
}

// NotFoundError carries the instrument, market and date attempted when a
// lookup found no data. Distinct from a hard transport error.
type NotFoundError struct {
	Ticker string
	Market string
	Date   string
}

func (e *NotFoundError) Error() string {
	if e.Date != "" {
		return fmt.Sprintf("No trading data available for date %s", e.Date)
	}
	return fmt.Sprintf("no data for %s on %s", e.Ticker, e.Market)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NoDataInWindowError reports an exhausted backward walk. Names the window
// length and the last date attempted.
type NoDataInWindowError struct {
	Ticker     string
	Market     string
	WindowDays int
	LastDate   string
}

func (e *NoDataInWindowError) Error() string {
	return fmt.Sprintf("no trading data for %s within %d days (last date tried %s)",
		e.Ticker, e.WindowDays, e.LastDate)
}

func (e *NoDataInWindowError) Is(target error) bool {
	return target == ErrNotFound
}

// TransportError is a network or HTTP-level provider failure. For the
// fallback walk it counts as not-found; it is still logged for diagnostics.
type TransportError struct {
	Provider string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: transport failure: %v", e.Provider, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ParseError is an upstream payload that was not the expected shape. Control
// flow treats it like a transport failure; the payload prefix is kept for
// diagnosis.
type ParseError struct {
	Provider string
	Payload  string
	Err      error
}

const parsePayloadPrefixLen = 200

func NewParseError(provider string, payload []byte, err error) *ParseError {
	p := string(payload)
	if len(p) > parsePayloadPrefixLen {
		p = p[:parsePayloadPrefixLen]
	}
	return &ParseError{Provider: provider, Payload: p, Err: err}
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: unexpected payload: %v (payload %q)", e.Provider, e.Err, e.Payload)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// IsUnavailable reports whether err is a transport or parse failure, the two
// classes the fallback walk treats identically.
func IsUnavailable(err error) bool {
	var te *TransportError
	if errors.As(err, &te) {
		return true
	}
	var pe *ParseError
	return errors.As(err, &pe)
}
