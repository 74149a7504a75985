package appidentity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// timestampNonceLayout is the emission format for version 2+ nonces:
// basic ISO-8601, UTC, microsecond precision. The trailing Z is appended
// literally since the time is already in UTC.
const timestampNonceLayout = "20060102T150405.000000"

// timestampNonceParseLayouts are the accepted wire forms, basic or
// extended, with or without fractional seconds. Zoneless forms are read
// as UTC.
var timestampNonceParseLayouts = []string{
	"20060102T150405.999999999Z0700",
	"20060102T150405Z0700",
	"2006-01-02T15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05Z07:00",
	"20060102T150405.999999999",
	"20060102T150405",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

// GenerateNonce produces a nonce appropriate for the version: a random
// UUID for version 1, the current UTC time in basic ISO-8601 form for
// versions 2 and later.
func GenerateNonce(version Version) (string, error) {
	if !version.Supported() {
		return "", NewError(ErrVersionInvalid, "unsupported version "+version.String(), nil)
	}
	if !version.TimestampNonce() {
		return uuid.NewString(), nil
	}
	return time.Now().UTC().Format(timestampNonceLayout) + "Z", nil
}

// checkNonce enforces the structural nonce rules shared by generation and
// verification: non-empty and colon-free, and for timestamp versions a
// parseable timestamp.
func checkNonce(version Version, nonce string) *Error {
	if nonce == "" {
		return NewError(ErrNonceEmpty, "nonce must not be empty", nil)
	}
	if strings.Contains(nonce, ":") {
		return NewError(ErrNonceFormat, "nonce must not contain colon characters", nil)
	}
	if !version.TimestampNonce() {
		return nil
	}
	if _, err := parseTimestampNonce(nonce); err != nil {
		return err
	}
	return nil
}

// validateNonce applies the full verification-time nonce policy,
// including the fuzz window for timestamp versions.
func validateNonce(version Version, nonce string, fuzz time.Duration) *Error {
	if err := checkNonce(version, nonce); err != nil {
		return err
	}
	if !version.TimestampNonce() {
		return nil
	}

	stamp, err := parseTimestampNonce(nonce)
	if err != nil {
		return err
	}

	diff := time.Since(stamp)
	if diff < 0 {
		diff = -diff
	}
	if diff > fuzz {
		return NewError(ErrNonceFuzz, "nonce is outside the permitted timestamp window", nil)
	}
	return nil
}

func parseTimestampNonce(nonce string) (time.Time, *Error) {
	for _, layout := range timestampNonceParseLayouts {
		if t, err := time.ParseInLocation(layout, nonce, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, NewError(ErrNonceFormat, "nonce does not parse as an ISO-8601 timestamp", nil)
}
