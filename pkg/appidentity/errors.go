package appidentity

import (
	"errors"
	"fmt"
)

// Code identifies the kind of failure for callers that need to branch on
// the reason rather than the message text.
type Code int

const (
	ErrIDNil Code = iota
	ErrIDEmpty
	ErrIDHasColon
	ErrSecretNil
	ErrSecretEmpty
	ErrSecretNotBinary
	ErrSecretHasColon
	ErrVersionNil
	ErrVersionNotPositive
	ErrVersionNotInteger
	ErrVersionInvalid
	ErrConfigNotMap
	ErrProofNotBase64
	ErrProofInvalid
	ErrDisallowedVersion
	ErrVersionMismatch
	ErrAppMismatch
	ErrNonceEmpty
	ErrNonceFormat
	ErrNonceFuzz
	ErrPadlockMismatch
)

// codeTags maps each code to its stable wire tag. Tags are part of the
// scheme's cross-implementation contract and never change.
var codeTags = map[Code]string{
	ErrIDNil:              "id_nil",
	ErrIDEmpty:            "id_empty",
	ErrIDHasColon:         "id_has_colon",
	ErrSecretNil:          "secret_nil",
	ErrSecretEmpty:        "secret_empty",
	ErrSecretNotBinary:    "secret_not_binary",
	ErrSecretHasColon:     "secret_has_colon",
	ErrVersionNil:         "version_nil",
	ErrVersionNotPositive: "version_not_positive_integer",
	ErrVersionNotInteger:  "version_not_integer",
	ErrVersionInvalid:     "version_invalid",
	ErrConfigNotMap:       "config_not_map",
	ErrProofNotBase64:     "proof_not_base64",
	ErrProofInvalid:       "proof_invalid",
	ErrDisallowedVersion:  "disallowed_version",
	ErrVersionMismatch:    "verify_version_mismatch",
	ErrAppMismatch:        "verify_app_mismatch",
	ErrNonceEmpty:         "verify_nonce_empty",
	ErrNonceFormat:        "verify_nonce_format",
	ErrNonceFuzz:          "verify_nonce_fuzz",
	ErrPadlockMismatch:    "verify_padlock_mismatch",
}

// Tag returns the stable cross-implementation tag for the code.
func (c Code) Tag() string {
	if tag, ok := codeTags[c]; ok {
		return tag
	}
	return "unknown"
}

// Error is the error type returned by every operation in this package.
// Messages name the offending field and reason; secret material never
// appears in a message.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a new Error.
func NewError(c Code, msg string, err error) *Error {
	return &Error{Code: c, Message: msg, Err: err}
}

// CodeOf extracts the Code from err. The second return is false when err
// was not produced by this package.
func CodeOf(err error) (Code, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Code, true
	}
	return 0, false
}
