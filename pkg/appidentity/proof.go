package appidentity

import (
	"encoding/base64"
	"strconv"
	"strings"
)

// Proof is the parsed wire form of a client proof. A structurally valid
// Proof says nothing about authenticity until verification succeeds.
type Proof struct {
	Version Version
	ID      string
	Nonce   string
	Padlock string
}

// GenerateProof creates a complete proof string for the app with a fresh
// nonce: random for version 1, the current timestamp for versions 2+.
func GenerateProof(source AppSource) (string, error) {
	app, err := source.identityApp()
	if err != nil {
		return "", err
	}
	nonce, err := GenerateNonce(app.Version)
	if err != nil {
		return "", err
	}
	return GenerateProofWithNonce(app, nonce)
}

// GenerateProofWithNonce creates a proof string for the app using the
// supplied nonce. The nonce must be structurally valid for the app's
// version; the fuzz window is not checked here, only during
// verification.
func GenerateProofWithNonce(source AppSource, nonce string) (string, error) {
	app, err := source.identityApp()
	if err != nil {
		return "", err
	}
	padlock, err := Padlock(app, nonce)
	if err != nil {
		return "", err
	}
	return BuildProof(app, nonce, padlock)
}

// BuildProof frames and encodes a proof from its parts. Version 1 proofs
// omit the leading version field; all other versions carry it. The
// padlock is emitted as given, so callers control its case.
func BuildProof(source AppSource, nonce, padlock string) (string, error) {
	app, err := source.identityApp()
	if err != nil {
		return "", err
	}
	if err := checkNonce(app.Version, nonce); err != nil {
		return "", err
	}
	if padlock == "" || strings.Contains(padlock, ":") {
		return "", NewError(ErrProofInvalid, "padlock must be a colon-free hex string", nil)
	}

	var payload string
	if app.Version == V1 {
		payload = app.ID + ":" + nonce + ":" + padlock
	} else {
		payload = app.Version.String() + ":" + app.ID + ":" + nonce + ":" + padlock
	}
	return base64.RawURLEncoding.EncodeToString([]byte(payload)), nil
}

// ParseProof decodes a proof string into its parts. Both the unpadded and
// padded base64url forms are accepted. Three-part payloads are version 1;
// four-part payloads carry an explicit leading version, and a leading "1"
// is accepted as equivalent to the three-part form.
func ParseProof(s string) (*Proof, error) {
	decoded, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(s, "="))
	if err != nil {
		return nil, NewError(ErrProofNotBase64, "proof is not a base64url string", err)
	}

	parts := strings.Split(string(decoded), ":")

	var proof *Proof
	switch len(parts) {
	case 3:
		proof = &Proof{Version: V1, ID: parts[0], Nonce: parts[1], Padlock: parts[2]}
	case 4:
		version, err := strconv.Atoi(parts[0])
		if err != nil || version < 1 {
			return nil, NewError(ErrProofInvalid, "proof version must be a positive integer", nil)
		}
		proof = &Proof{Version: Version(version), ID: parts[1], Nonce: parts[2], Padlock: parts[3]}
	default:
		return nil, NewError(ErrProofInvalid, "proof must have 3 or 4 colon-separated parts", nil)
	}

	if proof.ID == "" || proof.Nonce == "" || proof.Padlock == "" {
		return nil, NewError(ErrProofInvalid, "proof must not contain empty fields", nil)
	}
	return proof, nil
}
