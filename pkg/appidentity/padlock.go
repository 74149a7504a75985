package appidentity

import (
	"crypto/subtle"
	"encoding/hex"
	"strings"
)

// Padlock computes the keyed digest for the app and nonce: the
// version-appropriate hash of "id:nonce:secret", hex-encoded in upper
// case. The secret is resolved exactly once per call and held only for
// the duration of the computation.
func Padlock(source AppSource, nonce string) (string, error) {
	app, err := source.identityApp()
	if err != nil {
		return "", err
	}
	if err := checkNonce(app.Version, nonce); err != nil {
		return "", err
	}

	secret, err := app.Secret()
	if err != nil {
		return "", err
	}

	return padlockFor(app.ID, nonce, secret, app.Version), nil
}

func padlockFor(id, nonce, secret string, version Version) string {
	digest := version.newDigest()
	digest.Write([]byte(id))
	digest.Write([]byte{':'})
	digest.Write([]byte(nonce))
	digest.Write([]byte{':'})
	digest.Write([]byte(secret))
	return strings.ToUpper(hex.EncodeToString(digest.Sum(nil)))
}

// padlocksEqual compares two hex padlocks, ASCII case-insensitively and
// in constant time with respect to the secret-derived bytes. Both sides
// are normalized to upper case before the constant-time comparison.
func padlocksEqual(a, b string) bool {
	upperA := strings.ToUpper(a)
	upperB := strings.ToUpper(b)
	if len(upperA) != len(upperB) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(upperA), []byte(upperB)) == 1
}
