// Package appidentity implements a lightweight application-to-application
// authentication scheme. A client holding a shared (id, secret) credential
// generates a short opaque proof string that a server holding the same
// credential verifies statelessly.
//
// A proof is the base64url encoding (no padding) of "id:nonce:padlock"
// for version 1, or "version:id:nonce:padlock" for versions 2 and later.
// The padlock is the version's digest (SHA-256, SHA-384, or SHA-512) over
// "id:nonce:secret", hex-encoded. Version 1 nonces are opaque tokens;
// later versions use near-present UTC timestamps bounded by a per-app
// fuzz window, which is the scheme's replay defense.
//
// Verification has two entry points: VerifyProof returns a tagged error
// for every negative outcome, while CheckProof folds verify-time
// negatives into a (nil, nil) result for callers, such as HTTP
// middleware, that only care whether a request is authenticated.
package appidentity
