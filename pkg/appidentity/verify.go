package appidentity

import "context"

// Finder resolves the app credential a parsed proof claims to belong to.
// Implementations typically look the id up in a credential store. A nil
// result with a nil error means the app is unknown.
type Finder func(ctx context.Context, proof *Proof) (AppSource, error)

// VerifyProofString parses and verifies a proof against the app in
// strict mode: every negative outcome is a tagged error.
func VerifyProofString(s string, source AppSource) (*App, error) {
	proof, err := ParseProof(s)
	if err != nil {
		return nil, err
	}
	return VerifyProof(proof, source)
}

// VerifyProof verifies a parsed proof against the app in strict mode. On
// success it returns a copy of the app with Verified set; every negative
// outcome is a tagged error.
//
// The checks run in a fixed order and the first failure is terminal:
// supported version, allowed version, version match, id match, nonce
// policy, padlock comparison.
func VerifyProof(proof *Proof, source AppSource) (*App, error) {
	app, err := source.identityApp()
	if err != nil {
		return nil, err
	}

	if !proof.Version.Supported() {
		return nil, NewError(ErrVersionInvalid, "unsupported version "+proof.Version.String(), nil)
	}
	if VersionDisallowed(proof.Version) {
		return nil, NewError(ErrDisallowedVersion, "version "+proof.Version.String()+" has been disallowed", nil)
	}
	if proof.Version != app.Version {
		return nil, NewError(ErrVersionMismatch, "proof and app versions do not match", nil)
	}
	if proof.ID != app.ID {
		return nil, NewError(ErrAppMismatch, "proof and app ids do not match", nil)
	}
	if err := validateNonce(proof.Version, proof.Nonce, app.Fuzz()); err != nil {
		return nil, err
	}

	secret, err := app.Secret()
	if err != nil {
		return nil, err
	}
	expected := padlockFor(app.ID, proof.Nonce, secret, proof.Version)
	if !padlocksEqual(expected, proof.Padlock) {
		return nil, NewError(ErrPadlockMismatch, "proof padlock does not match", nil)
	}

	return app.verifiedCopy(), nil
}

// CheckProofString parses and verifies a proof in soft mode: any
// verify-time negative outcome, including an unparseable proof, yields
// (nil, nil). App construction failures, secret resolution failures, and
// disallowed versions still surface as errors.
func CheckProofString(s string, source AppSource) (*App, error) {
	proof, err := ParseProof(s)
	if err != nil {
		return nil, nil
	}
	return CheckProof(proof, source)
}

// CheckProof verifies a parsed proof in soft mode. See CheckProofString.
func CheckProof(proof *Proof, source AppSource) (*App, error) {
	app, err := source.identityApp()
	if err != nil {
		return nil, err
	}

	verified, err := VerifyProof(proof, app)
	if err == nil {
		return verified, nil
	}

	code, ok := CodeOf(err)
	if !ok {
		return nil, err
	}
	switch code {
	case ErrVersionInvalid, ErrVersionMismatch, ErrAppMismatch,
		ErrNonceEmpty, ErrNonceFormat, ErrNonceFuzz, ErrPadlockMismatch:
		return nil, nil
	}
	return nil, err
}
