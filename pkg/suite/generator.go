package suite

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"gitlab.com/caffeinatedjack/appidentity/pkg/appidentity"
)

// GenerateOptions identifies the generating implementation in the suite
// header.
type GenerateOptions struct {
	Name    string
	Version string
}

// Generate produces a fresh suite with the required bank (every
// conforming implementation must pass it) followed by the optional bank
// (implementations should pass it; strict runners treat it as
// required).
//
// Timestamp tests are generated relative to the current time, so a suite
// is meant to be consumed soon after generation; expect-fail timestamp
// tests only grow more stale.
func Generate(opts GenerateOptions) (*Suite, error) {
	name := opts.Name
	if name == "" {
		name = "appidentity"
	}
	version := opts.Version
	if version == "" {
		version = "dev"
	}

	b := &suiteBuilder{
		suite: &Suite{
			Name:        name,
			Version:     version,
			SpecVersion: SpecVersion,
			Description: fmt.Sprintf("Integration suite generated by %s %s", name, version),
		},
	}

	b.requiredTests()
	b.optionalTests()
	if b.err != nil {
		return nil, b.err
	}
	return b.suite, nil
}

type suiteBuilder struct {
	suite *Suite
	err   error
}

// newCredential returns a fresh random (id, secret) pair.
func newCredential() (string, string) {
	buf := make([]byte, 16)
	rand.Read(buf)
	return uuid.NewString(), hex.EncodeToString(buf)
}

func (b *suiteBuilder) add(t Test) {
	b.suite.Tests = append(b.suite.Tests, t)
}

// proofFor generates a proof, recording the first failure.
func (b *suiteBuilder) proofFor(input appidentity.AppInput, nonce string) string {
	if b.err != nil {
		return ""
	}
	var proof string
	var err error
	if nonce == "" {
		proof, err = appidentity.GenerateProof(input)
	} else {
		proof, err = appidentity.GenerateProofWithNonce(input, nonce)
	}
	if err != nil {
		b.err = fmt.Errorf("generating proof: %w", err)
	}
	return proof
}

// rawProof frames arbitrary parts without the structural checks the
// library applies, for deliberately malformed vectors.
func rawProof(parts ...string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(strings.Join(parts, ":")))
}

func timestampNonce(offset time.Duration) string {
	return time.Now().UTC().Add(offset).Format("20060102T150405.000000") + "Z"
}

func (b *suiteBuilder) requiredTests() {
	for _, v := range appidentity.Versions {
		id, secret := newCredential()
		input := appidentity.AppInput{ID: id, Secret: secret, Version: int(v)}
		b.add(Test{
			Description: fmt.Sprintf("valid v%d proof round-trips", v),
			App:         TestApp{ID: id, Secret: secret, Version: int(v)},
			Proof:       b.proofFor(input, ""),
			Expect:      "pass",
			Required:    true,
			SpecVersion: int(v),
		})
	}

	id, secret := newCredential()
	padlock, err := appidentity.Padlock(appidentity.AppInput{ID: id, Secret: secret, Version: 1}, "nonce")
	if err != nil && b.err == nil {
		b.err = fmt.Errorf("generating padlock: %w", err)
	}
	b.add(Test{
		Description: "proof with an unknown version is rejected",
		App:         TestApp{ID: id, Secret: secret, Version: 1},
		Proof:       rawProof("9", id, "nonce", padlock),
		Expect:      "fail",
		Required:    true,
		SpecVersion: 1,
	})

	clientID, sharedSecret := newCredential()
	b.add(Test{
		Description: "proof for a different app id is rejected",
		App:         TestApp{ID: uuid.NewString(), Secret: sharedSecret, Version: 1},
		Proof:       b.proofFor(appidentity.AppInput{ID: clientID, Secret: sharedSecret, Version: 1}, ""),
		Expect:      "fail",
		Required:    true,
		SpecVersion: 1,
	})

	id, secret = newCredential()
	_, otherSecret := newCredential()
	b.add(Test{
		Description: "proof built with a different secret is rejected",
		App:         TestApp{ID: id, Secret: secret, Version: 1},
		Proof:       b.proofFor(appidentity.AppInput{ID: id, Secret: otherSecret, Version: 1}, ""),
		Expect:      "fail",
		Required:    true,
		SpecVersion: 1,
	})

	id, secret = newCredential()
	padlock, err = appidentity.Padlock(appidentity.AppInput{ID: id, Secret: secret, Version: 1}, "nonce")
	if err != nil && b.err == nil {
		b.err = fmt.Errorf("generating padlock: %w", err)
	}
	b.add(Test{
		Description: "proof with an empty nonce is rejected",
		App:         TestApp{ID: id, Secret: secret, Version: 1},
		Proof:       rawProof(id, "", padlock),
		Expect:      "fail",
		Required:    true,
		SpecVersion: 1,
	})

	for _, v := range []appidentity.Version{appidentity.V2, appidentity.V3, appidentity.V4} {
		id, secret := newCredential()
		input := appidentity.AppInput{ID: id, Secret: secret, Version: int(v)}
		b.add(Test{
			Description: fmt.Sprintf("v%d timestamp outside the default fuzz is rejected", v),
			App:         TestApp{ID: id, Secret: secret, Version: int(v)},
			Proof:       b.proofFor(input, timestampNonce(-900*time.Second)),
			Expect:      "fail",
			Required:    true,
			SpecVersion: int(v),
		})
		b.add(Test{
			Description: fmt.Sprintf("v%d timestamp in the recent past is accepted", v),
			App:         TestApp{ID: id, Secret: secret, Version: int(v)},
			Proof:       b.proofFor(input, timestampNonce(-240*time.Second)),
			Expect:      "pass",
			Required:    true,
			SpecVersion: int(v),
		})
	}

	id, secret = newCredential()
	b.add(Test{
		Description: "v2 timestamp in the near future is accepted",
		App:         TestApp{ID: id, Secret: secret, Version: 2},
		Proof:       b.proofFor(appidentity.AppInput{ID: id, Secret: secret, Version: 2}, timestampNonce(240*time.Second)),
		Expect:      "pass",
		Required:    true,
		SpecVersion: 2,
	})
}

func (b *suiteBuilder) optionalTests() {
	id, secret := newCredential()
	fuzzConfig := map[string]any{"fuzz": 300}
	input := appidentity.AppInput{ID: id, Secret: secret, Version: 2, Config: fuzzConfig}
	b.add(Test{
		Description: "custom fuzz accepts a timestamp inside the window",
		App:         TestApp{ID: id, Secret: secret, Version: 2, Config: fuzzConfig},
		Proof:       b.proofFor(input, timestampNonce(-120*time.Second)),
		Expect:      "pass",
		Required:    false,
		SpecVersion: 2,
	})
	b.add(Test{
		Description: "custom fuzz rejects a timestamp outside the window",
		App:         TestApp{ID: id, Secret: secret, Version: 2, Config: fuzzConfig},
		Proof:       b.proofFor(input, timestampNonce(-450*time.Second)),
		Expect:      "fail",
		Required:    false,
		SpecVersion: 2,
	})

	id, secret = newCredential()
	padlock, err := appidentity.Padlock(appidentity.AppInput{ID: id, Secret: secret, Version: 1}, "nonce")
	if err != nil && b.err == nil {
		b.err = fmt.Errorf("generating padlock: %w", err)
	}
	b.add(Test{
		Description: "lower-case padlock on the wire is accepted",
		App:         TestApp{ID: id, Secret: secret, Version: 1},
		Proof:       rawProof(id, "nonce", strings.ToLower(padlock)),
		Expect:      "pass",
		Required:    false,
		SpecVersion: 1,
	})

	bigID := strings.Repeat(uuid.NewString(), 8)
	bigBuf := make([]byte, 128)
	rand.Read(bigBuf)
	bigSecret := hex.EncodeToString(bigBuf)
	b.add(Test{
		Description: "oversized id and secret fields round-trip",
		App:         TestApp{ID: bigID, Secret: bigSecret, Version: 1},
		Proof:       b.proofFor(appidentity.AppInput{ID: bigID, Secret: bigSecret, Version: 1}, ""),
		Expect:      "pass",
		Required:    false,
		SpecVersion: 1,
	})

	id, secret = newCredential()
	b.add(Test{
		Description: "v1-framed proof presented to a v2 app is rejected",
		App:         TestApp{ID: id, Secret: secret, Version: 2},
		Proof:       b.proofFor(appidentity.AppInput{ID: id, Secret: secret, Version: 1}, ""),
		Expect:      "fail",
		Required:    false,
		SpecVersion: 2,
	})

	id, secret = newCredential()
	padlock, err = appidentity.Padlock(appidentity.AppInput{ID: id, Secret: secret, Version: 1}, "nonce")
	if err != nil && b.err == nil {
		b.err = fmt.Errorf("generating padlock: %w", err)
	}
	// Convention: a 4-part payload with a leading "1" is equivalent to
	// the 3-part v1 form.
	b.add(Test{
		Description: "four-part proof with a leading version 1 is accepted",
		App:         TestApp{ID: id, Secret: secret, Version: 1},
		Proof:       rawProof("1", id, "nonce", padlock),
		Expect:      "pass",
		Required:    false,
		SpecVersion: 1,
	})
}
