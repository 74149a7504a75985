package appidentity

import (
	"encoding/base64"
	"strings"
	"testing"
)

// proofV1Vector is base64url("a:n:" + padlockSHA256) without padding.
const proofV1Vector = "YTpuOkZFQjNEQjY4NDQwNDRENjM5NzI3M0Y2MjcxNTlBRjJBNjBGMDRERjUwRUQyNEE2NDk3Nzk1MTExMTJDNkU5MkY"

func v1App(t *testing.T) *App {
	t.Helper()
	app, err := NewApp(AppInput{ID: "a", Secret: "s", Version: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return app
}

func TestBuildProofV1Vector(t *testing.T) {
	proof, err := BuildProof(v1App(t), "n", padlockSHA256)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if proof != proofV1Vector {
		t.Errorf("proof = %q, want %q", proof, proofV1Vector)
	}
	if strings.Contains(proof, "=") {
		t.Errorf("proof %q carries base64 padding", proof)
	}
}

func TestParseProofV1Vector(t *testing.T) {
	proof, err := ParseProof(proofV1Vector)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if proof.Version != V1 {
		t.Errorf("Version = %d, want 1", proof.Version)
	}
	if proof.ID != "a" || proof.Nonce != "n" {
		t.Errorf("id/nonce = %q/%q, want a/n", proof.ID, proof.Nonce)
	}
	if proof.Padlock != padlockSHA256 {
		t.Errorf("Padlock = %q, want %q", proof.Padlock, padlockSHA256)
	}
}

func TestParseProofPaddingTolerance(t *testing.T) {
	// Re-encode a payload whose length forces padding characters.
	payload := "a:n:" + padlockSHA256
	padded := base64.URLEncoding.EncodeToString([]byte(payload))
	if !strings.Contains(padded, "=") {
		t.Fatalf("test payload does not produce padding")
	}

	fromPadded, err := ParseProof(padded)
	if err != nil {
		t.Fatalf("padded form rejected: %v", err)
	}
	fromRaw, err := ParseProof(base64.RawURLEncoding.EncodeToString([]byte(payload)))
	if err != nil {
		t.Fatalf("unpadded form rejected: %v", err)
	}
	if *fromPadded != *fromRaw {
		t.Errorf("padded parse %+v differs from unpadded parse %+v", fromPadded, fromRaw)
	}
}

func TestParseProofFourPartVersionOne(t *testing.T) {
	// A 4-part payload with a leading "1" is equivalent to the 3-part form.
	encoded := base64.RawURLEncoding.EncodeToString([]byte("1:a:n:" + padlockSHA256))
	proof, err := ParseProof(encoded)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if proof.Version != V1 {
		t.Errorf("Version = %d, want 1", proof.Version)
	}

	if _, err := VerifyProof(proof, v1App(t)); err != nil {
		t.Errorf("4-part v1 proof did not verify: %v", err)
	}
}

func TestParseProofErrors(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		encoded  bool
		wantCode Code
	}{
		{name: "not base64", payload: "not base64!!", wantCode: ErrProofNotBase64},
		{name: "two parts", payload: "a:n", encoded: true, wantCode: ErrProofInvalid},
		{name: "five parts", payload: "2:a:n:x:y", encoded: true, wantCode: ErrProofInvalid},
		{name: "empty id", payload: ":n:" + padlockSHA256, encoded: true, wantCode: ErrProofInvalid},
		{name: "empty nonce", payload: "a::" + padlockSHA256, encoded: true, wantCode: ErrProofInvalid},
		{name: "empty padlock", payload: "a:n:", encoded: true, wantCode: ErrProofInvalid},
		{name: "zero version", payload: "0:a:n:" + padlockSHA256, encoded: true, wantCode: ErrProofInvalid},
		{name: "non-numeric version", payload: "one:a:n:" + padlockSHA256, encoded: true, wantCode: ErrProofInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.payload
			if tt.encoded {
				s = base64.RawURLEncoding.EncodeToString([]byte(tt.payload))
			}
			_, err := ParseProof(s)
			wantCode(t, err, tt.wantCode)
		})
	}
}

func TestGenerateProofRoundTrip(t *testing.T) {
	for _, v := range Versions {
		app, err := NewApp(AppInput{ID: "round-trip", Secret: "round-secret", Version: int(v)})
		if err != nil {
			t.Fatalf("version %d: unexpected error: %v", v, err)
		}

		encoded, err := GenerateProof(app)
		if err != nil {
			t.Fatalf("version %d: unexpected error: %v", v, err)
		}

		parsed, err := ParseProof(encoded)
		if err != nil {
			t.Fatalf("version %d: generated proof does not parse: %v", v, err)
		}
		if parsed.Version != v {
			t.Errorf("version %d: parsed version = %d", v, parsed.Version)
		}
		if parsed.ID != "round-trip" {
			t.Errorf("version %d: parsed id = %q", v, parsed.ID)
		}
		if want := 2 * v.digestSize(); len(parsed.Padlock) != want {
			t.Errorf("version %d: padlock length = %d, want %d", v, len(parsed.Padlock), want)
		}

		verified, err := VerifyProof(parsed, app)
		if err != nil {
			t.Errorf("version %d: round trip did not verify: %v", v, err)
			continue
		}
		if !verified.Verified {
			t.Errorf("version %d: Verified = false after verification", v)
		}
	}
}

func TestBuildProofRejectsBadPadlock(t *testing.T) {
	if _, err := BuildProof(v1App(t), "n", ""); err == nil {
		t.Error("empty padlock accepted")
	}
	if _, err := BuildProof(v1App(t), "n", "AB:CD"); err == nil {
		t.Error("padlock with colon accepted")
	}
}
