package crypto

import (
	"bytes"
	"encoding/base64"
	"strings"
	"testing"
)

func TestSealerRoundTrip(t *testing.T) {
	key := base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{7}, 32))
	sealer, err := New(key)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !sealer.Configured() {
		t.Fatal("expected sealer to be configured")
	}
	sealed, err := sealer.SealString("046454286")
	if err != nil {
		t.Fatalf("seal: %v", err)
	}
	if bytes.Contains(sealed, []byte("046454286")) {
		t.Fatal("expected sealed value to hide plaintext")
	}
	plain, err := sealer.OpenString(sealed)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if plain != "046454286" {
		t.Fatalf("expected round trip, got %q", plain)
	}
}

func TestSealerUsesFreshNonce(t *testing.T) {
	sealer, err := New(strings.Repeat("ab", 32))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	first, _ := sealer.SealString("same")
	second, _ := sealer.SealString("same")
	if bytes.Equal(first, second) {
		t.Fatal("expected distinct ciphertexts for repeated plaintext")
	}
}

func TestSealerDerivesKeyFromPassphrase(t *testing.T) {
	first, err := New("a long passphrase that is not a raw key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := New("a long passphrase that is not a raw key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sealed, err := first.SealString("12345678")
	if err != nil {
		t.Fatalf("seal: %v", err)
	}
	plain, err := second.OpenString(sealed)
	if err != nil {
		t.Fatalf("open with same passphrase: %v", err)
	}
	if plain != "12345678" {
		t.Fatalf("expected 12345678, got %q", plain)
	}
}

func TestSealerRejectsShortKey(t *testing.T) {
	if _, err := New("short"); err == nil {
		t.Fatal("expected error for short key material")
	}
}

func TestSealerPassthroughWithoutKey(t *testing.T) {
	sealer, err := New("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sealer.Configured() {
		t.Fatal("expected unconfigured sealer")
	}
	sealed, _ := sealer.SealString("plain")
	if string(sealed) != "plain" {
		t.Fatalf("expected passthrough, got %q", sealed)
	}
}

func TestSealerDetectsTampering(t *testing.T) {
	sealer, _ := New(strings.Repeat("cd", 32))
	sealed, _ := sealer.SealString("secret")
	sealed[len(sealed)-1] ^= 0xff
	if _, err := sealer.Open(sealed); err == nil {
		t.Fatal("expected authentication failure")
	}
	if _, err := sealer.Open([]byte{1, 2}); err != ErrCiphertextTooShort {
		t.Fatalf("expected ErrCiphertextTooShort, got %v", err)
	}
}
