package cryptoprimitives

import (
	"bytes"
	"testing"

	"github.com/inkwell-dev/sync-core/internal/apperr"
)

func TestGenerateDEK_LengthAndRandomness(t *testing.T) {
	p := New()

	d1, err := p.GenerateDEK()
	if err != nil {
		t.Fatalf("GenerateDEK error: %v", err)
	}
	d2, err := p.GenerateDEK()
	if err != nil {
		t.Fatalf("GenerateDEK error: %v", err)
	}

	if len(d1) != 32 {
		t.Fatalf("DEK length = %d, want 32", len(d1))
	}
	if bytes.Equal(d1, d2) {
		t.Fatalf("expected DEKs to differ, but they are equal")
	}
}

func TestDeriveKEK_DeterministicForSameInputs(t *testing.T) {
	p := New()

	password := "hunter2hunter"
	salt := bytes.Repeat([]byte{0xAB}, 32)

	k1 := p.DeriveKEK(password, salt)
	k2 := p.DeriveKEK(password, salt)

	if !bytes.Equal(k1, k2) {
		t.Fatalf("expected identical KEKs for identical inputs")
	}
	if len(k1) != 32 {
		t.Fatalf("KEK length = %d, want 32", len(k1))
	}

	other := p.DeriveKEK("wrongpassword", salt)
	if bytes.Equal(k1, other) {
		t.Fatalf("expected different password to yield a different KEK")
	}
}

func TestEncryptContent_RoundTrip(t *testing.T) {
	p := New()
	dek, err := p.GenerateDEK()
	if err != nil {
		t.Fatalf("GenerateDEK error: %v", err)
	}

	plaintext := []byte(`{"title":"hello"}`)
	ciphertext, nonce, tag, err := p.EncryptContent(plaintext, dek)
	if err != nil {
		t.Fatalf("EncryptContent error: %v", err)
	}
	if len(nonce) != gcmNonceSize {
		t.Fatalf("nonce length = %d, want %d", len(nonce), gcmNonceSize)
	}
	if len(tag) != gcmTagSize {
		t.Fatalf("tag length = %d, want %d", len(tag), gcmTagSize)
	}

	got, err := p.DecryptContent(ciphertext, nonce, tag, dek)
	if err != nil {
		t.Fatalf("DecryptContent error: %v", err)
	}
	if !bytes.Equal(got, plaintext) {
		t.Fatalf("round trip mismatch: got %q, want %q", got, plaintext)
	}
}

func TestEncryptContent_DistinctCiphertextAndNonce(t *testing.T) {
	p := New()
	dek, _ := p.GenerateDEK()
	plaintext := []byte("same plaintext every time")

	ct1, n1, _, err := p.EncryptContent(plaintext, dek)
	if err != nil {
		t.Fatalf("EncryptContent error: %v", err)
	}
	ct2, n2, _, err := p.EncryptContent(plaintext, dek)
	if err != nil {
		t.Fatalf("EncryptContent error: %v", err)
	}

	if bytes.Equal(ct1, ct2) {
		t.Fatalf("expected distinct ciphertexts across calls")
	}
	if bytes.Equal(n1, n2) {
		t.Fatalf("expected distinct nonces across calls")
	}
}

func TestDecryptContent_TagMismatchIsCorruption(t *testing.T) {
	p := New()
	dek, _ := p.GenerateDEK()
	ciphertext, nonce, tag, err := p.EncryptContent([]byte("payload"), dek)
	if err != nil {
		t.Fatalf("EncryptContent error: %v", err)
	}

	flipped := append([]byte(nil), tag...)
	flipped[0] ^= 0xFF

	_, err = p.DecryptContent(ciphertext, nonce, flipped, dek)
	if err == nil {
		t.Fatalf("expected error for flipped tag")
	}
	if !apperr.Is(err, apperr.Corruption) {
		t.Fatalf("expected apperr.Corruption, got %v", err)
	}
}

func TestDecryptContent_FlippedCiphertextBitFails(t *testing.T) {
	p := New()
	dek, _ := p.GenerateDEK()
	ciphertext, nonce, tag, err := p.EncryptContent([]byte("payload"), dek)
	if err != nil {
		t.Fatalf("EncryptContent error: %v", err)
	}

	flipped := append([]byte(nil), ciphertext...)
	flipped[0] ^= 0x01

	if _, err := p.DecryptContent(flipped, nonce, tag, dek); err == nil {
		t.Fatalf("expected error for flipped ciphertext bit")
	}
}

func TestWrapDEK_RoundTrip(t *testing.T) {
	p := New()
	uek, _ := p.GenerateDEK()
	dek, _ := p.GenerateDEK()

	wrapped, nonce, tag, err := p.WrapDEK(dek, uek)
	if err != nil {
		t.Fatalf("WrapDEK error: %v", err)
	}
	got, err := p.UnwrapDEK(wrapped, nonce, tag, uek)
	if err != nil {
		t.Fatalf("UnwrapDEK error: %v", err)
	}
	if !bytes.Equal(got, dek) {
		t.Fatalf("unwrapped DEK mismatch")
	}
}

func TestWrapUEK_RoundTrip(t *testing.T) {
	p := New()
	kek := bytes.Repeat([]byte{0x11}, 32)
	uek, _ := p.GenerateDEK()

	wrapped, nonce, tag, err := p.WrapUEK(uek, kek)
	if err != nil {
		t.Fatalf("WrapUEK error: %v", err)
	}
	got, err := p.UnwrapUEK(wrapped, nonce, tag, kek)
	if err != nil {
		t.Fatalf("UnwrapUEK error: %v", err)
	}
	if !bytes.Equal(got, uek) {
		t.Fatalf("unwrapped UEK mismatch")
	}
}
