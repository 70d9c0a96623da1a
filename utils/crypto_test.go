package utils

import (
	"bytes"
	"testing"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	plaintext := []byte("Name,Vendor Name\nSlack,Salesforce\n")

	ciphertext, err := EncryptBytes("secret-one", plaintext)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if bytes.Contains(ciphertext, plaintext) {
		t.Fatal("ciphertext leaks plaintext")
	}

	got, err := DecryptBytes("secret-one", ciphertext)
	if err != nil {
		t.Fatalf("decrypt: %v", err)
	}
	if !bytes.Equal(got, plaintext) {
		t.Fatalf("round trip mismatch: %q", got)
	}
}

func TestDecryptWrongSecretFailsClosed(t *testing.T) {
	ciphertext, err := EncryptBytes("secret-one", []byte("payload"))
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if _, err := DecryptBytes("secret-two", ciphertext); err == nil {
		t.Fatal("wrong secret must fail, not return garbage")
	}
}

func TestDecryptCorruptedCiphertext(t *testing.T) {
	ciphertext, err := EncryptBytes("secret-one", []byte("payload"))
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}

	corrupted := append([]byte(nil), ciphertext...)
	corrupted[len(corrupted)-1] ^= 0xff
	if _, err := DecryptBytes("secret-one", corrupted); err == nil {
		t.Fatal("corrupted ciphertext must fail")
	}

	if _, err := DecryptBytes("secret-one", ciphertext[:4]); err == nil {
		t.Fatal("truncated ciphertext must fail")
	}
}

func TestEncryptIsNotDeterministic(t *testing.T) {
	a, err := EncryptBytes("secret", []byte("payload"))
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	b, err := EncryptBytes("secret", []byte("payload"))
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if bytes.Equal(a, b) {
		t.Fatal("nonce reuse: two encryptions produced identical ciphertext")
	}
}
