package auth

import "testing"

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("secret123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "secret123" {
		t.Fatal("hash must not equal the plaintext")
	}

	if !VerifyPassword("secret123", hash) {
		t.Error("correct password did not verify")
	}
	if VerifyPassword("secret124", hash) {
		t.Error("wrong password verified")
	}
}

func TestHashIsSalted(t *testing.T) {
	first, err := HashPassword("secret123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	second, err := HashPassword("secret123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if first == second {
		t.Error("two hashes of the same password should differ")
	}
}

func TestVerifyMalformedHash(t *testing.T) {
	if VerifyPassword("secret123", "not-a-bcrypt-hash") {
		t.Error("malformed stored hash must verify false")
	}
	if VerifyPassword("secret123", "") {
		t.Error("empty stored hash must verify false")
	}
}
