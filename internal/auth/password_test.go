package auth

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/campus-events/campus-events/internal/config"
)

func fastHasher() *PasswordHasher {
	return NewPasswordHasher(config.PasswordConfig{BcryptCost: bcrypt.MinCost})
}

func TestPasswordHasher_RoundTrip(t *testing.T) {
	hasher := fastHasher()

	hash, err := hasher.Hash("correct horse battery staple")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if hash == "correct horse battery staple" {
		t.Fatal("hash equals plaintext")
	}
	if !strings.HasPrefix(hash, "$2") {
		t.Errorf("hash is not a bcrypt hash: %q", hash)
	}

	if !hasher.Verify("correct horse battery staple", hash) {
		t.Error("correct password rejected")
	}
	if hasher.Verify("wrong password", hash) {
		t.Error("wrong password accepted")
	}
}

func TestPasswordHasher_HashesAreSalted(t *testing.T) {
	hasher := fastHasher()

	first, err := hasher.Hash("same-password")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	second, err := hasher.Hash("same-password")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if first == second {
		t.Error("two hashes of the same password are identical; salt missing")
	}
}

func TestPasswordHasher_EmptyAndMalformedInputs(t *testing.T) {
	hasher := fastHasher()

	hash, err := hasher.Hash("something")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}

	if hasher.Verify("", hash) {
		t.Error("empty plaintext accepted")
	}
	if hasher.Verify("something", "") {
		t.Error("empty stored hash accepted")
	}
	if hasher.Verify("something", "not-a-bcrypt-hash") {
		t.Error("malformed stored hash accepted")
	}
}

func TestPasswordHasher_DefaultCost(t *testing.T) {
	hasher := NewPasswordHasher(config.PasswordConfig{})
	if hasher.cost != 12 {
		t.Errorf("expected default cost 12, got %d", hasher.cost)
	}
}
