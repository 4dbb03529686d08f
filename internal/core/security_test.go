// AngelaMos | 2026
// security_test.go

package core

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword_SaltsEachHash(t *testing.T) {
	first, err := HashPassword("correct horse battery")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	second, err := HashPassword("correct horse battery")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	if first == second {
		t.Fatal("two hashes of the same password are equal")
	}
	if !strings.HasPrefix(first, "$argon2id$") {
		t.Errorf("hash = %q, want argon2id PHC string", first)
	}
}

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	tests := []struct {
		name     string
		password string
		want     bool
	}{
		{"match", "s3cret-pass", true},
		{"mismatch", "s3cret-pasS", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := VerifyPassword(tt.password, hash)
			if err != nil {
				t.Fatalf("VerifyPassword: %v", err)
			}
			if got != tt.want {
				t.Errorf("VerifyPassword(%q) = %v, want %v", tt.password, got, tt.want)
			}
		})
	}
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	if _, err := VerifyPassword("whatever", "not-a-hash"); err == nil {
		t.Fatal("expected error for malformed hash")
	}
}

func TestVerifyPasswordWithRehash_UpgradesBcrypt(t *testing.T) {
	legacy, err := bcrypt.GenerateFromPassword([]byte("legacy-pass"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}

	valid, newHash, err := VerifyPasswordWithRehash("legacy-pass", string(legacy))
	if err != nil {
		t.Fatalf("VerifyPasswordWithRehash: %v", err)
	}
	if !valid {
		t.Fatal("legacy bcrypt hash did not verify")
	}
	if !strings.HasPrefix(newHash, "$argon2id$") {
		t.Fatalf("newHash = %q, want argon2id upgrade", newHash)
	}

	ok, err := VerifyPassword("legacy-pass", newHash)
	if err != nil || !ok {
		t.Fatalf("upgraded hash verify = %v, %v", ok, err)
	}
}

func TestVerifyPasswordWithRehash_BcryptMismatch(t *testing.T) {
	legacy, err := bcrypt.GenerateFromPassword([]byte("legacy-pass"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}

	valid, newHash, err := VerifyPasswordWithRehash("wrong", string(legacy))
	if err != nil {
		t.Fatalf("VerifyPasswordWithRehash: %v", err)
	}
	if valid || newHash != "" {
		t.Errorf("got valid=%v newHash=%q, want false and empty", valid, newHash)
	}
}

func TestVerifyPasswordWithRehash_CurrentParamsNoRehash(t *testing.T) {
	hash, err := HashPassword("fresh-pass")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	valid, newHash, err := VerifyPasswordWithRehash("fresh-pass", hash)
	if err != nil {
		t.Fatalf("VerifyPasswordWithRehash: %v", err)
	}
	if !valid {
		t.Fatal("expected valid")
	}
	if newHash != "" {
		t.Errorf("newHash = %q, want empty for current params", newHash)
	}
}

func TestVerifyPasswordTimingSafe_MissingUser(t *testing.T) {
	valid, newHash, err := VerifyPasswordTimingSafe(
		"dummy_password_for_timing_attack_prevention",
		nil,
	)
	if err != nil {
		t.Fatalf("VerifyPasswordTimingSafe: %v", err)
	}
	if valid || newHash != "" {
		t.Errorf("missing user verified: valid=%v newHash=%q", valid, newHash)
	}
}
