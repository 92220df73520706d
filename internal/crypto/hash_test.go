package crypto

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHash(t *testing.T) {
	h := NewHasher(MinCost)

	hash, err := h.Hash("correct-horse-battery-staple")
	if err != nil {
		t.Fatalf("Hash() unexpected error: %v", err)
	}
	if !strings.HasPrefix(hash, "$2a$10$") {
		t.Errorf("Hash() = %q, want bcrypt cost 10 prefix", hash)
	}
	if strings.Contains(hash, "correct-horse") {
		t.Error("Hash() leaked plaintext")
	}
}

func TestNewHasherClampsCost(t *testing.T) {
	h := NewHasher(4)

	hash, err := h.Hash("secret1")
	if err != nil {
		t.Fatalf("Hash() unexpected error: %v", err)
	}
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		t.Fatalf("bcrypt.Cost() unexpected error: %v", err)
	}
	if cost != MinCost {
		t.Errorf("cost = %d, want %d", cost, MinCost)
	}
}

func TestVerify(t *testing.T) {
	h := NewHasher(MinCost)
	hash, err := h.Hash("my-secure-password")
	if err != nil {
		t.Fatalf("Hash() unexpected error: %v", err)
	}

	tests := []struct {
		name     string
		password string
		want     bool
	}{
		{name: "correct password", password: "my-secure-password", want: true},
		{name: "wrong password", password: "wrong-password", want: false},
		{name: "empty password", password: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			match, err := h.Verify(tt.password, hash)
			if err != nil {
				t.Fatalf("Verify() unexpected error: %v", err)
			}
			if match != tt.want {
				t.Errorf("Verify() = %v, want %v", match, tt.want)
			}
		})
	}
}

func TestHashProducesDifferentHashes(t *testing.T) {
	h := NewHasher(MinCost)

	hash1, err := h.Hash("same-password")
	if err != nil {
		t.Fatalf("Hash() unexpected error: %v", err)
	}
	hash2, err := h.Hash("same-password")
	if err != nil {
		t.Fatalf("Hash() unexpected error: %v", err)
	}
	if hash1 == hash2 {
		t.Error("Hash() produced identical hashes for same password (salt should differ)")
	}
}

func TestHashTooLong(t *testing.T) {
	_, err := NewHasher(MinCost).Hash(strings.Repeat("a", 73))
	if err != ErrPasswordTooLong {
		t.Errorf("Hash() error = %v, want ErrPasswordTooLong", err)
	}
}

func TestVerifyInvalidHash(t *testing.T) {
	_, err := NewHasher(MinCost).Verify("password", "invalid-hash-format")
	if err == nil {
		t.Error("Verify() expected error for invalid hash format")
	}
}
