package utils

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

// A misconfigured cost must not break registration; out-of-range values
// fall back to the bcrypt default.
func TestHashPasswordClampsCost(t *testing.T) {
	for _, cost := range []int{0, -1, 99} {
		hash, err := HashPassword("hunter2", cost)
		if err != nil {
			t.Fatalf("cost %d: %v", cost, err)
		}
		got, err := bcrypt.Cost([]byte(hash))
		if err != nil {
			t.Fatalf("cost %d: parse hash: %v", cost, err)
		}
		if got != bcrypt.DefaultCost {
			t.Fatalf("cost %d: hashed with cost %d, want default %d", cost, got, bcrypt.DefaultCost)
		}
		if !VerifyPassword(hash, "hunter2") {
			t.Fatalf("cost %d: verify failed", cost)
		}
	}
}
