package utils

import "testing"

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("hunter2")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == "hunter2" {
		t.Fatal("Expected hash to differ from the password")
	}
	if !CheckPasswordHash("hunter2", hash) {
		t.Error("Expected password to match its hash")
	}
	if CheckPasswordHash("hunter3", hash) {
		t.Error("Expected wrong password to be rejected")
	}
}
