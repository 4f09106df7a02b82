package utils

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	hashed, err := HashPassword("S3cret!pass")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hashed == "S3cret!pass" {
		t.Fatal("password stored unhashed")
	}

	if err := CheckPassword(hashed, "S3cret!pass"); err != nil {
		t.Errorf("CheckPassword with correct password: %v", err)
	}
	if err := CheckPassword(hashed, "wrong-password"); err == nil {
		t.Error("expected error for wrong password")
	}
}
