package password

import "testing"

func TestPlaintext(t *testing.T) {
	var v Plaintext
	if !v.Verify("geheim", "geheim") {
		t.Fatal("expected match")
	}
	if v.Verify("geheim", "Geheim") {
		t.Fatal("expected mismatch")
	}
}

func TestBcrypt_AcceptsHashAndLegacyPlaintext(t *testing.T) {
	var v Bcrypt
	hash, err := v.Prepare("geheim")
	if err != nil {
		t.Fatal(err)
	}
	if hash == "geheim" {
		t.Fatal("expected hashed value")
	}
	if !v.Verify(hash, "geheim") || v.Verify(hash, "falsch") {
		t.Fatal("hash verification mismatch")
	}
	if !v.Verify("legacy", "legacy") {
		t.Fatal("expected plaintext record to verify")
	}
}
