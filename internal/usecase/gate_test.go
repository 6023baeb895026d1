package usecase

import (
	"testing"

	"portfolio-server/internal/domain"
)

func TestLoginNormalizesCaseAndWhitespace(t *testing.T) {
	g := NewGate("admin", []byte("test-key"))

	token, ok := g.Login(" Admin ")
	if !ok {
		t.Fatal("normalized password rejected")
	}
	if g.Verify(token) != domain.RoleAdmin {
		t.Fatal("issued token does not verify as admin")
	}
}

func TestLoginNormalizesConfiguredSecretToo(t *testing.T) {
	g := NewGate(" LadyAdmin ", []byte("test-key"))
	if _, ok := g.Login("ladyadmin"); !ok {
		t.Fatal("secret normalization not applied")
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	g := NewGate("admin", []byte("test-key"))
	if _, ok := g.Login("nope"); ok {
		t.Fatal("wrong password accepted")
	}
}

func TestLoginRejectsEmptySecret(t *testing.T) {
	g := NewGate("", []byte("test-key"))
	if _, ok := g.Login(""); ok {
		t.Fatal("empty secret must never open the gate")
	}
}

func TestVerifyRejectsGarbageAndForeignTokens(t *testing.T) {
	g := NewGate("admin", []byte("test-key"))
	if g.Verify("") != domain.RoleGuest {
		t.Fatal("empty token is not a guest")
	}
	if g.Verify("not-a-token") != domain.RoleGuest {
		t.Fatal("malformed token is not a guest")
	}

	other := NewGate("admin", []byte("other-key"))
	token, _ := other.Login("admin")
	if g.Verify(token) != domain.RoleGuest {
		t.Fatal("token signed with a different key accepted")
	}
}
