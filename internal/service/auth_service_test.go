package service

import (
	"testing"

	"spin2win/internal/model"
)

func TestLoginAndValidate(t *testing.T) {
	svc := NewAuthService("admin", "secret", "test-jwt-secret")

	resp, err := svc.Login("admin", "secret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if resp.Role != model.RoleAdmin {
		t.Fatalf("expected admin role, got %s", resp.Role)
	}

	claims, err := svc.ValidateToken(resp.Token)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if !claims.IsAdmin() || claims.UserID != resp.UserID {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := NewAuthService("admin", "secret", "test-jwt-secret")

	if _, err := svc.Login("admin", "wrong"); err != ErrInvalidCredentials {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
	if _, err := svc.Login("intruder", "secret"); err != ErrInvalidCredentials {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
}

func TestParticipantToken(t *testing.T) {
	svc := NewAuthService("admin", "secret", "test-jwt-secret")

	token, err := svc.GenerateParticipantToken("p1")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if claims.IsAdmin() || claims.UserID != "p1" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestValidateRejectsForeignSecret(t *testing.T) {
	svc := NewAuthService("admin", "secret", "test-jwt-secret")
	other := NewAuthService("admin", "secret", "another-secret")

	token, err := other.GenerateParticipantToken("p1")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if _, err := svc.ValidateToken(token); err != ErrInvalidToken {
		t.Fatalf("expected invalid token, got %v", err)
	}
}
