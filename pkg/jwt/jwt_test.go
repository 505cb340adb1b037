package jwt

import "testing"

func TestGenerateAndValidateToken(t *testing.T) {
	token, err := GenerateToken(42, "alice@example.com", "alice", "Moderator", 7, "v1")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	claims, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
	if claims.Username != "alice" || claims.RoleName != "Moderator" {
		t.Errorf("claims = %+v", claims)
	}
	if claims.Permissions != 7 {
		t.Errorf("Permissions = %d, want 7", claims.Permissions)
	}
	if claims.TokenVersion != "v1" {
		t.Errorf("TokenVersion = %q, want v1", claims.TokenVersion)
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	if _, err := ValidateToken("not.a.token"); err != ErrInvalidToken {
		t.Errorf("error = %v, want ErrInvalidToken", err)
	}

	token, err := GenerateToken(1, "a@example.com", "a", "User", 3, "v1")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	last := token[len(token)-1]
	flip := byte('A')
	if last == flip {
		flip = 'B'
	}
	tampered := token[:len(token)-1] + string(flip)
	if _, err := ValidateToken(tampered); err != ErrInvalidToken {
		t.Errorf("tampered token error = %v, want ErrInvalidToken", err)
	}
}
