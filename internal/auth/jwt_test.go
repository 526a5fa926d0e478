package auth

import "testing"

func TestGenerateAndValidateToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := GenerateToken("user-1", "aoi@tenzai.test", RoleAdmin)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	userID, email, role, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if userID != "user-1" || email != "aoi@tenzai.test" || role != RoleAdmin {
		t.Fatalf("claims = %s/%s/%s", userID, email, role)
	}
}

func TestGenerateTokenRequiresUserID(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	if _, err := GenerateToken("", "aoi@tenzai.test", RoleStaff); err == nil {
		t.Fatalf("expected error for empty userID")
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	token, err := GenerateToken("user-1", "aoi@tenzai.test", RoleStaff)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	t.Setenv("JWT_SECRET", "rotated-secret")
	if _, _, _, err := ValidateToken(token); err == nil {
		t.Fatalf("expected error for token signed with old secret")
	}
}

func TestValidateTokenGarbage(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	if _, _, _, err := ValidateToken("not.a.token"); err == nil {
		t.Fatalf("expected error for malformed token")
	}
}
