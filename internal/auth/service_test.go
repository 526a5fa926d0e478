package auth

import "testing"

func TestRegisterAndLogin(t *testing.T) {
	svc := NewService(NewInMemoryUserRepository())

	user, err := svc.Register("Aoi", "aoi@tenzai.test", "secret123", "")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Role != RoleStaff {
		t.Fatalf("default role = %s, want %s", user.Role, RoleStaff)
	}
	if user.Password == "secret123" {
		t.Fatalf("password stored in plain text")
	}

	logged, err := svc.Login("aoi@tenzai.test", "secret123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if logged.Email != "aoi@tenzai.test" {
		t.Fatalf("logged in as %s", logged.Email)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := NewService(NewInMemoryUserRepository())

	if _, err := svc.Register("Aoi", "aoi@tenzai.test", "secret123", RoleAdmin); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Register("Impostor", "aoi@tenzai.test", "other", RoleStaff); err == nil {
		t.Fatalf("expected duplicate email error")
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := NewService(NewInMemoryUserRepository())

	if _, err := svc.Register("", "aoi@tenzai.test", "secret123", ""); err == nil {
		t.Fatalf("expected error for missing name")
	}
	if _, err := svc.Register("Aoi", "aoi@tenzai.test", "secret123", "SUPERUSER"); err == nil {
		t.Fatalf("expected error for unknown role")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc := NewService(NewInMemoryUserRepository())

	if _, err := svc.Register("Aoi", "aoi@tenzai.test", "secret123", ""); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := svc.Login("aoi@tenzai.test", "wrong"); err != ErrInvalidCredentials {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.Login("nobody@tenzai.test", "secret123"); err != ErrInvalidCredentials {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
}
