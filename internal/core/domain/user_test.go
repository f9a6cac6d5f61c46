package domain

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestRole_Ordering(t *testing.T) {
	if !RoleAdmin.AtLeast(RoleModerator) || !RoleModerator.AtLeast(RoleUser) {
		t.Fatalf("expected admin > moderator > user")
	}
	if RoleUser.AtLeast(RoleModerator) {
		t.Fatalf("user must not reach moderator")
	}
	if Role(7).AtLeast(RoleUser) {
		t.Fatalf("invalid role must grant nothing")
	}
}

func TestRole_JSON(t *testing.T) {
	var u struct {
		Role Role `json:"role"`
	}
	if err := json.Unmarshal([]byte(`{"role":"moderator"}`), &u); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if u.Role != RoleModerator {
		t.Fatalf("expected moderator, got %s", u.Role)
	}

	out, err := json.Marshal(u)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `{"role":"moderator"}` {
		t.Fatalf("unexpected json: %s", out)
	}

	if err := json.Unmarshal([]byte(`{"role":"owner"}`), &u); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestUser_EffectiveRole(t *testing.T) {
	u := &User{Role: RoleUser, IsSuperuser: true}
	if !u.IsAdmin() || !u.IsModerator() {
		t.Fatalf("superuser must count as admin")
	}
	u.IsSuperuser = false
	if u.IsAdmin() || u.IsModerator() {
		t.Fatalf("plain user must not be privileged")
	}
}

func TestValidateUsername(t *testing.T) {
	valid := []string{"alice", "a.b@c+d-e_f", "Ёжик", "user42", "ME", "Me", strings.Repeat("x", 150)}
	for _, name := range valid {
		if err := ValidateUsername(name); err != nil {
			t.Errorf("%q: unexpected error %v", name, err)
		}
	}

	invalid := []string{"", "me", "has space", "semi;colon", "slash/", strings.Repeat("x", 151)}
	for _, name := range invalid {
		err := ValidateUsername(name)
		var fe *FieldError
		if !errors.As(err, &fe) || fe.Field != "username" {
			t.Errorf("%q: expected username field error, got %v", name, err)
		}
		if !errors.Is(err, ErrValidation) {
			t.Errorf("%q: expected ErrValidation", name)
		}
	}
}

func TestValidateEmail(t *testing.T) {
	if err := ValidateEmail("a@example.com"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, email := range []string{"", "not-an-email", "Alice <a@example.com>", strings.Repeat("a", 250) + "@x.io"} {
		if err := ValidateEmail(email); !errors.Is(err, ErrValidation) {
			t.Errorf("%q: expected ErrValidation, got %v", email, err)
		}
	}
}

func TestValidSlug(t *testing.T) {
	if !ValidSlug("sci-fi_2") {
		t.Fatalf("expected valid slug")
	}
	if ValidSlug("") || ValidSlug("no spaces") || ValidSlug(strings.Repeat("s", 51)) {
		t.Fatalf("expected invalid slug")
	}
}
