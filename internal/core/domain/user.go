package domain

import (
	"fmt"
	"time"
)

// Role is the privilege tier of an identity. Tiers are ordered:
// RoleUser < RoleModerator < RoleAdmin.
type Role uint8

const (
	RoleUser Role = iota
	RoleModerator
	RoleAdmin
)

var roleNames = [...]string{
	RoleUser:      "user",
	RoleModerator: "moderator",
	RoleAdmin:     "admin",
}

// ParseRole converts the wire representation into a Role.
func ParseRole(s string) (Role, error) {
	for r, name := range roleNames {
		if name == s {
			return Role(r), nil
		}
	}
	return RoleUser, fmt.Errorf("%w: unknown role %q", ErrValidation, s)
}

func (r Role) String() string {
	if !r.Valid() {
		return fmt.Sprintf("Role(%d)", uint8(r))
	}
	return roleNames[r]
}

// Valid reports whether r is one of the three declared tiers.
func (r Role) Valid() bool {
	return r <= RoleAdmin
}

// AtLeast reports whether r grants at least the privileges of min.
func (r Role) AtLeast(min Role) bool {
	return r.Valid() && r >= min
}

func (r Role) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("marshal role: invalid value %d", uint8(r))
	}
	return []byte(roleNames[r]), nil
}

func (r *Role) UnmarshalText(b []byte) error {
	parsed, err := ParseRole(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// User models a registered identity.
type User struct {
	ID          string    `json:"-"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Bio         string    `json:"bio"`
	Role        Role      `json:"role"`
	IsSuperuser bool      `json:"-"`
	IsActive    bool      `json:"-"`
	LastLogin   time.Time `json:"-"`
	// CodeIssuedAt is when the currently valid confirmation code was issued.
	// Zero means no code is outstanding.
	CodeIssuedAt time.Time `json:"-"`
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`
}

// EffectiveRole folds the superuser flag into the role tier.
func (u *User) EffectiveRole() Role {
	if u.IsSuperuser {
		return RoleAdmin
	}
	return u.Role
}

func (u *User) IsAdmin() bool {
	return u.EffectiveRole().AtLeast(RoleAdmin)
}

func (u *User) IsModerator() bool {
	return u.EffectiveRole().AtLeast(RoleModerator)
}
