// Package domain holds the team profile model shared by the auth and
// profiles modules.
package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Role is the closed set of profile roles.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleCommercial Role = "commercial"
)

// ParseRole validates a stored or submitted role.
func ParseRole(value string) (Role, error) {
	switch Role(value) {
	case RoleAdmin, RoleCommercial:
		return Role(value), nil
	}
	return "", fmt.Errorf("unknown role %q", value)
}

// Label returns the French display name.
func (r Role) Label() string {
	switch r {
	case RoleAdmin:
		return "Administrateur"
	case RoleCommercial:
		return "Commercial"
	}
	return string(r)
}

// Profile is a team member. The password hash is never part of it.
type Profile struct {
	ID        uuid.UUID
	Email     string
	FirstName string
	LastName  string
	Phone     *string
	Role      Role
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// FullName joins first and last name, skipping blanks.
func (p Profile) FullName() string {
	switch {
	case p.FirstName == "":
		return p.LastName
	case p.LastName == "":
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

// UpdateMe lists the fields a user may change on their own profile.
// Nil means unchanged. Email, role and active flag are not self-editable.
type UpdateMe struct {
	FirstName  *string
	LastName   *string
	Phone      *string
	ClearPhone bool
}

// IsEmpty reports whether the request changes nothing.
func (u UpdateMe) IsEmpty() bool {
	return u.FirstName == nil && u.LastName == nil && u.Phone == nil && !u.ClearPhone
}

// FieldNames returns the JSON names of the fields set on the request.
func (u UpdateMe) FieldNames() []string {
	fields := make([]string, 0, 3)
	if u.FirstName != nil {
		fields = append(fields, "firstName")
	}
	if u.LastName != nil {
		fields = append(fields, "lastName")
	}
	if u.Phone != nil || u.ClearPhone {
		fields = append(fields, "phone")
	}
	return fields
}
