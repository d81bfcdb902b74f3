package domain

import (
	"fmt"
	"strings"
)

// Role is the account type. The set is closed.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// Authority returns the scope string checked by the authorization stage.
func (r Role) Authority() string {
	return "ROLE_" + string(r)
}

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// ParseRole accepts the stored role name in any case.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}
