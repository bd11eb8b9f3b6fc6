package enums

import (
	"fmt"
	"strings"
)

// Role is the storefront's view of who is acting.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleUser      Role = "user"
	RoleDriver    Role = "driver"
	RoleAssistant Role = "assistant"
	RoleNone      Role = "none"
)

var validRoles = []Role{RoleAdmin, RoleUser, RoleDriver, RoleAssistant, RoleNone}

// backendRoleAliases maps backend role strings (upper-cased) onto storefront roles.
var backendRoleAliases = map[string]Role{
	"ADMIN":         RoleAdmin,
	"ADMINISTRADOR": RoleAdmin,
	"DOMICILIARIO":  RoleDriver,
	"DRIVER":        RoleDriver,
	"REPARTIDOR":    RoleDriver,
	"AUXILIAR":      RoleAssistant,
	"ASSISTANT":     RoleAssistant,
	"CLIENTE":       RoleUser,
	"USUARIO":       RoleUser,
	"USER":          RoleUser,
}

func (r Role) String() string {
	return string(r)
}

func (r Role) IsValid() bool {
	for _, candidate := range validRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// Authenticated is false only for the anonymous role.
func (r Role) Authenticated() bool {
	return r.IsValid() && r != RoleNone
}

// ParseRole converts a storefront role string.
func ParseRole(value string) (Role, error) {
	role := Role(strings.ToLower(strings.TrimSpace(value)))
	if role.IsValid() {
		return role, nil
	}
	return "", fmt.Errorf("invalid role %q", value)
}

// MapBackendRole maps a backend role string case-insensitively.
// Empty and unrecognized strings fall back to RoleUser.
func MapBackendRole(value string) Role {
	if role, ok := backendRoleAliases[strings.ToUpper(strings.TrimSpace(value))]; ok {
		return role
	}
	return RoleUser
}
