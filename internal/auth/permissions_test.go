package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasPermission(t *testing.T) {
	tests := []struct {
		name       string
		role       string
		permission string
		want       bool
	}{
		{"admin can moderate", RoleAdmin, "moderation:write", true},
		{"admin can read audit log", RoleAdmin, "audit:read", true},
		{"employer cannot moderate", RoleEmployer, "moderation:write", false},
		{"employer can post own jobs", RoleEmployer, "jobs:write:self", true},
		{"candidate cannot read audit log", RoleCandidate, "audit:read", false},
		{"unknown role has nothing", "superuser", "moderation:write", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HasPermission(tt.role, tt.permission))
		})
	}
}
