package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	for _, valid := range []string{"SuperAdmin", "Admin", "User", "Pending"} {
		role, err := ParseRole(valid)
		require.NoError(t, err)
		assert.Equal(t, UserRole(valid), role)
	}

	// Closed set, exact casing. Anything else is a construction error.
	for _, invalid := range []string{"", "admin", "superadmin", "Manager", "ADMIN", " Admin"} {
		_, err := ParseRole(invalid)
		assert.Error(t, err, "role %q should be rejected", invalid)
	}
}
