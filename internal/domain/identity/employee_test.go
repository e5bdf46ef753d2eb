package identity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEmployee(t *testing.T) {
	tenantID := uuid.New()

	t.Run("creates employee with valid username and password", func(t *testing.T) {
		employee, err := NewEmployee(tenantID, "jsmith", "Password123")

		require.NoError(t, err)
		assert.NotNil(t, employee)
		assert.Equal(t, tenantID, employee.TenantID)
		assert.Equal(t, "jsmith", employee.Username)
		assert.NotEmpty(t, employee.PasswordHash)
		assert.Equal(t, EmployeeStatusPending, employee.Status)
		assert.Nil(t, employee.RoleID)

		events := employee.GetDomainEvents()
		assert.Len(t, events, 1)
		_, ok := events[0].(*EmployeeCreatedEvent)
		assert.True(t, ok)
	})

	t.Run("normalizes username to lowercase", func(t *testing.T) {
		employee, err := NewEmployee(tenantID, "JSmith", "Password123")

		require.NoError(t, err)
		assert.Equal(t, "jsmith", employee.Username)
	})

	t.Run("fails with empty username", func(t *testing.T) {
		_, err := NewEmployee(tenantID, "", "Password123")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "cannot be empty")
	})

	t.Run("fails with short password", func(t *testing.T) {
		_, err := NewEmployee(tenantID, "jsmith", "Pass1")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "at least 8 characters")
	})

	t.Run("fails with password without numbers", func(t *testing.T) {
		_, err := NewEmployee(tenantID, "jsmith", "Passwordonly")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "at least one letter and one number")
	})

	t.Run("active constructor skips pending status", func(t *testing.T) {
		employee, err := NewActiveEmployee(tenantID, "jsmith", "Password123")

		require.NoError(t, err)
		assert.Equal(t, EmployeeStatusActive, employee.Status)
	})
}

func TestEmployeePassword(t *testing.T) {
	tenantID := uuid.New()

	t.Run("verifies correct password", func(t *testing.T) {
		employee, err := NewActiveEmployee(tenantID, "jsmith", "Password123")
		require.NoError(t, err)

		assert.True(t, employee.VerifyPassword("Password123"))
		assert.False(t, employee.VerifyPassword("WrongPassword1"))
	})

	t.Run("changes password with correct old password", func(t *testing.T) {
		employee, err := NewActiveEmployee(tenantID, "jsmith", "Password123")
		require.NoError(t, err)

		err = employee.ChangePassword("Password123", "NewPassword456")
		require.NoError(t, err)

		assert.True(t, employee.VerifyPassword("NewPassword456"))
		assert.False(t, employee.VerifyPassword("Password123"))
	})

	t.Run("rejects change with wrong old password", func(t *testing.T) {
		employee, err := NewActiveEmployee(tenantID, "jsmith", "Password123")
		require.NoError(t, err)

		err = employee.ChangePassword("WrongOld1", "NewPassword456")
		assert.Error(t, err)
		assert.True(t, employee.VerifyPassword("Password123"))
	})
}

func TestEmployeeLifecycle(t *testing.T) {
	tenantID := uuid.New()

	t.Run("pending employee cannot login", func(t *testing.T) {
		employee, err := NewEmployee(tenantID, "jsmith", "Password123")
		require.NoError(t, err)

		assert.False(t, employee.CanLogin())
	})

	t.Run("activate enables login", func(t *testing.T) {
		employee, err := NewEmployee(tenantID, "jsmith", "Password123")
		require.NoError(t, err)

		require.NoError(t, employee.Activate())
		assert.True(t, employee.CanLogin())
	})

	t.Run("activate is rejected when already active", func(t *testing.T) {
		employee, err := NewActiveEmployee(tenantID, "jsmith", "Password123")
		require.NoError(t, err)

		assert.Error(t, employee.Activate())
	})

	t.Run("deactivated employee cannot login or be locked", func(t *testing.T) {
		employee, err := NewActiveEmployee(tenantID, "jsmith", "Password123")
		require.NoError(t, err)

		require.NoError(t, employee.Deactivate())
		assert.False(t, employee.CanLogin())
		assert.Error(t, employee.Lock(time.Hour))
	})
}

func TestEmployeeLockout(t *testing.T) {
	tenantID := uuid.New()

	t.Run("locks after max failed attempts", func(t *testing.T) {
		employee, err := NewActiveEmployee(tenantID, "jsmith", "Password123")
		require.NoError(t, err)

		locked := false
		for i := 0; i < 5; i++ {
			locked = employee.RecordLoginFailure(5, time.Hour)
		}

		assert.True(t, locked)
		assert.True(t, employee.IsLocked())
		assert.False(t, employee.CanLogin())
	})

	t.Run("stays unlocked below the threshold", func(t *testing.T) {
		employee, err := NewActiveEmployee(tenantID, "jsmith", "Password123")
		require.NoError(t, err)

		locked := employee.RecordLoginFailure(5, time.Hour)

		assert.False(t, locked)
		assert.True(t, employee.CanLogin())
		assert.Equal(t, 1, employee.FailedAttempts)
	})

	t.Run("expired lock no longer blocks login", func(t *testing.T) {
		employee, err := NewActiveEmployee(tenantID, "jsmith", "Password123")
		require.NoError(t, err)

		for i := 0; i < 5; i++ {
			employee.RecordLoginFailure(5, -time.Minute)
		}

		assert.False(t, employee.IsLocked())
	})

	t.Run("successful login resets failed attempts", func(t *testing.T) {
		employee, err := NewActiveEmployee(tenantID, "jsmith", "Password123")
		require.NoError(t, err)

		employee.RecordLoginFailure(5, time.Hour)
		employee.RecordLoginSuccess("192.0.2.10")

		assert.Equal(t, 0, employee.FailedAttempts)
		assert.Equal(t, "192.0.2.10", employee.LastLoginIP)
		assert.NotNil(t, employee.LastLoginAt)
	})

	t.Run("unlock restores active status", func(t *testing.T) {
		employee, err := NewActiveEmployee(tenantID, "jsmith", "Password123")
		require.NoError(t, err)

		require.NoError(t, employee.Lock(time.Hour))
		require.NoError(t, employee.Unlock())

		assert.True(t, employee.CanLogin())
		assert.Equal(t, EmployeeStatusActive, employee.Status)
	})
}

func TestEmployeeRole(t *testing.T) {
	tenantID := uuid.New()

	t.Run("assigns a role", func(t *testing.T) {
		employee, err := NewActiveEmployee(tenantID, "jsmith", "Password123")
		require.NoError(t, err)

		roleID := uuid.New()
		require.NoError(t, employee.AssignRole(roleID))

		require.NotNil(t, employee.RoleID)
		assert.Equal(t, roleID, *employee.RoleID)
	})

	t.Run("rejects nil role ID", func(t *testing.T) {
		employee, err := NewActiveEmployee(tenantID, "jsmith", "Password123")
		require.NoError(t, err)

		assert.Error(t, employee.AssignRole(uuid.Nil))
	})

	t.Run("clear role removes the assignment", func(t *testing.T) {
		employee, err := NewActiveEmployee(tenantID, "jsmith", "Password123")
		require.NoError(t, err)

		require.NoError(t, employee.AssignRole(uuid.New()))
		employee.ClearRole()

		assert.Nil(t, employee.RoleID)
	})
}
