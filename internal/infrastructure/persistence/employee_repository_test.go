package persistence

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/callcrm/backend/internal/domain/identity"
	"github.com/callcrm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestGormEmployeeRepository_FindByUsernameForTenant(t *testing.T) {
	t.Run("lowercases the username before matching", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormEmployeeRepository(db)

		tenantID := uuid.New()
		employeeID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "tenant_id", "username", "password_hash", "status"}).
			AddRow(employeeID, tenantID, "jdoe", "$2a$12$hash", "active")

		mock.ExpectQuery(`SELECT \* FROM "employees" WHERE tenant_id = \$1 AND username = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(tenantID, "jdoe", 1).
			WillReturnRows(rows)

		employee, err := repo.FindByUsernameForTenant(context.Background(), tenantID, "  JDoe ")

		assert.NoError(t, err)
		require.NotNil(t, employee)
		assert.Equal(t, "jdoe", employee.Username)
		assert.Equal(t, identity.EmployeeStatusActive, employee.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects empty username", func(t *testing.T) {
		db, _, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormEmployeeRepository(db)

		employee, err := repo.FindByUsernameForTenant(context.Background(), uuid.New(), "")

		assert.Error(t, err)
		assert.Nil(t, employee)
	})

	t.Run("returns ErrNotFound for unknown username", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormEmployeeRepository(db)

		tenantID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "employees" WHERE tenant_id = \$1 AND username = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(tenantID, "ghost", 1).
			WillReturnError(gorm.ErrRecordNotFound)

		employee, err := repo.FindByUsernameForTenant(context.Background(), tenantID, "ghost")

		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.Nil(t, employee)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormEmployeeRepository_FindAllForTenant(t *testing.T) {
	t.Run("applies role filter with count", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormEmployeeRepository(db)

		tenantID := uuid.New()
		roleID := uuid.New()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "employees" WHERE tenant_id = \$1 AND role_id = \$2`).
			WithArgs(tenantID, roleID.String()).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		rows := sqlmock.NewRows([]string{"id", "tenant_id", "username", "password_hash", "status", "role_id"}).
			AddRow(uuid.New(), tenantID, "jdoe", "$2a$12$hash", "active", roleID)

		mock.ExpectQuery(`SELECT \* FROM "employees" WHERE tenant_id = \$1 AND role_id = \$2`).
			WithArgs(tenantID, roleID.String()).
			WillReturnRows(rows)

		filter := shared.Filter{Filters: map[string]interface{}{"role_id": roleID.String()}}
		employees, total, err := repo.FindAllForTenant(context.Background(), tenantID, filter)

		assert.NoError(t, err)
		assert.Len(t, employees, 1)
		assert.Equal(t, int64(1), total)
		require.NotNil(t, employees[0].RoleID)
		assert.Equal(t, roleID, *employees[0].RoleID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormEmployeeRepository_CountForTenant(t *testing.T) {
	t.Run("counts tenant employees only", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormEmployeeRepository(db)

		tenantID := uuid.New()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "employees" WHERE tenant_id = \$1`).
			WithArgs(tenantID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

		count, err := repo.CountForTenant(context.Background(), tenantID)

		assert.NoError(t, err)
		assert.Equal(t, int64(7), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormEmployeeRepository_ExistsByUsernameForTenant(t *testing.T) {
	t.Run("returns false for empty username without querying", func(t *testing.T) {
		db, _, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormEmployeeRepository(db)

		exists, err := repo.ExistsByUsernameForTenant(context.Background(), uuid.New(), "")

		assert.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("returns true when username is taken", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormEmployeeRepository(db)

		tenantID := uuid.New()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "employees" WHERE tenant_id = \$1 AND username = \$2`).
			WithArgs(tenantID, "jdoe").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		exists, err := repo.ExistsByUsernameForTenant(context.Background(), tenantID, "JDOE")

		assert.NoError(t, err)
		assert.True(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormEmployeeRepository_DeleteForTenant(t *testing.T) {
	t.Run("returns ErrNotFound when nothing deleted", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormEmployeeRepository(db)

		tenantID := uuid.New()
		employeeID := uuid.New()

		mock.ExpectExec(`DELETE FROM "employees" WHERE tenant_id = \$1 AND id = \$2`).
			WithArgs(tenantID, employeeID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.DeleteForTenant(context.Background(), tenantID, employeeID)

		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
